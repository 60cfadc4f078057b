package store

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"hash/crc32"

	"github.com/strikeworks/strike-core/internal/device"
)

// Record layout, verified in full on every load:
//
//	[0:8]   magic "STRIKECF"
//	[8]     format version (currently 1)
//	[9:13]  body length, big endian
//	[13:n]  body (JSON)
//	[n:n+4] CRC32 (IEEE) over version + length + body
//
// Any mismatch anywhere makes the record unreadable as a whole; there is
// no partially-usable decode result.
var recordMagic = []byte("STRIKECF")

const (
	recordVersion = 1

	// maxBodyLen bounds a decoded body length so a corrupt length field
	// cannot drive a huge allocation.
	maxBodyLen = 1 << 16
)

// persistedConfig is the on-disk shape of device.Config. It is distinct
// from device.Config so that secrets excluded from the config's public
// JSON form still round-trip through persistence.
type persistedConfig struct {
	DeviceID          string `json:"device_id"`
	DeviceName        string `json:"device_name"`
	WifiSSID          string `json:"wifi_ssid"`
	WifiPass          string `json:"wifi_pass"`
	MQTTHost          string `json:"mqtt_host"`
	MQTTPort          uint16 `json:"mqtt_port"`
	MQTTTLS           bool   `json:"mqtt_tls"`
	MQTTTLSVerifyCert bool   `json:"mqtt_tls_verify_cert"`
	MQTTUser          string `json:"mqtt_user"`
	MQTTPass          string `json:"mqtt_pass"`
	ActiveLowTrigger  bool   `json:"active_low_trigger"`
}

func toPersisted(cfg *device.Config) persistedConfig {
	return persistedConfig{
		DeviceID:          cfg.DeviceID,
		DeviceName:        cfg.DeviceName,
		WifiSSID:          cfg.WifiSSID,
		WifiPass:          cfg.WifiPass,
		MQTTHost:          cfg.MQTTHost,
		MQTTPort:          cfg.MQTTPort,
		MQTTTLS:           cfg.MQTTTLS,
		MQTTTLSVerifyCert: cfg.MQTTTLSVerifyCert,
		MQTTUser:          cfg.MQTTUser,
		MQTTPass:          cfg.MQTTPass,
		ActiveLowTrigger:  cfg.ActiveLowTrigger,
	}
}

func (p persistedConfig) toConfig() *device.Config {
	return &device.Config{
		DeviceID:          p.DeviceID,
		DeviceName:        p.DeviceName,
		WifiSSID:          p.WifiSSID,
		WifiPass:          p.WifiPass,
		MQTTHost:          p.MQTTHost,
		MQTTPort:          p.MQTTPort,
		MQTTTLS:           p.MQTTTLS,
		MQTTTLSVerifyCert: p.MQTTTLSVerifyCert,
		MQTTUser:          p.MQTTUser,
		MQTTPass:          p.MQTTPass,
		ActiveLowTrigger:  p.ActiveLowTrigger,
	}
}

// encodeRecord serialises a device configuration into a framed,
// checksummed record.
func encodeRecord(cfg *device.Config) ([]byte, error) {
	body, err := json.Marshal(toPersisted(cfg))
	if err != nil {
		return nil, fmt.Errorf("encoding config body: %w", err)
	}

	buf := make([]byte, 0, len(recordMagic)+1+4+len(body)+4)
	buf = append(buf, recordMagic...)
	buf = append(buf, recordVersion)
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(body)))
	buf = append(buf, body...)

	// Checksum covers everything after the magic.
	sum := crc32.ChecksumIEEE(buf[len(recordMagic):])
	buf = binary.BigEndian.AppendUint32(buf, sum)

	return buf, nil
}

// decodeRecord parses a framed record. Every failure mode returns
// ErrCorruptRecord: callers treat a corrupt record exactly like an absent
// one.
func decodeRecord(raw []byte) (*device.Config, error) {
	headerLen := len(recordMagic) + 1 + 4
	if len(raw) < headerLen+4 {
		return nil, fmt.Errorf("%w: record too short (%d bytes)", ErrCorruptRecord, len(raw))
	}

	if !bytes.Equal(raw[:len(recordMagic)], recordMagic) {
		return nil, fmt.Errorf("%w: bad magic", ErrCorruptRecord)
	}

	version := raw[len(recordMagic)]
	if version != recordVersion {
		return nil, fmt.Errorf("%w: unsupported format version %d", ErrCorruptRecord, version)
	}

	bodyLen := binary.BigEndian.Uint32(raw[len(recordMagic)+1 : headerLen])
	if bodyLen > maxBodyLen || int(bodyLen) != len(raw)-headerLen-4 {
		return nil, fmt.Errorf("%w: length mismatch", ErrCorruptRecord)
	}

	sumOffset := headerLen + int(bodyLen)
	wantSum := binary.BigEndian.Uint32(raw[sumOffset:])
	gotSum := crc32.ChecksumIEEE(raw[len(recordMagic):sumOffset])
	if wantSum != gotSum {
		return nil, fmt.Errorf("%w: checksum mismatch", ErrCorruptRecord)
	}

	var p persistedConfig
	if err := json.Unmarshal(raw[headerLen:sumOffset], &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}

	return p.toConfig(), nil
}

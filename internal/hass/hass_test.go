package hass

import (
	"encoding/json"
	"testing"

	"github.com/strikeworks/strike-core/internal/device"
)

func TestTopics(t *testing.T) {
	topics := Topics{DeviceID: "a0b1c2d3e4f5"}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{name: "availability", got: topics.Availability(), want: "doorctl/a0b1c2d3e4f5/avail"},
		{name: "lock state", got: topics.LockState(), want: "doorctl/a0b1c2d3e4f5/lock/state"},
		{name: "lock command", got: topics.LockCommand(), want: "doorctl/a0b1c2d3e4f5/lock/cmd"},
		{name: "sensor state", got: topics.SensorState(), want: "doorctl/a0b1c2d3e4f5/reed/state"},
		{name: "discovery", got: topics.Discovery(), want: "homeassistant/device/a0b1c2d3e4f5/config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestDiscoveryJSON(t *testing.T) {
	d := NewDiscovery("a0b1c2d3e4f5", "front-door", "1.2.0", 1)

	raw, err := d.JSON()
	if err != nil {
		t.Fatalf("JSON() error = %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("descriptor is not valid JSON: %v", err)
	}

	if decoded["availability_topic"] != "doorctl/a0b1c2d3e4f5/avail" {
		t.Errorf("availability_topic = %v", decoded["availability_topic"])
	}
	if decoded["availability_mode"] != "latest" {
		t.Errorf("availability_mode = %v", decoded["availability_mode"])
	}

	components, ok := decoded["components"].(map[string]any)
	if !ok {
		t.Fatal("descriptor has no components block")
	}

	lockComp, ok := components["lock"].(map[string]any)
	if !ok {
		t.Fatal("descriptor has no lock component")
	}
	if lockComp["platform"] != "lock" {
		t.Errorf("lock platform = %v", lockComp["platform"])
	}
	if lockComp["command_topic"] != "doorctl/a0b1c2d3e4f5/lock/cmd" {
		t.Errorf("lock command_topic = %v", lockComp["command_topic"])
	}
	if lockComp["payload_lock"] != "LOCK" || lockComp["payload_unlock"] != "UNLOCK" {
		t.Errorf("lock payloads = %v/%v", lockComp["payload_lock"], lockComp["payload_unlock"])
	}

	reedComp, ok := components["reed"].(map[string]any)
	if !ok {
		t.Fatal("descriptor has no reed component")
	}
	if reedComp["device_class"] != "door" {
		t.Errorf("reed device_class = %v", reedComp["device_class"])
	}
	if reedComp["state_topic"] != "doorctl/a0b1c2d3e4f5/reed/state" {
		t.Errorf("reed state_topic = %v", reedComp["state_topic"])
	}

	deviceBlock, ok := decoded["device"].(map[string]any)
	if !ok {
		t.Fatal("descriptor has no device block")
	}
	if deviceBlock["name"] != "front-door" {
		t.Errorf("device name = %v", deviceBlock["name"])
	}
}

func TestLockStatePayload(t *testing.T) {
	if got := LockStatePayload(device.Locked); got != "LOCKED" {
		t.Errorf("LockStatePayload(Locked) = %q", got)
	}
	if got := LockStatePayload(device.Unlocked); got != "UNLOCKED" {
		t.Errorf("LockStatePayload(Unlocked) = %q", got)
	}
}

func TestDoorStatePayload(t *testing.T) {
	if got, ok := DoorStatePayload(device.DoorOpen); !ok || got != "ON" {
		t.Errorf("DoorStatePayload(Open) = %q, %v", got, ok)
	}
	if got, ok := DoorStatePayload(device.DoorClosed); !ok || got != "OFF" {
		t.Errorf("DoorStatePayload(Closed) = %q, %v", got, ok)
	}
	if _, ok := DoorStatePayload(device.DoorUnknown); ok {
		t.Error("DoorStatePayload(Unknown) ok = true, want false")
	}
}

func TestParseLockCommand(t *testing.T) {
	tests := []struct {
		payload string
		want    device.LockState
		ok      bool
	}{
		{payload: "LOCK", want: device.Locked, ok: true},
		{payload: "UNLOCK", want: device.Unlocked, ok: true},
		{payload: "lock", ok: false},
		{payload: "", ok: false},
		{payload: "OPEN", ok: false},
	}

	for _, tt := range tests {
		got, ok := ParseLockCommand([]byte(tt.payload))
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("ParseLockCommand(%q) = %v, %v; want %v, %v", tt.payload, got, ok, tt.want, tt.ok)
		}
	}
}

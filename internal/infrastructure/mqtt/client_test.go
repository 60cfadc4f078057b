package mqtt

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/strikeworks/strike-core/internal/device"
)

func testConfig() device.Config {
	return device.Config{
		DeviceID:   "a0b1c2d3e4f5",
		DeviceName: "front-door",
		WifiSSID:   "HomeNet",
		WifiPass:   "secret",
		MQTTHost:   "broker.local",
		MQTTPort:   1883,
	}
}

func TestBuildClientOptionsPlain(t *testing.T) {
	cfg := testConfig()
	cfg.MQTTUser = "door"
	cfg.MQTTPass = "hunter2"

	opts := buildClientOptions(cfg, ClientOptions{})

	if len(opts.Servers) != 1 {
		t.Fatalf("expected 1 broker, got %d", len(opts.Servers))
	}
	if got := opts.Servers[0].String(); got != "tcp://broker.local:1883" {
		t.Errorf("broker URL = %q", got)
	}
	if opts.ClientID != "strikectl-a0b1c2d3e4f5" {
		t.Errorf("client ID = %q", opts.ClientID)
	}
	if opts.Username != "door" || opts.Password != "hunter2" {
		t.Errorf("credentials = %q/%q", opts.Username, opts.Password)
	}
	if opts.TLSConfig != nil {
		t.Error("TLS config set for plain connection")
	}
	if opts.AutoReconnect {
		t.Error("auto-reconnect must stay disabled; the session layer redials")
	}
	if opts.ConnectRetry {
		t.Error("connect retry must stay disabled; the session layer redials")
	}
	if opts.WillEnabled {
		t.Error("will enabled without a will topic")
	}
	if opts.ConnectTimeout != defaultConnectTimeout {
		t.Errorf("connect timeout = %v, want default %v", opts.ConnectTimeout, defaultConnectTimeout)
	}
	if opts.KeepAlive != int64(defaultKeepAlive.Seconds()) {
		t.Errorf("keepalive = %d, want default %v", opts.KeepAlive, defaultKeepAlive)
	}
}

func TestBuildClientOptionsTimeouts(t *testing.T) {
	opts := buildClientOptions(testConfig(), ClientOptions{
		ConnectTimeout: 3 * time.Second,
		KeepAlive:      30 * time.Second,
	})

	if opts.ConnectTimeout != 3*time.Second {
		t.Errorf("connect timeout = %v", opts.ConnectTimeout)
	}
	if opts.KeepAlive != 30 {
		t.Errorf("keepalive = %d, want 30", opts.KeepAlive)
	}
}

func TestBuildClientOptionsTLS(t *testing.T) {
	tests := []struct {
		name         string
		verify       bool
		wantInsecure bool
	}{
		{name: "unverified", verify: false, wantInsecure: true},
		{name: "verified", verify: true, wantInsecure: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.MQTTTLS = true
			cfg.MQTTTLSVerifyCert = tt.verify
			cfg.MQTTPort = 8883

			opts := buildClientOptions(cfg, ClientOptions{})

			if got := opts.Servers[0].Scheme; got != "ssl" {
				t.Errorf("scheme = %q, want ssl", got)
			}
			if opts.TLSConfig == nil {
				t.Fatal("TLS config not set")
			}
			if opts.TLSConfig.InsecureSkipVerify != tt.wantInsecure {
				t.Errorf("InsecureSkipVerify = %v, want %v",
					opts.TLSConfig.InsecureSkipVerify, tt.wantInsecure)
			}
		})
	}
}

func TestBuildClientOptionsWill(t *testing.T) {
	will := Will{
		Topic:    "doorctl/a0b1c2d3e4f5/avail",
		Payload:  "offline",
		QoS:      1,
		Retained: true,
	}

	opts := buildClientOptions(testConfig(), ClientOptions{Will: will})

	if !opts.WillEnabled {
		t.Fatal("will not enabled")
	}
	if opts.WillTopic != will.Topic {
		t.Errorf("will topic = %q", opts.WillTopic)
	}
	if string(opts.WillPayload) != will.Payload {
		t.Errorf("will payload = %q", opts.WillPayload)
	}
	if opts.WillQos != will.QoS || !opts.WillRetained {
		t.Errorf("will qos/retained = %d/%v", opts.WillQos, opts.WillRetained)
	}
}

func TestPublishValidation(t *testing.T) {
	c := New(testConfig(), ClientOptions{})

	tests := []struct {
		name    string
		topic   string
		payload []byte
		qos     byte
		wantErr error
	}{
		{name: "empty topic", topic: "", payload: []byte("x"), qos: 1, wantErr: ErrInvalidTopic},
		{name: "invalid qos", topic: "doorctl/x/lock/state", payload: []byte("x"), qos: 3, wantErr: ErrInvalidQoS},
		{name: "oversized payload", topic: "doorctl/x/lock/state", payload: make([]byte, maxPayloadSize+1), qos: 1, wantErr: ErrPublishFailed},
		{name: "not connected", topic: "doorctl/x/lock/state", payload: []byte("x"), qos: 1, wantErr: ErrNotConnected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.Publish(tt.topic, tt.payload, tt.qos, false)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Publish() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSubscribeValidation(t *testing.T) {
	c := New(testConfig(), ClientOptions{})
	handler := func(string, []byte) error { return nil }

	if err := c.Subscribe("", 1, handler); !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("empty topic error = %v", err)
	}
	if err := c.Subscribe("doorctl/x/lock/cmd", 3, handler); !errors.Is(err, ErrInvalidQoS) {
		t.Errorf("invalid qos error = %v", err)
	}
	if err := c.Subscribe("doorctl/x/lock/cmd", 1, nil); !errors.Is(err, ErrSubscribeFailed) {
		t.Errorf("nil handler error = %v", err)
	}
	if err := c.Subscribe("doorctl/x/lock/cmd", 1, handler); !errors.Is(err, ErrNotConnected) {
		t.Errorf("disconnected error = %v", err)
	}
	if c.SubscriptionCount() != 0 {
		t.Errorf("failed subscribes left %d tracked subscriptions", c.SubscriptionCount())
	}
}

func TestHealthCheck(t *testing.T) {
	c := New(testConfig(), ClientOptions{})

	if err := c.HealthCheck(context.Background()); !errors.Is(err, ErrNotConnected) {
		t.Errorf("disconnected health check error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := c.HealthCheck(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled health check error = %v", err)
	}
}

// fakeMessage implements the paho Message interface for handler tests.
type fakeMessage struct {
	topic   string
	payload []byte
}

func (m fakeMessage) Duplicate() bool   { return false }
func (m fakeMessage) Qos() byte         { return 1 }
func (m fakeMessage) Retained() bool    { return false }
func (m fakeMessage) Topic() string     { return m.topic }
func (m fakeMessage) MessageID() uint16 { return 0 }
func (m fakeMessage) Payload() []byte   { return m.payload }
func (m fakeMessage) Ack()              {}

// captureLogger records log calls for assertions.
type captureLogger struct {
	mu     sync.Mutex
	errors []string
	warns  []string
}

func (l *captureLogger) Error(msg string, _ ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, msg)
}

func (l *captureLogger) Warn(msg string, _ ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, msg)
}

func TestWrapHandlerRecoversPanic(t *testing.T) {
	c := New(testConfig(), ClientOptions{})
	logger := &captureLogger{}
	c.SetLogger(logger)

	wrapped := c.wrapHandler(func(string, []byte) error {
		panic("boom")
	})

	wrapped(nil, fakeMessage{topic: "doorctl/x/lock/cmd", payload: []byte("LOCK")})

	logger.mu.Lock()
	defer logger.mu.Unlock()
	if len(logger.errors) != 1 || !strings.Contains(logger.errors[0], "panic") {
		t.Errorf("panic not logged: %v", logger.errors)
	}
}

func TestWrapHandlerLogsErrors(t *testing.T) {
	c := New(testConfig(), ClientOptions{})
	logger := &captureLogger{}
	c.SetLogger(logger)

	wrapped := c.wrapHandler(func(string, []byte) error {
		return errors.New("bad payload")
	})

	wrapped(nil, fakeMessage{topic: "doorctl/x/lock/cmd", payload: []byte("???")})

	logger.mu.Lock()
	defer logger.mu.Unlock()
	if len(logger.warns) != 1 {
		t.Errorf("handler error not logged: %v", logger.warns)
	}
}

package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestGetConfigPath(t *testing.T) {
	t.Setenv("STRIKECTL_CONFIG", "")
	if got := getConfigPath(); got != defaultConfigPath {
		t.Errorf("getConfigPath() = %q, want %q", got, defaultConfigPath)
	}

	t.Setenv("STRIKECTL_CONFIG", "/etc/strikectl/config.yaml")
	if got := getConfigPath(); got != "/etc/strikectl/config.yaml" {
		t.Errorf("getConfigPath() = %q", got)
	}
}

// TestRun_InvalidConfig verifies run fails on an unparseable config file.
func TestRun_InvalidConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("storage: [not a mapping"), 0600); err != nil {
		t.Fatalf("writing test config: %v", err)
	}
	t.Setenv("STRIKECTL_CONFIG", configPath)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := run(ctx); err == nil {
		t.Fatal("run() should fail with an unparseable config file")
	}
}

// TestRun_FreshDeviceShutsDownCleanly boots a factory-fresh device (no
// config file, empty store) and cancels it; run must exit nil.
func TestRun_FreshDeviceShutsDownCleanly(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("STRIKECTL_CONFIG", filepath.Join(tmpDir, "missing.yaml"))
	t.Setenv("STRIKECTL_STORAGE_PATH", filepath.Join(tmpDir, "strikectl.db"))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(200 * time.Millisecond)
		cancel()
	}()

	done := make(chan error, 1)
	go func() { done <- run(ctx) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run() error = %v, want clean shutdown", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("run() did not shut down")
	}
}

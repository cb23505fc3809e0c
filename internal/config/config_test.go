package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yml"), []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return dir
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != defaultPort || cfg.DBPath != defaultDBPath {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Sensor.Timeout != 500*time.Millisecond || cfg.Sensor.Port != 5000 || cfg.Sensor.Path != "/api/temp" {
		t.Fatalf("unexpected sensor defaults: %+v", cfg.Sensor)
	}
	if !cfg.Control.ApplyWithoutTarget || cfg.Control.OverrideDuration != 6*time.Hour || cfg.Control.Interval != 0 {
		t.Fatalf("unexpected control defaults: %+v", cfg.Control)
	}
	if cfg.Hardware.Enabled || !cfg.Hardware.ActiveLow {
		t.Fatalf("unexpected hardware defaults: %+v", cfg.Hardware)
	}
	if cfg.MQTT.Broker != "" {
		t.Fatalf("mqtt must be off by default, got %q", cfg.MQTT.Broker)
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := writeConfig(t, `
port: "9090"
db:
  path: /var/lib/thermostat/state.db
sensor:
  timeout: 750ms
  port: 8000
control:
  interval: 1m
  timezone: America/New_York
  apply_without_target: false
  override_duration: 2h
hardware:
  enabled: true
  chip: gpiochip4
mqtt:
  broker: tcp://broker.lan:1883
`)
	t.Setenv("THERMOSTAT_AUTH_SIGNING_KEY", "from-env")
	t.Setenv("THERMOSTAT_PORT", "7070")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "7070" {
		t.Fatalf("env must override file, got port %q", cfg.Port)
	}
	if cfg.DBPath != "/var/lib/thermostat/state.db" || cfg.Sensor.Timeout != 750*time.Millisecond || cfg.Sensor.Port != 8000 {
		t.Fatalf("unexpected values: %+v", cfg)
	}
	if cfg.Control.Interval != time.Minute || cfg.Control.ApplyWithoutTarget || cfg.Control.OverrideDuration != 2*time.Hour {
		t.Fatalf("unexpected control: %+v", cfg.Control)
	}
	if cfg.Control.Location.String() != "America/New_York" {
		t.Fatalf("unexpected location %v", cfg.Control.Location)
	}
	if !cfg.Hardware.Enabled || cfg.Hardware.Chip != "gpiochip4" {
		t.Fatalf("unexpected hardware: %+v", cfg.Hardware)
	}
	if cfg.MQTT.Broker != "tcp://broker.lan:1883" {
		t.Fatalf("unexpected mqtt: %+v", cfg.MQTT)
	}
	if cfg.Auth.SigningKey != "from-env" {
		t.Fatalf("signing key from env, got %q", cfg.Auth.SigningKey)
	}
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"timezone":    "control:\n  timezone: Mars/Olympus\n",
		"timeout":     "sensor:\n  timeout: 0s\n",
		"parallelism": "sensor:\n  parallelism: 0\n",
		"interval":    "control:\n  interval: -1s\n",
		"yaml":        "port: [unterminated\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, body)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

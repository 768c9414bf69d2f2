package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
policy:
  history_capacity: 50
generator:
  seed: 42
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.Policy.TickInterval != 100*time.Millisecond {
		t.Fatalf("expected TickInterval default 100ms, got %s", cfg.Policy.TickInterval)
	}
	if cfg.Policy.HistoryCapacity != 50 {
		t.Fatalf("expected HistoryCapacity 50, got %d", cfg.Policy.HistoryCapacity)
	}
	if cfg.Policy.OnSinkError != "continue" {
		t.Fatalf("expected default on_sink_error continue, got %s", cfg.Policy.OnSinkError)
	}
	if cfg.Metrics.Addr != ":9100" {
		t.Fatalf("expected default metrics addr :9100, got %s", cfg.Metrics.Addr)
	}
	if cfg.Generator.SamplingStep != 0.25 {
		t.Fatalf("expected default sampling step 0.25, got %v", cfg.Generator.SamplingStep)
	}
	if cfg.Generator.SpeedMin != 45 || cfg.Generator.SpeedMax != 145 {
		t.Fatalf("expected default speed range 45-145, got %v-%v", cfg.Generator.SpeedMin, cfg.Generator.SpeedMax)
	}
	if cfg.Generator.Seed != 42 {
		t.Fatalf("expected seed 42, got %d", cfg.Generator.Seed)
	}
}

func TestLoadDerivesTickFromNominalSpeed(t *testing.T) {
	path := writeConfig(t, `
policy:
  nominal_speed_kmh: 90
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	// 0.25 m at 25 m/s
	if cfg.Policy.TickInterval != 10*time.Millisecond {
		t.Fatalf("expected derived tick 10ms, got %s", cfg.Policy.TickInterval)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"speed range": `
generator:
  speed_min_kmh: 150
  speed_max_kmh: 100
`,
		"sink policy": `
policy:
  on_sink_error: explode
`,
		"negative step": `
generator:
  sampling_step_m: -0.5
`,
	}
	for name, data := range cases {
		if _, err := Load(writeConfig(t, data)); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestIntervalForSpeed(t *testing.T) {
	if got := IntervalForSpeed(0.25, 36); got != 25*time.Millisecond {
		t.Fatalf("expected 25ms, got %s", got)
	}
	if got := IntervalForSpeed(0.25, 0); got != 0 {
		t.Fatalf("expected 0 for zero speed, got %s", got)
	}
}

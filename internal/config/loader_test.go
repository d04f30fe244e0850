package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoadConfig_Defaults(t *testing.T) {
	v := viper.New()
	cfg, err := LoadConfig(v)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Countdown.Mode != "wall-clock" {
		t.Errorf("Countdown.Mode = %q, want %q", cfg.Countdown.Mode, "wall-clock")
	}
	if cfg.UI.Theme != "digits" {
		t.Errorf("UI.Theme = %q, want %q", cfg.UI.Theme, "digits")
	}
	if cfg.UI.TickInterval != time.Second {
		t.Errorf("UI.TickInterval = %v, want %v", cfg.UI.TickInterval, time.Second)
	}
}

func TestLoadConfig_ProjectFile(t *testing.T) {
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("chdir failed: %v", err)
	}
	defer func() { _ = os.Chdir(oldWd) }()

	if err := os.MkdirAll(ProjectConfigDir, 0755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}

	configContent := `
countdown:
  mode: timer
  duration: 25m
  message: "Break time"
ui:
  theme: fireworks
  tick_interval: 250ms
`
	configPath := filepath.Join(ProjectConfigDir, ProjectConfigFile)
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("write config failed: %v", err)
	}

	v := viper.New()
	cfg, err := LoadConfig(v)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Countdown.Mode != "timer" {
		t.Errorf("Countdown.Mode = %q, want %q", cfg.Countdown.Mode, "timer")
	}
	if cfg.Countdown.Duration != 25*time.Minute {
		t.Errorf("Countdown.Duration = %v, want %v", cfg.Countdown.Duration, 25*time.Minute)
	}
	if cfg.Countdown.Message != "Break time" {
		t.Errorf("Countdown.Message = %q, want %q", cfg.Countdown.Message, "Break time")
	}
	if cfg.UI.Theme != "fireworks" {
		t.Errorf("UI.Theme = %q, want %q", cfg.UI.Theme, "fireworks")
	}
	if cfg.UI.TickInterval != 250*time.Millisecond {
		t.Errorf("UI.TickInterval = %v, want %v", cfg.UI.TickInterval, 250*time.Millisecond)
	}
}

func TestLoadConfig_ExplicitFile(t *testing.T) {
	tmpDir := t.TempDir()

	configContent := `
countdown:
  target: "2026-12-31T23:59:59Z"
  mode: absolute
`
	configPath := filepath.Join(tmpDir, "custom-config.yaml")
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("write config failed: %v", err)
	}

	v := viper.New()
	v.Set("config", configPath)

	cfg, err := LoadConfig(v)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Countdown.Target != "2026-12-31T23:59:59Z" {
		t.Errorf("Countdown.Target = %q", cfg.Countdown.Target)
	}
	if cfg.Countdown.Mode != "absolute" {
		t.Errorf("Countdown.Mode = %q, want %q", cfg.Countdown.Mode, "absolute")
	}
}

func TestLoadConfig_ExplicitFileMissing(t *testing.T) {
	v := viper.New()
	v.Set("config", "/nonexistent/path/config.yaml")

	_, err := LoadConfig(v)
	if err == nil {
		t.Error("LoadConfig should fail for missing explicit config")
	}
}

func TestLoadConfig_MalformedFile(t *testing.T) {
	tmpDir := t.TempDir()

	configPath := filepath.Join(tmpDir, "broken.yaml")
	if err := os.WriteFile(configPath, []byte("countdown: [unclosed"), 0644); err != nil {
		t.Fatalf("write config failed: %v", err)
	}

	v := viper.New()
	v.Set("config", configPath)

	if _, err := LoadConfig(v); err == nil {
		t.Error("LoadConfig should fail for malformed YAML")
	}
}

func TestLoadConfig_FlagOverride(t *testing.T) {
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("chdir failed: %v", err)
	}
	defer func() { _ = os.Chdir(oldWd) }()

	if err := os.MkdirAll(ProjectConfigDir, 0755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}

	configContent := `
ui:
  theme: from-file
`
	configPath := filepath.Join(ProjectConfigDir, ProjectConfigFile)
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("write config failed: %v", err)
	}

	// Values bound to viper directly (flags, env) win over files.
	v := viper.New()
	v.Set("ui.theme", "from-flag")

	cfg, err := LoadConfig(v)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.UI.Theme != "from-flag" {
		t.Errorf("UI.Theme = %q, want %q", cfg.UI.Theme, "from-flag")
	}
}

func TestLoadConfig_DurationParsing(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name    string
		yaml    string
		want    time.Duration
		extract func(*Config) time.Duration
	}{
		{
			name:    "milliseconds",
			yaml:    "ui:\n  tick_interval: 100ms",
			want:    100 * time.Millisecond,
			extract: func(c *Config) time.Duration { return c.UI.TickInterval },
		},
		{
			name:    "minutes",
			yaml:    "countdown:\n  duration: 5m",
			want:    5 * time.Minute,
			extract: func(c *Config) time.Duration { return c.Countdown.Duration },
		},
		{
			name:    "combined",
			yaml:    "countdown:\n  duration: 1h30m",
			want:    90 * time.Minute,
			extract: func(c *Config) time.Duration { return c.Countdown.Duration },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(tmpDir, tt.name+".yaml")
			if err := os.WriteFile(configPath, []byte(tt.yaml), 0644); err != nil {
				t.Fatalf("write config failed: %v", err)
			}

			v := viper.New()
			v.Set("config", configPath)

			cfg, err := LoadConfig(v)
			if err != nil {
				t.Fatalf("LoadConfig failed: %v", err)
			}

			if got := tt.extract(cfg); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoadConfig_PartialOverride(t *testing.T) {
	tmpDir := t.TempDir()

	configContent := `
countdown:
  message: "Happy New Year!"
`
	configPath := filepath.Join(tmpDir, "partial.yaml")
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("write config failed: %v", err)
	}

	v := viper.New()
	v.Set("config", configPath)

	cfg, err := LoadConfig(v)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Countdown.Message != "Happy New Year!" {
		t.Errorf("Countdown.Message = %q", cfg.Countdown.Message)
	}

	// Defaults should remain for everything not overridden.
	if cfg.Countdown.Mode != "wall-clock" {
		t.Errorf("Countdown.Mode = %q, want default wall-clock", cfg.Countdown.Mode)
	}
	if cfg.UI.MinSwitchInterval != 300*time.Millisecond {
		t.Errorf("UI.MinSwitchInterval = %v, want default", cfg.UI.MinSwitchInterval)
	}
}

func TestGlobalConfigPath(t *testing.T) {
	path := globalConfigPath()
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("globalConfigPath returned %q but file doesn't exist", path)
		}
	}
}

func TestProjectConfigPath(t *testing.T) {
	path := projectConfigPath()
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("projectConfigPath returned %q but file doesn't exist", path)
		}
	}
}

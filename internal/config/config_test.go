package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfigFile(t, ""), nil)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.APIBaseURL != DefaultAPIBaseURL {
		t.Errorf("Expected default API base URL, got %q", cfg.APIBaseURL)
	}
	if cfg.UserAgent != DefaultUserAgent {
		t.Errorf("Expected default user agent, got %q", cfg.UserAgent)
	}
	if cfg.Retry.Amount != DefaultRetryAmount {
		t.Errorf("Expected retry amount %d, got %d", DefaultRetryAmount, cfg.Retry.Amount)
	}
	if cfg.RetryDelay() != DefaultRetryDelay {
		t.Errorf("Expected retry delay %v, got %v", DefaultRetryDelay, cfg.RetryDelay())
	}
	if cfg.OutputDir != "." {
		t.Errorf("Expected output dir '.', got %q", cfg.OutputDir)
	}
	if cfg.DupesOnly || cfg.DownloadVideo {
		t.Error("Expected dupes_only and download_video to default to false")
	}
}

func TestLoadConfig_FileValues(t *testing.T) {
	path := writeConfigFile(t, `
api_base_url: http://localhost:8080/api
output_dir: /tmp/subs
dupes_only: true
retry:
  amount: 3
  delay: 250ms
metrics:
  enabled: true
  port: 9100
`)

	cfg, err := LoadConfig(path, nil)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.APIBaseURL != "http://localhost:8080/api" {
		t.Errorf("Unexpected API base URL %q", cfg.APIBaseURL)
	}
	if cfg.OutputDir != "/tmp/subs" {
		t.Errorf("Unexpected output dir %q", cfg.OutputDir)
	}
	if !cfg.DupesOnly {
		t.Error("Expected dupes_only to be true")
	}
	if cfg.Retry.Amount != 3 {
		t.Errorf("Expected retry amount 3, got %d", cfg.Retry.Amount)
	}
	if cfg.RetryDelay() != 250*time.Millisecond {
		t.Errorf("Expected retry delay 250ms, got %v", cfg.RetryDelay())
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.Port != 9100 {
		t.Errorf("Unexpected metrics config %+v", cfg.Metrics)
	}
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, "retry:\n  amount: 3\n")
	t.Setenv("APP_RETRY_AMOUNT", "7")
	t.Setenv("APP_OUTPUT_DIR", "/data")

	cfg, err := LoadConfig(path, nil)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Retry.Amount != 7 {
		t.Errorf("Expected env retry amount 7, got %d", cfg.Retry.Amount)
	}
	if cfg.OutputDir != "/data" {
		t.Errorf("Expected env output dir, got %q", cfg.OutputDir)
	}
}

func TestLoadConfig_FlagsOverrideEverything(t *testing.T) {
	path := writeConfigFile(t, "retry:\n  amount: 3\ndupes_only: false\n")
	t.Setenv("APP_RETRY_AMOUNT", "7")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.BoolP("dupes-only", "d", false, "")
	flags.IntP("retry-amount", "r", DefaultRetryAmount, "")
	flags.StringP("output", "o", ".", "")
	if err := flags.Parse([]string{"-d", "-r", "2"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := LoadConfig(path, flags)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if !cfg.DupesOnly {
		t.Error("Expected -d to enable dupes_only")
	}
	if cfg.Retry.Amount != 2 {
		t.Errorf("Expected flag retry amount 2, got %d", cfg.Retry.Amount)
	}
	if cfg.OutputDir != "." {
		t.Errorf("Expected unchanged output flag to keep default, got %q", cfg.OutputDir)
	}
}

func TestLoadConfig_NonPositiveRetryAmountFallsBack(t *testing.T) {
	cfg, err := LoadConfig(writeConfigFile(t, "retry:\n  amount: 0\n"), nil)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Retry.Amount != DefaultRetryAmount {
		t.Errorf("Expected fallback to %d, got %d", DefaultRetryAmount, cfg.Retry.Amount)
	}
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"), nil); err == nil {
		t.Fatal("Expected error for missing explicit config file")
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"WARNING", zerolog.WarnLevel},
		{"info", zerolog.InfoLevel},
		{"error", zerolog.ErrorLevel},
		{"debug", zerolog.DebugLevel},
		{"bogus", zerolog.WarnLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLogLevel(tt.input); got != tt.want {
				t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestRetryDelay_Invalid(t *testing.T) {
	cfg := &Config{}
	cfg.Retry.Delay = "soon"
	if cfg.RetryDelay() != DefaultRetryDelay {
		t.Errorf("Expected default delay for invalid value, got %v", cfg.RetryDelay())
	}
}

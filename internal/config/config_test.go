package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// validConfig returns a config that passes validation.
func validConfig() *Config {
	return &Config{
		Dataset:  DatasetConfig{Path: "data.csv", Watch: true, WatchDebounce: time.Second},
		Server:   ServerConfig{Port: 8080, ShutdownTimeout: time.Second, RequestTimeout: time.Second},
		Rate:     RateLimitConfig{Enabled: true, RequestsPerMinute: 100},
		Export:   ExportConfig{MaxConcurrent: 1, MaxWait: time.Second},
		History:  HistoryConfig{Size: 10},
		Logging:  LoggingConfig{Level: "info", Format: "text"},
		Security: SecurityConfig{},
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Dataset.Path != "./data/dataset.csv" {
		t.Errorf("Dataset.Path = %q, want %q", cfg.Dataset.Path, "./data/dataset.csv")
	}
	if !cfg.Dataset.Watch {
		t.Error("Dataset.Watch = false, want true")
	}
	if cfg.Dataset.WatchDebounce != 250*time.Millisecond {
		t.Errorf("Dataset.WatchDebounce = %v, want 250ms", cfg.Dataset.WatchDebounce)
	}
	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, "127.0.0.1")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 8080)
	}
	if cfg.Rate.RequestsPerMinute != 300 {
		t.Errorf("Rate.RequestsPerMinute = %d, want %d", cfg.Rate.RequestsPerMinute, 300)
	}
	if cfg.History.Size != 200 {
		t.Errorf("History.Size = %d, want %d", cfg.History.Size, 200)
	}
	if cfg.Export.MaxConcurrent != 2 || cfg.Export.MaxWait != 10*time.Second {
		t.Errorf("Export = %+v, want 2 slots and 10s wait", cfg.Export)
	}
}

func TestLoad_OverrideDefaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DATASET_WATCH", "false")
	t.Setenv("LOG_FORMAT", "tint")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 9090)
	}
	if cfg.Dataset.Watch {
		t.Error("Dataset.Watch = true, want false")
	}
	if cfg.Logging.Format != "tint" {
		t.Errorf("Logging.Format = %q, want %q", cfg.Logging.Format, "tint")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
}

func TestLoad_AltEnvVar(t *testing.T) {
	t.Setenv("DATA_FILE", "/tmp/alt.csv")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Dataset.Path != "/tmp/alt.csv" {
		t.Errorf("Dataset.Path = %q, want %q", cfg.Dataset.Path, "/tmp/alt.csv")
	}

	t.Setenv("DATASET_PATH", "/tmp/primary.csv")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Dataset.Path != "/tmp/primary.csv" {
		t.Errorf("Dataset.Path = %q, want primary to win", cfg.Dataset.Path)
	}
}

func TestLoad_InvalidValue(t *testing.T) {
	t.Setenv("SERVER_PORT", "eighty")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() expected error for non-numeric port")
	}
	if !strings.Contains(err.Error(), "SERVER_PORT") {
		t.Errorf("error should mention SERVER_PORT: %v", err)
	}
}

func TestLoad_Duration(t *testing.T) {
	t.Setenv("SERVER_READ_TIMEOUT", "45s")
	t.Setenv("DATASET_WATCH_DEBOUNCE", "1m30s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.ReadTimeout != 45*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want %v", cfg.Server.ReadTimeout, 45*time.Second)
	}
	if cfg.Dataset.WatchDebounce != 90*time.Second {
		t.Errorf("Dataset.WatchDebounce = %v, want %v", cfg.Dataset.WatchDebounce, 90*time.Second)
	}
}

func TestLoad_CommaSeparatedSlice(t *testing.T) {
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 172.16.0.0/12 , 192.168.0.0/16")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	expected := []string{"10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"}
	if len(cfg.Security.TrustedProxies) != len(expected) {
		t.Fatalf("TrustedProxies length = %d, want %d", len(cfg.Security.TrustedProxies), len(expected))
	}
	for i, v := range expected {
		if cfg.Security.TrustedProxies[i] != v {
			t.Errorf("TrustedProxies[%d] = %q, want %q", i, cfg.Security.TrustedProxies[i], v)
		}
	}
}

func TestLoadEnvFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	content := "DATASET_PATH=/srv/quiz/answers.csv\nSERVER_PORT=7070\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	// Register cleanup for the variables the file sets.
	t.Setenv("DATASET_PATH", "/overwritten.csv")
	t.Setenv("SERVER_PORT", "1")

	loaded, err := LoadEnvFiles(path, filepath.Join(dir, "missing.env"))
	if err != nil {
		t.Fatalf("LoadEnvFiles() error = %v", err)
	}
	if !loaded {
		t.Fatal("LoadEnvFiles() loaded = false")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Dataset.Path != "/srv/quiz/answers.csv" || cfg.Server.Port != 7070 {
		t.Errorf("env file not applied: %s", cfg)
	}
}

func TestLoadEnvFiles_NoneFound(t *testing.T) {
	loaded, err := LoadEnvFiles(filepath.Join(t.TempDir(), "absent.env"))
	if err != nil || loaded {
		t.Errorf("LoadEnvFiles() = %v, %v; want false, nil", loaded, err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(*Config) {},
		},
		{
			name:    "invalid port",
			mutate:  func(c *Config) { c.Server.Port = 99999 },
			wantErr: "SERVER_PORT",
		},
		{
			name:    "empty dataset path",
			mutate:  func(c *Config) { c.Dataset.Path = " " },
			wantErr: "DATASET_PATH",
		},
		{
			name:    "zero debounce while watching",
			mutate:  func(c *Config) { c.Dataset.WatchDebounce = 0 },
			wantErr: "DATASET_WATCH_DEBOUNCE",
		},
		{
			name: "zero debounce ignored when not watching",
			mutate: func(c *Config) {
				c.Dataset.Watch = false
				c.Dataset.WatchDebounce = 0
			},
		},
		{
			name:    "invalid log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: "LOG_LEVEL",
		},
		{
			name:    "invalid log format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "LOG_FORMAT",
		},
		{
			name:    "api key required without keys",
			mutate:  func(c *Config) { c.Security.RequireAPIKey = true },
			wantErr: "API_KEYS",
		},
		{
			name:    "bad proxy cidr",
			mutate:  func(c *Config) { c.Security.TrustedProxies = []string{"10.0.0.0/40"} },
			wantErr: "TRUSTED_PROXIES",
		},
		{
			name:   "single proxy address",
			mutate: func(c *Config) { c.Security.TrustedProxies = []string{"10.0.0.1", "::1"} },
		},
		{
			name:    "non-positive history",
			mutate:  func(c *Config) { c.History.Size = 0 },
			wantErr: "HISTORY_SIZE",
		},
		{
			name:    "no export slots",
			mutate:  func(c *Config) { c.Export.MaxConcurrent = 0 },
			wantErr: "EXPORT_MAX_CONCURRENT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() expected error mentioning %s", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error should mention %s: %v", tt.wantErr, err)
			}
		})
	}
}

func TestServerAddr(t *testing.T) {
	tests := []struct {
		host string
		port int
		want string
	}{
		{"", 8080, ":8080"},
		{"0.0.0.0", 8080, "0.0.0.0:8080"},
		{"127.0.0.1", 3000, "127.0.0.1:3000"},
		{"::1", 443, "[::1]:443"},
	}

	for _, tt := range tests {
		cfg := &ServerConfig{Host: tt.host, Port: tt.port}
		got := cfg.Addr()
		if got != tt.want {
			t.Errorf("Addr() with host=%q, port=%d = %q, want %q", tt.host, tt.port, got, tt.want)
		}
	}
}

func TestConfigString_MasksAPIKeys(t *testing.T) {
	cfg := validConfig()
	cfg.Security.APIKeys = []string{"super-secret-key"}

	str := cfg.String()
	if strings.Contains(str, "super-secret-key") {
		t.Error("String() should mask API keys")
	}
	if !strings.Contains(str, "MASKED") {
		t.Error("String() should contain MASKED placeholder")
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Port != ":8080" || cfg.StorageDriver != DriverMemory || cfg.RateLimitPerMinute != 30 {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if cfg.DefaultUserID != 1 || cfg.ElectricityUnit != "kWh" || cfg.WaterUnit != "L" || !cfg.SeedSampleData {
		t.Errorf("unexpected domain defaults %+v", cfg)
	}
	if cfg.RedisAddr != "" || cfg.GRPCPort != "" {
		t.Error("optional services should default off")
	}
	if loc, _ := cfg.Location(); loc != time.Local {
		t.Errorf("location = %v", loc)
	}
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	file := "PORT=:9090\nSTORAGE_DRIVER=postgres\nDB_NAME=habits\nSEED_SAMPLE_DATA=false\nTIMEZONE=UTC\n"
	if err := os.WriteFile(filepath.Join(dir, "app.env"), []byte(file), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DB_NAME", "from_env")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "5")

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Port != ":9090" || cfg.StorageDriver != DriverPostgres || cfg.SeedSampleData {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.DBName != "from_env" || cfg.RateLimitPerMinute != 5 {
		t.Errorf("env did not win: %+v", cfg)
	}
	if loc, err := cfg.Location(); err != nil || loc != time.UTC {
		t.Errorf("location = %v, %v", loc, err)
	}
}

func TestLoadConfigRejects(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"STORAGE_DRIVER", "sqlite"},
		{"DEFAULT_USER_ID", "0"},
		{"TIMEZONE", "Mars/Olympus"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := LoadConfig(t.TempDir()); err == nil {
				t.Errorf("%s=%s accepted", tt.key, tt.value)
			}
		})
	}
}

func TestOrigins(t *testing.T) {
	cfg := Config{AllowedOrigins: " http://a.test , ,http://b.test"}
	got := cfg.Origins()
	if len(got) != 2 || got[0] != "http://a.test" || got[1] != "http://b.test" {
		t.Errorf("Origins() = %v", got)
	}
}

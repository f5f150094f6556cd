package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port           string `mapstructure:"PORT"`
	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`

	StorageDriver string `mapstructure:"STORAGE_DRIVER"`
	DBHost        string `mapstructure:"DB_HOST"`
	DBPort        string `mapstructure:"DB_PORT"`
	DBUser        string `mapstructure:"DB_USER"`
	DBPassword    string `mapstructure:"DB_PASSWORD"`
	DBName        string `mapstructure:"DB_NAME"`

	RedisAddr          string `mapstructure:"REDIS_ADDR"`
	RateLimitPerMinute int    `mapstructure:"RATE_LIMIT_PER_MINUTE"`

	GRPCPort string `mapstructure:"GRPC_PORT"`

	DefaultUserID   int64  `mapstructure:"DEFAULT_USER_ID"`
	ElectricityUnit string `mapstructure:"ELECTRICITY_UNIT"`
	WaterUnit       string `mapstructure:"WATER_UNIT"`
	Timezone        string `mapstructure:"TIMEZONE"`
	SeedSampleData  bool   `mapstructure:"SEED_SAMPLE_DATA"`

	LogLevel string `mapstructure:"LOG_LEVEL"`
	LogFile  string `mapstructure:"LOG_FILE"`
}

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

var defaults = map[string]interface{}{
	"PORT":                  ":8080",
	"ALLOWED_ORIGINS":       "http://localhost:5173,http://localhost:3000",
	"STORAGE_DRIVER":        DriverMemory,
	"DB_HOST":               "localhost",
	"DB_PORT":               "5432",
	"DB_USER":               "postgres",
	"DB_PASSWORD":           "",
	"DB_NAME":               "greensteps",
	"REDIS_ADDR":            "",
	"RATE_LIMIT_PER_MINUTE": 30,
	"GRPC_PORT":             "",
	"DEFAULT_USER_ID":       1,
	"ELECTRICITY_UNIT":      "kWh",
	"WATER_UNIT":            "L",
	"TIMEZONE":              "Local",
	"SEED_SAMPLE_DATA":      true,
	"LOG_LEVEL":             "info",
	"LOG_FILE":              "",
}

// LoadConfig reads path/app.env when present; environment variables win.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
		// AutomaticEnv alone does not reach Unmarshal.
		if err = v.BindEnv(key); err != nil {
			return
		}
	}

	err = v.ReadInConfig()
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return
	}
	err = config.validate()
	return
}

func (c Config) validate() error {
	switch c.StorageDriver {
	case DriverMemory, DriverPostgres:
	default:
		return fmt.Errorf("STORAGE_DRIVER must be %q or %q, got %q", DriverMemory, DriverPostgres, c.StorageDriver)
	}
	if c.DefaultUserID <= 0 {
		return fmt.Errorf("DEFAULT_USER_ID must be positive")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Origins splits ALLOWED_ORIGINS on commas.
func (c Config) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("TIMEZONE: %w", err)
	}
	return loc, nil
}

package config

import (
	"errors"
	"fmt"
	"os"

	"shareit/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App        AppConfig        `yaml:"app"`
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Backup     BackupConfig     `yaml:"backup"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Logging    LoggingConfig    `yaml:"logging"`
	Booking    BookingConfig    `yaml:"booking"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
	Exports    ExportConfig     `yaml:"exports"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type ServerConfig struct {
	Port           int    `yaml:"port"`
	ReadHeaderSecs int    `yaml:"read_header_timeout_seconds"`
	WriteSecs      int    `yaml:"write_timeout_seconds"`
	ShutdownSecs   int    `yaml:"shutdown_timeout_seconds"`
	SeedPath       string `yaml:"seed_path"`
}

// DatabaseConfig selects the store backend. An empty path keeps the
// bookings in the in-process store.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type BackupConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Schedule      string `yaml:"schedule"`
	RetentionDays int    `yaml:"retention_days"`
	StoragePath   string `yaml:"storage_path"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	PrometheusPort    int  `yaml:"prometheus_port"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

type BookingConfig struct {
	DefaultPageSize int `yaml:"default_page_size"`
}

type RateLimitConfig struct {
	RequestsPerUser int `yaml:"requests_per_user"`
	WindowSeconds   int `yaml:"window_seconds"`
}

type ExportConfig struct {
	Path string `yaml:"path"`
}

func Load(configPath string) (*Config, error) {
	// .env is optional; environment wins when both are present.
	_ = godotenv.Load(".env")

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	// Предварительная замена переменных окружения в YAML
	expandedData := []byte(os.ExpandEnv(string(data)))

	var config Config
	if err := yaml.Unmarshal(expandedData, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Booking.DefaultPageSize <= 0 {
		return errors.New("booking default_page_size must be positive")
	}
	if c.Backup.Enabled && c.Database.Path == "" {
		return errors.New("backup requires a database path")
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "shareit"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadHeaderSecs == 0 {
		c.Server.ReadHeaderSecs = 5
	}
	if c.Server.WriteSecs == 0 {
		c.Server.WriteSecs = 15
	}
	if c.Server.ShutdownSecs == 0 {
		c.Server.ShutdownSecs = 10
	}
	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}
	if c.Booking.DefaultPageSize == 0 {
		c.Booking.DefaultPageSize = models.DefaultPageSize
	}
	if c.RateLimit.RequestsPerUser == 0 {
		c.RateLimit.RequestsPerUser = 20
	}
	if c.RateLimit.WindowSeconds == 0 {
		c.RateLimit.WindowSeconds = 60
	}
	if c.Exports.Path == "" {
		c.Exports.Path = "exports"
	}
}

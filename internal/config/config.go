package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config конфигурация сервиса
type Config struct {
	Server             ServerConfig             `toml:"server"`
	Database           DatabaseConfig           `toml:"database"`
	Logs               LogsConfig               `toml:"logs"`
	Metrics            MetricsConfig            `toml:"metrics"`
	Scheduling         SchedulingConfig         `toml:"scheduling"`
	AppointmentService AppointmentServiceConfig `toml:"appointment_service"`
	Cache              CacheConfig              `toml:"cache"`
	RateLimit          RateLimitConfig          `toml:"rate_limit"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port" validate:"min=1,max=65535"`
	ReadTimeout     int `toml:"read_timeout" validate:"min=1"`  // секунды
	WriteTimeout    int `toml:"write_timeout" validate:"min=1"` // секунды
	IdleTimeout     int `toml:"idle_timeout" validate:"min=1"`
	ShutdownTimeout int `toml:"shutdown_timeout" validate:"min=1"`
}

type DatabaseConfig struct {
	Host            string `toml:"host" validate:"required"`
	Port            int    `toml:"port" validate:"min=1,max=65535"`
	User            string `toml:"user" validate:"required"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname" validate:"required"`
	SSLMode         string `toml:"sslmode" validate:"oneof=disable require verify-ca verify-full"`
	MaxOpenConns    int    `toml:"max_open_conns" validate:"min=1"`
	MaxIdleConns    int    `toml:"max_idle_conns" validate:"min=0,ltefield=MaxOpenConns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	dsn := fmt.Sprintf("host=%s port=%d user=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.DBName, d.SSLMode)
	if d.Password != "" {
		dsn += fmt.Sprintf(" password='%s'", strings.ReplaceAll(d.Password, "'", `\'`))
	}
	return dsn
}

type LogsConfig struct {
	Level  string `toml:"level" validate:"oneof=debug info warn error"`
	File   string `toml:"file"`
	Format string `toml:"format" validate:"oneof=json console"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path" validate:"startswith=/"`
	ServiceName string `toml:"service_name" validate:"required"`
}

type SchedulingConfig struct {
	// OpenWithoutWeeklyRules клиника работает каждый день, пока не задано ни одного еженедельного правила
	OpenWithoutWeeklyRules bool `toml:"open_without_weekly_rules"`
	// MaterializeInterval период фонового создания слотов на горизонт бронирования; 0 - выключено
	MaterializeInterval Duration `toml:"materialize_interval"`
	// Timezone часовой пояс клиники для определения "сегодня"
	Timezone string `toml:"timezone" validate:"timezone"`
}

type AppointmentServiceConfig struct {
	URL     string `toml:"url" validate:"required,url"`
	Timeout int    `toml:"timeout" validate:"min=1"` // секунды
}

type CacheConfig struct {
	ScheduleTTL Duration `toml:"schedule_ttl"` // 0 - без кэша
}

type RateLimitConfig struct {
	AdminRequestsPerMinute int `toml:"admin_requests_per_minute" validate:"min=1"`
	AdminBurst             int `toml:"admin_burst" validate:"min=1"`
}

// Duration time.Duration, читаемый из строки TOML ("5m", "30s")
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// Load читает .env (если есть), затем TOML-файл, применяет значения по умолчанию
// и переопределения из окружения, после чего валидирует результат
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default значения по умолчанию; поля, заданные в файле, их перезаписывают
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    30,
			IdleTimeout:     60,
			ShutdownTimeout: 15,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			DBName:          "clinic_slots",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			Level:  "info",
			Format: "json",
		},
		Metrics: MetricsConfig{
			Enabled:     true,
			Path:        "/metrics",
			ServiceName: "clinic_slots",
		},
		Scheduling: SchedulingConfig{
			OpenWithoutWeeklyRules: true,
			MaterializeInterval:    Duration{time.Hour},
			Timezone:               "UTC",
		},
		AppointmentService: AppointmentServiceConfig{
			URL:     "http://localhost:8081",
			Timeout: 5,
		},
		Cache: CacheConfig{
			ScheduleTTL: Duration{30 * time.Second},
		},
		RateLimit: RateLimitConfig{
			AdminRequestsPerMinute: 60,
			AdminBurst:             10,
		},
	}
}

// applyEnv переопределяет значения из переменных окружения (секреты и адреса окружения)
func (c *Config) applyEnv() error {
	if v, ok := os.LookupEnv("DB_HOST"); ok {
		c.Database.Host = v
	}
	if v, ok := os.LookupEnv("DB_PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("DB_PORT: %w", err)
		}
		c.Database.Port = port
	}
	if v, ok := os.LookupEnv("DB_PASSWORD"); ok {
		c.Database.Password = v
	}
	if v, ok := os.LookupEnv("APPOINTMENT_SERVICE_URL"); ok {
		c.AppointmentService.URL = v
	}
	if v, ok := os.LookupEnv("LOG_LEVEL"); ok {
		c.Logs.Level = v
	}
	return nil
}

// Validate проверяет значения по тегам validate
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Location часовой пояс клиники
func (s SchedulingConfig) Location() (*time.Location, error) {
	return time.LoadLocation(s.Timezone)
}

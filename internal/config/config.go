package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
)

var (
	// ErrInvalidConfig возвращается, когда значения конфигурации не проходят проверку
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

// Config конфигурация сервиса из config.toml
type Config struct {
	Server      ServerConfig      `toml:"server"`
	Database    DatabaseConfig    `toml:"database"`
	Logs        LogsConfig        `toml:"logs"`
	Metrics     MetricsConfig     `toml:"metrics"`
	Booking     BookingConfig     `toml:"booking"`
	Sweep       SweepConfig       `toml:"sweep"`
	RoomService RoomServiceConfig `toml:"room_service"`
	RateLimit   RateLimitConfig   `toml:"rate_limit"`
	Retry       RetryConfig       `toml:"retry"`
	Storage     StorageConfig     `toml:"storage"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
}

type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
	AutoMigrate     bool   `toml:"auto_migrate"`
}

// DSN строка подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// BookingConfig правила допуска и календарь площадки
type BookingConfig struct {
	Timezone              string `toml:"timezone"`
	MaxActiveReservations int    `toml:"max_active_reservations"`
	AdvanceBookingDays    int    `toml:"advance_booking_days"`
}

// Location часовой пояс площадки; валидность проверяется в Validate
func (c BookingConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

type SweepConfig struct {
	Enabled         bool `toml:"enabled"`
	IntervalSeconds int  `toml:"interval_seconds"`
	BatchSize       int  `toml:"batch_size"`
	Workers         int  `toml:"workers"`
}

func (c SweepConfig) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}

// RoomServiceConfig каталог комнат. Пустой URL означает статический список Rooms.
type RoomServiceConfig struct {
	URL             string       `toml:"url"`
	TimeoutSeconds  int          `toml:"timeout_seconds"`
	CacheTTLSeconds int          `toml:"cache_ttl_seconds"`
	Rooms           []RoomConfig `toml:"rooms"`
}

type RoomConfig struct {
	ID          int64  `toml:"id"`
	Name        string `toml:"name"`
	Code        string `toml:"code"`
	Floor       int    `toml:"floor"`
	CapacityMin int    `toml:"capacity_min"`
	CapacityMax int    `toml:"capacity_max"`
}

// DomainRooms статический каталог в доменных моделях
func (c RoomServiceConfig) DomainRooms() []domain.Room {
	rooms := make([]domain.Room, 0, len(c.Rooms))
	for _, r := range c.Rooms {
		rooms = append(rooms, domain.Room{
			ID:          r.ID,
			Name:        r.Name,
			Code:        r.Code,
			Floor:       r.Floor,
			CapacityMin: r.CapacityMin,
			CapacityMax: r.CapacityMax,
		})
	}
	return rooms
}

type RateLimitConfig struct {
	Enabled           bool    `toml:"enabled"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`
	IdleSeconds       int     `toml:"idle_seconds"`
}

// RetryConfig повторы транзакций при конфликтах сериализации
type RetryConfig struct {
	MaxAttempts int `toml:"max_attempts"`
	BaseDelayMS int `toml:"base_delay_ms"`
	MaxDelayMS  int `toml:"max_delay_ms"`
}

type StorageConfig struct {
	Driver string `toml:"driver"`
}

// Load читает конфигурацию из файла, применяет значения по умолчанию,
// переопределения из окружения и проверяет результат
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: failed to decode %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default значения по умолчанию; файл перекрывает только заданные ключи
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
			AutoMigrate:     true,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "room-booking-service",
		},
		Booking: BookingConfig{
			Timezone:              domain.DefaultTimezone,
			MaxActiveReservations: domain.DefaultMaxActiveReservations,
			AdvanceBookingDays:    domain.DefaultAdvanceBookingDays,
		},
		Sweep: SweepConfig{
			Enabled:         true,
			IntervalSeconds: int(domain.DefaultSweepInterval / time.Second),
			BatchSize:       domain.DefaultSweepBatchSize,
			Workers:         domain.DefaultSweepWorkers,
		},
		RoomService: RoomServiceConfig{
			TimeoutSeconds:  5,
			CacheTTLSeconds: 300,
		},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerSecond: 5,
			Burst:             10,
			IdleSeconds:       600,
		},
		Retry: RetryConfig{
			MaxAttempts: 5,
			BaseDelayMS: 20,
			MaxDelayMS:  500,
		},
		Storage: StorageConfig{
			Driver: StorageDriverPostgres,
		},
	}
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("DB_HOST"); v != "" {
		c.Database.Host = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logs.Level = v
	}
	if v := os.Getenv("HTTP_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: HTTP_PORT=%q is not a number", ErrInvalidConfig, v)
		}
		c.Server.HTTPPort = port
	}
	return nil
}

// Validate проверяет согласованность значений
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port must be in 1..65535", ErrInvalidConfig)
	}

	switch c.Storage.Driver {
	case StorageDriverPostgres:
		if c.Database.Host == "" || c.Database.DBName == "" {
			return fmt.Errorf("%w: database.host and database.dbname are required for postgres storage", ErrInvalidConfig)
		}
	case StorageDriverMemory:
	default:
		return fmt.Errorf("%w: unknown storage.driver %q", ErrInvalidConfig, c.Storage.Driver)
	}

	if _, err := time.LoadLocation(c.Booking.Timezone); err != nil {
		return fmt.Errorf("%w: booking.timezone: %v", ErrInvalidConfig, err)
	}
	if c.Booking.MaxActiveReservations <= 0 {
		return fmt.Errorf("%w: booking.max_active_reservations must be positive", ErrInvalidConfig)
	}
	if c.Booking.AdvanceBookingDays <= 0 {
		return fmt.Errorf("%w: booking.advance_booking_days must be positive", ErrInvalidConfig)
	}

	if c.Sweep.Enabled && c.Sweep.IntervalSeconds <= 0 {
		return fmt.Errorf("%w: sweep.interval_seconds must be positive", ErrInvalidConfig)
	}
	if c.Sweep.BatchSize <= 0 || c.Sweep.Workers <= 0 {
		return fmt.Errorf("%w: sweep.batch_size and sweep.workers must be positive", ErrInvalidConfig)
	}

	if c.RoomService.URL == "" && len(c.RoomService.Rooms) == 0 {
		return fmt.Errorf("%w: room_service.url or room_service.rooms must be set", ErrInvalidConfig)
	}
	seen := make(map[int64]struct{}, len(c.RoomService.Rooms))
	for _, r := range c.RoomService.Rooms {
		if r.ID <= 0 {
			return fmt.Errorf("%w: room_service.rooms: id must be positive", ErrInvalidConfig)
		}
		if _, ok := seen[r.ID]; ok {
			return fmt.Errorf("%w: room_service.rooms: duplicate id %d", ErrInvalidConfig, r.ID)
		}
		seen[r.ID] = struct{}{}
	}

	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0) {
		return fmt.Errorf("%w: rate_limit.requests_per_second and rate_limit.burst must be positive", ErrInvalidConfig)
	}

	if c.Retry.MaxAttempts <= 0 {
		return fmt.Errorf("%w: retry.max_attempts must be positive", ErrInvalidConfig)
	}

	return nil
}

package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"aula/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App        AppConfig        `yaml:"app"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Logging    LoggingConfig    `yaml:"logging"`
	API        APIConfig        `yaml:"api"`
	Booking    BookingConfig    `yaml:"booking"`
	Rooms      []models.Room    `yaml:"rooms"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
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

type APIConfig struct {
	Enabled   bool               `yaml:"enabled"`
	HTTP      APIHTTPConfig      `yaml:"http"`
	Auth      APIAuthConfig      `yaml:"auth"`
	RateLimit APIRateLimitConfig `yaml:"rate_limit"`
}

type APIHTTPConfig struct {
	Port int `yaml:"port"`
}

type APIAuthConfig struct {
	Enabled      bool           `yaml:"enabled"`
	HeaderAPIKey string         `yaml:"header_api_key"`
	HeaderExtra  string         `yaml:"header_extra"`
	APIKeys      []APIClientKey `yaml:"api_keys"`
}

// APIClientKey maps an API key to a resolved identity and role. This is the
// authorization gate: by the time a request reaches the booking service the
// caller is already a models.Actor.
type APIClientKey struct {
	Key      string `yaml:"key"`
	Extra    string `yaml:"extra"`
	Name     string `yaml:"name"`
	Identity string `yaml:"identity"`
	Role     string `yaml:"role"`
}

type APIRateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type BookingConfig struct {
	// MaxAdvanceDays is how far ahead a booking may start.
	MaxAdvanceDays int `yaml:"max_advance_days"`
	// MinAdvanceMinutes is the minimum lead time before a booking may start.
	// Zero allows bookings starting now.
	MinAdvanceMinutes int `yaml:"min_advance_minutes"`
	// CreateRateLimit caps create requests per identity per window.
	CreateRateLimit  int `yaml:"create_rate_limit"`
	CreateRateWindow int `yaml:"create_rate_window"`
}

func (b BookingConfig) MinAdvance() time.Duration {
	return time.Duration(b.MinAdvanceMinutes) * time.Minute
}

func (b BookingConfig) RateWindow() time.Duration {
	return time.Duration(b.CreateRateWindow) * time.Second
}

func Load(configPath string) (*Config, error) {
	// .env is optional; environment wins over file values via expansion below.
	_ = godotenv.Load(".env")

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

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
	if c.Database.Path == "" {
		return errors.New("database path is required")
	}

	if c.API.Auth.Enabled {
		for _, k := range c.API.Auth.APIKeys {
			if k.Key == "" {
				return fmt.Errorf("api key for client %q is empty", k.Name)
			}
			if k.Identity == "" {
				return fmt.Errorf("api key %q has no identity", k.Name)
			}
			switch models.Role(k.Role) {
			case models.RoleUser, models.RoleAdmin:
			default:
				return fmt.Errorf("api key %q has unknown role %q", k.Name, k.Role)
			}
		}
	}

	return ValidateRooms(c.Rooms)
}

func ValidateRooms(rooms []models.Room) error {
	roomIDs := make(map[string]bool)
	for _, room := range rooms {
		if room.ID == "" {
			return fmt.Errorf("room %q has empty ID", room.Name)
		}
		if roomIDs[room.ID] {
			return fmt.Errorf("duplicate room ID found: %s", room.ID)
		}
		roomIDs[room.ID] = true
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.API.HTTP.Port == 0 {
		c.API.HTTP.Port = 8080
	}
	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}
	if c.API.Auth.HeaderAPIKey == "" {
		c.API.Auth.HeaderAPIKey = "x-api-key"
	}
	if c.API.Auth.HeaderExtra == "" {
		c.API.Auth.HeaderExtra = "x-api-extra"
	}

	if c.Booking.MaxAdvanceDays == 0 {
		c.Booking.MaxAdvanceDays = models.DefaultMaxAdvanceDays
	}
	if c.Booking.CreateRateLimit == 0 {
		c.Booking.CreateRateLimit = models.DefaultCreateRateLimit
	}
	if c.Booking.CreateRateWindow == 0 {
		c.Booking.CreateRateWindow = models.DefaultCreateRateWindow
	}
}

package server

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	env "github.com/Netflix/go-env"
	"github.com/go-playground/validator/v10"
)

// Defaults for list-valued settings, which cannot be expressed in env tags.
var (
	DefaultAllowedOrigins = []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	DefaultValidTokens    = []string{"abc123", "xyz789", "dev_token"}
)

// Config holds the server configuration settings including security controls.
type Config struct {
	Host string `env:"HOST,default=0.0.0.0"`
	Port int    `env:"PORT,default=8000" validate:"min=1,max=65535"`

	AllowedOrigins string `env:"ALLOWED_ORIGINS"`
	MaxMessageSize int64  `env:"MAX_MESSAGE_SIZE,default=4096" validate:"gt=0"`

	RateLimitBurst          int           `env:"RATE_LIMIT_BURST,default=5" validate:"gt=0"`
	RateLimitRefillInterval time.Duration `env:"RATE_LIMIT_REFILL_INTERVAL,default=1s" validate:"gt=0"`

	MaxMessagesPerRoom    int `env:"MAX_MESSAGES_PER_ROOM,default=50" validate:"gt=0"`
	MaxConnectionsPerRoom int `env:"MAX_CONNECTIONS_PER_ROOM,default=0" validate:"gte=0"`

	HeartbeatInterval time.Duration `env:"HEARTBEAT_INTERVAL,default=20s" validate:"gt=0"`
	HeartbeatRoom     string        `env:"HEARTBEAT_ROOM,default=observer" validate:"required"`

	ValidTokens string `env:"VALID_TOKENS"`
	JWTSecret   string `env:"JWT_SECRET"`

	OpenWeatherAPIKey     string        `env:"OPENWEATHER_API_KEY,default=demo_key_for_testing"`
	RobotBogotaInterval   time.Duration `env:"ROBOT_BOGOTA_INTERVAL,default=15s" validate:"gt=0"`
	RobotMedellinInterval time.Duration `env:"ROBOT_MEDELLIN_INTERVAL,default=20s" validate:"gt=0"`
	EnableRobots          bool          `env:"ENABLE_ROBOTS,default=true"`
	EnableChatAssistant   bool          `env:"ENABLE_CHAT_ASSISTANT,default=true"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s" validate:"gt=0"`
	LogLevel        string        `env:"LOG_LEVEL,default=info" validate:"oneof=debug info warn error"`
}

var validate = validator.New()

// LoadConfig reads the configuration from the process environment and
// validates it.
func LoadConfig() (*Config, error) {
	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// NewConfig returns a Config populated with the default values.
func NewConfig() *Config {
	return &Config{
		Host:                    "0.0.0.0",
		Port:                    8000,
		MaxMessageSize:          4096,
		RateLimitBurst:          5,
		RateLimitRefillInterval: time.Second,
		MaxMessagesPerRoom:      50,
		HeartbeatInterval:       20 * time.Second,
		HeartbeatRoom:           "observer",
		OpenWeatherAPIKey:       "demo_key_for_testing",
		RobotBogotaInterval:     15 * time.Second,
		RobotMedellinInterval:   20 * time.Second,
		EnableRobots:            true,
		EnableChatAssistant:     true,
		ShutdownTimeout:         10 * time.Second,
		LogLevel:                "info",
	}
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Origins returns the allowed websocket origins.
func (c *Config) Origins() []string {
	if strings.TrimSpace(c.AllowedOrigins) == "" {
		return DefaultAllowedOrigins
	}
	return parseList(c.AllowedOrigins)
}

// Tokens returns the accepted static tokens.
func (c *Config) Tokens() []string {
	if strings.TrimSpace(c.ValidTokens) == "" {
		return DefaultValidTokens
	}
	return parseList(c.ValidTokens)
}

func parseList(value string) []string {
	parts := strings.Split(value, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

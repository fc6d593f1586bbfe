package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	env "github.com/Netflix/go-env"
	"github.com/joho/godotenv"
)

// Config is read from the environment, optionally seeded from a .env file
type Config struct {
	Port     int    `env:"PORT,default=8080"`
	LogLevel string `env:"LOG_LEVEL,default=INFO"`

	RoundTimeout time.Duration `env:"ROUND_TIMEOUT,default=30s"`
	ResultPause  time.Duration `env:"RESULT_PAUSE,default=3s"`

	SendBufferSize    int           `env:"SEND_BUFFER_SIZE,default=256"`
	HubQueueSize      int           `env:"HUB_QUEUE_SIZE,default=1024"`
	JournalBufferSize int           `env:"JOURNAL_BUFFER_SIZE,default=128"`
	JournalTimeout    time.Duration `env:"JOURNAL_TIMEOUT,default=2s"`
	RestartInterval   time.Duration `env:"RESTART_INTERVAL,default=200ms"`

	// Empty REDIS_ADDR disables the leaderboard
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB,default=0"`

	// Empty MONGO_URI disables match history
	MongoURI      string `env:"MONGO_URI"`
	MongoDatabase string `env:"MONGO_DATABASE,default=rpsarena"`

	CORSAllowedOrigins string        `env:"CORS_ALLOWED_ORIGINS,default=*"`
	ShutdownTimeout    time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s"`
}

// Load reads .env when present, then the process environment
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}
	if c.RoundTimeout <= 0 || c.ResultPause <= 0 {
		return errors.New("ROUND_TIMEOUT and RESULT_PAUSE must be positive")
	}
	if c.SendBufferSize <= 0 || c.HubQueueSize <= 0 || c.JournalBufferSize <= 0 {
		return errors.New("buffer sizes must be positive")
	}
	return nil
}

// Addr is the HTTP listen address
func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

// RedisAddress strips an optional redis:// scheme
func (c *Config) RedisAddress() string {
	return strings.TrimPrefix(c.RedisAddr, "redis://")
}

func (c *Config) RedisEnabled() bool { return c.RedisAddr != "" }

func (c *Config) MongoEnabled() bool { return c.MongoURI != "" }

// AllowedOrigins splits CORS_ALLOWED_ORIGINS on commas
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

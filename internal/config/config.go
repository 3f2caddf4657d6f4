package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Server      struct {
		Port            int `env:"PORT" envDefault:"8080"`
		ReadTimeout     int `env:"READ_TIMEOUT" envDefault:"10"`
		WriteTimeout    int `env:"WRITE_TIMEOUT" envDefault:"15"`
		IdleTimeout     int `env:"IDLE_TIMEOUT" envDefault:"60"`
		ShutdownTimeout int `env:"SHUTDOWN_TIMEOUT" envDefault:"10"`
	} `envPrefix:"SERVER_"`
	Database struct {
		DSN      string `env:"DSN,required"`
		MaxConns int32  `env:"MAX_CONNS" envDefault:"10"`
		MinConns int32  `env:"MIN_CONNS" envDefault:"2"`
	} `envPrefix:"DATABASE_"`
	JWT struct {
		Secret string `env:"SECRET,required"`
	} `envPrefix:"JWT_"`
	Attendance struct {
		// Timezone is the engine's working-day timezone, e.g. Asia/Jakarta.
		Timezone        string `env:"TIMEZONE" envDefault:"UTC"`
		EnforceHolidays bool   `env:"ENFORCE_HOLIDAYS" envDefault:"false"`
	} `envPrefix:"ATTENDANCE_"`
	ShiftCache struct {
		Enabled    bool `env:"ENABLED" envDefault:"false"`
		TTLMinutes int  `env:"TTL_MINUTES" envDefault:"15"`
	} `envPrefix:"SHIFT_CACHE_"`
	Redis struct {
		Host     string `env:"HOST" envDefault:"localhost"`
		Port     int    `env:"PORT" envDefault:"6379"`
		Password string `env:"PASSWORD" envDefault:""`
	} `envPrefix:"REDIS_"`
	RabbitMQ struct {
		DSN            string `env:"DSN" envDefault:""`
		PublishTimeout int    `env:"PUBLISH_TIMEOUT" envDefault:"10"`
	} `envPrefix:"RABBITMQ_"`
	SMTP struct {
		Host     string `env:"HOST" envDefault:""`
		Port     int    `env:"PORT" envDefault:"587"`
		Username string `env:"USERNAME" envDefault:""`
		Password string `env:"PASSWORD" envDefault:""`
		From     string `env:"FROM" envDefault:""`
	} `envPrefix:"SMTP_"`
	Log struct {
		Level string `env:"LEVEL" envDefault:"info"`
	} `envPrefix:"LOG_"`
}

// Load reads configuration from the environment, preloading a local .env
// file when one exists.
func Load() (*Config, error) {
	// A missing .env is fine outside development.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

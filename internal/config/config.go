package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all process-wide configuration. It is loaded once at startup
// and treated as immutable afterwards.
type Config struct {
	Port         string `env:"PORT" envDefault:"8080"`
	DatabasePath string `env:"DATABASE_PATH" envDefault:"taskdeck.db"`

	// Signing secrets for the two token classes. Both are mandatory;
	// the process refuses to start without them.
	JWTAccessSecret  string `env:"JWT_ACCESS_SECRET,required"`
	JWTRefreshSecret string `env:"JWT_REFRESH_SECRET,required"`

	// CookieSecure defaults on; disable only for local development over
	// plain HTTP.
	CookieSecure bool `env:"COOKIE_SECURE" envDefault:"true"`

	CORSOrigins []string `env:"CORS_ORIGINS" envDefault:"http://localhost:5173"`
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present (development convenience); real
// environment variables win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// Package config loads typed configuration from environment variables.
//
// It wraps github.com/caarlos0/env/v11 for struct-tag parsing and
// github.com/joho/godotenv for .env files:
//
//	type Config struct {
//		Addr     string `env:"ADDR" envDefault:":8080"`
//		LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
//	}
//
//	cfg := config.MustLoad[Config](config.WithPrefix("FEATURED_"))
//
// A ".env" file in the working directory is read when present. Values already
// set in the process environment are never overridden by files.
package config

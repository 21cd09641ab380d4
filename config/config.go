package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the server configuration, filled from the environment
type Config struct {
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`

	DBDialect  string `env:"DB_DIALECT" envDefault:"sqlite"`
	DBDSN      string `env:"DB_DSN"`
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBUser     string `env:"DB_USER"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME" envDefault:"vikings"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogPretty bool   `env:"LOG_PRETTY"`

	EnemyTurnDelay     time.Duration `env:"ENEMY_TURN_DELAY" envDefault:"1500ms"`
	WalletPaymentDelay time.Duration `env:"WALLET_PAYMENT_DELAY" envDefault:"2s"`

	DiscordToken string `env:"DISCORD_TOKEN"`
	GameMaster   uint   `env:"GAME_MASTER"`
}

// Load parses the configuration from environment variables.
func Load() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return c, nil
}

// DSN returns the data source name for the configured dialect. Postgres
// falls back to a DSN assembled from the DB_HOST/DB_USER/DB_PASSWORD triple.
func (c Config) DSN() string {
	if c.DBDSN != "" {
		return c.DBDSN
	}

	switch c.DBDialect {
	case "postgres":
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s sslmode=disable",
			c.DBHost, c.DBUser, c.DBPassword, c.DBName)
	default:
		return "file:" + c.DBName + ".db"
	}
}

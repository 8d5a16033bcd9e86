package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	App        App
	HTTP       HTTP
	Probe      Probe
	Metrics    Metrics
	Postgres   Postgres
	Redis      Redis
	Prediction Prediction
	Market     Market
	Bot        Bot
}

type App struct {
	Name    string `env:"APP_NAME" envDefault:"saltmarket"`
	Version string `env:"APP_VERSION" envDefault:"dev"`
}

// Bot configures the optional Telegram ops channel. Alerts are disabled
// when the token is empty.
type Bot struct {
	Token  string `env:"BOT_TOKEN" json:"-"`
	ChatID int64  `env:"BOT_CHAT_ID"`
}

func (b Bot) Enabled() bool {
	return b.Token != "" && b.ChatID != 0
}

func Load() (Config, error) {
	_ = godotenv.Load()

	var config Config

	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("env.Parse: %w", err)
	}

	return config, nil
}

package config

import "time"

// Prediction points at the ML service that forecasts salt production.
type Prediction struct {
	BaseURL string        `env:"PREDICTION_BASE_URL,notEmpty"`
	Timeout time.Duration `env:"PREDICTION_TIMEOUT" envDefault:"15s"`
}

package config

import "time"

type Market struct {
	// HighDemandThreshold excludes offers demanding more than this many
	// tons from best-offer selection.
	HighDemandThreshold float64 `env:"MARKET_HIGH_DEMAND_THRESHOLD" envDefault:"30"`

	// NotificationRetention keeps at most this many notifications per
	// recipient.
	NotificationRetention int           `env:"MARKET_NOTIFICATION_RETENTION" envDefault:"200"`
	PruneInterval         time.Duration `env:"MARKET_PRUNE_INTERVAL" envDefault:"1h"`
}

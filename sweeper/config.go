package sweeper

import (
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config controls the process-wide sweeper. It is read from the
// environment once, when the default sweeper first starts.
type Config struct {

	// TPS is how many sweep passes run per second across all caches.
	TPS int `env:"CACHE_SWEEP_TPS" envDefault:"20"`
}

func (c Config) interval() time.Duration {
	return time.Second / time.Duration(c.TPS)
}

// loadConfig parses Config from the environment. An unparsable or
// non-positive rate is treated like any other misconfiguration in this
// engine: fall back to the default rather than fail.
func loadConfig() Config {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		slog.Warn("sweeper config unreadable, using defaults", slog.Any("error", err))
		return Config{TPS: 20}
	}
	if cfg.TPS <= 0 {
		cfg.TPS = 20
	}
	return cfg
}

package config

import (
	"time"

	"github.com/dmitrijs2005/songbook/internal/client/models"
)

// Config holds runtime settings for the SongBook CLI.
type Config struct {
	DatabasePath        string        `env:"SONGBOOK_DB"`
	RemoteURL           string        `env:"SONGBOOK_REMOTE_URL"`
	HealthAddr          string        `env:"SONGBOOK_HEALTH_ADDR"`
	HealthService       string        `env:"SONGBOOK_HEALTH_SERVICE"`
	OnlineCheckInterval time.Duration `env:"SONGBOOK_CHECK_INTERVAL"`
	UserID              string        `env:"SONGBOOK_USER"`
	AccessToken         string        `env:"SONGBOOK_TOKEN"`
	LogLevel            string        `env:"SONGBOOK_LOG_LEVEL"`
	LogFormat           string        `env:"SONGBOOK_LOG_FORMAT"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabasePath = "songbook.db"
	c.RemoteURL = "http://127.0.0.1:8080/api"
	c.HealthAddr = "127.0.0.1:50051"
	c.HealthService = ""
	c.OnlineCheckInterval = 3 * time.Second
	c.UserID = models.AnonymousUserID
	c.LogLevel = "info"
	c.LogFormat = "auto"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON, the environment and command-line flags. Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}

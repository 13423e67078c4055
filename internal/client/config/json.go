package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/songbook/internal/flagx"
	"github.com/dmitrijs2005/songbook/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// Absent keys leave the corresponding Config field untouched.
type JsonConfig struct {
	DatabasePath        string         `json:"database_path"`
	RemoteURL           string         `json:"remote_url"`
	HealthAddr          *string        `json:"health_addr"`
	HealthService       string         `json:"health_service"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	UserID              string         `json:"user_id"`
	AccessToken         string         `json:"access_token"`
	LogLevel            string         `json:"log_level"`
	LogFormat           string         `json:"log_format"`
}

// parseJson overlays cfg with values from the file named by -c/-config.
// Panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.DatabasePath, jc.DatabasePath)
	setString(&cfg.RemoteURL, jc.RemoteURL)
	// an explicit "" disables the gRPC probe
	if jc.HealthAddr != nil {
		cfg.HealthAddr = *jc.HealthAddr
	}
	setString(&cfg.HealthService, jc.HealthService)
	if jc.OnlineCheckInterval.Duration > 0 {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	setString(&cfg.UserID, jc.UserID)
	setString(&cfg.AccessToken, jc.AccessToken)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogFormat, jc.LogFormat)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

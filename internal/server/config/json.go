package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/songbook/internal/flagx"
	"github.com/dmitrijs2005/songbook/internal/timex"
)

// JsonConfig is an intermediate DTO used only for reading JSON configuration
// files. Pointer and slice fields distinguish "absent" from "empty".
type JsonConfig struct {
	HTTPAddr           string         `json:"http_addr"`
	GRPCAddr           string         `json:"grpc_addr"`
	UpstreamURL        string         `json:"upstream_url"`
	CachePrefix        string         `json:"cache_prefix"`
	CacheVersion       string         `json:"cache_version"`
	Shell              []string       `json:"shell"`
	ShellDocument      string         `json:"shell_document"`
	OfflinePage        *string        `json:"offline_page"`
	ExcludedOrigins    []string       `json:"excluded_origins"`
	NavigationTimeout  timex.Duration `json:"navigation_timeout"`
	RevalidateTimeout  timex.Duration `json:"revalidate_timeout"`
	InstallConcurrency int            `json:"install_concurrency"`
	SkipWaiting        *bool          `json:"skip_waiting"`
	CacheBackend       string         `json:"cache_backend"`
	CacheDSN           string         `json:"cache_dsn"`
	S3RootUser         string         `json:"s3_root_user"`
	S3RootPassword     string         `json:"s3_root_password"`
	S3Bucket           string         `json:"s3_bucket"`
	S3Region           string         `json:"s3_region"`
	S3BaseEndpoint     string         `json:"s3_base_endpoint"`
	SecretKey          string         `json:"secret_key"`
	HealthAuth         *bool          `json:"health_auth"`
	OTLPEndpoint       string         `json:"otlp_endpoint"`
	LogLevel           string         `json:"log_level"`
	LogFormat          string         `json:"log_format"`
}

// parseJson loads configuration values from the file named by -c/-config.
// If the file cannot be read or contains invalid JSON, the function panics.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	var c JsonConfig

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(file, &c); err != nil {
		panic(err)
	}

	setString(&cfg.HTTPAddr, c.HTTPAddr)
	setString(&cfg.GRPCAddr, c.GRPCAddr)
	setString(&cfg.UpstreamURL, c.UpstreamURL)
	setString(&cfg.CachePrefix, c.CachePrefix)
	setString(&cfg.CacheVersion, c.CacheVersion)
	if c.Shell != nil {
		cfg.Shell = c.Shell
	}
	setString(&cfg.ShellDocument, c.ShellDocument)
	if c.OfflinePage != nil {
		cfg.OfflinePage = *c.OfflinePage
	}
	if c.ExcludedOrigins != nil {
		cfg.ExcludedOrigins = c.ExcludedOrigins
	}
	if c.NavigationTimeout.Duration > 0 {
		cfg.NavigationTimeout = c.NavigationTimeout.Duration
	}
	if c.RevalidateTimeout.Duration > 0 {
		cfg.RevalidateTimeout = c.RevalidateTimeout.Duration
	}
	if c.InstallConcurrency > 0 {
		cfg.InstallConcurrency = c.InstallConcurrency
	}
	if c.SkipWaiting != nil {
		cfg.SkipWaiting = *c.SkipWaiting
	}
	setString(&cfg.CacheBackend, c.CacheBackend)
	setString(&cfg.CacheDSN, c.CacheDSN)
	setString(&cfg.S3RootUser, c.S3RootUser)
	setString(&cfg.S3RootPassword, c.S3RootPassword)
	setString(&cfg.S3Bucket, c.S3Bucket)
	setString(&cfg.S3Region, c.S3Region)
	setString(&cfg.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&cfg.SecretKey, c.SecretKey)
	if c.HealthAuth != nil {
		cfg.HealthAuth = *c.HealthAuth
	}
	setString(&cfg.OTLPEndpoint, c.OTLPEndpoint)
	setString(&cfg.LogLevel, c.LogLevel)
	setString(&cfg.LogFormat, c.LogFormat)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

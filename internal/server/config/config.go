// Package config handles configuration for the cache controller server,
// including defaults, JSON overlay, environment and command-line flags.
package config

import "time"

// Config holds runtime settings for the SongBook cache controller.
//
// Fields:
//   - HTTPAddr / GRPCAddr: bind addresses for the proxy and the health service.
//   - UpstreamURL: origin serving the application shell.
//   - CachePrefix / CacheVersion: together they name the cache generation.
//   - Shell: resources cached on install; relative paths resolve against UpstreamURL.
//   - ExcludedOrigins: origins that always go to the network.
//   - CacheBackend: memory, sqlite or s3. CacheDSN is used by sqlite.
//   - S3*: object storage settings for the s3 backend.
//   - SecretKey: HMAC secret for the message and sync endpoints (HS256).
//   - HealthAuth: also require a token on the gRPC health service.
//   - OTLPEndpoint: OTLP/HTTP collector; empty disables tracing.
type Config struct {
	HTTPAddr           string        `env:"SONGBOOK_HTTP_ADDR"`
	GRPCAddr           string        `env:"SONGBOOK_GRPC_ADDR"`
	UpstreamURL        string        `env:"SONGBOOK_UPSTREAM"`
	CachePrefix        string        `env:"SONGBOOK_CACHE_PREFIX"`
	CacheVersion       string        `env:"SONGBOOK_CACHE_VERSION"`
	Shell              []string      `env:"SONGBOOK_SHELL" envSeparator:","`
	ShellDocument      string        `env:"SONGBOOK_SHELL_DOCUMENT"`
	OfflinePage        string        `env:"SONGBOOK_OFFLINE_PAGE"`
	ExcludedOrigins    []string      `env:"SONGBOOK_EXCLUDED_ORIGINS" envSeparator:","`
	NavigationTimeout  time.Duration `env:"SONGBOOK_NAVIGATION_TIMEOUT"`
	RevalidateTimeout  time.Duration `env:"SONGBOOK_REVALIDATE_TIMEOUT"`
	InstallConcurrency int           `env:"SONGBOOK_INSTALL_CONCURRENCY"`
	SkipWaiting        bool          `env:"SONGBOOK_SKIP_WAITING"`
	CacheBackend       string        `env:"SONGBOOK_CACHE_BACKEND"`
	CacheDSN           string        `env:"SONGBOOK_CACHE_DSN"`
	S3RootUser         string        `env:"SONGBOOK_S3_USER"`
	S3RootPassword     string        `env:"SONGBOOK_S3_PASSWORD"`
	S3Bucket           string        `env:"SONGBOOK_S3_BUCKET"`
	S3Region           string        `env:"SONGBOOK_S3_REGION"`
	S3BaseEndpoint     string        `env:"SONGBOOK_S3_ENDPOINT"`
	SecretKey          string        `env:"SONGBOOK_SECRET_KEY"`
	HealthAuth         bool          `env:"SONGBOOK_HEALTH_AUTH"`
	OTLPEndpoint       string        `env:"SONGBOOK_OTLP_ENDPOINT"`
	LogLevel           string        `env:"SONGBOOK_LOG_LEVEL"`
	LogFormat          string        `env:"SONGBOOK_LOG_FORMAT"`
}

// LoadDefaults populates Config with development defaults.
// NOTE: the secret key is insecure and must be overridden in production.
func (c *Config) LoadDefaults() {
	c.HTTPAddr = ":8080"
	c.GRPCAddr = ":50051"
	c.UpstreamURL = "http://127.0.0.1:3000/"
	c.CachePrefix = "songbook"
	c.CacheVersion = "v3"
	c.Shell = []string{
		"/",
		"/index.html",
		"/offline.html",
		"/db.js",
		"https://cdnjs.cloudflare.com/ajax/libs/sql.js/1.10.2/sql-wasm.js",
	}
	c.ShellDocument = "/index.html"
	c.OfflinePage = "/offline.html"
	c.ExcludedOrigins = nil
	c.NavigationTimeout = 3 * time.Second
	c.RevalidateTimeout = 30 * time.Second
	c.InstallConcurrency = 4
	c.SkipWaiting = true
	c.CacheBackend = "sqlite"
	c.CacheDSN = "cache.db"
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = "songbook-cache"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
	c.SecretKey = "secretKey"
	c.LogLevel = "info"
	c.LogFormat = "auto"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment and finally command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}

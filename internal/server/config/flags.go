package config

import (
	"flag"
	"os"
	"strings"

	"github.com/dmitrijs2005/songbook/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a string     HTTP bind address (e.g. ":8080")
//	-g string     gRPC health bind address
//	-u string     upstream origin URL
//	-v string     cache version
//	-b string     cache backend: memory, sqlite or s3
//	-d string     sqlite cache DSN
//	-s string     JWT HMAC secret key
//	-x string     comma-separated excluded origins
//	-n duration   navigation network timeout
//	-w bool       activate right after install
//	-o string     OTLP/HTTP endpoint
//	-l string     log level
//	-f string     log format
func parseFlags(cfg *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-g", "-u", "-v", "-b", "-d", "-s", "-x", "-n", "-w", "-o", "-l", "-f"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.HTTPAddr, "a", cfg.HTTPAddr, "address and port to run the proxy")
	fs.StringVar(&cfg.GRPCAddr, "g", cfg.GRPCAddr, "address and port of the gRPC health service")
	fs.StringVar(&cfg.UpstreamURL, "u", cfg.UpstreamURL, "upstream origin")
	fs.StringVar(&cfg.CacheVersion, "v", cfg.CacheVersion, "cache version")
	fs.StringVar(&cfg.CacheBackend, "b", cfg.CacheBackend, "cache backend: memory, sqlite or s3")
	fs.StringVar(&cfg.CacheDSN, "d", cfg.CacheDSN, "sqlite cache DSN")
	fs.StringVar(&cfg.SecretKey, "s", cfg.SecretKey, "secret key")
	excluded := fs.String("x", strings.Join(cfg.ExcludedOrigins, ","), "comma-separated origins that bypass the cache")
	fs.DurationVar(&cfg.NavigationTimeout, "n", cfg.NavigationTimeout, "navigation network timeout")
	fs.BoolVar(&cfg.SkipWaiting, "w", cfg.SkipWaiting, "activate right after install")
	fs.StringVar(&cfg.OTLPEndpoint, "o", cfg.OTLPEndpoint, "OTLP/HTTP endpoint")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogFormat, "f", cfg.LogFormat, "log format: json, text or auto")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "x" {
			cfg.ExcludedOrigins = splitList(*excluded)
		}
	})
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/songbook/internal/flagx"
)

// parseFlags populates Config fields from command-line flags. os.Args is
// filtered with flagx.FilterArgs so -c and -e stay with their own loaders.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-a", "-g", "-i", "-u", "-t", "-l", "-f"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path to the local database")
	fs.StringVar(&cfg.RemoteURL, "a", cfg.RemoteURL, "base URL of the SongBook API")
	fs.StringVar(&cfg.HealthAddr, "g", cfg.HealthAddr, "address and port of the gRPC health endpoint")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.StringVar(&cfg.UserID, "u", cfg.UserID, "user id")
	fs.StringVar(&cfg.AccessToken, "t", cfg.AccessToken, "API bearer token")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogFormat, "f", cfg.LogFormat, "log format: json, text or auto")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "i" && *onlineCheckInterval > 0 {
			cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
		}
	})
}

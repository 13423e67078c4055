package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/dmitrijs2005/songbook/internal/flagx"
	"github.com/joho/godotenv"
)

// parseEnv overlays cfg with SONGBOOK_* variables, after loading the dotenv
// file given via -e/-env. Variables already set in the process win.
func parseEnv(cfg *Config) {
	if path := flagx.EnvFileFlags(); path != "" {
		if err := godotenv.Load(path); err != nil {
			panic(err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		panic(err)
	}
}

// Package config loads runtime configuration for the SongBook CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Environment, optionally seeded from a dotenv file given via -e or -env
//     (see parseEnv). Variables are named SONGBOOK_*.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-d string   path to the local SQLite database
//	-a string   base URL of the SongBook API
//	-g string   host:port of the gRPC health endpoint ("" disables the probe)
//	-i int      online status check interval (seconds)
//	-u string   user id favorites are stored under
//	-t string   bearer token for the API
//	-l string   log level (debug, info, warn, error)
//	-f string   log format (json, text, auto)
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "3s" or integer nanoseconds:
//
//	{
//	  "database_path": "songbook.db",
//	  "remote_url": "http://127.0.0.1:8080/api",
//	  "online_check_interval": "3s"
//	}
package config

// Package flagx holds helpers for parsing a subset of os.Args, so several
// config loaders can each pick the flags they own without tripping over the
// rest.
package flagx

import (
	"flag"
	"io"
	"os"
	"strings"
)

// FilterArgs keeps only the allowed flags from args together with their
// values. Both "-c value" and "-c=value" forms are recognised; a following
// argument is taken as the value unless it looks like a flag itself.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			continue
		}

		if name, _, ok := strings.Cut(arg, "="); ok {
			if _, known := allowed[name]; known {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, known := allowed[arg]; !known {
			continue
		}
		filtered = append(filtered, arg)
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}
	return filtered
}

// lookupString returns the value of a string flag spelled as -short or -long
// in os.Args, or "" when absent.
func lookupString(short, long, usage string) string {
	var value string

	args := FilterArgs(os.Args[1:], []string{"-" + short, "-" + long, "--" + long})

	fs := flag.NewFlagSet(long, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&value, long, "", usage)
	fs.StringVar(&value, short, "", usage+" (short)")
	_ = fs.Parse(args)

	return value
}

// JsonConfigFlags returns the config file path given via -c or -config.
func JsonConfigFlags() string {
	return lookupString("c", "config", "Path to config file")
}

// EnvFileFlags returns the dotenv file path given via -e or -env.
func EnvFileFlags() string {
	return lookupString("e", "env", "Path to .env file")
}

package config

import "github.com/spf13/pflag"

// RegisterFlags registers the global flags shared by every command.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.String("config", "", "path to the config file")
	flags.BoolP("verbose", "v", false, "enable debug logging")
	flags.StringP("output", "o", "", "output format: table, json, plain")
	flags.IntP("concurrency", "c", 0, "number of concurrent quote poll workers")
}

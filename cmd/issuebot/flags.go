package main

import (
	"github.com/spf13/pflag"

	"github.com/edgard/issuebot/internal/config"
)

type options struct {
	configPath string
	quiet      bool
	debug      bool
}

// logLevel returns the level forced by -q or -d, or "" to keep the configured one.
// -d wins when both are given.
func (o options) logLevel() string {
	switch {
	case o.debug:
		return "debug"
	case o.quiet:
		return "error"
	default:
		return ""
	}
}

func parseFlags(args []string) (options, *pflag.FlagSet, error) {
	var opts options

	fs := pflag.NewFlagSet("issuebot", pflag.ContinueOnError)
	fs.StringVarP(&opts.configPath, "config", "c", "./config.yaml", "path to configuration file")
	fs.BoolVarP(&opts.quiet, "quiet", "q", false, "only log errors")
	fs.BoolVarP(&opts.debug, "debug", "d", false, "log debug output")
	fs.StringP(config.FlagTokenFile, "t", config.DefaultTokenFile, "file holding the issue tracker token")
	fs.Int64P(config.FlagRoom, "r", 0, "only answer in this chat id")

	if err := fs.Parse(args); err != nil {
		return options{}, nil, err
	}
	return opts, fs, nil
}

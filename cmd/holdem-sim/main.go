package main

import (
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version  kong.VersionFlag `short:"v" help:"Show version"`
	LogLevel string           `help:"Log level (debug, info, warn, error); overrides the config file"`

	Simulate SimulateCmd `cmd:"" default:"withargs" help:"Run every configured table with bots"`
	Deal     DealCmd     `cmd:"" help:"Deal a single hand and print it action by action"`
	History  HistoryCmd  `cmd:"" help:"Show recorded simulation runs"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("holdem-sim"),
		kong.Description("Texas Hold'em referee driven by reference bots"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli)
	ctx.FatalIfErrorf(err)
}

// newLogger writes to stderr at the first level that is set
func newLogger(levels ...string) (*log.Logger, error) {
	level := log.InfoLevel
	for _, l := range levels {
		if l == "" {
			continue
		}
		parsed, err := log.ParseLevel(l)
		if err != nil {
			return nil, err
		}
		level = parsed
		break
	}

	return log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	}), nil
}

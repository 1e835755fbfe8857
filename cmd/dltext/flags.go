package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/dltext/internal/config"
	"github.com/samcharles93/dltext/internal/logger"
	"github.com/samcharles93/dltext/internal/store"
)

var (
	configPath string
	logLevel   string
	logFormat  string
	debug      bool

	textOffset     string
	strictTrailing bool

	cfg config.Config
)

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Usage:       "path to config.yaml",
			Value:       config.Path(),
			Destination: &configPath,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (pretty, json, text)",
			Value:       "pretty",
			Destination: &logFormat,
		},
		&cli.BoolFlag{
			Name:        "debug",
			Usage:       "enable debug logging (shorthand for --log-level=debug)",
			Destination: &debug,
		},
	}
}

func decodeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "offset",
			Aliases:     []string{"o"},
			Usage:       "text definition offset (decimal or 0x hex); 4 + 8 * entry count",
			Destination: &textOffset,
		},
		&cli.BoolFlag{
			Name:        "strict-trailing",
			Usage:       "fail instead of discarding bytes after the last string terminator",
			Destination: &strictTrailing,
		},
	}
}

// setup loads the config file and installs the logger on the context.
func setup(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	loaded, err := config.Load(configPath)
	if err != nil {
		return ctx, err
	}
	cfg = loaded

	if cfg.LogLevel != "" && !cmd.IsSet("log-level") {
		logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !cmd.IsSet("log-format") {
		logFormat = cfg.LogFormat
	}
	if debug {
		logLevel = "debug"
	}
	log := logger.FromOptions(os.Stderr, logFormat, logLevel)
	return logger.WithContext(ctx, log), nil
}

// decodeOptions resolves --offset and --strict-trailing against the config
// for the file at path.
func decodeOptions(cmd *cli.Command, path string) (store.Options, error) {
	opts := store.Options{StrictTrailing: strictTrailing}
	if cfg.StrictTrailing != nil && !cmd.IsSet("strict-trailing") {
		opts.StrictTrailing = *cfg.StrictTrailing
	}

	if textOffset != "" {
		v, err := strconv.ParseInt(textOffset, 0, 0)
		if err != nil {
			return opts, fmt.Errorf("--offset: %w", err)
		}
		opts.TextOffset = int(v)
		return opts, nil
	}
	if off, ok := cfg.OffsetFor(path); ok {
		opts.TextOffset = off
		return opts, nil
	}
	return opts, fmt.Errorf("no text definition offset for %s: pass --offset or set one in %s", path, configPath)
}

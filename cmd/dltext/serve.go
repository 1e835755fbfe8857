package main

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/dltext/internal/api"
	"github.com/samcharles93/dltext/internal/logger"
)

func serveCmd() *cli.Command {
	var (
		addr        string
		readTimeout time.Duration
		maxSessions int
		maxUpload   string
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the editing API",
		Flags: append(decodeFlags(),
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address",
				Value:       "127.0.0.1:8080",
				Destination: &addr,
			},
			&cli.DurationFlag{
				Name:        "read-timeout",
				Usage:       "read header timeout",
				Value:       30 * time.Second,
				Destination: &readTimeout,
			},
			&cli.IntFlag{
				Name:        "max-sessions",
				Usage:       "maximum number of open files (0 = unlimited)",
				Value:       64,
				Destination: &maxSessions,
			},
			&cli.StringFlag{
				Name:        "max-upload",
				Usage:       "maximum upload size (e.g. 16MiB)",
				Value:       "64MiB",
				Destination: &maxUpload,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)

			if cfg.ServerAddress != "" && !cmd.IsSet("addr") {
				addr = cfg.ServerAddress
			}
			if cfg.MaxSessions != nil && !cmd.IsSet("max-sessions") {
				maxSessions = *cfg.MaxSessions
			}
			if cfg.MaxUploadSize != "" && !cmd.IsSet("max-upload") {
				maxUpload = cfg.MaxUploadSize
			}
			uploadLimit, err := humanize.ParseBytes(maxUpload)
			if err != nil {
				return fmt.Errorf("--max-upload: %w", err)
			}

			srvCfg := api.Config{StrictTrailing: strictTrailing, MaxUploadSize: int64(uploadLimit)}
			if cfg.StrictTrailing != nil && !cmd.IsSet("strict-trailing") {
				srvCfg.StrictTrailing = *cfg.StrictTrailing
			}
			if textOffset != "" {
				v, err := strconv.ParseInt(textOffset, 0, 0)
				if err != nil {
					return fmt.Errorf("--offset: %w", err)
				}
				srvCfg.DefaultOffset = int(v)
			} else if cfg.TextOffset != nil {
				srvCfg.DefaultOffset = *cfg.TextOffset
			}

			server := api.NewServer(api.NewSessionStore(maxSessions), srvCfg, log)
			e := echo.New()
			e.Use(middleware.RequestLogger())
			e.Use(middleware.Recover())
			server.Register(e)

			log.Info("starting server", "address", addr, "max_sessions", maxSessions, "max_upload", humanize.IBytes(uploadLimit))
			sc := echo.StartConfig{
				Address: addr,
				BeforeServeFunc: func(srv *http.Server) error {
					srv.ReadHeaderTimeout = readTimeout
					return nil
				},
			}
			return sc.Start(ctx, e)
		},
	}
}

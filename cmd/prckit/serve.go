package main

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/prckit/internal/api"
	"github.com/samcharles93/prckit/internal/logger"
)

func serveCmd() *cli.Command {
	var (
		addr        string
		root        string
		jobs        string
		readTimeout time.Duration
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Serve a browsing and extraction API over a directory of PRC files",
		Flags: append(loggingFlags(),
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address",
				Value:       "127.0.0.1:8080",
				Destination: &addr,
			},
			&cli.StringFlag{
				Name:        "root",
				Usage:       "directory containing .prc archives",
				Value:       ".",
				Destination: &root,
			},
			&cli.StringFlag{
				Name:        "jobs",
				Usage:       "directory extraction jobs write under",
				Value:       "jobs",
				Destination: &jobs,
			},
			&cli.DurationFlag{
				Name:        "read-timeout",
				Usage:       "read timeout",
				Value:       30 * time.Second,
				Destination: &readTimeout,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg := LoadConfig()
			applyLoggingConfig(cmd, cfg)
			applyServeConfig(cmd, cfg, &addr, &root, &jobs)

			log := buildLogger()
			ctx = logger.WithContext(ctx, log)

			e := echo.New()
			e.Use(middleware.RequestLogger())
			e.Use(middleware.Recover())
			api.NewServer(root, jobs).Register(e)

			log.Info("starting server", "address", addr, "root", root)
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

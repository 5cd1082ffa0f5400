package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/andrebq/authbox/cmd/authbox/password"
	"github.com/andrebq/authbox/cmd/authbox/serve"
	"github.com/andrebq/authbox/cmd/authbox/users"
	"github.com/andrebq/authbox/cmd/authbox/vault"
	"github.com/andrebq/authbox/internal/cmdflags"
	"github.com/andrebq/authbox/internal/config"
	"github.com/andrebq/authbox/internal/logutil"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func main() {
	var cfg config.Config
	envFile := ".env"
	app := &cli.App{
		Name:  "authbox",
		Usage: "User accounts and session authentication over HTTP",
		Flags: []cli.Flag{
			cmdflags.EnvFile(&envFile),
		},
		Before: func(ctx *cli.Context) error {
			var err error
			cfg, err = config.Load(envFile)
			if err != nil {
				return err
			}
			logger, err := logutil.New(os.Stderr, cfg.LogLevel, cfg.LogFormat, cfg.PIIFields)
			if err != nil {
				return err
			}
			log.Logger = logger
			ctx.Context = logutil.WithLogger(ctx.Context, logger)
			return nil
		},
		Commands: []*cli.Command{
			serve.Cmd(&cfg),
			users.Cmd(&cfg),
			vault.Cmd(&cfg),
			password.Cmd(),
		},
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	err := app.RunContext(ctx, os.Args)
	if err != nil {
		log.Error().Err(err).Msg("Application failed")
		os.Exit(1)
	}
}

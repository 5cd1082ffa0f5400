package serve

import (
	"github.com/andrebq/authbox/internal/cmdflags"
	"github.com/andrebq/authbox/internal/config"
	"github.com/andrebq/authbox/internal/httpserver"
	"github.com/urfave/cli/v2"
)

func Cmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the HTTP api, AUTH_TYPE selects how /api/v1 is protected",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "host",
				Usage:       "Address to bind",
				EnvVars:     []string{"API_HOST"},
				Value:       "0.0.0.0",
				Destination: &cfg.Host,
			},
			&cli.IntFlag{
				Name:        "port",
				Aliases:     []string{"p"},
				Usage:       "Port to bind",
				EnvVars:     []string{"API_PORT"},
				Value:       5000,
				Destination: &cfg.Port,
			},
			cmdflags.Database(&cfg.Database),
		},
		Action: func(ctx *cli.Context) error {
			st, err := Build(ctx.Context, *cfg)
			if err != nil {
				return err
			}
			defer st.Close()
			return httpserver.Serve(ctx.Context, cfg.Addr(), st.Handler)
		},
	}
}

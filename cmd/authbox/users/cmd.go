package users

import (
	"fmt"

	"github.com/andrebq/authbox/account"
	"github.com/andrebq/authbox/internal/cmdflags"
	"github.com/andrebq/authbox/internal/config"
	"github.com/andrebq/authbox/session"
	"github.com/andrebq/authbox/vault"
	"github.com/urfave/cli/v2"
)

func Cmd(cfg *config.Config) *cli.Command {
	var users *vault.Control
	var accounts *account.Service
	return &cli.Command{
		Name:  "users",
		Usage: "Manage the accounts stored in the vault",
		Flags: []cli.Flag{
			cmdflags.Database(&cfg.Database),
		},
		Before: func(ctx *cli.Context) error {
			var err error
			users, err = vault.Open(ctx.Context, cfg.Database)
			if err != nil {
				return err
			}
			// sessions created from the command line are never used
			accounts = account.New(users, session.New(session.NewMemoryStore(), session.Config{}))
			return nil
		},
		After: func(ctx *cli.Context) error {
			if users == nil {
				return nil
			}
			return users.Close()
		},
		Subcommands: []*cli.Command{
			registerCmd(&accounts),
			resetTokenCmd(&accounts),
		},
	}
}

func registerCmd(accounts **account.Service) *cli.Command {
	var email string
	return &cli.Command{
		Name:  "register",
		Usage: "Register a new user (password is read from stdin)",
		Flags: []cli.Flag{
			cmdflags.Email(&email),
		},
		Action: func(ctx *cli.Context) error {
			password, err := cmdflags.ReadSecret(ctx.App.Reader)
			if err != nil {
				return err
			}
			u, err := (*accounts).Register(ctx.Context, email, password)
			if err != nil {
				return err
			}
			fmt.Fprintln(ctx.App.Writer, u.ID)
			return nil
		},
	}
}

func resetTokenCmd(accounts **account.Service) *cli.Command {
	var email string
	return &cli.Command{
		Name:  "reset-token",
		Usage: "Issue a password reset token for the user",
		Flags: []cli.Flag{
			cmdflags.Email(&email),
		},
		Action: func(ctx *cli.Context) error {
			token, err := (*accounts).ResetPasswordToken(ctx.Context, email)
			if err != nil {
				return err
			}
			fmt.Fprintln(ctx.App.Writer, token)
			return nil
		},
	}
}

package password

import (
	"fmt"

	"github.com/andrebq/authbox/credential"
	"github.com/andrebq/authbox/internal/cmdflags"
	"github.com/urfave/cli/v2"
)

func Cmd() *cli.Command {
	return &cli.Command{
		Name:  "password",
		Usage: "Hash and verify passwords (password is read from stdin)",
		Subcommands: []*cli.Command{
			hashCmd(),
			verifyCmd(),
		},
	}
}

func hashCmd() *cli.Command {
	return &cli.Command{
		Name:  "hash",
		Usage: "Print a bcrypt digest of the password",
		Action: func(ctx *cli.Context) error {
			passwd, err := cmdflags.ReadSecret(ctx.App.Reader)
			if err != nil {
				return err
			}
			digest, err := credential.Hash(credential.PlainText(passwd))
			if err != nil {
				return err
			}
			fmt.Fprintln(ctx.App.Writer, string(digest))
			return nil
		},
	}
}

func verifyCmd() *cli.Command {
	var digest string
	return &cli.Command{
		Name:  "verify",
		Usage: "Exit with an error unless the password matches the digest",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "hash",
				Usage:       "Digest produced by password hash",
				Required:    true,
				Destination: &digest,
			},
		},
		Action: func(ctx *cli.Context) error {
			passwd, err := cmdflags.ReadSecret(ctx.App.Reader)
			if err != nil {
				return err
			}
			if !credential.Verify(credential.HashText(digest), credential.PlainText(passwd)) {
				return cli.Exit("password does not match", 1)
			}
			fmt.Fprintln(ctx.App.Writer, "password matches")
			return nil
		},
	}
}

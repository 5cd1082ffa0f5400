package vault

import (
	"fmt"
	"strings"

	"github.com/andrebq/authbox/internal/cmdflags"
	"github.com/andrebq/authbox/internal/config"
	"github.com/andrebq/authbox/vault"
	"github.com/urfave/cli/v2"
)

func Cmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "vault",
		Usage: "Inspect the sqlite vault",
		Flags: []cli.Flag{
			cmdflags.Database(&cfg.Database),
		},
		Subcommands: []*cli.Command{
			describeCmd(cfg),
		},
	}
}

func describeCmd(cfg *config.Config) *cli.Command {
	var table string
	return &cli.Command{
		Name:  "describe",
		Usage: "Print the columns and indexes of a table",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "table",
				Aliases:     []string{"t"},
				Usage:       "Table to describe",
				Value:       "sessions",
				Destination: &table,
			},
		},
		Action: func(ctx *cli.Context) error {
			c, err := vault.Open(ctx.Context, cfg.Database)
			if err != nil {
				return err
			}
			defer c.Close()
			td, err := c.DescribeTable(ctx.Context, table)
			if err != nil {
				return err
			}
			out := ctx.App.Writer
			fmt.Fprintf(out, "table %v\n", td.Name)
			for _, col := range td.Columns {
				notNull := ""
				if col.NotNull {
					notNull = " not null"
				}
				fmt.Fprintf(out, "  %v %v%v\n", col.Name, col.Datatype, notNull)
			}
			fmt.Fprintf(out, "primary key (%v)\n", strings.Join(td.PrimaryKey, ", "))
			for _, idx := range td.Indexes {
				kind := "index"
				if idx.Unique {
					kind = "unique index"
				}
				fmt.Fprintf(out, "%v %v (%v)\n", kind, idx.Name, strings.Join(idx.Columns, ", "))
			}
			return nil
		},
	}
}

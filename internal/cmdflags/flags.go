package cmdflags

import (
	"bufio"
	"errors"
	"io"
	"strings"

	"github.com/urfave/cli/v2"
)

// Database defaults to authbox.db when out is empty.
func Database(out *string) cli.Flag {
	if len(*out) == 0 {
		*out = "authbox.db"
	}
	return &cli.StringFlag{
		Name:        "db",
		Aliases:     []string{"database"},
		Usage:       "Path to the sqlite vault holding users and persistent sessions",
		EnvVars:     []string{"AUTHBOX_DB"},
		Value:       *out,
		Destination: out,
	}
}

func EnvFile(out *string) cli.Flag {
	return &cli.StringFlag{
		Name:        "env-file",
		Usage:       "Optional .env file loaded before reading the configuration",
		EnvVars:     []string{"AUTHBOX_ENV_FILE"},
		Value:       *out,
		Destination: out,
	}
}

func Email(out *string) cli.Flag {
	return &cli.StringFlag{
		Name:        "email",
		Aliases:     []string{"e"},
		Usage:       "Email of the user",
		Required:    true,
		Destination: out,
	}
}

// ReadSecret returns the first line of r, secrets are never passed as
// arguments.
func ReadSecret(r io.Reader) (string, error) {
	sc := bufio.NewScanner(r)
	if !sc.Scan() {
		if sc.Err() != nil {
			return "", sc.Err()
		}
		return "", errors.New("missing password from stdin")
	}
	secret := strings.TrimSpace(sc.Text())
	if len(secret) == 0 {
		return "", errors.New("missing password from stdin")
	}
	return secret, nil
}

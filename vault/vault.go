package vault

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-sqlite3"
)

type (
	Control struct {
		db   *sql.DB
		file string
	}
)

func openDatabase(ctx context.Context, file string) (*sql.DB, error) {
	if dir := filepath.Dir(file); dir != "" {
		err := os.MkdirAll(dir, 0755)
		if err != nil {
			return nil, fmt.Errorf("unable to create directory %v to store vault, cause %w", dir, err)
		}
	}
	connstr := fmt.Sprintf("file:%v?_journal=wal&_busy_timeout=5000&mode=rwc", file)
	conn, err := sql.Open("sqlite3", connstr)
	if err != nil {
		return nil, fmt.Errorf("unable to open %v, cause %v", file, err)
	}
	err = conn.PingContext(ctx)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("unable to ping vault %v, cause %v", file, err)
	}
	return conn, nil
}

// Open loads the vault stored at file, creating it and its tables when
// needed.
func Open(ctx context.Context, file string) (*Control, error) {
	conn, err := openDatabase(ctx, file)
	if err != nil {
		return nil, err
	}
	c := &Control{db: conn, file: file}
	err = c.init(ctx)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("unable to init vault %v, cause %v", file, err)
	}
	return c, nil
}

func (c *Control) File() string {
	return c.file
}

func (c *Control) init(ctx context.Context) error {
	for _, cmd := range []string{
		`create table if not exists users(
			user_id text not null primary key,
			email text not null unique collate nocase,
			hashed_password text not null,
			reset_token text,
			created_at integer not null
		)`,
		`create unique index if not exists uidx_users_reset_token
			on users(reset_token)`,
		`create table if not exists sessions(
			session_id text not null primary key,
			session_hash64 integer not null,
			user_id text not null,
			created_at integer not null
		)`,
		`create index if not exists idx_sessions_session_hash64
			on sessions(session_hash64)`,
		`create index if not exists idx_sessions_user_id
			on sessions(user_id, created_at)`,
	} {
		_, err := c.db.ExecContext(ctx, cmd)
		if err != nil {
			return err
		}
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}

func (c *Control) Close() error {
	return c.db.Close()
}

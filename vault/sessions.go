package vault

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/andrebq/authbox/session"
	"github.com/cespare/xxhash/v2"
)

type (
	// SessionTable stores session records in the sessions table of a vault.
	SessionTable struct {
		db *sql.DB
	}
)

func (c *Control) Sessions() *SessionTable {
	return &SessionTable{db: c.db}
}

func sessionHash(sessionID string) int64 {
	return int64(xxhash.Sum64String(sessionID))
}

func (s *SessionTable) Put(ctx context.Context, rec session.Record) error {
	if rec.SessionID == "" {
		return session.InvalidArgument{Name: "session_id", Reason: "cannot be empty"}
	}
	_, err := s.db.ExecContext(ctx, `insert into sessions(session_id, session_hash64, user_id, created_at) values (?, ?, ?, ?)`,
		rec.SessionID, sessionHash(rec.SessionID), rec.UserID, rec.CreatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("unable to store session, cause %w", err)
	}
	return nil
}

func (s *SessionTable) GetBy(ctx context.Context, field session.Field, value string) (session.Record, error) {
	if err := session.CheckField(field); err != nil {
		return session.Record{}, err
	}
	var row *sql.Row
	switch field {
	case session.FieldSessionID:
		row = s.db.QueryRowContext(ctx, `select session_id, user_id, created_at from sessions
		where session_hash64 = ? and session_id = ?`, sessionHash(value), value)
	case session.FieldUserID:
		row = s.db.QueryRowContext(ctx, `select session_id, user_id, created_at from sessions
		where user_id = ? order by created_at desc limit 1`, value)
	}
	var rec session.Record
	var created int64
	err := row.Scan(&rec.SessionID, &rec.UserID, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return session.Record{}, session.NotFound{Field: field, Value: value}
	} else if err != nil {
		return session.Record{}, fmt.Errorf("unable to load session by %v, cause %w", field, err)
	}
	rec.CreatedAt = time.Unix(0, created).UTC()
	return rec, nil
}

func (s *SessionTable) Delete(ctx context.Context, sessionID string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `delete from sessions where session_hash64 = ? and session_id = ?`,
		sessionHash(sessionID), sessionID)
	if err != nil {
		return false, fmt.Errorf("unable to delete session, cause %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("unable to delete session, cause %w", err)
	}
	return n > 0, nil
}

package session

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type (
	Config struct {
		// Duration after which a session stops resolving, zero means
		// sessions never expire.
		Duration time.Duration
		// Excluded lists the paths that do not require authentication,
		// see RequiresAuthentication.
		Excluded []string
	}

	Option func(*Authenticator)

	Authenticator struct {
		store    Store
		duration time.Duration
		excluded []string
		now      func() time.Time
		newID    func() string
	}
)

// WithClock replaces time.Now as the source of creation and expiration
// timestamps.
func WithClock(now func() time.Time) Option {
	return func(a *Authenticator) {
		a.now = now
	}
}

func New(store Store, cfg Config, opts ...Option) *Authenticator {
	a := &Authenticator{
		store:    store,
		duration: cfg.Duration,
		excluded: append([]string(nil), cfg.Excluded...),
		now:      time.Now,
		newID:    uuid.NewString,
	}
	if a.duration < 0 {
		a.duration = 0
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

func (a *Authenticator) Duration() time.Duration {
	return a.duration
}

// Create starts a new session for userID and returns its id.
func (a *Authenticator) Create(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", InvalidArgument{Name: "user_id", Reason: "cannot be empty"}
	}
	rec := Record{
		SessionID: a.newID(),
		UserID:    userID,
		CreatedAt: a.now(),
	}
	if err := a.store.Put(ctx, rec); err != nil {
		return "", err
	}
	return rec.SessionID, nil
}

// Resolve returns the user that owns sessionID. ok is false when the id is
// empty, unknown or expired, expired records are removed from the store
// before returning.
func (a *Authenticator) Resolve(ctx context.Context, sessionID string) (userID string, ok bool, err error) {
	rec, ok, err := a.Lookup(ctx, FieldSessionID, sessionID)
	if !ok || err != nil {
		return "", false, err
	}
	return rec.UserID, true, nil
}

// Lookup is Resolve for any queryable field.
func (a *Authenticator) Lookup(ctx context.Context, field Field, value string) (Record, bool, error) {
	if value == "" {
		return Record{}, false, nil
	}
	rec, err := a.store.GetBy(ctx, field, value)
	if IsNotFound(err) {
		return Record{}, false, nil
	} else if err != nil {
		return Record{}, false, err
	}
	if a.expired(rec) {
		// a concurrent purge of the same record only makes this Delete
		// report false
		if _, err := a.store.Delete(ctx, rec.SessionID); err != nil {
			return Record{}, false, err
		}
		return Record{}, false, nil
	}
	return rec, true, nil
}

// Destroy removes sessionID and reports whether it existed.
func (a *Authenticator) Destroy(ctx context.Context, sessionID string) (bool, error) {
	if sessionID == "" {
		return false, nil
	}
	return a.store.Delete(ctx, sessionID)
}

func (a *Authenticator) RequiresAuthentication(path string) bool {
	return RequiresAuthentication(path, a.excluded)
}

func (a *Authenticator) expired(rec Record) bool {
	if a.duration <= 0 {
		return false
	}
	return a.now().After(rec.CreatedAt.Add(a.duration))
}

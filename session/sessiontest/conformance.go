// Package sessiontest checks that a session.Store honors the contract the
// Authenticator relies on.
package sessiontest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/andrebq/authbox/session"
	"github.com/stretchr/testify/require"
)

type (
	// Factory returns an empty store, cleanup is registered with t.Cleanup
	// by the factory itself.
	Factory func(t *testing.T) session.Store

	clock struct {
		now time.Time
	}
)

func (c *clock) Now() time.Time { return c.now }

func (c *clock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// Run executes every contract check against stores created by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("PutAndGet", func(t *testing.T) { testPutAndGet(t, newStore(t)) })
	t.Run("GetByUser", func(t *testing.T) { testGetByUser(t, newStore(t)) })
	t.Run("InvalidField", func(t *testing.T) { testInvalidField(t, newStore(t)) })
	t.Run("DeleteIdempotent", func(t *testing.T) { testDeleteIdempotent(t, newStore(t)) })
	t.Run("AuthenticatorRoundTrip", func(t *testing.T) { testRoundTrip(t, newStore(t)) })
	t.Run("AuthenticatorExpiration", func(t *testing.T) { testExpiration(t, newStore(t)) })
}

func testPutAndGet(t *testing.T, st session.Store) {
	ctx := context.Background()
	rec := session.Record{SessionID: "sid-1", UserID: "u-1", CreatedAt: time.Unix(1_600_000_000, 500).UTC()}
	require.NoError(t, st.Put(ctx, rec))

	got, err := st.GetBy(ctx, session.FieldSessionID, "sid-1")
	require.NoError(t, err)
	require.Equal(t, rec.SessionID, got.SessionID)
	require.Equal(t, rec.UserID, got.UserID)
	require.True(t, rec.CreatedAt.Equal(got.CreatedAt), "created_at should survive the store, got %v", got.CreatedAt)

	_, err = st.GetBy(ctx, session.FieldSessionID, "sid-missing")
	require.True(t, session.IsNotFound(err), "expecting NotFound got %v", err)
}

func testGetByUser(t *testing.T, st session.Store) {
	ctx := context.Background()
	base := time.Unix(1_600_000_000, 0).UTC()
	for i, sid := range []string{"sid-a", "sid-b", "sid-c"} {
		rec := session.Record{SessionID: sid, UserID: "u-1", CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		require.NoError(t, st.Put(ctx, rec))
	}
	require.NoError(t, st.Put(ctx, session.Record{SessionID: "sid-other", UserID: "u-2", CreatedAt: base.Add(time.Hour)}))

	got, err := st.GetBy(ctx, session.FieldUserID, "u-1")
	require.NoError(t, err)
	require.Equal(t, "sid-c", got.SessionID, "newest session should win")

	_, err = st.GetBy(ctx, session.FieldUserID, "u-404")
	require.True(t, session.IsNotFound(err), "expecting NotFound got %v", err)
}

func testInvalidField(t *testing.T, st session.Store) {
	_, err := st.GetBy(context.Background(), session.Field("password"), "x")
	var invalid session.InvalidArgument
	require.True(t, errors.As(err, &invalid), "expecting InvalidArgument got %v", err)
}

func testDeleteIdempotent(t *testing.T, st session.Store) {
	ctx := context.Background()
	require.NoError(t, st.Put(ctx, session.Record{SessionID: "sid-1", UserID: "u-1", CreatedAt: time.Now()}))

	removed, err := st.Delete(ctx, "sid-1")
	require.NoError(t, err)
	require.True(t, removed)

	removed, err = st.Delete(ctx, "sid-1")
	require.NoError(t, err)
	require.False(t, removed, "second delete should report nothing removed")

	_, err = st.GetBy(ctx, session.FieldUserID, "u-1")
	require.True(t, session.IsNotFound(err), "user index should forget deleted sessions, got %v", err)
}

func testRoundTrip(t *testing.T, st session.Store) {
	ctx := context.Background()
	auth := session.New(st, session.Config{})
	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		sid, err := auth.Create(ctx, "u-1")
		require.NoError(t, err)
		require.Len(t, sid, 36)
		require.False(t, seen[sid], "session ids must not repeat")
		seen[sid] = true

		uid, ok, err := auth.Resolve(ctx, sid)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, "u-1", uid)
	}
	for sid := range seen {
		destroyed, err := auth.Destroy(ctx, sid)
		require.NoError(t, err)
		require.True(t, destroyed)
		destroyed, err = auth.Destroy(ctx, sid)
		require.NoError(t, err)
		require.False(t, destroyed)
		_, ok, err := auth.Resolve(ctx, sid)
		require.NoError(t, err)
		require.False(t, ok)
	}
}

func testExpiration(t *testing.T, st session.Store) {
	ctx := context.Background()
	c := &clock{now: time.Unix(1_600_000_000, 0).UTC()}
	auth := session.New(st, session.Config{Duration: time.Second}, session.WithClock(c.Now))

	sid, err := auth.Create(ctx, "u-1")
	require.NoError(t, err)

	c.Advance(time.Second)
	uid, ok, err := auth.Resolve(ctx, sid)
	require.NoError(t, err)
	require.True(t, ok, "a session is still valid at exactly its duration")
	require.Equal(t, "u-1", uid)

	c.Advance(time.Millisecond)
	_, ok, err = auth.Resolve(ctx, sid)
	require.NoError(t, err)
	require.False(t, ok)

	_, err = st.GetBy(ctx, session.FieldSessionID, sid)
	require.True(t, session.IsNotFound(err), "expired session should be purged, got %v", err)
}

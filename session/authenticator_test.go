package session

import (
	"context"
	"errors"
	"testing"
	"time"
)

type (
	failingStore struct {
		err error
	}
)

func (f failingStore) Put(context.Context, Record) error { return f.err }

func (f failingStore) GetBy(context.Context, Field, string) (Record, error) {
	return Record{}, f.err
}

func (f failingStore) Delete(context.Context, string) (bool, error) { return false, f.err }

func TestCreateRequiresUser(t *testing.T) {
	auth := New(NewMemoryStore(), Config{})
	_, err := auth.Create(context.Background(), "")
	if !errors.Is(err, InvalidArgument{Name: "user_id", Reason: "cannot be empty"}) {
		t.Fatalf("Error should be InvalidArgument got %#v", err)
	}
}

func TestResolveUnknown(t *testing.T) {
	ctx := context.Background()
	auth := New(NewMemoryStore(), Config{})
	for _, sid := range []string{"", "not-a-session", "00000000-0000-0000-0000-000000000000"} {
		uid, ok, err := auth.Resolve(ctx, sid)
		if err != nil {
			t.Fatal(err)
		} else if ok || uid != "" {
			t.Errorf("Resolve(%q) should find nothing, got %q", sid, uid)
		}
	}
	if ok, err := auth.Destroy(ctx, ""); ok || err != nil {
		t.Fatalf("Destroy of an empty id should be a no-op, got %v %v", ok, err)
	}
}

func TestZeroDurationNeverExpires(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1_600_000_000, 0)
	auth := New(NewMemoryStore(), Config{}, WithClock(func() time.Time { return now }))
	sid, err := auth.Create(ctx, "u-1")
	if err != nil {
		t.Fatal(err)
	}
	now = now.Add(24 * 365 * time.Hour)
	if uid, ok, err := auth.Resolve(ctx, sid); err != nil || !ok || uid != "u-1" {
		t.Fatalf("session without duration should resolve forever, got %q %v %v", uid, ok, err)
	}
}

func TestNegativeDurationIsZero(t *testing.T) {
	auth := New(NewMemoryStore(), Config{Duration: -time.Second})
	if auth.Duration() != 0 {
		t.Fatalf("negative durations should be clamped, got %v", auth.Duration())
	}
}

func TestExpiredSessionIsPurged(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1_600_000_000, 0)
	st := NewMemoryStore()
	auth := New(st, Config{Duration: time.Second}, WithClock(func() time.Time { return now }))
	sid, err := auth.Create(ctx, "u-1")
	if err != nil {
		t.Fatal(err)
	}
	now = now.Add(1100 * time.Millisecond)
	if _, ok, err := auth.Resolve(ctx, sid); err != nil || ok {
		t.Fatalf("expired session should not resolve, got %v %v", ok, err)
	}
	if _, err := st.GetBy(ctx, FieldSessionID, sid); !IsNotFound(err) {
		t.Fatalf("expired session should be removed from the store, got %v", err)
	}
	if ok, _ := auth.Destroy(ctx, sid); ok {
		t.Fatal("purged session cannot be destroyed again")
	}
}

func TestLookupByUser(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1_600_000_000, 0)
	auth := New(NewMemoryStore(), Config{Duration: time.Minute}, WithClock(func() time.Time { return now }))
	first, _ := auth.Create(ctx, "u-1")
	now = now.Add(30 * time.Second)
	second, _ := auth.Create(ctx, "u-1")

	rec, ok, err := auth.Lookup(ctx, FieldUserID, "u-1")
	if err != nil || !ok || rec.SessionID != second {
		t.Fatalf("newest session should be returned, got %v %v %v", rec, ok, err)
	}
	now = now.Add(45 * time.Second)
	// second is now 45s old, first 75s and expired
	if _, ok, _ := auth.Resolve(ctx, first); ok {
		t.Fatal("first session should have expired")
	}
	rec, ok, err = auth.Lookup(ctx, FieldUserID, "u-1")
	if err != nil || !ok || rec.SessionID != second {
		t.Fatalf("second session should still be live, got %v %v %v", rec, ok, err)
	}
	if _, ok, _ := auth.Lookup(ctx, FieldUserID, ""); ok {
		t.Fatal("empty value never matches")
	}
}

func TestStorageFaultsPropagate(t *testing.T) {
	ctx := context.Background()
	fault := errors.New("disk on fire")
	auth := New(failingStore{err: fault}, Config{})
	if _, err := auth.Create(ctx, "u-1"); !errors.Is(err, fault) {
		t.Fatalf("Create should return the store error, got %v", err)
	}
	if _, _, err := auth.Resolve(ctx, "sid"); !errors.Is(err, fault) {
		t.Fatalf("Resolve should return the store error, got %v", err)
	}
	if _, err := auth.Destroy(ctx, "sid"); !errors.Is(err, fault) {
		t.Fatalf("Destroy should return the store error, got %v", err)
	}
}

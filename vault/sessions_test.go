package vault_test

import (
	"context"
	"testing"
	"time"

	"github.com/andrebq/authbox/internal/testutil"
	"github.com/andrebq/authbox/session"
	"github.com/andrebq/authbox/session/sessiontest"
	"github.com/andrebq/authbox/vault"
)

func TestSessionTable(t *testing.T) {
	sessiontest.Run(t, func(t *testing.T) session.Store {
		v, cleanup := testutil.AcquireVault(context.Background(), t, "sessions")
		t.Cleanup(cleanup)
		return v.Sessions()
	})
}

func TestSessionsSurviveRestart(t *testing.T) {
	ctx := context.Background()
	v, cleanup := testutil.AcquireVault(ctx, t, "restart")
	defer cleanup()
	auth := session.New(v.Sessions(), session.Config{Duration: time.Hour})
	sid, err := auth.Create(ctx, "u-1")
	if err != nil {
		t.Fatal(err)
	}

	again, err := vault.Open(ctx, v.File())
	if err != nil {
		t.Fatal(err)
	}
	defer again.Close()
	uid, ok, err := session.New(again.Sessions(), session.Config{Duration: time.Hour}).Resolve(ctx, sid)
	if err != nil {
		t.Fatal(err)
	} else if !ok || uid != "u-1" {
		t.Fatalf("session should resolve after reopening the vault, got %q %v", uid, ok)
	}
}

package testutil

import (
	"context"
	"os"
	"path/filepath"

	"github.com/andrebq/authbox/vault"
)

type (
	TestLog interface {
		Fatal(...interface{})
		Log(...interface{})
	}
)

// AcquireVault opens a fresh vault under a temporary directory, cleanup
// closes it and removes the directory.
func AcquireVault(ctx context.Context, t TestLog, name string) (*vault.Control, func()) {
	dir, err := os.MkdirTemp("", "authbox-tests")
	if err != nil {
		t.Fatal(err)
	}
	ctl, err := vault.Open(ctx, filepath.Join(dir, name, "vault.db"))
	if err != nil {
		os.RemoveAll(dir)
		t.Fatal(err)
	}
	return ctl, func() {
		err := ctl.Close()
		if err != nil {
			t.Log("unable to close vault", err)
		}
		err = os.RemoveAll(dir)
		if err != nil {
			t.Log("unable to cleanup temp dir", dir)
		}
	}
}

package session

import "context"

type (
	// Store keeps session records keyed by their session id.
	//
	// GetBy returns a NotFound error when nothing matches and an
	// InvalidArgument error for fields other than FieldSessionID and
	// FieldUserID. When more than one record matches, the newest one is
	// returned.
	//
	// Delete reports whether a record existed and was removed, deleting an
	// unknown id is not an error.
	//
	// Any other error is a failure of the backing storage.
	Store interface {
		Put(ctx context.Context, rec Record) error
		GetBy(ctx context.Context, field Field, value string) (Record, error)
		Delete(ctx context.Context, sessionID string) (bool, error)
	}
)

// Package session issues opaque session identifiers and resolves them back
// to the user that owns them.
//
// An Authenticator is a small state machine over a Store. A session id is
// either absent, active, expired or destroyed. Expired is never stored: a
// record is expired when it is older than the configured duration, and the
// Authenticator removes it from the Store the first time it notices.
// There is no background sweeper.
//
// Absence is not an error. Resolve and Destroy report a missing, empty or
// expired session through their boolean result, errors are reserved for
// malformed input and for failures of the Store itself, which are returned
// as-is and never retried.
package session

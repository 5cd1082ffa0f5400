// Package vault is the sqlite database behind authbox.
//
// It holds the user directory (emails, bcrypt digests and pending reset
// tokens) and the persistent session table used when sessions must
// survive a restart. Only digests are ever written, plain passwords never
// reach this package.
package vault

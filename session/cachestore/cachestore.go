// Package cachestore keeps session records in a bigcache instance.
//
// Like session.MemoryStore nothing survives a restart, but records live
// outside of the Go heap and lookups never contend on a single lock.
// bigcache may also evict entries on its own, either because they outlived
// its life window or because the cache is full. An evicted session is
// treated as a destroyed one: the user has to login again.
package cachestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/allegro/bigcache/v3"
	"github.com/andrebq/authbox/session"
	"github.com/cespare/xxhash/v2"
)

type (
	Store struct {
		cache *bigcache.BigCache
	}

	xxHasher struct{}
)

// forever is used as the life window when sessions never expire, bigcache
// evicts anything older than its window.
const forever = 100 * 365 * 24 * time.Hour

func (xxHasher) Sum64(key string) uint64 {
	return xxhash.Sum64String(key)
}

// New returns a store whose entries outlive sessionDuration, so expiration
// is decided by the Authenticator and not by bigcache. Use zero for sessions
// that never expire.
func New(sessionDuration time.Duration) (*Store, error) {
	cfg := bigcache.DefaultConfig(forever)
	cfg.CleanWindow = 0
	if sessionDuration > 0 && sessionDuration < forever/2 {
		cfg.LifeWindow = 2 * sessionDuration
		cfg.CleanWindow = sessionDuration
		if cfg.CleanWindow < time.Second {
			cfg.CleanWindow = time.Second
		}
	}
	// records are ~150 bytes, the defaults preallocate hundreds of MB
	cfg.Shards = 64
	cfg.MaxEntriesInWindow = 10_000
	cfg.MaxEntrySize = 256
	cfg.Hasher = xxHasher{}
	cfg.Verbose = false
	cache, err := bigcache.NewBigCache(cfg)
	if err != nil {
		return nil, fmt.Errorf("cachestore: unable to create cache, cause %w", err)
	}
	return &Store{cache: cache}, nil
}

func (s *Store) Put(_ context.Context, rec session.Record) error {
	if rec.SessionID == "" {
		return session.InvalidArgument{Name: "session_id", Reason: "cannot be empty"}
	}
	buf, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("cachestore: unable to encode session, cause %w", err)
	}
	if err := s.cache.Set(rec.SessionID, buf); err != nil {
		return fmt.Errorf("cachestore: unable to save session, cause %w", err)
	}
	return nil
}

func (s *Store) GetBy(_ context.Context, field session.Field, value string) (session.Record, error) {
	if err := session.CheckField(field); err != nil {
		return session.Record{}, err
	}
	if field == session.FieldSessionID {
		return s.get(value)
	}
	var matches []session.Record
	it := s.cache.Iterator()
	for it.SetNext() {
		entry, err := it.Value()
		if err != nil {
			// evicted while iterating
			continue
		}
		var rec session.Record
		if err := json.Unmarshal(entry.Value(), &rec); err != nil {
			return session.Record{}, fmt.Errorf("cachestore: corrupt entry %v, cause %w", entry.Key(), err)
		}
		if rec.Value(field) == value {
			matches = append(matches, rec)
		}
	}
	rec, ok := session.Newest(matches)
	if !ok {
		return session.Record{}, session.NotFound{Field: field, Value: value}
	}
	return rec, nil
}

func (s *Store) get(sessionID string) (session.Record, error) {
	buf, err := s.cache.Get(sessionID)
	if errors.Is(err, bigcache.ErrEntryNotFound) {
		return session.Record{}, session.NotFound{Field: session.FieldSessionID, Value: sessionID}
	} else if err != nil {
		return session.Record{}, fmt.Errorf("cachestore: unable to read session, cause %w", err)
	}
	var rec session.Record
	if err := json.Unmarshal(buf, &rec); err != nil {
		return session.Record{}, fmt.Errorf("cachestore: corrupt entry %v, cause %w", sessionID, err)
	}
	return rec, nil
}

func (s *Store) Delete(_ context.Context, sessionID string) (bool, error) {
	err := s.cache.Delete(sessionID)
	if errors.Is(err, bigcache.ErrEntryNotFound) {
		return false, nil
	} else if err != nil {
		return false, fmt.Errorf("cachestore: unable to delete session, cause %w", err)
	}
	return true, nil
}

func (s *Store) Len() int {
	return s.cache.Len()
}

func (s *Store) Close() error {
	return s.cache.Close()
}

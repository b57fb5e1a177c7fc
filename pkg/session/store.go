// Copyright (C) 2025 SkillSphere Learning (opensource@skillsphere.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package session

import (
	"errors"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v4"
)

// Record is the durable shape of a session: exactly the fields a restart
// needs to pick up where the user left off.
type Record struct {
	Token       string
	UserID      string
	Username    string
	ProfileIcon string
}

// storage keys, one per field so a partial record is visible as such
const (
	keyToken       = "session/token"
	keyUserID      = "session/user_id"
	keyUsername    = "session/username"
	keyProfileIcon = "session/profile_icon"
)

// Store persists the session record on BadgerDB.
//
// Badger gives local embedded storage with synchronous writes, so a crash
// right after login still leaves a restorable session on disk.
type Store struct {
	db *badger.DB
}

// StoreConfig configures the store location.
type StoreConfig struct {
	// Path is the directory for the database files. Created if absent.
	// Ignored when InMemory is set.
	Path string

	// InMemory keeps everything in RAM. For tests.
	InMemory bool
}

// OpenStore opens (or creates) the session database.
func OpenStore(cfg StoreConfig) (*Store, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0700); err != nil {
			return nil, fmt.Errorf("create session dir: %w", err)
		}
		opts = badger.DefaultOptions(cfg.Path).WithSyncWrites(true)
	}
	// Badger's own chatter is noise at CLI verbosity.
	opts = opts.WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	return &Store{db: db}, nil
}

// Save writes all fields in one transaction.
func (s *Store) Save(rec Record) error {
	return s.db.Update(func(txn *badger.Txn) error {
		pairs := map[string]string{
			keyToken:       rec.Token,
			keyUserID:      rec.UserID,
			keyUsername:    rec.Username,
			keyProfileIcon: rec.ProfileIcon,
		}
		for k, v := range pairs {
			if err := txn.Set([]byte(k), []byte(v)); err != nil {
				return err
			}
		}
		return nil
	})
}

// Load reads the persisted record. found is false when no token is stored,
// which is the signed-out state.
func (s *Store) Load() (rec Record, found bool, err error) {
	err = s.db.View(func(txn *badger.Txn) error {
		get := func(key string, dst *string) error {
			item, err := txn.Get([]byte(key))
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			val, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			*dst = string(val)
			return nil
		}
		if err := get(keyToken, &rec.Token); err != nil {
			return err
		}
		if err := get(keyUserID, &rec.UserID); err != nil {
			return err
		}
		if err := get(keyUsername, &rec.Username); err != nil {
			return err
		}
		return get(keyProfileIcon, &rec.ProfileIcon)
	})
	if err != nil {
		return Record{}, false, fmt.Errorf("load session: %w", err)
	}
	return rec, rec.Token != "", nil
}

// Clear deletes every session field. Idempotent.
func (s *Store) Clear() error {
	return s.db.Update(func(txn *badger.Txn) error {
		for _, key := range []string{keyToken, keyUserID, keyUsername, keyProfileIcon} {
			if err := txn.Delete([]byte(key)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
				return err
			}
		}
		return nil
	})
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Copyright (C) 2025 SkillSphere Learning (opensource@skillsphere.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

/*
Package session owns authentication state: who the current user is, the
bearer token that proves it, and the durable copy of both that survives
restarts.

# Lifecycle

A Manager is created around the shared sphere.Client and a Store. On
process start, Restore reads the persisted record and validates its token
against the server; until Restore resolves, Ready reports false and
consumers must treat the session as loading. Login, Register and Logout
move the session between signed-in and signed-out; all persisted fields
move with it atomically.

# Token propagation

The Manager installs itself as the client's token source at construction.
Any token change is visible through that source before the session
operation returns, so a request issued by any other component immediately
afterwards always carries the current token. Only the Manager mutates the
token; everything else reads it.

# Token storage

The in-memory plaintext of the token lives in a memguard enclave and is
only materialized while a request header is being built. The durable copy
in the Store is what a restart restores from.
*/
package session

import (
	"context"
	"sync"

	"github.com/awnumar/memguard"

	"github.com/skillsphere/sphere-cli/pkg/logging"
	"github.com/skillsphere/sphere-cli/pkg/sphere"
	"github.com/skillsphere/sphere-cli/pkg/validation"
)

// Manager is the single source of truth for the current session.
// Safe for concurrent use.
type Manager struct {
	client *sphere.Client
	store  *Store
	logger *logging.Logger

	mu         sync.RWMutex
	sess       sphere.Session
	enclave    *memguard.Enclave
	ready      bool
	restoreErr error
}

// ManagerOption customizes a Manager.
type ManagerOption func(*Manager)

// WithLogger sets the structured logger.
func WithLogger(l *logging.Logger) ManagerOption {
	return func(m *Manager) { m.logger = l }
}

// NewManager wires a Manager to the shared client and durable store, and
// installs the manager as the client's bearer token source.
func NewManager(client *sphere.Client, store *Store, opts ...ManagerOption) *Manager {
	m := &Manager{
		client: client,
		store:  store,
		logger: logging.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	client.SetTokenSource(m.Token)
	return m
}

// Ready reports whether Restore has resolved (or a login happened first).
func (m *Manager) Ready() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ready
}

// RestoreError returns the recoverable error recorded when Restore found a
// persisted session it could not validate, or nil.
func (m *Manager) RestoreError() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.restoreErr
}

// Current returns a snapshot of the session, token included. The snapshot
// is consistent for the caller's render cycle; it does not track later
// changes.
func (m *Manager) Current() sphere.Session {
	m.mu.RLock()
	sess := m.sess
	m.mu.RUnlock()
	sess.Token = m.Token()
	return sess
}

// SignedIn reports whether a token is held.
func (m *Manager) SignedIn() bool { return m.Token() != "" }

// Token returns the current bearer token, or "" when signed out. The
// plaintext is decrypted from the enclave per call and not retained.
func (m *Manager) Token() string {
	m.mu.RLock()
	enc := m.enclave
	m.mu.RUnlock()
	if enc == nil {
		return ""
	}
	buf, err := enc.Open()
	if err != nil {
		return ""
	}
	defer buf.Destroy()
	return string(buf.Bytes())
}

// Restore loads the persisted session, if any, and validates its token
// against the server.
//
// Outcomes:
//   - nothing persisted: session stays empty, Ready becomes true.
//   - token validates: session is populated from the record, Ready true.
//   - validation fails (expired token, server rejects): all persisted
//     fields and the in-memory session are cleared, the failure is
//     recorded as a recoverable error retrievable via RestoreError, and
//     Restore returns nil so startup continues signed-out.
//
// A transport failure is returned as an error without touching the
// persisted record: an unreachable server does not mean the session is
// bad.
func (m *Manager) Restore(ctx context.Context) error {
	rec, found, err := m.store.Load()
	if err != nil {
		m.setReady()
		return err
	}
	if !found {
		m.logger.Debug("no persisted session")
		m.setReady()
		return nil
	}

	resp, err := m.client.ValidateToken(ctx, rec.Token)
	if err != nil {
		if sphere.IsKind(err, sphere.KindNetwork) {
			m.setReady()
			return err
		}
		m.logger.Warn("persisted session rejected, signing out",
			"user_id", rec.UserID,
			"kind", sphere.KindOf(err).String(),
		)
		m.Logout()
		m.mu.Lock()
		m.restoreErr = err
		m.mu.Unlock()
		m.setReady()
		return nil
	}

	userID := resp.UserID
	if userID == "" {
		userID = rec.UserID
	}
	m.install(rec.Token, sphere.Session{
		UserID:      userID,
		Username:    rec.Username,
		ProfileIcon: rec.ProfileIcon,
	})
	m.setReady()
	m.logger.Info("session restored", "user_id", userID, "username", rec.Username)
	return nil
}

// Login exchanges credentials for a session. On success the token is
// installed and all fields are persisted before Login returns. Invalid
// credentials surface as the auth error kind; the session is unchanged.
func (m *Manager) Login(ctx context.Context, username, password string) error {
	if err := validation.Struct(validation.Credentials{Username: username, Password: password}); err != nil {
		return err
	}

	resp, err := m.client.Login(ctx, username, password)
	if err != nil {
		return err
	}

	sess := sphere.Session{UserID: resp.UserID, Username: username}
	m.install(resp.Token, sess)

	// Best-effort profile fetch for the icon; the session is valid
	// without it.
	if profile, err := m.client.GetProfile(ctx); err == nil {
		sess.ProfileIcon = profile.ProfileIcon
		m.install(resp.Token, sess)
	}

	if err := m.persist(resp.Token, sess); err != nil {
		return err
	}
	m.setReady()
	m.logger.Info("logged in", "user_id", sess.UserID, "username", username)
	return nil
}

// Register creates an account and signs in with the returned token. A
// taken username surfaces as the conflict kind; malformed input never
// reaches the network.
func (m *Manager) Register(ctx context.Context, username, password, email string) error {
	if err := validation.Struct(validation.Registration{
		Username: username,
		Password: password,
		Email:    email,
	}); err != nil {
		return err
	}

	resp, err := m.client.Register(ctx, username, password, email)
	if err != nil {
		return err
	}

	sess := sphere.Session{UserID: resp.UserID, Username: username}
	m.install(resp.Token, sess)
	if err := m.persist(resp.Token, sess); err != nil {
		return err
	}
	m.setReady()
	m.logger.Info("registered", "user_id", sess.UserID, "username", username)
	return nil
}

// Logout clears the session, the token source and every persisted field.
// Synchronous and idempotent; safe to call in any state.
func (m *Manager) Logout() {
	m.mu.Lock()
	m.sess = sphere.Session{}
	m.enclave = nil
	m.restoreErr = nil
	m.mu.Unlock()

	if err := m.store.Clear(); err != nil {
		m.logger.Warn("could not clear persisted session", "error", err.Error())
	}
	m.logger.Debug("logged out")
}

// Profile fetches the signed-in account's details.
func (m *Manager) Profile(ctx context.Context) (sphere.Profile, error) {
	if !m.SignedIn() {
		return sphere.Profile{}, sphere.ErrAuthRequired("profile")
	}
	return m.client.GetProfile(ctx)
}

// UpdateProfile replaces account fields and re-persists the ones the
// session mirrors (username, profile icon).
func (m *Manager) UpdateProfile(ctx context.Context, patch sphere.Profile) (sphere.Profile, error) {
	if !m.SignedIn() {
		return sphere.Profile{}, sphere.ErrAuthRequired("profile update")
	}
	updated, err := m.client.UpdateProfile(ctx, patch)
	if err != nil {
		return sphere.Profile{}, err
	}

	token := m.Token()
	m.mu.Lock()
	if updated.Username != "" {
		m.sess.Username = updated.Username
	}
	m.sess.ProfileIcon = updated.ProfileIcon
	sess := m.sess
	m.mu.Unlock()

	if err := m.persist(token, sess); err != nil {
		return updated, err
	}
	return updated, nil
}

// DeleteAccount permanently removes the account, then signs out locally.
func (m *Manager) DeleteAccount(ctx context.Context) error {
	if !m.SignedIn() {
		return sphere.ErrAuthRequired("account deletion")
	}
	if err := m.client.DeleteProfile(ctx); err != nil {
		return err
	}
	m.Logout()
	return nil
}

// install swaps the in-memory session and token enclave. The token source
// the client reads is backed by this state, so the header change is
// visible before install returns.
func (m *Manager) install(token string, sess sphere.Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if token == "" {
		m.enclave = nil
	} else {
		m.enclave = memguard.NewEnclave([]byte(token))
	}
	sess.Token = ""
	m.sess = sess
	m.restoreErr = nil
}

func (m *Manager) persist(token string, sess sphere.Session) error {
	return m.store.Save(Record{
		Token:       token,
		UserID:      sess.UserID,
		Username:    sess.Username,
		ProfileIcon: sess.ProfileIcon,
	})
}

func (m *Manager) setReady() {
	m.mu.Lock()
	m.ready = true
	m.mu.Unlock()
}

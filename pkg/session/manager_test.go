// Copyright (C) 2025 SkillSphere Learning (opensource@skillsphere.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillsphere/sphere-cli/pkg/sphere"
)

// fakeBackend is a minimal auth server: one account, one valid token.
type fakeBackend struct {
	username   string
	password   string
	token      string
	userID     string
	icon       string
	loginCalls int
}

func (f *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		f.loginCalls++
		var req struct{ Username, Password string }
		json.NewDecoder(r.Body).Decode(&req)
		if req.Username != f.username || req.Password != f.password {
			http.Error(w, `{"error":"invalid username or password"}`, http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"token": f.token, "userId": f.userID})
	})
	mux.HandleFunc("POST /api/auth/register", func(w http.ResponseWriter, r *http.Request) {
		var req struct{ Username, Password, Email string }
		json.NewDecoder(r.Body).Decode(&req)
		if req.Username == f.username {
			http.Error(w, `{"error":"Username already exists"}`, http.StatusConflict)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"token": "fresh-token", "userId": "u-new"})
	})
	mux.HandleFunc("GET /api/auth/validate", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+f.token {
			http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"userId": f.userID})
	})
	mux.HandleFunc("GET /api/auth/profile", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+f.token {
			http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(sphere.Profile{
			UserID: f.userID, Username: f.username, ProfileIcon: f.icon,
		})
	})
	return mux
}

func newTestManager(t *testing.T, backend http.Handler) (*Manager, *sphere.Client, *Store) {
	t.Helper()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	client := sphere.NewClient(srv.URL)
	store := openTestStore(t)
	return NewManager(client, store), client, store
}

func TestLoginInstallsAndPersists(t *testing.T) {
	backend := &fakeBackend{
		username: "alice", password: "Secret1!", token: "t1", userID: "u1", icon: "icon.png",
	}
	mgr, client, store := newTestManager(t, backend.handler())

	require.NoError(t, mgr.Login(context.Background(), "alice", "Secret1!"))

	assert.True(t, mgr.SignedIn())
	assert.True(t, mgr.Ready())
	assert.Equal(t, "t1", mgr.Token())
	assert.Equal(t, "t1", client.Token(), "the client sees the token through the installed source")

	sess := mgr.Current()
	assert.Equal(t, "u1", sess.UserID)
	assert.Equal(t, "alice", sess.Username)
	assert.Equal(t, "icon.png", sess.ProfileIcon)

	rec, found, err := store.Load()
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, Record{Token: "t1", UserID: "u1", Username: "alice", ProfileIcon: "icon.png"}, rec)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	backend := &fakeBackend{username: "alice", password: "Secret1!", token: "t1", userID: "u1"}
	mgr, _, store := newTestManager(t, backend.handler())

	err := mgr.Login(context.Background(), "alice", "WrongPass1")
	require.Error(t, err)
	assert.True(t, sphere.IsKind(err, sphere.KindAuthError))
	assert.False(t, mgr.SignedIn())

	_, found, _ := store.Load()
	assert.False(t, found, "a failed login persists nothing")
}

func TestLoginValidatesInputBeforeNetwork(t *testing.T) {
	backend := &fakeBackend{username: "alice", password: "Secret1!", token: "t1", userID: "u1"}
	mgr, _, _ := newTestManager(t, backend.handler())

	err := mgr.Login(context.Background(), "al", "short")
	require.Error(t, err)
	assert.True(t, sphere.IsKind(err, sphere.KindValidation))
	assert.Zero(t, backend.loginCalls, "malformed input never reaches the server")
}

func TestRegisterConflict(t *testing.T) {
	backend := &fakeBackend{username: "alice", password: "Secret1!", token: "t1", userID: "u1"}
	mgr, _, _ := newTestManager(t, backend.handler())

	err := mgr.Register(context.Background(), "alice", "Secret1!pw", "alice@example.com")
	require.Error(t, err)
	assert.True(t, sphere.IsKind(err, sphere.KindConflict))
	assert.False(t, mgr.SignedIn())

	require.NoError(t, mgr.Register(context.Background(), "bob", "Secret1!pw", "bob@example.com"))
	assert.True(t, mgr.SignedIn())
	assert.Equal(t, "fresh-token", mgr.Token())
}

func TestLogoutClearsEverything(t *testing.T) {
	backend := &fakeBackend{username: "alice", password: "Secret1!", token: "t1", userID: "u1"}
	mgr, client, store := newTestManager(t, backend.handler())
	require.NoError(t, mgr.Login(context.Background(), "alice", "Secret1!"))

	mgr.Logout()

	assert.False(t, mgr.SignedIn())
	assert.Empty(t, client.Token())
	assert.True(t, mgr.Current().Empty())
	_, found, _ := store.Load()
	assert.False(t, found)

	// Idempotent.
	mgr.Logout()
	assert.False(t, mgr.SignedIn())
}

func TestRestoreWithNothingPersisted(t *testing.T) {
	backend := &fakeBackend{username: "alice", password: "Secret1!", token: "t1", userID: "u1"}
	mgr, _, _ := newTestManager(t, backend.handler())

	assert.False(t, mgr.Ready())
	require.NoError(t, mgr.Restore(context.Background()))
	assert.True(t, mgr.Ready())
	assert.False(t, mgr.SignedIn())
	assert.NoError(t, mgr.RestoreError())
}

func TestRestoreValidSession(t *testing.T) {
	backend := &fakeBackend{username: "alice", password: "Secret1!", token: "t1", userID: "u1"}
	mgr, client, store := newTestManager(t, backend.handler())
	require.NoError(t, store.Save(Record{
		Token: "t1", UserID: "u1", Username: "alice", ProfileIcon: "icon.png",
	}))

	require.NoError(t, mgr.Restore(context.Background()))

	assert.True(t, mgr.Ready())
	assert.True(t, mgr.SignedIn())
	assert.Equal(t, "t1", client.Token())
	sess := mgr.Current()
	assert.Equal(t, "alice", sess.Username)
	assert.Equal(t, "icon.png", sess.ProfileIcon)
}

func TestRestoreRejectedTokenSignsOut(t *testing.T) {
	backend := &fakeBackend{username: "alice", password: "Secret1!", token: "t1", userID: "u1"}
	mgr, _, store := newTestManager(t, backend.handler())
	require.NoError(t, store.Save(Record{Token: "expired", UserID: "u1", Username: "alice"}))

	// A rejected token is a recoverable condition: Restore reports success
	// and the process continues signed out.
	require.NoError(t, mgr.Restore(context.Background()))

	assert.True(t, mgr.Ready())
	assert.False(t, mgr.SignedIn())
	require.Error(t, mgr.RestoreError())
	assert.True(t, sphere.IsKind(mgr.RestoreError(), sphere.KindAuthError))

	_, found, _ := store.Load()
	assert.False(t, found, "the bad record is cleared so the next start is clean")
}

func TestRestoreKeepsRecordOnNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client := sphere.NewClient(srv.URL)
	srv.Close() // validation will hit a dead server

	store := openTestStore(t)
	mgr := NewManager(client, store)
	require.NoError(t, store.Save(Record{Token: "t1", UserID: "u1", Username: "alice"}))

	err := mgr.Restore(context.Background())
	require.Error(t, err)
	assert.True(t, sphere.IsKind(err, sphere.KindNetwork))

	_, found, _ := store.Load()
	assert.True(t, found, "an unreachable server does not invalidate the session")
}

func TestTokenPropagationHappensBeforeReturn(t *testing.T) {
	backend := &fakeBackend{username: "alice", password: "Secret1!", token: "t1", userID: "u1"}
	mgr, client, _ := newTestManager(t, backend.handler())

	require.NoError(t, mgr.Login(context.Background(), "alice", "Secret1!"))

	// Anything reading the client immediately after login sees the token.
	profile, err := client.GetProfile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "alice", profile.Username)
}

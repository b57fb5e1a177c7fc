// Copyright (C) 2025 SkillSphere Learning (opensource@skillsphere.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package sphere

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		status int
		kind   ErrorKind
	}{
		{"unauthorized", http.StatusUnauthorized, KindAuthError},
		{"forbidden", http.StatusForbidden, KindForbidden},
		{"conflict", http.StatusConflict, KindConflict},
		{"business rule", http.StatusBadRequest, KindForbidden},
		{"server error", http.StatusInternalServerError, KindNetwork},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, `{"error":"nope"}`, tc.status)
			}))
			defer srv.Close()

			c := NewClient(srv.URL)
			err := c.Get(context.Background(), "/api/getall/questions", nil)
			require.Error(t, err)
			assert.True(t, IsKind(err, tc.kind), "got kind %s", KindOf(err))
		})
	}
}

func TestTransportFailureIsNetworkKind(t *testing.T) {
	c := NewClient("http://127.0.0.1:1") // nothing listens here
	err := c.Get(context.Background(), "/api/posts", nil)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindNetwork))

	var se *Error
	require.ErrorAs(t, err, &se)
	assert.NotEmpty(t, se.Remediation)
}

func TestBearerTokenAttachment(t *testing.T) {
	var seen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get("Authorization"))
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	require.NoError(t, c.Get(context.Background(), "/api/posts", nil))

	c.SetTokenSource(func() string { return "tok-1" })
	require.NoError(t, c.Get(context.Background(), "/api/posts", nil))

	c.SetTokenSource(nil)
	require.NoError(t, c.Get(context.Background(), "/api/posts", nil))

	require.Len(t, seen, 3)
	assert.Empty(t, seen[0], "no header before a token is installed")
	assert.Equal(t, "Bearer tok-1", seen[1])
	assert.Empty(t, seen[2], "clearing the source removes the header")
}

func TestValidateTokenBypassesInstalledSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer stored-token" {
			http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(AuthResponse{UserID: "u1"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	c.SetTokenSource(func() string { return "a-different-live-token" })

	resp, err := c.ValidateToken(context.Background(), "stored-token")
	require.NoError(t, err)
	assert.Equal(t, "u1", resp.UserID)

	_, err = c.ValidateToken(context.Background(), "garbage")
	assert.True(t, IsKind(err, KindAuthError))
}

func TestMalformedResponseIsNetworkKind(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	var out []Question
	err := c.Get(context.Background(), "/api/getall/questions", &out)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindNetwork))
}

func TestFullErrorIncludesRemediation(t *testing.T) {
	err := ErrAuthRequired("voting")
	assert.Contains(t, err.FullError(), "sphere login")
	assert.Contains(t, err.Error(), "voting")

	verr := ErrValidation("title is required")
	assert.Contains(t, verr.Error(), "title is required")
	assert.True(t, IsKind(verr, KindValidation))
}

// Copyright (C) 2025 SkillSphere Learning (opensource@skillsphere.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package sphere

import (
	"context"
	"net/http"
)

// AuthResponse is the body returned by login, register and validate.
type AuthResponse struct {
	Token  string `json:"token,omitempty"`
	UserID string `json:"userId"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

// Login exchanges credentials for a token. Invalid credentials surface as
// KindAuthError.
func (c *Client) Login(ctx context.Context, username, password string) (AuthResponse, error) {
	var out AuthResponse
	err := c.Post(ctx, "/api/auth/login", loginRequest{Username: username, Password: password}, &out)
	return out, err
}

// Register creates an account and returns a fresh token. A taken username
// surfaces as KindConflict.
func (c *Client) Register(ctx context.Context, username, password, email string) (AuthResponse, error) {
	var out AuthResponse
	err := c.Post(ctx, "/api/auth/register", registerRequest{
		Username: username,
		Password: password,
		Email:    email,
	}, &out)
	return out, err
}

// ValidateToken checks a stored token against the server without touching
// the client's installed token source.
func (c *Client) ValidateToken(ctx context.Context, token string) (AuthResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/auth/validate", nil)
	if err != nil {
		return AuthResponse{}, errTransport(err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return AuthResponse{}, errTransport(err)
	}
	defer resp.Body.Close()

	var out AuthResponse
	if err := decodeResponse(resp, &out); err != nil {
		return AuthResponse{}, err
	}
	return out, nil
}

// GetProfile fetches the signed-in account's details.
func (c *Client) GetProfile(ctx context.Context) (Profile, error) {
	var out Profile
	err := c.Get(ctx, "/api/auth/profile", &out)
	return out, err
}

// UpdateProfile replaces mutable account fields and returns the canonical
// profile.
func (c *Client) UpdateProfile(ctx context.Context, patch Profile) (Profile, error) {
	var out Profile
	err := c.Put(ctx, "/api/auth/profile", patch, &out)
	return out, err
}

// DeleteProfile permanently removes the signed-in account.
func (c *Client) DeleteProfile(ctx context.Context) error {
	return c.Delete(ctx, "/api/auth/profile")
}

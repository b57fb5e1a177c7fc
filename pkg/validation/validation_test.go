// Copyright (C) 2025 SkillSphere Learning (opensource@skillsphere.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillsphere/sphere-cli/pkg/sphere"
)

func TestCredentials(t *testing.T) {
	assert.NoError(t, Struct(Credentials{Username: "alice", Password: "Secret1!"}))

	err := Struct(Credentials{Username: "al", Password: "short"})
	require.Error(t, err)
	assert.True(t, sphere.IsKind(err, sphere.KindValidation))
	assert.Contains(t, err.Error(), "username must be at least 3 characters")
	assert.Contains(t, err.Error(), "password must be at least 8 characters")
}

func TestRegistration(t *testing.T) {
	assert.NoError(t, Struct(Registration{
		Username: "alice", Password: "Secret1!", Email: "alice@example.com",
	}))

	err := Struct(Registration{Username: "alice", Password: "Secret1!", Email: "not-an-email"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email must be a valid email address")

	err = Struct(Registration{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "username is required")
}

func TestNewQuestion(t *testing.T) {
	assert.NoError(t, Struct(NewQuestion{Title: "How do goroutines work?"}))

	err := Struct(NewQuestion{Title: ""})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "title is required")

	err = Struct(NewQuestion{Title: strings.Repeat("x", 201)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "title must be at most 200 characters")
}

func TestNewResource(t *testing.T) {
	assert.NoError(t, Struct(NewResource{Title: "Go spec", URL: "https://go.dev/ref/spec"}))
	assert.NoError(t, Struct(NewResource{Title: "Notes"}), "url is optional")

	err := Struct(NewResource{Title: "Bad", URL: "::not a url::"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "url must be a valid URL")
}

// Copyright (C) 2025 SkillSphere Learning (opensource@skillsphere.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	assert.Equal(t, "http://localhost:8080", c.Server.URL)
	assert.Equal(t, 15, c.Server.TimeoutSeconds)
	assert.Equal(t, "~/.skillsphere", c.DataDir)
	assert.Equal(t, "info", c.Log.Level)
}

func TestDefaultConfigRoundTripsThroughYAML(t *testing.T) {
	data, err := yaml.Marshal(DefaultConfig())
	require.NoError(t, err)

	var got Config
	require.NoError(t, yaml.Unmarshal(data, &got))
	assert.Equal(t, DefaultConfig(), got)
}

func TestSessionDirExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	c := DefaultConfig()
	assert.Equal(t, filepath.Join(home, ".skillsphere", "session"), c.SessionDir())

	c.DataDir = "/var/lib/sphere"
	assert.Equal(t, filepath.Join("/var/lib/sphere", "session"), c.SessionDir())
}

func TestCreateDefaultWritesParseableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, createDefault(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got Config
	require.NoError(t, yaml.Unmarshal(data, &got))
	assert.Equal(t, DefaultConfig(), got)
}

// Copyright (C) 2025 SkillSphere Learning (opensource@skillsphere.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ux

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfirm(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"Y\n", true},
		{"yes\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"no\n", false},
		{"\n", false},
		{"", false}, // EOF means no
		{"sure\n", false},
	}
	for _, tc := range cases {
		got := Confirm(strings.NewReader(tc.input), "Delete?")
		assert.Equal(t, tc.want, got, "input %q", tc.input)
	}
}

func TestIconRender(t *testing.T) {
	// Color profile may be disabled under test; the glyph must survive.
	assert.Contains(t, IconSuccess.Render(), "✓")
	assert.Contains(t, IconError.Render(), "✗")
	assert.Contains(t, IconBullet.Render(), "•")
}

// Copyright (C) 2025 SkillSphere Learning (opensource@skillsphere.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package validation checks payloads client-side, before any request is
// sent. Failures surface as the sphere error taxonomy's validation kind,
// so callers handle them exactly like server-side rejections.
package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/skillsphere/sphere-cli/pkg/sphere"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Credentials are the login inputs.
type Credentials struct {
	Username string `validate:"required,min=3,max=32"`
	Password string `validate:"required,min=8"`
}

// Registration are the account-creation inputs.
type Registration struct {
	Username string `validate:"required,min=3,max=32"`
	Password string `validate:"required,min=8"`
	Email    string `validate:"required,email"`
}

// NewQuestion is the minimum shape for asking a question.
type NewQuestion struct {
	Title       string `validate:"required,max=200"`
	Description string `validate:"max=5000"`
}

// NewPlan is the minimum shape for creating a learning plan.
type NewPlan struct {
	Title       string `validate:"required,max=200"`
	Description string `validate:"max=5000"`
}

// NewResource is the minimum shape for a library resource.
type NewResource struct {
	Title string `validate:"required,max=200"`
	URL   string `validate:"omitempty,url"`
}

// Struct validates any tagged struct and maps failures into a
// sphere validation error with one line per offending field.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return sphere.ErrValidation(err.Error())
	}
	lines := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		lines = append(lines, describe(fe))
	}
	return sphere.ErrValidation(strings.Join(lines, "; "))
}

// describe turns one field error into a human-readable message.
func describe(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	default:
		return fmt.Sprintf("%s is invalid (%s)", field, fe.Tag())
	}
}

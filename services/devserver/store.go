// Copyright (C) 2025 SkillSphere Learning (opensource@skillsphere.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package devserver

import (
	"sync"

	"github.com/google/uuid"

	"github.com/skillsphere/sphere-cli/pkg/sphere"
)

// user is the server-side account record. Password is a bcrypt hash.
type user struct {
	ID           string
	Username     string
	Email        string
	ProfileIcon  string
	PasswordHash []byte
}

// memStore holds all server state in memory, guarded by one mutex. Order
// slices preserve insertion order so list responses are stable.
type memStore struct {
	mu sync.Mutex

	users     map[string]*user // by id
	usernames map[string]string

	questions     map[string]*sphere.Question
	questionOrder []string

	answers     map[string]*sphere.Answer
	answerOrder []string

	plans     map[string]*sphere.LearningPlan
	planOrder []string

	planComments     map[string]*sphere.PlanComment
	planCommentOrder []string

	posts     map[string]*sphere.Post
	postOrder []string

	resources     map[string]*sphere.Resource
	resourceOrder []string
}

func newMemStore() *memStore {
	return &memStore{
		users:        make(map[string]*user),
		usernames:    make(map[string]string),
		questions:    make(map[string]*sphere.Question),
		answers:      make(map[string]*sphere.Answer),
		plans:        make(map[string]*sphere.LearningPlan),
		planComments: make(map[string]*sphere.PlanComment),
		posts:        make(map[string]*sphere.Post),
		resources:    make(map[string]*sphere.Resource),
	}
}

func newID() string { return uuid.NewString() }

// usernameOf denormalizes the author's username onto responses, matching
// the backend contract ("Unknown" for deleted accounts). Callers hold mu.
func (s *memStore) usernameOf(userID string) string {
	if u, ok := s.users[userID]; ok {
		return u.Username
	}
	return "Unknown"
}

func removeString(list []string, target string) []string {
	for i, v := range list {
		if v == target {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

func containsString(list []string, target string) bool {
	for _, v := range list {
		if v == target {
			return true
		}
	}
	return false
}

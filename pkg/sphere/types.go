// Copyright (C) 2025 SkillSphere Learning (opensource@skillsphere.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package sphere is the SkillSphere REST client: entity types, the error
// taxonomy shared by every operation, and the HTTP client that all higher
// layers (session manager, synchronizers, CLI) talk through.
//
// The backend is treated as an external collaborator. The client never
// invents state: ids, timestamps, and engagement counters are always taken
// from server responses.
package sphere

import "time"

// Session is the authenticated identity held by the running client.
// It is owned by the session manager; everything else reads it.
type Session struct {
	UserID      string `json:"userId"`
	Username    string `json:"username"`
	ProfileIcon string `json:"profileIcon,omitempty"`
	Token       string `json:"-"`
}

// Empty reports whether the session carries no identity.
func (s Session) Empty() bool { return s.Token == "" && s.UserID == "" }

// Question is a Q&A thread root.
type Question struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	UserID      string `json:"userId"`
	Username    string `json:"username,omitempty"`
}

// EntityID implements syncer.Entity.
func (q Question) EntityID() string { return q.ID }

// Answer is a reply to a question, with directional votes and a best flag.
type Answer struct {
	ID          string   `json:"id"`
	QuestionID  string   `json:"questionId"`
	Content     string   `json:"content"`
	UserID      string   `json:"userId"`
	Username    string   `json:"username,omitempty"`
	Upvotes     int      `json:"upvotes"`
	Downvotes   int      `json:"downvotes"`
	BestAnswer  bool     `json:"bestAnswer"`
	UpvotedBy   []string `json:"upvotedBy,omitempty"`
	DownvotedBy []string `json:"downvotedBy,omitempty"`
}

// EntityID implements syncer.Entity.
func (a Answer) EntityID() string { return a.ID }

// LearningPlan is a structured study plan with modules and progress.
type LearningPlan struct {
	ID          string   `json:"id"`
	UserID      string   `json:"userId"`
	Username    string   `json:"username,omitempty"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Duration    string   `json:"duration,omitempty"`
	Deadline    string   `json:"deadline,omitempty"`
	Status      string   `json:"status,omitempty"`
	Modules     []string `json:"modules,omitempty"`
	Progress    string   `json:"progress,omitempty"`
	Completed   bool     `json:"completed"`
}

// EntityID implements syncer.Entity.
func (p LearningPlan) EntityID() string { return p.ID }

// PlanComment is a comment on a learning plan, with a toggleable like count.
type PlanComment struct {
	ID       string   `json:"id"`
	PlanID   string   `json:"planId"`
	UserID   string   `json:"userId"`
	Username string   `json:"username,omitempty"`
	Text     string   `json:"text"`
	Likes    int      `json:"likes"`
	LikedBy  []string `json:"likedBy,omitempty"`
}

// EntityID implements syncer.Entity.
func (c PlanComment) EntityID() string { return c.ID }

// Post is a feed entry with likes and inline comments.
type Post struct {
	ID          string        `json:"id"`
	UserID      string        `json:"userId"`
	Username    string        `json:"username,omitempty"`
	Description string        `json:"description"`
	ImageURLs   []string      `json:"imageUrls,omitempty"`
	VideoURL    string        `json:"videoUrl,omitempty"`
	Likes       int           `json:"likes"`
	LikedUsers  []string      `json:"likedUsers,omitempty"`
	Comments    []PostComment `json:"comments,omitempty"`
	CreatedAt   time.Time     `json:"createdAt,omitempty"`
}

// EntityID implements syncer.Entity.
func (p Post) EntityID() string { return p.ID }

// PostComment is an inline comment on a feed post. The backend embeds these
// in the post document; each carries its own id so the client can address it.
type PostComment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"postId,omitempty"`
	UserID    string    `json:"userId"`
	Username  string    `json:"username,omitempty"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// EntityID implements syncer.Entity.
func (c PostComment) EntityID() string { return c.ID }

// Resource is a tagged library entry (link, PDF, text).
type Resource struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	UserID      string   `json:"userId"`
	Username    string   `json:"username,omitempty"`
	Category    string   `json:"category,omitempty"`
	Type        string   `json:"type,omitempty"`
	URL         string   `json:"url,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// EntityID implements syncer.Entity.
func (r Resource) EntityID() string { return r.ID }

// Profile is the account detail returned by GET /api/auth/profile.
type Profile struct {
	UserID      string `json:"userId,omitempty"`
	Username    string `json:"username"`
	Email       string `json:"email,omitempty"`
	ProfileIcon string `json:"profileIcon,omitempty"`
}

// Copyright (C) 2025 SkillSphere Learning (opensource@skillsphere.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package devserver

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/skillsphere/sphere-cli/pkg/sphere"
)

type postRequest struct {
	Description string   `json:"description" binding:"required"`
	ImageURLs   []string `json:"imageUrls"`
	VideoURL    string   `json:"videoUrl"`
}

type postCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

// snapshotPost copies a post with usernames denormalized onto the post and
// each inline comment. Callers hold the store mutex.
func (s *Server) snapshotPost(p *sphere.Post) sphere.Post {
	out := *p
	out.Username = s.store.usernameOf(p.UserID)
	out.Comments = make([]sphere.PostComment, len(p.Comments))
	for i, pc := range p.Comments {
		pc.Username = s.store.usernameOf(pc.UserID)
		out.Comments[i] = pc
	}
	return out
}

func (s *Server) handleCreatePost(c *gin.Context) {
	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.store.mu.Lock()
	p := &sphere.Post{
		ID:          newID(),
		UserID:      currentUserID(c),
		Description: req.Description,
		ImageURLs:   req.ImageURLs,
		VideoURL:    req.VideoURL,
		CreatedAt:   time.Now().UTC(),
	}
	s.store.posts[p.ID] = p
	s.store.postOrder = append(s.store.postOrder, p.ID)
	out := s.snapshotPost(p)
	s.store.mu.Unlock()

	c.JSON(http.StatusCreated, out)
}

// handleListPosts returns posts newest first, matching the feed contract.
func (s *Server) handleListPosts(c *gin.Context) {
	s.store.mu.Lock()
	out := make([]sphere.Post, 0, len(s.store.postOrder))
	for i := len(s.store.postOrder) - 1; i >= 0; i-- {
		out = append(out, s.snapshotPost(s.store.posts[s.store.postOrder[i]]))
	}
	s.store.mu.Unlock()
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleUpdatePost(c *gin.Context) {
	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	p, ok := s.store.posts[c.Param("postId")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	if p.UserID != currentUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only edit your own posts"})
		return
	}
	p.Description = req.Description
	p.ImageURLs = req.ImageURLs
	p.VideoURL = req.VideoURL
	c.JSON(http.StatusOK, s.snapshotPost(p))
}

func (s *Server) handleDeletePost(c *gin.Context) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	p, ok := s.store.posts[c.Param("postId")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	if p.UserID != currentUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own posts"})
		return
	}
	delete(s.store.posts, p.ID)
	s.store.postOrder = removeString(s.store.postOrder, p.ID)
	c.Status(http.StatusOK)
}

// handleLikePost toggles the caller's like on a post.
func (s *Server) handleLikePost(c *gin.Context) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	p, ok := s.store.posts[c.Param("postId")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	caller := currentUserID(c)
	if containsString(p.LikedUsers, caller) {
		p.Likes--
		p.LikedUsers = removeString(p.LikedUsers, caller)
	} else {
		p.Likes++
		p.LikedUsers = append(p.LikedUsers, caller)
	}
	c.JSON(http.StatusOK, s.snapshotPost(p))
}

func (s *Server) handleCommentOnPost(c *gin.Context) {
	var req postCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	p, ok := s.store.posts[c.Param("postId")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	p.Comments = append(p.Comments, sphere.PostComment{
		ID:        newID(),
		PostID:    p.ID,
		UserID:    currentUserID(c),
		Text:      req.Text,
		CreatedAt: time.Now().UTC(),
	})
	c.JSON(http.StatusOK, s.snapshotPost(p))
}

// Copyright (C) 2025 SkillSphere Learning (opensource@skillsphere.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package devserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/skillsphere/sphere-cli/pkg/sphere"
)

type resourceRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Type        string   `json:"type"`
	URL         string   `json:"url"`
	Tags        []string `json:"tags"`
}

func (s *Server) handleCreateResource(c *gin.Context) {
	var req resourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.store.mu.Lock()
	r := &sphere.Resource{
		ID:          newID(),
		Title:       req.Title,
		Description: req.Description,
		UserID:      currentUserID(c),
		Category:    req.Category,
		Type:        req.Type,
		URL:         req.URL,
		Tags:        req.Tags,
	}
	s.store.resources[r.ID] = r
	s.store.resourceOrder = append(s.store.resourceOrder, r.ID)
	out := *r
	out.Username = s.store.usernameOf(r.UserID)
	s.store.mu.Unlock()

	c.JSON(http.StatusCreated, out)
}

func (s *Server) handleListResources(c *gin.Context) {
	c.JSON(http.StatusOK, s.filterResources(func(*sphere.Resource) bool { return true }))
}

func (s *Server) handleListResourcesByCategory(c *gin.Context) {
	category := c.Param("category")
	c.JSON(http.StatusOK, s.filterResources(func(r *sphere.Resource) bool {
		return strings.EqualFold(r.Category, category)
	}))
}

func (s *Server) handleListResourcesByTag(c *gin.Context) {
	tag := c.Param("tag")
	c.JSON(http.StatusOK, s.filterResources(func(r *sphere.Resource) bool {
		for _, t := range r.Tags {
			if strings.EqualFold(t, tag) {
				return true
			}
		}
		return false
	}))
}

func (s *Server) filterResources(keep func(*sphere.Resource) bool) []sphere.Resource {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	out := make([]sphere.Resource, 0)
	for _, id := range s.store.resourceOrder {
		r := s.store.resources[id]
		if !keep(r) {
			continue
		}
		cp := *r
		cp.Username = s.store.usernameOf(r.UserID)
		out = append(out, cp)
	}
	return out
}

func (s *Server) handleGetResource(c *gin.Context) {
	s.store.mu.Lock()
	r, ok := s.store.resources[c.Param("id")]
	var out sphere.Resource
	if ok {
		out = *r
		out.Username = s.store.usernameOf(r.UserID)
	}
	s.store.mu.Unlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleEditResource(c *gin.Context) {
	var req resourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	r, ok := s.store.resources[c.Param("id")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
		return
	}
	if r.UserID != currentUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only edit your own resources"})
		return
	}
	r.Title = req.Title
	r.Description = req.Description
	r.Category = req.Category
	r.Type = req.Type
	r.URL = req.URL
	r.Tags = req.Tags
	out := *r
	out.Username = s.store.usernameOf(r.UserID)
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleDeleteResource(c *gin.Context) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	r, ok := s.store.resources[c.Param("id")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
		return
	}
	if r.UserID != currentUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own resources"})
		return
	}
	delete(s.store.resources, r.ID)
	s.store.resourceOrder = removeString(s.store.resourceOrder, r.ID)
	c.Status(http.StatusOK)
}

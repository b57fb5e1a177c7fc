// Copyright (C) 2025 SkillSphere Learning (opensource@skillsphere.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package devserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skillsphere/sphere-cli/pkg/sphere"
)

type planRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	Duration    string   `json:"duration"`
	Deadline    string   `json:"deadline"`
	Modules     []string `json:"modules"`
	Progress    string   `json:"progress"`
}

type planCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

func (s *Server) handleCreatePlan(c *gin.Context) {
	var req planRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.store.mu.Lock()
	p := &sphere.LearningPlan{
		ID:          newID(),
		UserID:      currentUserID(c),
		Title:       req.Title,
		Description: req.Description,
		Duration:    req.Duration,
		Deadline:    req.Deadline,
		Status:      "Not Started",
		Modules:     req.Modules,
		Progress:    req.Progress,
	}
	s.store.plans[p.ID] = p
	s.store.planOrder = append(s.store.planOrder, p.ID)
	out := *p
	out.Username = s.store.usernameOf(p.UserID)
	s.store.mu.Unlock()

	c.JSON(http.StatusCreated, out)
}

func (s *Server) handleListPlans(c *gin.Context) {
	s.store.mu.Lock()
	out := make([]sphere.LearningPlan, 0, len(s.store.planOrder))
	for _, id := range s.store.planOrder {
		p := *s.store.plans[id]
		p.Username = s.store.usernameOf(p.UserID)
		out = append(out, p)
	}
	s.store.mu.Unlock()
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleListMyPlans(c *gin.Context) {
	caller := currentUserID(c)
	s.store.mu.Lock()
	out := make([]sphere.LearningPlan, 0)
	for _, id := range s.store.planOrder {
		p := s.store.plans[id]
		if p.UserID != caller {
			continue
		}
		cp := *p
		cp.Username = s.store.usernameOf(p.UserID)
		out = append(out, cp)
	}
	s.store.mu.Unlock()
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleUpdatePlan(c *gin.Context) {
	var req planRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	p, ok := s.store.plans[c.Param("id")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Learning plan not found"})
		return
	}
	if p.UserID != currentUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only edit your own learning plans"})
		return
	}
	p.Title = req.Title
	p.Description = req.Description
	p.Duration = req.Duration
	p.Deadline = req.Deadline
	p.Modules = req.Modules
	p.Progress = req.Progress
	out := *p
	out.Username = s.store.usernameOf(p.UserID)
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleDeletePlan(c *gin.Context) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	p, ok := s.store.plans[c.Param("id")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Learning plan not found"})
		return
	}
	if p.UserID != currentUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own learning plans"})
		return
	}
	delete(s.store.plans, p.ID)
	s.store.planOrder = removeString(s.store.planOrder, p.ID)
	// cascade comments
	for id, pc := range s.store.planComments {
		if pc.PlanID == p.ID {
			delete(s.store.planComments, id)
			s.store.planCommentOrder = removeString(s.store.planCommentOrder, id)
		}
	}
	c.Status(http.StatusOK)
}

func (s *Server) handleCompletePlan(c *gin.Context) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	p, ok := s.store.plans[c.Param("id")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Learning plan not found"})
		return
	}
	if p.UserID != currentUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only complete your own learning plans"})
		return
	}
	p.Completed = true
	p.Status = "Completed"
	out := *p
	out.Username = s.store.usernameOf(p.UserID)
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleCreatePlanComment(c *gin.Context) {
	var req planCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	if _, ok := s.store.plans[c.Param("planId")]; !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Learning plan not found"})
		return
	}
	pc := &sphere.PlanComment{
		ID:     newID(),
		PlanID: c.Param("planId"),
		UserID: currentUserID(c),
		Text:   req.Text,
	}
	s.store.planComments[pc.ID] = pc
	s.store.planCommentOrder = append(s.store.planCommentOrder, pc.ID)
	out := *pc
	out.Username = s.store.usernameOf(pc.UserID)
	c.JSON(http.StatusCreated, out)
}

func (s *Server) handleListPlanComments(c *gin.Context) {
	planID := c.Param("planId")
	s.store.mu.Lock()
	out := make([]sphere.PlanComment, 0)
	for _, id := range s.store.planCommentOrder {
		pc := s.store.planComments[id]
		if pc.PlanID != planID {
			continue
		}
		cp := *pc
		cp.Username = s.store.usernameOf(pc.UserID)
		out = append(out, cp)
	}
	s.store.mu.Unlock()
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleUpdatePlanComment(c *gin.Context) {
	var req planCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	pc, ok := s.store.planComments[c.Param("id")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}
	if pc.UserID != currentUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only edit your own comments"})
		return
	}
	pc.Text = req.Text
	out := *pc
	out.Username = s.store.usernameOf(pc.UserID)
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleDeletePlanComment(c *gin.Context) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	pc, ok := s.store.planComments[c.Param("id")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}
	caller := currentUserID(c)
	plan := s.store.plans[pc.PlanID]
	// Comment authors and the plan owner can both delete.
	if pc.UserID != caller && (plan == nil || plan.UserID != caller) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own comments"})
		return
	}
	delete(s.store.planComments, pc.ID)
	s.store.planCommentOrder = removeString(s.store.planCommentOrder, pc.ID)
	c.Status(http.StatusOK)
}

// handleLikePlanComment toggles the caller's like on a comment.
func (s *Server) handleLikePlanComment(c *gin.Context) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	pc, ok := s.store.planComments[c.Param("id")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}
	caller := currentUserID(c)
	if containsString(pc.LikedBy, caller) {
		pc.Likes--
		pc.LikedBy = removeString(pc.LikedBy, caller)
	} else {
		pc.Likes++
		pc.LikedBy = append(pc.LikedBy, caller)
	}
	out := *pc
	out.Username = s.store.usernameOf(pc.UserID)
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleGetPlanCommentLikes(c *gin.Context) {
	s.store.mu.Lock()
	pc, ok := s.store.planComments[c.Param("id")]
	var likes int
	if ok {
		likes = pc.Likes
	}
	s.store.mu.Unlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"likes": likes})
}

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

type questionRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

type answerRequest struct {
	Content string `json:"content" binding:"required"`
}

func (s *Server) handleCreateQuestion(c *gin.Context) {
	var req questionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.store.mu.Lock()
	q := &sphere.Question{
		ID:          newID(),
		Title:       req.Title,
		Description: req.Description,
		UserID:      currentUserID(c),
	}
	s.store.questions[q.ID] = q
	s.store.questionOrder = append(s.store.questionOrder, q.ID)
	out := *q
	out.Username = s.store.usernameOf(q.UserID)
	s.store.mu.Unlock()

	c.JSON(http.StatusCreated, out)
}

func (s *Server) handleListQuestions(c *gin.Context) {
	s.store.mu.Lock()
	out := make([]sphere.Question, 0, len(s.store.questionOrder))
	for _, id := range s.store.questionOrder {
		q := *s.store.questions[id]
		q.Username = s.store.usernameOf(q.UserID)
		out = append(out, q)
	}
	s.store.mu.Unlock()
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleGetQuestion(c *gin.Context) {
	s.store.mu.Lock()
	q, ok := s.store.questions[c.Param("id")]
	var out sphere.Question
	if ok {
		out = *q
		out.Username = s.store.usernameOf(q.UserID)
	}
	s.store.mu.Unlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleEditQuestion(c *gin.Context) {
	var req questionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	q, ok := s.store.questions[c.Param("id")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
		return
	}
	if q.UserID != currentUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only edit your own questions"})
		return
	}
	q.Title = req.Title
	q.Description = req.Description
	out := *q
	out.Username = s.store.usernameOf(q.UserID)
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleDeleteQuestion(c *gin.Context) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	q, ok := s.store.questions[c.Param("id")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
		return
	}
	if q.UserID != currentUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own questions"})
		return
	}
	delete(s.store.questions, q.ID)
	s.store.questionOrder = removeString(s.store.questionOrder, q.ID)
	// cascade answers
	for id, a := range s.store.answers {
		if a.QuestionID == q.ID {
			delete(s.store.answers, id)
			s.store.answerOrder = removeString(s.store.answerOrder, id)
		}
	}
	c.Status(http.StatusOK)
}

func (s *Server) handleCreateAnswer(c *gin.Context) {
	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	q, ok := s.store.questions[c.Param("questionId")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
		return
	}
	caller := currentUserID(c)
	if q.UserID == caller {
		c.JSON(http.StatusForbidden, gin.H{"error": "You cannot answer your own question"})
		return
	}
	a := &sphere.Answer{
		ID:         newID(),
		QuestionID: q.ID,
		Content:    req.Content,
		UserID:     caller,
	}
	s.store.answers[a.ID] = a
	s.store.answerOrder = append(s.store.answerOrder, a.ID)
	out := *a
	out.Username = s.store.usernameOf(caller)
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleListAnswers(c *gin.Context) {
	questionID := c.Param("questionId")
	s.store.mu.Lock()
	out := make([]sphere.Answer, 0)
	for _, id := range s.store.answerOrder {
		a := s.store.answers[id]
		if a.QuestionID != questionID {
			continue
		}
		cp := *a
		cp.Username = s.store.usernameOf(a.UserID)
		out = append(out, cp)
	}
	s.store.mu.Unlock()
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleEditAnswer(c *gin.Context) {
	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	a, ok := s.store.answers[c.Param("answerId")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Answer not found"})
		return
	}
	if a.UserID != currentUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only edit your own answers"})
		return
	}
	a.Content = req.Content
	out := *a
	out.Username = s.store.usernameOf(a.UserID)
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleDeleteAnswer(c *gin.Context) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	a, ok := s.store.answers[c.Param("answerId")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Answer not found"})
		return
	}
	if a.UserID != currentUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own answers"})
		return
	}
	delete(s.store.answers, a.ID)
	s.store.answerOrder = removeString(s.store.answerOrder, a.ID)
	c.Status(http.StatusOK)
}

// voteHandler implements upvote (+1) and downvote (-1). Voting twice in
// the same direction is rejected with 400; an existing opposite vote is
// moved. Counters are derived server-side only.
func (s *Server) voteHandler(direction int) gin.HandlerFunc {
	return func(c *gin.Context) {
		s.store.mu.Lock()
		defer s.store.mu.Unlock()
		a, ok := s.store.answers[c.Param("answerId")]
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Answer not found"})
			return
		}
		caller := currentUserID(c)
		if direction > 0 {
			if containsString(a.UpvotedBy, caller) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "You have already upvoted this answer"})
				return
			}
			if containsString(a.DownvotedBy, caller) {
				a.Downvotes--
				a.DownvotedBy = removeString(a.DownvotedBy, caller)
			}
			a.Upvotes++
			a.UpvotedBy = append(a.UpvotedBy, caller)
		} else {
			if containsString(a.DownvotedBy, caller) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "You have already downvoted this answer"})
				return
			}
			if containsString(a.UpvotedBy, caller) {
				a.Upvotes--
				a.UpvotedBy = removeString(a.UpvotedBy, caller)
			}
			a.Downvotes++
			a.DownvotedBy = append(a.DownvotedBy, caller)
		}
		out := *a
		out.Username = s.store.usernameOf(a.UserID)
		c.JSON(http.StatusOK, out)
	}
}

func (s *Server) handleBestAnswer(c *gin.Context) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	a, ok := s.store.answers[c.Param("answerId")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Answer not found"})
		return
	}
	q, ok := s.store.questions[c.Param("questionId")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
		return
	}
	if q.UserID != currentUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the question owner can mark an answer as best"})
		return
	}
	// One best answer per question.
	for _, other := range s.store.answers {
		if other.QuestionID == q.ID {
			other.BestAnswer = false
		}
	}
	a.BestAnswer = true
	out := *a
	out.Username = s.store.usernameOf(a.UserID)
	c.JSON(http.StatusOK, out)
}

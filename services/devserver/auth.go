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
	"golang.org/x/crypto/bcrypt"
)

type credentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type registerRequest struct {
	Username string `json:"username" binding:"required,min=3"`
	Password string `json:"password" binding:"required,min=8"`
	Email    string `json:"email" binding:"required,email"`
}

type profileRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	ProfileIcon string `json:"profileIcon"`
}

func (s *Server) handleLogin(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.store.mu.Lock()
	userID, ok := s.store.usernames[req.Username]
	var account *user
	if ok {
		account = s.store.users[userID]
	}
	s.store.mu.Unlock()

	if account == nil || bcrypt.CompareHashAndPassword(account.PasswordHash, []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
		return
	}

	token, err := s.issueToken(account.ID, account.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "userId": account.ID})
}

func (s *Server) handleRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not hash password"})
		return
	}

	s.store.mu.Lock()
	if _, taken := s.store.usernames[req.Username]; taken {
		s.store.mu.Unlock()
		c.JSON(http.StatusConflict, gin.H{"error": "Username already exists"})
		return
	}
	account := &user{
		ID:           newID(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
	}
	s.store.users[account.ID] = account
	s.store.usernames[account.Username] = account.ID
	s.store.mu.Unlock()

	token, err := s.issueToken(account.ID, account.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue token"})
		return
	}
	s.logger.Info("account registered", "user_id", account.ID, "username", account.Username)
	c.JSON(http.StatusOK, gin.H{"token": token, "userId": account.ID})
}

func (s *Server) handleValidate(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"userId": currentUserID(c)})
}

func (s *Server) handleGetProfile(c *gin.Context) {
	s.store.mu.Lock()
	account := s.store.users[currentUserID(c)]
	s.store.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{
		"userId":      account.ID,
		"username":    account.Username,
		"email":       account.Email,
		"profileIcon": account.ProfileIcon,
	})
}

func (s *Server) handleUpdateProfile(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.store.mu.Lock()
	account := s.store.users[currentUserID(c)]
	if req.Username != "" && req.Username != account.Username {
		if _, taken := s.store.usernames[req.Username]; taken {
			s.store.mu.Unlock()
			c.JSON(http.StatusConflict, gin.H{"error": "Username already exists"})
			return
		}
		delete(s.store.usernames, account.Username)
		account.Username = req.Username
		s.store.usernames[account.Username] = account.ID
	}
	if req.Email != "" {
		account.Email = req.Email
	}
	if req.ProfileIcon != "" {
		account.ProfileIcon = req.ProfileIcon
	}
	resp := gin.H{
		"userId":      account.ID,
		"username":    account.Username,
		"email":       account.Email,
		"profileIcon": account.ProfileIcon,
	}
	s.store.mu.Unlock()
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleDeleteProfile(c *gin.Context) {
	s.store.mu.Lock()
	account := s.store.users[currentUserID(c)]
	delete(s.store.usernames, account.Username)
	delete(s.store.users, account.ID)
	s.store.mu.Unlock()
	c.Status(http.StatusOK)
}

// Copyright (C) 2025 SkillSphere Learning (opensource@skillsphere.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

/*
Package devserver is an in-memory SkillSphere backend for local development
and end-to-end tests.

It implements the production REST contract on a gin engine: bearer-token
auth on every mutating route, 403 for ownership violations, 409 for
duplicate usernames, server-side counter logic for votes and likes, and
the author's username denormalized onto every entity response. State lives
in process memory and disappears on exit; that is the point.

Run it via `sphere dev serve`, or mount Router on an httptest.Server in
tests.
*/
package devserver

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/skillsphere/sphere-cli/pkg/logging"
)

// Server is the dev backend.
type Server struct {
	engine *gin.Engine
	store  *memStore
	secret []byte
	logger *logging.Logger
}

// Option customizes a Server.
type Option func(*Server)

// WithLogger sets the structured logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithSecret overrides the JWT signing secret. Tests pin it; the default
// is random-enough for a throwaway dev process.
func WithSecret(secret []byte) Option {
	return func(s *Server) { s.secret = secret }
}

// New creates a Server with empty state and all routes registered.
func New(opts ...Option) *Server {
	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		engine: gin.New(),
		store:  newMemStore(),
		secret: []byte("skillsphere-dev-secret"),
		logger: logging.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.engine.Use(gin.Recovery())
	s.routes()
	return s
}

// Router exposes the engine as an http.Handler for httptest.
func (s *Server) Router() http.Handler { return s.engine }

// Run serves until the listener fails.
func (s *Server) Run(addr string) error {
	s.logger.Info("dev server listening", "addr", addr)
	return s.engine.Run(addr)
}

func (s *Server) routes() {
	api := s.engine.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/login", s.handleLogin)
	auth.POST("/register", s.handleRegister)
	auth.GET("/validate", s.authRequired(), s.handleValidate)
	auth.GET("/profile", s.authRequired(), s.handleGetProfile)
	auth.PUT("/profile", s.authRequired(), s.handleUpdateProfile)
	auth.DELETE("/profile", s.authRequired(), s.handleDeleteProfile)

	// Questions and answers; route names follow the production backend.
	api.POST("/create/questions", s.authRequired(), s.handleCreateQuestion)
	api.GET("/getall/questions", s.handleListQuestions)
	api.GET("/questions/:id", s.handleGetQuestion)
	api.PUT("/edit/questions/:id", s.authRequired(), s.handleEditQuestion)
	api.DELETE("/delete/questions/:id", s.authRequired(), s.handleDeleteQuestion)

	api.POST("/create/:questionId/answers", s.authRequired(), s.handleCreateAnswer)
	api.GET("/get/:questionId/answers", s.handleListAnswers)
	api.PUT("/edit/:questionId/answers/:answerId", s.authRequired(), s.handleEditAnswer)
	api.DELETE("/delete/:questionId/answers/:answerId", s.authRequired(), s.handleDeleteAnswer)
	api.POST("/:questionId/answers/:answerId/upvote", s.authRequired(), s.voteHandler(+1))
	api.POST("/:questionId/answers/:answerId/downvote", s.authRequired(), s.voteHandler(-1))
	api.POST("/:questionId/answers/:answerId/best", s.authRequired(), s.handleBestAnswer)

	plans := api.Group("/learning-plans")
	plans.POST("", s.authRequired(), s.handleCreatePlan)
	plans.GET("", s.handleListPlans)
	plans.GET("/my", s.authRequired(), s.handleListMyPlans)
	plans.PUT("/:id", s.authRequired(), s.handleUpdatePlan)
	plans.DELETE("/:id", s.authRequired(), s.handleDeletePlan)
	plans.POST("/complete/:id", s.authRequired(), s.handleCompletePlan)

	comments := api.Group("/comments")
	comments.POST("/plan/:planId", s.authRequired(), s.handleCreatePlanComment)
	comments.GET("/plan/:planId", s.handleListPlanComments)
	comments.PUT("/:id", s.authRequired(), s.handleUpdatePlanComment)
	comments.DELETE("/:id", s.authRequired(), s.handleDeletePlanComment)
	comments.POST("/:id/like", s.authRequired(), s.handleLikePlanComment)
	comments.GET("/:id/likes", s.handleGetPlanCommentLikes)

	api.POST("/posts", s.authRequired(), s.handleCreatePost)
	api.GET("/posts", s.handleListPosts)
	api.PUT("/posts/:postId", s.authRequired(), s.handleUpdatePost)
	api.DELETE("/posts/:postId", s.authRequired(), s.handleDeletePost)
	api.POST("/posts/:postId/like", s.authRequired(), s.handleLikePost)
	api.POST("/posts/:postId/comment", s.authRequired(), s.handleCommentOnPost)

	resources := api.Group("/resources")
	resources.POST("/create", s.authRequired(), s.handleCreateResource)
	resources.GET("/getall", s.handleListResources)
	resources.GET("/category/:category", s.handleListResourcesByCategory)
	resources.GET("/tag/:tag", s.handleListResourcesByTag)
	resources.GET("/:id", s.handleGetResource)
	resources.PUT("/edit/:id", s.authRequired(), s.handleEditResource)
	resources.DELETE("/delete/:id", s.authRequired(), s.handleDeleteResource)
}

// ---------------------------------------------------------------------------
// Auth middleware
// ---------------------------------------------------------------------------

const ctxUserID = "sphere_user_id"

// issueToken signs an HS256 JWT for a user.
func (s *Server) issueToken(userID, username string) (string, error) {
	claims := jwt.MapClaims{
		"sub":    username,
		"userId": userID,
		"exp":    time.Now().Add(24 * time.Hour).Unix(),
		"iat":    time.Now().Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// authRequired extracts and verifies the bearer token, then stores the
// caller's user id in the gin context for handlers.
func (s *Server) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		const prefix = "Bearer "
		if len(header) <= len(prefix) || header[:len(prefix)] != prefix {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		token, err := jwt.Parse(header[len(prefix):], func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return s.secret, nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid claims"})
			return
		}
		userID, _ := claims["userId"].(string)
		s.store.mu.Lock()
		_, exists := s.store.users[userID]
		s.store.mu.Unlock()
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unknown user"})
			return
		}
		c.Set(ctxUserID, userID)
		c.Next()
	}
}

// currentUserID returns the authenticated caller's id. Only valid behind
// authRequired.
func currentUserID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}

// Copyright (C) 2025 SkillSphere Learning (opensource@skillsphere.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/skillsphere/sphere-cli/pkg/config"
	"github.com/skillsphere/sphere-cli/pkg/logging"
	"github.com/skillsphere/sphere-cli/pkg/session"
	"github.com/skillsphere/sphere-cli/pkg/sphere"
	"github.com/skillsphere/sphere-cli/pkg/syncer"
	"github.com/skillsphere/sphere-cli/pkg/ux"
)

// app bundles the wired client stack for one command invocation: the HTTP
// client, the session manager over the badger store, and the logger.
type app struct {
	cfg     config.Config
	logger  *logging.Logger
	client  *sphere.Client
	store   *session.Store
	session *session.Manager
}

// newApp builds the stack from the loaded config and restores any persisted
// session. A server that cannot be reached during restore is reported but
// does not block the command; it will fail on its own request with a better
// message.
func newApp(ctx context.Context) *app {
	cfg := config.Global

	logger := logging.New(logging.Config{
		Level:   logging.ParseLevel(cfg.Log.Level),
		LogDir:  cfg.Log.Dir,
		Service: "cli",
		Quiet:   cfg.Log.Dir != "",
	})

	timeout := time.Duration(cfg.Server.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	client := sphere.NewClient(cfg.Server.URL,
		sphere.WithLogger(logger),
		sphere.WithHTTPClient(&http.Client{Timeout: timeout}),
	)

	store, err := session.OpenStore(session.StoreConfig{Path: cfg.SessionDir()})
	if err != nil {
		fail(err)
	}

	mgr := session.NewManager(client, store, session.WithLogger(logger))
	if err := mgr.Restore(ctx); err != nil {
		logger.Warn("session restore deferred", "error", err.Error())
	}
	if err := mgr.RestoreError(); err != nil {
		ux.Warnf("Your saved session expired, please log in again.")
	}

	return &app{cfg: cfg, logger: logger, client: client, store: store, session: mgr}
}

// Close releases the session store and the log file.
func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("could not close session store", "error", err.Error())
	}
	_ = a.logger.Close()
}

// commandContext bounds every command invocation.
func commandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// fail renders an error in the house style and exits non-zero. Typed errors
// get their remediation text; everything else prints as-is.
func fail(err error) {
	var se *sphere.Error
	if errors.As(err, &se) {
		ux.Errorf("%s", se.FullError())
	} else if syncer.IsAuthRequired(err) {
		ux.Errorf("%s", sphere.ErrAuthRequired("this command").FullError())
	} else {
		ux.Errorf("%v", err)
	}
	os.Exit(1)
}

// confirmOrAbort gates destructive commands behind a prompt unless --yes.
func confirmOrAbort(prompt string) {
	if yesFlag {
		return
	}
	if !ux.Confirm(os.Stdin, prompt) {
		ux.Infof("Aborted.")
		os.Exit(0)
	}
}

// withSpinner animates a loading indicator while fn runs.
func withSpinner[T any](message string, fn func() (T, error)) (T, error) {
	sp := ux.NewSpinner(message)
	sp.Start()
	out, err := fn()
	sp.Stop()
	return out, err
}

// promptLine reads one line from stdin with a styled prompt.
func promptLine(prompt string) string {
	fmt.Printf("%s %s: ", ux.IconQuestion.Render(), prompt)
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		return ""
	}
	return strings.TrimSpace(scanner.Text())
}

// ---------------------------------------------------------------------------
// Synchronizer wiring
// ---------------------------------------------------------------------------

// questionSyncer tracks the Q&A collection with answers as children.
func (a *app) questionSyncer() *syncer.Synchronizer[sphere.Question, sphere.Answer] {
	return syncer.New(syncer.Endpoints[sphere.Question, sphere.Answer]{
		List:     a.client.ListQuestions,
		Create:   a.client.CreateQuestion,
		Update:   a.client.UpdateQuestion,
		Remove:   a.client.DeleteQuestion,
		Children: a.client.ListAnswers,
	},
		syncer.WithAuthCheck(a.session.SignedIn),
		syncer.WithLogger(a.logger),
	)
}

// answerSyncer tracks the answers of one question, with voting bound to it.
func (a *app) answerSyncer(questionID string) *syncer.Synchronizer[sphere.Answer, sphere.Answer] {
	return syncer.New(syncer.Endpoints[sphere.Answer, sphere.Answer]{
		List: func(ctx context.Context) ([]sphere.Answer, error) {
			return a.client.ListAnswers(ctx, questionID)
		},
		Create: func(ctx context.Context, payload sphere.Answer) (sphere.Answer, error) {
			return a.client.CreateAnswer(ctx, questionID, payload)
		},
		Update: func(ctx context.Context, id string, patch sphere.Answer) (sphere.Answer, error) {
			return a.client.UpdateAnswer(ctx, questionID, id, patch)
		},
		Remove: func(ctx context.Context, id string) error {
			return a.client.DeleteAnswer(ctx, questionID, id)
		},
		Vote: func(ctx context.Context, id string, dir syncer.Direction) (sphere.Answer, error) {
			if dir == syncer.Down {
				return a.client.DownvoteAnswer(ctx, questionID, id)
			}
			return a.client.UpvoteAnswer(ctx, questionID, id)
		},
	},
		syncer.WithAuthCheck(a.session.SignedIn),
		syncer.WithLogger(a.logger),
	)
}

// planSyncer tracks learning plans with their comments as children.
func (a *app) planSyncer() *syncer.Synchronizer[sphere.LearningPlan, sphere.PlanComment] {
	return syncer.New(syncer.Endpoints[sphere.LearningPlan, sphere.PlanComment]{
		List:     a.client.ListPlans,
		Create:   a.client.CreatePlan,
		Update:   a.client.UpdatePlan,
		Remove:   a.client.DeletePlan,
		Children: a.client.ListPlanComments,
	},
		syncer.WithAuthCheck(a.session.SignedIn),
		syncer.WithLogger(a.logger),
	)
}

// commentSyncer tracks the comments of one plan, with like toggling.
func (a *app) commentSyncer(planID string) *syncer.Synchronizer[sphere.PlanComment, sphere.PlanComment] {
	return syncer.New(syncer.Endpoints[sphere.PlanComment, sphere.PlanComment]{
		List: func(ctx context.Context) ([]sphere.PlanComment, error) {
			return a.client.ListPlanComments(ctx, planID)
		},
		Create: func(ctx context.Context, payload sphere.PlanComment) (sphere.PlanComment, error) {
			return a.client.CreatePlanComment(ctx, planID, payload)
		},
		Update:     a.client.UpdatePlanComment,
		Remove:     a.client.DeletePlanComment,
		ToggleLike: a.client.LikePlanComment,
	},
		syncer.WithAuthCheck(a.session.SignedIn),
		syncer.WithLogger(a.logger),
	)
}

// postSyncer tracks the feed, newest first.
func (a *app) postSyncer() *syncer.Synchronizer[sphere.Post, sphere.PostComment] {
	return syncer.New(syncer.Endpoints[sphere.Post, sphere.PostComment]{
		List:       a.client.ListPosts,
		Create:     a.client.CreatePost,
		Update:     a.client.UpdatePost,
		Remove:     a.client.DeletePost,
		ToggleLike: a.client.LikePost,
	},
		syncer.WithOrder(syncer.Prepend),
		syncer.WithAuthCheck(a.session.SignedIn),
		syncer.WithLogger(a.logger),
	)
}

// resourceSyncer tracks the resource library.
func (a *app) resourceSyncer() *syncer.Synchronizer[sphere.Resource, sphere.Resource] {
	return syncer.New(syncer.Endpoints[sphere.Resource, sphere.Resource]{
		List:   a.client.ListResources,
		Create: a.client.CreateResource,
		Update: a.client.UpdateResource,
		Remove: a.client.DeleteResource,
	},
		syncer.WithAuthCheck(a.session.SignedIn),
		syncer.WithLogger(a.logger),
	)
}

// Copyright (C) 2025 SkillSphere Learning (opensource@skillsphere.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package devserver

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillsphere/sphere-cli/pkg/session"
	"github.com/skillsphere/sphere-cli/pkg/sphere"
	"github.com/skillsphere/sphere-cli/pkg/syncer"
)

// testUser bundles one signed-in client stack against the test server.
type testUser struct {
	client  *sphere.Client
	manager *session.Manager
}

func startServer(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(New().Router())
	t.Cleanup(srv.Close)
	return srv.URL
}

func signUp(t *testing.T, baseURL, username string) *testUser {
	t.Helper()
	client := sphere.NewClient(baseURL)
	store, err := session.OpenStore(session.StoreConfig{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	mgr := session.NewManager(client, store)
	require.NoError(t, mgr.Register(context.Background(),
		username, "Secret1!pw", username+"@example.com"))
	return &testUser{client: client, manager: mgr}
}

func TestAuthLifecycle(t *testing.T) {
	url := startServer(t)
	ctx := context.Background()

	alice := signUp(t, url, "alice")
	assert.True(t, alice.manager.SignedIn())

	profile, err := alice.manager.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "alice", profile.Username)
	assert.Equal(t, "alice@example.com", profile.Email)

	// A second registration with the same name conflicts.
	other := sphere.NewClient(url)
	otherStore, err := session.OpenStore(session.StoreConfig{InMemory: true})
	require.NoError(t, err)
	defer otherStore.Close()
	otherMgr := session.NewManager(other, otherStore)
	err = otherMgr.Register(ctx, "alice", "Secret1!pw", "imposter@example.com")
	assert.True(t, sphere.IsKind(err, sphere.KindConflict))

	// Log out, then back in with the same credentials.
	alice.manager.Logout()
	assert.False(t, alice.manager.SignedIn())
	require.NoError(t, alice.manager.Login(ctx, "alice", "Secret1!pw"))
	assert.True(t, alice.manager.SignedIn())

	err = alice.manager.Login(ctx, "alice", "WrongPass1")
	assert.True(t, sphere.IsKind(err, sphere.KindAuthError))
}

func TestSessionSurvivesRestart(t *testing.T) {
	url := startServer(t)
	ctx := context.Background()

	dir := t.TempDir()
	client := sphere.NewClient(url)
	store, err := session.OpenStore(session.StoreConfig{Path: dir})
	require.NoError(t, err)
	mgr := session.NewManager(client, store)
	require.NoError(t, mgr.Register(ctx, "carol", "Secret1!pw", "carol@example.com"))
	require.NoError(t, store.Close())

	// Fresh process: new client, new manager, same directory.
	client2 := sphere.NewClient(url)
	store2, err := session.OpenStore(session.StoreConfig{Path: dir})
	require.NoError(t, err)
	defer store2.Close()
	mgr2 := session.NewManager(client2, store2)

	require.NoError(t, mgr2.Restore(ctx))
	assert.True(t, mgr2.SignedIn())
	assert.Equal(t, "carol", mgr2.Current().Username)

	profile, err := client2.GetProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "carol", profile.Username)
}

func TestQuestionAnswerLifecycle(t *testing.T) {
	url := startServer(t)
	ctx := context.Background()
	alice := signUp(t, url, "alice")
	bob := signUp(t, url, "bob")

	questions := syncer.New(syncer.Endpoints[sphere.Question, sphere.Answer]{
		List:     alice.client.ListQuestions,
		Create:   alice.client.CreateQuestion,
		Update:   alice.client.UpdateQuestion,
		Remove:   alice.client.DeleteQuestion,
		Children: alice.client.ListAnswers,
	}, syncer.WithAuthCheck(alice.manager.SignedIn))

	q, err := questions.Create(ctx, sphere.Question{
		Title: "How do I test HTTP handlers?", Description: "httptest?",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, q.ID)
	assert.Equal(t, "alice", q.Username)

	// The asker cannot answer their own question.
	_, err = alice.client.CreateAnswer(ctx, q.ID, sphere.Answer{Content: "self-reply"})
	assert.True(t, sphere.IsKind(err, sphere.KindForbidden))

	ans, err := bob.client.CreateAnswer(ctx, q.ID, sphere.Answer{Content: "Use httptest.NewServer."})
	require.NoError(t, err)
	assert.Equal(t, "bob", ans.Username)

	// Alice upvotes; counters come back from the server.
	voted, err := alice.client.UpvoteAnswer(ctx, q.ID, ans.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, voted.Upvotes)

	// A second upvote by the same user is a business-rule rejection.
	_, err = alice.client.UpvoteAnswer(ctx, q.ID, ans.ID)
	assert.True(t, sphere.IsKind(err, sphere.KindForbidden))

	// Switching direction moves the vote instead of stacking it.
	voted, err = alice.client.DownvoteAnswer(ctx, q.ID, ans.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, voted.Upvotes)
	assert.Equal(t, 1, voted.Downvotes)

	// Only the question owner can mark the best answer.
	_, err = bob.client.MarkBestAnswer(ctx, q.ID, ans.ID)
	assert.True(t, sphere.IsKind(err, sphere.KindForbidden))
	best, err := alice.client.MarkBestAnswer(ctx, q.ID, ans.ID)
	require.NoError(t, err)
	assert.True(t, best.BestAnswer)

	// Ownership on edit: bob cannot touch alice's question, and the
	// synchronizer state stays untouched on the rejection.
	bobQuestions := syncer.New(syncer.Endpoints[sphere.Question, sphere.Answer]{
		List:   bob.client.ListQuestions,
		Update: bob.client.UpdateQuestion,
	}, syncer.WithAuthCheck(bob.manager.SignedIn))
	require.NoError(t, bobQuestions.Load(ctx))
	before := bobQuestions.Items()
	_, err = bobQuestions.Update(ctx, q.ID, sphere.Question{Title: "hijack"})
	assert.True(t, sphere.IsKind(err, sphere.KindForbidden))
	assert.Equal(t, before, bobQuestions.Items())

	// Deleting the question cascades its answers.
	require.NoError(t, questions.Load(ctx))
	require.NoError(t, questions.Remove(ctx, q.ID))
	remaining, err := alice.client.ListAnswers(ctx, q.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestPlansAndComments(t *testing.T) {
	url := startServer(t)
	ctx := context.Background()
	alice := signUp(t, url, "alice")
	bob := signUp(t, url, "bob")

	plan, err := alice.client.CreatePlan(ctx, sphere.LearningPlan{
		Title:    "Learn Go",
		Duration: "6 weeks",
		Modules:  []string{"basics", "concurrency"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Not Started", plan.Status)
	assert.False(t, plan.Completed)

	mine, err := alice.client.ListMyPlans(ctx)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	bobsOwn, err := bob.client.ListMyPlans(ctx)
	require.NoError(t, err)
	assert.Empty(t, bobsOwn)

	// Completion is owner-only.
	_, err = bob.client.CompletePlan(ctx, plan.ID)
	assert.True(t, sphere.IsKind(err, sphere.KindForbidden))
	done, err := alice.client.CompletePlan(ctx, plan.ID)
	require.NoError(t, err)
	assert.True(t, done.Completed)
	assert.Equal(t, "Completed", done.Status)

	// Bob comments and toggles a like on his comment.
	comments := syncer.New(syncer.Endpoints[sphere.PlanComment, sphere.PlanComment]{
		List: func(ctx context.Context) ([]sphere.PlanComment, error) {
			return bob.client.ListPlanComments(ctx, plan.ID)
		},
		Create: func(ctx context.Context, pc sphere.PlanComment) (sphere.PlanComment, error) {
			return bob.client.CreatePlanComment(ctx, plan.ID, pc)
		},
		Update:     bob.client.UpdatePlanComment,
		Remove:     bob.client.DeletePlanComment,
		ToggleLike: bob.client.LikePlanComment,
	}, syncer.WithAuthCheck(bob.manager.SignedIn))

	comment, err := comments.Create(ctx, sphere.PlanComment{Text: "Nice plan!"})
	require.NoError(t, err)
	assert.Equal(t, "bob", comment.Username)

	liked, err := comments.ToggleLike(ctx, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, liked.Likes)
	// Singleflight keys are per in-flight call; a later toggle is a new
	// request and unlikes.
	unliked, err := bob.client.LikePlanComment(ctx, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, unliked.Likes)

	// The plan owner can remove someone else's comment on their plan.
	require.NoError(t, alice.client.DeletePlanComment(ctx, comment.ID))
	left, err := alice.client.ListPlanComments(ctx, plan.ID)
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestFeedOrderingAndEngagement(t *testing.T) {
	url := startServer(t)
	ctx := context.Background()
	alice := signUp(t, url, "alice")
	bob := signUp(t, url, "bob")

	first, err := alice.client.CreatePost(ctx, sphere.Post{Description: "first post"})
	require.NoError(t, err)
	second, err := alice.client.CreatePost(ctx, sphere.Post{Description: "second post"})
	require.NoError(t, err)

	feed, err := bob.client.ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, second.ID, feed[0].ID, "newest first")
	assert.Equal(t, first.ID, feed[1].ID)

	liked, err := bob.client.LikePost(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, liked.Likes)
	unliked, err := bob.client.LikePost(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, unliked.Likes)

	withComment, err := bob.client.CommentOnPost(ctx, first.ID, sphere.PostComment{Text: "congrats"})
	require.NoError(t, err)
	require.Len(t, withComment.Comments, 1)
	assert.Equal(t, "bob", withComment.Comments[0].Username)
	assert.NotEmpty(t, withComment.Comments[0].ID)

	// Ownership on delete.
	err = bob.client.DeletePost(ctx, first.ID)
	assert.True(t, sphere.IsKind(err, sphere.KindForbidden))
	require.NoError(t, alice.client.DeletePost(ctx, first.ID))
}

func TestResourceFilters(t *testing.T) {
	url := startServer(t)
	ctx := context.Background()
	alice := signUp(t, url, "alice")

	_, err := alice.client.CreateResource(ctx, sphere.Resource{
		Title: "Go spec", Category: "programming", Tags: []string{"go", "reference"},
		URL: "https://go.dev/ref/spec", Type: "link",
	})
	require.NoError(t, err)
	_, err = alice.client.CreateResource(ctx, sphere.Resource{
		Title: "Sketching basics", Category: "art", Tags: []string{"drawing"},
	})
	require.NoError(t, err)

	all, err := alice.client.ListResources(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	programming, err := alice.client.ListResourcesByCategory(ctx, "Programming")
	require.NoError(t, err)
	require.Len(t, programming, 1)
	assert.Equal(t, "Go spec", programming[0].Title)

	tagged, err := alice.client.ListResourcesByTag(ctx, "drawing")
	require.NoError(t, err)
	require.Len(t, tagged, 1)
	assert.Equal(t, "Sketching basics", tagged[0].Title)

	got, err := alice.client.GetResource(ctx, all[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
}

func TestProfileUpdateConflict(t *testing.T) {
	url := startServer(t)
	ctx := context.Background()
	alice := signUp(t, url, "alice")
	_ = signUp(t, url, "bob")

	_, err := alice.manager.UpdateProfile(ctx, sphere.Profile{Username: "bob"})
	assert.True(t, sphere.IsKind(err, sphere.KindConflict))

	updated, err := alice.manager.UpdateProfile(ctx, sphere.Profile{
		Username: "alice2", ProfileIcon: "icon.png",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice2", updated.Username)
	assert.Equal(t, "alice2", alice.manager.Current().Username)

	// Deleting the account invalidates the token server-side.
	require.NoError(t, alice.manager.DeleteAccount(ctx))
	assert.False(t, alice.manager.SignedIn())
}

func TestUnknownEntityIs404Network(t *testing.T) {
	url := startServer(t)
	ctx := context.Background()
	alice := signUp(t, url, "alice")

	_, err := alice.client.GetQuestion(ctx, "does-not-exist")
	require.Error(t, err)
	assert.True(t, sphere.IsKind(err, sphere.KindNetwork))
}

func TestDeletedAuthorShowsAsUnknown(t *testing.T) {
	url := startServer(t)
	ctx := context.Background()
	alice := signUp(t, url, "alice")
	bob := signUp(t, url, "bob")

	q, err := alice.client.CreateQuestion(ctx, sphere.Question{Title: "Lingering question"})
	require.NoError(t, err)

	require.NoError(t, alice.manager.DeleteAccount(ctx))

	got, err := bob.client.GetQuestion(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, "Unknown", got.Username)
}

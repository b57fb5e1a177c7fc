// Copyright (C) 2025 SkillSphere Learning (opensource@skillsphere.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package sphere

import (
	"context"
	"fmt"
	"net/url"
)

// The functions below bind each entity kind to its REST endpoints. The
// paths mirror the backend's route table exactly, including its uneven
// naming (create/getall prefixes for questions and resources, plain REST
// for plans and posts).

// --- Questions -------------------------------------------------------------

// ListQuestions fetches every question.
func (c *Client) ListQuestions(ctx context.Context) ([]Question, error) {
	var out []Question
	err := c.Get(ctx, "/api/getall/questions", &out)
	return out, err
}

// GetQuestion fetches one question by id.
func (c *Client) GetQuestion(ctx context.Context, id string) (Question, error) {
	var out Question
	err := c.Get(ctx, "/api/questions/"+url.PathEscape(id), &out)
	return out, err
}

// CreateQuestion posts a new question and returns the canonical entity.
func (c *Client) CreateQuestion(ctx context.Context, q Question) (Question, error) {
	var out Question
	err := c.Post(ctx, "/api/create/questions", q, &out)
	return out, err
}

// UpdateQuestion edits a question's title and description. Only the owner
// may edit; anyone else gets KindForbidden.
func (c *Client) UpdateQuestion(ctx context.Context, id string, q Question) (Question, error) {
	var out Question
	err := c.Put(ctx, "/api/edit/questions/"+url.PathEscape(id), q, &out)
	return out, err
}

// DeleteQuestion removes a question. Owner only.
func (c *Client) DeleteQuestion(ctx context.Context, id string) error {
	return c.Delete(ctx, "/api/delete/questions/"+url.PathEscape(id))
}

// --- Answers ---------------------------------------------------------------

// ListAnswers fetches the answers under one question.
func (c *Client) ListAnswers(ctx context.Context, questionID string) ([]Answer, error) {
	var out []Answer
	err := c.Get(ctx, fmt.Sprintf("/api/get/%s/answers", url.PathEscape(questionID)), &out)
	return out, err
}

// CreateAnswer posts an answer. The server rejects answering your own
// question with KindForbidden.
func (c *Client) CreateAnswer(ctx context.Context, questionID string, a Answer) (Answer, error) {
	var out Answer
	err := c.Post(ctx, fmt.Sprintf("/api/create/%s/answers", url.PathEscape(questionID)), a, &out)
	return out, err
}

// UpdateAnswer edits an answer's content. Owner only.
func (c *Client) UpdateAnswer(ctx context.Context, questionID, answerID string, a Answer) (Answer, error) {
	var out Answer
	err := c.Put(ctx, fmt.Sprintf("/api/edit/%s/answers/%s",
		url.PathEscape(questionID), url.PathEscape(answerID)), a, &out)
	return out, err
}

// DeleteAnswer removes an answer. Owner only.
func (c *Client) DeleteAnswer(ctx context.Context, questionID, answerID string) error {
	return c.Delete(ctx, fmt.Sprintf("/api/delete/%s/answers/%s",
		url.PathEscape(questionID), url.PathEscape(answerID)))
}

// UpvoteAnswer registers an upvote and returns the server's counters.
// Voting twice in the same direction is rejected; an existing downvote is
// moved. The client never adjusts counters itself.
func (c *Client) UpvoteAnswer(ctx context.Context, questionID, answerID string) (Answer, error) {
	var out Answer
	err := c.Post(ctx, fmt.Sprintf("/api/%s/answers/%s/upvote",
		url.PathEscape(questionID), url.PathEscape(answerID)), nil, &out)
	return out, err
}

// DownvoteAnswer registers a downvote, symmetric with UpvoteAnswer.
func (c *Client) DownvoteAnswer(ctx context.Context, questionID, answerID string) (Answer, error) {
	var out Answer
	err := c.Post(ctx, fmt.Sprintf("/api/%s/answers/%s/downvote",
		url.PathEscape(questionID), url.PathEscape(answerID)), nil, &out)
	return out, err
}

// MarkBestAnswer flags one answer as best. Question owner only.
func (c *Client) MarkBestAnswer(ctx context.Context, questionID, answerID string) (Answer, error) {
	var out Answer
	err := c.Post(ctx, fmt.Sprintf("/api/%s/answers/%s/best",
		url.PathEscape(questionID), url.PathEscape(answerID)), nil, &out)
	return out, err
}

// --- Learning plans --------------------------------------------------------

// ListPlans fetches every learning plan.
func (c *Client) ListPlans(ctx context.Context) ([]LearningPlan, error) {
	var out []LearningPlan
	err := c.Get(ctx, "/api/learning-plans", &out)
	return out, err
}

// ListMyPlans fetches only the signed-in user's plans.
func (c *Client) ListMyPlans(ctx context.Context) ([]LearningPlan, error) {
	var out []LearningPlan
	err := c.Get(ctx, "/api/learning-plans/my", &out)
	return out, err
}

// CreatePlan posts a new plan. The server forces status to "Not Started".
func (c *Client) CreatePlan(ctx context.Context, p LearningPlan) (LearningPlan, error) {
	var out LearningPlan
	err := c.Post(ctx, "/api/learning-plans", p, &out)
	return out, err
}

// UpdatePlan replaces a plan's mutable fields. Owner only.
func (c *Client) UpdatePlan(ctx context.Context, id string, p LearningPlan) (LearningPlan, error) {
	var out LearningPlan
	err := c.Put(ctx, "/api/learning-plans/"+url.PathEscape(id), p, &out)
	return out, err
}

// DeletePlan removes a plan. Owner only.
func (c *Client) DeletePlan(ctx context.Context, id string) error {
	return c.Delete(ctx, "/api/learning-plans/"+url.PathEscape(id))
}

// CompletePlan marks a plan finished. Owner only.
func (c *Client) CompletePlan(ctx context.Context, id string) (LearningPlan, error) {
	var out LearningPlan
	err := c.Post(ctx, "/api/learning-plans/complete/"+url.PathEscape(id), nil, &out)
	return out, err
}

// --- Plan comments ---------------------------------------------------------

// ListPlanComments fetches the comments under one plan.
func (c *Client) ListPlanComments(ctx context.Context, planID string) ([]PlanComment, error) {
	var out []PlanComment
	err := c.Get(ctx, "/api/comments/plan/"+url.PathEscape(planID), &out)
	return out, err
}

// CreatePlanComment posts a comment on a plan.
func (c *Client) CreatePlanComment(ctx context.Context, planID string, pc PlanComment) (PlanComment, error) {
	var out PlanComment
	err := c.Post(ctx, "/api/comments/plan/"+url.PathEscape(planID), pc, &out)
	return out, err
}

// UpdatePlanComment edits a comment's text. Owner only.
func (c *Client) UpdatePlanComment(ctx context.Context, id string, pc PlanComment) (PlanComment, error) {
	var out PlanComment
	err := c.Put(ctx, "/api/comments/"+url.PathEscape(id), pc, &out)
	return out, err
}

// DeletePlanComment removes a comment. Owner only.
func (c *Client) DeletePlanComment(ctx context.Context, id string) error {
	return c.Delete(ctx, "/api/comments/"+url.PathEscape(id))
}

// LikePlanComment toggles the caller's like and returns the comment with
// the server's like count.
func (c *Client) LikePlanComment(ctx context.Context, id string) (PlanComment, error) {
	var out PlanComment
	err := c.Post(ctx, fmt.Sprintf("/api/comments/%s/like", url.PathEscape(id)), nil, &out)
	return out, err
}

// --- Posts -----------------------------------------------------------------

// ListPosts fetches the feed.
func (c *Client) ListPosts(ctx context.Context) ([]Post, error) {
	var out []Post
	err := c.Get(ctx, "/api/posts", &out)
	return out, err
}

// CreatePost publishes a feed post and returns the canonical entity.
func (c *Client) CreatePost(ctx context.Context, p Post) (Post, error) {
	var out Post
	err := c.Post(ctx, "/api/posts", p, &out)
	return out, err
}

// UpdatePost edits a post's description. Owner only.
func (c *Client) UpdatePost(ctx context.Context, id string, p Post) (Post, error) {
	var out Post
	err := c.Put(ctx, "/api/posts/"+url.PathEscape(id), p, &out)
	return out, err
}

// DeletePost removes a post. Owner only.
func (c *Client) DeletePost(ctx context.Context, id string) error {
	return c.Delete(ctx, "/api/posts/"+url.PathEscape(id))
}

// LikePost toggles the caller's like and returns the post with the server's
// counters.
func (c *Client) LikePost(ctx context.Context, id string) (Post, error) {
	var out Post
	err := c.Post(ctx, fmt.Sprintf("/api/posts/%s/like", url.PathEscape(id)), nil, &out)
	return out, err
}

// CommentOnPost appends a comment and returns the updated post.
func (c *Client) CommentOnPost(ctx context.Context, id string, pc PostComment) (Post, error) {
	var out Post
	err := c.Post(ctx, fmt.Sprintf("/api/posts/%s/comment", url.PathEscape(id)), pc, &out)
	return out, err
}

// --- Resources -------------------------------------------------------------

// ListResources fetches every library resource.
func (c *Client) ListResources(ctx context.Context) ([]Resource, error) {
	var out []Resource
	err := c.Get(ctx, "/api/resources/getall", &out)
	return out, err
}

// ListResourcesByCategory filters resources by skill category.
func (c *Client) ListResourcesByCategory(ctx context.Context, category string) ([]Resource, error) {
	var out []Resource
	err := c.Get(ctx, "/api/resources/category/"+url.PathEscape(category), &out)
	return out, err
}

// ListResourcesByTag filters resources by tag keyword.
func (c *Client) ListResourcesByTag(ctx context.Context, tag string) ([]Resource, error) {
	var out []Resource
	err := c.Get(ctx, "/api/resources/tag/"+url.PathEscape(tag), &out)
	return out, err
}

// GetResource fetches one resource by id.
func (c *Client) GetResource(ctx context.Context, id string) (Resource, error) {
	var out Resource
	err := c.Get(ctx, "/api/resources/"+url.PathEscape(id), &out)
	return out, err
}

// CreateResource adds a resource to the library.
func (c *Client) CreateResource(ctx context.Context, r Resource) (Resource, error) {
	var out Resource
	err := c.Post(ctx, "/api/resources/create", r, &out)
	return out, err
}

// UpdateResource edits a resource. Owner only.
func (c *Client) UpdateResource(ctx context.Context, id string, r Resource) (Resource, error) {
	var out Resource
	err := c.Put(ctx, "/api/resources/edit/"+url.PathEscape(id), r, &out)
	return out, err
}

// DeleteResource removes a resource. Owner only.
func (c *Client) DeleteResource(ctx context.Context, id string) error {
	return c.Delete(ctx, "/api/resources/delete/"+url.PathEscape(id))
}

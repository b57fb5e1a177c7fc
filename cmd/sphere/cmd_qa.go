// Copyright (C) 2025 SkillSphere Learning (opensource@skillsphere.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skillsphere/sphere-cli/pkg/sphere"
	"github.com/skillsphere/sphere-cli/pkg/syncer"
	"github.com/skillsphere/sphere-cli/pkg/ux"
	"github.com/skillsphere/sphere-cli/pkg/validation"
)

func runQuestionsList(cmd *cobra.Command, args []string) {
	ctx, cancel := commandContext()
	defer cancel()
	a := newApp(ctx)
	defer a.Close()

	questions, err := withSpinner("Fetching questions", func() ([]sphere.Question, error) {
		return a.client.ListQuestions(ctx)
	})
	if err != nil {
		fail(err)
	}
	if len(questions) == 0 {
		ux.Infof("No questions yet. Be the first: `sphere questions ask`.")
		return
	}
	ux.Titlef("Questions (%d)", len(questions))
	for _, q := range questions {
		fmt.Printf("  %s %s  %s\n",
			ux.IconBullet.Render(),
			ux.Styles.Bold.Render(q.Title),
			ux.Styles.Muted.Render(fmt.Sprintf("by %s  [%s]", q.Username, q.ID)),
		)
	}
}

func runQuestionsAsk(cmd *cobra.Command, args []string) {
	ctx, cancel := commandContext()
	defer cancel()
	a := newApp(ctx)
	defer a.Close()

	if err := validation.Struct(validation.NewQuestion{
		Title:       args[0],
		Description: descriptionFlag,
	}); err != nil {
		fail(err)
	}
	sync := a.questionSyncer()
	created, err := sync.Create(ctx, sphere.Question{
		Title:       args[0],
		Description: descriptionFlag,
	})
	if err != nil {
		fail(err)
	}
	ux.Successf("Question posted: %s  [%s]", ux.Styles.Bold.Render(created.Title), created.ID)
}

func runQuestionsShow(cmd *cobra.Command, args []string) {
	ctx, cancel := commandContext()
	defer cancel()
	a := newApp(ctx)
	defer a.Close()

	q, err := a.client.GetQuestion(ctx, args[0])
	if err != nil {
		fail(err)
	}
	answers, err := a.client.ListAnswers(ctx, q.ID)
	if err != nil {
		fail(err)
	}

	ux.Titlef("%s", q.Title)
	if q.Description != "" {
		fmt.Println(q.Description)
	}
	fmt.Println(ux.Styles.Muted.Render(fmt.Sprintf("asked by %s", q.Username)))
	fmt.Println()
	if len(answers) == 0 {
		ux.Infof("No answers yet.")
		return
	}
	for _, ans := range answers {
		marker := ux.IconBullet.Render()
		if ans.BestAnswer {
			marker = ux.IconSuccess.Render()
		}
		fmt.Printf("  %s %s\n", marker, ans.Content)
		fmt.Printf("    %s\n", ux.Styles.Muted.Render(fmt.Sprintf(
			"by %s  ▲%d ▼%d  [%s]", ans.Username, ans.Upvotes, ans.Downvotes, ans.ID)))
	}
}

func runQuestionsEdit(cmd *cobra.Command, args []string) {
	ctx, cancel := commandContext()
	defer cancel()
	a := newApp(ctx)
	defer a.Close()

	sync := a.questionSyncer()
	if err := sync.Load(ctx); err != nil {
		fail(err)
	}
	updated, err := sync.Update(ctx, args[0], sphere.Question{
		Title:       args[1],
		Description: descriptionFlag,
	})
	if err != nil {
		fail(err)
	}
	ux.Successf("Question updated: %s", ux.Styles.Bold.Render(updated.Title))
}

func runQuestionsDelete(cmd *cobra.Command, args []string) {
	ctx, cancel := commandContext()
	defer cancel()
	a := newApp(ctx)
	defer a.Close()

	confirmOrAbort("Delete this question and all of its answers?")
	sync := a.questionSyncer()
	if err := sync.Load(ctx); err != nil {
		fail(err)
	}
	if err := sync.Remove(ctx, args[0]); err != nil {
		fail(err)
	}
	ux.Successf("Question deleted.")
}

func runAnswersAdd(cmd *cobra.Command, args []string) {
	ctx, cancel := commandContext()
	defer cancel()
	a := newApp(ctx)
	defer a.Close()

	sync := a.answerSyncer(args[0])
	created, err := sync.Create(ctx, sphere.Answer{Content: args[1]})
	if err != nil {
		fail(err)
	}
	ux.Successf("Answer posted.  [%s]", created.ID)
}

func runAnswersEdit(cmd *cobra.Command, args []string) {
	ctx, cancel := commandContext()
	defer cancel()
	a := newApp(ctx)
	defer a.Close()

	sync := a.answerSyncer(args[0])
	if err := sync.Load(ctx); err != nil {
		fail(err)
	}
	if _, err := sync.Update(ctx, args[1], sphere.Answer{Content: args[2]}); err != nil {
		fail(err)
	}
	ux.Successf("Answer updated.")
}

func runAnswersDelete(cmd *cobra.Command, args []string) {
	ctx, cancel := commandContext()
	defer cancel()
	a := newApp(ctx)
	defer a.Close()

	sync := a.answerSyncer(args[0])
	if err := sync.Load(ctx); err != nil {
		fail(err)
	}
	if err := sync.Remove(ctx, args[1]); err != nil {
		fail(err)
	}
	ux.Successf("Answer deleted.")
}

func runAnswersUpvote(cmd *cobra.Command, args []string)   { vote(args, syncer.Up) }
func runAnswersDownvote(cmd *cobra.Command, args []string) { vote(args, syncer.Down) }

func vote(args []string, dir syncer.Direction) {
	ctx, cancel := commandContext()
	defer cancel()
	a := newApp(ctx)
	defer a.Close()

	sync := a.answerSyncer(args[0])
	if err := sync.Load(ctx); err != nil {
		fail(err)
	}
	voted, err := sync.Vote(ctx, args[1], dir)
	if err != nil {
		fail(err)
	}
	ux.Successf("Vote recorded: ▲%d ▼%d", voted.Upvotes, voted.Downvotes)
}

func runAnswersBest(cmd *cobra.Command, args []string) {
	ctx, cancel := commandContext()
	defer cancel()
	a := newApp(ctx)
	defer a.Close()

	best, err := a.client.MarkBestAnswer(ctx, args[0], args[1])
	if err != nil {
		fail(err)
	}
	ux.Successf("Marked best answer by %s.", ux.Styles.Highlight.Render(best.Username))
}

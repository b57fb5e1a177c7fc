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
	"github.com/skillsphere/sphere-cli/pkg/ux"
	"github.com/skillsphere/sphere-cli/pkg/validation"
)

func printPlans(title string, plans []sphere.LearningPlan) {
	if len(plans) == 0 {
		ux.Infof("No learning plans yet. Create one: `sphere plans create`.")
		return
	}
	ux.Titlef("%s (%d)", title, len(plans))
	for _, p := range plans {
		status := p.Status
		if status == "" {
			status = "Not Started"
		}
		icon := ux.IconPending.Render()
		if p.Completed {
			icon = ux.IconSuccess.Render()
		}
		fmt.Printf("  %s %s  %s\n",
			icon,
			ux.Styles.Bold.Render(p.Title),
			ux.Styles.Muted.Render(fmt.Sprintf("%s  by %s  [%s]", status, p.Username, p.ID)),
		)
	}
}

func runPlansList(cmd *cobra.Command, args []string) {
	ctx, cancel := commandContext()
	defer cancel()
	a := newApp(ctx)
	defer a.Close()

	plans, err := withSpinner("Fetching learning plans", func() ([]sphere.LearningPlan, error) {
		return a.client.ListPlans(ctx)
	})
	if err != nil {
		fail(err)
	}
	printPlans("Learning Plans", plans)
}

func runPlansMine(cmd *cobra.Command, args []string) {
	ctx, cancel := commandContext()
	defer cancel()
	a := newApp(ctx)
	defer a.Close()

	plans, err := a.client.ListMyPlans(ctx)
	if err != nil {
		fail(err)
	}
	printPlans("My Learning Plans", plans)
}

func runPlansCreate(cmd *cobra.Command, args []string) {
	ctx, cancel := commandContext()
	defer cancel()
	a := newApp(ctx)
	defer a.Close()

	if err := validation.Struct(validation.NewPlan{
		Title:       args[0],
		Description: descriptionFlag,
	}); err != nil {
		fail(err)
	}
	sync := a.planSyncer()
	created, err := sync.Create(ctx, sphere.LearningPlan{
		Title:       args[0],
		Description: descriptionFlag,
		Duration:    durationFlag,
		Deadline:    deadlineFlag,
		Modules:     modulesFlag,
	})
	if err != nil {
		fail(err)
	}
	ux.Successf("Plan created: %s  [%s]", ux.Styles.Bold.Render(created.Title), created.ID)
}

func runPlansEdit(cmd *cobra.Command, args []string) {
	ctx, cancel := commandContext()
	defer cancel()
	a := newApp(ctx)
	defer a.Close()

	sync := a.planSyncer()
	if err := sync.Load(ctx); err != nil {
		fail(err)
	}
	updated, err := sync.Update(ctx, args[0], sphere.LearningPlan{
		Title:       args[1],
		Description: descriptionFlag,
		Duration:    durationFlag,
		Deadline:    deadlineFlag,
		Modules:     modulesFlag,
		Progress:    progressFlag,
	})
	if err != nil {
		fail(err)
	}
	ux.Successf("Plan updated: %s", ux.Styles.Bold.Render(updated.Title))
}

func runPlansDelete(cmd *cobra.Command, args []string) {
	ctx, cancel := commandContext()
	defer cancel()
	a := newApp(ctx)
	defer a.Close()

	confirmOrAbort("Delete this learning plan and its comments?")
	sync := a.planSyncer()
	if err := sync.Load(ctx); err != nil {
		fail(err)
	}
	if err := sync.Remove(ctx, args[0]); err != nil {
		fail(err)
	}
	ux.Successf("Plan deleted.")
}

func runPlansComplete(cmd *cobra.Command, args []string) {
	ctx, cancel := commandContext()
	defer cancel()
	a := newApp(ctx)
	defer a.Close()

	done, err := a.client.CompletePlan(ctx, args[0])
	if err != nil {
		fail(err)
	}
	ux.Successf("%s Completed: %s", string(ux.IconSprout), ux.Styles.Bold.Render(done.Title))
}

func runCommentsList(cmd *cobra.Command, args []string) {
	ctx, cancel := commandContext()
	defer cancel()
	a := newApp(ctx)
	defer a.Close()

	sync := a.planSyncer()
	comments, err := sync.LoadChildren(ctx, args[0])
	if err != nil {
		fail(err)
	}
	if len(comments) == 0 {
		ux.Infof("No comments yet.")
		return
	}
	ux.Titlef("Comments (%d)", len(comments))
	for _, c := range comments {
		fmt.Printf("  %s %s\n", ux.IconBullet.Render(), c.Text)
		fmt.Printf("    %s\n", ux.Styles.Muted.Render(fmt.Sprintf(
			"by %s  ♥%d  [%s]", c.Username, c.Likes, c.ID)))
	}
}

func runCommentsAdd(cmd *cobra.Command, args []string) {
	ctx, cancel := commandContext()
	defer cancel()
	a := newApp(ctx)
	defer a.Close()

	sync := a.commentSyncer(args[0])
	created, err := sync.Create(ctx, sphere.PlanComment{Text: args[1]})
	if err != nil {
		fail(err)
	}
	ux.Successf("Comment posted.  [%s]", created.ID)
}

func runCommentsEdit(cmd *cobra.Command, args []string) {
	ctx, cancel := commandContext()
	defer cancel()
	a := newApp(ctx)
	defer a.Close()

	updated, err := a.client.UpdatePlanComment(ctx, args[0], sphere.PlanComment{Text: args[1]})
	if err != nil {
		fail(err)
	}
	ux.Successf("Comment updated.  [%s]", updated.ID)
}

func runCommentsDelete(cmd *cobra.Command, args []string) {
	ctx, cancel := commandContext()
	defer cancel()
	a := newApp(ctx)
	defer a.Close()

	sync := a.commentSyncer(args[0])
	if err := sync.Load(ctx); err != nil {
		fail(err)
	}
	if err := sync.Remove(ctx, args[1]); err != nil {
		fail(err)
	}
	ux.Successf("Comment deleted.")
}

func runCommentsLike(cmd *cobra.Command, args []string) {
	ctx, cancel := commandContext()
	defer cancel()
	a := newApp(ctx)
	defer a.Close()

	sync := a.commentSyncer(args[0])
	if err := sync.Load(ctx); err != nil {
		fail(err)
	}
	liked, err := sync.ToggleLike(ctx, args[1])
	if err != nil {
		fail(err)
	}
	ux.Successf("Likes: %d", liked.Likes)
}

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
)

func runFeedList(cmd *cobra.Command, args []string) {
	ctx, cancel := commandContext()
	defer cancel()
	a := newApp(ctx)
	defer a.Close()

	posts, err := withSpinner("Fetching the feed", func() ([]sphere.Post, error) {
		return a.client.ListPosts(ctx)
	})
	if err != nil {
		fail(err)
	}
	if len(posts) == 0 {
		ux.Infof("The feed is empty. Share something: `sphere feed post`.")
		return
	}
	ux.Titlef("Feed")
	for _, p := range posts {
		fmt.Printf("%s %s\n", ux.Styles.Highlight.Render(p.Username), p.Description)
		meta := fmt.Sprintf("♥%d  %d comments  [%s]", p.Likes, len(p.Comments), p.ID)
		if !p.CreatedAt.IsZero() {
			meta = p.CreatedAt.Format("2006-01-02 15:04") + "  " + meta
		}
		fmt.Printf("  %s\n", ux.Styles.Muted.Render(meta))
		for _, c := range p.Comments {
			fmt.Printf("    %s %s: %s\n", ux.IconBullet.Render(),
				ux.Styles.Subtitle.Render(c.Username), c.Text)
		}
		fmt.Println()
	}
}

func runFeedPost(cmd *cobra.Command, args []string) {
	ctx, cancel := commandContext()
	defer cancel()
	a := newApp(ctx)
	defer a.Close()

	sync := a.postSyncer()
	created, err := sync.Create(ctx, sphere.Post{
		Description: args[0],
		ImageURLs:   imageURLsFlag,
		VideoURL:    videoURLFlag,
	})
	if err != nil {
		fail(err)
	}
	ux.Successf("Posted.  [%s]", created.ID)
}

func runFeedEdit(cmd *cobra.Command, args []string) {
	ctx, cancel := commandContext()
	defer cancel()
	a := newApp(ctx)
	defer a.Close()

	sync := a.postSyncer()
	if err := sync.Load(ctx); err != nil {
		fail(err)
	}
	if _, err := sync.Update(ctx, args[0], sphere.Post{Description: args[1]}); err != nil {
		fail(err)
	}
	ux.Successf("Post updated.")
}

func runFeedDelete(cmd *cobra.Command, args []string) {
	ctx, cancel := commandContext()
	defer cancel()
	a := newApp(ctx)
	defer a.Close()

	confirmOrAbort("Delete this post?")
	sync := a.postSyncer()
	if err := sync.Load(ctx); err != nil {
		fail(err)
	}
	if err := sync.Remove(ctx, args[0]); err != nil {
		fail(err)
	}
	ux.Successf("Post deleted.")
}

func runFeedLike(cmd *cobra.Command, args []string) {
	ctx, cancel := commandContext()
	defer cancel()
	a := newApp(ctx)
	defer a.Close()

	sync := a.postSyncer()
	if err := sync.Load(ctx); err != nil {
		fail(err)
	}
	liked, err := sync.ToggleLike(ctx, args[0])
	if err != nil {
		fail(err)
	}
	ux.Successf("Likes: %d", liked.Likes)
}

func runFeedComment(cmd *cobra.Command, args []string) {
	ctx, cancel := commandContext()
	defer cancel()
	a := newApp(ctx)
	defer a.Close()

	updated, err := a.client.CommentOnPost(ctx, args[0], sphere.PostComment{Text: args[1]})
	if err != nil {
		fail(err)
	}
	ux.Successf("Comment posted. The post now has %d comments.", len(updated.Comments))
}

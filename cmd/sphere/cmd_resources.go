// Copyright (C) 2025 SkillSphere Learning (opensource@skillsphere.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/skillsphere/sphere-cli/pkg/sphere"
	"github.com/skillsphere/sphere-cli/pkg/ux"
	"github.com/skillsphere/sphere-cli/pkg/validation"
)

func runResourcesList(cmd *cobra.Command, args []string) {
	ctx, cancel := commandContext()
	defer cancel()
	a := newApp(ctx)
	defer a.Close()

	var (
		resources []sphere.Resource
		err       error
	)
	switch {
	case categoryFlag != "":
		resources, err = a.client.ListResourcesByCategory(ctx, categoryFlag)
	case tagFilterFlag != "":
		resources, err = a.client.ListResourcesByTag(ctx, tagFilterFlag)
	default:
		resources, err = a.client.ListResources(ctx)
	}
	if err != nil {
		fail(err)
	}
	if len(resources) == 0 {
		ux.Infof("No resources found.")
		return
	}
	ux.Titlef("%s Resources (%d)", string(ux.IconBook), len(resources))
	for _, r := range resources {
		meta := r.Category
		if len(r.Tags) > 0 {
			meta += "  #" + strings.Join(r.Tags, " #")
		}
		fmt.Printf("  %s %s  %s\n",
			ux.IconBullet.Render(),
			ux.Styles.Bold.Render(r.Title),
			ux.Styles.Muted.Render(fmt.Sprintf("%s  [%s]", meta, r.ID)),
		)
	}
}

func runResourcesAdd(cmd *cobra.Command, args []string) {
	ctx, cancel := commandContext()
	defer cancel()
	a := newApp(ctx)
	defer a.Close()

	if err := validation.Struct(validation.NewResource{
		Title: args[0],
		URL:   urlFlag,
	}); err != nil {
		fail(err)
	}
	sync := a.resourceSyncer()
	created, err := sync.Create(ctx, sphere.Resource{
		Title:       args[0],
		Description: descriptionFlag,
		Category:    categoryFlag,
		Type:        typeFlag,
		URL:         urlFlag,
		Tags:        tagsFlag,
	})
	if err != nil {
		fail(err)
	}
	ux.Successf("Resource added: %s  [%s]", ux.Styles.Bold.Render(created.Title), created.ID)
}

func runResourcesShow(cmd *cobra.Command, args []string) {
	ctx, cancel := commandContext()
	defer cancel()
	a := newApp(ctx)
	defer a.Close()

	r, err := a.client.GetResource(ctx, args[0])
	if err != nil {
		fail(err)
	}
	ux.Titlef("%s", r.Title)
	if r.Description != "" {
		fmt.Println(r.Description)
	}
	if r.URL != "" {
		ux.Infof("URL:      %s", r.URL)
	}
	if r.Category != "" {
		ux.Infof("Category: %s", r.Category)
	}
	if r.Type != "" {
		ux.Infof("Type:     %s", r.Type)
	}
	if len(r.Tags) > 0 {
		ux.Infof("Tags:     #%s", strings.Join(r.Tags, " #"))
	}
	fmt.Println(ux.Styles.Muted.Render("shared by " + r.Username))
}

func runResourcesEdit(cmd *cobra.Command, args []string) {
	ctx, cancel := commandContext()
	defer cancel()
	a := newApp(ctx)
	defer a.Close()

	sync := a.resourceSyncer()
	if err := sync.Load(ctx); err != nil {
		fail(err)
	}
	updated, err := sync.Update(ctx, args[0], sphere.Resource{
		Title:       args[1],
		Description: descriptionFlag,
		Category:    categoryFlag,
		Type:        typeFlag,
		URL:         urlFlag,
		Tags:        tagsFlag,
	})
	if err != nil {
		fail(err)
	}
	ux.Successf("Resource updated: %s", ux.Styles.Bold.Render(updated.Title))
}

func runResourcesDelete(cmd *cobra.Command, args []string) {
	ctx, cancel := commandContext()
	defer cancel()
	a := newApp(ctx)
	defer a.Close()

	confirmOrAbort("Delete this resource?")
	sync := a.resourceSyncer()
	if err := sync.Load(ctx); err != nil {
		fail(err)
	}
	if err := sync.Remove(ctx, args[0]); err != nil {
		fail(err)
	}
	ux.Successf("Resource deleted.")
}

// Copyright (C) 2025 SkillSphere Learning (opensource@skillsphere.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"github.com/spf13/cobra"

	"github.com/skillsphere/sphere-cli/pkg/sphere"
	"github.com/skillsphere/sphere-cli/pkg/ux"
)

func runLogin(cmd *cobra.Command, args []string) {
	ctx, cancel := commandContext()
	defer cancel()
	a := newApp(ctx)
	defer a.Close()

	username := ""
	if len(args) > 0 {
		username = args[0]
	}
	if username == "" {
		username = promptLine("Username")
	}
	password := passwordFlag
	if password == "" {
		password = promptLine("Password")
	}

	if err := a.session.Login(ctx, username, password); err != nil {
		fail(err)
	}
	sess := a.session.Current()
	ux.Successf("Signed in as %s", ux.Styles.Highlight.Render(sess.Username))
}

func runRegister(cmd *cobra.Command, args []string) {
	ctx, cancel := commandContext()
	defer cancel()
	a := newApp(ctx)
	defer a.Close()

	username := ""
	if len(args) > 0 {
		username = args[0]
	}
	if username == "" {
		username = promptLine("Username")
	}
	email := emailFlag
	if email == "" {
		email = promptLine("Email")
	}
	password := passwordFlag
	if password == "" {
		password = promptLine("Password")
	}

	if err := a.session.Register(ctx, username, password, email); err != nil {
		fail(err)
	}
	ux.Successf("Welcome to SkillSphere, %s!", ux.Styles.Highlight.Render(username))
}

func runLogout(cmd *cobra.Command, args []string) {
	ctx, cancel := commandContext()
	defer cancel()
	a := newApp(ctx)
	defer a.Close()

	a.session.Logout()
	ux.Successf("Signed out.")
}

func runWhoami(cmd *cobra.Command, args []string) {
	ctx, cancel := commandContext()
	defer cancel()
	a := newApp(ctx)
	defer a.Close()

	sess := a.session.Current()
	if sess.Empty() {
		ux.Infof("Not signed in. Run `sphere login`.")
		return
	}
	ux.Infof("%s (%s)", ux.Styles.Highlight.Render(sess.Username), sess.UserID)
}

func runProfileShow(cmd *cobra.Command, args []string) {
	ctx, cancel := commandContext()
	defer cancel()
	a := newApp(ctx)
	defer a.Close()

	profile, err := a.session.Profile(ctx)
	if err != nil {
		fail(err)
	}
	ux.Titlef("Profile")
	ux.Infof("Username: %s", profile.Username)
	if profile.Email != "" {
		ux.Infof("Email:    %s", profile.Email)
	}
	if profile.ProfileIcon != "" {
		ux.Infof("Icon:     %s", profile.ProfileIcon)
	}
}

func runProfileUpdate(cmd *cobra.Command, args []string) {
	ctx, cancel := commandContext()
	defer cancel()
	a := newApp(ctx)
	defer a.Close()

	username, _ := cmd.Flags().GetString("username")
	email, _ := cmd.Flags().GetString("email")
	icon, _ := cmd.Flags().GetString("icon")
	if username == "" && email == "" && icon == "" {
		ux.Warnf("Nothing to change. Pass --username, --email or --icon.")
		return
	}

	updated, err := a.session.UpdateProfile(ctx, sphere.Profile{
		Username:    username,
		Email:       email,
		ProfileIcon: icon,
	})
	if err != nil {
		fail(err)
	}
	ux.Successf("Profile updated for %s", ux.Styles.Highlight.Render(updated.Username))
}

func runProfileDelete(cmd *cobra.Command, args []string) {
	ctx, cancel := commandContext()
	defer cancel()
	a := newApp(ctx)
	defer a.Close()

	confirmOrAbort("Permanently delete your account and all of its content?")
	if err := a.session.DeleteAccount(ctx); err != nil {
		fail(err)
	}
	ux.Successf("Account deleted.")
}

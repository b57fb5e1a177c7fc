// Copyright (C) 2025 SkillSphere Learning (opensource@skillsphere.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"github.com/spf13/cobra"

	"github.com/skillsphere/sphere-cli/pkg/config"
	"github.com/skillsphere/sphere-cli/pkg/logging"
	"github.com/skillsphere/sphere-cli/pkg/ux"
	"github.com/skillsphere/sphere-cli/services/devserver"
)

func runDevServe(cmd *cobra.Command, args []string) {
	cfg := config.Global
	logger := logging.New(logging.Config{
		Level:   logging.ParseLevel(cfg.Log.Level),
		LogDir:  cfg.Log.Dir,
		Service: "devserver",
	})
	defer logger.Close()

	srv := devserver.New(devserver.WithLogger(logger))
	ux.Infof("Dev server on %s. State is in-memory and lost on exit.", addrFlag)
	if err := srv.Run(addrFlag); err != nil {
		fail(err)
	}
}

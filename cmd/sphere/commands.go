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
)

// --- Global Command Variables ---
var (
	serverURL    string
	passwordFlag string
	emailFlag    string

	descriptionFlag string
	durationFlag    string
	deadlineFlag    string
	modulesFlag     []string
	progressFlag    string

	imageURLsFlag []string
	videoURLFlag  string

	categoryFlag string
	typeFlag     string
	urlFlag      string
	tagsFlag     []string
	// tagFilterFlag is the single-tag filter for resources list; the
	// repeatable --tag on add/edit uses tagsFlag.
	tagFilterFlag string

	yesFlag  bool
	addrFlag string

	rootCmd = &cobra.Command{
		Use:   "sphere",
		Short: "A cli for the SkillSphere social learning platform",
		Long: `Sphere is the terminal client for SkillSphere: ask and answer
questions, follow learning plans, share posts, and curate resources,
all from your shell.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Load(); err != nil {
				return err
			}
			if serverURL != "" {
				config.Global.Server.URL = serverURL
			}
			return nil
		},
	}

	// --- Auth ---
	loginCmd = &cobra.Command{
		Use:   "login [username]",
		Short: "Sign in and persist the session",
		Args:  cobra.MaximumNArgs(1),
		Run:   runLogin, // Defined in cmd_auth.go
	}
	registerCmd = &cobra.Command{
		Use:   "register [username]",
		Short: "Create a SkillSphere account and sign in",
		Args:  cobra.MaximumNArgs(1),
		Run:   runRegister, // Defined in cmd_auth.go
	}
	logoutCmd = &cobra.Command{
		Use:   "logout",
		Short: "Sign out and clear the persisted session",
		Run:   runLogout, // Defined in cmd_auth.go
	}
	whoamiCmd = &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Run:   runWhoami, // Defined in cmd_auth.go
	}
	profileCmd = &cobra.Command{
		Use:   "profile",
		Short: "Manage the signed-in account",
	}
	profileShowCmd = &cobra.Command{
		Use:   "show",
		Short: "Show account details",
		Run:   runProfileShow, // Defined in cmd_auth.go
	}
	profileUpdateCmd = &cobra.Command{
		Use:   "update",
		Short: "Update username, email or profile icon",
		Run:   runProfileUpdate, // Defined in cmd_auth.go
	}
	profileDeleteCmd = &cobra.Command{
		Use:   "delete",
		Short: "DANGER: Permanently delete the account",
		Run:   runProfileDelete, // Defined in cmd_auth.go
	}

	// --- Questions & Answers ---
	questionsCmd = &cobra.Command{
		Use:     "questions",
		Short:   "Browse and manage Q&A threads",
		Aliases: []string{"q"},
	}
	questionsListCmd = &cobra.Command{
		Use:   "list",
		Short: "List all questions",
		Run:   runQuestionsList, // Defined in cmd_qa.go
	}
	questionsAskCmd = &cobra.Command{
		Use:   "ask [title]",
		Short: "Post a new question",
		Args:  cobra.ExactArgs(1),
		Run:   runQuestionsAsk, // Defined in cmd_qa.go
	}
	questionsShowCmd = &cobra.Command{
		Use:   "show [question-id]",
		Short: "Show a question with its answers",
		Args:  cobra.ExactArgs(1),
		Run:   runQuestionsShow, // Defined in cmd_qa.go
	}
	questionsEditCmd = &cobra.Command{
		Use:   "edit [question-id] [title]",
		Short: "Edit your question",
		Args:  cobra.ExactArgs(2),
		Run:   runQuestionsEdit, // Defined in cmd_qa.go
	}
	questionsDeleteCmd = &cobra.Command{
		Use:   "delete [question-id]",
		Short: "Delete your question and its answers",
		Args:  cobra.ExactArgs(1),
		Run:   runQuestionsDelete, // Defined in cmd_qa.go
	}

	answersCmd = &cobra.Command{
		Use:     "answers",
		Short:   "Answer questions and vote on answers",
		Aliases: []string{"a"},
	}
	answersAddCmd = &cobra.Command{
		Use:   "add [question-id] [content]",
		Short: "Answer a question",
		Args:  cobra.ExactArgs(2),
		Run:   runAnswersAdd, // Defined in cmd_qa.go
	}
	answersEditCmd = &cobra.Command{
		Use:   "edit [question-id] [answer-id] [content]",
		Short: "Edit your answer",
		Args:  cobra.ExactArgs(3),
		Run:   runAnswersEdit, // Defined in cmd_qa.go
	}
	answersDeleteCmd = &cobra.Command{
		Use:   "delete [question-id] [answer-id]",
		Short: "Delete your answer",
		Args:  cobra.ExactArgs(2),
		Run:   runAnswersDelete, // Defined in cmd_qa.go
	}
	answersUpvoteCmd = &cobra.Command{
		Use:   "upvote [question-id] [answer-id]",
		Short: "Upvote an answer",
		Args:  cobra.ExactArgs(2),
		Run:   runAnswersUpvote, // Defined in cmd_qa.go
	}
	answersDownvoteCmd = &cobra.Command{
		Use:   "downvote [question-id] [answer-id]",
		Short: "Downvote an answer",
		Args:  cobra.ExactArgs(2),
		Run:   runAnswersDownvote, // Defined in cmd_qa.go
	}
	answersBestCmd = &cobra.Command{
		Use:   "best [question-id] [answer-id]",
		Short: "Mark the best answer on your question",
		Args:  cobra.ExactArgs(2),
		Run:   runAnswersBest, // Defined in cmd_qa.go
	}

	// --- Learning Plans ---
	plansCmd = &cobra.Command{
		Use:   "plans",
		Short: "Browse and manage learning plans",
	}
	plansListCmd = &cobra.Command{
		Use:   "list",
		Short: "List all learning plans",
		Run:   runPlansList, // Defined in cmd_plans.go
	}
	plansMineCmd = &cobra.Command{
		Use:   "mine",
		Short: "List your learning plans",
		Run:   runPlansMine, // Defined in cmd_plans.go
	}
	plansCreateCmd = &cobra.Command{
		Use:   "create [title]",
		Short: "Create a learning plan",
		Args:  cobra.ExactArgs(1),
		Run:   runPlansCreate, // Defined in cmd_plans.go
	}
	plansEditCmd = &cobra.Command{
		Use:   "edit [plan-id] [title]",
		Short: "Edit your learning plan",
		Args:  cobra.ExactArgs(2),
		Run:   runPlansEdit, // Defined in cmd_plans.go
	}
	plansDeleteCmd = &cobra.Command{
		Use:   "delete [plan-id]",
		Short: "Delete your learning plan",
		Args:  cobra.ExactArgs(1),
		Run:   runPlansDelete, // Defined in cmd_plans.go
	}
	plansCompleteCmd = &cobra.Command{
		Use:   "complete [plan-id]",
		Short: "Mark your learning plan completed",
		Args:  cobra.ExactArgs(1),
		Run:   runPlansComplete, // Defined in cmd_plans.go
	}

	commentsCmd = &cobra.Command{
		Use:   "comments",
		Short: "Comment on learning plans",
	}
	commentsListCmd = &cobra.Command{
		Use:   "list [plan-id]",
		Short: "List the comments on a plan",
		Args:  cobra.ExactArgs(1),
		Run:   runCommentsList, // Defined in cmd_plans.go
	}
	commentsAddCmd = &cobra.Command{
		Use:   "add [plan-id] [text]",
		Short: "Comment on a plan",
		Args:  cobra.ExactArgs(2),
		Run:   runCommentsAdd, // Defined in cmd_plans.go
	}
	commentsEditCmd = &cobra.Command{
		Use:   "edit [comment-id] [text]",
		Short: "Edit your comment",
		Args:  cobra.ExactArgs(2),
		Run:   runCommentsEdit, // Defined in cmd_plans.go
	}
	commentsDeleteCmd = &cobra.Command{
		Use:   "delete [plan-id] [comment-id]",
		Short: "Delete your comment",
		Args:  cobra.ExactArgs(2),
		Run:   runCommentsDelete, // Defined in cmd_plans.go
	}
	commentsLikeCmd = &cobra.Command{
		Use:   "like [plan-id] [comment-id]",
		Short: "Toggle your like on a comment",
		Args:  cobra.ExactArgs(2),
		Run:   runCommentsLike, // Defined in cmd_plans.go
	}

	// --- Feed ---
	feedCmd = &cobra.Command{
		Use:   "feed",
		Short: "Browse and post to the community feed",
	}
	feedListCmd = &cobra.Command{
		Use:   "list",
		Short: "Show the feed, newest first",
		Run:   runFeedList, // Defined in cmd_posts.go
	}
	feedPostCmd = &cobra.Command{
		Use:   "post [description]",
		Short: "Publish a feed post",
		Args:  cobra.ExactArgs(1),
		Run:   runFeedPost, // Defined in cmd_posts.go
	}
	feedEditCmd = &cobra.Command{
		Use:   "edit [post-id] [description]",
		Short: "Edit your post",
		Args:  cobra.ExactArgs(2),
		Run:   runFeedEdit, // Defined in cmd_posts.go
	}
	feedDeleteCmd = &cobra.Command{
		Use:   "delete [post-id]",
		Short: "Delete your post",
		Args:  cobra.ExactArgs(1),
		Run:   runFeedDelete, // Defined in cmd_posts.go
	}
	feedLikeCmd = &cobra.Command{
		Use:   "like [post-id]",
		Short: "Toggle your like on a post",
		Args:  cobra.ExactArgs(1),
		Run:   runFeedLike, // Defined in cmd_posts.go
	}
	feedCommentCmd = &cobra.Command{
		Use:   "comment [post-id] [text]",
		Short: "Comment on a post",
		Args:  cobra.ExactArgs(2),
		Run:   runFeedComment, // Defined in cmd_posts.go
	}

	// --- Resources ---
	resourcesCmd = &cobra.Command{
		Use:     "resources",
		Short:   "Browse and manage the resource library",
		Aliases: []string{"r"},
	}
	resourcesListCmd = &cobra.Command{
		Use:   "list",
		Short: "List resources, optionally filtered by category or tag",
		Run:   runResourcesList, // Defined in cmd_resources.go
	}
	resourcesAddCmd = &cobra.Command{
		Use:   "add [title]",
		Short: "Add a resource to the library",
		Args:  cobra.ExactArgs(1),
		Run:   runResourcesAdd, // Defined in cmd_resources.go
	}
	resourcesShowCmd = &cobra.Command{
		Use:   "show [resource-id]",
		Short: "Show one resource",
		Args:  cobra.ExactArgs(1),
		Run:   runResourcesShow, // Defined in cmd_resources.go
	}
	resourcesEditCmd = &cobra.Command{
		Use:   "edit [resource-id] [title]",
		Short: "Edit your resource",
		Args:  cobra.ExactArgs(2),
		Run:   runResourcesEdit, // Defined in cmd_resources.go
	}
	resourcesDeleteCmd = &cobra.Command{
		Use:   "delete [resource-id]",
		Short: "Delete your resource",
		Args:  cobra.ExactArgs(1),
		Run:   runResourcesDelete, // Defined in cmd_resources.go
	}

	// --- Dev Server ---
	devCmd = &cobra.Command{
		Use:   "dev",
		Short: "Local development helpers",
	}
	devServeCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run an in-memory SkillSphere backend for local development",
		Run:   runDevServe, // Defined in cmd_dev.go
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "Override the configured server URL")

	loginCmd.Flags().StringVarP(&passwordFlag, "password", "p", "", "Password (prompted when omitted)")
	registerCmd.Flags().StringVarP(&passwordFlag, "password", "p", "", "Password (prompted when omitted)")
	registerCmd.Flags().StringVarP(&emailFlag, "email", "e", "", "Account email")
	profileUpdateCmd.Flags().String("username", "", "New username")
	profileUpdateCmd.Flags().String("email", "", "New email")
	profileUpdateCmd.Flags().String("icon", "", "New profile icon")
	profileDeleteCmd.Flags().BoolVarP(&yesFlag, "yes", "y", false, "Skip the confirmation prompt")

	questionsAskCmd.Flags().StringVarP(&descriptionFlag, "description", "d", "", "Question body")
	questionsEditCmd.Flags().StringVarP(&descriptionFlag, "description", "d", "", "Question body")
	questionsDeleteCmd.Flags().BoolVarP(&yesFlag, "yes", "y", false, "Skip the confirmation prompt")

	plansCreateCmd.Flags().StringVarP(&descriptionFlag, "description", "d", "", "Plan description")
	plansCreateCmd.Flags().StringVar(&durationFlag, "duration", "", "Expected duration, e.g. '6 weeks'")
	plansCreateCmd.Flags().StringVar(&deadlineFlag, "deadline", "", "Target completion date")
	plansCreateCmd.Flags().StringSliceVar(&modulesFlag, "module", nil, "Plan module (repeatable)")
	plansEditCmd.Flags().StringVarP(&descriptionFlag, "description", "d", "", "Plan description")
	plansEditCmd.Flags().StringVar(&durationFlag, "duration", "", "Expected duration")
	plansEditCmd.Flags().StringVar(&deadlineFlag, "deadline", "", "Target completion date")
	plansEditCmd.Flags().StringSliceVar(&modulesFlag, "module", nil, "Plan module (repeatable)")
	plansEditCmd.Flags().StringVar(&progressFlag, "progress", "", "Progress note")
	plansDeleteCmd.Flags().BoolVarP(&yesFlag, "yes", "y", false, "Skip the confirmation prompt")

	feedPostCmd.Flags().StringSliceVar(&imageURLsFlag, "image", nil, "Image URL (repeatable)")
	feedPostCmd.Flags().StringVar(&videoURLFlag, "video", "", "Video URL")
	feedDeleteCmd.Flags().BoolVarP(&yesFlag, "yes", "y", false, "Skip the confirmation prompt")

	resourcesListCmd.Flags().StringVarP(&categoryFlag, "category", "c", "", "Filter by skill category")
	resourcesListCmd.Flags().StringVarP(&tagFilterFlag, "tag", "t", "", "Filter by tag")
	resourcesAddCmd.Flags().StringVarP(&descriptionFlag, "description", "d", "", "Resource description")
	resourcesAddCmd.Flags().StringVarP(&categoryFlag, "category", "c", "", "Skill category")
	resourcesAddCmd.Flags().StringVar(&typeFlag, "type", "", "Resource type (link, pdf, text)")
	resourcesAddCmd.Flags().StringVarP(&urlFlag, "url", "u", "", "Resource URL")
	resourcesAddCmd.Flags().StringSliceVar(&tagsFlag, "tag", nil, "Tag (repeatable)")
	resourcesEditCmd.Flags().StringVarP(&descriptionFlag, "description", "d", "", "Resource description")
	resourcesEditCmd.Flags().StringVarP(&categoryFlag, "category", "c", "", "Skill category")
	resourcesEditCmd.Flags().StringVar(&typeFlag, "type", "", "Resource type")
	resourcesEditCmd.Flags().StringVarP(&urlFlag, "url", "u", "", "Resource URL")
	resourcesEditCmd.Flags().StringSliceVar(&tagsFlag, "tag", nil, "Tag (repeatable)")
	resourcesDeleteCmd.Flags().BoolVarP(&yesFlag, "yes", "y", false, "Skip the confirmation prompt")

	devServeCmd.Flags().StringVar(&addrFlag, "addr", ":8080", "Listen address")

	profileCmd.AddCommand(profileShowCmd, profileUpdateCmd, profileDeleteCmd)
	questionsCmd.AddCommand(questionsListCmd, questionsAskCmd, questionsShowCmd,
		questionsEditCmd, questionsDeleteCmd)
	answersCmd.AddCommand(answersAddCmd, answersEditCmd, answersDeleteCmd,
		answersUpvoteCmd, answersDownvoteCmd, answersBestCmd)
	plansCmd.AddCommand(plansListCmd, plansMineCmd, plansCreateCmd,
		plansEditCmd, plansDeleteCmd, plansCompleteCmd)
	commentsCmd.AddCommand(commentsListCmd, commentsAddCmd, commentsEditCmd,
		commentsDeleteCmd, commentsLikeCmd)
	feedCmd.AddCommand(feedListCmd, feedPostCmd, feedEditCmd, feedDeleteCmd,
		feedLikeCmd, feedCommentCmd)
	resourcesCmd.AddCommand(resourcesListCmd, resourcesAddCmd, resourcesShowCmd,
		resourcesEditCmd, resourcesDeleteCmd)
	devCmd.AddCommand(devServeCmd)

	rootCmd.AddCommand(loginCmd, registerCmd, logoutCmd, whoamiCmd, profileCmd,
		questionsCmd, answersCmd, plansCmd, commentsCmd, feedCmd, resourcesCmd,
		devCmd)
}


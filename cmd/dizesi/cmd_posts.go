// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taibuivan/dizesi/internal/platform/apperr"
	"github.com/taibuivan/dizesi/internal/social/feed"
	"github.com/taibuivan/dizesi/internal/social/post"
	"github.com/taibuivan/dizesi/internal/users/profile"
	"github.com/taibuivan/dizesi/pkg/convert"
	"github.com/taibuivan/dizesi/pkg/slice"
)

// # Feed

func (application *app) feedCommand() *cobra.Command {
	var following bool

	cmd := &cobra.Command{
		Use:   "feed",
		Short: "List the latest articles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kind := post.FeedGeneral
			if following {
				kind = post.FeedFollowing
			}

			page := feed.NewPage(application.cardDeps(), kind)
			defer page.Close()

			if err := page.Load(cmd.Context()); err != nil {
				return err
			}
			if page.Empty() {
				fmt.Fprintln(application.out, page.EmptyMessage())
				return nil
			}

			printCards(application.out, page.Cards())
			return nil
		},
	}

	cmd.Flags().BoolVar(&following, "following", false, "only authors you follow")
	return cmd
}

// # Post Actions

func (application *app) postCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "post",
		Short: "Write and interact with articles",
	}

	cmd.AddCommand(
		application.postCreateCommand(),
		application.postDeleteCommand(),
		application.cardCommand("like <post-id>", "Like or unlike an article", application.likePost),
		application.cardCommand("follow <post-id>", "Follow or unfollow an article's author", application.followAuthor),
		application.cardCommand("comments <post-id>", "Show the comments of an article", application.showComments),
		application.postCommentCommand(),
		application.postReportCommand(),
		application.cardCommand("share <post-id>", "Print the public link of an article", application.sharePost),
	)
	return cmd
}

func (application *app) postCreateCommand() *cobra.Command {
	var title, content, imagePath string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Submit an article for moderation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			draft := post.Draft{Title: title, Content: content}

			if imagePath != "" {
				file, err := os.Open(imagePath)
				if err != nil {
					return fmt.Errorf("open image: %w", err)
				}
				defer file.Close()

				draft.Image = file
				draft.ImageName = filepath.Base(imagePath)
			}

			created, err := feed.NewComposer(application.cardDeps()).Submit(cmd.Context(), draft)
			if err != nil {
				return err
			}

			fmt.Fprintf(application.out, "Submitted #%d (%s)\n", created.ID, created.Status)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&title, "title", "t", "", "article title")
	flags.StringVarP(&content, "content", "c", "", "article body")
	flags.StringVar(&imagePath, "image", "", "path to a cover image (5MB max)")
	return cmd
}

// postDeleteCommand deletes through the owner's profile page, which holds
// the ownership rule.
func (application *app) postDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <post-id>",
		Short: "Delete one of your articles",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			postID, err := parseID(args[0])
			if err != nil {
				return err
			}

			user, err := application.session.RequireUser()
			if err != nil {
				return err
			}

			page := profile.NewPage(application.profileDeps(), user.Username)
			defer page.Close()

			if err := page.Load(cmd.Context()); err != nil {
				return err
			}
			if err := page.DeletePost(cmd.Context(), postID); err != nil {
				return err
			}

			fmt.Fprintf(application.out, "Deleted #%d\n", postID)
			return nil
		},
	}
}

func (application *app) postCommentCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "comment <post-id> <text>",
		Short: "Comment on an article",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args[1:], " ")
			return application.withCard(cmd.Context(), args[0], func(ctx context.Context, card *post.Card) error {
				if err := card.OpenComments(ctx); err != nil {
					return err
				}
				defer card.CloseComments()

				if err := card.SubmitComment(ctx, text); err != nil {
					return err
				}
				printComments(application.out, card.State().Comments)
				return nil
			})
		},
	}
}

func (application *app) postReportCommand() *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "report <post-id>",
		Short: "Report an article to the moderators",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return application.withCard(cmd.Context(), args[0], func(ctx context.Context, card *post.Card) error {
				return card.Report(ctx, reason)
			})
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "why the article should be reviewed")
	return cmd
}

// # Card Actions

func (application *app) likePost(ctx context.Context, card *post.Card) error {
	if err := card.ToggleLike(ctx); err != nil {
		return err
	}

	state := card.State()
	verb := "Unliked"
	if state.Post.IsLiked {
		verb = "Liked"
	}
	fmt.Fprintf(application.out, "%s #%d (%d likes)\n", verb, state.Post.ID, state.Post.LikesCount)
	return nil
}

func (application *app) followAuthor(ctx context.Context, card *post.Card) error {
	if err := card.ToggleFollow(ctx); err != nil {
		return err
	}

	state := card.State()
	verb := "Unfollowed"
	if state.IsFollowing {
		verb = "Following"
	}
	fmt.Fprintf(application.out, "%s @%s\n", verb, state.Post.User.Username)
	return nil
}

func (application *app) showComments(ctx context.Context, card *post.Card) error {
	if err := card.OpenComments(ctx); err != nil {
		return err
	}
	defer card.CloseComments()

	printComments(application.out, card.State().Comments)
	return nil
}

func (application *app) sharePost(ctx context.Context, card *post.Card) error {
	fmt.Fprintln(application.out, card.Share(ctx))
	return nil
}

// cardCommand builds a "<verb> <post-id>" command running action on the card.
func (application *app) cardCommand(use, short string, action func(context.Context, *post.Card) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return application.withCard(cmd.Context(), args[0], action)
		},
	}
}

// withCard finds the post in the general feed and runs fn on its card.
func (application *app) withCard(ctx context.Context, rawID string, fn func(context.Context, *post.Card) error) error {
	postID, err := parseID(rawID)
	if err != nil {
		return err
	}

	page := feed.NewPage(application.cardDeps(), post.FeedGeneral)
	defer page.Close()

	if err := page.Load(ctx); err != nil {
		return err
	}

	card, ok := slice.Find(page.Cards(), func(card *post.Card) bool { return card.ID() == postID })
	if !ok {
		return apperr.NotFound("Post")
	}
	if err := card.SyncFollowState(ctx); err != nil {
		application.log.Debug("follow_state_sync_failed", slog.Any("error", err))
	}
	return fn(ctx, card)
}

func parseID(raw string) (int64, error) {
	id := convert.ToInt64(raw)
	if id <= 0 {
		return 0, apperr.ValidationError(fmt.Sprintf("invalid id %q", raw))
	}
	return id, nil
}

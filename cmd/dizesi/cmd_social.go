// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taibuivan/dizesi/internal/social/notification"
	"github.com/taibuivan/dizesi/internal/social/search"
	"github.com/taibuivan/dizesi/internal/ui/layout"
)

// # Notifications

func (application *app) notificationsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "notifications",
		Short: "List your notifications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := application.session.RequireUser(); err != nil {
				return err
			}

			page := notification.NewPage(notification.NewClient(application.api))
			defer page.Close()

			if err := page.Load(cmd.Context()); err != nil {
				application.log.Error("notifications_load_failed", slog.Any("error", err))
				return err
			}
			if page.Empty() {
				fmt.Fprintln(application.out, notification.EmptyMessage)
				return nil
			}

			for _, item := range page.Items() {
				unread := " "
				if !item.IsRead {
					unread = "*"
				}
				fmt.Fprintf(application.out, "%s [%s] %s  %s\n",
					unread, notification.Initial(item), notification.Text(item), item.CreatedAt.Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
}

// # Search

func (application *app) searchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Find writers and articles",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			page := search.NewPage(application.cardDeps())
			defer page.Close()

			results, err := page.SetQuery(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				fmt.Fprintln(application.out, page.Message())
				return err
			}

			if results.Empty() {
				fmt.Fprintln(application.out, page.Message())
				return nil
			}

			fmt.Fprintln(application.out, "Writers:")
			if len(results.Users) == 0 {
				fmt.Fprintf(application.out, "  %s\n", search.MessageNoUsers)
			}
			for _, user := range results.Users {
				fmt.Fprintf(application.out, "  %s (@%s)\n", user.DisplayName(), user.Username)
			}

			fmt.Fprintln(application.out, "\nArticles:")
			if len(results.Cards) == 0 {
				fmt.Fprintf(application.out, "  %s\n", search.MessageNoPosts)
			}
			printCards(application.out, results.Cards)
			return nil
		},
	}
}

// # Navigation

func (application *app) navCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "nav",
		Short: "Show the navigation menu",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			chrome := layout.New(cmd.Context(), application.session, notification.NewClient(application.api), application.log)
			defer chrome.Close()

			fmt.Fprintf(application.out, "%s  %s\n\n", layout.Brand, layout.Tagline)
			for _, item := range chrome.Navigation() {
				badge := ""
				if item.Badge != "" {
					badge = " (" + item.Badge + ")"
				}
				fmt.Fprintf(application.out, "  %-16s %s%s\n", item.Label, item.Route, badge)
			}
			fmt.Fprintf(application.out, "\n%s\n", chrome.Footer())
			return nil
		},
	}
}

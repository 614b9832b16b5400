// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taibuivan/dizesi/internal/admin"
)

// # Moderation

// openPanel gates and loads the admin panel. The reports tab may fail on
// its own; that failure is reported by the tab, not returned.
func (application *app) openPanel(ctx context.Context) (*admin.Panel, error) {
	panel := admin.NewPanel(admin.NewClient(application.api), application.session, application.notifier)
	err := panel.Load(ctx)
	if errors.Is(err, admin.ErrNotAdmin) || panel.BoardState().Err != nil {
		panel.Close()
		return nil, err
	}
	return panel, nil
}

func (application *app) adminCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Moderate users, pending articles and reports",
	}

	cmd.AddCommand(
		application.adminUsersCommand(),
		application.adminPendingCommand(),
		application.adminReportsCommand(),
		application.adminActionCommand("approve <post-id>", "Publish a pending article", (*admin.Panel).Approve),
		application.adminActionCommand("reject <post-id>", "Reject and delete a pending article", (*admin.Panel).Reject),
		application.adminActionCommand("delete <post-id>", "Delete a reported article", (*admin.Panel).DeleteReportedPost),
		application.adminDismissCommand(),
	)
	return cmd
}

func (application *app) adminUsersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List every account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			panel, err := application.openPanel(cmd.Context())
			if err != nil {
				return err
			}
			defer panel.Close()

			for _, user := range panel.Users() {
				role := user.Role
				if user.Admin() {
					role = "admin"
				}
				fmt.Fprintf(application.out, "%-5d %-20s %-30s %s\n", user.ID, user.Username, user.Email, role)
			}
			return nil
		},
	}
}

func (application *app) adminPendingCommand() *cobra.Command {
	var page int

	cmd := &cobra.Command{
		Use:   "pending",
		Short: "List articles awaiting moderation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			panel, err := application.openPanel(cmd.Context())
			if err != nil {
				return err
			}
			defer panel.Close()

			panel.SetPendingPage(page)
			items, meta := panel.PendingPage()
			if len(items) == 0 {
				fmt.Fprintln(application.out, "No pending posts.")
				return nil
			}

			for _, item := range items {
				fmt.Fprintf(application.out, "#%d %s  by @%s  %s\n", item.ID, item.Title, item.Author(), item.CreatedAt)
			}
			printPageFooter(application.out, meta)
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "page of the table")
	return cmd
}

func (application *app) adminReportsCommand() *cobra.Command {
	var page int

	cmd := &cobra.Command{
		Use:   "reports",
		Short: "List reported articles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			panel, err := application.openPanel(cmd.Context())
			if err != nil {
				return err
			}
			defer panel.Close()

			application.printReports(panel, page)
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "page of the table")
	return cmd
}

func (application *app) printReports(panel *admin.Panel, page int) {
	if message := panel.ReportsMessage(); message != "" {
		fmt.Fprintln(application.out, message)
		return
	}

	panel.SetReportsPage(page)
	reports, meta := panel.ReportsPage()
	if len(reports) == 0 {
		fmt.Fprintln(application.out, "No reports.")
		return
	}

	for _, report := range reports {
		title := "(deleted post)"
		if report.Post != nil {
			title = report.Post.Title
		}
		reporter := "unknown"
		if report.User != nil {
			reporter = report.User.Username
		}
		fmt.Fprintf(application.out, "report %d  post #%d %s  by @%s: %s\n",
			report.ID, report.TargetID(), title, reporter, report.ReasonText())
	}
	printPageFooter(application.out, meta)
}

func (application *app) adminActionCommand(use, short string, action func(*admin.Panel, context.Context, int64) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			postID, err := parseID(args[0])
			if err != nil {
				return err
			}

			panel, err := application.openPanel(cmd.Context())
			if err != nil {
				return err
			}
			defer panel.Close()

			return action(panel, cmd.Context(), postID)
		},
	}
}

// adminDismissCommand hides a report for this listing only; the server
// keeps it.
func (application *app) adminDismissCommand() *cobra.Command {
	var page int

	cmd := &cobra.Command{
		Use:   "dismiss <report-id>",
		Short: "Hide a report from the listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reportID, err := parseID(args[0])
			if err != nil {
				return err
			}

			panel, err := application.openPanel(cmd.Context())
			if err != nil {
				return err
			}
			defer panel.Close()

			if err := panel.DismissReport(cmd.Context(), reportID); err != nil {
				return err
			}
			application.printReports(panel, page)
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "page of the table")
	return cmd
}

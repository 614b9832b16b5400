// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taibuivan/dizesi/internal/users/auth"
)

// # Session Commands

func (application *app) authService() *auth.Service {
	return auth.NewService(application.api, application.session, application.notifier)
}

func (application *app) loginCommand() *cobra.Command {
	var input auth.LoginInput

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and keep the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := application.authService().Login(cmd.Context(), input)
			if err != nil {
				return err
			}
			fmt.Fprintf(application.out, "Signed in as %s\n", user.Username)
			return nil
		},
	}

	cmd.Flags().StringVarP(&input.Username, "username", "u", "", "account username")
	cmd.Flags().StringVarP(&input.Password, "password", "p", "", "account password")
	return cmd
}

func (application *app) registerCommand() *cobra.Command {
	var input auth.RegisterInput

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := application.authService().Register(cmd.Context(), input)
			if err != nil {
				return err
			}
			fmt.Fprintf(application.out, "Welcome, %s\n", user.Username)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&input.FullName, "full-name", "", "display name")
	flags.StringVarP(&input.Username, "username", "u", "", "account username")
	flags.StringVar(&input.Email, "email", "", "email address")
	flags.StringVarP(&input.Password, "password", "p", "", "password")
	flags.StringVar(&input.ConfirmPassword, "confirm-password", "", "password again")
	flags.StringVar(&input.Gender, "gender", "", "male, female or other")
	flags.StringVar(&input.DateOfBirth, "date-of-birth", "", "YYYY-MM-DD")
	return cmd
}

func (application *app) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the local session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := application.authService().Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(application.out, "Signed out")
			return nil
		},
	}
}

func (application *app) whoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			user, err := application.session.RequireUser()
			if err != nil {
				return err
			}

			role := user.Role
			if user.Admin() {
				role = "admin"
			}
			fmt.Fprintf(application.out, "%s (%s) <%s> [%s]\n", user.Username, user.FullName, user.Email, role)
			return nil
		},
	}
}

func (application *app) checkUsernameCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check-username <username>",
		Short: "Ask whether a username is still free",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := application.authService().CheckUsername(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(application.out, status)
			return nil
		},
	}
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/taibuivan/dizesi/internal/users/profile"
)

// # Profile

func (application *app) profileDeps() profile.Deps {
	return profile.Deps{
		Cards:        application.cardDeps(),
		Client:       profile.NewClient(application.api),
		AssetBaseURL: application.cfg.AssetBaseURL(),
	}
}

// openOwnProfile loads the signed-in user's profile page.
func (application *app) openOwnProfile(ctx context.Context) (*profile.Page, error) {
	user, err := application.session.RequireUser()
	if err != nil {
		return nil, err
	}

	page := profile.NewPage(application.profileDeps(), user.Username)
	if err := page.Load(ctx); err != nil {
		page.Close()
		return nil, err
	}
	return page, nil
}

func (application *app) profileCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile [username]",
		Short: "Show a profile (yours by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var username string
			if len(args) == 1 {
				username = args[0]
			} else {
				user, err := application.session.RequireUser()
				if err != nil {
					return err
				}
				username = user.Username
			}

			page := profile.NewPage(application.profileDeps(), username)
			defer page.Close()

			if err := page.Load(cmd.Context()); err != nil {
				return err
			}
			application.printProfile(page)
			return nil
		},
	}

	cmd.AddCommand(
		application.profileEditCommand(),
		application.profileImageCommand("avatar", profile.ImageAvatar),
		application.profileImageCommand("cover", profile.ImageCover),
	)
	return cmd
}

func (application *app) printProfile(page *profile.Page) {
	view := page.View()
	person := view.Person

	fmt.Fprintf(application.out, "%s (@%s)\n", person.FullName, person.Username)
	fmt.Fprintf(application.out, "%d followers  %d following\n", person.FollowersCount, person.FollowingCount)
	if person.Bio != "" {
		fmt.Fprintln(application.out, person.Bio)
	}
	if person.InstagramURL != "" {
		fmt.Fprintf(application.out, "Instagram: %s\n", profile.InstagramHref(person.InstagramURL))
	}
	if person.ProfilePicture != "" {
		fmt.Fprintf(application.out, "Avatar: %s\n", page.ImageURL(person.ProfilePicture))
	}
	if person.CoverImage != "" {
		fmt.Fprintf(application.out, "Cover: %s\n", page.ImageURL(person.CoverImage))
	}
	fmt.Fprintln(application.out)

	if len(view.Cards) == 0 {
		fmt.Fprintln(application.out, "No articles yet.")
		return
	}
	printCards(application.out, view.Cards)
}

func (application *app) profileEditCommand() *cobra.Command {
	var bio, instagram string

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Change your bio and Instagram link",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			page, err := application.openOwnProfile(cmd.Context())
			if err != nil {
				return err
			}
			defer page.Close()

			if err := page.BeginEdit(); err != nil {
				return err
			}
			if cmd.Flags().Changed("bio") {
				page.SetBio(bio)
			}
			if cmd.Flags().Changed("instagram") {
				page.SetInstagram(instagram)
			}

			if err := page.Save(cmd.Context()); err != nil {
				return err
			}
			application.printProfile(page)
			return nil
		},
	}

	cmd.Flags().StringVar(&bio, "bio", "", "short bio (200 characters max)")
	cmd.Flags().StringVar(&instagram, "instagram", "", "Instagram profile link")
	return cmd
}

func (application *app) profileImageCommand(name string, kind profile.ImageKind) *cobra.Command {
	var remove bool

	cmd := &cobra.Command{
		Use:   name + " [image-path]",
		Short: fmt.Sprintf("Upload or remove your %s image", name),
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if remove == (len(args) == 1) {
				return fmt.Errorf("give either an image path or --remove")
			}

			page, err := application.openOwnProfile(cmd.Context())
			if err != nil {
				return err
			}
			defer page.Close()

			if remove {
				return page.RemoveImage(cmd.Context(), kind)
			}

			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open image: %w", err)
			}
			defer file.Close()

			if err := page.UploadImage(cmd.Context(), kind, filepath.Base(args[0]), file); err != nil {
				return err
			}
			fmt.Fprintln(application.out, page.ImageURL(page.View().Person.Image(kind)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&remove, "remove", false, "clear the image instead of uploading one")
	return cmd
}

package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/lalith-99/pocketchat/internal/messenger"
)

func registerCmd(a *app) *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "register <username>",
		Short: "Create an account and log in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := a.client.Register(cmd.Context(), args[0], password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered and logged in as %s (%s)\n", u.Username, u.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func loginCmd(a *app) *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "login <username>",
		Short: "Log in to an existing account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := a.client.Login(cmd.Context(), args[0], password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", u.Username)
			return nil
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func logoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and forget the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.client.Logout(cmd.Context())
		},
	}
}

func whoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u := a.client.CurrentUser()
			if u == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Not logged in.")
				return nil
			}
			printUser(cmd.OutOrStdout(), *u)
			return nil
		},
	}
}

func profileCmd(a *app) *cobra.Command {
	profile := &cobra.Command{
		Use:   "profile",
		Short: "Manage your profile",
	}

	var bio, avatar, status string
	set := &cobra.Command{
		Use:   "set",
		Short: "Change profile fields; only the flags you pass are updated",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}

			var p messenger.ProfileUpdate
			flags := cmd.Flags()
			if flags.Changed("bio") {
				p.Bio = &bio
			}
			if flags.Changed("avatar") {
				p.Avatar = &avatar
			}
			if flags.Changed("status") {
				p.Status = &status
				now := time.Now().UTC()
				p.LastSeen = &now
			}
			if p == (messenger.ProfileUpdate{}) {
				return errors.New("nothing to update: pass --bio, --avatar or --status")
			}

			u, err := a.client.UpdateProfile(cmd.Context(), p)
			if err != nil {
				return err
			}
			if u == nil {
				return messenger.ErrUserNotFound
			}
			printUser(cmd.OutOrStdout(), *u)
			return nil
		},
	}
	set.Flags().StringVar(&bio, "bio", "", "profile bio")
	set.Flags().StringVar(&avatar, "avatar", "", "profile avatar (an emoji works well)")
	set.Flags().StringVar(&status, "status", "", "online or offline")

	profile.AddCommand(set)
	return profile
}

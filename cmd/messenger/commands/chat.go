package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lalith-99/pocketchat/internal/models"
)

func usersCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "users [query]",
		Short: "List other users, or search them by username and bio",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				users []models.User
				err   error
			)
			if len(args) == 1 {
				users, err = a.client.SearchUsers(cmd.Context(), args[0])
			} else {
				users, err = a.client.GetAllUsers(cmd.Context())
			}
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(users) == 0 {
				fmt.Fprintln(out, "No users found.")
				return nil
			}
			for _, u := range users {
				printUserLine(out, u)
			}
			return nil
		},
	}
}

func chatCmd(a *app) *cobra.Command {
	chat := &cobra.Command{
		Use:   "chat",
		Short: "Create and inspect chats",
	}

	private := &cobra.Command{
		Use:   "private <user-id>",
		Short: "Open the private chat with a user, creating it if needed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}
			c, err := a.client.CreatePrivateChat(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Private chat %s\n", c.ID)
			return nil
		},
	}

	var description string
	group := &cobra.Command{
		Use:   "group <name> [user-id...]",
		Short: "Create a group with you as admin",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}
			c, err := a.client.CreateGroup(cmd.Context(), args[0], description, args[1:])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Group %q created: %s (%d participants)\n", c.Name, c.ID, len(c.Participants))
			return nil
		},
	}
	group.Flags().StringVarP(&description, "description", "d", "", "group description")

	info := &cobra.Command{
		Use:   "info <chat-id>",
		Short: "Show a chat's title, status and last message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.client.GetChatInfo(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if v == nil {
				return fmt.Errorf("chat %s not found", args[0])
			}
			printChatView(cmd.OutOrStdout(), *v)
			return nil
		},
	}

	chat.AddCommand(private, group, info)
	return chat
}

func chatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "chats",
		Short: "List your chats, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}
			ctx := cmd.Context()
			chats, err := a.client.GetUserChats(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(chats) == 0 {
				fmt.Fprintln(out, "No chats yet.")
				return nil
			}
			for _, c := range chats {
				v, err := a.client.GetChatInfo(ctx, c.ID)
				if err != nil || v == nil {
					a.logger.Warn("skipping chat", zap.String("chat_id", c.ID), zap.Error(err))
					continue
				}
				printChatView(out, *v)
			}
			return nil
		},
	}
}

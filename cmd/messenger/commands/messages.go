package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func sendCmd(a *app) *cobra.Command {
	var msgType string
	cmd := &cobra.Command{
		Use:   "send <chat-id> <text>",
		Short: "Send a message to a chat",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}
			m, err := a.client.SendMessage(cmd.Context(), args[0], args[1], msgType)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Sent %s\n", m.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&msgType, "type", "text", "message type")
	return cmd
}

func messagesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "messages <chat-id>",
		Short: "Print a chat's messages, oldest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			msgs, err := a.client.GetChatMessages(ctx, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(msgs) == 0 {
				fmt.Fprintln(out, "No messages.")
				return nil
			}

			names := map[string]string{}
			for _, m := range msgs {
				if _, ok := names[m.From]; !ok {
					names[m.From] = m.From
					if u, err := a.client.GetUserByID(ctx, m.From); err == nil && u != nil {
						names[m.From] = u.Username
					}
				}
				printMessage(out, m, names[m.From])
			}
			return nil
		},
	}
}

func reactCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "react <message-id> <reaction>",
		Short: "React to a message, replacing your earlier reaction",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}
			m, err := a.client.AddReaction(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reacted %s on %s (%d reactions)\n", args[1], m.ID, len(m.Reactions))
			return nil
		},
	}
}

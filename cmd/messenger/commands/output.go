package commands

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/lalith-99/pocketchat/internal/models"
)

const timeLayout = "2006-01-02 15:04"

func printUser(w io.Writer, u models.User) {
	fmt.Fprintf(w, "%s %s (%s)\n", u.Profile.Avatar, u.Username, u.ID)
	fmt.Fprintf(w, "  status:   %s, last seen %s\n", u.Profile.Status, u.Profile.LastSeen.Local().Format(timeLayout))
	fmt.Fprintf(w, "  bio:      %s\n", u.Profile.Bio)
	fmt.Fprintf(w, "  since:    %s\n", u.RegisteredAt.Local().Format(timeLayout))
}

func printUserLine(w io.Writer, u models.User) {
	fmt.Fprintf(w, "%s %-20s %-8s %s\n", u.Profile.Avatar, u.Username, u.Profile.Status, u.ID)
}

func printChatView(w io.Writer, v models.ChatView) {
	last := v.LastMessage
	if last == "" {
		last = "(no messages)"
	}
	fmt.Fprintf(w, "%s %s [%s] %s\n", v.Avatar, v.Title, v.Status, v.ID)
	fmt.Fprintf(w, "  %s  %s\n", v.LastMessageTime.Local().Format(timeLayout), last)
}

func printMessage(w io.Writer, m models.Message, from string) {
	fmt.Fprintf(w, "[%s] %s: %s", m.Timestamp.Local().Format(time.TimeOnly), from, m.Text)
	if len(m.Reactions) > 0 {
		rs := make([]string, 0, len(m.Reactions))
		for _, r := range m.Reactions {
			rs = append(rs, r.Reaction)
		}
		fmt.Fprintf(w, "  %s", strings.Join(rs, " "))
	}
	fmt.Fprintf(w, "  (%s)\n", m.ID)
}

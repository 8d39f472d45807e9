// Package commands is the pocketchat command line: a single-user messenger
// client whose data lives in JSON files under --home.
package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lalith-99/pocketchat/internal/messenger"
	"github.com/lalith-99/pocketchat/internal/models"
	"github.com/lalith-99/pocketchat/internal/observ"
	"github.com/lalith-99/pocketchat/internal/repository/kvstore"
	"github.com/lalith-99/pocketchat/internal/storage"
)

// app is what every subcommand runs against. It is built in the root's
// PersistentPreRunE once flags are parsed.
type app struct {
	home    string
	verbose bool

	logger *zap.Logger
	client *messenger.Client
}

func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds a fresh command tree, so tests can run several
// invocations in one process.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "messenger",
		Short:         "Local pocketchat messenger",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&a.home, "home", "", "data dir (default ~/.pocketchat)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log debug output to stderr")

	root.AddCommand(
		registerCmd(a),
		loginCmd(a),
		logoutCmd(a),
		whoamiCmd(a),
		profileCmd(a),
		usersCmd(a),
		chatCmd(a),
		chatsCmd(a),
		sendCmd(a),
		messagesCmd(a),
		reactCmd(a),
	)
	return root
}

func (a *app) open(cmd *cobra.Command) error {
	if a.home == "" {
		dir, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		a.home = filepath.Join(dir, ".pocketchat")
	}

	logger, err := observ.NewCLILogger(a.verbose)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	a.logger = logger

	fs, err := storage.NewFileStore(a.home)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if err := kvstore.EnsureSchema(ctx, fs); err != nil {
		return err
	}

	repos := kvstore.New(fs)
	svc := messenger.NewService(repos.Users, repos.Chats, repos.Messages,
		messenger.WithLogger(logger),
	)
	a.client = messenger.NewClient(svc, repos.Session, &navigator{out: cmd.OutOrStdout(), logger: logger})

	return a.client.Restore(ctx)
}

// navigator is the CLI's messenger.Navigator: there is no screen to
// redraw, so it only logs session changes and prints a goodbye on logout.
type navigator struct {
	out    io.Writer
	logger *zap.Logger
}

func (n *navigator) Refresh(current *models.User) {
	if current == nil {
		n.logger.Debug("no active session")
		return
	}
	n.logger.Debug("active session", zap.String("username", current.Username))
}

func (n *navigator) Landing() {
	fmt.Fprintln(n.out, "Logged out.")
}

// requireLogin fails commands that act as the current user before they
// reach the service.
func (a *app) requireLogin() error {
	if !a.client.IsLoggedIn() {
		return fmt.Errorf("%w: run `messenger login` first", messenger.ErrNotAuthenticated)
	}
	return nil
}

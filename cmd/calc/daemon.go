package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/charlie0129/calc/pkg/daemon"
	"github.com/charlie0129/calc/pkg/events"
	"github.com/charlie0129/calc/pkg/version"
)

var (
	// alwaysAllowNonRootAccess indicates whether other users may talk to the calc daemon.
	alwaysAllowNonRootAccess = false
	// session is the daemon session used by the client commands.
	session = "default"
)

// NewDaemonCommand .
func NewDaemonCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "daemon",
		Short:   "Run calc daemon in the foreground",
		GroupID: gDaemon,
		Long: `Run calc daemon in the foreground.

The daemon keeps calculator sessions in memory and serves them over a unix
socket, so several programs can share one calculator.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			logrus.WithFields(logrus.Fields{
				"version": version.Version,
				"commit":  version.GitCommit,
			}).Info("calc daemon starting")
			return daemon.Run(configPath, unixSocketPath, alwaysAllowNonRootAccess)
		},
	}

	f := cmd.Flags()

	f.BoolVar(&alwaysAllowNonRootAccess, "always-allow-non-root-access", false,
		"Always allow other users to access the daemon.")

	return cmd
}

func addSessionFlag(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&session, "session", "s", session, "daemon session to use")
}

func NewPressCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "press <actions...>",
		Short:   "Press keys on a daemon session",
		GroupID: gDaemon,
		Long: `Press keys on a daemon session and print the display.

Each argument is an action name such as "digit:7", "operator:add", "evaluate",
"clear", "clear-entry" or "backspace". Button labels ("7", "+", "=", "C", "CE")
and key names ("Enter", "Escape") work as well.`,
		Example: `  calc press 1 2 + 3
  calc press evaluate
  calc press --session work digit:9 operator:divide digit:3 evaluate`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			display, err := newClient().Press(session, args...)
			if err != nil {
				return fmt.Errorf("failed to press keys: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), displayText(display))
			return nil
		},
	}
	addSessionFlag(cmd)
	return cmd
}

func NewDisplayCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "display",
		Short:   "Print the display of a daemon session",
		GroupID: gDaemon,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			display, err := newClient().Display(session)
			if err != nil {
				return fmt.Errorf("failed to get display: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), displayText(display))
			return nil
		},
	}
	addSessionFlag(cmd)
	return cmd
}

func NewResetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "reset",
		Short:   "Forget a daemon session",
		GroupID: gDaemon,
		Args:    cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			ret, err := newClient().Reset(session)
			if err != nil {
				return fmt.Errorf("failed to reset session: %w", err)
			}
			if ret != "" {
				logrus.Debugf("daemon responded: %s", ret)
			}
			logrus.Infof("session %q reset", session)
			return nil
		},
	}
	addSessionFlag(cmd)
	return cmd
}

func NewSessionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "sessions",
		Short:   "List daemon sessions",
		GroupID: gDaemon,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := newClient()
			ids, err := c.Sessions()
			if err != nil {
				return err
			}
			for _, id := range ids {
				display, err := c.Display(id)
				if err != nil {
					// pruned between the two requests
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", bold("%s", id), display)
			}
			return nil
		},
	}
}

func NewWatchCommand() *cobra.Command {
	all := false

	cmd := &cobra.Command{
		Use:     "watch",
		Short:   "Follow key presses and display changes",
		GroupID: gDaemon,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			only := session
			if all {
				only = ""
			}
			ch, err := newClient().SubscribeEvents(ctx, only)
			if err != nil {
				return err
			}

			for ev := range ch {
				switch ev.Name {
				case events.KeyPressed:
					p, err := events.DecodeAs[events.KeyPressedEvent](ev)
					if err != nil {
						logrus.Warnf("bad %s event: %v", ev.Name, err)
						continue
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s pressed %s\n", p.Session, bold("%s", p.Label))
				case events.DisplayChanged:
					p, err := events.DecodeAs[events.DisplayChangedEvent](ev)
					if err != nil {
						logrus.Warnf("bad %s event: %v", ev.Name, err)
						continue
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s display %s\n", p.Session, displayText(p.Display))
				}
			}
			return nil
		},
	}
	addSessionFlag(cmd)
	cmd.Flags().BoolVar(&all, "all", false, "follow every session")
	return cmd
}

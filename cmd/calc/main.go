package main

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/charlie0129/calc/pkg/client"
)

var (
	logLevel       = "info"
	unixSocketPath = defaultSocketPath()
	configPath     = defaultConfigPath()
)

var (
	gBasic        = "Basic:"
	gDaemon       = "Daemon:"
	gInstallation = "Installation:"
	commandGroups = []string{
		gBasic,
		gDaemon,
		gInstallation,
	}
)

func defaultSocketPath() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "calc.sock")
	}
	return filepath.Join(os.TempDir(), fmt.Sprintf("calc-%d.sock", os.Getuid()))
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "calc.json"
	}
	return filepath.Join(dir, "calc", "calc.json")
}

func setupLogger() error {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("failed to parse log level: %v", err)
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{})
	if term.IsTerminal(int(os.Stderr.Fd())) {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.Kitchen,
		})
	}

	return nil
}

func handleCmdError(err error) {
	switch {
	case errors.Is(err, client.ErrDaemonNotRunning):
		fmt.Fprintln(os.Stderr, "\nError: calc daemon is not running")
		fmt.Fprintln(os.Stderr, "Start it with 'calc daemon' or install it with 'calc install'.")
	case errors.Is(err, client.ErrPermissionDenied):
		fmt.Fprintln(os.Stderr, "\nError: Permission Denied")
		fmt.Fprintln(os.Stderr, "  - The daemon socket belongs to another user")
		fmt.Fprintln(os.Stderr, "  - Restart the daemon with '--always-allow-non-root-access' to share it")
	case errors.Is(err, client.ErrBadRequest):
		fmt.Fprintln(os.Stderr, "\nError: the daemon rejected the request")
		fmt.Fprintln(os.Stderr, "Run 'calc press --help' to see the accepted action names.")
	}
}

func main() {
	// A missing .env is fine.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
	}

	cmd := NewCommand()
	if err := cmd.Execute(); err != nil {
		handleCmdError(err)
		os.Exit(1)
	}
}

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calc",
		Short: "calc is a pocket calculator for the terminal",
		Long: `calc is a pocket calculator for the terminal.

Run it without arguments for the interactive calculator, evaluate key
sequences with 'calc eval', or run a daemon that keeps calculator sessions
for other programs.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return setupLogger()
		},
	}

	if os.Getenv("CALC_RUN_TUI") != "" || path.Base(os.Args[0]) == "calc-tui" || term.IsTerminal(int(os.Stdin.Fd())) {
		cmd.RunE = runTUI
	}

	globalFlags := cmd.PersistentFlags()
	globalFlags.StringVarP(&logLevel, "log-level", "l", "info", "log level (trace, debug, info, warn, error, fatal, panic)")
	globalFlags.StringVar(&configPath, "config", configPath, "config file path (.json, .yaml or .db)")
	globalFlags.StringVar(&unixSocketPath, "daemon-socket", unixSocketPath, "calc daemon unix socket path")

	for _, i := range commandGroups {
		cmd.AddGroup(&cobra.Group{
			ID:    i,
			Title: i,
		})
	}

	cmd.AddCommand(
		NewTUICommand(),
		NewEvalCommand(),
		NewThemeCommand(),
		NewVersionCommand(),
		NewDaemonCommand(),
		NewPressCommand(),
		NewDisplayCommand(),
		NewResetCommand(),
		NewSessionsCommand(),
		NewWatchCommand(),
		NewInstallCommand(),
		NewUninstallCommand(),
	)

	return cmd
}

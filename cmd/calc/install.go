package main

import (
	"fmt"
	"os"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	daemonutils "github.com/charlie0129/calc/pkg/utils/daemon"
)

// NewInstallCommand .
func NewInstallCommand() *cobra.Command {
	allowNonRootAccess := false

	cmd := &cobra.Command{
		Use:     "install",
		Short:   "Install calc daemon (current user)",
		GroupID: gInstallation,
		Long: `Install calc daemon as a systemd user service.

This makes the daemon run in the background and start with your session.

By default only you can talk to the daemon. Use --allow-non-root-access to
make the socket available to other users as well.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, err := openConfig()
			if err != nil {
				return err
			}
			defer closeConfig(conf)

			conf.SetAllowNonRootAccess(allowNonRootAccess)
			if allowNonRootAccess {
				logrus.Info("other users are allowed to access the calc daemon.")
			} else {
				logrus.Info("only the current user is allowed to access the calc daemon.")
			}

			err = conf.Save()
			if err != nil {
				return pkgerrors.Wrapf(err, "failed to save config")
			}

			err = daemonutils.Install(configPath, unixSocketPath)
			if err != nil {
				return fmt.Errorf("failed to install daemon: %v", err)
			}

			logrus.Infof("installation succeeded")

			exePath, _ := os.Executable()

			cmd.Printf("systemd will use the current binary (%s) at startup so please make sure you do not move this binary. Once this binary is moved or deleted, you will need to run `calc install' again.\n", exePath)

			return nil
		},
	}

	cmd.Flags().BoolVar(&allowNonRootAccess, "allow-non-root-access", false, "Allow other users to access calc daemon.")

	return cmd
}

// NewUninstallCommand .
func NewUninstallCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "uninstall",
		Short:   "Uninstall calc daemon (current user)",
		GroupID: gInstallation,
		Long: `Uninstall calc daemon.

This stops the daemon and removes its systemd user service.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := daemonutils.Uninstall()
			if err != nil {
				return fmt.Errorf("failed to uninstall daemon: %v", err)
			}

			cmd.Println("successfully uninstalled")
			cmd.Printf("Your config is kept in %s, in case you want to use `calc' again. If you want a complete uninstall, you can remove both config file and calc itself manually.\n", configPath)

			return nil
		},
	}
}

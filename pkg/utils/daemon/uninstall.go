package daemon

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

func Uninstall() error {
	logrus.Infof("stopping calc daemon")

	unitPath, err := UnitPath()
	if err != nil {
		return err
	}

	// if the file doesn't exist, there is nothing to stop
	_, err = os.Stat(unitPath)
	if err != nil {
		if os.IsNotExist(err) {
			logrus.Infof("%s does not exist, nothing to uninstall", unitPath)
			return nil
		}
		return fmt.Errorf("failed to stat %s: %w", unitPath, err)
	}

	if err := systemctl("disable", "--now", unitName); err != nil {
		return err
	}

	logrus.Infof("removing user unit")

	err = os.Remove(unitPath)
	if err != nil {
		return fmt.Errorf("failed to remove %s: %w", unitPath, err)
	}

	return systemctl("daemon-reload")
}

package main

import (
	"io"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"

	"github.com/charlie0129/calc/pkg/client"
	"github.com/charlie0129/calc/pkg/config"
)

func newClient() *client.Client {
	return client.NewClient(unixSocketPath)
}

func openConfig() (config.Config, error) {
	return config.Open(configPath)
}

// closeConfig releases stores that hold the config file open.
func closeConfig(conf config.Config) {
	c, ok := conf.(io.Closer)
	if !ok {
		return
	}
	if err := c.Close(); err != nil {
		logrus.Warnf("failed to close config: %v", err)
	}
}

func bold(format string, a ...interface{}) string {
	return color.New(color.Bold).Sprintf(format, a...)
}

package config

import (
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

type Config interface {
	Theme() Theme
	AllowNonRootAccess() bool

	SetTheme(Theme)
	SetAllowNonRootAccess(bool)

	// Load reads the configuration from the source.
	Load() error
	// Save saves the configuration to the source.
	Save() error

	LogrusFields() logrus.Fields
}

// Open returns the Config stored at path. Paths ending in .db or .bolt are
// bbolt databases, everything else is a JSON or YAML file.
func Open(path string) (Config, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".bolt":
		return NewBolt(path)
	}
	return NewFile(path)
}

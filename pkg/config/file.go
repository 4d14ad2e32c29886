package config

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/charlie0129/calc/pkg/utils/ptr"
)

var (
	defaultFileConfig = &RawFileConfig{
		Theme:              ptr.To(DefaultTheme),
		AllowNonRootAccess: ptr.To(false),
	}
)

var _ Config = &File{}

// File is a Config kept in a JSON file, or a YAML file when the path ends
// in .yaml or .yml.
type File struct {
	c        *RawFileConfig
	mu       *sync.RWMutex
	filepath string
}

func NewFile(configPath string) (*File, error) {
	f := &File{
		filepath: configPath,
		mu:       &sync.RWMutex{},
	}
	err := f.Load()
	if err != nil {
		return nil, err
	}

	return f, nil
}

func NewFileFromConfig(c *RawFileConfig, configPath string) *File {
	if c == nil {
		defaults := *defaultFileConfig
		c = &defaults
	}

	f := &File{
		c:        c,
		mu:       &sync.RWMutex{},
		filepath: configPath,
	}

	return f
}

type RawFileConfig struct {
	Theme              *Theme `json:"theme,omitempty" yaml:"theme,omitempty"`
	AllowNonRootAccess *bool  `json:"allowNonRootAccess,omitempty" yaml:"allowNonRootAccess,omitempty"`
}

func NewRawFileConfigFromConfig(c Config) (*RawFileConfig, error) {
	if c == nil {
		return nil, pkgerrors.New("config is nil")
	}

	rawConfig := &RawFileConfig{
		Theme:              ptr.To(c.Theme()),
		AllowNonRootAccess: ptr.To(c.AllowNonRootAccess()),
	}

	return rawConfig, nil
}

// raw returns the loaded settings. Using a File whose Load failed is a
// programming error.
func (f *File) raw() *RawFileConfig {
	if f.c == nil {
		panic("config is nil")
	}
	return f.c
}

func (f *File) Theme() Theme {
	f.mu.RLock()
	defer f.mu.RUnlock()

	theme, err := ParseTheme(string(ptr.Deref(f.raw().Theme, *defaultFileConfig.Theme)))
	if err != nil {
		// A hand-edited file may carry a theme we no longer know about.
		return DefaultTheme
	}
	return theme
}

func (f *File) AllowNonRootAccess() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return ptr.Deref(f.raw().AllowNonRootAccess, *defaultFileConfig.AllowNonRootAccess)
}

func (f *File) SetTheme(t Theme) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.raw().Theme = &t
}

func (f *File) SetAllowNonRootAccess(b bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.raw().AllowNonRootAccess = &b
}

// fileFormat is the encoding of a config file, picked by its extension.
type fileFormat int

const (
	formatJSON fileFormat = iota
	formatYAML
)

func formatOf(path string) fileFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return formatYAML
	}
	return formatJSON
}

func (ff fileFormat) unmarshal(b []byte, c *RawFileConfig) error {
	if ff == formatYAML {
		return yaml.Unmarshal(b, c)
	}
	return json.Unmarshal(b, c)
}

func (ff fileFormat) encode(w io.Writer, c *RawFileConfig) error {
	if ff == formatYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(c); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}

// Load reads the file again. A missing or blank file means defaults.
func (f *File) Load() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, err := os.ReadFile(f.filepath)
	if err != nil && !os.IsNotExist(err) {
		return pkgerrors.Wrapf(err, "failed to read file %s", f.filepath)
	}

	conf := RawFileConfig{}
	if len(bytes.TrimSpace(b)) > 0 {
		if err := formatOf(f.filepath).unmarshal(b, &conf); err != nil {
			return pkgerrors.Wrapf(err, "failed to unmarshal config from file %s", f.filepath)
		}
	}
	f.c = &conf

	return nil
}

// Save writes the file through a temporary file in the same directory, so
// readers never see a half-written config.
func (f *File) Save() error {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.c == nil {
		return pkgerrors.New("config is nil")
	}

	dir := filepath.Dir(f.filepath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return pkgerrors.Wrapf(err, "failed to create directory %s", dir)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.filepath)+".*")
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to create temporary file in %s", dir)
	}
	defer func() {
		// no-op once renamed
		_ = os.Remove(tmp.Name())
	}()

	if err := formatOf(f.filepath).encode(tmp, f.c); err != nil {
		_ = tmp.Close()
		return pkgerrors.Wrapf(err, "failed to encode config to file %s", f.filepath)
	}
	if err := tmp.Close(); err != nil {
		return pkgerrors.Wrapf(err, "failed to write %s", tmp.Name())
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		logrus.Warnf("failed to chmod %s: %v", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), f.filepath); err != nil {
		return pkgerrors.Wrapf(err, "failed to replace %s", f.filepath)
	}

	return nil
}

func (f *File) LogrusFields() logrus.Fields {
	return logrus.Fields{
		"path":               f.filepath,
		"theme":              f.Theme(),
		"allowNonRootAccess": f.AllowNonRootAccess(),
	}
}

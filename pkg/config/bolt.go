package config

import (
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	bolt "go.etcd.io/bbolt"
)

const (
	bucketPreferences = "preferences"

	keyTheme              = "calculator-theme"
	keyAllowNonRootAccess = "allow-non-root-access"
)

var _ Config = &Bolt{}

// Bolt is a Config kept in a bbolt database, one key per preference.
type Bolt struct {
	db *bolt.DB
	mu sync.RWMutex

	theme              Theme
	allowNonRootAccess bool
}

// NewBolt opens (creating if needed) the database at path and loads the
// stored preferences.
func NewBolt(path string) (*Bolt, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to create directory for %s", path)
	}

	db, err := bolt.Open(path, 0644, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to open database %s", path)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketPreferences))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, pkgerrors.Wrapf(err, "failed to initialize database %s", path)
	}

	b := &Bolt{db: db}
	if err := b.Load(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return b, nil
}

func (b *Bolt) Theme() Theme {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.theme
}

func (b *Bolt) AllowNonRootAccess() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.allowNonRootAccess
}

func (b *Bolt) SetTheme(t Theme) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.theme = t
}

func (b *Bolt) SetAllowNonRootAccess(v bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.allowNonRootAccess = v
}

func (b *Bolt) Load() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.theme = DefaultTheme
	b.allowNonRootAccess = false

	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketPreferences))

		if v := bucket.Get([]byte(keyTheme)); v != nil {
			t, err := ParseTheme(string(v))
			if err != nil {
				logrus.Warnf("ignoring stored theme: %v", err)
			} else {
				b.theme = t
			}
		}

		if v := bucket.Get([]byte(keyAllowNonRootAccess)); v != nil {
			allow, err := strconv.ParseBool(string(v))
			if err != nil {
				return pkgerrors.Wrapf(err, "invalid value for %s", keyAllowNonRootAccess)
			}
			b.allowNonRootAccess = allow
		}
		return nil
	})
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to read preferences from %s", b.db.Path())
	}

	return nil
}

func (b *Bolt) Save() error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketPreferences))
		if err := bucket.Put([]byte(keyTheme), []byte(b.theme)); err != nil {
			return err
		}
		return bucket.Put([]byte(keyAllowNonRootAccess), []byte(strconv.FormatBool(b.allowNonRootAccess)))
	})
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to write preferences to %s", b.db.Path())
	}

	return nil
}

// Close releases the database file lock.
func (b *Bolt) Close() error {
	return b.db.Close()
}

func (b *Bolt) LogrusFields() logrus.Fields {
	return logrus.Fields{
		"theme":              b.Theme(),
		"allowNonRootAccess": b.AllowNonRootAccess(),
		"database":           b.db.Path(),
	}
}

// Package kv implements the durable key-value store that holds forge's
// records: the asset list, the category list, and two scalar preferences.
//
// Values are opaque strings; encoding is the caller's concern. Every backend
// replaces a value atomically, so a reader never observes a partial write.
package kv

import (
	"context"
	"fmt"
	"regexp"

	"github.com/mesh-intelligence/forge/internal/logging"
	"github.com/mesh-intelligence/forge/pkg/types"
)

// Store reads and writes named string records.
type Store interface {
	// Load returns the value stored under key. ok is false when the key has
	// never been written.
	Load(ctx context.Context, key string) (value string, ok bool, err error)

	// Save replaces the value stored under key.
	Save(ctx context.Context, key, value string) error

	// Close releases backend resources. Idempotent. After Close, Load and
	// Save return types.ErrStoreClosed.
	Close() error
}

// validKey restricts keys to names that are safe as file names and SQL values.
var validKey = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// checkKey returns types.ErrInvalidID when key is not usable.
func checkKey(key string) error {
	if !validKey.MatchString(key) {
		return fmt.Errorf("%w: record key %q", types.ErrInvalidID, key)
	}
	return nil
}

// Open validates cfg and returns the store for its backend. DataDir is
// created for the file and sqlite backends when missing.
func Open(ctx context.Context, cfg types.Config) (Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logging.Debugf("kv: opening %s backend (data dir %q)", cfg.Backend, cfg.DataDir)

	switch cfg.Backend {
	case types.BackendMemory:
		return NewMemory(), nil
	case types.BackendFile:
		return OpenFile(cfg.DataDir)
	default:
		return OpenSQL(ctx, cfg)
	}
}

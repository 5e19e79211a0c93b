// Package kvstore provides the key-value storage used for per-session preferences.
package kvstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonathan/distro-catalog/internal/config"
	"github.com/jonathan/distro-catalog/internal/db"
	"github.com/jonathan/distro-catalog/internal/logging"
)

// Store is a byte-oriented key-value store.
type Store interface {
	// Get returns the value for key and whether it exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set creates or replaces the value for key.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases the backend connection.
	Close() error
}

// ErrUnknownBackend is returned by Open for an unrecognized backend name.
var ErrUnknownBackend = errors.New("unknown store backend")

// Open connects to the backend named in cfg and applies the key prefix.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	var (
		store Store
		err   error
	)

	switch cfg.Backend {
	case config.BackendMemory, "":
		store = NewMemory()
	case config.BackendRedis:
		store, err = NewRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	case config.BackendPostgres:
		store, err = openPostgres(ctx, cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
	if err != nil {
		return nil, err
	}

	logging.Info().Str("backend", cfg.Backend).Str("prefix", cfg.KeyPrefix).Msg("preference store ready")
	return WithPrefix(store, cfg.KeyPrefix), nil
}

func openPostgres(ctx context.Context, databaseURL string) (Store, error) {
	conn, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	if err := conn.EnsureSchema(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	return postgresStore{conn}, nil
}

// postgresStore adapts db.DB, whose Close returns nothing, to Store.
type postgresStore struct {
	*db.DB
}

func (p postgresStore) Close() error {
	p.DB.Close()
	return nil
}

type prefixed struct {
	inner  Store
	prefix string
}

// WithPrefix namespaces every key with prefix. An empty prefix returns s unchanged.
func WithPrefix(s Store, prefix string) Store {
	if prefix == "" {
		return s
	}
	return &prefixed{inner: s, prefix: prefix}
}

func (p *prefixed) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return p.inner.Get(ctx, p.prefix+key)
}

func (p *prefixed) Set(ctx context.Context, key string, value []byte) error {
	return p.inner.Set(ctx, p.prefix+key, value)
}

func (p *prefixed) Delete(ctx context.Context, key string) error {
	return p.inner.Delete(ctx, p.prefix+key)
}

func (p *prefixed) Close() error {
	return p.inner.Close()
}

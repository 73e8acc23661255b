package storage

import (
	"fmt"
	"strings"
	"time"
)

// Package storage remembers which gallery digests have already been published.
// Fetched results are never read back from here.

// Store tracks published gallery digests.
type Store interface {
	Close() error
	SeenDigest(digest string) (bool, error)
	MarkDigest(digest string) error
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	DigestTTL       time.Duration
	CleanupInterval time.Duration
}

const (
	defaultDigestTTL       = 24 * time.Hour
	defaultCleanupInterval = time.Hour
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return noopStore{}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		store, err := openBolt(path, opts)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.DigestTTL <= 0 {
		opts.DigestTTL = defaultDigestTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

type noopStore struct{}

func (noopStore) Close() error                    { return nil }
func (noopStore) SeenDigest(string) (bool, error) { return false, nil }
func (noopStore) MarkDigest(string) error         { return nil }

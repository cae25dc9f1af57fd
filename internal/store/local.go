package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Local is the last-resort tier: one JSON file per key under a data
// directory, written atomically via a temp file. It is constructed with an
// availability flag: when the deployment has no writable local scope the tier
// degrades to a no-op that reports every key as absent, so reads fall back to
// the caller default without error.
type Local struct {
	dir       string
	available bool
	mu        sync.RWMutex
}

var _ Backend = (*Local)(nil)

// NewLocal creates a Local backend rooted at dir. When available is false all
// operations short-circuit.
func NewLocal(dir string, available bool) *Local {
	return &Local{dir: dir, available: available}
}

func (l *Local) Name() string { return "local" }

// Available reports whether the tier actually persists anything.
func (l *Local) Available() bool { return l.available }

func (l *Local) Ping(ctx context.Context) error {
	if !l.available {
		return nil // intentionally healthy: the no-op tier never fails
	}
	return os.MkdirAll(l.dir, 0o755)
}

func (l *Local) path(key string) string {
	// Keys use ':' separators which are valid in file names; nothing else
	// to sanitize since keys never contain path separators.
	return filepath.Join(l.dir, key+".json")
}

func (l *Local) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	if !l.available {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return err
	}

	path := l.path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, value, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func (l *Local) Get(_ context.Context, key string) ([]byte, error) {
	if !l.available {
		return nil, ErrNotFound
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	data, err := os.ReadFile(l.path(key))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (l *Local) Delete(_ context.Context, key string) error {
	if !l.available {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	err := os.Remove(l.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (l *Local) Exists(ctx context.Context, key string) (bool, error) {
	_, err := l.Get(ctx, key)
	if err == ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (l *Local) Keys(_ context.Context, prefix string) ([]string, error) {
	if !l.available {
		return nil, nil
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	entries, err := os.ReadDir(l.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var keys []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		key := strings.TrimSuffix(name, ".json")
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

// Expire is accepted but not enforced: the local tier keeps no expiry
// metadata, matching its best-effort role.
func (l *Local) Expire(_ context.Context, _ string, _ time.Duration) error {
	return nil
}

func (l *Local) TTL(ctx context.Context, key string) (time.Duration, error) {
	if !l.available {
		return 0, ErrNotFound
	}
	exists, err := l.Exists(ctx, key)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, ErrNotFound
	}
	return TTLNone, nil
}

func (l *Local) IncrBy(ctx context.Context, key string, amount int64) (int64, error) {
	if !l.available {
		return amount, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	var current int64
	data, err := os.ReadFile(l.path(key))
	if err == nil {
		var parsed json.Number
		if jsonErr := json.Unmarshal(data, &parsed); jsonErr == nil {
			current, _ = strconv.ParseInt(parsed.String(), 10, 64)
		}
	} else if !os.IsNotExist(err) {
		return 0, err
	}

	next := current + amount
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return 0, err
	}
	path := l.path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(strconv.FormatInt(next, 10)), 0o644); err != nil {
		return 0, err
	}
	return next, os.Rename(tmp, path)
}

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/solo-life/service_layer/internal/errors"
	"github.com/solo-life/service_layer/internal/logging"
	"github.com/solo-life/service_layer/internal/metrics"
)

// BackupPrefix namespaces snapshot keys so they can be listed and excluded
// from later snapshots.
const BackupPrefix = "backup:"

// backupTimestampLayout mirrors an RFC 3339 timestamp with ':' and '.'
// flattened so the ID stays a single key segment.
const backupTimestampLayout = "2006-01-02T15-04-05"

// Config configures the tiered adapter.
type Config struct {
	// Namespace prefixes every key, isolating this application's keys in a
	// shared store.
	Namespace string

	// DefaultTTL, when positive, is applied to every write.
	DefaultTTL time.Duration
}

type tier struct {
	backend   Backend
	available bool
}

// Tiered is the durable store adapter: an ordered chain of backends tried in
// sequence with catch-and-continue semantics. Each backend is health-checked
// once at construction and the result cached for the adapter's lifetime; a
// tier that fails its check is skipped without retry. A tier that fails a
// single operation is logged and the operation retried transparently against
// the next tier, so persistence failures never surface to entity
// repositories; reads degrade to the caller-supplied default.
type Tiered struct {
	cfg     Config
	tiers   []tier
	logger  *logging.Logger
	metrics *metrics.Metrics
}

// NewTiered builds the adapter over backends in priority order, pinging each
// once. metrics may be nil.
func NewTiered(ctx context.Context, cfg Config, logger *logging.Logger, m *metrics.Metrics, backends ...Backend) *Tiered {
	t := &Tiered{cfg: cfg, logger: logger, metrics: m}

	for _, backend := range backends {
		available := true
		if err := backend.Ping(ctx); err != nil {
			available = false
			logger.WithError(err).WithFields(map[string]interface{}{
				"backend": backend.Name(),
			}).Warn("store tier unavailable, skipping for adapter lifetime")
		} else {
			logger.WithFields(map[string]interface{}{
				"backend": backend.Name(),
			}).Info("store tier connected")
		}
		t.tiers = append(t.tiers, tier{backend: backend, available: available})
	}
	return t
}

// TierAvailable reports the cached health-check result for the named tier.
func (t *Tiered) TierAvailable(name string) bool {
	for _, tr := range t.tiers {
		if tr.backend.Name() == name {
			return tr.available
		}
	}
	return false
}

func (t *Tiered) key(k string) string {
	return t.cfg.Namespace + ":" + k
}

func (t *Tiered) stripNamespace(k string) string {
	return strings.TrimPrefix(k, t.cfg.Namespace+":")
}

func (t *Tiered) recordOp(backend, op string, err error) {
	if t.metrics == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	t.metrics.RecordStoreOp(backend, op, outcome)
}

// eachTier runs fn against every available tier in order until one succeeds.
// Intermediate failures are logged and counted, never propagated; the final
// tier's error is returned when no tier succeeds.
func (t *Tiered) eachTier(op, key string, fn func(Backend) error) error {
	var lastErr error
	attempted := false

	for _, tr := range t.tiers {
		if !tr.available {
			continue
		}
		attempted = true

		err := fn(tr.backend)
		t.recordOp(tr.backend.Name(), op, err)
		if err == nil {
			return nil
		}

		lastErr = err
		if t.metrics != nil {
			t.metrics.RecordStoreFallback(tr.backend.Name(), op)
		}
		t.logger.WithError(err).WithFields(map[string]interface{}{
			"backend":   tr.backend.Name(),
			"operation": op,
			"key":       key,
		}).Warn("store tier failed, trying next")
	}

	if !attempted {
		return errors.TransientStore("no store tier available", nil)
	}
	return errors.TransientStore(fmt.Sprintf("all store tiers failed for %s", op), lastErr)
}

// Write serializes value as JSON and stores it under the namespaced key in
// the first tier that accepts it.
func (t *Tiered) Write(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return errors.Serialization(fmt.Sprintf("marshal %s", key), err)
	}
	return t.writeRaw(ctx, key, data)
}

func (t *Tiered) writeRaw(ctx context.Context, key string, data []byte) error {
	nsKey := t.key(key)
	return t.eachTier("write", key, func(b Backend) error {
		return b.Set(ctx, nsKey, data, t.cfg.DefaultTTL)
	})
}

// Read loads the value stored under key into out. When the key is absent, the
// stored payload is corrupt, or every tier fails, out is left untouched (the
// caller's default) and found is false; store failures never surface as
// errors. The returned error is reserved for invalid arguments.
func (t *Tiered) Read(ctx context.Context, key string, out interface{}) (found bool, err error) {
	if out == nil {
		return false, errors.Validation("read target must not be nil")
	}

	data, ok := t.readRaw(ctx, key)
	if !ok {
		return false, nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		// Corrupt payload: treated as not found, logged once.
		t.logger.WithError(err).WithFields(map[string]interface{}{
			"key": key,
		}).Error("corrupt payload, returning default")
		return false, nil
	}
	return true, nil
}

func (t *Tiered) readRaw(ctx context.Context, key string) ([]byte, bool) {
	nsKey := t.key(key)
	var data []byte
	missing := false

	err := t.eachTier("read", key, func(b Backend) error {
		value, err := b.Get(ctx, nsKey)
		if err == ErrNotFound {
			// The tier answered authoritatively: stop the chain.
			missing = true
			return nil
		}
		if err != nil {
			return err
		}
		data = value
		return nil
	})
	if err != nil || missing {
		return nil, false
	}
	return data, true
}

// Delete removes the key from the first tier that accepts the operation.
func (t *Tiered) Delete(ctx context.Context, key string) error {
	nsKey := t.key(key)
	return t.eachTier("delete", key, func(b Backend) error {
		return b.Delete(ctx, nsKey)
	})
}

// Exists reports whether the key is present, degrading to false when every
// tier fails.
func (t *Tiered) Exists(ctx context.Context, key string) bool {
	nsKey := t.key(key)
	exists := false
	err := t.eachTier("exists", key, func(b Backend) error {
		found, err := b.Exists(ctx, nsKey)
		if err != nil {
			return err
		}
		exists = found
		return nil
	})
	return err == nil && exists
}

// ListKeys returns every key under the adapter's namespace starting with
// scope, namespace stripped. Failures degrade to an empty list.
func (t *Tiered) ListKeys(ctx context.Context, scope string) []string {
	prefix := t.key(scope)
	var keys []string

	err := t.eachTier("list", scope, func(b Backend) error {
		raw, err := b.Keys(ctx, prefix)
		if err != nil {
			return err
		}
		keys = raw
		return nil
	})
	if err != nil {
		return nil
	}

	stripped := make([]string, 0, len(keys))
	for _, k := range keys {
		stripped = append(stripped, t.stripNamespace(k))
	}
	return stripped
}

// SetTTL sets an expiry on an existing key.
func (t *Tiered) SetTTL(ctx context.Context, key string, seconds int64) error {
	nsKey := t.key(key)
	ttl := time.Duration(seconds) * time.Second
	return t.eachTier("expire", key, func(b Backend) error {
		return b.Expire(ctx, nsKey, ttl)
	})
}

// GetTTL returns the remaining lifetime of key in seconds, or -1 when the key
// has no expiry, is absent, or the lookup fails.
func (t *Tiered) GetTTL(ctx context.Context, key string) int64 {
	nsKey := t.key(key)
	result := int64(-1)

	_ = t.eachTier("ttl", key, func(b Backend) error {
		d, err := b.TTL(ctx, nsKey)
		if err == ErrNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		if d == TTLNone {
			return nil
		}
		result = int64(d.Seconds())
		return nil
	})
	return result
}

// Increment atomically adds amount to the counter stored under key. Atomicity
// holds at the tier that serves the call; it is best-effort across tiers.
func (t *Tiered) Increment(ctx context.Context, key string, amount int64) (int64, error) {
	nsKey := t.key(key)
	var value int64
	err := t.eachTier("incr", key, func(b Backend) error {
		v, err := b.IncrBy(ctx, nsKey, amount)
		if err != nil {
			return err
		}
		value = v
		return nil
	})
	return value, err
}

// Decrement atomically subtracts amount from the counter stored under key.
func (t *Tiered) Decrement(ctx context.Context, key string, amount int64) (int64, error) {
	return t.Increment(ctx, key, -amount)
}

// CreateBackup snapshots every key under the namespace (prior snapshots
// excluded) into one composite value stored under a timestamped key and
// returns the snapshot identifier. The capture is sequential, not atomic: a
// write racing the snapshot may or may not be included, acceptable under the
// single-writer model.
func (t *Tiered) CreateBackup(ctx context.Context) (string, error) {
	backupID := BackupPrefix + time.Now().UTC().Format(backupTimestampLayout)

	snapshot := make(map[string]json.RawMessage)
	for _, key := range t.ListKeys(ctx, "") {
		if strings.HasPrefix(key, BackupPrefix) {
			continue
		}
		if data, ok := t.readRaw(ctx, key); ok {
			snapshot[key] = json.RawMessage(data)
		}
	}

	if err := t.Write(ctx, backupID, snapshot); err != nil {
		return "", err
	}

	t.logger.WithFields(map[string]interface{}{
		"backup": backupID,
		"keys":   len(snapshot),
	}).Info("backup created")
	return backupID, nil
}

// RestoreFromBackup writes every key captured in the snapshot back into the
// store.
func (t *Tiered) RestoreFromBackup(ctx context.Context, backupID string) error {
	var snapshot map[string]json.RawMessage
	found, err := t.Read(ctx, backupID, &snapshot)
	if err != nil {
		return err
	}
	if !found {
		return errors.BackupNotFound(backupID)
	}

	for key, data := range snapshot {
		if err := t.writeRaw(ctx, key, data); err != nil {
			return fmt.Errorf("restore %s: %w", key, err)
		}
	}

	t.logger.WithFields(map[string]interface{}{
		"backup": backupID,
		"keys":   len(snapshot),
	}).Info("backup restored")
	return nil
}

// ListBackups returns the identifiers of all stored snapshots.
func (t *Tiered) ListBackups(ctx context.Context) []string {
	return t.ListKeys(ctx, BackupPrefix)
}

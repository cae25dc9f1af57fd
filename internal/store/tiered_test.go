package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solo-life/service_layer/internal/errors"
	"github.com/solo-life/service_layer/internal/logging"
)

// failing is a backend whose health check passes but whose every operation
// errors, simulating a primary store that degrades after startup.
type failing struct{}

var errDown = fmt.Errorf("backend down")

func (f *failing) Name() string                                             { return "failing" }
func (f *failing) Ping(context.Context) error                               { return nil }
func (f *failing) Set(context.Context, string, []byte, time.Duration) error { return errDown }
func (f *failing) Get(context.Context, string) ([]byte, error)              { return nil, errDown }
func (f *failing) Delete(context.Context, string) error                     { return errDown }
func (f *failing) Exists(context.Context, string) (bool, error)             { return false, errDown }
func (f *failing) Keys(context.Context, string) ([]string, error)           { return nil, errDown }
func (f *failing) Expire(context.Context, string, time.Duration) error      { return errDown }
func (f *failing) TTL(context.Context, string) (time.Duration, error)       { return 0, errDown }
func (f *failing) IncrBy(context.Context, string, int64) (int64, error)     { return 0, errDown }

// unreachable is a backend whose health check fails at construction.
type unreachable struct{ failing }

func (u *unreachable) Name() string               { return "unreachable" }
func (u *unreachable) Ping(context.Context) error { return errDown }

func testLogger() *logging.Logger {
	return logging.New("store-test", "error", "text")
}

func newTestAdapter(t *testing.T, backends ...Backend) *Tiered {
	t.Helper()
	return NewTiered(context.Background(), Config{Namespace: "solo-life"}, testLogger(), nil, backends...)
}

func TestTieredWriteRead(t *testing.T) {
	adapter := newTestAdapter(t, NewMemory())
	ctx := context.Background()

	type payload struct {
		Name  string `json:"name"`
		Level int    `json:"level"`
	}

	require.NoError(t, adapter.Write(ctx, "user:u1:player", payload{Name: "Jin", Level: 3}))

	var got payload
	found, err := adapter.Read(ctx, "user:u1:player", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, payload{Name: "Jin", Level: 3}, got)
}

func TestTieredReadDefault(t *testing.T) {
	adapter := newTestAdapter(t, NewMemory())

	got := []string{"default"}
	found, err := adapter.Read(context.Background(), "missing", &got)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, []string{"default"}, got, "caller default untouched on miss")
}

func TestTieredFallbackTransparency(t *testing.T) {
	// Primary fails every call after a healthy ping; the fallback tier
	// serves reads and writes and the caller never sees an error.
	fallback := NewMemory()
	adapter := newTestAdapter(t, &failing{}, fallback)
	ctx := context.Background()

	require.NoError(t, adapter.Write(ctx, "habits", []string{"read", "run"}))

	var got []string
	found, err := adapter.Read(ctx, "habits", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"read", "run"}, got)
}

func TestTieredUnavailablePrimarySkipped(t *testing.T) {
	// A tier that fails its construction-time health check is never
	// consulted again.
	adapter := newTestAdapter(t, &unreachable{}, NewMemory())

	assert.False(t, adapter.TierAvailable("unreachable"))
	assert.True(t, adapter.TierAvailable("memory"))

	require.NoError(t, adapter.Write(context.Background(), "k", "v"))
}

func TestTieredAllTiersFailed(t *testing.T) {
	adapter := newTestAdapter(t, &failing{})
	err := adapter.Write(context.Background(), "k", "v")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeTransientStore))

	// Reads still degrade to the default without error.
	got := "default"
	found, err := adapter.Read(context.Background(), "k", &got)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, "default", got)
}

func TestTieredCorruptPayload(t *testing.T) {
	backend := NewMemory()
	adapter := newTestAdapter(t, backend)
	ctx := context.Background()

	require.NoError(t, backend.Set(ctx, "solo-life:player", []byte("{not json"), 0))

	got := map[string]int{"fallback": 1}
	found, err := adapter.Read(ctx, "player", &got)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, map[string]int{"fallback": 1}, got)
}

func TestTieredNamespacing(t *testing.T) {
	backend := NewMemory()
	adapter := newTestAdapter(t, backend)
	ctx := context.Background()

	require.NoError(t, adapter.Write(ctx, "user:u1:habits", []int{1}))

	keys, err := backend.Keys(ctx, "solo-life:")
	require.NoError(t, err)
	assert.Equal(t, []string{"solo-life:user:u1:habits"}, keys)

	assert.Equal(t, []string{"user:u1:habits"}, adapter.ListKeys(ctx, "user:u1:"))
}

func TestTieredDeleteExists(t *testing.T) {
	adapter := newTestAdapter(t, NewMemory())
	ctx := context.Background()

	require.NoError(t, adapter.Write(ctx, "k", 1))
	assert.True(t, adapter.Exists(ctx, "k"))

	require.NoError(t, adapter.Delete(ctx, "k"))
	assert.False(t, adapter.Exists(ctx, "k"))

	// Deleting an absent key is not an error.
	require.NoError(t, adapter.Delete(ctx, "k"))
}

func TestTieredTTL(t *testing.T) {
	adapter := newTestAdapter(t, NewMemory())
	ctx := context.Background()

	require.NoError(t, adapter.Write(ctx, "session", "data"))
	assert.Equal(t, int64(-1), adapter.GetTTL(ctx, "session"), "no expiry")

	require.NoError(t, adapter.SetTTL(ctx, "session", 3600))
	ttl := adapter.GetTTL(ctx, "session")
	assert.Greater(t, ttl, int64(3500))
	assert.LessOrEqual(t, ttl, int64(3600))

	assert.Equal(t, int64(-1), adapter.GetTTL(ctx, "missing"))
}

func TestTieredCounters(t *testing.T) {
	adapter := newTestAdapter(t, NewMemory())
	ctx := context.Background()

	v, err := adapter.Increment(ctx, "counter", 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), v)

	v, err = adapter.Decrement(ctx, "counter", 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), v)
}

func TestTieredBackupRestore(t *testing.T) {
	adapter := newTestAdapter(t, NewMemory())
	ctx := context.Background()

	require.NoError(t, adapter.Write(ctx, "user:u1:player", map[string]int{"level": 4}))
	require.NoError(t, adapter.Write(ctx, "user:u1:habits", []string{"read"}))

	backupID, err := adapter.CreateBackup(ctx)
	require.NoError(t, err)
	assert.Contains(t, adapter.ListBackups(ctx), backupID)

	// Wipe and restore.
	require.NoError(t, adapter.Delete(ctx, "user:u1:player"))
	require.NoError(t, adapter.Delete(ctx, "user:u1:habits"))

	require.NoError(t, adapter.RestoreFromBackup(ctx, backupID))

	var player map[string]int
	found, err := adapter.Read(ctx, "user:u1:player", &player)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, map[string]int{"level": 4}, player)
}

func TestTieredBackupExcludesPriorSnapshots(t *testing.T) {
	adapter := newTestAdapter(t, NewMemory())
	ctx := context.Background()

	require.NoError(t, adapter.Write(ctx, "k", 1))

	_, err := adapter.CreateBackup(ctx)
	require.NoError(t, err)

	// The second snapshot must capture data keys only, not the first
	// snapshot.
	second, err := adapter.CreateBackup(ctx)
	require.NoError(t, err)

	var snapshot map[string]interface{}
	found, err := adapter.Read(ctx, second, &snapshot)
	require.NoError(t, err)
	require.True(t, found)
	assert.Contains(t, snapshot, "k")
	for key := range snapshot {
		assert.NotContains(t, key, BackupPrefix)
	}
}

func TestTieredRestoreMissingBackup(t *testing.T) {
	adapter := newTestAdapter(t, NewMemory())
	err := adapter.RestoreFromBackup(context.Background(), "backup:2024-01-01T00-00-00")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeBackupNotFound))
}

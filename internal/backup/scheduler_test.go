package backup

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solo-life/service_layer/internal/logging"
	"github.com/solo-life/service_layer/internal/store"
)

func newTestKV(t *testing.T) *store.Tiered {
	t.Helper()
	return store.NewTiered(
		context.Background(),
		store.Config{Namespace: "solo-life"},
		logging.New("backup-test", "error", "text"),
		nil,
		store.NewMemory(),
	)
}

func TestRunCreatesBackup(t *testing.T) {
	kv := newTestKV(t)
	ctx := context.Background()
	require.NoError(t, kv.Write(ctx, "user:u1:habits", []string{"h1"}))

	s := New(kv, logging.New("backup-test", "error", "text"), "0 3 * * *", 0)
	s.Run(ctx)

	assert.Len(t, kv.ListBackups(ctx), 1)
}

func TestRunPrunesOldBackups(t *testing.T) {
	kv := newTestKV(t)
	ctx := context.Background()
	require.NoError(t, kv.Write(ctx, "user:u1:habits", []string{"h1"}))

	s := New(kv, logging.New("backup-test", "error", "text"), "0 3 * * *", 2)
	for i := 0; i < 3; i++ {
		s.Run(ctx)
		time.Sleep(1100 * time.Millisecond)
	}

	assert.Len(t, kv.ListBackups(ctx), 2)
}

func TestStartRejectsBadSchedule(t *testing.T) {
	s := New(newTestKV(t), logging.New("backup-test", "error", "text"), "not a schedule", 0)
	assert.Error(t, s.Start())
}

func TestStartAndStop(t *testing.T) {
	s := New(newTestKV(t), logging.New("backup-test", "error", "text"), "0 3 * * *", 0)
	require.NoError(t, s.Start())
	s.Stop()
}

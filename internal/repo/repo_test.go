package repo

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solo-life/service_layer/internal/domain"
	"github.com/solo-life/service_layer/internal/errors"
	"github.com/solo-life/service_layer/internal/logging"
	"github.com/solo-life/service_layer/internal/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	kv := store.NewTiered(
		context.Background(),
		store.Config{Namespace: "solo-life"},
		logging.New("repo-test", "error", "text"),
		nil,
		store.NewMemory(),
	)
	return New(kv)
}

func testUser(id, email string) *domain.User {
	return &domain.User{
		ID:        id,
		Email:     email,
		Name:      "Hunter",
		CreatedAt: time.Now().UTC(),
		IsActive:  true,
	}
}

func TestUsersCreateAndFindByEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Users.Create(ctx, testUser("u1", "hunter@example.com")))

	got, err := s.Users.FindByEmail(ctx, "Hunter@Example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)
}

func TestUsersCreateDuplicateEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Users.Create(ctx, testUser("u1", "hunter@example.com")))

	err := s.Users.Create(ctx, testUser("u2", "hunter@example.com"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeAlreadyExists))
}

func TestUsersGetMissing(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Users.Get(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeNotFound))
}

func TestUsersDeleteRemovesScope(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Users.Create(ctx, testUser("u1", "hunter@example.com")))
	require.NoError(t, s.Habits().Save(ctx, "u1", []domain.Habit{{ID: "h1", Name: "Read"}}))

	require.NoError(t, s.Users.Delete(ctx, "u1"))

	_, err := s.Users.Get(ctx, "u1")
	assert.True(t, errors.IsCode(err, errors.CodeNotFound))
	_, err = s.Users.FindByEmail(ctx, "hunter@example.com")
	assert.True(t, errors.IsCode(err, errors.CodeNotFound))

	habits, err := s.Habits().Load(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, habits)
}

func TestPlayersDefault(t *testing.T) {
	s := newTestStore(t)

	p, err := s.Players.Load(context.Background(), "u1", "Hunter")
	require.NoError(t, err)
	assert.Equal(t, 1, p.Level)
	assert.Equal(t, "Hunter", p.Name)
	assert.Equal(t, 10, p.Stats.Willpower)
	assert.Equal(t, 0, p.Stats.Wealth)
}

func TestPlayersRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p, err := s.Players.Load(ctx, "u1", "Hunter")
	require.NoError(t, err)
	p.Level = 4
	p.CurrentXP = 120
	require.NoError(t, s.Players.Save(ctx, "u1", p))

	got, err := s.Players.Load(ctx, "u1", "Hunter")
	require.NoError(t, err)
	assert.Equal(t, 4, got.Level)
	assert.Equal(t, 120, got.CurrentXP)
}

func TestCollectionLoadEmpty(t *testing.T) {
	s := newTestStore(t)

	habits, err := s.Habits().Load(context.Background(), "u1")
	require.NoError(t, err)
	assert.NotNil(t, habits)
	assert.Empty(t, habits)
}

func TestCollectionSaveIsolatedPerUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Habits().Save(ctx, "u1", []domain.Habit{{ID: "h1", Name: "Read"}}))
	require.NoError(t, s.Habits().Save(ctx, "u2", []domain.Habit{{ID: "h2", Name: "Run"}}))

	u1, err := s.Habits().Load(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, u1, 1)
	assert.Equal(t, "h1", u1[0].ID)

	u2, err := s.Habits().Load(ctx, "u2")
	require.NoError(t, err)
	require.Len(t, u2, 1)
	assert.Equal(t, "h2", u2[0].ID)
}

func TestValidEntity(t *testing.T) {
	assert.True(t, ValidEntity(EntityHabits))
	assert.True(t, ValidEntity(EntityPlayer))
	assert.False(t, ValidEntity("gold"))
	assert.False(t, ValidEntity(""))
}

func TestUserBackupRestore(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Habits().Save(ctx, "u1", []domain.Habit{{ID: "h1", Name: "Read", Streak: 3}}))
	p, err := s.Players.Load(ctx, "u1", "Hunter")
	require.NoError(t, err)
	require.NoError(t, s.Players.Save(ctx, "u1", p))

	id, err := s.CreateUserBackup(ctx, "u1")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	// Mutate, then restore.
	require.NoError(t, s.Habits().Save(ctx, "u1", nil))
	require.NoError(t, s.RestoreUserBackup(ctx, "u1", id))

	habits, err := s.Habits().Load(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, habits, 1)
	assert.Equal(t, 3, habits[0].Streak)
}

func TestRestoreUnknownBackup(t *testing.T) {
	s := newTestStore(t)

	err := s.RestoreUserBackup(context.Background(), "u1", "2020-01-01T00-00-00")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeBackupNotFound))
}

func TestListUserBackupsNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Habits().Save(ctx, "u1", []domain.Habit{{ID: "h1"}}))

	first, err := s.CreateUserBackup(ctx, "u1")
	require.NoError(t, err)
	time.Sleep(1100 * time.Millisecond)
	second, err := s.CreateUserBackup(ctx, "u1")
	require.NoError(t, err)

	ids := s.ListUserBackups(ctx, "u1")
	require.Len(t, ids, 2)
	assert.Equal(t, second, ids[0])
	assert.Equal(t, first, ids[1])
}

func TestExportImport(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Habits().Save(ctx, "u1", []domain.Habit{{ID: "h1", Name: "Read"}}))

	snap, err := s.ExportUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, SnapshotVersion, snap.Version)
	assert.Contains(t, snap.Entities, EntityHabits)

	require.NoError(t, s.ImportUser(ctx, "u2", snap))
	habits, err := s.Habits().Load(ctx, "u2")
	require.NoError(t, err)
	require.Len(t, habits, 1)
	assert.Equal(t, "Read", habits[0].Name)
}

func TestImportRejectsUnknownEntity(t *testing.T) {
	s := newTestStore(t)

	snap := &Snapshot{
		Version:  SnapshotVersion,
		Entities: map[string]json.RawMessage{"gold": json.RawMessage(`[]`)},
	}
	err := s.ImportUser(context.Background(), "u1", snap)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeValidation))
}

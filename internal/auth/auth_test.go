package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solo-life/service_layer/internal/errors"
	"github.com/solo-life/service_layer/internal/logging"
	"github.com/solo-life/service_layer/internal/repo"
	"github.com/solo-life/service_layer/internal/store"
)

var testSecret = []byte("test-secret-at-least-32-bytes-long!!")

func newTestService(t *testing.T) *Service {
	t.Helper()
	kv := store.NewTiered(
		context.Background(),
		store.Config{Namespace: "solo-life"},
		logging.New("auth-test", "error", "text"),
		nil,
		store.NewMemory(),
	)
	return New(repo.New(kv).Users, testSecret, 0, logging.New("auth-test", "error", "text"))
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	sess, err := svc.Register(ctx, "hunter@example.com", "secret1", "Hunter")
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Token)
	assert.Equal(t, "hunter@example.com", sess.User.Email)
	assert.NotEmpty(t, sess.User.ID)

	login, err := svc.Login(ctx, "hunter@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, sess.User.ID, login.User.ID)
}

func TestRegisterNormalizesEmail(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	sess, err := svc.Register(ctx, "  Hunter@Example.COM ", "secret1", "Hunter")
	require.NoError(t, err)
	assert.Equal(t, "hunter@example.com", sess.User.Email)

	_, err = svc.Login(ctx, "hunter@example.com", "secret1")
	require.NoError(t, err)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "hunter@example.com", "secret1", "Hunter")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "hunter@example.com", "other-pass", "Other")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeAlreadyExists))
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
		userName string
	}{
		{"bad email", "not-an-email", "secret1", "Hunter"},
		{"email with spaces", "a b@example.com", "secret1", "Hunter"},
		{"short password", "hunter@example.com", "12345", "Hunter"},
		{"long password", "hunter@example.com", string(make([]byte, 129)), "Hunter"},
		{"short name", "hunter@example.com", "secret1", "H"},
		{"long name", "hunter@example.com", "secret1", string(make([]rune, 51))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.email, tt.password, tt.userName)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.CodeValidation))
		})
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "hunter@example.com", "secret1", "Hunter")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "hunter@example.com", "wrong")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeUnauthorized))
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Login(context.Background(), "nobody@example.com", "secret1")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeUnauthorized))
}

func TestTokenRoundTrip(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	sess, err := svc.Register(ctx, "hunter@example.com", "secret1", "Hunter")
	require.NoError(t, err)

	claims, err := ParseToken(testSecret, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, sess.User.ID, claims.UserID)
	assert.Equal(t, "hunter@example.com", claims.Email)
	assert.True(t, claims.ExpiresAt.After(time.Now().Add(6*24*time.Hour)))
}

func TestParseTokenWrongSecret(t *testing.T) {
	svc := newTestService(t)

	sess, err := svc.Register(context.Background(), "hunter@example.com", "secret1", "Hunter")
	require.NoError(t, err)

	_, err = ParseToken([]byte("a-completely-different-secret-value"), sess.Token)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeInvalidToken))
}

func TestParseTokenGarbage(t *testing.T) {
	_, err := ParseToken(testSecret, "not.a.token")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeInvalidToken))
}

func TestCurrentUser(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	sess, err := svc.Register(ctx, "hunter@example.com", "secret1", "Hunter")
	require.NoError(t, err)

	user, err := svc.CurrentUser(ctx, sess.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hunter", user.Name)

	_, err = svc.CurrentUser(ctx, "missing")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeNotFound))
}

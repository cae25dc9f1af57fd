package repo

import (
	"context"

	"github.com/solo-life/service_layer/internal/domain"
	"github.com/solo-life/service_layer/internal/errors"
	"github.com/solo-life/service_layer/internal/store"
)

// Users persists auth records and the email lookup index.
type Users struct {
	kv *store.Tiered
}

// Create stores a new user and claims their email in the index. The email
// must not already be registered.
func (r *Users) Create(ctx context.Context, u *domain.User) error {
	if r.kv.Exists(ctx, emailKey(u.Email)) {
		return errors.AlreadyExists("email already registered")
	}
	if err := r.kv.Write(ctx, userKey(u.ID), u); err != nil {
		return err
	}
	return r.kv.Write(ctx, emailKey(u.Email), u.ID)
}

// Get loads a user by ID.
func (r *Users) Get(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	found, err := r.kv.Read(ctx, userKey(id), &u)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.NotFound("user not found")
	}
	return &u, nil
}

// FindByEmail resolves the email index and loads the user.
func (r *Users) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var id string
	found, err := r.kv.Read(ctx, emailKey(email), &id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.NotFound("user not found")
	}
	return r.Get(ctx, id)
}

// Update rewrites an existing user record. The email index is not touched;
// email changes are not supported.
func (r *Users) Update(ctx context.Context, u *domain.User) error {
	return r.kv.Write(ctx, userKey(u.ID), u)
}

// Delete removes the user record, the email index entry, and every key under
// the user's scope, backups included.
func (r *Users) Delete(ctx context.Context, id string) error {
	u, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	for _, key := range r.kv.ListKeys(ctx, userScope(id)) {
		if err := r.kv.Delete(ctx, key); err != nil {
			return err
		}
	}
	if err := r.kv.Delete(ctx, emailKey(u.Email)); err != nil {
		return err
	}
	return r.kv.Delete(ctx, userKey(id))
}

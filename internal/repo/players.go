package repo

import (
	"context"

	"github.com/solo-life/service_layer/internal/domain"
	"github.com/solo-life/service_layer/internal/game"
	"github.com/solo-life/service_layer/internal/store"
)

// Players persists the per-user player snapshot.
type Players struct {
	kv *store.Tiered
}

// Load returns the user's player, or a fresh level-1 player named after name
// when none is stored yet.
func (r *Players) Load(ctx context.Context, userID, name string) (domain.Player, error) {
	var p domain.Player
	found, err := r.kv.Read(ctx, EntityKey(userID, EntityPlayer), &p)
	if err != nil {
		return domain.Player{}, err
	}
	if !found {
		return game.NewPlayer(name), nil
	}
	return p, nil
}

// Save rewrites the user's player snapshot.
func (r *Players) Save(ctx context.Context, userID string, p domain.Player) error {
	return r.kv.Write(ctx, EntityKey(userID, EntityPlayer), p)
}

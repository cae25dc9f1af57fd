// Package repo provides user-scoped persistence for tracker entities on top
// of the tiered store. Every key is scoped as user:<id>:<entity>; entities
// are stored as whole JSON documents, matching the adapter's read/write
// granularity.
package repo

import (
	"github.com/solo-life/service_layer/internal/store"
)

// Entity names double as key suffixes and as the {entity} segment of the
// data API.
const (
	EntityPlayer          = "player"
	EntityHabits          = "habits"
	EntityTransactions    = "transactions"
	EntityFinancialGoals  = "financial-goals"
	EntityInvestments     = "investments"
	EntityAchievements    = "achievements"
	EntityCultureItems    = "culture-items"
	EntityVices           = "vices"
	EntityWorkoutSessions = "workout-sessions"
	EntityWorkoutLogs     = "workout-logs"
	EntityNotifications   = "notifications"
)

var entityNames = []string{
	EntityPlayer,
	EntityHabits,
	EntityTransactions,
	EntityFinancialGoals,
	EntityInvestments,
	EntityAchievements,
	EntityCultureItems,
	EntityVices,
	EntityWorkoutSessions,
	EntityWorkoutLogs,
	EntityNotifications,
}

// ValidEntity reports whether name is a known entity key suffix.
func ValidEntity(name string) bool {
	for _, e := range entityNames {
		if e == name {
			return true
		}
	}
	return false
}

// EntityNames returns the known entity names in storage order.
func EntityNames() []string {
	out := make([]string, len(entityNames))
	copy(out, entityNames)
	return out
}

// Store bundles every repository over one tiered adapter.
type Store struct {
	kv *store.Tiered

	Users   *Users
	Players *Players
}

// New builds the repository set over kv.
func New(kv *store.Tiered) *Store {
	return &Store{
		kv:      kv,
		Users:   &Users{kv: kv},
		Players: &Players{kv: kv},
	}
}

// KV exposes the underlying adapter for raw operations (global backups,
// export/import).
func (s *Store) KV() *store.Tiered {
	return s.kv
}

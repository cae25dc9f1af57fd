package repo

import (
	"context"

	"github.com/solo-life/service_layer/internal/domain"
	"github.com/solo-life/service_layer/internal/store"
)

// Collection is a user-scoped list of one entity type, stored as a single
// JSON array. Writes replace the whole list; the last writer wins.
type Collection[T any] struct {
	kv     *store.Tiered
	entity string
}

// NewCollection binds a collection repository to its entity key suffix.
func NewCollection[T any](kv *store.Tiered, entity string) *Collection[T] {
	return &Collection[T]{kv: kv, entity: entity}
}

// Entity returns the entity name this collection is stored under.
func (c *Collection[T]) Entity() string {
	return c.entity
}

// Load returns the user's items, or an empty slice when nothing is stored.
func (c *Collection[T]) Load(ctx context.Context, userID string) ([]T, error) {
	items := []T{}
	if _, err := c.kv.Read(ctx, EntityKey(userID, c.entity), &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Save replaces the user's items.
func (c *Collection[T]) Save(ctx context.Context, userID string, items []T) error {
	if items == nil {
		items = []T{}
	}
	return c.kv.Write(ctx, EntityKey(userID, c.entity), items)
}

// Habits returns the habit collection for this store.
func (s *Store) Habits() *Collection[domain.Habit] {
	return NewCollection[domain.Habit](s.kv, EntityHabits)
}

// Transactions returns the transaction collection for this store.
func (s *Store) Transactions() *Collection[domain.Transaction] {
	return NewCollection[domain.Transaction](s.kv, EntityTransactions)
}

// FinancialGoals returns the financial-goal collection for this store.
func (s *Store) FinancialGoals() *Collection[domain.FinancialGoal] {
	return NewCollection[domain.FinancialGoal](s.kv, EntityFinancialGoals)
}

// Investments returns the investment collection for this store.
func (s *Store) Investments() *Collection[domain.Investment] {
	return NewCollection[domain.Investment](s.kv, EntityInvestments)
}

// Achievements returns the achievement collection for this store.
func (s *Store) Achievements() *Collection[domain.Achievement] {
	return NewCollection[domain.Achievement](s.kv, EntityAchievements)
}

// CultureItems returns the culture-item collection for this store.
func (s *Store) CultureItems() *Collection[domain.CultureItem] {
	return NewCollection[domain.CultureItem](s.kv, EntityCultureItems)
}

// Vices returns the vice collection for this store.
func (s *Store) Vices() *Collection[domain.Vice] {
	return NewCollection[domain.Vice](s.kv, EntityVices)
}

// WorkoutSessions returns the workout-session collection for this store.
func (s *Store) WorkoutSessions() *Collection[domain.WorkoutSession] {
	return NewCollection[domain.WorkoutSession](s.kv, EntityWorkoutSessions)
}

// WorkoutLogs returns the workout-log collection for this store.
func (s *Store) WorkoutLogs() *Collection[domain.WorkoutLog] {
	return NewCollection[domain.WorkoutLog](s.kv, EntityWorkoutLogs)
}

// Notifications returns the notification collection for this store.
func (s *Store) Notifications() *Collection[domain.Notification] {
	return NewCollection[domain.Notification](s.kv, EntityNotifications)
}

// Package tracker orchestrates habit completion against the progression
// engine: history mutation, streak recomputation, and XP/stat rewards, all
// persisted through the repositories.
package tracker

import (
	"context"
	"time"

	"github.com/solo-life/service_layer/internal/domain"
	"github.com/solo-life/service_layer/internal/errors"
	"github.com/solo-life/service_layer/internal/game"
	"github.com/solo-life/service_layer/internal/logging"
	"github.com/solo-life/service_layer/internal/repo"
)

// Service runs the habit flow for one repository set.
type Service struct {
	repo   *repo.Store
	logger *logging.Logger
}

// New builds the tracker service.
func New(r *repo.Store, logger *logging.Logger) *Service {
	return &Service{repo: r, logger: logger}
}

// CompletionResult is the state after toggling a habit, including any
// level-up that the XP reward caused.
type CompletionResult struct {
	Habit     domain.Habit  `json:"habit"`
	Player    domain.Player `json:"player"`
	LeveledUp bool          `json:"leveledUp"`
	NewLevel  int           `json:"newLevel,omitempty"`
}

// PenaltyStatus reports missed daily missions over the lookback window.
type PenaltyStatus struct {
	FailedMissions int  `json:"failedMissions"`
	Threshold      int  `json:"threshold"`
	PenaltyDue     bool `json:"penaltyDue"`
}

// CompleteHabit marks the habit done for now's calendar day. A habit already
// completed today is left untouched and no reward is granted again.
func (s *Service) CompleteHabit(ctx context.Context, userID, habitID string, now time.Time) (*CompletionResult, error) {
	habits, err := s.repo.Habits().Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	idx := findHabit(habits, habitID)
	if idx < 0 {
		return nil, errors.NotFound("habit not found")
	}

	habit := habits[idx]
	player, err := s.loadPlayer(ctx, userID)
	if err != nil {
		return nil, err
	}

	day := now.UTC().Format(game.DateOnly)
	if habit.CompletedOn(day) {
		return &CompletionResult{Habit: habit, Player: player, NewLevel: player.Level}, nil
	}

	habit.CompletionHistory = append(habit.CompletionHistory, now.UTC().Format(time.RFC3339))
	habit.Streak = game.Streak(habit.CompletionHistory, now)
	habits[idx] = habit
	if err := s.repo.Habits().Save(ctx, userID, habits); err != nil {
		return nil, err
	}

	res, err := game.AddXP(player, habit.XPReward)
	if err != nil {
		return nil, err
	}
	player = res.Player
	if habit.StatReward != nil {
		player, err = game.UpdateStat(player, habit.StatReward.Stat, habit.StatReward.Amount)
		if err != nil {
			return nil, err
		}
	}
	player.LastActive = now.UTC()
	if err := s.repo.Players.Save(ctx, userID, player); err != nil {
		return nil, err
	}

	if res.LeveledUp {
		s.logger.WithContext(ctx).WithFields(map[string]interface{}{
			"habit_id": habitID,
			"level":    res.NewLevel,
		}).Info("level up")
	}

	return &CompletionResult{
		Habit:     habit,
		Player:    player,
		LeveledUp: res.LeveledUp,
		NewLevel:  res.NewLevel,
	}, nil
}

// UncompleteHabit removes today's completion entries and takes back the
// reward: XP is clamped at zero within the current level, a stat reward is
// reversed with the usual floor. A habit with no entry today is a no-op.
func (s *Service) UncompleteHabit(ctx context.Context, userID, habitID string, now time.Time) (*CompletionResult, error) {
	habits, err := s.repo.Habits().Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	idx := findHabit(habits, habitID)
	if idx < 0 {
		return nil, errors.NotFound("habit not found")
	}

	habit := habits[idx]
	player, err := s.loadPlayer(ctx, userID)
	if err != nil {
		return nil, err
	}

	day := now.UTC().Format(game.DateOnly)
	if !habit.CompletedOn(day) {
		return &CompletionResult{Habit: habit, Player: player, NewLevel: player.Level}, nil
	}

	kept := habit.CompletionHistory[:0]
	for _, entry := range habit.CompletionHistory {
		if len(entry) < len(day) || entry[:len(day)] != day {
			kept = append(kept, entry)
		}
	}
	habit.CompletionHistory = kept
	habit.Streak = game.Streak(habit.CompletionHistory, now)
	habits[idx] = habit
	if err := s.repo.Habits().Save(ctx, userID, habits); err != nil {
		return nil, err
	}

	player.CurrentXP -= habit.XPReward
	if player.CurrentXP < 0 {
		player.CurrentXP = 0
	}
	if habit.StatReward != nil {
		player, err = game.UpdateStat(player, habit.StatReward.Stat, -habit.StatReward.Amount)
		if err != nil {
			return nil, err
		}
	}
	if err := s.repo.Players.Save(ctx, userID, player); err != nil {
		return nil, err
	}

	return &CompletionResult{Habit: habit, Player: player, NewLevel: player.Level}, nil
}

// Penalty reports the failed-mission count over the default lookback window.
func (s *Service) Penalty(ctx context.Context, userID string, now time.Time) (*PenaltyStatus, error) {
	habits, err := s.repo.Habits().Load(ctx, userID)
	if err != nil {
		return nil, err
	}

	failed := game.FailedMissionCount(habits, now, game.DefaultPenaltyLookbackDays)
	return &PenaltyStatus{
		FailedMissions: failed,
		Threshold:      game.PenaltyThreshold,
		PenaltyDue:     failed >= game.PenaltyThreshold,
	}, nil
}

// Missions projects the user's active daily habits onto today.
func (s *Service) Missions(ctx context.Context, userID string, now time.Time) ([]domain.DailyMission, error) {
	habits, err := s.repo.Habits().Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return game.TodayMissions(habits, now), nil
}

func (s *Service) loadPlayer(ctx context.Context, userID string) (domain.Player, error) {
	name := "Player"
	if u, err := s.repo.Users.Get(ctx, userID); err == nil {
		name = u.Name
	}
	return s.repo.Players.Load(ctx, userID, name)
}

func findHabit(habits []domain.Habit, id string) int {
	for i := range habits {
		if habits[i].ID == id {
			return i
		}
	}
	return -1
}

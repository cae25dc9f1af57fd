package game

import (
	"sort"
	"time"

	"github.com/solo-life/service_layer/internal/domain"
)

// DateOnly is the calendar-day layout used throughout completion histories.
const DateOnly = "2006-01-02"

// DefaultPenaltyLookbackDays is the window FailedMissionCount inspects.
const DefaultPenaltyLookbackDays = 7

// PenaltyThreshold is the failure count at which a penalty mission triggers.
const PenaltyThreshold = 5

// dayOrdinal returns the calendar-day ordinal of t (days since the Unix
// epoch, in UTC). Two timestamps on the same calendar day share an ordinal.
func dayOrdinal(t time.Time) int {
	t = t.UTC()
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return int(midnight.Unix() / 86400)
}

// distinctDays extracts the set of calendar-day ordinals present in history.
// Entries are RFC 3339 timestamps or bare dates; only the date prefix is
// considered, duplicates within a day collapse, malformed entries are skipped.
func distinctDays(history []string) []int {
	seen := make(map[int]struct{}, len(history))
	for _, entry := range history {
		if len(entry) < len(DateOnly) {
			continue
		}
		day, err := time.Parse(DateOnly, entry[:len(DateOnly)])
		if err != nil {
			continue
		}
		seen[dayOrdinal(day)] = struct{}{}
	}

	days := make([]int, 0, len(seen))
	for d := range seen {
		days = append(days, d)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(days)))
	return days
}

// Streak derives the consecutive-day completion count from a history of
// timestamps. The streak is a pure function of the distinct calendar days in
// the history: the most recent day must be today or yesterday (otherwise the
// streak is 0), then the run of exactly-adjacent prior days is counted.
func Streak(history []string, today time.Time) int {
	days := distinctDays(history)
	if len(days) == 0 {
		return 0
	}

	gap := dayOrdinal(today) - days[0]
	if gap > 1 || gap < 0 {
		return 0
	}

	streak := 1
	for i := 1; i < len(days); i++ {
		if days[i-1]-days[i] != 1 {
			break
		}
		streak++
	}
	return streak
}

// FailedMissionCount counts, across all active daily habits, the days in the
// lookback window (ending yesterday, today excluded) with no completion
// entry. The surrounding system triggers a penalty mission when the count
// reaches PenaltyThreshold.
func FailedMissionCount(habits []domain.Habit, today time.Time, lookbackDays int) int {
	if lookbackDays <= 0 {
		lookbackDays = DefaultPenaltyLookbackDays
	}

	todayUTC := today.UTC()
	failed := 0

	for _, habit := range habits {
		if !habit.Active || habit.Frequency != domain.FrequencyDaily {
			continue
		}
		for i := 1; i <= lookbackDays; i++ {
			day := todayUTC.AddDate(0, 0, -i).Format(DateOnly)
			if !habit.CompletedOn(day) {
				failed++
			}
		}
	}
	return failed
}

// TodayMissions projects the active daily habits onto the given day.
func TodayMissions(habits []domain.Habit, today time.Time) []domain.DailyMission {
	day := today.UTC().Format(DateOnly)
	missions := make([]domain.DailyMission, 0)

	for _, habit := range habits {
		if !habit.Active || habit.Frequency != domain.FrequencyDaily {
			continue
		}
		missions = append(missions, domain.DailyMission{
			ID:         habit.ID,
			HabitID:    habit.ID,
			Name:       habit.Name,
			Category:   habit.Category,
			Completed:  habit.CompletedOn(day),
			XPReward:   habit.XPReward,
			StatReward: habit.StatReward,
		})
	}
	return missions
}

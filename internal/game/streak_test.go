package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/solo-life/service_layer/internal/domain"
)

func day(s string) time.Time {
	t, err := time.Parse(DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestStreakEmpty(t *testing.T) {
	assert.Equal(t, 0, Streak(nil, day("2024-01-03")))
	assert.Equal(t, 0, Streak([]string{}, day("2024-01-03")))
}

func TestStreakConsecutiveDays(t *testing.T) {
	history := []string{"2024-01-01", "2024-01-02", "2024-01-03"}
	assert.Equal(t, 3, Streak(history, day("2024-01-03")))
}

func TestStreakBrokenChain(t *testing.T) {
	// Completed on the 1st and 3rd only; the most recent day counts but the
	// chain breaks at the gap.
	history := []string{"2024-01-01", "2024-01-03"}
	assert.Equal(t, 1, Streak(history, day("2024-01-03")))
}

func TestStreakResetAfterGap(t *testing.T) {
	// Most recent completion two or more days ago resets to zero regardless
	// of how long the prior run was.
	history := []string{"2023-12-28", "2023-12-29", "2023-12-30", "2023-12-31", "2024-01-01"}
	assert.Equal(t, 0, Streak(history, day("2024-01-03")))
}

func TestStreakEndingYesterday(t *testing.T) {
	history := []string{"2024-01-01", "2024-01-02"}
	assert.Equal(t, 2, Streak(history, day("2024-01-03")))
}

func TestStreakIgnoresOrderAndDuplicates(t *testing.T) {
	sorted := []string{"2024-01-01", "2024-01-02", "2024-01-03"}
	shuffled := []string{
		"2024-01-03T09:15:00Z",
		"2024-01-01T22:00:00Z",
		"2024-01-02T06:30:00Z",
		"2024-01-02T19:45:00Z", // second completion same day
	}
	today := day("2024-01-03")

	assert.Equal(t, Streak(sorted, today), Streak(shuffled, today))
}

func TestStreakIdempotent(t *testing.T) {
	history := []string{"2024-01-01T10:00:00Z", "2024-01-02T11:00:00Z"}
	today := day("2024-01-02")

	first := Streak(history, today)
	second := Streak(history, today)
	assert.Equal(t, first, second)
	assert.Equal(t, 2, first)
}

func TestStreakSkipsMalformedEntries(t *testing.T) {
	history := []string{"not-a-date", "2024-01-03"}
	assert.Equal(t, 1, Streak(history, day("2024-01-03")))
}

func dailyHabit(history ...string) domain.Habit {
	return domain.Habit{
		ID:                "h1",
		Name:              "read",
		Frequency:         domain.FrequencyDaily,
		Active:            true,
		CompletionHistory: history,
	}
}

func TestFailedMissionCountNoCompletions(t *testing.T) {
	habits := []domain.Habit{dailyHabit()}
	assert.Equal(t, 7, FailedMissionCount(habits, day("2024-01-10"), 7))
}

func TestFailedMissionCountExcludesToday(t *testing.T) {
	// Only today completed: today is excluded from the window, so all seven
	// prior days still count as failures.
	habits := []domain.Habit{dailyHabit("2024-01-10")}
	assert.Equal(t, 7, FailedMissionCount(habits, day("2024-01-10"), 7))
}

func TestFailedMissionCountPartialWeek(t *testing.T) {
	habits := []domain.Habit{dailyHabit("2024-01-09", "2024-01-07")}
	assert.Equal(t, 5, FailedMissionCount(habits, day("2024-01-10"), 7))
}

func TestFailedMissionCountSkipsInactiveAndNonDaily(t *testing.T) {
	inactive := dailyHabit()
	inactive.Active = false

	weekly := dailyHabit()
	weekly.Frequency = domain.FrequencyWeekly

	assert.Equal(t, 0, FailedMissionCount([]domain.Habit{inactive, weekly}, day("2024-01-10"), 7))
}

func TestFailedMissionCountDefaultLookback(t *testing.T) {
	habits := []domain.Habit{dailyHabit()}
	assert.Equal(t, 7, FailedMissionCount(habits, day("2024-01-10"), 0))
}

func TestTodayMissions(t *testing.T) {
	done := dailyHabit("2024-01-10T08:00:00Z")
	todo := dailyHabit()
	todo.ID = "h2"

	missions := TodayMissions([]domain.Habit{done, todo}, day("2024-01-10"))
	assert.Len(t, missions, 2)
	assert.True(t, missions[0].Completed)
	assert.False(t, missions[1].Completed)
}

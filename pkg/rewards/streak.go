package rewards

import "time"

// StreakState is the streak portion of a profile at one point in time.
type StreakState struct {
	Current        int
	Longest        int
	LastPurchaseAt *time.Time
}

// StreakPolicy decides how a purchase at `now` advances the streak.
type StreakPolicy interface {
	Advance(state StreakState, now time.Time) StreakState
}

// EveryPurchaseStreak increments the streak on every purchase regardless of
// elapsed time, so several purchases within one day each count. This mirrors
// the storefront's historical behavior and is the default policy.
type EveryPurchaseStreak struct{}

// Advance increments the streak unconditionally.
func (EveryPurchaseStreak) Advance(state StreakState, now time.Time) StreakState {
	return finalizeStreak(state.Current+1, state, now)
}

// CalendarDayStreak counts consecutive calendar days with at least one
// purchase: no change for repeat purchases within a day, one step per new
// consecutive day, reset to 1 after a gap of more than one day.
type CalendarDayStreak struct{}

// Advance applies the day-boundary rule using the purchase timestamps' local
// calendar days.
func (CalendarDayStreak) Advance(state StreakState, now time.Time) StreakState {
	if state.LastPurchaseAt == nil {
		return finalizeStreak(1, state, now)
	}
	elapsedDays := calendarDaysBetween(*state.LastPurchaseAt, now)
	switch {
	case elapsedDays <= 0:
		return finalizeStreak(state.Current, state, now)
	case elapsedDays == 1:
		return finalizeStreak(state.Current+1, state, now)
	default:
		return finalizeStreak(1, state, now)
	}
}

func finalizeStreak(current int, state StreakState, now time.Time) StreakState {
	longest := state.Longest
	if current > longest {
		longest = current
	}
	at := now
	return StreakState{Current: current, Longest: longest, LastPurchaseAt: &at}
}

func calendarDaysBetween(earlier, later time.Time) int {
	earlierDay := time.Date(earlier.Year(), earlier.Month(), earlier.Day(), 0, 0, 0, 0, earlier.Location())
	laterDay := time.Date(later.Year(), later.Month(), later.Day(), 0, 0, 0, 0, later.Location())
	return int(laterDay.Sub(earlierDay).Hours() / 24)
}

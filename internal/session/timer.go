package session

import (
	"fmt"

	"github.com/abhisek/stackprep/internal/bank"
)

// Per-question time budgets in seconds.
const (
	BudgetEasy    = 30
	BudgetMedium  = 45
	BudgetHard    = 60
	BudgetDefault = BudgetMedium
)

// Budget returns the time budget in seconds for a question of difficulty d.
func Budget(d bank.Difficulty) int {
	switch d {
	case bank.DifficultyEasy:
		return BudgetEasy
	case bank.DifficultyMedium:
		return BudgetMedium
	case bank.DifficultyHard:
		return BudgetHard
	default:
		return BudgetDefault
	}
}

// OverallBudget sums the per-question budgets and rounds up to the next
// whole minute.
func OverallBudget(questions []*bank.Question) int {
	total := 0
	for _, q := range questions {
		total += Budget(q.Difficulty)
	}
	if rem := total % 60; rem != 0 {
		total += 60 - rem
	}
	return total
}

// FormatClock renders seconds as m:ss.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

package service

import (
	"github.com/Dramirezponce/walkergestion-sub000/internal/domain"
	"github.com/shopspring/decimal"
)

// PercentageAchieved returns round(actual/goal*100). A zero or negative goal
// yields 0 rather than dividing by zero.
func PercentageAchieved(actual, goal int64) int {
	if goal <= 0 {
		return 0
	}
	pct := decimal.NewFromInt(actual).
		Mul(decimal.NewFromInt(100)).
		DivRound(decimal.NewFromInt(goal), 0)
	return int(pct.IntPart())
}

// Qualifies reports whether the actual sales reach the goal.
func Qualifies(actual, goal int64) bool {
	return actual >= goal
}

// ComputeBonus returns the payout for exceeding the goal: the sold amount
// above target times the bonus rate, rounded to whole pesos. Sales at or
// below the goal pay nothing.
func ComputeBonus(actual, goal int64, bonusPercentage float64) int64 {
	if actual <= goal {
		return 0
	}
	bonus := decimal.NewFromInt(actual - goal).
		Mul(decimal.NewFromFloat(bonusPercentage)).
		DivRound(decimal.NewFromInt(100), 0)
	return bonus.IntPart()
}

// ValidateBonusPercentage bounds the bonus rate to (0, 50].
func ValidateBonusPercentage(p float64) error {
	if p <= 0 || p > 50 {
		return domain.ValidationErrorf("bonusPercentage", "must be between 1 and 50")
	}
	return nil
}

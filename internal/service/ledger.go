package service

import (
	"strings"

	"github.com/Dramirezponce/walkergestion-sub000/internal/domain"
)

// ValidateExpense checks one expense line: non-empty description and a
// strictly positive amount.
func ValidateExpense(e domain.Expense) error {
	if strings.TrimSpace(e.Description) == "" {
		return domain.ValidationErrorf("description", "is required")
	}
	if e.Amount.Amount <= 0 {
		return domain.ValidationErrorf("amount", "must be positive")
	}
	return nil
}

// ValidateExpenses checks a rendition's expense list before submission: at
// least one line, and every line valid.
func ValidateExpenses(list []domain.Expense) error {
	if len(list) == 0 {
		return domain.ValidationErrorf("expenses", "at least one valid expense required")
	}
	for _, e := range list {
		if err := ValidateExpense(e); err != nil {
			return err
		}
	}
	return nil
}

// TotalExpenses sums the amounts of the list; an empty list totals zero.
func TotalExpenses(list []domain.Expense) int64 {
	var total int64
	for _, e := range list {
		total += e.Amount.Amount
	}
	return total
}

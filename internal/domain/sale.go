package domain

// breakdownTolerance absorbs one peso of rounding when checking that the
// payment-method breakdown adds up to the sale total.
const breakdownTolerance = 1

// ValidateSale checks a sale before it is persisted: positive total, no
// negative breakdown component, and cash+card+transfer equal to the total
// within one currency unit.
func ValidateSale(s Sale) error {
	if s.BusinessUnitID == 0 {
		return ValidationErrorf("businessUnitId", "is required")
	}
	if s.Amount.Amount <= 0 {
		return ValidationErrorf("amount", "must be positive")
	}
	if s.CashAmount < 0 || s.CardAmount < 0 || s.TransferAmount < 0 {
		return ValidationErrorf("breakdown", "amounts must not be negative")
	}
	diff := s.Amount.Amount - (s.CashAmount + s.CardAmount + s.TransferAmount)
	if diff < -breakdownTolerance || diff > breakdownTolerance {
		return ValidationErrorf("breakdown", "cash+card+transfer must equal total amount")
	}
	return nil
}

package domain

import "testing"

func TestValidateSale(t *testing.T) {
	base := Sale{
		BusinessUnitID: 1,
		Amount:         Money{Amount: 100000, Currency: "CLP"},
		CashAmount:     60000,
		CardAmount:     30000,
		TransferAmount: 10000,
	}

	tests := []struct {
		name    string
		mutate  func(*Sale)
		wantErr bool
	}{
		{"valid sale", func(s *Sale) {}, false},
		{"missing business unit", func(s *Sale) { s.BusinessUnitID = 0 }, true},
		{"zero amount", func(s *Sale) { s.Amount.Amount = 0 }, true},
		{"negative amount", func(s *Sale) { s.Amount.Amount = -1 }, true},
		{"negative cash component", func(s *Sale) { s.CashAmount = -1; s.CardAmount = 90001; s.TransferAmount = 10000 }, true},
		{"breakdown off by one accepted", func(s *Sale) { s.CashAmount = 59999 }, false},
		{"breakdown over by one accepted", func(s *Sale) { s.CashAmount = 60001 }, false},
		{"breakdown off by two rejected", func(s *Sale) { s.CashAmount = 59998 }, true},
		{"breakdown over by two rejected", func(s *Sale) { s.CashAmount = 60002 }, true},
		{"all in cash", func(s *Sale) { s.CashAmount = 100000; s.CardAmount = 0; s.TransferAmount = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := base
			tt.mutate(&s)
			err := ValidateSale(s)
			if tt.wantErr && err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantErr && !IsValidation(err) {
				t.Errorf("expected ValidationError, got %T", err)
			}
		})
	}
}

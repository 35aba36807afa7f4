package service

import (
	"testing"

	"github.com/Dramirezponce/walkergestion-sub000/internal/domain"
)

func expense(desc string, amount int64) domain.Expense {
	return domain.Expense{Description: desc, Amount: domain.Money{Amount: amount, Currency: "CLP"}}
}

func TestValidateExpenses(t *testing.T) {
	tests := []struct {
		name    string
		list    []domain.Expense
		wantErr bool
	}{
		{"single valid line", []domain.Expense{expense("Arriendo local", 50000)}, false},
		{"several valid lines", []domain.Expense{expense("Luz", 12000), expense("Agua", 8000)}, false},
		{"empty list", nil, true},
		{"blank description", []domain.Expense{expense("   ", 1000)}, true},
		{"zero amount", []domain.Expense{expense("Insumos", 0)}, true},
		{"negative amount", []domain.Expense{expense("Insumos", -500)}, true},
		{"one bad line fails the list", []domain.Expense{expense("Luz", 12000), expense("", 8000)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateExpenses(tt.list)
			if tt.wantErr && err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantErr && !domain.IsValidation(err) {
				t.Errorf("expected ValidationError, got %T", err)
			}
		})
	}
}

func TestTotalExpenses(t *testing.T) {
	if got := TotalExpenses(nil); got != 0 {
		t.Errorf("empty list totals %d, want 0", got)
	}
	list := []domain.Expense{expense("Luz", 12000), expense("Agua", 8000), expense("Insumos", 30000)}
	if got := TotalExpenses(list); got != 50000 {
		t.Errorf("TotalExpenses = %d, want 50000", got)
	}
}

package service

import "testing"

func TestPercentageAchieved(t *testing.T) {
	tests := []struct {
		name   string
		actual int64
		goal   int64
		want   int
	}{
		{"exactly on goal", 1000000, 1000000, 100},
		{"twenty percent over", 1200000, 1000000, 120},
		{"half of goal", 500000, 1000000, 50},
		{"no sales", 0, 1000000, 0},
		{"rounds up", 666667, 1000000, 67},
		{"rounds down", 333333, 1000000, 33},
		{"zero goal yields zero", 500000, 0, 0},
		{"negative goal yields zero", 500000, -100, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PercentageAchieved(tt.actual, tt.goal); got != tt.want {
				t.Errorf("PercentageAchieved(%d, %d) = %d, want %d", tt.actual, tt.goal, got, tt.want)
			}
		})
	}
}

func TestComputeBonus(t *testing.T) {
	tests := []struct {
		name   string
		actual int64
		goal   int64
		pct    float64
		want   int64
	}{
		{"twenty percent over at ten percent", 1200000, 1000000, 10, 20000},
		{"exactly on goal pays nothing", 1000000, 1000000, 10, 0},
		{"below goal pays nothing", 900000, 1000000, 10, 0},
		{"fractional rate rounds to whole pesos", 1000001, 1000000, 12.5, 0},
		{"small excess rounds", 1000010, 1000000, 12.5, 1},
		{"max rate", 1500000, 1000000, 50, 250000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComputeBonus(tt.actual, tt.goal, tt.pct); got != tt.want {
				t.Errorf("ComputeBonus(%d, %d, %v) = %d, want %d", tt.actual, tt.goal, tt.pct, got, tt.want)
			}
		})
	}
}

// Payouts must never shrink as sales grow for a fixed goal and rate.
func TestComputeBonusMonotonic(t *testing.T) {
	const goal = 1000000
	const pct = 10.0
	prev := int64(-1)
	for actual := int64(900000); actual <= 1100000; actual += 1000 {
		got := ComputeBonus(actual, goal, pct)
		if got < prev {
			t.Fatalf("bonus decreased: actual=%d bonus=%d, previous=%d", actual, got, prev)
		}
		prev = got
	}
}

func TestValidateBonusPercentage(t *testing.T) {
	for _, p := range []float64{0.5, 1, 10, 50} {
		if err := ValidateBonusPercentage(p); err != nil {
			t.Errorf("ValidateBonusPercentage(%v) = %v, want nil", p, err)
		}
	}
	for _, p := range []float64{0, -1, 50.1, 100} {
		if err := ValidateBonusPercentage(p); err == nil {
			t.Errorf("ValidateBonusPercentage(%v) = nil, want error", p)
		}
	}
}

package pricing

import (
	"testing"

	"taxigo/internal/modules/catalog"
	"taxigo/internal/types"
)

func rub(amount int64) types.Money {
	return types.Money{Amount: amount, Currency: types.DefaultCurrency}
}

func tariff(base, perKm, perMin int64) catalog.Tariff {
	return catalog.Tariff{
		BasePrice:      rub(base),
		PricePerKm:     rub(perKm),
		PricePerMinute: rub(perMin),
	}
}

func TestService_Quote(t *testing.T) {
	tests := []struct {
		name         string
		tariff       catalog.Tariff
		distanceKm   float64
		estimatedMin float64
		want         int64 // kopecks
	}{
		{
			name:         "base fare only",
			tariff:       tariff(10000, 2000, 500),
			distanceKm:   0,
			estimatedMin: 0,
			want:         10000, // 100.00
		},
		{
			name:         "reference scenario 10km 50min",
			tariff:       tariff(10000, 2000, 500),
			distanceKm:   10,
			estimatedMin: 50,
			// 100 + 10*20 + (50/60)*5 = 304.1666... -> 304.17
			want: 30417,
		},
		{
			name:         "distance only",
			tariff:       tariff(8000, 1500, 0),
			distanceKm:   4.2,
			estimatedMin: 21,
			// 80 + 4.2*15 = 143.00
			want: 14300,
		},
		{
			name:         "fractional distance rounds once at the end",
			tariff:       tariff(9900, 1999, 301),
			distanceKm:   3.33,
			estimatedMin: 16.65,
			// 99 + 3.33*19.99 + (16.65/60)*3.01 = 166.402065 -> 166.40
			want: 16640,
		},
		{
			name:         "zero tariff",
			tariff:       tariff(0, 0, 0),
			distanceKm:   25,
			estimatedMin: 125,
			want:         0,
		},
	}

	s := NewService()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Quote(tt.tariff, tt.distanceKm, tt.estimatedMin)
			if got.Amount != tt.want {
				t.Errorf("Quote() = %d, want %d", got.Amount, tt.want)
			}
			if got.Currency != types.DefaultCurrency {
				t.Errorf("Quote() currency = %q, want %q", got.Currency, types.DefaultCurrency)
			}
		})
	}
}

func TestService_EstimateMinutes(t *testing.T) {
	s := NewService()
	cases := []struct {
		distanceKm float64
		want       float64
	}{
		{0, 0},
		{1, 5},
		{10, 50},
		{2.5, 12.5},
		{-3, 0}, // negative input clamps to zero
	}
	for _, tc := range cases {
		if got := s.EstimateMinutes(tc.distanceKm); got != tc.want {
			t.Errorf("EstimateMinutes(%v) = %v, want %v", tc.distanceKm, got, tc.want)
		}
	}
}

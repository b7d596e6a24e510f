package calculator

import (
	"errors"
	"math"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/loveeee/ledger/internal/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func TestComputeSplit(t *testing.T) {
	tests := []struct {
		name         string
		total        decimal.Decimal
		splitType    models.SplitType
		payerPercent *decimal.Decimal
		places       int32
		wantErr      error
		validateFunc func(t *testing.T, s Split)
	}{
		{
			name:      "equal split of even VND amount",
			total:     dec("200000"),
			splitType: models.SplitEqual,
			places:    0,
			validateFunc: func(t *testing.T, s Split) {
				if !s.PayerOwed.Equal(dec("100000")) || !s.PartnerOwed.Equal(dec("100000")) {
					t.Errorf("got payer=%s partner=%s, want 100000/100000", s.PayerOwed, s.PartnerOwed)
				}
			},
		},
		{
			name:      "equal split of odd VND amount floors payer",
			total:     dec("100001"),
			splitType: models.SplitEqual,
			places:    0,
			validateFunc: func(t *testing.T, s Split) {
				// 100001 / 2 = 50000.5 -> payer 50000, partner 50001
				if !s.PayerOwed.Equal(dec("50000")) {
					t.Errorf("payer = %s, want 50000", s.PayerOwed)
				}
				if !s.PartnerOwed.Equal(dec("50001")) {
					t.Errorf("partner = %s, want 50001", s.PartnerOwed)
				}
			},
		},
		{
			name:      "equal split in cents",
			total:     dec("10.01"),
			splitType: models.SplitEqual,
			places:    2,
			validateFunc: func(t *testing.T, s Split) {
				if !s.PayerOwed.Equal(dec("5")) || !s.PartnerOwed.Equal(dec("5.01")) {
					t.Errorf("got payer=%s partner=%s, want 5.00/5.01", s.PayerOwed, s.PartnerOwed)
				}
			},
		},
		{
			name:      "full split",
			total:     dec("300000"),
			splitType: models.SplitFull,
			validateFunc: func(t *testing.T, s Split) {
				if !s.PayerOwed.Equal(dec("300000")) {
					t.Errorf("payer = %s, want 300000", s.PayerOwed)
				}
				if !s.PartnerOwed.IsZero() {
					t.Errorf("partner = %s, want 0", s.PartnerOwed)
				}
			},
		},
		{
			name:         "custom 70/30",
			total:        dec("100"),
			splitType:    models.SplitCustom,
			payerPercent: decPtr("70"),
			places:       2,
			validateFunc: func(t *testing.T, s Split) {
				if math.Abs(s.PayerOwed.InexactFloat64()-70.0) > 0.01 {
					t.Errorf("payer = %s, want 70", s.PayerOwed)
				}
				if math.Abs(s.PartnerOwed.InexactFloat64()-30.0) > 0.01 {
					t.Errorf("partner = %s, want 30", s.PartnerOwed)
				}
			},
		},
		{
			name:         "custom 0 percent",
			total:        dec("50000"),
			splitType:    models.SplitCustom,
			payerPercent: decPtr("0"),
			validateFunc: func(t *testing.T, s Split) {
				if !s.PayerOwed.IsZero() || !s.PartnerOwed.Equal(dec("50000")) {
					t.Errorf("got payer=%s partner=%s, want 0/50000", s.PayerOwed, s.PartnerOwed)
				}
			},
		},
		{
			name:         "custom above 100 should error",
			total:        dec("100"),
			splitType:    models.SplitCustom,
			payerPercent: decPtr("100.5"),
			wantErr:      ErrInvalidPercent,
		},
		{
			name:         "custom negative should error",
			total:        dec("100"),
			splitType:    models.SplitCustom,
			payerPercent: decPtr("-1"),
			wantErr:      ErrInvalidPercent,
		},
		{
			name:      "custom without percentage should error",
			total:     dec("100"),
			splitType: models.SplitCustom,
			wantErr:   ErrInvalidPercent,
		},
		{
			name:      "unknown split type should error",
			total:     dec("100"),
			splitType: models.SplitType("thirds"),
			wantErr:   ErrUnknownSplitType,
		},
		{
			name:      "negative total should error",
			total:     dec("-1"),
			splitType: models.SplitEqual,
			wantErr:   ErrNegativeAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := ComputeSplit(tt.total, tt.splitType, tt.payerPercent, tt.places)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("ComputeSplit() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ComputeSplit() unexpected error: %v", err)
			}
			if tt.validateFunc != nil {
				tt.validateFunc(t, s)
			}
		})
	}
}

func TestComputeSplit_Properties(t *testing.T) {
	wholeTotals := []string{"1", "2", "3", "99", "100001", "200000"}
	totals := append([]string{"0.01", "12.35", "999999.99"}, wholeTotals...)

	t.Run("equal split sums to total and halves differ by at most one minor unit", func(t *testing.T) {
		for places, inputs := range map[int32][]string{0: wholeTotals, 2: totals} {
			unit := decimal.New(1, -places)
			for _, raw := range inputs {
				total := dec(raw)
				s, err := ComputeSplit(total, models.SplitEqual, nil, places)
				if err != nil {
					t.Fatalf("ComputeSplit(%s) error: %v", raw, err)
				}
				if !s.PayerOwed.Add(s.PartnerOwed).Equal(total) {
					t.Errorf("%s: payer+partner = %s", raw, s.PayerOwed.Add(s.PartnerOwed))
				}
				if diff := s.PartnerOwed.Sub(s.PayerOwed); diff.IsNegative() || diff.GreaterThan(unit) {
					t.Errorf("%s (places %d): partner-payer = %s", raw, places, diff)
				}
			}
		}
	})

	t.Run("full split attributes everything to the payer", func(t *testing.T) {
		for _, raw := range totals {
			s, err := ComputeSplit(dec(raw), models.SplitFull, nil, 0)
			if err != nil {
				t.Fatalf("ComputeSplit(%s) error: %v", raw, err)
			}
			if !s.PayerOwed.Equal(dec(raw)) || !s.PartnerOwed.IsZero() {
				t.Errorf("%s: got payer=%s partner=%s", raw, s.PayerOwed, s.PartnerOwed)
			}
		}
	})

	t.Run("custom split is complementary for every whole percentage", func(t *testing.T) {
		for _, raw := range totals {
			total := dec(raw)
			for pct := int64(0); pct <= 100; pct++ {
				p := decimal.NewFromInt(pct)
				s, err := ComputeSplit(total, models.SplitCustom, &p, 2)
				if err != nil {
					t.Fatalf("ComputeSplit(%s, %d%%) error: %v", raw, pct, err)
				}
				if !s.PayerOwed.Add(s.PartnerOwed).Equal(total) {
					t.Errorf("%s at %d%%: payer+partner = %s", raw, pct, s.PayerOwed.Add(s.PartnerOwed))
				}
			}
		}
	})
}

func TestExpenseSplit(t *testing.T) {
	tests := []struct {
		name        string
		expense     models.Expense
		wantPayer   string
		wantPartner string
		wantErr     bool
	}{
		{
			name:        "equal VND",
			expense:     models.Expense{Amount: dec("200000"), Currency: "VND", SplitType: models.SplitEqual},
			wantPayer:   "100000",
			wantPartner: "100000",
		},
		{
			name:        "equal USD rounds to cents",
			expense:     models.Expense{Amount: dec("0.05"), Currency: "USD", SplitType: models.SplitEqual},
			wantPayer:   "0.02",
			wantPartner: "0.03",
		},
		{
			name:        "custom uses paid by other as partner share",
			expense:     models.Expense{Amount: dec("150000"), Currency: "VND", SplitType: models.SplitCustom, PaidByOther: decPtr("50000")},
			wantPayer:   "100000",
			wantPartner: "50000",
		},
		{
			name:        "custom without paid by other falls back to equal",
			expense:     models.Expense{Amount: dec("150000"), Currency: "VND", SplitType: models.SplitCustom},
			wantPayer:   "75000",
			wantPartner: "75000",
		},
		{
			name:    "custom share above amount should error",
			expense: models.Expense{Amount: dec("100"), Currency: "VND", SplitType: models.SplitCustom, PaidByOther: decPtr("101")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := ExpenseSplit(&tt.expense)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ExpenseSplit() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if !s.PayerOwed.Equal(dec(tt.wantPayer)) {
				t.Errorf("payer = %s, want %s", s.PayerOwed, tt.wantPayer)
			}
			if !s.PartnerOwed.Equal(dec(tt.wantPartner)) {
				t.Errorf("partner = %s, want %s", s.PartnerOwed, tt.wantPartner)
			}
		})
	}
}

func TestMinorUnits(t *testing.T) {
	for currency, want := range map[string]int32{"VND": 0, "vnd": 0, "JPY": 0, "USD": 2, "EUR": 2, "": 2} {
		if got := MinorUnits(currency); got != want {
			t.Errorf("MinorUnits(%q) = %d, want %d", currency, got, want)
		}
	}
}

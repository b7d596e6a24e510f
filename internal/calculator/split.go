package calculator

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/loveeee/ledger/internal/models"
)

var (
	ErrNegativeAmount   = errors.New("amount cannot be negative")
	ErrInvalidPercent   = errors.New("custom percentage must be between 0 and 100")
	ErrUnknownSplitType = errors.New("split type must be one of equal, full, custom")
)

var hundred = decimal.NewFromInt(100)

// Split is the result of attributing one expense between the two members.
// PayerOwed + PartnerOwed always equals the expense total exactly.
type Split struct {
	PayerOwed   decimal.Decimal
	PartnerOwed decimal.Decimal
}

// ComputeSplit attributes total between the payer and the partner.
//
//   - equal: the payer's half is floored to places decimal digits, the partner takes the rest
//   - full: the payer owes everything
//   - custom: the payer owes payerPercent% floored to places digits, the partner the rest
//
// payerPercent is only read for custom splits.
func ComputeSplit(total decimal.Decimal, splitType models.SplitType, payerPercent *decimal.Decimal, places int32) (Split, error) {
	if total.IsNegative() {
		return Split{}, ErrNegativeAmount
	}

	switch splitType {
	case models.SplitEqual:
		payer := total.Div(decimal.NewFromInt(2)).RoundFloor(places)
		return Split{PayerOwed: payer, PartnerOwed: total.Sub(payer)}, nil

	case models.SplitFull:
		return Split{PayerOwed: total, PartnerOwed: decimal.Zero}, nil

	case models.SplitCustom:
		if payerPercent == nil {
			return Split{}, fmt.Errorf("%w: percentage is required", ErrInvalidPercent)
		}
		pct := *payerPercent
		if pct.IsNegative() || pct.GreaterThan(hundred) {
			return Split{}, ErrInvalidPercent
		}
		payer := total.Mul(pct).Div(hundred).RoundFloor(places)
		return Split{PayerOwed: payer, PartnerOwed: total.Sub(payer)}, nil
	}

	return Split{}, ErrUnknownSplitType
}

// ExpenseSplit computes the split of a stored expense.
// A custom split uses PaidByOther as the partner's share; without it the
// expense is split equally.
func ExpenseSplit(e *models.Expense) (Split, error) {
	places := MinorUnits(e.Currency)
	if e.SplitType == models.SplitCustom {
		if e.PaidByOther == nil {
			return ComputeSplit(e.Amount, models.SplitEqual, nil, places)
		}
		partner := *e.PaidByOther
		if partner.IsNegative() || partner.GreaterThan(e.Amount) {
			return Split{}, fmt.Errorf("paid by other %s outside [0, %s]", partner, e.Amount)
		}
		return Split{PayerOwed: e.Amount.Sub(partner), PartnerOwed: partner}, nil
	}
	return ComputeSplit(e.Amount, e.SplitType, nil, places)
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SplitType is the strategy used to attribute an expense between the two members.
type SplitType string

const (
	SplitEqual  SplitType = "equal"
	SplitFull   SplitType = "full"
	SplitCustom SplitType = "custom"
)

// Valid reports whether t is one of the known split types.
func (t SplitType) Valid() bool {
	switch t {
	case SplitEqual, SplitFull, SplitCustom:
		return true
	}
	return false
}

// DefaultCurrency is used when an expense is created without a currency.
const DefaultCurrency = "VND"

// Expense is a single spending event owned by a couple.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// CoupleID is the owning couple. Authorization is always derived from it.
	CoupleID string

	// PaidBy is the member who physically paid.
	PaidBy string

	Title       string
	Amount      decimal.Decimal
	Currency    string
	Category    string
	Description string

	// Date is when the spending happened. Lists are ordered by it, newest first.
	Date time.Time

	SplitType SplitType

	// PaidByOther is the amount attributed to the non-paying partner. Nil when unset.
	PaidByOther *decimal.Decimal

	// Version increases on every successful update.
	Version int64

	CreatedAt int64
	UpdatedAt int64
}

// ExpenseDetail is an expense enriched for presentation: payer and couple
// profiles plus the computed shares of each member.
type ExpenseDetail struct {
	Expense
	Payer       UserProfile
	Couple      CoupleDetail
	PayerOwed   decimal.Decimal
	PartnerOwed decimal.Decimal
}

package calculator

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/loveeee/ledger/internal/models"
)

// MemberBalance represents the balance information for one couple member.
type MemberBalance struct {
	UserID    string
	TotalPaid decimal.Decimal // Sum of amounts this member paid
	TotalOwed decimal.Decimal // Sum of this member's shares
	Net       decimal.Decimal // Positive = is owed money, negative = owes money
}

// CurrencyBalance is the couple balance for expenses in one currency.
type CurrencyBalance struct {
	Currency string
	Members  [2]MemberBalance

	// Debtor owes Creditor Amount. Both are empty when the couple is even.
	Debtor   string
	Creditor string
	Amount   decimal.Decimal

	ExpenseCount int
}

// CoupleBalance aggregates who paid what and who owes what across expenses,
// one balance per currency sorted by currency code.
//
// For each expense the payer contributed the full amount and each member owes
// their share from ExpenseSplit; net = paid - owed. With two members the
// nets are opposite, so the debt is the positive net.
func CoupleBalance(couple *models.Couple, expenses []*models.Expense) ([]CurrencyBalance, error) {
	byCurrency := make(map[string]*CurrencyBalance)

	for _, e := range expenses {
		partner := couple.Partner(e.PaidBy)
		// Skip expenses whose payer left the couple (can't attribute shares)
		if partner == "" {
			continue
		}

		split, err := ExpenseSplit(e)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate split for expense %s: %w", e.ID, err)
		}

		bal, ok := byCurrency[e.Currency]
		if !ok {
			bal = &CurrencyBalance{
				Currency: e.Currency,
				Members: [2]MemberBalance{
					{UserID: couple.UserOneID},
					{UserID: couple.UserTwoID},
				},
			}
			byCurrency[e.Currency] = bal
		}
		bal.ExpenseCount++

		for i := range bal.Members {
			m := &bal.Members[i]
			switch m.UserID {
			case e.PaidBy:
				m.TotalPaid = m.TotalPaid.Add(e.Amount)
				m.TotalOwed = m.TotalOwed.Add(split.PayerOwed)
			case partner:
				m.TotalOwed = m.TotalOwed.Add(split.PartnerOwed)
			}
		}
	}

	result := make([]CurrencyBalance, 0, len(byCurrency))
	for _, bal := range byCurrency {
		for i := range bal.Members {
			bal.Members[i].Net = bal.Members[i].TotalPaid.Sub(bal.Members[i].TotalOwed)
		}
		one, two := bal.Members[0], bal.Members[1]
		switch {
		case one.Net.IsPositive():
			bal.Debtor, bal.Creditor, bal.Amount = two.UserID, one.UserID, one.Net
		case two.Net.IsPositive():
			bal.Debtor, bal.Creditor, bal.Amount = one.UserID, two.UserID, two.Net
		}
		result = append(result, *bal)
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Currency < result[j].Currency })
	return result, nil
}

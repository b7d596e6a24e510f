package calculator

import (
	"testing"

	"github.com/loveeee/ledger/internal/models"
)

func TestCoupleBalance(t *testing.T) {
	couple := &models.Couple{ID: "c1", UserOneID: "an", UserTwoID: "binh"}

	t.Run("equal split paid by one member", func(t *testing.T) {
		expenses := []*models.Expense{
			{ID: "e1", PaidBy: "an", Amount: dec("200000"), Currency: "VND", SplitType: models.SplitEqual},
		}
		balances, err := CoupleBalance(couple, expenses)
		if err != nil {
			t.Fatalf("CoupleBalance failed: %v", err)
		}
		if len(balances) != 1 {
			t.Fatalf("expected 1 currency balance, got %d", len(balances))
		}
		b := balances[0]
		if b.Debtor != "binh" || b.Creditor != "an" {
			t.Errorf("debtor/creditor = %s/%s, want binh/an", b.Debtor, b.Creditor)
		}
		if !b.Amount.Equal(dec("100000")) {
			t.Errorf("amount = %s, want 100000", b.Amount)
		}
		if !b.Members[0].TotalPaid.Equal(dec("200000")) || !b.Members[0].TotalOwed.Equal(dec("100000")) {
			t.Errorf("an paid/owed = %s/%s", b.Members[0].TotalPaid, b.Members[0].TotalOwed)
		}
	})

	t.Run("opposite expenses cancel out", func(t *testing.T) {
		expenses := []*models.Expense{
			{ID: "e1", PaidBy: "an", Amount: dec("100000"), Currency: "VND", SplitType: models.SplitEqual},
			{ID: "e2", PaidBy: "binh", Amount: dec("100000"), Currency: "VND", SplitType: models.SplitEqual},
		}
		balances, err := CoupleBalance(couple, expenses)
		if err != nil {
			t.Fatalf("CoupleBalance failed: %v", err)
		}
		b := balances[0]
		if b.Debtor != "" || b.Creditor != "" || !b.Amount.IsZero() {
			t.Errorf("expected even balance, got %s owes %s %s", b.Debtor, b.Creditor, b.Amount)
		}
		if b.ExpenseCount != 2 {
			t.Errorf("expense count = %d, want 2", b.ExpenseCount)
		}
	})

	t.Run("full split means no debt", func(t *testing.T) {
		expenses := []*models.Expense{
			{ID: "e1", PaidBy: "binh", Amount: dec("300000"), Currency: "VND", SplitType: models.SplitFull},
		}
		balances, err := CoupleBalance(couple, expenses)
		if err != nil {
			t.Fatalf("CoupleBalance failed: %v", err)
		}
		if !balances[0].Amount.IsZero() {
			t.Errorf("amount = %s, want 0", balances[0].Amount)
		}
	})

	t.Run("currencies are kept apart and sorted", func(t *testing.T) {
		expenses := []*models.Expense{
			{ID: "e1", PaidBy: "an", Amount: dec("200000"), Currency: "VND", SplitType: models.SplitEqual},
			{ID: "e2", PaidBy: "binh", Amount: dec("40"), Currency: "USD", SplitType: models.SplitCustom, PaidByOther: decPtr("10")},
		}
		balances, err := CoupleBalance(couple, expenses)
		if err != nil {
			t.Fatalf("CoupleBalance failed: %v", err)
		}
		if len(balances) != 2 || balances[0].Currency != "USD" || balances[1].Currency != "VND" {
			t.Fatalf("unexpected balances: %+v", balances)
		}
		// binh paid 40, owes 30; an owes 10 -> an owes binh 10
		usd := balances[0]
		if usd.Debtor != "an" || usd.Creditor != "binh" || !usd.Amount.Equal(dec("10")) {
			t.Errorf("USD: %s owes %s %s, want an owes binh 10", usd.Debtor, usd.Creditor, usd.Amount)
		}
	})

	t.Run("expenses paid by a non-member are skipped", func(t *testing.T) {
		expenses := []*models.Expense{
			{ID: "e1", PaidBy: "stranger", Amount: dec("100"), Currency: "VND", SplitType: models.SplitEqual},
		}
		balances, err := CoupleBalance(couple, expenses)
		if err != nil {
			t.Fatalf("CoupleBalance failed: %v", err)
		}
		if len(balances) != 0 {
			t.Errorf("expected no balances, got %d", len(balances))
		}
	})
}

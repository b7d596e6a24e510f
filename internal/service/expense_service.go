package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/loveeee/ledger/internal/calculator"
	"github.com/loveeee/ledger/internal/events"
	"github.com/loveeee/ledger/internal/models"
	"github.com/loveeee/ledger/internal/storage"
)

// ExpenseService manages the expenses of a couple.
// Every mutation re-derives authorization from the couple stored on the expense.
type ExpenseService struct {
	store           storage.Store
	couples         *CoupleService
	publisher       events.Publisher
	defaultCurrency string
	now             func() time.Time
}

// NewExpenseService creates a new ExpenseService.
func NewExpenseService(store storage.Store, couples *CoupleService, publisher events.Publisher, defaultCurrency string) *ExpenseService {
	if publisher == nil {
		publisher = events.Noop{}
	}
	if defaultCurrency == "" {
		defaultCurrency = models.DefaultCurrency
	}
	return &ExpenseService{
		store:           store,
		couples:         couples,
		publisher:       publisher,
		defaultCurrency: defaultCurrency,
		now:             time.Now,
	}
}

// ListExpenses returns the couple's expenses, newest first.
// A user without a couple gets an empty list.
func (s *ExpenseService) ListExpenses(ctx context.Context, userID string) ([]*models.ExpenseDetail, error) {
	couple, err := s.couples.ResolveCouple(ctx, userID)
	if err != nil {
		return nil, err
	}
	if couple == nil {
		return []*models.ExpenseDetail{}, nil
	}

	expenses, err := s.store.ListExpensesByCouple(ctx, couple.ID)
	if err != nil {
		slog.Error("ListExpenses failed", "couple_id", couple.ID, "error", err)
		return nil, err
	}

	details := make([]*models.ExpenseDetail, 0, len(expenses))
	for _, e := range expenses {
		d, err := enrich(e, couple)
		if err != nil {
			slog.Error("ListExpenses failed", "expense_id", e.ID, "error", err)
			return nil, err
		}
		details = append(details, d)
	}

	slog.Debug("ListExpenses successful", "couple_id", couple.ID, "count", len(details))
	return details, nil
}

// CreateExpenseInput carries the raw fields of a new expense.
// Amounts are decimal strings; empty optional strings mean "not provided".
type CreateExpenseInput struct {
	UserID      string
	Title       string
	Amount      string
	Currency    string
	Category    string
	Description string
	Date        *time.Time
	SplitType   string

	// PaidBy defaults to UserID; otherwise it must be the partner.
	PaidBy string

	// PaidByOther is the partner's share. Empty means null.
	PaidByOther string

	// PayerPercent is an alternative to PaidByOther for custom splits.
	PayerPercent string
}

// CreateExpense records a new expense for the caller's couple.
func (s *ExpenseService) CreateExpense(ctx context.Context, in CreateExpenseInput) (*models.ExpenseDetail, error) {
	if in.UserID == "" || strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Amount) == "" || strings.TrimSpace(in.Category) == "" {
		return nil, validationError("userId, title, amount and category are required")
	}

	amount, err := parseAmount(in.Amount)
	if err != nil {
		return nil, err
	}

	couple, err := s.couples.ResolveCouple(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if couple == nil {
		return nil, newError(ErrNoCouple, msgNoCouple)
	}

	expense := &models.Expense{
		CoupleID:    couple.ID,
		PaidBy:      in.UserID,
		Title:       strings.TrimSpace(in.Title),
		Amount:      amount,
		Currency:    s.defaultCurrency,
		Category:    strings.TrimSpace(in.Category),
		Description: strings.TrimSpace(in.Description),
		Date:        s.now(),
		SplitType:   models.SplitEqual,
	}
	if in.PaidBy != "" {
		if !couple.HasMember(in.PaidBy) {
			return nil, validationError("paidBy must be a member of the couple")
		}
		expense.PaidBy = in.PaidBy
	}
	if in.Currency != "" {
		expense.Currency = strings.ToUpper(strings.TrimSpace(in.Currency))
	}
	if in.Date != nil {
		expense.Date = *in.Date
	}
	expense.Date = expense.Date.UTC().Truncate(time.Millisecond)
	if in.SplitType != "" {
		expense.SplitType = models.SplitType(in.SplitType)
	}
	if in.PaidByOther != "" {
		share, err := parseShare(in.PaidByOther)
		if err != nil {
			return nil, err
		}
		expense.PaidByOther = &share
	}
	if err := applyPayerPercent(expense, in.PayerPercent); err != nil {
		return nil, err
	}

	if err := validateExpense(expense); err != nil {
		return nil, err
	}

	if err := s.store.CreateExpense(ctx, expense); err != nil {
		slog.Error("CreateExpense failed", "couple_id", couple.ID, "error", err)
		return nil, err
	}

	slog.Info("Expense created", "expense_id", expense.ID, "couple_id", couple.ID, "user_id", in.UserID)
	s.publish(ctx, events.New(events.ExpenseCreated, couple.ID, expense.ID, in.UserID, expense.Version))

	return enrich(expense, couple)
}

// ExpensePatch holds the fields to change. Nil means "keep the stored value".
type ExpensePatch struct {
	Title       *string
	Amount      *string
	Currency    *string
	Category    *string
	Description *string
	Date        *time.Time
	SplitType   *string
	PaidBy      *string

	// PaidByOther: nil keeps the stored share, a pointer to "" clears it.
	PaidByOther *string

	PayerPercent *string

	// Version, when set, must match the stored version.
	Version *int64
}

// UpdateExpense applies patch to the expense after checking that userID
// belongs to the couple that owns it.
func (s *ExpenseService) UpdateExpense(ctx context.Context, expenseID, userID string, patch ExpensePatch) (*models.ExpenseDetail, error) {
	if expenseID == "" || userID == "" {
		return nil, validationError("expenseId and userId are required")
	}

	expense, couple, err := s.loadAuthorized(ctx, expenseID, userID)
	if err != nil {
		return nil, err
	}

	if patch.Version != nil && *patch.Version != expense.Version {
		return nil, newError(ErrConflict, msgConflict)
	}

	if err := applyPatch(expense, couple, patch); err != nil {
		return nil, err
	}
	if err := validateExpense(expense); err != nil {
		return nil, err
	}

	if err := s.store.UpdateExpense(ctx, expense); err != nil {
		switch {
		case errors.Is(err, storage.ErrConflict):
			return nil, newError(ErrConflict, msgConflict)
		case errors.Is(err, storage.ErrNotFound):
			return nil, newError(ErrNotFound, msgNotFound)
		}
		slog.Error("UpdateExpense failed", "expense_id", expenseID, "error", err)
		return nil, err
	}

	slog.Info("Expense updated", "expense_id", expense.ID, "user_id", userID, "version", expense.Version)
	s.publish(ctx, events.New(events.ExpenseUpdated, couple.ID, expense.ID, userID, expense.Version))

	return enrich(expense, couple)
}

// DeleteExpense permanently removes the expense after the same ownership check as UpdateExpense.
func (s *ExpenseService) DeleteExpense(ctx context.Context, expenseID, userID string) error {
	if expenseID == "" || userID == "" {
		return validationError("expenseId and userId are required")
	}

	expense, couple, err := s.loadAuthorized(ctx, expenseID, userID)
	if err != nil {
		return err
	}

	if err := s.store.DeleteExpense(ctx, expense.ID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return newError(ErrNotFound, msgNotFound)
		}
		slog.Error("DeleteExpense failed", "expense_id", expenseID, "error", err)
		return err
	}

	slog.Info("Expense deleted", "expense_id", expense.ID, "user_id", userID)
	s.publish(ctx, events.New(events.ExpenseDeleted, couple.ID, expense.ID, userID, expense.Version))
	return nil
}

// Summary returns the couple's balances per currency. Nil when the user has no couple.
func (s *ExpenseService) Summary(ctx context.Context, userID string) (*Summary, error) {
	couple, err := s.couples.ResolveCouple(ctx, userID)
	if err != nil {
		return nil, err
	}
	if couple == nil {
		return nil, nil
	}

	expenses, err := s.store.ListExpensesByCouple(ctx, couple.ID)
	if err != nil {
		slog.Error("Summary failed", "couple_id", couple.ID, "error", err)
		return nil, err
	}

	balances, err := calculator.CoupleBalance(&couple.Couple, expenses)
	if err != nil {
		slog.Error("Summary failed", "couple_id", couple.ID, "error", err)
		return nil, err
	}

	return &Summary{Couple: couple, Balances: balances}, nil
}

// Summary is the balance overview of a couple.
type Summary struct {
	Couple   *models.CoupleDetail
	Balances []calculator.CurrencyBalance
}

// loadAuthorized loads the expense and its stored couple and checks membership.
func (s *ExpenseService) loadAuthorized(ctx context.Context, expenseID, userID string) (*models.Expense, *models.CoupleDetail, error) {
	expense, err := s.store.GetExpense(ctx, expenseID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil, newError(ErrNotFound, msgNotFound)
	}
	if err != nil {
		slog.Error("GetExpense failed", "expense_id", expenseID, "error", err)
		return nil, nil, err
	}

	couple, err := s.store.GetCouple(ctx, expense.CoupleID)
	if err != nil {
		slog.Error("GetCouple failed", "couple_id", expense.CoupleID, "error", err)
		return nil, nil, fmt.Errorf("failed to load owning couple: %w", err)
	}

	if !couple.HasMember(userID) {
		slog.Warn("Expense access denied", "expense_id", expenseID, "user_id", userID, "couple_id", couple.ID)
		return nil, nil, newError(ErrForbidden, msgForbidden)
	}

	detail, err := s.couples.detail(ctx, couple)
	if err != nil {
		return nil, nil, err
	}
	return expense, detail, nil
}

func (s *ExpenseService) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		slog.Warn("Failed to publish event", "type", event.Type, "expense_id", event.ExpenseID, "error", err)
	}
}

func applyPatch(e *models.Expense, couple *models.CoupleDetail, p ExpensePatch) error {
	if p.Title != nil {
		e.Title = strings.TrimSpace(*p.Title)
	}
	if p.Amount != nil {
		amount, err := parseAmount(*p.Amount)
		if err != nil {
			return err
		}
		e.Amount = amount
	}
	if p.Currency != nil {
		e.Currency = strings.ToUpper(strings.TrimSpace(*p.Currency))
	}
	if p.Category != nil {
		e.Category = strings.TrimSpace(*p.Category)
	}
	if p.Description != nil {
		e.Description = strings.TrimSpace(*p.Description)
	}
	if p.Date != nil {
		e.Date = p.Date.UTC().Truncate(time.Millisecond)
	}
	if p.SplitType != nil {
		e.SplitType = models.SplitType(*p.SplitType)
	}
	if p.PaidBy != nil {
		if !couple.HasMember(*p.PaidBy) {
			return validationError("paidBy must be a member of the couple")
		}
		e.PaidBy = *p.PaidBy
	}
	if p.PaidByOther != nil {
		if strings.TrimSpace(*p.PaidByOther) == "" {
			e.PaidByOther = nil
		} else {
			share, err := parseShare(*p.PaidByOther)
			if err != nil {
				return err
			}
			e.PaidByOther = &share
		}
	}
	if p.PayerPercent != nil {
		return applyPayerPercent(e, *p.PayerPercent)
	}
	return nil
}

// applyPayerPercent turns a custom payer percentage into the partner's share.
func applyPayerPercent(e *models.Expense, raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	pct, err := parseDecimal(raw, "payerPercent")
	if err != nil {
		return err
	}

	e.SplitType = models.SplitCustom
	split, err := calculator.ComputeSplit(e.Amount, models.SplitCustom, &pct, calculator.MinorUnits(e.Currency))
	if err != nil {
		return validationError("%v", err)
	}
	e.PaidByOther = &split.PartnerOwed
	return nil
}

func validateExpense(e *models.Expense) error {
	if e.Title == "" {
		return validationError("title cannot be empty")
	}
	if e.Category == "" {
		return validationError("category cannot be empty")
	}
	if !e.Amount.IsPositive() {
		return validationError("amount must be greater than 0")
	}
	if len(e.Currency) != 3 {
		return validationError("currency must be a 3-letter code")
	}
	if !e.SplitType.Valid() {
		return validationError("splitType must be one of equal, full, custom")
	}
	if e.Amount.GreaterThanOrEqual(maxAmount) {
		return validationError("amount is too large")
	}
	places := calculator.MinorUnits(e.Currency)
	if !fitsMinorUnits(e.Amount, places) {
		return validationError("amount has more than %d decimal places for %s", places, e.Currency)
	}
	if e.PaidByOther != nil {
		if e.PaidByOther.GreaterThan(e.Amount) {
			return validationError("paidByOther cannot exceed amount")
		}
		if !fitsMinorUnits(*e.PaidByOther, places) {
			return validationError("paidByOther has more than %d decimal places for %s", places, e.Currency)
		}
	}
	return nil
}

// fitsMinorUnits reports whether d has no digits below the currency's minor unit.
// Trailing zeros are fine: "200000.00" is a valid VND amount.
func fitsMinorUnits(d decimal.Decimal, places int32) bool {
	return d.Equal(d.Truncate(places))
}

func enrich(e *models.Expense, couple *models.CoupleDetail) (*models.ExpenseDetail, error) {
	split, err := calculator.ExpenseSplit(e)
	if err != nil {
		return nil, fmt.Errorf("failed to compute split: %w", err)
	}

	payer := couple.UserOne
	if e.PaidBy == couple.UserTwoID {
		payer = couple.UserTwo
	}

	return &models.ExpenseDetail{
		Expense:     *e,
		Payer:       payer,
		Couple:      *couple,
		PayerOwed:   split.PayerOwed,
		PartnerOwed: split.PartnerOwed,
	}, nil
}

// Bounds on client-supplied numbers. Exponent notation is refused because
// decimal expands "1e2000000" into millions of digits.
const maxNumberLength = 32

// maxAmount is the exclusive upper bound of an expense amount (15 integer digits).
var maxAmount = decimal.New(1, 15)

// parseDecimal parses a plain decimal such as "200000" or "12.50".
func parseDecimal(raw, field string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if len(raw) > maxNumberLength || strings.ContainsAny(raw, "eE") {
		return decimal.Zero, validationError("%s must be a plain decimal number", field)
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, validationError("%s must be a number", field)
	}
	return d, nil
}

// parseAmount parses a strictly positive decimal.
func parseAmount(raw string) (decimal.Decimal, error) {
	amount, err := parseDecimal(raw, "amount")
	if err != nil {
		return decimal.Zero, err
	}
	if !amount.IsPositive() {
		return decimal.Zero, validationError("amount must be greater than 0")
	}
	return amount, nil
}

// parseShare parses a non-negative decimal.
func parseShare(raw string) (decimal.Decimal, error) {
	share, err := parseDecimal(raw, "paidByOther")
	if err != nil {
		return decimal.Zero, err
	}
	if share.IsNegative() {
		return decimal.Zero, validationError("paidByOther cannot be negative")
	}
	return share, nil
}

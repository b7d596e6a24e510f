package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/loveeee/ledger/internal/models"
	"github.com/loveeee/ledger/internal/storage"
)

const expenseColumns = `id, couple_id, paid_by, title, amount, currency, category, description,
	date, split_type, paid_by_other, version, created_at, updated_at`

// CreateExpense persists a new expense to the database.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}
	if expense.UpdatedAt == 0 {
		expense.UpdatedAt = expense.CreatedAt
	}
	if expense.Version == 0 {
		expense.Version = 1
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO expenses (`+expenseColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.CoupleID, expense.PaidBy, expense.Title,
		expense.Amount.String(), expense.Currency, expense.Category, expense.Description,
		expense.Date.UnixMilli(), string(expense.SplitType), nullableDecimal(expense.PaidByOther),
		expense.Version, expense.CreatedAt, expense.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	return nil
}

// GetExpense retrieves an expense by ID.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE id = ?`,
		expenseID,
	)

	expense, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	return expense, nil
}

// ListExpensesByCouple retrieves all expenses for a couple, most recent date first.
func (s *SQLiteStore) ListExpensesByCouple(ctx context.Context, coupleID string) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses
		 WHERE couple_id = ?
		 ORDER BY date DESC, created_at DESC, id`,
		coupleID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses by couple: %w", err)
	}
	defer rows.Close()

	expenses := []*models.Expense{}
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	return expenses, nil
}

// UpdateExpense writes every mutable field, guarded by the version the caller read.
func (s *SQLiteStore) UpdateExpense(ctx context.Context, expense *models.Expense) error {
	updatedAt := time.Now().Unix()

	result, err := s.db.ExecContext(ctx,
		`UPDATE expenses
		 SET paid_by = ?, title = ?, amount = ?, currency = ?, category = ?, description = ?,
		     date = ?, split_type = ?, paid_by_other = ?, version = version + 1, updated_at = ?
		 WHERE id = ? AND version = ?`,
		expense.PaidBy, expense.Title, expense.Amount.String(), expense.Currency,
		expense.Category, expense.Description, expense.Date.UnixMilli(),
		string(expense.SplitType), nullableDecimal(expense.PaidByOther), updatedAt,
		expense.ID, expense.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		// Distinguish a deleted row from a stale version
		var exists int
		err := s.db.QueryRowContext(ctx, "SELECT 1 FROM expenses WHERE id = ?", expense.ID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("expense %s: %w", expense.ID, storage.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to check expense existence: %w", err)
		}
		return fmt.Errorf("expense %s at version %d: %w", expense.ID, expense.Version, storage.ErrConflict)
	}

	expense.Version++
	expense.UpdatedAt = updatedAt
	return nil
}

// DeleteExpense removes an expense by ID.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, expenseID string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", expenseID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}

	return nil
}

func scanExpense(row rowScanner) (*models.Expense, error) {
	expense := &models.Expense{}
	var (
		amount      decimal.Decimal
		date        int64
		splitType   string
		paidByOther decimal.NullDecimal
	)

	if err := row.Scan(&expense.ID, &expense.CoupleID, &expense.PaidBy, &expense.Title,
		&amount, &expense.Currency, &expense.Category, &expense.Description,
		&date, &splitType, &paidByOther, &expense.Version,
		&expense.CreatedAt, &expense.UpdatedAt); err != nil {
		return nil, err
	}

	expense.Amount = amount
	expense.Date = time.UnixMilli(date).UTC()
	expense.SplitType = models.SplitType(splitType)
	if paidByOther.Valid {
		v := paidByOther.Decimal
		expense.PaidByOther = &v
	}

	return expense, nil
}

func nullableDecimal(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.String()
}

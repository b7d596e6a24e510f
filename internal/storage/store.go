// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/loveeee/ledger/internal/models"
)

var (
	// ErrNotFound is returned when a record looked up by ID does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a conditional update finds a newer version.
	ErrConflict = errors.New("version conflict")

	// ErrAlreadyPaired is returned when a user is already a member of a couple.
	ErrAlreadyPaired = errors.New("user already belongs to a couple")

	// ErrEmailTaken is returned when a user with the same email exists.
	ErrEmailTaken = errors.New("email already registered")
)

// UserStore persists user accounts.
type UserStore interface {
	// CreateUser inserts a new user. Returns ErrEmailTaken on duplicate email.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail returns nil, nil when no user has the email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID returns nil, nil when the user does not exist.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// GetUsersByIDs returns the users found, keyed by ID.
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)
}

// CoupleStore persists couples and their membership.
type CoupleStore interface {
	// CreateCouple inserts the couple and both membership rows in one transaction.
	// Returns ErrAlreadyPaired if either member already belongs to a couple.
	CreateCouple(ctx context.Context, couple *models.Couple) error

	// GetCouple returns ErrNotFound when the couple does not exist.
	GetCouple(ctx context.Context, coupleID string) (*models.Couple, error)

	// GetCoupleByMember returns nil, nil when the user has no couple.
	GetCoupleByMember(ctx context.Context, userID string) (*models.Couple, error)

	// UpdateCouple overwrites the couple's settings.
	UpdateCouple(ctx context.Context, couple *models.Couple) error
}

// ExpenseStore persists expenses.
type ExpenseStore interface {
	// CreateExpense assigns ID, version and timestamps when unset.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// GetExpense returns ErrNotFound when the expense does not exist.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// ListExpensesByCouple returns the couple's expenses, newest date first.
	ListExpensesByCouple(ctx context.Context, coupleID string) ([]*models.Expense, error)

	// UpdateExpense writes the expense only if the stored version still equals
	// expense.Version, then increments expense.Version.
	// Returns ErrNotFound or ErrConflict.
	UpdateExpense(ctx context.Context, expense *models.Expense) error

	// DeleteExpense permanently removes the expense. Returns ErrNotFound.
	DeleteExpense(ctx context.Context, expenseID string) error
}

// Store defines the interface for ledger storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	UserStore
	CoupleStore
	ExpenseStore

	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}

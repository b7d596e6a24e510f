package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/loveeee/ledger/internal/models"
	"github.com/loveeee/ledger/internal/storage"
)

const coupleColumns = "c.id, c.user_one_id, c.user_two_id, c.start_date, c.anniversary, c.shared_goals, c.created_at, c.updated_at"

// CreateCouple persists a new couple and its two membership rows.
func (s *SQLiteStore) CreateCouple(ctx context.Context, couple *models.Couple) error {
	if couple.ID == "" {
		couple.ID = uuid.New().String()
	}
	if couple.CreatedAt == 0 {
		couple.CreatedAt = time.Now().Unix()
	}
	if couple.UpdatedAt == 0 {
		couple.UpdatedAt = couple.CreatedAt
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO couples (id, user_one_id, user_two_id, start_date, anniversary, shared_goals, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		couple.ID, couple.UserOneID, couple.UserTwoID,
		couple.StartDate.UnixMilli(), nullableMillis(couple.Anniversary), couple.SharedGoals,
		couple.CreatedAt, couple.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert couple: %w", err)
	}

	for _, userID := range []string{couple.UserOneID, couple.UserTwoID} {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO couple_members (user_id, couple_id) VALUES (?, ?)",
			userID, couple.ID,
		)
		if isUniqueViolation(err) {
			return storage.ErrAlreadyPaired
		}
		if err != nil {
			return fmt.Errorf("failed to insert couple member: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetCouple retrieves a couple by ID.
func (s *SQLiteStore) GetCouple(ctx context.Context, coupleID string) (*models.Couple, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+coupleColumns+` FROM couples c WHERE c.id = ?`,
		coupleID,
	)

	couple, err := scanCouple(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("couple %s: %w", coupleID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get couple: %w", err)
	}

	return couple, nil
}

// GetCoupleByMember retrieves the couple the user belongs to.
func (s *SQLiteStore) GetCoupleByMember(ctx context.Context, userID string) (*models.Couple, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+coupleColumns+`
		 FROM couple_members m JOIN couples c ON c.id = m.couple_id
		 WHERE m.user_id = ?`,
		userID,
	)

	couple, err := scanCouple(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // No couple yet
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get couple by member: %w", err)
	}

	return couple, nil
}

// UpdateCouple overwrites the couple's settings.
func (s *SQLiteStore) UpdateCouple(ctx context.Context, couple *models.Couple) error {
	couple.UpdatedAt = time.Now().Unix()

	result, err := s.db.ExecContext(ctx,
		`UPDATE couples SET start_date = ?, anniversary = ?, shared_goals = ?, updated_at = ?
		 WHERE id = ?`,
		couple.StartDate.UnixMilli(), nullableMillis(couple.Anniversary), couple.SharedGoals,
		couple.UpdatedAt, couple.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update couple: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("couple %s: %w", couple.ID, storage.ErrNotFound)
	}

	return nil
}

func scanCouple(row rowScanner) (*models.Couple, error) {
	couple := &models.Couple{}
	var startDate int64
	var anniversary sql.NullInt64

	if err := row.Scan(&couple.ID, &couple.UserOneID, &couple.UserTwoID,
		&startDate, &anniversary, &couple.SharedGoals,
		&couple.CreatedAt, &couple.UpdatedAt); err != nil {
		return nil, err
	}

	couple.StartDate = time.UnixMilli(startDate).UTC()
	if anniversary.Valid {
		t := time.UnixMilli(anniversary.Int64).UTC()
		couple.Anniversary = &t
	}

	return couple, nil
}

func nullableMillis(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UnixMilli()
}

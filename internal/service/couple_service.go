package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/loveeee/ledger/internal/events"
	"github.com/loveeee/ledger/internal/models"
	"github.com/loveeee/ledger/internal/storage"
)

// CoupleService resolves and manages couples.
type CoupleService struct {
	store     storage.Store
	publisher events.Publisher
}

// NewCoupleService creates a new CoupleService with the given storage backend.
func NewCoupleService(store storage.Store, publisher events.Publisher) *CoupleService {
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &CoupleService{store: store, publisher: publisher}
}

// ResolveCouple finds the couple the user belongs to, with both member profiles.
// A user without a couple gets nil, nil.
func (s *CoupleService) ResolveCouple(ctx context.Context, userID string) (*models.CoupleDetail, error) {
	if userID == "" {
		return nil, validationError("userId is required")
	}

	couple, err := s.store.GetCoupleByMember(ctx, userID)
	if err != nil {
		slog.Error("ResolveCouple failed", "user_id", userID, "error", err)
		return nil, err
	}
	if couple == nil {
		return nil, nil
	}

	return s.detail(ctx, couple)
}

// detail loads both member profiles for the couple.
func (s *CoupleService) detail(ctx context.Context, couple *models.Couple) (*models.CoupleDetail, error) {
	users, err := s.store.GetUsersByIDs(ctx, []string{couple.UserOneID, couple.UserTwoID})
	if err != nil {
		return nil, fmt.Errorf("failed to load couple members: %w", err)
	}
	return coupleDetail(couple, users), nil
}

func coupleDetail(couple *models.Couple, users map[string]*models.User) *models.CoupleDetail {
	return &models.CoupleDetail{
		Couple:  *couple,
		UserOne: users[couple.UserOneID].Profile(),
		UserTwo: users[couple.UserTwoID].Profile(),
	}
}

// CreateCoupleInput is the couple setup request.
type CreateCoupleInput struct {
	UserID       string
	PartnerEmail string
	StartDate    time.Time
	Anniversary  *time.Time
	SharedGoals  string
}

// CreateCouple pairs the caller with the user registered under PartnerEmail.
func (s *CoupleService) CreateCouple(ctx context.Context, in CreateCoupleInput) (*models.CoupleDetail, error) {
	if in.UserID == "" {
		return nil, validationError("userId is required")
	}
	email := strings.TrimSpace(strings.ToLower(in.PartnerEmail))
	if email == "" {
		return nil, validationError("partnerEmail is required")
	}

	user, err := s.store.GetUserByID(ctx, in.UserID)
	if err != nil {
		slog.Error("CreateCouple failed", "user_id", in.UserID, "error", err)
		return nil, err
	}
	if user == nil {
		return nil, validationError("user %s does not exist", in.UserID)
	}

	partner, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		slog.Error("CreateCouple failed", "partner_email", email, "error", err)
		return nil, err
	}
	if partner == nil {
		return nil, validationError("no user registered with email %s", email)
	}
	if partner.ID == user.ID {
		return nil, validationError("you cannot pair with yourself")
	}

	startDate := in.StartDate
	if startDate.IsZero() {
		startDate = time.Now()
	}

	couple := &models.Couple{
		UserOneID:   user.ID,
		UserTwoID:   partner.ID,
		StartDate:   startDate.UTC().Truncate(time.Millisecond),
		Anniversary: truncateDate(in.Anniversary),
		SharedGoals: strings.TrimSpace(in.SharedGoals),
	}

	if err := s.store.CreateCouple(ctx, couple); err != nil {
		if errors.Is(err, storage.ErrAlreadyPaired) {
			return nil, validationError("one of you already belongs to a couple")
		}
		slog.Error("CreateCouple failed", "user_id", user.ID, "error", err)
		return nil, err
	}

	slog.Info("Couple created", "couple_id", couple.ID, "user_one", user.ID, "user_two", partner.ID)
	s.publish(ctx, events.New(events.CoupleCreated, couple.ID, "", user.ID, 0))

	return coupleDetail(couple, map[string]*models.User{user.ID: user, partner.ID: partner}), nil
}

// CoupleSettingsPatch holds the settings to change; nil fields keep their value.
type CoupleSettingsPatch struct {
	StartDate   *time.Time
	Anniversary *time.Time
	// ClearAnniversary removes the anniversary date.
	ClearAnniversary bool
	SharedGoals      *string
}

// UpdateCoupleSettings changes the caller's couple settings.
func (s *CoupleService) UpdateCoupleSettings(ctx context.Context, userID string, patch CoupleSettingsPatch) (*models.CoupleDetail, error) {
	if userID == "" {
		return nil, validationError("userId is required")
	}

	couple, err := s.store.GetCoupleByMember(ctx, userID)
	if err != nil {
		slog.Error("UpdateCoupleSettings failed", "user_id", userID, "error", err)
		return nil, err
	}
	if couple == nil {
		return nil, newError(ErrNotFound, msgCoupleMissing)
	}

	if patch.StartDate != nil {
		couple.StartDate = patch.StartDate.UTC().Truncate(time.Millisecond)
	}
	if patch.ClearAnniversary {
		couple.Anniversary = nil
	} else if patch.Anniversary != nil {
		couple.Anniversary = truncateDate(patch.Anniversary)
	}
	if patch.SharedGoals != nil {
		couple.SharedGoals = strings.TrimSpace(*patch.SharedGoals)
	}

	if err := s.store.UpdateCouple(ctx, couple); err != nil {
		slog.Error("UpdateCoupleSettings failed", "couple_id", couple.ID, "error", err)
		return nil, err
	}

	slog.Info("Couple settings updated", "couple_id", couple.ID, "user_id", userID)
	return s.detail(ctx, couple)
}

func (s *CoupleService) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		slog.Warn("Failed to publish event", "type", event.Type, "couple_id", event.CoupleID, "error", err)
	}
}

func truncateDate(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC().Truncate(time.Millisecond)
	return &v
}

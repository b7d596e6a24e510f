package service

import (
	"context"
	"testing"
	"time"

	"github.com/loveeee/ledger/internal/events"
	"github.com/loveeee/ledger/internal/models"
)

func TestResolveCouple(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name       string
		userID     string
		wantCouple bool
		wantErr    error
	}{
		{name: "first member", userID: f.an.ID, wantCouple: true},
		{name: "second member", userID: f.binh.ID, wantCouple: true},
		{name: "single user", userID: f.chi.ID},
		{name: "unknown user", userID: "nobody"},
		{name: "empty user", userID: "", wantErr: ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			couple, err := f.couples.ResolveCouple(ctx, tt.userID)
			if tt.wantErr != nil {
				assertKind(t, err, tt.wantErr)
				return
			}
			if err != nil {
				t.Fatalf("ResolveCouple failed: %v", err)
			}
			if (couple != nil) != tt.wantCouple {
				t.Fatalf("couple = %v, want present=%v", couple, tt.wantCouple)
			}
			if couple == nil {
				return
			}
			if couple.ID != f.couple.ID {
				t.Errorf("ID = %s, want %s", couple.ID, f.couple.ID)
			}
			if couple.UserOne.Name != "An" || couple.UserTwo.Name != "Binh" {
				t.Errorf("profiles = %+v / %+v", couple.UserOne, couple.UserTwo)
			}
		})
	}
}

func TestCreateCouple(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	extra := models.NewUser("giang@example.com", "Giang", "hash")
	if err := f.store.CreateUser(ctx, extra); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	tests := []struct {
		name string
		in   CreateCoupleInput
	}{
		{"missing user", CreateCoupleInput{PartnerEmail: extra.Email}},
		{"missing partner email", CreateCoupleInput{UserID: f.chi.ID}},
		{"unknown caller", CreateCoupleInput{UserID: "nobody", PartnerEmail: extra.Email}},
		{"unknown partner", CreateCoupleInput{UserID: f.chi.ID, PartnerEmail: "ghost@example.com"}},
		{"self pairing", CreateCoupleInput{UserID: f.chi.ID, PartnerEmail: f.chi.Email}},
		{"partner already paired", CreateCoupleInput{UserID: f.chi.ID, PartnerEmail: f.binh.Email}},
		{"caller already paired", CreateCoupleInput{UserID: f.an.ID, PartnerEmail: extra.Email}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.couples.CreateCouple(ctx, tt.in)
			assertKind(t, err, ErrValidation)
		})
	}

	t.Run("success", func(t *testing.T) {
		start := time.Date(2023, 2, 14, 0, 0, 0, 0, time.UTC)
		anniversary := time.Date(2023, 2, 14, 0, 0, 0, 0, time.UTC)
		created, err := f.couples.CreateCouple(ctx, CreateCoupleInput{
			UserID:       f.chi.ID,
			PartnerEmail: "  GIANG@example.com ",
			StartDate:    start,
			Anniversary:  &anniversary,
			SharedGoals:  "Trip to Da Lat",
		})
		if err != nil {
			t.Fatalf("CreateCouple failed: %v", err)
		}
		if created.UserOneID != f.chi.ID || created.UserTwoID != extra.ID {
			t.Errorf("members = %s/%s", created.UserOneID, created.UserTwoID)
		}
		if !created.StartDate.Equal(start) || created.Anniversary == nil || created.SharedGoals != "Trip to Da Lat" {
			t.Errorf("unexpected couple: %+v", created.Couple)
		}

		resolved, err := f.couples.ResolveCouple(ctx, extra.ID)
		if err != nil || resolved == nil || resolved.ID != created.ID {
			t.Fatalf("partner does not resolve to new couple: %v, %v", resolved, err)
		}

		types := f.recorder.Types()
		if types[len(types)-1] != events.CoupleCreated {
			t.Errorf("last event = %s, want %s", types[len(types)-1], events.CoupleCreated)
		}
	})
}

func TestUpdateCoupleSettings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	anniversary := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	goals := "Save for a house"

	updated, err := f.couples.UpdateCoupleSettings(ctx, f.binh.ID, CoupleSettingsPatch{
		Anniversary: &anniversary,
		SharedGoals: &goals,
	})
	if err != nil {
		t.Fatalf("UpdateCoupleSettings failed: %v", err)
	}
	if updated.Anniversary == nil || !updated.Anniversary.Equal(anniversary) || updated.SharedGoals != goals {
		t.Errorf("unexpected settings: %+v", updated.Couple)
	}
	if !updated.StartDate.Equal(f.couple.StartDate) {
		t.Errorf("StartDate changed: %v -> %v", f.couple.StartDate, updated.StartDate)
	}

	cleared, err := f.couples.UpdateCoupleSettings(ctx, f.an.ID, CoupleSettingsPatch{ClearAnniversary: true})
	if err != nil {
		t.Fatalf("UpdateCoupleSettings failed: %v", err)
	}
	if cleared.Anniversary != nil {
		t.Errorf("Anniversary = %v, want nil", cleared.Anniversary)
	}
	if cleared.SharedGoals != goals {
		t.Errorf("SharedGoals = %q, want %q", cleared.SharedGoals, goals)
	}

	_, err = f.couples.UpdateCoupleSettings(ctx, f.chi.ID, CoupleSettingsPatch{SharedGoals: &goals})
	assertKind(t, err, ErrNotFound)

	_, err = f.couples.UpdateCoupleSettings(ctx, "", CoupleSettingsPatch{})
	assertKind(t, err, ErrValidation)
}

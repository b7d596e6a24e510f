package auth

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/loveeee/ledger/internal/models"
	"github.com/loveeee/ledger/internal/storage/sqlite"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestJWTManager(t *testing.T) {
	manager := NewJWTManager(testSecret, time.Hour)
	user := &models.User{ID: "user-1", Email: "an@example.com"}

	t.Run("round trip", func(t *testing.T) {
		token, err := manager.Generate(user)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		claims, err := manager.Validate(token)
		if err != nil {
			t.Fatalf("Validate failed: %v", err)
		}
		if claims.UserID() != "user-1" || claims.Email != "an@example.com" {
			t.Errorf("unexpected claims: %+v", claims)
		}
	})

	t.Run("wrong secret is rejected", func(t *testing.T) {
		token, _ := NewJWTManager("another-secret-another-secret-xx", time.Hour).Generate(user)
		if _, err := manager.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		token, _ := NewJWTManager(testSecret, -time.Minute).Generate(user)
		if _, err := manager.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("garbage is rejected", func(t *testing.T) {
		if _, err := manager.Validate("not-a-jwt"); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header  string
		want    string
		wantErr error
	}{
		{"Bearer abc.def", "abc.def", nil},
		{"bearer abc.def", "abc.def", nil},
		{"", "", ErrMissingToken},
		{"Basic abc", "", ErrInvalidToken},
		{"Bearer", "", ErrInvalidToken},
		{"Bearer   ", "", ErrInvalidToken},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got, err := BearerToken(tt.header)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("BearerToken(%q) error = %v, want %v", tt.header, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("BearerToken(%q) = %q, want %q", tt.header, got, tt.want)
			}
		})
	}
}

func TestPasswordAuthenticator(t *testing.T) {
	store, err := sqlite.New(filepath.Join(t.TempDir(), "auth.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	authenticator := NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost)
	ctx := context.Background()

	t.Run("register then authenticate", func(t *testing.T) {
		user, err := authenticator.Register(ctx, "an@example.com", "An", "correct-horse", "https://img/an.png")
		if err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		if user.PasswordHash == "correct-horse" {
			t.Error("password stored in clear text")
		}

		got, err := authenticator.Authenticate(ctx, "an@example.com", "correct-horse")
		if err != nil {
			t.Fatalf("Authenticate failed: %v", err)
		}
		if got.ID != user.ID || got.AvatarURL != "https://img/an.png" {
			t.Errorf("unexpected user: %+v", got)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := authenticator.Authenticate(ctx, "an@example.com", "wrong-password")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := authenticator.Authenticate(ctx, "nobody@example.com", "whatever1")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, err := authenticator.Register(ctx, "an@example.com", "An again", "password123", "")
		if !errors.Is(err, ErrEmailExists) {
			t.Errorf("expected ErrEmailExists, got %v", err)
		}
	})

	t.Run("weak password", func(t *testing.T) {
		_, err := authenticator.Register(ctx, "binh@example.com", "Binh", "short", "")
		if !errors.Is(err, ErrWeakPassword) {
			t.Errorf("expected ErrWeakPassword, got %v", err)
		}
	})
}

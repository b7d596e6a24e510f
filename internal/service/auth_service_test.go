package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/loveeee/ledger/internal/auth"
	"github.com/loveeee/ledger/internal/storage/sqlite"
)

func newAuthService(t *testing.T) (*AuthService, *auth.JWTManager) {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "auth.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	jwtManager := auth.NewJWTManager("test-secret-key-that-is-32-bytes!", time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost)
	return NewAuthService(authenticator, jwtManager, nil), jwtManager
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	svc, jwtManager := newAuthService(t)
	ctx := context.Background()

	session, err := svc.Register(ctx, RegisterInput{
		Email:       " An@Example.com ",
		DisplayName: "An",
		Password:    "hunter2hunter2",
		AvatarURL:   "https://example.com/an.png",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if session.User.Email != "an@example.com" {
		t.Errorf("Email = %q, want normalized", session.User.Email)
	}
	if session.User.AvatarURL != "https://example.com/an.png" {
		t.Errorf("AvatarURL = %q", session.User.AvatarURL)
	}

	claims, err := jwtManager.Validate(session.Token)
	if err != nil {
		t.Fatalf("issued token is invalid: %v", err)
	}
	if claims.UserID() != session.User.ID {
		t.Errorf("token subject = %s, want %s", claims.UserID(), session.User.ID)
	}

	login, err := svc.Login(ctx, "AN@example.com", "hunter2hunter2")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if login.User.ID != session.User.ID {
		t.Errorf("logged in as %s, want %s", login.User.ID, session.User.ID)
	}
}

func TestAuthService_RegisterErrors(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{Email: "an@example.com", DisplayName: "An", Password: "hunter2hunter2"}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	tests := []struct {
		name string
		in   RegisterInput
	}{
		{"invalid email", RegisterInput{Email: "not-an-email", DisplayName: "X", Password: "hunter2hunter2"}},
		{"missing name", RegisterInput{Email: "x@example.com", Password: "hunter2hunter2"}},
		{"short password", RegisterInput{Email: "x@example.com", DisplayName: "X", Password: "short"}},
		{"duplicate email", RegisterInput{Email: "an@example.com", DisplayName: "An again", Password: "hunter2hunter2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.in)
			assertKind(t, err, ErrValidation)
		})
	}
}

func TestAuthService_LoginErrors(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{Email: "an@example.com", DisplayName: "An", Password: "hunter2hunter2"}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	_, err := svc.Login(ctx, "", "")
	assertKind(t, err, ErrValidation)

	_, err = svc.Login(ctx, "an@example.com", "wrong-password")
	assertKind(t, err, ErrUnauthenticated)

	_, err = svc.Login(ctx, "ghost@example.com", "hunter2hunter2")
	assertKind(t, err, ErrUnauthenticated)
}

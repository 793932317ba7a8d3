package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"renovatrack/internal/auth"
	"renovatrack/internal/repository/memory"
)

func TestSeedAdminAndLogin(t *testing.T) {
	store := memory.NewStore()
	svc := NewAuthService(store.Users, "test-secret", zap.NewNop())
	ctx := context.Background()

	if err := svc.SeedAdmin(ctx, "admin", "hunter2"); err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	// Seeding again is a no-op, not an error.
	if err := svc.SeedAdmin(ctx, "admin", "different-password"); err != nil {
		t.Fatalf("re-seed admin: %v", err)
	}

	token, err := svc.Login(ctx, "admin", "hunter2")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	userID, err := auth.ParseJWT(token, "test-secret")
	if err != nil {
		t.Fatalf("parse issued token: %v", err)
	}
	if userID == 0 {
		t.Fatal("token carries no user id")
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	store := memory.NewStore()
	svc := NewAuthService(store.Users, "test-secret", zap.NewNop())
	ctx := context.Background()

	if err := svc.SeedAdmin(ctx, "admin", "hunter2"); err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	if _, err := svc.Login(ctx, "admin", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Login(ctx, "nobody", "hunter2"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown user err = %v, want ErrInvalidCredentials", err)
	}
}

func TestSeedAdminSkipsEmptyConfig(t *testing.T) {
	store := memory.NewStore()
	svc := NewAuthService(store.Users, "test-secret", zap.NewNop())

	if err := svc.SeedAdmin(context.Background(), "", ""); err != nil {
		t.Fatalf("seed with empty config: %v", err)
	}
	if _, err := svc.Login(context.Background(), "", ""); err == nil {
		t.Fatal("login with empty credentials succeeded")
	}
}

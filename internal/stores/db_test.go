package stores

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/ajdelacruz/saristore-backend/pkg/db/models"
	pkgerrors "github.com/ajdelacruz/saristore-backend/pkg/errors"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("SARISTORE_DB_DSN")
	if dsn == "" {
		t.Skip("SARISTORE_DB_DSN is not set")
	}

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	return conn
}

func mustCreateOwner(t *testing.T, tx *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{
		ID:           uuid.New(),
		Username:     fmt.Sprintf("ss_test_%s", uuid.NewString()),
		Email:        fmt.Sprintf("ss_test_%s@example.com", uuid.NewString()),
		PasswordHash: "hash",
	}
	if err := tx.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func TestEnsureForOwnerCreatesDefaultStore(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	ctx := context.Background()
	owner := mustCreateOwner(t, tx)
	svc, err := NewService(NewRepository(tx))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// First dashboard visit conjures a store out of the username.
	store, err := svc.EnsureForOwner(ctx, owner.ID, "nena")
	if err != nil {
		t.Fatalf("ensure store: %v", err)
	}
	if store.Name != "nena's Store" {
		t.Fatalf("unexpected name %q", store.Name)
	}
	if store.ThemeColor != "#4f46e5" {
		t.Fatalf("unexpected theme %q", store.ThemeColor)
	}

	// Subsequent visits return the same store instead of minting another.
	again, err := svc.EnsureForOwner(ctx, owner.ID, "nena")
	if err != nil {
		t.Fatalf("ensure store twice: %v", err)
	}
	if again.ID != store.ID {
		t.Fatalf("expected the existing store %s, got %s", store.ID, again.ID)
	}

	var count int64
	if err := tx.Model(&models.Store{}).Where("owner_id = ?", owner.ID).Count(&count).Error; err != nil {
		t.Fatalf("count stores: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one store, found %d", count)
	}
}

func TestEnsureForOwnerBlankUsername(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	ctx := context.Background()
	owner := mustCreateOwner(t, tx)
	svc, err := NewService(NewRepository(tx))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	store, err := svc.EnsureForOwner(ctx, owner.ID, "   ")
	if err != nil {
		t.Fatalf("ensure store: %v", err)
	}
	if store.Name != "My's Store" {
		t.Fatalf("unexpected name %q", store.Name)
	}

	if _, err := svc.EnsureForOwner(ctx, uuid.Nil, "nena"); err == nil {
		t.Fatal("expected validation error for nil owner")
	} else if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error %v", err)
	}
}

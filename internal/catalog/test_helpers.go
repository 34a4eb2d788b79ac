package catalog

import (
	"fmt"
	"testing"

	"github.com/ajdelacruz/saristore-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func mustCreateTestUser(t *testing.T, tx *gorm.DB) *models.User {
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

func mustCreateTestStore(t *testing.T, tx *gorm.DB, ownerID uuid.UUID) *models.Store {
	t.Helper()
	store := &models.Store{
		ID:      uuid.New(),
		OwnerID: ownerID,
		Name:    "Repo Test Store",
	}
	if err := tx.Create(store).Error; err != nil {
		t.Fatalf("create store: %v", err)
	}
	return store
}

func mustCreateTestItem(t *testing.T, tx *gorm.DB, storeID uuid.UUID, name string, position int) *models.Item {
	t.Helper()
	item := &models.Item{
		ID:        uuid.New(),
		StoreID:   storeID,
		Name:      name,
		Category:  "General",
		Quantity:  10,
		Price:     decimal.NewFromInt(20),
		CostPrice: decimal.NewFromInt(15),
		Position:  position,
	}
	if err := tx.Create(item).Error; err != nil {
		t.Fatalf("create item: %v", err)
	}
	return item
}

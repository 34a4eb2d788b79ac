package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	pkgAuth "github.com/ajdelacruz/saristore-backend/pkg/auth"
	"github.com/ajdelacruz/saristore-backend/pkg/config"
	"github.com/ajdelacruz/saristore-backend/pkg/db/models"
	"github.com/ajdelacruz/saristore-backend/pkg/enums"
	pkgerrors "github.com/ajdelacruz/saristore-backend/pkg/errors"
	"github.com/ajdelacruz/saristore-backend/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type fakeUserRepo struct {
	user *models.User
}

func (f *fakeUserRepo) FindByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	if f.user == nil {
		return nil, gorm.ErrRecordNotFound
	}
	if f.user.Username != identifier && !strings.EqualFold(f.user.Email, identifier) {
		return nil, gorm.ErrRecordNotFound
	}
	return f.user, nil
}

type fakeCodeResender struct {
	emails []string
}

func (f *fakeCodeResender) ResendCode(ctx context.Context, req ResendCodeRequest) error {
	f.emails = append(f.emails, req.Email)
	return nil
}

type fakeStoreRepo struct {
	store *models.Store
}

func (f *fakeStoreRepo) FindByOwnerID(ctx context.Context, ownerID uuid.UUID) (*models.Store, error) {
	if f.store == nil || f.store.OwnerID != ownerID {
		return nil, gorm.ErrRecordNotFound
	}
	return f.store, nil
}

type fakeSessionManager struct {
	generated []string
	revoked   []string
}

func (f *fakeSessionManager) Generate(ctx context.Context, accessID string) (string, error) {
	f.generated = append(f.generated, accessID)
	return "refresh-" + accessID, nil
}

func (f *fakeSessionManager) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	return "new-access-id", "new-refresh-token", nil
}

func (f *fakeSessionManager) Revoke(ctx context.Context, accessID string) error {
	f.revoked = append(f.revoked, accessID)
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "secret",
		Issuer:            "saristore",
		ExpirationMinutes: 30,
	}
}

func mustHashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{
		ArgonMemoryKB:    32768,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return hash
}

func buildTestService(t *testing.T, user *models.User, store *models.Store) (Service, *fakeSessionManager) {
	t.Helper()
	sessions := &fakeSessionManager{}
	svc, err := NewService(ServiceParams{
		UserRepo:       &fakeUserRepo{user: user},
		StoreRepo:      &fakeStoreRepo{store: store},
		SessionManager: sessions,
		JWTConfig:      testJWTConfig(),
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, sessions
}

func TestServiceLoginSellerWithStore(t *testing.T) {
	password := "seller-secret-1"
	user := &models.User{
		ID:            uuid.New(),
		Username:      "alingnena",
		Email:         "nena@example.com",
		PasswordHash:  mustHashPassword(t, password),
		Role:          enums.UserRoleSeller,
		EmailVerified: true,
	}
	store := &models.Store{ID: uuid.New(), OwnerID: user.ID, Name: "Aling Nena's"}

	svc, sessions := buildTestService(t, user, store)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Username: user.Username,
		Password: password,
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("unexpected user id claim %s", claims.UserID)
	}
	if claims.StoreID == nil || *claims.StoreID != store.ID {
		t.Fatal("store id claim missing")
	}
	if claims.Role != enums.UserRoleSeller {
		t.Fatalf("unexpected role claim %s", claims.Role)
	}
	if resp.RefreshToken == "" {
		t.Fatal("expected refresh token")
	}
	if len(sessions.generated) != 1 || sessions.generated[0] != claims.ID {
		t.Fatalf("session not generated for jti %s", claims.ID)
	}
	if resp.User == nil || resp.User.Username != user.Username {
		t.Fatal("user dto missing from response")
	}
}

func TestServiceLoginWrongPassword(t *testing.T) {
	user := &models.User{
		ID:            uuid.New(),
		Username:      "alingnena",
		PasswordHash:  mustHashPassword(t, "correct-password"),
		Role:          enums.UserRoleSeller,
		EmailVerified: true,
	}
	svc, _ := buildTestService(t, user, nil)

	_, err := svc.Login(context.Background(), LoginRequest{
		Username: user.Username,
		Password: "wrong-password",
	})
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestServiceLoginUnknownUser(t *testing.T) {
	svc, _ := buildTestService(t, nil, nil)

	_, err := svc.Login(context.Background(), LoginRequest{
		Username: "ghost",
		Password: "whatever",
	})
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestServiceLoginUnverifiedEmail(t *testing.T) {
	password := "seller-secret-1"
	user := &models.User{
		ID:           uuid.New(),
		Username:     "newseller",
		PasswordHash: mustHashPassword(t, password),
		Role:         enums.UserRoleSeller,
	}
	svc, _ := buildTestService(t, user, nil)

	_, err := svc.Login(context.Background(), LoginRequest{
		Username: user.Username,
		Password: password,
	})
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeVerification {
		t.Fatalf("expected verification error, got %v", err)
	}
}

func TestServiceLoginWithEmail(t *testing.T) {
	password := "seller-secret-1"
	user := &models.User{
		ID:            uuid.New(),
		Username:      "alingnena",
		Email:         "nena@example.com",
		PasswordHash:  mustHashPassword(t, password),
		Role:          enums.UserRoleSeller,
		EmailVerified: true,
	}
	svc, _ := buildTestService(t, user, nil)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Username: "Nena@Example.com",
		Password: password,
	})
	if err != nil {
		t.Fatalf("login by email: %v", err)
	}
	if resp.User == nil || resp.User.Username != user.Username {
		t.Fatal("expected the same account via email identifier")
	}
}

func TestServiceLoginUnverifiedResendsExpiredCode(t *testing.T) {
	password := "seller-secret-1"
	staleCode := "123456"
	expired := time.Now().UTC().Add(-time.Hour)
	user := &models.User{
		ID:                    uuid.New(),
		Username:              "newseller",
		Email:                 "new@example.com",
		PasswordHash:          mustHashPassword(t, password),
		Role:                  enums.UserRoleSeller,
		VerificationCode:      &staleCode,
		VerificationExpiresAt: &expired,
	}
	resender := &fakeCodeResender{}
	sessions := &fakeSessionManager{}
	svc, err := NewService(ServiceParams{
		UserRepo:       &fakeUserRepo{user: user},
		StoreRepo:      &fakeStoreRepo{},
		SessionManager: sessions,
		Verification:   resender,
		JWTConfig:      testJWTConfig(),
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.Login(context.Background(), LoginRequest{
		Username: user.Username,
		Password: password,
	})
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeVerification {
		t.Fatalf("expected verification error, got %v", err)
	}
	if len(resender.emails) != 1 || resender.emails[0] != user.Email {
		t.Fatalf("expected a fresh code for %s, got %v", user.Email, resender.emails)
	}

	// A still-valid code is left alone.
	future := time.Now().UTC().Add(time.Hour)
	user.VerificationExpiresAt = &future
	_, _ = svc.Login(context.Background(), LoginRequest{
		Username: user.Username,
		Password: password,
	})
	if len(resender.emails) != 1 {
		t.Fatalf("expected no resend for a live code, got %v", resender.emails)
	}
}

func TestServiceRefreshRotatesTokens(t *testing.T) {
	user := &models.User{
		ID:            uuid.New(),
		Username:      "alingnena",
		PasswordHash:  mustHashPassword(t, "seller-secret-1"),
		Role:          enums.UserRoleSeller,
		EmailVerified: true,
	}
	svc, _ := buildTestService(t, user, nil)

	login, err := svc.Login(context.Background(), LoginRequest{
		Username: user.Username,
		Password: "seller-secret-1",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	resp, err := svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  login.AccessToken,
		RefreshToken: login.RefreshToken,
	})
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if resp.RefreshToken != "new-refresh-token" {
		t.Fatalf("unexpected refresh token %q", resp.RefreshToken)
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("parse rotated token: %v", err)
	}
	if claims.ID != "new-access-id" {
		t.Fatalf("expected rotated jti, got %s", claims.ID)
	}
	if claims.UserID != user.ID {
		t.Fatalf("user id not carried across refresh")
	}
}

func TestServiceLogoutRevokesSession(t *testing.T) {
	user := &models.User{
		ID:            uuid.New(),
		Username:      "alingnena",
		PasswordHash:  mustHashPassword(t, "seller-secret-1"),
		Role:          enums.UserRoleSeller,
		EmailVerified: true,
	}
	svc, sessions := buildTestService(t, user, nil)

	if err := svc.Logout(context.Background(), "access-id"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if len(sessions.revoked) != 1 || sessions.revoked[0] != "access-id" {
		t.Fatalf("session not revoked: %v", sessions.revoked)
	}
}

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ajdelacruz/saristore-backend/internal/users"
	pkgAuth "github.com/ajdelacruz/saristore-backend/pkg/auth"
	"github.com/ajdelacruz/saristore-backend/pkg/auth/session"
	"github.com/ajdelacruz/saristore-backend/pkg/config"
	"github.com/ajdelacruz/saristore-backend/pkg/db/models"
	pkgerrors "github.com/ajdelacruz/saristore-backend/pkg/errors"
	"github.com/ajdelacruz/saristore-backend/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const invalidCredentialsMessage = "invalid credentials"

// Service defines the behavior needed by the auth controller.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Refresh(ctx context.Context, req RefreshRequest) (*RefreshResponse, error)
	Logout(ctx context.Context, accessID string) error
}

type userRepository interface {
	FindByIdentifier(ctx context.Context, identifier string) (*models.User, error)
}

// codeResender re-issues a verification code when an unverified user
// tries to log in with a lapsed one.
type codeResender interface {
	ResendCode(ctx context.Context, req ResendCodeRequest) error
}

type storeLookup interface {
	FindByOwnerID(ctx context.Context, ownerID uuid.UUID) (*models.Store, error)
}

type sessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

type service struct {
	users        userRepository
	stores       storeLookup
	session      sessionManager
	verification codeResender
	jwtCfg       config.JWTConfig
}

// ServiceParams bundles the dependencies required to build an auth service.
// Verification is optional; without it expired codes are not re-sent on
// login attempts.
type ServiceParams struct {
	UserRepo       userRepository
	StoreRepo      storeLookup
	SessionManager sessionManager
	Verification   codeResender
	JWTConfig      config.JWTConfig
}

// NewService constructs a login service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.StoreRepo == nil {
		return nil, fmt.Errorf("store repository is required")
	}
	if params.SessionManager == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	return &service{
		users:        params.UserRepo,
		stores:       params.StoreRepo,
		session:      params.SessionManager,
		verification: params.Verification,
		jwtCfg:       params.JWTConfig,
	}, nil
}

// Login accepts either the username or the email address as the
// identifier.
func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	identifier := strings.TrimSpace(req.Username)
	if identifier == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	user, err := s.users.FindByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	valid, err := security.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	if !user.EmailVerified {
		// If the mailed code lapsed while the account sat unverified,
		// issue a fresh one so the verify screen works right away.
		expired := user.VerificationExpiresAt == nil || time.Now().UTC().After(*user.VerificationExpiresAt)
		if expired && s.verification != nil {
			_ = s.verification.ResendCode(ctx, ResendCodeRequest{Email: user.Email})
		}
		return nil, pkgerrors.New(pkgerrors.CodeVerification, "email not verified")
	}

	var storeID *uuid.UUID
	store, err := s.stores.FindByOwnerID(ctx, user.ID)
	switch {
	case err == nil:
		storeID = &store.ID
	case errors.Is(err, gorm.ErrRecordNotFound):
		// customers have no store
	default:
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup store")
	}

	accessID := session.NewAccessID()
	accessToken, err := pkgAuth.MintAccessToken(s.jwtCfg, time.Now().UTC(), pkgAuth.AccessTokenPayload{
		UserID:  user.ID,
		StoreID: storeID,
		Role:    user.Role,
		JTI:     accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	refreshToken, err := s.session.Generate(ctx, accessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store refresh token")
	}

	return &LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		StoreID:      storeID,
		User:         users.FromModel(user),
	}, nil
}

func (s *service) Refresh(ctx context.Context, req RefreshRequest) (*RefreshResponse, error) {
	claims, err := pkgAuth.ParseAccessTokenAllowExpired(s.jwtCfg, req.AccessToken)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid access token")
	}

	newAccessID, newRefreshToken, err := s.session.Rotate(ctx, claims.ID, req.RefreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "rotate session")
	}

	accessToken, err := pkgAuth.MintAccessToken(s.jwtCfg, time.Now().UTC(), pkgAuth.AccessTokenPayload{
		UserID:  claims.UserID,
		StoreID: claims.StoreID,
		Role:    claims.Role,
		JTI:     newAccessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}

	return &RefreshResponse{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
	}, nil
}

func (s *service) Logout(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "access id required")
	}
	if err := s.session.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "revoke session")
	}
	return nil
}

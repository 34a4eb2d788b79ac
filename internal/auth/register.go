package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ajdelacruz/saristore-backend/internal/stores"
	"github.com/ajdelacruz/saristore-backend/internal/users"
	"github.com/ajdelacruz/saristore-backend/pkg/config"
	"github.com/ajdelacruz/saristore-backend/pkg/db"
	pkgerrors "github.com/ajdelacruz/saristore-backend/pkg/errors"
	"github.com/ajdelacruz/saristore-backend/pkg/mailer"
	"github.com/ajdelacruz/saristore-backend/pkg/security"
	"gorm.io/gorm"
)

const (
	verificationCodeDigits = 6
	verificationCodeTTL    = 15 * time.Minute
)

// RegisterService handles the onboarding transaction.
type RegisterService interface {
	Register(ctx context.Context, req RegisterRequest) error
}

// RegisterServiceParams packages the dependencies for the registration flow.
type RegisterServiceParams struct {
	DB             *db.Client
	Mailer         mailer.Sender
	PasswordConfig config.PasswordConfig
}

type registerService struct {
	db          *db.Client
	mail        mailer.Sender
	passwordCfg config.PasswordConfig
}

// NewRegisterService builds a registration service with the provided dependencies.
func NewRegisterService(params RegisterServiceParams) (RegisterService, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	if params.Mailer == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "mailer required")
	}
	return &registerService{
		db:          params.DB,
		mail:        params.Mailer,
		passwordCfg: params.PasswordConfig,
	}, nil
}

func (s *registerService) Register(ctx context.Context, req RegisterRequest) error {
	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	storeName := strings.TrimSpace(req.StoreName)
	if username == "" || email == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "username and email are required")
	}
	if storeName == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "store name is required")
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	code, err := security.GenerateVerificationCode(verificationCodeDigits)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate verification code")
	}
	expiresAt := time.Now().UTC().Add(verificationCodeTTL)

	txErr := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := users.NewRepository(tx)
		storeRepo := stores.NewRepository(tx)

		if _, err := userRepo.FindByEmail(ctx, email); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check user email")
		}
		if _, err := userRepo.FindByUsername(ctx, username); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "username already taken")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check username")
		}

		user, err := userRepo.Create(ctx, users.CreateUserDTO{
			Username:              username,
			Email:                 email,
			PasswordHash:          passwordHash,
			VerificationCode:      &code,
			VerificationExpiresAt: &expiresAt,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
		}

		if _, err := storeRepo.Create(ctx, stores.CreateStoreDTO{
			OwnerID: user.ID,
			Name:    storeName,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create store")
		}

		return nil
	})
	if txErr != nil {
		return txErr
	}

	// Mail delivery happens outside the transaction. A transient SMTP
	// failure leaves the account registered; the code can be re-sent.
	if err := s.mail.Send(email, "Verify your SariStore account", verificationBody(username, code)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "send verification mail")
	}
	return nil
}

func verificationBody(username, code string) string {
	return fmt.Sprintf(
		"<p>Hi %s,</p><p>Your SariStore verification code is <strong>%s</strong>. It expires in 15 minutes.</p>",
		username, code,
	)
}

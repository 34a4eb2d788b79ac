package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/ajdelacruz/saristore-backend/pkg/db/models"
	pkgerrors "github.com/ajdelacruz/saristore-backend/pkg/errors"
	"github.com/ajdelacruz/saristore-backend/pkg/mailer"
	"github.com/ajdelacruz/saristore-backend/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VerificationService confirms mailed codes and re-issues them on request.
type VerificationService interface {
	VerifyEmail(ctx context.Context, req VerifyEmailRequest) error
	ResendCode(ctx context.Context, req ResendCodeRequest) error
}

type verificationUserRepo interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	MarkVerified(ctx context.Context, id uuid.UUID) error
	UpdateVerificationCode(ctx context.Context, id uuid.UUID, code string, expiresAt time.Time) error
}

type verificationService struct {
	users verificationUserRepo
	mail  mailer.Sender
}

// NewVerificationService wires the email verification flow.
func NewVerificationService(users verificationUserRepo, mail mailer.Sender) (VerificationService, error) {
	if users == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "user repository required")
	}
	if mail == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "mailer required")
	}
	return &verificationService{users: users, mail: mail}, nil
}

func (s *verificationService) VerifyEmail(ctx context.Context, req VerifyEmailRequest) error {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	code := strings.TrimSpace(req.Code)
	if email == "" || code == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "email and code are required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeVerification, "invalid verification code")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}
	if user.EmailVerified {
		return nil
	}
	if user.VerificationCode == nil || user.VerificationExpiresAt == nil {
		return pkgerrors.New(pkgerrors.CodeVerification, "no pending verification")
	}
	if time.Now().UTC().After(*user.VerificationExpiresAt) {
		return pkgerrors.New(pkgerrors.CodeVerification, "verification code expired")
	}
	if subtle.ConstantTimeCompare([]byte(*user.VerificationCode), []byte(code)) != 1 {
		return pkgerrors.New(pkgerrors.CodeVerification, "invalid verification code")
	}

	if err := s.users.MarkVerified(ctx, user.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mark user verified")
	}
	return nil
}

func (s *verificationService) ResendCode(ctx context.Context, req ResendCodeRequest) error {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Do not reveal whether the address exists.
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}
	if user.EmailVerified {
		return pkgerrors.New(pkgerrors.CodeConflict, "account already verified")
	}

	code, err := security.GenerateVerificationCode(verificationCodeDigits)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate verification code")
	}
	expiresAt := time.Now().UTC().Add(verificationCodeTTL)

	if err := s.users.UpdateVerificationCode(ctx, user.ID, code, expiresAt); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store verification code")
	}

	if err := s.mail.Send(email, "Your new SariStore verification code", verificationBody(user.Username, code)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "send verification mail")
	}
	return nil
}

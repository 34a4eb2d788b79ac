package catalog

import (
	"context"
	"testing"

	pkgerrors "github.com/ajdelacruz/saristore-backend/pkg/errors"
	"github.com/google/uuid"
)

func TestUploadLogoValidation(t *testing.T) {
	svc := &service{}

	cases := []struct {
		name string
		logo LogoInput
	}{
		{"empty data", LogoInput{ContentType: "image/png"}},
		{"oversized", LogoInput{Data: make([]byte, maxLogoBytes+1), ContentType: "image/png"}},
		{"not an image", LogoInput{Data: []byte("x"), ContentType: "text/plain"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.UploadLogo(context.Background(), uuid.New(), uuid.New(), tc.logo)
			coded := pkgerrors.As(err)
			if coded == nil || coded.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestSwapPositionsSelfSwapRejected(t *testing.T) {
	svc := &service{}
	id := uuid.New()

	err := svc.SwapPositions(context.Background(), uuid.New(), id, id)
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestMassDeleteEmptyInput(t *testing.T) {
	svc := &service{}

	_, err := svc.MassDelete(context.Background(), uuid.New(), nil)
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

package chat

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/ajdelacruz/saristore-backend/pkg/db/models"
	"github.com/ajdelacruz/saristore-backend/pkg/enums"
	pkgerrors "github.com/ajdelacruz/saristore-backend/pkg/errors"
)

const maxMessageLength = 2000

// storeNotifier publishes chat flags to the seller dashboard.
type storeNotifier interface {
	Notify(ctx context.Context, storeID uuid.UUID, kind enums.NotificationType, format string, args ...any) error
}

// Service exposes guest and seller chat operations.
type Service interface {
	SendGuestMessage(ctx context.Context, storeID uuid.UUID, guestID, content string) (*MessageDTO, error)
	GuestThread(ctx context.Context, storeID uuid.UUID, guestID string) ([]MessageDTO, error)
	StoreMessages(ctx context.Context, storeID uuid.UUID) ([]MessageDTO, error)
	SellerReply(ctx context.Context, storeID uuid.UUID, guestID, content string) (*MessageDTO, error)
	RecordExchange(ctx context.Context, storeID uuid.UUID, guestID, question, reply string) error
}

type service struct {
	repo     *Repository
	notifier storeNotifier
}

// NewService wires chat dependencies.
func NewService(repo *Repository, notifier storeNotifier) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "chat repository required")
	}
	if notifier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifier required")
	}
	return &service{repo: repo, notifier: notifier}, nil
}

func (s *service) SendGuestMessage(ctx context.Context, storeID uuid.UUID, guestID, content string) (*MessageDTO, error) {
	if err := validateThread(storeID, guestID); err != nil {
		return nil, err
	}
	content, err := validateContent(content)
	if err != nil {
		return nil, err
	}

	message, err := s.repo.Create(ctx, &models.ChatMessage{
		StoreID: storeID,
		GuestID: guestID,
		Sender:  enums.ChatSenderUser,
		Content: content,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create chat message")
	}

	// Chat flags are best effort.
	_ = s.notifier.Notify(ctx, storeID, enums.NotificationTypeChat, "New chat message from a shopper")

	return MessageFromModel(message), nil
}

func (s *service) GuestThread(ctx context.Context, storeID uuid.UUID, guestID string) ([]MessageDTO, error) {
	if err := validateThread(storeID, guestID); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListThread(ctx, storeID, guestID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list chat thread")
	}
	return MessagesFromModels(rows), nil
}

func (s *service) StoreMessages(ctx context.Context, storeID uuid.UUID) ([]MessageDTO, error) {
	if storeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id required")
	}
	rows, err := s.repo.ListByStore(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list store chat")
	}
	return MessagesFromModels(rows), nil
}

func (s *service) SellerReply(ctx context.Context, storeID uuid.UUID, guestID, content string) (*MessageDTO, error) {
	if err := validateThread(storeID, guestID); err != nil {
		return nil, err
	}
	content, err := validateContent(content)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.HasThread(ctx, storeID, guestID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check chat thread")
	}
	if !exists {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "chat thread not found")
	}

	message, err := s.repo.Create(ctx, &models.ChatMessage{
		StoreID: storeID,
		GuestID: guestID,
		Sender:  enums.ChatSenderSeller,
		Content: content,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create seller reply")
	}
	return MessageFromModel(message), nil
}

// RecordExchange persists an assistant handoff as a pair of messages,
// the shopper's question followed by the assistant's reply, and flags
// the seller.
func (s *service) RecordExchange(ctx context.Context, storeID uuid.UUID, guestID, question, reply string) error {
	if err := validateThread(storeID, guestID); err != nil {
		return err
	}
	question, err := validateContent(question)
	if err != nil {
		return err
	}
	reply, err = validateContent(reply)
	if err != nil {
		return err
	}

	if _, err := s.repo.Create(ctx, &models.ChatMessage{
		StoreID: storeID,
		GuestID: guestID,
		Sender:  enums.ChatSenderUser,
		Content: question,
	}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create handoff question")
	}
	if _, err := s.repo.Create(ctx, &models.ChatMessage{
		StoreID: storeID,
		GuestID: guestID,
		Sender:  enums.ChatSenderAI,
		Content: reply,
	}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create handoff reply")
	}

	_ = s.notifier.Notify(ctx, storeID, enums.NotificationTypeChat, "A shopper needs help in chat")
	return nil
}

func validateThread(storeID uuid.UUID, guestID string) error {
	if storeID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "store id required")
	}
	if strings.TrimSpace(guestID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "guest id required")
	}
	return nil
}

func validateContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "message content required")
	}
	if len(content) > maxMessageLength {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "message too long")
	}
	return content, nil
}

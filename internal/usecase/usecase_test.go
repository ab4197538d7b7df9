package usecase_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"contact-relay-backend/internal/domain"
	"contact-relay-backend/internal/usecase"
	"contact-relay-backend/pkg/email"
	"contact-relay-backend/pkg/security"
	"contact-relay-backend/pkg/validation"
)

// Mock Mailer
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, msg *domain.MailMessage) error {
	return m.Called(ctx, msg).Error(0)
}

var identity = email.Identity{SMTPUser: "relay@example.com", To: "owner@example.com"}

func newContactUC(mailer domain.Mailer) domain.ContactUsecase {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return usecase.NewContactUsecase(mailer, validation.New(), identity, log, security.Nop())
}

func TestContactSendSuccess(t *testing.T) {
	mailer := new(MockMailer)
	uc := newContactUC(mailer)

	mailer.On("Send", mock.Anything, mock.MatchedBy(func(msg *domain.MailMessage) bool {
		return msg.ReplyTo == "ada@example.com" &&
			msg.To == "owner@example.com" &&
			msg.FromAddress == "relay@example.com" &&
			msg.FromName == "Ada"
	})).Return(nil).Once()

	err := uc.SendContactMessage(context.Background(), &domain.ContactRequest{
		Name: "Ada", Email: "ada@example.com", Message: "Hello",
	})

	assert.NoError(t, err)
	mailer.AssertExpectations(t)
}

func TestContactValidation(t *testing.T) {
	t.Run("Should reject missing fields without sending", func(t *testing.T) {
		mailer := new(MockMailer)
		uc := newContactUC(mailer)

		err := uc.SendContactMessage(context.Background(), &domain.ContactRequest{Name: "Ada", Message: "Hi"})
		assert.ErrorIs(t, err, domain.ErrMissingFields)
		mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})

	t.Run("Should reject whitespace-only fields", func(t *testing.T) {
		mailer := new(MockMailer)
		uc := newContactUC(mailer)

		err := uc.SendContactMessage(context.Background(), &domain.ContactRequest{Name: "   ", Email: "a@b.com", Message: "Hi"})
		assert.ErrorIs(t, err, domain.ErrMissingFields)
	})

	t.Run("Should reject malformed email", func(t *testing.T) {
		mailer := new(MockMailer)
		uc := newContactUC(mailer)

		err := uc.SendContactMessage(context.Background(), &domain.ContactRequest{Name: "Ada", Email: "foo@bar", Message: "Hi"})
		assert.ErrorIs(t, err, domain.ErrInvalidEmail)
		mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})

	t.Run("Should fail safe on nil request", func(t *testing.T) {
		uc := newContactUC(new(MockMailer))
		assert.ErrorIs(t, uc.SendContactMessage(context.Background(), nil), domain.ErrMissingFields)
	})
}

func TestContactSendFailureIsNotRetried(t *testing.T) {
	mailer := new(MockMailer)
	uc := newContactUC(mailer)

	cause := errors.New("535 5.7.8 authentication failed")
	mailer.On("Send", mock.Anything, mock.Anything).Return(cause).Once()

	err := uc.SendContactMessage(context.Background(), &domain.ContactRequest{
		Name: "Ada", Email: "ada@example.com", Message: "Hello",
	})

	assert.ErrorIs(t, err, domain.ErrSendFailed)
	assert.ErrorIs(t, err, cause)
	mailer.AssertNumberOfCalls(t, "Send", 1)
}

func TestHealthCheck(t *testing.T) {
	status := usecase.NewHealthUsecase().Check(context.Background())
	assert.True(t, status.OK)
	assert.Equal(t, "all good", status.Message)
}

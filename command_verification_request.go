package gymauth

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

type VerifyEmailMessage struct {
	Email      string `json:"email" example:"pepe.rone@example.com" doc:"Account email."`
	Code       string `json:"code" example:"482913" doc:"Verification code sent to the account email."`
	Resend     bool   `json:"resend" doc:"Request a fresh code instead of verifying."`
	OnResponse func(resp *VerifyEmailResponse)
}

func (p VerifyEmailMessage) Type() string { return "session.email_verification" }

type VerifyEmailResponse struct {
	Message string
	Success bool
}

type VerifyEmailHandler struct {
	service *SessionService
	logger  Logger
}

// NewVerifyEmailHandler creates a handler with sane defaults.
func NewVerifyEmailHandler(service *SessionService) *VerifyEmailHandler {
	return &VerifyEmailHandler{
		service: service,
		logger:  defLogger{},
	}
}

// WithLogger overrides the logger used by the handler.
func (h *VerifyEmailHandler) WithLogger(logger Logger) *VerifyEmailHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *VerifyEmailHandler) Execute(ctx context.Context, event VerifyEmailMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during email verification",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *VerifyEmailHandler) execute(ctx context.Context, event VerifyEmailMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	var msg *MessageResponse
	var err error

	if event.Resend {
		msg, err = h.service.ResendVerificationEmail(ctx, event.Email)
	} else {
		msg, err = h.service.VerifyEmail(ctx, event.Email, event.Code)
	}

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to process email verification")
	}

	if event.OnResponse != nil {
		event.OnResponse(&VerifyEmailResponse{
			Message: msg.Message,
			Success: true,
		})
	}

	return nil
}

package gymauth

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

type ConfirmPasswordResetMessage struct {
	Token       string `json:"token" example:"350399bc-c095-4bdc-a59c-3352d44848e4" doc:"Reset password token."`
	NewPassword string `json:"newPassword" example:"some_secret_word" doc:"Replacement password."`
	OnResponse  func(resp *ConfirmPasswordResetResponse)
}

func (p ConfirmPasswordResetMessage) Type() string { return "session.password_reset_confirm" }

type ConfirmPasswordResetResponse struct {
	Message string
	Success bool
}

type ConfirmPasswordResetHandler struct {
	service *SessionService
	logger  Logger
}

// NewConfirmPasswordResetHandler creates a handler with sane defaults.
func NewConfirmPasswordResetHandler(service *SessionService) *ConfirmPasswordResetHandler {
	return &ConfirmPasswordResetHandler{
		service: service,
		logger:  defLogger{},
	}
}

// WithLogger overrides the logger used by the handler.
func (h *ConfirmPasswordResetHandler) WithLogger(logger Logger) *ConfirmPasswordResetHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *ConfirmPasswordResetHandler) Execute(ctx context.Context, event ConfirmPasswordResetMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during password reset confirmation",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *ConfirmPasswordResetHandler) execute(ctx context.Context, event ConfirmPasswordResetMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	msg, err := h.service.ConfirmPasswordReset(ctx, PasswordResetConfirmRequest{
		Token:       event.Token,
		NewPassword: event.NewPassword,
	})
	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to confirm password reset")
	}

	if event.OnResponse != nil {
		event.OnResponse(&ConfirmPasswordResetResponse{
			Message: msg.Message,
			Success: true,
		})
	}

	return nil
}

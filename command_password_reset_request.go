package gymauth

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

type RequestPasswordResetMessage struct {
	Email      string `json:"email" example:"pepe.rone@example.com" doc:"Account email."`
	OnResponse func(resp *RequestPasswordResetResponse)
}

func (p RequestPasswordResetMessage) Type() string { return "session.password_reset_request" }

type RequestPasswordResetResponse struct {
	Message string
	Success bool
}

type RequestPasswordResetHandler struct {
	service *SessionService
	logger  Logger
}

// NewRequestPasswordResetHandler creates a handler with sane defaults.
func NewRequestPasswordResetHandler(service *SessionService) *RequestPasswordResetHandler {
	return &RequestPasswordResetHandler{
		service: service,
		logger:  defLogger{},
	}
}

// WithLogger overrides the logger used by the handler.
func (h *RequestPasswordResetHandler) WithLogger(logger Logger) *RequestPasswordResetHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *RequestPasswordResetHandler) Execute(ctx context.Context, event RequestPasswordResetMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during password reset request",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RequestPasswordResetHandler) execute(ctx context.Context, event RequestPasswordResetMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	msg, err := h.service.RequestPasswordReset(ctx, event.Email)
	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to request password reset")
	}

	if event.OnResponse != nil {
		event.OnResponse(&RequestPasswordResetResponse{
			Message: msg.Message,
			Success: true,
		})
	}

	return nil
}

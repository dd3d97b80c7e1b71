package gymauth

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
	"github.com/nyaruka/phonenumbers"
)

// Auth endpoint paths on the backend
const (
	loginPath                = "/auth/login"
	registerPath             = "/auth/register"
	logoutPath               = "/auth/logout"
	mePath                   = "/auth/me"
	passwordResetRequestPath = "/auth/password-reset/request"
	passwordResetConfirmPath = "/auth/password-reset/confirm"
	verifyEmailPath          = "/auth/verify-email"
	resendVerificationPath   = "/auth/resend-verification"
)

// LoginRequest payload
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Email,
			validation.Required,
			is.Email,
		),
		validation.Field(
			&r.Password,
			validation.Required,
		),
	)
}

// SignupRequest payload. Role and Phone are optional; the backend assigns
// MEMBER when no role is sent.
type SignupRequest struct {
	Email     string   `json:"email"`
	Password  string   `json:"password"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Role      UserRole `json:"role,omitempty"`
	Phone     string   `json:"phone,omitempty"`
}

// Validate will validate the payload
func (r SignupRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.LastName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 100)),
		validation.Field(&r.Role, validation.In(RoleAdmin, RoleMember, RoleTrainer, RoleStaff)),
		validation.Field(&r.Phone, validation.By(validatePhone)),
	)
}

func validatePhone(value any) error {
	raw, _ := value.(string)
	if raw == "" {
		return nil
	}
	if _, err := phonenumbers.Parse(raw, defaultPhoneRegion); err != nil {
		return goerrors.New("invalid phone number", goerrors.CategoryValidation)
	}
	return nil
}

const defaultPhoneRegion = "US"

// normalizePhone formats an optional phone number as E.164 so the backend
// receives one canonical shape. Unparseable input is handed through as-is,
// validation has already decided whether that is acceptable.
func normalizePhone(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	parsed, err := phonenumbers.Parse(raw, defaultPhoneRegion)
	if err != nil {
		return raw
	}
	return phonenumbers.Format(parsed, phonenumbers.E164)
}

// PasswordResetConfirmRequest payload
type PasswordResetConfirmRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

// Validate will validate the payload
func (r PasswordResetConfirmRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Token, validation.Required),
		validation.Field(&r.NewPassword, validation.Required, validation.Length(8, 100)),
	)
}

// SessionService drives the auth flows against the backend. Login and signup
// persist the returned token pair and hand back the normalized user; logout
// clears the local pair even when the remote call fails; the password-reset
// and verification flows are stateless request/response pairs.
type SessionService struct {
	client *APIClient
	logger Logger
}

// NewSessionService returns a service over the given API client
func NewSessionService(client *APIClient) *SessionService {
	return &SessionService{
		client: client,
		logger: defLogger{},
	}
}

// WithLogger sets the service logger
func (s *SessionService) WithLogger(logger Logger) *SessionService {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// Client exposes the underlying API client
func (s *SessionService) Client() *APIClient {
	return s.client
}

// Login posts credentials, persists the returned pair, and returns the
// normalized user.
func (s *SessionService) Login(ctx context.Context, payload LoginRequest) (*User, error) {
	if err := payload.Validate(); err != nil {
		return nil, wrapValidationError(err, "invalid login payload")
	}

	res, err := s.client.Post(ctx, loginPath, payload)
	if err != nil {
		s.logger.Error("login request failed", "error", err)
		return nil, err
	}

	return s.adoptAuthResponse(ctx, res)
}

// Signup posts the registration payload; token and user handling matches
// login.
func (s *SessionService) Signup(ctx context.Context, payload SignupRequest) (*User, error) {
	if err := payload.Validate(); err != nil {
		return nil, wrapValidationError(err, "invalid signup payload")
	}

	payload.Phone = normalizePhone(payload.Phone)

	res, err := s.client.Post(ctx, registerPath, payload)
	if err != nil {
		s.logger.Error("signup request failed", "error", err)
		return nil, err
	}

	return s.adoptAuthResponse(ctx, res)
}

func (s *SessionService) adoptAuthResponse(ctx context.Context, res *Response) (*User, error) {
	payload := &AuthResponse{}
	if err := res.Decode(payload); err != nil {
		return nil, err
	}

	if payload.Token == "" || payload.RefreshToken == "" {
		return nil, goerrors.New("auth response missing token pair", goerrors.CategoryAuth).
			WithCode(goerrors.CodeUnauthorized)
	}

	if payload.User == nil {
		return nil, goerrors.New("auth response missing user", goerrors.CategoryAuth).
			WithCode(goerrors.CodeUnauthorized)
	}

	if err := s.client.TokenStore().SetTokens(ctx, payload.Token, payload.RefreshToken); err != nil {
		return nil, err
	}

	return payload.User.Normalize(), nil
}

// Logout notifies the backend best-effort and clears the local pair
// unconditionally. A failed remote call still leaves no local credentials
// behind; the error is reported after cleanup.
func (s *SessionService) Logout(ctx context.Context) error {
	defer func() {
		// the pair must go even when the request ctx is already dead
		if err := s.client.TokenStore().Clear(context.WithoutCancel(ctx)); err != nil {
			s.logger.Error("failed to clear tokens on logout", "error", err)
		}
	}()

	if _, err := s.client.Post(ctx, logoutPath, map[string]string{}); err != nil {
		s.logger.Warn("remote logout failed, local session cleared anyway", "error", err)
		return err
	}

	return nil
}

// Me fetches the authenticated user's profile, used to rehydrate a session
// after a restart when a valid token pair exists but no user is cached.
func (s *SessionService) Me(ctx context.Context) (*User, error) {
	res, err := s.client.Get(ctx, mePath)
	if err != nil {
		return nil, err
	}

	user := &User{}
	if err := res.Decode(user); err != nil {
		return nil, err
	}

	return user.Normalize(), nil
}

// RequestPasswordReset asks the backend to start a reset flow for email.
// No local session state changes.
func (s *SessionService) RequestPasswordReset(ctx context.Context, email string) (*MessageResponse, error) {
	if err := validation.Validate(email, validation.Required, is.Email); err != nil {
		return nil, wrapValidationError(err, "invalid email")
	}

	return s.postMessage(ctx, passwordResetRequestPath, map[string]string{"email": email})
}

// ConfirmPasswordReset finalizes a reset with the emailed token
func (s *SessionService) ConfirmPasswordReset(ctx context.Context, payload PasswordResetConfirmRequest) (*MessageResponse, error) {
	if err := payload.Validate(); err != nil {
		return nil, wrapValidationError(err, "invalid password reset payload")
	}

	return s.postMessage(ctx, passwordResetConfirmPath, payload)
}

// VerifyEmail submits the emailed verification code
func (s *SessionService) VerifyEmail(ctx context.Context, email, code string) (*MessageResponse, error) {
	if err := validation.Validate(email, validation.Required, is.Email); err != nil {
		return nil, wrapValidationError(err, "invalid email")
	}
	if err := validation.Validate(code, validation.Required); err != nil {
		return nil, wrapValidationError(err, "missing verification code")
	}

	return s.postMessage(ctx, verifyEmailPath, map[string]string{
		"email": email,
		"code":  code,
	})
}

// ResendVerificationEmail asks the backend to send a fresh code
func (s *SessionService) ResendVerificationEmail(ctx context.Context, email string) (*MessageResponse, error) {
	if err := validation.Validate(email, validation.Required, is.Email); err != nil {
		return nil, wrapValidationError(err, "invalid email")
	}

	return s.postMessage(ctx, resendVerificationPath, map[string]string{"email": email})
}

func (s *SessionService) postMessage(ctx context.Context, path string, body any) (*MessageResponse, error) {
	res, err := s.client.Post(ctx, path, body)
	if err != nil {
		return nil, err
	}

	message := &MessageResponse{}
	if err := res.Decode(message); err != nil {
		return nil, err
	}

	return message, nil
}

func wrapValidationError(err error, message string) error {
	return goerrors.Wrap(err, goerrors.CategoryValidation, message).
		WithCode(goerrors.CodeBadRequest)
}

// FormatValidationErrorToMap flattens ozzo field errors into a field->message
// map for form rendering.
func FormatValidationErrorToMap(err error) map[string]string {
	out := map[string]string{}
	if err == nil {
		return out
	}

	var fieldErrs validation.Errors
	if goerrors.As(err, &fieldErrs) {
		for field, fieldErr := range fieldErrs {
			if fieldErr != nil {
				out[field] = fieldErr.Error()
			}
		}
		return out
	}

	out["error"] = err.Error()
	return out
}

package gymauth

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"

	goerrors "github.com/goliatone/go-errors"
)

// DefaultBaseURL is the backend the client talks to unless configured
const DefaultBaseURL = "http://localhost:8080/api"

const refreshPath = "/auth/refresh"

// Response is the body and status of a completed API exchange
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Decode unmarshals the response body into v. Empty bodies decode to the
// zero value without error.
func (r *Response) Decode(v any) error {
	if r == nil || len(r.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to decode response body")
	}
	return nil
}

// APIClient wraps the backend REST API. Every request carries the stored
// access token as a bearer credential. A 401 triggers the refresh flow and at
// most one retry of the original request; a 403 never does, it means
// authenticated but forbidden. Concurrent 401 handlers share a single
// in-flight refresh so one expiry event produces one refresh call.
type APIClient struct {
	baseURL   string
	http      *http.Client
	tokens    TokenStore
	inspector *TokenInspector
	navigator Navigator
	logger    Logger

	refreshMu  sync.Mutex
	refreshing *refreshAttempt
}

type refreshAttempt struct {
	done chan struct{}
	err  error
}

// NewAPIClient returns a client for the configured base URL backed by the
// given token store.
func NewAPIClient(baseURL string, tokens TokenStore) *APIClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &APIClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      &http.Client{},
		tokens:    tokens,
		inspector: NewTokenInspector(),
		navigator: noopNavigator{},
		logger:    defLogger{},
	}
}

// WithHTTPClient overrides the underlying transport
func (c *APIClient) WithHTTPClient(client *http.Client) *APIClient {
	if client != nil {
		c.http = client
	}
	return c
}

// WithNavigator binds the forced-navigation sink
func (c *APIClient) WithNavigator(navigator Navigator) *APIClient {
	c.navigator = normalizeNavigator(navigator)
	return c
}

// WithInspector overrides the token inspector
func (c *APIClient) WithInspector(inspector *TokenInspector) *APIClient {
	if inspector != nil {
		c.inspector = inspector
	}
	return c
}

// WithLogger sets the client logger
func (c *APIClient) WithLogger(logger Logger) *APIClient {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// TokenStore exposes the store this client reads and writes
func (c *APIClient) TokenStore() TokenStore {
	return c.tokens
}

// Inspector exposes the token inspector used by this client
func (c *APIClient) Inspector() *TokenInspector {
	return c.inspector
}

// IsAuthenticated reports whether the store holds an unexpired access token.
// It is false whenever the store holds no token, regardless of other state.
func (c *APIClient) IsAuthenticated(ctx context.Context) bool {
	token, err := c.tokens.AccessToken(ctx)
	if err != nil {
		c.logger.Warn("failed to read access token", "error", err)
		return false
	}
	if token == "" {
		return false
	}
	return !c.inspector.IsExpired(token)
}

// Get issues a GET request
func (c *APIClient) Get(ctx context.Context, path string) (*Response, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

// Post issues a POST request with a JSON body
func (c *APIClient) Post(ctx context.Context, path string, body any) (*Response, error) {
	return c.do(ctx, http.MethodPost, path, body)
}

// Put issues a PUT request with a JSON body
func (c *APIClient) Put(ctx context.Context, path string, body any) (*Response, error) {
	return c.do(ctx, http.MethodPut, path, body)
}

// Patch issues a PATCH request with a JSON body
func (c *APIClient) Patch(ctx context.Context, path string, body any) (*Response, error) {
	return c.do(ctx, http.MethodPatch, path, body)
}

// Delete issues a DELETE request
func (c *APIClient) Delete(ctx context.Context, path string) (*Response, error) {
	return c.do(ctx, http.MethodDelete, path, nil)
}

func (c *APIClient) do(ctx context.Context, method, path string, body any) (*Response, error) {
	res, err := c.attempt(ctx, method, path, body)
	if err != nil {
		return nil, err
	}

	switch {
	case res.StatusCode == http.StatusUnauthorized:
		original := c.errorFromResponse(res)

		if err := c.Refresh(ctx); err != nil {
			// Refresh already cleared the pair on rejection; clearing again
			// covers the no-refresh-token path so no half state survives.
			if clearErr := c.tokens.Clear(ctx); clearErr != nil {
				c.logger.Error("failed to clear tokens after refresh failure", "error", clearErr)
			}
			c.logger.Info("token refresh failed, forcing login", "error", err)
			c.navigator.NavigateToLogin(err)
			return nil, original
		}

		retry, err := c.attempt(ctx, method, path, body)
		if err != nil {
			return nil, err
		}
		if retry.StatusCode == http.StatusForbidden {
			richErr := c.forbiddenError(retry)
			c.navigator.NavigateToUnauthorized(richErr)
			return nil, richErr
		}
		if retry.StatusCode >= http.StatusBadRequest {
			// Single-retry bound: a second 401 passes through untouched.
			return nil, c.errorFromResponse(retry)
		}
		return retry, nil

	case res.StatusCode == http.StatusForbidden:
		richErr := c.forbiddenError(res)
		c.navigator.NavigateToUnauthorized(richErr)
		return nil, richErr

	case res.StatusCode >= http.StatusBadRequest:
		return nil, c.errorFromResponse(res)
	}

	return res, nil
}

func (c *APIClient) attempt(ctx context.Context, method, path string, body any) (*Response, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to encode request body")
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to build request")
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	token, err := c.tokens.AccessToken(ctx)
	if err != nil {
		c.logger.Warn("failed to read access token", "error", err)
	} else if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryOperation, "request failed").
			WithMetadata(map[string]any{"method": method, "path": path})
	}
	defer res.Body.Close()

	payload, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryOperation, "failed to read response body")
	}

	return &Response{
		StatusCode: res.StatusCode,
		Header:     res.Header,
		Body:       payload,
	}, nil
}

// Refresh runs the refresh flow at most once at a time: callers that arrive
// while a refresh is in flight wait for it and share its outcome. With no
// stored refresh token it fails immediately without a network call. Any
// rejection clears the stored pair.
func (c *APIClient) Refresh(ctx context.Context) error {
	c.refreshMu.Lock()
	if attempt := c.refreshing; attempt != nil {
		c.refreshMu.Unlock()
		<-attempt.done
		return attempt.err
	}

	attempt := &refreshAttempt{done: make(chan struct{})}
	c.refreshing = attempt
	c.refreshMu.Unlock()

	attempt.err = c.refresh(ctx)

	c.refreshMu.Lock()
	c.refreshing = nil
	c.refreshMu.Unlock()
	close(attempt.done)

	return attempt.err
}

func (c *APIClient) refresh(ctx context.Context) error {
	refresh, err := c.tokens.RefreshToken(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to read refresh token")
	}
	if refresh == "" {
		return ErrNoRefreshToken
	}

	res, err := c.attempt(ctx, http.MethodPost, refreshPath, map[string]string{
		"refreshToken": refresh,
	})
	if err != nil {
		c.clearAfterRejection(ctx)
		return goerrors.Wrap(err, ErrRefreshRejected.Category, ErrRefreshRejected.Message).
			WithTextCode(ErrRefreshRejected.TextCode)
	}

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		c.clearAfterRejection(ctx)
		return ErrRefreshRejected
	}

	payload := &AuthResponse{}
	if err := res.Decode(payload); err != nil || payload.Token == "" || payload.RefreshToken == "" {
		c.clearAfterRejection(ctx)
		return ErrRefreshRejected
	}

	if err := c.tokens.SetTokens(ctx, payload.Token, payload.RefreshToken); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to persist refreshed pair")
	}

	c.logger.Debug("token pair refreshed")
	return nil
}

func (c *APIClient) clearAfterRejection(ctx context.Context) {
	if err := c.tokens.Clear(ctx); err != nil {
		c.logger.Error("failed to clear tokens after refresh rejection", "error", err)
	}
}

func (c *APIClient) forbiddenError(res *Response) *goerrors.Error {
	return goerrors.New(serverMessage(res, "insufficient permissions"), ErrForbidden.Category).
		WithTextCode(ErrForbidden.TextCode).
		WithCode(goerrors.CodeForbidden)
}

// errorFromResponse turns a non-2xx response into a categorized error that
// carries the server's message through to the caller unchanged.
func (c *APIClient) errorFromResponse(res *Response) *goerrors.Error {
	message := serverMessage(res, http.StatusText(res.StatusCode))

	switch {
	case res.StatusCode == http.StatusUnauthorized:
		return goerrors.New(message, goerrors.CategoryAuth).
			WithTextCode(textCodeTokenExpired).
			WithCode(goerrors.CodeUnauthorized)
	case res.StatusCode == http.StatusNotFound:
		return goerrors.New(message, goerrors.CategoryNotFound).
			WithCode(goerrors.CodeNotFound)
	case res.StatusCode == http.StatusConflict:
		return goerrors.New(message, goerrors.CategoryConflict).
			WithCode(goerrors.CodeConflict)
	case res.StatusCode < http.StatusInternalServerError:
		return goerrors.New(message, goerrors.CategoryBadInput).
			WithCode(goerrors.CodeBadRequest)
	default:
		return goerrors.New(message, goerrors.CategoryOperation).
			WithCode(goerrors.CodeInternal)
	}
}

func serverMessage(res *Response, fallback string) string {
	if res == nil || len(res.Body) == 0 {
		return fallback
	}

	envelope := struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}{}

	if err := json.Unmarshal(res.Body, &envelope); err == nil {
		if envelope.Message != "" {
			return envelope.Message
		}
		if envelope.Error != "" {
			return envelope.Error
		}
	}

	return fallback
}

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	apperrors "github.com/BrikenaAhmeti/WP25G10-frontend/internal/errors"
)

const (
	loginPath    = "/api/AuthApi/login"
	registerPath = "/api/AuthApi/register"

	// InvalidCredentialsMessage is the only text shown for a failed login,
	// whatever the backend answered.
	InvalidCredentialsMessage = "Invalid credentials."

	RegistrationFallbackMessage = "Registration failed."
	MinPasswordLength           = 6
)

type loginRequest struct {
	UserNameOrEmail string `json:"userNameOrEmail"`
	Password        string `json:"password"`
}

// LoginResult is the backend identity response.
type LoginResult struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expiresAt"`
	UserName  string `json:"userName"`
	Email     string `json:"email"`
}

// Expiry parses ExpiresAt. Zero when absent or unparsable.
func (l LoginResult) Expiry() time.Time {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999", "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, strings.TrimSpace(l.ExpiresAt)); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Login exchanges credentials for a bearer token. Every rejection, whatever
// its backend detail, is reported as ErrInvalidCredentials.
func (c *Client) Login(ctx context.Context, identifier, password string) (*LoginResult, error) {
	body, err := jsonBody(loginRequest{UserNameOrEmail: strings.TrimSpace(identifier), Password: password})
	if err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, request{method: http.MethodPost, path: loginPath, body: body})
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, apperrors.ErrInvalidCredentials
	}

	var result LoginResult
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	if strings.TrimSpace(result.Token) == "" {
		return nil, apperrors.ErrInvalidCredentials
	}
	if result.Email == "" && strings.Contains(identifier, "@") {
		result.Email = strings.TrimSpace(identifier)
	}
	if result.UserName == "" {
		result.UserName = strings.TrimSpace(identifier)
	}
	return &result, nil
}

type RegisterRequest struct {
	UserName string `json:"userName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ValidationError is a registration rejected before reaching the backend.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return apperrors.ErrInvalidRequest
}

// ValidateRegistration mirrors the checks the register form applies before submitting.
func ValidateRegistration(req RegisterRequest) error {
	switch {
	case strings.TrimSpace(req.UserName) == "":
		return &ValidationError{Message: "Username is required."}
	case strings.TrimSpace(req.Email) == "":
		return &ValidationError{Message: "Email is required."}
	case len(req.Password) < MinPasswordLength:
		return &ValidationError{Message: fmt.Sprintf("Password must be at least %d characters.", MinPasswordLength)}
	}
	return nil
}

// Register posts a registration and returns the backend response untouched.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*Response, error) {
	body, err := jsonBody(RegisterRequest{
		UserName: strings.TrimSpace(req.UserName),
		Email:    strings.TrimSpace(req.Email),
		Password: req.Password,
	})
	if err != nil {
		return nil, err
	}
	return c.do(ctx, request{method: http.MethodPost, path: registerPath, body: body})
}

// RegisterRaw forwards an already encoded JSON body.
func (c *Client) RegisterRaw(ctx context.Context, body []byte) (*Response, error) {
	return c.do(ctx, request{method: http.MethodPost, path: registerPath, body: bytes.NewReader(body)})
}

// RegistrationErrorMessage picks one readable message out of the error shapes
// the backend has used: {message}, {errors: {field: [msg]}} or [{description}].
func RegistrationErrorMessage(body []byte, fallback string) string {
	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return fallback
	}

	switch v := decoded.(type) {
	case map[string]any:
		if msg, ok := v["message"].(string); ok && strings.TrimSpace(msg) != "" {
			return msg
		}
		if errs, ok := v["errors"].(map[string]any); ok {
			keys := make([]string, 0, len(errs))
			for k := range errs {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				if msgs, ok := errs[k].([]any); ok && len(msgs) > 0 {
					if msg, ok := msgs[0].(string); ok && strings.TrimSpace(msg) != "" {
						return msg
					}
				}
			}
		}
	case []any:
		if len(v) > 0 {
			if item, ok := v[0].(map[string]any); ok {
				if desc, ok := item["description"].(string); ok && strings.TrimSpace(desc) != "" {
					return desc
				}
			}
		}
	}
	return fallback
}

// Package authclient signs users in against the AlgoTix auth API and
// stores the resulting session locally.
package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"algotix/internal/logging"
	"algotix/internal/session"
)

var ErrNotAuthenticated = errors.New("not signed in: run `algotix login` first")

// Error is a failed sign-in as it should be shown to the user.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

// SessionWriter receives the token and user on success.
type SessionWriter interface {
	SetAuth(ctx context.Context, token string, user session.User) error
}

type Client struct {
	baseURL string
	http    *http.Client
	store   SessionWriter
	log     logging.Logger
}

func New(baseURL string, store SessionWriter, log logging.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		store:   store,
		log:     log,
	}
}

type authResponse struct {
	Success bool         `json:"success"`
	Token   string       `json:"token"`
	User    session.User `json:"user"`
}

func (c *Client) Login(ctx context.Context, email, password string) (*session.User, error) {
	return c.Submit(ctx, ModeLogin, Credentials{Email: email, Password: password})
}

func (c *Client) Signup(ctx context.Context, name, email, password string) (*session.User, error) {
	return c.Submit(ctx, ModeSignup, Credentials{Name: name, Email: email, Password: password})
}

// Submit validates creds and, if they pass, posts them to the login or
// signup endpoint. On success the token and user slots are written.
func (c *Client) Submit(ctx context.Context, mode Mode, creds Credentials) (*session.User, error) {
	if err := Validate(mode, creds); err != nil {
		return nil, err
	}

	endpoint := "/api/login"
	var payload any = map[string]string{"email": creds.Email, "password": creds.Password}
	if mode == ModeSignup {
		endpoint = "/api/signup"
		payload = map[string]string{"name": creds.Name, "email": creds.Email, "password": creds.Password}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error(ctx, "auth request failed", "mode", mode.String(), "error", err)
		return nil, &Error{Message: "Cannot connect to server. Make sure the backend is running on " + c.baseURL}
	}
	defer resp.Body.Close()
	raw, readErr := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &Error{Status: resp.StatusCode, Message: errorMessage(resp, raw)}
	}
	if mt, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type")); mt != "application/json" {
		return nil, &Error{Status: resp.StatusCode, Message: "Server returned invalid response format"}
	}
	var out authResponse
	if readErr != nil || len(raw) == 0 || json.Unmarshal(raw, &out) != nil {
		return nil, &Error{Status: resp.StatusCode, Message: "Invalid response from server. Make sure the backend is running."}
	}
	if !out.Success || out.Token == "" {
		return nil, &Error{Status: resp.StatusCode, Message: "Invalid response from server"}
	}

	if err := c.store.SetAuth(ctx, out.Token, out.User); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	c.log.Info(ctx, "signed in", "mode", mode.String(), "email", out.User.Email)
	return &out.User, nil
}

// errorMessage picks detail, then message, from a JSON error body. A body
// that is not JSON falls back to the status text.
func errorMessage(resp *http.Response, raw []byte) string {
	var body struct {
		Detail  json.RawMessage `json:"detail"`
		Message json.RawMessage `json:"message"`
	}
	if len(raw) == 0 || json.Unmarshal(raw, &body) != nil {
		if text := statusText(resp); text != "" {
			return text
		}
		return fmt.Sprintf("Server error (%d)", resp.StatusCode)
	}
	for _, field := range []json.RawMessage{body.Detail, body.Message} {
		var s string
		if json.Unmarshal(field, &s) == nil && s != "" {
			return s
		}
	}
	return "Authentication failed"
}

func statusText(resp *http.Response) string {
	return strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
}

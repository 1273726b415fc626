// Package api implements the HTTP client for the secure-notes server. It
// mirrors the server's JSON surface one method per endpoint and keeps the
// bearer token for the protected note calls.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dberezin/securenotes/internal/common"
	"github.com/dberezin/securenotes/internal/server/models"
)

type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// SetToken stores the bearer token returned by VerifyLogin for use on the
// protected endpoints.
func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) doJSON(ctx context.Context, method, path string, body any, out any, authorized bool) (int, error) {
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return 0, err
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if authorized && c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, err
		}
	}
	return resp.StatusCode, nil
}

// SignUp registers a new account and returns the provisioning QR data URL.
func (c *Client) SignUp(ctx context.Context, username, password string) (string, error) {
	var out struct {
		QRCode string `json:"qrCode"`
	}
	status, err := c.doJSON(ctx, http.MethodPost, "/signup",
		map[string]string{"username": username, "password": password}, &out, false)
	if err != nil {
		return "", err
	}
	switch status {
	case http.StatusOK:
		return out.QRCode, nil
	case http.StatusBadRequest:
		return "", common.ErrAlreadyExists
	default:
		return "", fmt.Errorf("signup: unexpected status %d", status)
	}
}

// VerifySetup submits an enrollment code and reports whether it matched.
func (c *Client) VerifySetup(ctx context.Context, username, code string) (bool, error) {
	var out struct {
		Verified bool `json:"verified"`
	}
	status, err := c.doJSON(ctx, http.MethodPost, "/verify-mfa-setup",
		map[string]string{"username": username, "token": code}, &out, false)
	if err != nil {
		return false, err
	}
	switch status {
	case http.StatusOK:
		return out.Verified, nil
	case http.StatusBadRequest:
		return false, common.ErrNotFound
	default:
		return false, fmt.Errorf("verify-mfa-setup: unexpected status %d", status)
	}
}

// Login performs the password step. It succeeds silently; the caller then
// proceeds to VerifyLogin for the second factor.
func (c *Client) Login(ctx context.Context, username, password string) error {
	status, err := c.doJSON(ctx, http.MethodPost, "/login",
		map[string]string{"username": username, "password": password}, nil, false)
	if err != nil {
		return err
	}
	switch status {
	case http.StatusOK:
		return nil
	case http.StatusUnauthorized:
		return common.ErrUnauthorized
	default:
		return fmt.Errorf("login: unexpected status %d", status)
	}
}

// VerifyLogin performs the TOTP step and returns the issued bearer token.
// The token is also stored on the client for subsequent note calls.
func (c *Client) VerifyLogin(ctx context.Context, username, code string) (string, error) {
	var out struct {
		Verified bool   `json:"verified"`
		Token    string `json:"token"`
	}
	status, err := c.doJSON(ctx, http.MethodPost, "/verify-mfa-login",
		map[string]string{"username": username, "token": code}, &out, false)
	if err != nil {
		return "", err
	}
	switch status {
	case http.StatusOK:
		c.token = out.Token
		return out.Token, nil
	case http.StatusUnauthorized:
		return "", common.ErrUnauthorized
	case http.StatusBadRequest:
		return "", common.ErrNotFound
	default:
		return "", fmt.Errorf("verify-mfa-login: unexpected status %d", status)
	}
}

// CreateNote stores a new note for the authenticated account.
func (c *Client) CreateNote(ctx context.Context, title, content string, tags []string) (*models.Note, error) {
	var out models.Note
	status, err := c.doJSON(ctx, http.MethodPost, "/notes",
		map[string]any{"title": title, "content": content, "tags": tags}, &out, true)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, statusError("create note", status)
	}
	return &out, nil
}

// ListNotes returns the authenticated account's notes.
func (c *Client) ListNotes(ctx context.Context) ([]*models.Note, error) {
	var out []*models.Note
	status, err := c.doJSON(ctx, http.MethodGet, "/notes", nil, &out, true)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, statusError("list notes", status)
	}
	return out, nil
}

// UpdateNote applies a partial patch to one of the account's notes.
func (c *Client) UpdateNote(ctx context.Context, id string, patch *models.NotePatch) (*models.Note, error) {
	var out models.Note
	status, err := c.doJSON(ctx, http.MethodPut, "/notes/"+id, patch, &out, true)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, statusError("update note", status)
	}
	return &out, nil
}

// DeleteNote removes one of the account's notes.
func (c *Client) DeleteNote(ctx context.Context, id string) error {
	status, err := c.doJSON(ctx, http.MethodDelete, "/notes/"+id, nil, nil, true)
	if err != nil {
		return err
	}
	if status != http.StatusNoContent {
		return statusError("delete note", status)
	}
	return nil
}

func statusError(op string, status int) error {
	switch status {
	case http.StatusUnauthorized:
		return common.ErrUnauthorized
	case http.StatusForbidden:
		return common.ErrInvalidToken
	case http.StatusNotFound:
		return common.ErrNotFound
	default:
		return fmt.Errorf("%s: unexpected status %d", op, status)
	}
}

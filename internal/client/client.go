// Package client is a Go client for the contact-manager REST API. The
// session token is never global state: Login and Register return a Session
// value that the caller passes explicitly to every authenticated call.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rohitm/contact-manager/internal/models"
)

// ErrDuplicateContact is returned by CreateContact's advisory pre-check
// when an identical name+phone pair already exists for this user. It is a
// client-side convenience only; the server performs no duplicate check.
var ErrDuplicateContact = errors.New("contact with this name and phone already exists")

// Session carries the bearer token and the identity it was issued for.
// It is valid until the token expires (15 minutes by default).
type Session struct {
	Token    string
	UserID   string
	Username string
	Email    string
}

// APIError is a decoded error envelope from the server.
type APIError struct {
	Status  int
	Title   string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.Title, e.Status, e.Message)
}

// Client calls the contact-manager API at a fixed base URL.
type Client struct {
	baseURL string
	hc      *http.Client
}

// New returns a Client for the API rooted at baseURL, e.g.
// "http://localhost:5001".
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		hc:      &http.Client{Timeout: 15 * time.Second},
	}
}

// Register creates an account and returns a live session for it.
func (c *Client) Register(ctx context.Context, username, email, password string) (*Session, error) {
	var resp models.AuthResponse
	err := c.do(ctx, http.MethodPost, "/api/users/register", nil,
		models.RegisterRequest{Username: username, Email: email, Password: password}, &resp)
	if err != nil {
		return nil, err
	}
	return sessionFrom(&resp), nil
}

// Login authenticates and returns a fresh session.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var resp models.AuthResponse
	err := c.do(ctx, http.MethodPost, "/api/users/login", nil,
		models.LoginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return nil, err
	}
	return sessionFrom(&resp), nil
}

// CurrentUser returns the identity the server resolves from the session.
func (c *Client) CurrentUser(ctx context.Context, s *Session) (*models.AuthResponse, error) {
	var ident struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/users/current", s, nil, &ident); err != nil {
		return nil, err
	}
	return &models.AuthResponse{ID: ident.ID, Username: ident.Username, Email: ident.Email}, nil
}

// ListContacts returns all of the session user's contacts.
func (c *Client) ListContacts(ctx context.Context, s *Session) ([]models.Contact, error) {
	var resp models.ContactListResponse
	if err := c.do(ctx, http.MethodGet, "/api/contacts", s, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// CreateContact creates a contact after an advisory local duplicate check
// against the current listing. The check is best-effort and racy; two
// concurrent creators can still both succeed.
func (c *Client) CreateContact(ctx context.Context, s *Session, name, email, phone string) (*models.Contact, error) {
	existing, err := c.ListContacts(ctx, s)
	if err != nil {
		return nil, err
	}
	for _, e := range existing {
		if e.Name == name && e.Phone == phone {
			return nil, ErrDuplicateContact
		}
	}

	var resp models.ContactResponse
	err = c.do(ctx, http.MethodPost, "/api/contacts", s,
		models.CreateContactRequest{Name: name, Email: email, Phone: phone}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// GetContact fetches one owned contact by id.
func (c *Client) GetContact(ctx context.Context, s *Session, id string) (*models.Contact, error) {
	var resp models.ContactResponse
	if err := c.do(ctx, http.MethodGet, "/api/contacts/"+id, s, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// UpdateContact applies a partial patch to an owned contact.
func (c *Client) UpdateContact(ctx context.Context, s *Session, id string, patch models.ContactPatch) (*models.Contact, error) {
	var resp models.ContactResponse
	if err := c.do(ctx, http.MethodPut, "/api/contacts/"+id, s, patch, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// DeleteContact removes an owned contact and returns its last state.
func (c *Client) DeleteContact(ctx context.Context, s *Session, id string) (*models.Contact, error) {
	var resp models.ContactResponse
	if err := c.do(ctx, http.MethodDelete, "/api/contacts/"+id, s, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func sessionFrom(resp *models.AuthResponse) *Session {
	return &Session{
		Token:    resp.Token,
		UserID:   resp.ID,
		Username: resp.Username,
		Email:    resp.Email,
	}
}

// do performs one API call: marshal body, attach the session's bearer token
// when present, and decode either the success body into out or the error
// envelope into an APIError.
func (c *Client) do(ctx context.Context, method, path string, s *Session, body, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s != nil {
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var env struct {
			Title   string `json:"title"`
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&env)
		if env.Message == "" {
			env.Message = env.Error
		}
		return &APIError{Status: resp.StatusCode, Title: env.Title, Message: env.Message}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Package users implements the registration, login, and current-user
// endpoints. Registration and login are the only public routes in the API;
// everything else consumes the identity they establish.
package users

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/rohitm/contact-manager/internal/apperr"
	"github.com/rohitm/contact-manager/internal/httpx"
	"github.com/rohitm/contact-manager/internal/middleware"
	"github.com/rohitm/contact-manager/internal/models"
	"github.com/rohitm/contact-manager/internal/store"
	"github.com/rohitm/contact-manager/internal/token"
)

// bcryptCost is fixed; the deliberately slow hash is the only
// latency-control mechanism in the pipeline.
const bcryptCost = 10

// Login failures share one message so callers cannot tell an unknown email
// from a wrong password.
const msgInvalidCredentials = "invalid email or password"

// UserStore defines the persistence needed by the user handlers.
type UserStore interface {
	Create(ctx context.Context, username, email, hashedPassword string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// TokenIssuer mints session tokens for authenticated identities.
type TokenIssuer interface {
	Issue(ident *token.Identity) (string, error)
}

// Handler holds the user HTTP handlers.
type Handler struct {
	users  UserStore
	tokens TokenIssuer
}

func NewHandler(users UserStore, tokens TokenIssuer) *Handler {
	return &Handler{users: users, tokens: tokens}
}

func decodeStrict(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// Register creates a new user and issues its first session token.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := decodeStrict(r, &req); err != nil {
		httpx.Error(w, apperr.Validation("invalid request body"))
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		httpx.Error(w, apperr.Validation("all fields are mandatory"))
		return
	}

	// Friendly pre-check; the unique email index is the real guarantee.
	if _, err := h.users.GetByEmail(r.Context(), req.Email); err == nil {
		httpx.Error(w, apperr.Validation("user already registered"))
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		log.Printf("register lookup error: %v", err)
		httpx.Error(w, apperr.Internal("database error"))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		httpx.Error(w, apperr.Internal("internal error"))
		return
	}

	user, err := h.users.Create(r.Context(), req.Username, req.Email, string(hashed))
	if err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			httpx.Error(w, apperr.Validation("user already registered"))
			return
		}
		log.Printf("register insert error: %v", err)
		httpx.Error(w, apperr.Internal("database error"))
		return
	}

	h.respondWithToken(w, http.StatusCreated, user)
}

// Login verifies credentials and issues a fresh session token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decodeStrict(r, &req); err != nil {
		httpx.Error(w, apperr.Validation("invalid request body"))
		return
	}
	if req.Email == "" || req.Password == "" {
		httpx.Error(w, apperr.Validation("email and password are required"))
		return
	}

	user, err := h.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Printf("login lookup error: %v", err)
			httpx.Error(w, apperr.Internal("database error"))
			return
		}
		httpx.Error(w, apperr.Unauthorized(msgInvalidCredentials))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		httpx.Error(w, apperr.Unauthorized(msgInvalidCredentials))
		return
	}

	h.respondWithToken(w, http.StatusOK, user)
}

// Current returns the identity the auth gate attached. The nil check is
// defensive; the gate has already run on this route.
func (h *Handler) Current(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		httpx.Error(w, apperr.Unauthorized("user is not authorized"))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, ident)
}

func (h *Handler) respondWithToken(w http.ResponseWriter, status int, user *models.User) {
	ident := &token.Identity{ID: user.ID.Hex(), Username: user.Username, Email: user.Email}
	tok, err := h.tokens.Issue(ident)
	if err != nil {
		log.Printf("token issue error: %v", err)
		httpx.Error(w, apperr.Internal("could not issue token"))
		return
	}
	httpx.WriteJSON(w, status, models.AuthResponse{
		ID:       ident.ID,
		Username: ident.Username,
		Email:    ident.Email,
		Token:    tok,
	})
}

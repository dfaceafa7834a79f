package users

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/rohitm/contact-manager/internal/httpx"
	"github.com/rohitm/contact-manager/internal/middleware"
	"github.com/rohitm/contact-manager/internal/models"
	"github.com/rohitm/contact-manager/internal/store"
	"github.com/rohitm/contact-manager/internal/token"
)

func newTestHandler() (*Handler, *store.MemoryUsers, *token.Service) {
	users := store.NewMemoryUsers()
	tokens := token.NewService([]byte("test-secret"), 15*time.Minute)
	return NewHandler(users, tokens), users, tokens
}

func postJSON(t *testing.T, h http.HandlerFunc, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	buf, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(buf))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func decodeAuth(t *testing.T, rec *httptest.ResponseRecorder) models.AuthResponse {
	t.Helper()
	var resp models.AuthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestRegisterIssuesVerifiableToken(t *testing.T) {
	t.Parallel()

	h, _, tokens := newTestHandler()
	rec := postJSON(t, h.Register, "/api/users/register", models.RegisterRequest{
		Username: "bob", Email: "bob@x.com", Password: "secret1",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	resp := decodeAuth(t, rec)
	require.Equal(t, "bob", resp.Username)
	require.Equal(t, "bob@x.com", resp.Email)
	require.NotEmpty(t, resp.ID)

	ident, err := tokens.Verify(resp.Token)
	require.NoError(t, err)
	require.Equal(t, resp.ID, ident.ID)
}

func TestRegisterMissingFields(t *testing.T) {
	t.Parallel()

	h, _, _ := newTestHandler()
	for _, body := range []models.RegisterRequest{
		{Email: "a@x.com", Password: "p"},
		{Username: "a", Password: "p"},
		{Username: "a", Email: "a@x.com"},
		{},
	} {
		rec := postJSON(t, h.Register, "/api/users/register", body)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	}
}

func TestRegisterRejectsUnknownFields(t *testing.T) {
	t.Parallel()

	h, _, _ := newTestHandler()
	rec := postJSON(t, h.Register, "/api/users/register", map[string]string{
		"username": "a", "email": "a@x.com", "password": "p", "role": "admin",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	t.Parallel()

	h, _, _ := newTestHandler()
	body := models.RegisterRequest{Username: "bob", Email: "bob@x.com", Password: "secret1"}
	require.Equal(t, http.StatusCreated, postJSON(t, h.Register, "/api/users/register", body).Code)

	rec := postJSON(t, h.Register, "/api/users/register", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var env httpx.ErrorEnvelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	require.Equal(t, "Validation Error", env.Title)
}

func TestRegisterNeverStoresPlaintext(t *testing.T) {
	t.Parallel()

	h, users, _ := newTestHandler()
	rec := postJSON(t, h.Register, "/api/users/register", models.RegisterRequest{
		Username: "bob", Email: "bob@x.com", Password: "secret1",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	stored, err := users.GetByEmail(context.Background(), "bob@x.com")
	require.NoError(t, err)
	require.NotEqual(t, "secret1", stored.Password)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("secret1")))
}

func TestLoginAfterRegister(t *testing.T) {
	t.Parallel()

	h, _, tokens := newTestHandler()
	reg := postJSON(t, h.Register, "/api/users/register", models.RegisterRequest{
		Username: "bob", Email: "bob@x.com", Password: "secret1",
	})
	require.Equal(t, http.StatusCreated, reg.Code)

	rec := postJSON(t, h.Login, "/api/users/login", models.LoginRequest{
		Email: "bob@x.com", Password: "secret1",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeAuth(t, rec)
	ident, err := tokens.Verify(resp.Token)
	require.NoError(t, err)
	require.Equal(t, "bob", ident.Username)
}

// Unknown email and wrong password must be indistinguishable to the caller.
func TestLoginFailuresShareOneMessage(t *testing.T) {
	t.Parallel()

	h, _, _ := newTestHandler()
	reg := postJSON(t, h.Register, "/api/users/register", models.RegisterRequest{
		Username: "bob", Email: "bob@x.com", Password: "secret1",
	})
	require.Equal(t, http.StatusCreated, reg.Code)

	unknown := postJSON(t, h.Login, "/api/users/login", models.LoginRequest{
		Email: "nobody@x.com", Password: "secret1",
	})
	wrongPw := postJSON(t, h.Login, "/api/users/login", models.LoginRequest{
		Email: "bob@x.com", Password: "wrong",
	})

	require.Equal(t, http.StatusUnauthorized, unknown.Code)
	require.Equal(t, http.StatusUnauthorized, wrongPw.Code)

	var envA, envB httpx.ErrorEnvelope
	require.NoError(t, json.NewDecoder(unknown.Body).Decode(&envA))
	require.NoError(t, json.NewDecoder(wrongPw.Body).Decode(&envB))
	require.Equal(t, envA.Message, envB.Message)
}

func TestLoginMissingFields(t *testing.T) {
	t.Parallel()

	h, _, _ := newTestHandler()
	rec := postJSON(t, h.Login, "/api/users/login", models.LoginRequest{Email: "bob@x.com"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCurrentEchoesIdentity(t *testing.T) {
	t.Parallel()

	h, _, _ := newTestHandler()
	want := &token.Identity{ID: "64f1c0ffee0123456789abcd", Username: "bob", Email: "bob@x.com"}

	req := httptest.NewRequest(http.MethodGet, "/api/users/current", nil)
	req = req.WithContext(middleware.WithIdentity(req.Context(), want))
	rec := httptest.NewRecorder()
	h.Current(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var got token.Identity
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	require.Equal(t, *want, got)
}

func TestCurrentWithoutIdentity(t *testing.T) {
	t.Parallel()

	h, _, _ := newTestHandler()
	rec := httptest.NewRecorder()
	h.Current(rec, httptest.NewRequest(http.MethodGet, "/api/users/current", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

package contacts

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/rohitm/contact-manager/internal/middleware"
	"github.com/rohitm/contact-manager/internal/models"
	"github.com/rohitm/contact-manager/internal/store"
	"github.com/rohitm/contact-manager/internal/token"
)

var (
	alice = &token.Identity{ID: primitive.NewObjectID().Hex(), Username: "alice", Email: "alice@x.com"}
	bob   = &token.Identity{ID: primitive.NewObjectID().Hex(), Username: "bob", Email: "bob@x.com"}
)

// newTestRouter mounts the handlers behind a stub gate that injects ident.
func newTestRouter(h *Handler, ident *token.Identity) http.Handler {
	r := chi.NewRouter()
	r.Route("/api/contacts", func(r chi.Router) {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				if ident != nil {
					req = req.WithContext(middleware.WithIdentity(req.Context(), ident))
				}
				next.ServeHTTP(w, req)
			})
		})
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
	return r
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf []byte
	if body != nil {
		var err error
		buf, err = json.Marshal(body)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(buf))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func createContact(t *testing.T, router http.Handler, name, email, phone string) models.Contact {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/api/contacts", models.CreateContactRequest{
		Name: name, Email: email, Phone: phone,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var resp models.ContactResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return *resp.Data
}

func TestCreateAndList(t *testing.T) {
	t.Parallel()

	h := NewHandler(store.NewMemoryContacts())
	router := newTestRouter(h, alice)

	created := createContact(t, router, "Al", "al@x.com", "1234567890")
	require.Equal(t, alice.ID, created.UserID)

	rec := doJSON(t, router, http.MethodGet, "/api/contacts", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list models.ContactListResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&list))
	require.Equal(t, 1, list.Count)
	require.Equal(t, "Al", list.Data[0].Name)
}

func TestListEmptyIsArrayNotNull(t *testing.T) {
	t.Parallel()

	router := newTestRouter(NewHandler(store.NewMemoryContacts()), alice)
	rec := doJSON(t, router, http.MethodGet, "/api/contacts", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"data":[]`)
}

func TestCreateValidation(t *testing.T) {
	t.Parallel()

	contacts := store.NewMemoryContacts()
	router := newTestRouter(NewHandler(contacts), alice)

	cases := []models.CreateContactRequest{
		{Email: "al@x.com", Phone: "1234567890"},              // missing name
		{Name: "Al", Phone: "1234567890"},                     // missing email
		{Name: "Al", Email: "al@x.com"},                       // missing phone
		{Name: "Al", Email: "al@x.com", Phone: "12345"},       // too short
		{Name: "Al", Email: "al@x.com", Phone: "12345678901"}, // too long
		{Name: "Al", Email: "al@x.com", Phone: "12345abcde"},  // non-digits
		{Name: "Al", Email: "al@x.com", Phone: "１２３４５６７８９０"},  // non-ASCII digits
	}
	for _, body := range cases {
		rec := doJSON(t, router, http.MethodPost, "/api/contacts", body)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	}

	persisted, err := contacts.ListByOwner(context.Background(), alice.ID)
	require.NoError(t, err)
	require.Empty(t, persisted, "no record may be persisted on validation failure")
}

func TestOwnershipIsolation(t *testing.T) {
	t.Parallel()

	contacts := store.NewMemoryContacts()
	h := NewHandler(contacts)
	asAlice := newTestRouter(h, alice)
	asBob := newTestRouter(h, bob)

	created := createContact(t, asAlice, "Al", "al@x.com", "1234567890")

	// Bob's listing never includes Alice's contact.
	rec := doJSON(t, asBob, http.MethodGet, "/api/contacts", nil)
	var list models.ContactListResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&list))
	require.Zero(t, list.Count)

	// Cross-user get hides existence: 404, not 403.
	rec = doJSON(t, asBob, http.MethodGet, "/api/contacts/"+created.ID.Hex(), nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	// Cross-user get for an absent id is byte-identical to the hidden case.
	absent := doJSON(t, asBob, http.MethodGet, "/api/contacts/"+primitive.NewObjectID().Hex(), nil)
	require.Equal(t, rec.Body.String(), absent.Body.String())

	// Update and delete distinguish ownership as 403.
	name := "Hacked"
	rec = doJSON(t, asBob, http.MethodPut, "/api/contacts/"+created.ID.Hex(), models.ContactPatch{Name: &name})
	require.Equal(t, http.StatusForbidden, rec.Code)
	rec = doJSON(t, asBob, http.MethodDelete, "/api/contacts/"+created.ID.Hex(), nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	// The record is untouched.
	stored, err := contacts.GetByID(context.Background(), created.ID.Hex())
	require.NoError(t, err)
	require.Equal(t, "Al", stored.Name)
}

func TestGetMalformedID(t *testing.T) {
	t.Parallel()

	router := newTestRouter(NewHandler(store.NewMemoryContacts()), alice)
	rec := doJSON(t, router, http.MethodGet, "/api/contacts/not-an-id", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdatePartialPatch(t *testing.T) {
	t.Parallel()

	router := newTestRouter(NewHandler(store.NewMemoryContacts()), alice)
	created := createContact(t, router, "Al", "al@x.com", "1234567890")

	// Patch without phone must not trip phone validation.
	name := "Albert"
	rec := doJSON(t, router, http.MethodPut, "/api/contacts/"+created.ID.Hex(), models.ContactPatch{Name: &name})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.ContactResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Equal(t, "Albert", resp.Data.Name)
	require.Equal(t, "1234567890", resp.Data.Phone)
}

func TestUpdateInvalidPhoneLeavesRecordAlone(t *testing.T) {
	t.Parallel()

	contacts := store.NewMemoryContacts()
	router := newTestRouter(NewHandler(contacts), alice)
	created := createContact(t, router, "Al", "al@x.com", "1234567890")

	phone := "123"
	rec := doJSON(t, router, http.MethodPut, "/api/contacts/"+created.ID.Hex(), models.ContactPatch{Phone: &phone})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	stored, err := contacts.GetByID(context.Background(), created.ID.Hex())
	require.NoError(t, err)
	require.Equal(t, "1234567890", stored.Phone)
}

func TestUpdateRejectsUnknownFields(t *testing.T) {
	t.Parallel()

	router := newTestRouter(NewHandler(store.NewMemoryContacts()), alice)
	created := createContact(t, router, "Al", "al@x.com", "1234567890")

	rec := doJSON(t, router, http.MethodPut, "/api/contacts/"+created.ID.Hex(), map[string]string{
		"name": "Al", "user_id": "someone-else",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateAbsentContact(t *testing.T) {
	t.Parallel()

	router := newTestRouter(NewHandler(store.NewMemoryContacts()), alice)
	name := "X"
	rec := doJSON(t, router, http.MethodPut, "/api/contacts/"+primitive.NewObjectID().Hex(), models.ContactPatch{Name: &name})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteReturnsLastState(t *testing.T) {
	t.Parallel()

	router := newTestRouter(NewHandler(store.NewMemoryContacts()), alice)
	created := createContact(t, router, "Al", "al@x.com", "1234567890")

	rec := doJSON(t, router, http.MethodDelete, "/api/contacts/"+created.ID.Hex(), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.ContactResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Equal(t, created.ID, resp.Data.ID)
	require.Equal(t, "Al", resp.Data.Name)
}

func TestDeleteRepeatedIsNotFound(t *testing.T) {
	t.Parallel()

	router := newTestRouter(NewHandler(store.NewMemoryContacts()), alice)
	created := createContact(t, router, "Al", "al@x.com", "1234567890")

	require.Equal(t, http.StatusOK, doJSON(t, router, http.MethodDelete, "/api/contacts/"+created.ID.Hex(), nil).Code)
	require.Equal(t, http.StatusNotFound, doJSON(t, router, http.MethodDelete, "/api/contacts/"+created.ID.Hex(), nil).Code)
}

func TestUnauthenticatedRequestsRejected(t *testing.T) {
	t.Parallel()

	router := newTestRouter(NewHandler(store.NewMemoryContacts()), nil)
	rec := doJSON(t, router, http.MethodGet, "/api/contacts", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

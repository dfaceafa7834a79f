// Package contacts implements the owner-scoped contact CRUD endpoints.
// Every route here sits behind the auth gate; the resolved identity is the
// owner for all reads and writes.
package contacts

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"regexp"

	"github.com/go-chi/chi/v5"

	"github.com/rohitm/contact-manager/internal/apperr"
	"github.com/rohitm/contact-manager/internal/httpx"
	"github.com/rohitm/contact-manager/internal/middleware"
	"github.com/rohitm/contact-manager/internal/models"
	"github.com/rohitm/contact-manager/internal/store"
)

// Phone numbers are exactly 10 ASCII digits.
var phoneRe = regexp.MustCompile(`^[0-9]{10}$`)

// ContactStore defines the persistence needed by the contact handlers.
type ContactStore interface {
	Insert(ctx context.Context, c *models.Contact) (*models.Contact, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Contact, error)
	GetByID(ctx context.Context, id string) (*models.Contact, error)
	Update(ctx context.Context, id string, patch *models.ContactPatch) (*models.Contact, error)
	Delete(ctx context.Context, id string) error
}

// Handler holds the contact HTTP handlers.
type Handler struct {
	contacts ContactStore
}

func NewHandler(contacts ContactStore) *Handler {
	return &Handler{contacts: contacts}
}

func identity(r *http.Request) (string, bool) {
	ident, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		return "", false
	}
	return ident.ID, true
}

// List returns all contacts owned by the caller, in store-native order.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	owner, ok := identity(r)
	if !ok {
		httpx.Error(w, apperr.Unauthorized("user is not authorized"))
		return
	}

	contacts, err := h.contacts.ListByOwner(r.Context(), owner)
	if err != nil {
		log.Printf("contact list error: %v", err)
		httpx.Error(w, apperr.Internal("database error"))
		return
	}
	if contacts == nil {
		contacts = []models.Contact{}
	}

	httpx.WriteJSON(w, http.StatusOK, models.ContactListResponse{
		Message: "Contacts fetched successfully",
		Count:   len(contacts),
		Data:    contacts,
	})
}

// Create validates and persists a new contact owned by the caller. There is
// no server-side duplicate check; the client's advisory check is not a
// guarantee.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	owner, ok := identity(r)
	if !ok {
		httpx.Error(w, apperr.Unauthorized("user is not authorized"))
		return
	}

	var req models.CreateContactRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		httpx.Error(w, apperr.Validation("invalid request body"))
		return
	}
	if req.Name == "" || req.Email == "" || req.Phone == "" {
		httpx.Error(w, apperr.Validation("all fields are mandatory"))
		return
	}
	if !phoneRe.MatchString(req.Phone) {
		httpx.Error(w, apperr.Validation("invalid phone number, must be exactly 10 digits"))
		return
	}

	contact, err := h.contacts.Insert(r.Context(), &models.Contact{
		Name:   req.Name,
		Email:  req.Email,
		Phone:  req.Phone,
		UserID: owner,
	})
	if err != nil {
		log.Printf("contact insert error: %v", err)
		httpx.Error(w, apperr.Internal("database error"))
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, models.ContactResponse{
		Message: "Contact created successfully",
		Data:    contact,
	})
}

// Get returns a single owned contact. An existing contact owned by someone
// else reports Not Found, indistinguishable from absence, so reads never
// disclose other users' records.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	owner, ok := identity(r)
	if !ok {
		httpx.Error(w, apperr.Unauthorized("user is not authorized"))
		return
	}

	// Absent and not-owned share one message and status on reads.
	const msgHidden = "contact not found or access denied"
	contact, err := h.lookup(w, r, msgHidden)
	if err != nil {
		return
	}
	if contact.UserID != owner {
		httpx.Error(w, apperr.NotFound(msgHidden))
		return
	}

	httpx.WriteJSON(w, http.StatusOK, models.ContactResponse{
		Message: "Contact fetched successfully",
		Data:    contact,
	})
}

// Update applies a partial patch to an owned contact. Unlike Get, a
// contact owned by someone else reports Forbidden here.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	owner, ok := identity(r)
	if !ok {
		httpx.Error(w, apperr.Unauthorized("user is not authorized"))
		return
	}

	var patch models.ContactPatch
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&patch); err != nil {
		httpx.Error(w, apperr.Validation("invalid request body"))
		return
	}
	if patch.Phone != nil && !phoneRe.MatchString(*patch.Phone) {
		httpx.Error(w, apperr.Validation("invalid phone number, must be exactly 10 digits"))
		return
	}

	contact, err := h.lookup(w, r, "contact not found")
	if err != nil {
		return
	}
	if contact.UserID != owner {
		httpx.Error(w, apperr.Forbidden("you do not have permission to update this contact"))
		return
	}

	updated, err := h.contacts.Update(r.Context(), contact.ID.Hex(), &patch)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.Error(w, apperr.NotFound("contact not found"))
			return
		}
		log.Printf("contact update error: %v", err)
		httpx.Error(w, apperr.Internal("database error"))
		return
	}

	httpx.WriteJSON(w, http.StatusOK, models.ContactResponse{
		Message: "Contact updated successfully",
		Data:    updated,
	})
}

// Delete removes an owned contact and returns its last state. Same
// ownership semantics as Update; deleting an already-deleted id is a plain
// Not Found.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	owner, ok := identity(r)
	if !ok {
		httpx.Error(w, apperr.Unauthorized("user is not authorized"))
		return
	}

	contact, err := h.lookup(w, r, "contact not found")
	if err != nil {
		return
	}
	if contact.UserID != owner {
		httpx.Error(w, apperr.Forbidden("you do not have permission to delete this contact"))
		return
	}

	if err := h.contacts.Delete(r.Context(), contact.ID.Hex()); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.Error(w, apperr.NotFound("contact not found"))
			return
		}
		log.Printf("contact delete error: %v", err)
		httpx.Error(w, apperr.Internal("database error"))
		return
	}

	httpx.WriteJSON(w, http.StatusOK, models.ContactResponse{
		Message: "Contact deleted successfully",
		Data:    contact,
	})
}

// lookup validates the id param and fetches the contact, writing the
// appropriate error itself with notFoundMsg for absent records. A non-nil
// error means the response is already written.
func (h *Handler) lookup(w http.ResponseWriter, r *http.Request, notFoundMsg string) (*models.Contact, error) {
	id := chi.URLParam(r, "id")
	if !store.IsValidID(id) {
		err := apperr.Validation("invalid contact id")
		httpx.Error(w, err)
		return nil, err
	}

	contact, err := h.contacts.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			ae := apperr.NotFound(notFoundMsg)
			httpx.Error(w, ae)
			return nil, ae
		}
		log.Printf("contact lookup error: %v", err)
		ae := apperr.Internal("database error")
		httpx.Error(w, ae)
		return nil, ae
	}
	return contact, nil
}

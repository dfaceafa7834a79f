package store

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/rohitm/contact-manager/internal/models"
)

// MemoryUsers is an in-memory UserStore used by tests. It mirrors the
// Mongo store's semantics, including the unique-email rejection.
type MemoryUsers struct {
	mu      sync.Mutex
	byEmail map[string]*models.User
}

func NewMemoryUsers() *MemoryUsers {
	return &MemoryUsers{byEmail: map[string]*models.User{}}
}

func (s *MemoryUsers) Create(_ context.Context, username, email, hashedPassword string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byEmail[email]; ok {
		return nil, ErrDuplicateEmail
	}
	u := &models.User{
		ID:        primitive.NewObjectID(),
		Username:  username,
		Email:     email,
		Password:  hashedPassword,
		CreatedAt: time.Now(),
	}
	s.byEmail[email] = u
	return u, nil
}

func (s *MemoryUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

// MemoryContacts is an in-memory ContactStore used by tests. Listing
// preserves insertion order, standing in for store-native order.
type MemoryContacts struct {
	mu    sync.Mutex
	order []string
	byID  map[string]*models.Contact
}

func NewMemoryContacts() *MemoryContacts {
	return &MemoryContacts{byID: map[string]*models.Contact{}}
}

func (s *MemoryContacts) Insert(_ context.Context, c *models.Contact) (*models.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = primitive.NewObjectID()
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now
	cp := *c
	s.byID[c.ID.Hex()] = &cp
	s.order = append(s.order, c.ID.Hex())
	return c, nil
}

func (s *MemoryContacts) ListByOwner(_ context.Context, ownerID string) ([]models.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Contact
	for _, id := range s.order {
		if c, ok := s.byID[id]; ok && c.UserID == ownerID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (s *MemoryContacts) GetByID(_ context.Context, id string) (*models.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *MemoryContacts) Update(_ context.Context, id string, patch *models.ContactPatch) (*models.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	if patch.Name != nil {
		c.Name = *patch.Name
	}
	if patch.Email != nil {
		c.Email = *patch.Email
	}
	if patch.Phone != nil {
		c.Phone = *patch.Phone
	}
	c.UpdatedAt = time.Now()
	cp := *c
	return &cp, nil
}

func (s *MemoryContacts) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return ErrNotFound
	}
	delete(s.byID, id)
	return nil
}

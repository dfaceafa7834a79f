package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rohitm/contact-manager/internal/models"
)

// Contacts handles contact CRUD in the contacts collection. Concurrent
// updates to the same document are last-write-wins; there is no optimistic
// concurrency check.
type Contacts struct {
	col *mongo.Collection
}

func NewContacts(db *mongo.Database) *Contacts {
	return &Contacts{col: db.Collection("contacts")}
}

// EnsureIndexes creates the owner index used by ListByOwner.
func (s *Contacts) EnsureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("contacts owner index: %w", err)
	}
	return nil
}

func (s *Contacts) Insert(ctx context.Context, c *models.Contact) (*models.Contact, error) {
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now
	res, err := s.col.InsertOne(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("contact insert: %w", err)
	}
	c.ID = res.InsertedID.(primitive.ObjectID)
	return c, nil
}

// ListByOwner returns all contacts owned by ownerID in store-native order.
func (s *Contacts) ListByOwner(ctx context.Context, ownerID string) ([]models.Contact, error) {
	cur, err := s.col.Find(ctx, bson.M{"user_id": ownerID})
	if err != nil {
		return nil, fmt.Errorf("contact list: %w", err)
	}
	defer cur.Close(ctx)

	var contacts []models.Contact
	if err := cur.All(ctx, &contacts); err != nil {
		return nil, fmt.Errorf("contact list decode: %w", err)
	}
	return contacts, nil
}

func (s *Contacts) GetByID(ctx context.Context, id string) (*models.Contact, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var c models.Contact
	err = s.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("contact by id: %w", err)
	}
	return &c, nil
}

// Update applies the non-nil patch fields with $set and returns the
// post-update document.
func (s *Contacts) Update(ctx context.Context, id string, patch *models.ContactPatch) (*models.Contact, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, ErrNotFound
	}

	set := bson.M{"updated_at": time.Now()}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Email != nil {
		set["email"] = *patch.Email
	}
	if patch.Phone != nil {
		set["phone"] = *patch.Phone
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var c models.Contact
	err = s.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("contact update: %w", err)
	}
	return &c, nil
}

func (s *Contacts) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("contact delete: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

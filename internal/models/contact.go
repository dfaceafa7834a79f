package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Contact is a single contact record stored in MongoDB. UserID holds the
// hex ObjectID of the owning user; every read/update/delete must match it
// against the authenticated identity.
type Contact struct {
	ID        primitive.ObjectID `json:"_id"        bson:"_id,omitempty"`
	Name      string             `json:"name"       bson:"name"`
	Email     string             `json:"email"      bson:"email"`
	Phone     string             `json:"phone"      bson:"phone"`
	UserID    string             `json:"user_id"    bson:"user_id"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

// CreateContactRequest is the JSON body for POST /api/contacts.
type CreateContactRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// ContactPatch is the JSON body for PUT /api/contacts/{id}. Nil fields are
// left untouched.
type ContactPatch struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
	Phone *string `json:"phone,omitempty"`
}

// ContactResponse wraps a single contact in the API's success envelope.
type ContactResponse struct {
	Message string   `json:"message"`
	Data    *Contact `json:"data"`
}

// ContactListResponse wraps a contact listing in the API's success envelope.
type ContactListResponse struct {
	Message string    `json:"message"`
	Count   int       `json:"count"`
	Data    []Contact `json:"data"`
}

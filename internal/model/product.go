package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is the persisted document. UserID is written once on create.
type Product struct {
	ID      primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Title   string             `json:"title" bson:"title"`
	Content string             `json:"content" bson:"content"`
	UserID  primitive.ObjectID `json:"-" bson:"user"`
	Created time.Time          `json:"created" bson:"created"`

	// Populated from the users collection on load; nil for orphaned references.
	User *UserRef `json:"-" bson:"-"`
}

// ProductInput is the writable subset of a Product accepted from clients.
// Any other field in the request body is ignored.
type ProductInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// ProductView is the wire projection of a Product.
type ProductView struct {
	ID      string    `json:"id"`
	Title   string    `json:"title"`
	Content string    `json:"content"`
	Created time.Time `json:"created"`
	User    *UserRef  `json:"user,omitempty"`

	// Set only on single-item reads.
	IsOwnedByCurrentUser *bool `json:"isOwnedByCurrentUser,omitempty"`
}

func (p *Product) View() ProductView {
	return ProductView{
		ID:      p.ID.Hex(),
		Title:   p.Title,
		Content: p.Content,
		Created: p.Created,
		User:    p.User,
	}
}

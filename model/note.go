package model

import (
	"time"
)

// Note is a user-owned text record. ID is assigned by the store on creation;
// UserID is set server-side from the authenticated caller and never accepted
// from a request body.
type Note struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	UserID    string    `bson:"user_id" json:"user_id"`
	Title     string    `bson:"title" json:"title"`
	Content   string    `bson:"content" json:"content"`
	IsPinned  bool      `bson:"is_pinned" json:"is_pinned"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

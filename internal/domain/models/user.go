// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is the login account. Domain data (role, affiliation, keywords)
// lives on the Profile, which has exactly one document per user.
//
// Handle is the unique identifier users type to sign in. HandleCI is the
// case/diacritic-folded form backing the unique index.
type User struct {
	ID           primitive.ObjectID `bson:"_id" json:"id"`
	Handle       string             `bson:"handle" json:"handle"`
	HandleCI     string             `bson:"handle_ci" json:"-"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password_hash,omitempty" json:"-"`

	// GoogleSub is set when the account was linked via Google sign-in.
	GoogleSub string `bson:"google_sub,omitempty" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

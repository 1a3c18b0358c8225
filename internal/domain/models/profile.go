// internal/domain/models/profile.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Profile is the domain identity of a user: role, affiliation, field, and
// discovery keywords. Exactly one profile per user (unique index on user_id);
// it is created at registration and removed only with the account.
type Profile struct {
	ID     primitive.ObjectID `bson:"_id" json:"id"`
	UserID primitive.ObjectID `bson:"user_id" json:"user_id"`

	Role            Role            `bson:"role" json:"role"`
	InstitutionType InstitutionType `bson:"institution_type,omitempty" json:"institution_type,omitempty"`
	OrganizationID  *primitive.ObjectID `bson:"organization_id,omitempty" json:"organization_id,omitempty"`
	Specialization  Specialization  `bson:"specialization" json:"specialization"`

	// KeywordIDs tags the profile for discovery and suggestions.
	KeywordIDs []primitive.ObjectID `bson:"keyword_ids,omitempty" json:"keyword_ids,omitempty"`

	Bio          string `bson:"bio,omitempty" json:"bio,omitempty"`
	ContactEmail string `bson:"contact_email,omitempty" json:"contact_email,omitempty"`
	Phone        string `bson:"phone,omitempty" json:"phone,omitempty"`

	// CVPath is the storage path of the uploaded CV (under cvs/), if any.
	CVPath string `bson:"cv_path,omitempty" json:"cv_path,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

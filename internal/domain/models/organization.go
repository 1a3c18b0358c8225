// internal/domain/models/organization.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Organization is an institutional entity (university, company, technopole)
// that profiles affiliate with and that organizes events.
type Organization struct {
	ID     primitive.ObjectID `bson:"_id" json:"id"`
	Name   string             `bson:"name" json:"name"`
	NameCI string             `bson:"name_ci" json:"-"`

	Type        InstitutionType `bson:"type" json:"type"`
	Description string          `bson:"description,omitempty" json:"description,omitempty"`

	ContactEmail string `bson:"contact_email,omitempty" json:"contact_email,omitempty"`
	Website      string `bson:"website,omitempty" json:"website,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

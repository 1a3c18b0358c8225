// internal/domain/models/keyword.go
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Keyword is one entry of the flat controlled vocabulary shared by profiles
// and projects for discovery. Code is globally unique (unique index).
type Keyword struct {
	ID    primitive.ObjectID `bson:"_id" json:"id"`
	Code  string             `bson:"code" json:"code"`
	Label string             `bson:"label" json:"label"`

	// LabelCI backs case-insensitive search over tag labels.
	LabelCI string `bson:"label_ci" json:"-"`
}

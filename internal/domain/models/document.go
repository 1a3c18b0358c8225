// internal/domain/models/document.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Document is an uploaded file owned by a profile, optionally attached to a
// project. FilePath is the storage path (under documents/); the owner is
// always the uploading profile, never client input.
type Document struct {
	ID      primitive.ObjectID  `bson:"_id" json:"id"`
	OwnerID primitive.ObjectID  `bson:"owner_id" json:"owner_id"`
	ProjectID *primitive.ObjectID `bson:"project_id,omitempty" json:"project_id,omitempty"`

	Title    string `bson:"title" json:"title"`
	FilePath string `bson:"file_path" json:"file_path"`
	FileName string `bson:"file_name" json:"file_name"`
	FileSize int64  `bson:"file_size" json:"file_size"`

	UploadedAt time.Time `bson:"uploaded_at" json:"uploaded_at"`
}

// internal/domain/models/message.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message is a directed message between profiles. Immutable after creation
// except for the Read flag, which is flipped by an explicit mark-read action
// (the inbox listing itself never changes it).
type Message struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	SenderID    primitive.ObjectID `bson:"sender_id" json:"sender_id"`
	RecipientID primitive.ObjectID `bson:"recipient_id" json:"recipient_id"`

	Subject string `bson:"subject,omitempty" json:"subject,omitempty"`
	Body    string `bson:"body" json:"body"`

	SentAt time.Time `bson:"sent_at" json:"sent_at"`
	Read   bool      `bson:"read" json:"read"`
}

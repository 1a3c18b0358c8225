// internal/domain/models/event.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event is a scheduled gathering organized by an organization.
type Event struct {
	ID          primitive.ObjectID  `bson:"_id" json:"id"`
	Title       string              `bson:"title" json:"title"`
	Description string              `bson:"description,omitempty" json:"description,omitempty"`
	OrganizerID *primitive.ObjectID `bson:"organizer_id,omitempty" json:"organizer_id,omitempty"`
	Location    string              `bson:"location,omitempty" json:"location,omitempty"`

	Start time.Time `bson:"start" json:"start"`
	End   time.Time `bson:"end" json:"end"`

	// Capacity is informational; registration is not capped by it.
	Capacity *int `bson:"capacity,omitempty" json:"capacity,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// EventParticipant is the join between profiles and events. Exactly one
// document per (event_id, profile_id), enforced by a unique index. There is
// no withdrawal operation, unlike project participation.
type EventParticipant struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EventID   primitive.ObjectID `bson:"event_id" json:"event_id"`
	ProfileID primitive.ObjectID `bson:"profile_id" json:"profile_id"`

	Attended     bool      `bson:"attended" json:"attended"`
	RegisteredAt time.Time `bson:"registered_at" json:"registered_at"`
}

// internal/app/store/eventparticipants/eventpartstore.go
package eventpartstore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/sciencebridge/sciencebridge/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrAlreadyRegistered is returned when the profile already has a
// registration row for the event. The unique index on
// (event_id, profile_id) is the authoritative guard.
var ErrAlreadyRegistered = errors.New("profile already registered for this event")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("event_participants")}
}

// Register inserts a registration row for the pair. There is no
// unregistration; registrations persist until the event is removed.
func (s *Store) Register(ctx context.Context, eventID, profileID primitive.ObjectID) (models.EventParticipant, error) {
	p := models.EventParticipant{
		ID:           primitive.NewObjectID(),
		EventID:      eventID,
		ProfileID:    profileID,
		Attended:     false,
		RegisteredAt: time.Now(),
	}
	if _, err := s.c.InsertOne(ctx, p); err != nil {
		if wafflemongo.IsDup(err) {
			return models.EventParticipant{}, ErrAlreadyRegistered
		}
		return models.EventParticipant{}, err
	}
	return p, nil
}

// EventIDsForProfile returns the set of event IDs the profile is registered
// for. Backs the "already registered" annotation on the events listing.
func (s *Store) EventIDsForProfile(ctx context.Context, profileID primitive.ObjectID) (map[primitive.ObjectID]bool, error) {
	opts := options.Find().SetProjection(bson.M{"event_id": 1})
	cur, err := s.c.Find(ctx, bson.M{"profile_id": profileID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make(map[primitive.ObjectID]bool)
	for cur.Next(ctx) {
		var row struct {
			EventID primitive.ObjectID `bson:"event_id"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		out[row.EventID] = true
	}
	return out, cur.Err()
}

// CountForEvent returns how many profiles are registered for an event.
// Backs the attendance figure on the events listing.
func (s *Store) CountForEvent(ctx context.Context, eventID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"event_id": eventID})
}

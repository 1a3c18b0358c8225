// internal/app/store/messages/messagestore.go
package messagestore

import (
	"context"
	"errors"
	"time"

	"github.com/sciencebridge/sciencebridge/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotRecipient is returned when a profile tries to mark a message read
// that was not sent to them.
var ErrNotRecipient = errors.New("message does not belong to this recipient")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("messages")}
}

// Send inserts a message from sender to recipient. Messages are immutable
// after creation except for the read flag.
func (s *Store) Send(ctx context.Context, senderID, recipientID primitive.ObjectID, subject, body string) (models.Message, error) {
	m := models.Message{
		ID:          primitive.NewObjectID(),
		SenderID:    senderID,
		RecipientID: recipientID,
		Subject:     subject,
		Body:        body,
		SentAt:      time.Now(),
		Read:        false,
	}
	if _, err := s.c.InsertOne(ctx, m); err != nil {
		return models.Message{}, err
	}
	return m, nil
}

// Inbox returns messages received by a profile, newest first. Listing never
// changes read flags; that takes an explicit MarkRead.
func (s *Store) Inbox(ctx context.Context, recipientID primitive.ObjectID) ([]models.Message, error) {
	opts := options.Find().SetSort(bson.D{{Key: "sent_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"recipient_id": recipientID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Message
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Sent returns messages sent by a profile, newest first.
func (s *Store) Sent(ctx context.Context, senderID primitive.ObjectID) ([]models.Message, error) {
	opts := options.Find().SetSort(bson.D{{Key: "sent_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"sender_id": senderID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Message
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MarkRead flips the read flag on a message, but only when the caller is
// its recipient. Returns ErrNotRecipient otherwise.
func (s *Store) MarkRead(ctx context.Context, id, recipientID primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "recipient_id": recipientID},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotRecipient
	}
	return nil
}

// CountSent returns how many messages a profile has sent.
func (s *Store) CountSent(ctx context.Context, senderID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"sender_id": senderID})
}

// CountReceived returns how many messages a profile has received.
func (s *Store) CountReceived(ctx context.Context, recipientID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"recipient_id": recipientID})
}

// CountUnread returns the number of unread messages in a profile's inbox.
func (s *Store) CountUnread(ctx context.Context, recipientID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"recipient_id": recipientID, "read": false})
}

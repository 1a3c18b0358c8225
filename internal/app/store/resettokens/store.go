// internal/app/store/resettokens/store.go
package resettokens

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	// TokenLength is the reset token length in bytes (32 bytes = 64 hex chars).
	TokenLength = 32
	// DefaultExpiry is how long a reset token stays valid.
	DefaultExpiry = 30 * time.Minute
)

// ErrNotFound is returned when a token is unknown, already used, or expired.
var ErrNotFound = errors.New("reset token not found or expired")

// Token is a pending password reset. Single use; consumed on verification.
// A TTL index on expires_at cleans up abandoned tokens.
type Token struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    primitive.ObjectID `bson:"user_id"`
	Token     string             `bson:"token"`
	ExpiresAt time.Time          `bson:"expires_at"`
	CreatedAt time.Time          `bson:"created_at"`
}

// Store manages password reset tokens.
type Store struct {
	c      *mongo.Collection
	expiry time.Duration
}

// New creates a Store with the given expiry. Zero or negative expiry falls
// back to DefaultExpiry.
func New(db *mongo.Database, expiry time.Duration) *Store {
	if expiry <= 0 {
		expiry = DefaultExpiry
	}
	return &Store{c: db.Collection("reset_tokens"), expiry: expiry}
}

// Create issues a fresh token for the user, replacing any outstanding one.
// Returns the plain token to embed in the reset link.
func (s *Store) Create(ctx context.Context, userID primitive.ObjectID) (string, error) {
	// One outstanding token per user.
	if _, err := s.c.DeleteMany(ctx, bson.M{"user_id": userID}); err != nil {
		return "", err
	}

	now := time.Now()
	t := Token{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Token:     generateToken(),
		ExpiresAt: now.Add(s.expiry),
		CreatedAt: now,
	}
	if _, err := s.c.InsertOne(ctx, t); err != nil {
		return "", err
	}
	return t.Token, nil
}

// Peek checks a token without consuming it, so the reset form can be shown
// before the user submits a new password. Returns ErrNotFound when invalid.
func (s *Store) Peek(ctx context.Context, token string) (primitive.ObjectID, error) {
	var t Token
	err := s.c.FindOne(ctx, bson.M{
		"token":      token,
		"expires_at": bson.M{"$gt": time.Now()},
	}).Decode(&t)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return primitive.NilObjectID, ErrNotFound
		}
		return primitive.NilObjectID, err
	}
	return t.UserID, nil
}

// Consume validates a token and deletes it (single use). Returns the user
// the token was issued for, or ErrNotFound when invalid.
func (s *Store) Consume(ctx context.Context, token string) (primitive.ObjectID, error) {
	var t Token
	err := s.c.FindOneAndDelete(ctx, bson.M{
		"token":      token,
		"expires_at": bson.M{"$gt": time.Now()},
	}).Decode(&t)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return primitive.NilObjectID, ErrNotFound
		}
		return primitive.NilObjectID, err
	}
	return t.UserID, nil
}

// DeleteByUser removes all outstanding tokens for a user (after a
// successful reset or an account change).
func (s *Store) DeleteByUser(ctx context.Context, userID primitive.ObjectID) error {
	_, err := s.c.DeleteMany(ctx, bson.M{"user_id": userID})
	return err
}

// generateToken returns a random hex token. Panics if the system's
// cryptographic random number generator fails.
func generateToken() string {
	b := make([]byte, TokenLength)
	if _, err := rand.Read(b); err != nil {
		panic("crypto/rand.Read failed: " + err.Error())
	}
	return hex.EncodeToString(b)
}

// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/sciencebridge/sciencebridge/internal/app/system/normalize"
	"github.com/sciencebridge/sciencebridge/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrDuplicateHandle is returned when the handle is already taken. The unique
// index on handle_ci is the authoritative guard; any pre-insert availability
// check is advisory only.
var ErrDuplicateHandle = errors.New("a user with this handle already exists")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByHandle looks a user up by handle, case-insensitively. Returns
// mongo.ErrNoDocuments if not found.
func (s *Store) GetByHandle(ctx context.Context, handle string) (*models.User, error) {
	var u models.User
	ci := text.Fold(normalize.Handle(handle))
	if err := s.c.FindOne(ctx, bson.M{"handle_ci": ci}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks a user up by normalized email. Returns
// mongo.ErrNoDocuments if not found.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByGoogleSub looks a user up by the Google subject claim of a linked
// Google account. Returns mongo.ErrNoDocuments if no account is linked.
func (s *Store) GetByGoogleSub(ctx context.Context, sub string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"google_sub": sub}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user after normalizing its identity fields.
// Returns ErrDuplicateHandle if the handle is already taken.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.Handle = normalize.Handle(u.Handle)
	u.HandleCI = text.Fold(u.Handle)
	u.Email = normalize.Email(u.Email)

	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateHandle
		}
		return models.User{}, err
	}
	return u, nil
}

// SetPasswordHash replaces the stored password hash (password reset).
func (s *Store) SetPasswordHash(ctx context.Context, id primitive.ObjectID, hash string) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"password_hash": hash,
		"updated_at":    time.Now(),
	}})
	return err
}

// LinkGoogle records the Google subject claim on an existing account so
// future Google sign-ins resolve directly.
func (s *Store) LinkGoogle(ctx context.Context, id primitive.ObjectID, sub string) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"google_sub": sub,
		"updated_at": time.Now(),
	}})
	return err
}

// UpdateEmail sets a new (normalized) contact email on the account.
func (s *Store) UpdateEmail(ctx context.Context, id primitive.ObjectID, email string) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"email":      normalize.Email(email),
		"updated_at": time.Now(),
	}})
	return err
}

// HandleExists reports whether a handle is already taken. Advisory only; the
// unique index decides at insert time.
func (s *Store) HandleExists(ctx context.Context, handle string) (bool, error) {
	ci := text.Fold(normalize.Handle(handle))
	n, err := s.c.CountDocuments(ctx, bson.M{"handle_ci": ci})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// GetManyByIDs loads the named users keyed by ID, for joining display names
// onto lists (inbox senders, applicants).
func (s *Store) GetManyByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error) {
	out := make(map[primitive.ObjectID]models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var u models.User
		if err := cur.Decode(&u); err != nil {
			return nil, err
		}
		out[u.ID] = u
	}
	return out, cur.Err()
}

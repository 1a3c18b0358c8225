// internal/app/store/organizations/orgstore.go
package orgstore

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
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrDuplicateName is returned when an organization with the same folded
// name already exists. The unique index on name_ci is the authoritative
// guard.
var ErrDuplicateName = errors.New("an organization with this name already exists")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("organizations")}
}

// GetByID loads an organization by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Organization, error) {
	var o models.Organization
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&o); err != nil {
		return nil, err
	}
	return &o, nil
}

// List returns all organizations sorted by name, for affiliation pickers.
func (s *Store) List(ctx context.Context) ([]models.Organization, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Organization
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts a new organization after normalizing the name. Returns
// ErrDuplicateName when the name is taken.
func (s *Store) Create(ctx context.Context, o models.Organization) (models.Organization, error) {
	o.ID = primitive.NewObjectID()
	o.Name = normalize.Name(o.Name)
	o.NameCI = text.Fold(o.Name)
	o.ContactEmail = normalize.Email(o.ContactEmail)

	now := time.Now()
	o.CreatedAt = now
	o.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, o); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Organization{}, ErrDuplicateName
		}
		return models.Organization{}, err
	}
	return o, nil
}

// GetManyByIDs loads the named organizations keyed by ID.
func (s *Store) GetManyByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Organization, error) {
	out := make(map[primitive.ObjectID]models.Organization, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var o models.Organization
		if err := cur.Decode(&o); err != nil {
			return nil, err
		}
		out[o.ID] = o
	}
	return out, cur.Err()
}

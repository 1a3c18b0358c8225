// internal/app/store/keywords/keywordstore.go
package keywordstore

import (
	"context"
	"errors"
	"regexp"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/sciencebridge/sciencebridge/internal/app/system/normalize"
	"github.com/sciencebridge/sciencebridge/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrDuplicateCode is returned when a keyword code already exists. The
// unique index on code is the authoritative guard.
var ErrDuplicateCode = errors.New("a keyword with this code already exists")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("keywords")}
}

// List returns the whole vocabulary sorted by label, for tag pickers.
func (s *Store) List(ctx context.Context) ([]models.Keyword, error) {
	opts := options.Find().SetSort(bson.D{{Key: "label_ci", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Keyword
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetManyByIDs loads the named keywords keyed by ID.
func (s *Store) GetManyByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Keyword, error) {
	out := make(map[primitive.ObjectID]models.Keyword, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var k models.Keyword
		if err := cur.Decode(&k); err != nil {
			return nil, err
		}
		out[k.ID] = k
	}
	return out, cur.Err()
}

// IDsMatchingLabel returns the IDs of keywords whose label contains the
// query, case-insensitively. Used to widen project search to tag labels.
func (s *Store) IDsMatchingLabel(ctx context.Context, q string) ([]primitive.ObjectID, error) {
	q = normalize.QueryParam(q)
	if q == "" {
		return nil, nil
	}
	filter := bson.M{"label_ci": bson.M{
		"$regex": primitive.Regex{Pattern: regexp.QuoteMeta(text.Fold(q))},
	}}
	opts := options.Find().SetProjection(bson.M{"_id": 1})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var ids []primitive.ObjectID
	for cur.Next(ctx) {
		var row struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		ids = append(ids, row.ID)
	}
	return ids, cur.Err()
}

// Create inserts a new keyword. Returns ErrDuplicateCode if the code exists.
func (s *Store) Create(ctx context.Context, code, label string) (models.Keyword, error) {
	k := models.Keyword{
		ID:      primitive.NewObjectID(),
		Code:    normalize.Code(code),
		Label:   normalize.Name(label),
		LabelCI: text.Fold(label),
	}
	if _, err := s.c.InsertOne(ctx, k); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Keyword{}, ErrDuplicateCode
		}
		return models.Keyword{}, err
	}
	return k, nil
}

// Count returns the vocabulary size. Used to decide whether to seed.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}

// SeedEntry is one keyword to install when the vocabulary is empty.
type SeedEntry struct {
	Code  string
	Label string
}

// Seed inserts the given entries, skipping any whose code already exists.
func (s *Store) Seed(ctx context.Context, entries []SeedEntry) error {
	for _, e := range entries {
		if _, err := s.Create(ctx, e.Code, e.Label); err != nil && !errors.Is(err, ErrDuplicateCode) {
			return err
		}
	}
	return nil
}

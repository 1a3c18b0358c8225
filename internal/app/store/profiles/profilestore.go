// internal/app/store/profiles/profilestore.go
package profilestore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/sciencebridge/sciencebridge/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// ErrProfileExists is returned when the user already has a profile.
	// The unique index on user_id is the authoritative guard.
	ErrProfileExists = errors.New("user already has a profile")
	errBadRole       = errors.New("unknown profile role")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("profiles")}
}

// GetByID loads a profile by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Profile, error) {
	var p models.Profile
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByUserID loads the profile owned by a user account. Returns
// mongo.ErrNoDocuments if the account has no profile yet.
func (s *Store) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Profile, error) {
	var p models.Profile
	if err := s.c.FindOne(ctx, bson.M{"user_id": userID}).Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts the user's profile. Role must be one of the defined roles;
// returns ErrProfileExists if the user already has one.
func (s *Store) Create(ctx context.Context, p models.Profile) (models.Profile, error) {
	if !p.Role.IsValid() {
		return models.Profile{}, errBadRole
	}

	p.ID = primitive.NewObjectID()
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, p); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Profile{}, ErrProfileExists
		}
		return models.Profile{}, err
	}
	return p, nil
}

// Update holds the editable profile fields. Role is fixed at registration
// and never updated here.
type Update struct {
	InstitutionType models.InstitutionType
	OrganizationID  *primitive.ObjectID
	Specialization  models.Specialization
	KeywordIDs      []primitive.ObjectID
	Bio             string
	ContactEmail    string
	Phone           string
}

// Apply updates the editable fields of a profile.
func (s *Store) Apply(ctx context.Context, id primitive.ObjectID, upd Update) error {
	set := bson.M{
		"institution_type": upd.InstitutionType,
		"organization_id":  upd.OrganizationID,
		"specialization":   upd.Specialization,
		"keyword_ids":      upd.KeywordIDs,
		"bio":              upd.Bio,
		"contact_email":    upd.ContactEmail,
		"phone":            upd.Phone,
		"updated_at":       time.Now(),
	}
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	return err
}

// SetCVPath records the storage path of a freshly uploaded CV.
func (s *Store) SetCVPath(ctx context.Context, id primitive.ObjectID, path string) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"cv_path":    path,
		"updated_at": time.Now(),
	}})
	return err
}

// Count returns the total number of profiles.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}

// GetManyByIDs loads the named profiles keyed by ID, for joining applicant
// details onto participant lists.
func (s *Store) GetManyByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Profile, error) {
	out := make(map[primitive.ObjectID]models.Profile, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var p models.Profile
		if err := cur.Decode(&p); err != nil {
			return nil, err
		}
		out[p.ID] = p
	}
	return out, cur.Err()
}

// internal/app/store/participants/participantstore.go
package participantstore

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

var (
	// ErrAlreadyApplied is returned when the profile already has a
	// participation row for the project. The unique index on
	// (project_id, profile_id) is the authoritative guard; a duplicate-key
	// error on insert is the definitive duplicate signal, regardless of
	// what any advisory pre-check saw.
	ErrAlreadyApplied = errors.New("profile already applied to this project")

	// ErrNoApplication is returned when no participation row exists for the
	// pair (withdraw, accept, reject on a missing application).
	ErrNoApplication = errors.New("no application for this project")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("participants")}
}

// Apply inserts a pending candidate row for the pair. Accepted starts false;
// JoinedAt stays unset until acceptance.
func (s *Store) Apply(ctx context.Context, projectID, profileID primitive.ObjectID) (models.ProjectParticipant, error) {
	p := models.ProjectParticipant{
		ID:        primitive.NewObjectID(),
		ProjectID: projectID,
		ProfileID: profileID,
		Role:      models.ParticipantCandidate,
		Accepted:  false,
		AppliedAt: time.Now(),
	}
	if _, err := s.c.InsertOne(ctx, p); err != nil {
		if wafflemongo.IsDup(err) {
			return models.ProjectParticipant{}, ErrAlreadyApplied
		}
		return models.ProjectParticipant{}, err
	}
	return p, nil
}

// Get loads the participation row for the pair. Returns ErrNoApplication
// when none exists.
func (s *Store) Get(ctx context.Context, projectID, profileID primitive.ObjectID) (*models.ProjectParticipant, error) {
	var p models.ProjectParticipant
	err := s.c.FindOne(ctx, bson.M{"project_id": projectID, "profile_id": profileID}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoApplication
		}
		return nil, err
	}
	return &p, nil
}

// Exists reports whether a participation row exists for the pair. Advisory
// only; Apply's duplicate-key handling decides at insert time.
func (s *Store) Exists(ctx context.Context, projectID, profileID primitive.ObjectID) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"project_id": projectID, "profile_id": profileID})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Withdraw deletes the profile's participation row for the project. Returns
// ErrNoApplication when there was nothing to withdraw.
func (s *Store) Withdraw(ctx context.Context, projectID, profileID primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"project_id": projectID, "profile_id": profileID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNoApplication
	}
	return nil
}

// Accept marks the pair's row accepted and stamps joined_at. Returns
// ErrNoApplication when no row exists.
func (s *Store) Accept(ctx context.Context, projectID, profileID primitive.ObjectID) error {
	now := time.Now()
	res, err := s.c.UpdateOne(ctx,
		bson.M{"project_id": projectID, "profile_id": profileID},
		bson.M{"$set": bson.M{"accepted": true, "joined_at": now}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNoApplication
	}
	return nil
}

// Reject deletes the pair's row outright; no rejected state is retained.
// Returns ErrNoApplication when no row exists.
func (s *Store) Reject(ctx context.Context, projectID, profileID primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"project_id": projectID, "profile_id": profileID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNoApplication
	}
	return nil
}

// ListByProject returns all participation rows for a project, pending
// first, then by application time.
func (s *Store) ListByProject(ctx context.Context, projectID primitive.ObjectID) ([]models.ProjectParticipant, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "accepted", Value: 1},
		{Key: "applied_at", Value: 1},
	})
	cur, err := s.c.Find(ctx, bson.M{"project_id": projectID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.ProjectParticipant
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByProfile returns all of a profile's participation rows, newest
// application first.
func (s *Store) ListByProfile(ctx context.Context, profileID primitive.ObjectID) ([]models.ProjectParticipant, error) {
	opts := options.Find().SetSort(bson.D{{Key: "applied_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"profile_id": profileID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.ProjectParticipant
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ProjectIDsForProfile returns the set of project IDs the profile has a
// participation row for. Backs the "already applied" annotation on listings.
func (s *Store) ProjectIDsForProfile(ctx context.Context, profileID primitive.ObjectID) (map[primitive.ObjectID]bool, error) {
	opts := options.Find().SetProjection(bson.M{"project_id": 1})
	cur, err := s.c.Find(ctx, bson.M{"profile_id": profileID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make(map[primitive.ObjectID]bool)
	for cur.Next(ctx) {
		var row struct {
			ProjectID primitive.ObjectID `bson:"project_id"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		out[row.ProjectID] = true
	}
	return out, cur.Err()
}

// CountByProfile returns how many applications a profile has outstanding or
// accepted.
func (s *Store) CountByProfile(ctx context.Context, profileID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"profile_id": profileID})
}

// CountPendingForProjects returns the number of pending (not yet accepted)
// applications across the given projects, for the owner's dashboard.
func (s *Store) CountPendingForProjects(ctx context.Context, projectIDs []primitive.ObjectID) (int64, error) {
	if len(projectIDs) == 0 {
		return 0, nil
	}
	return s.c.CountDocuments(ctx, bson.M{
		"project_id": bson.M{"$in": projectIDs},
		"accepted":   false,
	})
}

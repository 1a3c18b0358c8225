// internal/app/store/projects/projectstore.go
package projectstore

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/sciencebridge/sciencebridge/internal/app/system/normalize"
	"github.com/sciencebridge/sciencebridge/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	errBadType   = errors.New("unknown project type")
	errBadStatus = errors.New("unknown project status")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("projects")}
}

// GetByID loads a project by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error) {
	var p models.Project
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a new project after validating its enums. Status defaults
// to open when unset.
func (s *Store) Create(ctx context.Context, p models.Project) (models.Project, error) {
	if p.Status == "" {
		p.Status = models.StatusOpen
	}
	if !p.Type.IsValid() {
		return models.Project{}, errBadType
	}
	if !p.Status.IsValid() {
		return models.Project{}, errBadStatus
	}

	p.ID = primitive.NewObjectID()
	p.Title = normalize.Name(p.Title)
	p.TitleCI = text.Fold(p.Title)

	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.Project{}, err
	}
	return p, nil
}

// Update holds the owner-editable project fields.
type Update struct {
	Title                string
	Description          string
	Type                 models.ProjectType
	Status               models.ProjectStatus
	SpecializationNeeded models.Specialization
	KeywordIDs           []primitive.ObjectID
	Duration             string
	Prerequisites        string
	Budget               string
}

// Apply updates a project's editable fields.
func (s *Store) Apply(ctx context.Context, id primitive.ObjectID, upd Update) error {
	if !upd.Type.IsValid() {
		return errBadType
	}
	if !upd.Status.IsValid() {
		return errBadStatus
	}

	title := normalize.Name(upd.Title)
	set := bson.M{
		"title":                 title,
		"title_ci":              text.Fold(title),
		"description":           upd.Description,
		"type":                  upd.Type,
		"status":                upd.Status,
		"specialization_needed": upd.SpecializationNeeded,
		"keyword_ids":           upd.KeywordIDs,
		"duration":              upd.Duration,
		"prerequisites":         upd.Prerequisites,
		"budget":                upd.Budget,
		"updated_at":            time.Now(),
	}
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	return err
}

// SetStatus transitions a project's lifecycle state.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, status models.ProjectStatus) error {
	if !status.IsValid() {
		return errBadStatus
	}
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"status":     status,
		"updated_at": time.Now(),
	}})
	return err
}

// Search returns projects whose title or description contains q, or that
// carry any of the extra keyword IDs (resolved by the caller from tag label
// matches). An empty query with no keyword IDs lists every project. Results
// come back in insertion order; discovery applies no ranking.
func (s *Store) Search(ctx context.Context, q string, keywordIDs []primitive.ObjectID) ([]models.Project, error) {
	q = normalize.QueryParam(q)

	filter := bson.M{}
	if q != "" || len(keywordIDs) > 0 {
		var or []bson.M
		if q != "" {
			rx := primitive.Regex{Pattern: regexp.QuoteMeta(q), Options: "i"}
			or = append(or,
				bson.M{"title": bson.M{"$regex": rx}},
				bson.M{"description": bson.M{"$regex": rx}},
			)
		}
		if len(keywordIDs) > 0 {
			or = append(or, bson.M{"keyword_ids": bson.M{"$in": keywordIDs}})
		}
		filter["$or"] = or
	}

	cur, err := s.c.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Project
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByPoster returns the projects a profile has posted, newest first.
func (s *Store) ListByPoster(ctx context.Context, posterID primitive.ObjectID) ([]models.Project, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"posted_by": posterID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Project
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListRecent returns the newest projects up to limit, for the dashboard.
func (s *Store) ListRecent(ctx context.Context, limit int64) ([]models.Project, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Project
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetManyByIDs loads the named projects keyed by ID.
func (s *Store) GetManyByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Project, error) {
	out := make(map[primitive.ObjectID]models.Project, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var p models.Project
		if err := cur.Decode(&p); err != nil {
			return nil, err
		}
		out[p.ID] = p
	}
	return out, cur.Err()
}

// CountByPoster returns how many projects a profile has posted.
func (s *Store) CountByPoster(ctx context.Context, posterID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"posted_by": posterID})
}

// Count returns the total number of projects.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}

// CountOpen returns how many projects are currently open for applications.
func (s *Store) CountOpen(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"status": models.StatusOpen})
}

// MatchingSpecialization returns open projects needing the given field,
// excluding those posted by the profile itself. Backs suggestions.
func (s *Store) MatchingSpecialization(ctx context.Context, spec models.Specialization, excludePoster primitive.ObjectID, limit int64) ([]models.Project, error) {
	filter := bson.M{
		"status":                models.StatusOpen,
		"specialization_needed": spec,
		"posted_by":             bson.M{"$ne": excludePoster},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Project
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

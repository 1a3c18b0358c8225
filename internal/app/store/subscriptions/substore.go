// internal/app/store/subscriptions/substore.go
package substore

import (
	"context"
	"time"

	"github.com/sciencebridge/sciencebridge/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store manages the plan catalog and company subscription records. Both are
// informational; nothing on the platform is gated by plan.
type Store struct {
	plans *mongo.Collection
	subs  *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		plans: db.Collection("subscription_plans"),
		subs:  db.Collection("company_subscriptions"),
	}
}

// ListPlans returns the plan catalog sorted by name.
func (s *Store) ListPlans(ctx context.Context) ([]models.SubscriptionPlan, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cur, err := s.plans.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.SubscriptionPlan
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetPlan loads one plan by ObjectID.
func (s *Store) GetPlan(ctx context.Context, id primitive.ObjectID) (*models.SubscriptionPlan, error) {
	var p models.SubscriptionPlan
	if err := s.plans.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Subscribe records a company's subscription to a plan for the given term.
func (s *Store) Subscribe(ctx context.Context, companyID, planID primitive.ObjectID, term time.Duration) (models.CompanySubscription, error) {
	now := time.Now()
	sub := models.CompanySubscription{
		ID:        primitive.NewObjectID(),
		CompanyID: companyID,
		PlanID:    planID,
		StartedAt: now,
		ExpiresAt: now.Add(term),
	}
	if _, err := s.subs.InsertOne(ctx, sub); err != nil {
		return models.CompanySubscription{}, err
	}
	return sub, nil
}

// ActiveForCompany returns the company's unexpired subscriptions, newest
// first.
func (s *Store) ActiveForCompany(ctx context.Context, companyID primitive.ObjectID) ([]models.CompanySubscription, error) {
	filter := bson.M{
		"company_id": companyID,
		"expires_at": bson.M{"$gt": time.Now()},
	}
	opts := options.Find().SetSort(bson.D{{Key: "started_at", Value: -1}})
	cur, err := s.subs.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.CompanySubscription
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

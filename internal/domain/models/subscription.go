// internal/domain/models/subscription.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SubscriptionPlan is one entry of the plan catalog. Informational only;
// nothing on the platform is gated by plan.
type SubscriptionPlan struct {
	ID           primitive.ObjectID `bson:"_id" json:"id"`
	Name         string             `bson:"name" json:"name"`
	PricePerYear string             `bson:"price_per_year" json:"price_per_year"`
	Features     string             `bson:"features,omitempty" json:"features,omitempty"`
}

// CompanySubscription records a company profile's subscription period for a
// plan. No enforcement logic reads it.
type CompanySubscription struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	CompanyID primitive.ObjectID `bson:"company_id" json:"company_id"`
	PlanID    primitive.ObjectID `bson:"plan_id" json:"plan_id"`

	StartedAt time.Time `bson:"started_at" json:"started_at"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
}

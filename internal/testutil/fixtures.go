package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/sciencebridge/sciencebridge/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates a test user account.
func (f *Fixtures) CreateUser(ctx context.Context, handle, email string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:        primitive.NewObjectID(),
		Handle:    handle,
		HandleCI:  text.Fold(handle),
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateProfile creates a profile for the given user with the given role.
func (f *Fixtures) CreateProfile(ctx context.Context, userID primitive.ObjectID, role models.Role, spec models.Specialization) models.Profile {
	f.t.Helper()

	now := time.Now().UTC()
	profile := models.Profile{
		ID:             primitive.NewObjectID(),
		UserID:         userID,
		Role:           role,
		Specialization: spec,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if _, err := f.db.Collection("profiles").InsertOne(ctx, profile); err != nil {
		f.t.Fatalf("failed to create test profile: %v", err)
	}
	return profile
}

// CreateAccount creates a user plus its profile and returns both.
func (f *Fixtures) CreateAccount(ctx context.Context, handle string, role models.Role) (models.User, models.Profile) {
	f.t.Helper()
	user := f.CreateUser(ctx, handle, handle+"@test.com")
	profile := f.CreateProfile(ctx, user.ID, role, models.SpecCS)
	return user, profile
}

// CreateOrganization creates a test organization with the given name.
func (f *Fixtures) CreateOrganization(ctx context.Context, name string, typ models.InstitutionType) models.Organization {
	f.t.Helper()

	now := time.Now().UTC()
	org := models.Organization{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		Type:      typ,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("organizations").InsertOne(ctx, org); err != nil {
		f.t.Fatalf("failed to create test organization: %v", err)
	}
	return org
}

// CreateKeyword creates a test keyword.
func (f *Fixtures) CreateKeyword(ctx context.Context, code, label string) models.Keyword {
	f.t.Helper()

	kw := models.Keyword{
		ID:      primitive.NewObjectID(),
		Code:    code,
		Label:   label,
		LabelCI: text.Fold(label),
	}
	if _, err := f.db.Collection("keywords").InsertOne(ctx, kw); err != nil {
		f.t.Fatalf("failed to create test keyword: %v", err)
	}
	return kw
}

// CreateProject creates an open test project posted by the given profile.
func (f *Fixtures) CreateProject(ctx context.Context, title string, posterID primitive.ObjectID) models.Project {
	f.t.Helper()
	return f.CreateProjectWithStatus(ctx, title, posterID, models.StatusOpen)
}

// CreateProjectWithStatus creates a test project in the given status.
func (f *Fixtures) CreateProjectWithStatus(ctx context.Context, title string, posterID primitive.ObjectID, status models.ProjectStatus) models.Project {
	f.t.Helper()

	now := time.Now().UTC()
	project := models.Project{
		ID:                   primitive.NewObjectID(),
		Title:                title,
		TitleCI:              text.Fold(title),
		PostedBy:             posterID,
		Description:          "Test project description",
		Type:                 models.ProjectResearch,
		Status:               status,
		SpecializationNeeded: models.SpecCS,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if _, err := f.db.Collection("projects").InsertOne(ctx, project); err != nil {
		f.t.Fatalf("failed to create test project: %v", err)
	}
	return project
}

// CreateEvent creates a test event starting at the given time.
func (f *Fixtures) CreateEvent(ctx context.Context, title string, start time.Time) models.Event {
	f.t.Helper()

	event := models.Event{
		ID:        primitive.NewObjectID(),
		Title:     title,
		Start:     start,
		End:       start.Add(2 * time.Hour),
		CreatedAt: time.Now().UTC(),
	}
	if _, err := f.db.Collection("events").InsertOne(ctx, event); err != nil {
		f.t.Fatalf("failed to create test event: %v", err)
	}
	return event
}

// CreatePlan creates a test subscription plan.
func (f *Fixtures) CreatePlan(ctx context.Context, name, price string) models.SubscriptionPlan {
	f.t.Helper()

	plan := models.SubscriptionPlan{
		ID:           primitive.NewObjectID(),
		Name:         name,
		PricePerYear: price,
	}
	if _, err := f.db.Collection("subscription_plans").InsertOne(ctx, plan); err != nil {
		f.t.Fatalf("failed to create test plan: %v", err)
	}
	return plan
}

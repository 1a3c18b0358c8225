package projectpolicy_test

import (
	"errors"
	"testing"

	"github.com/sciencebridge/sciencebridge/internal/app/policy/projectpolicy"
	projectstore "github.com/sciencebridge/sciencebridge/internal/app/store/projects"
	"github.com/sciencebridge/sciencebridge/internal/domain/models"
	"github.com/sciencebridge/sciencebridge/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestCanApply(t *testing.T) {
	cases := []struct {
		name   string
		role   models.Role
		status models.ProjectStatus
		want   bool
	}{
		{"student on open project", models.RoleStudent, models.StatusOpen, true},
		{"researcher on open project", models.RoleResearcher, models.StatusOpen, true},
		{"company on open project", models.RoleCompany, models.StatusOpen, false},
		{"university on open project", models.RoleUniversity, models.StatusOpen, false},
		{"student on completed project", models.RoleStudent, models.StatusCompleted, false},
		{"student on cancelled project", models.RoleStudent, models.StatusCancelled, false},
		{"student on in-progress project", models.RoleStudent, models.StatusInProgress, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := projectpolicy.CanApply(tc.role, tc.status); got != tc.want {
				t.Errorf("CanApply(%q, %q) = %v, want %v", tc.role, tc.status, got, tc.want)
			}
		})
	}
}

func TestCanManage_OwnerOnly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)

	_, owner := f.CreateAccount(ctx, "owner", models.RoleResearcher)
	_, other := f.CreateAccount(ctx, "other", models.RoleResearcher)
	project := f.CreateProject(ctx, "Owned Project", owner.ID)

	policy := projectpolicy.New(projectstore.New(db))

	can, err := policy.CanManage(ctx, project.ID, owner.ID)
	if err != nil {
		t.Fatalf("CanManage failed: %v", err)
	}
	if !can {
		t.Error("owner should be able to manage")
	}

	can, err = policy.CanManage(ctx, project.ID, other.ID)
	if err != nil {
		t.Fatalf("CanManage failed: %v", err)
	}
	if can {
		t.Error("non-owner should not be able to manage")
	}

	// A missing project surfaces as the store's not-found error.
	if _, err := policy.CanManage(ctx, primitive.NewObjectID(), owner.ID); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("CanManage on missing project: got %v, want mongo.ErrNoDocuments", err)
	}
}

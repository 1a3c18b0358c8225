// internal/app/policy/projectpolicy/projectpolicy.go

// Package projectpolicy decides what a profile may do to a specific
// project. Role-level checks (who may create projects at all) live in
// authz and gates; this package covers decisions that need the project
// document itself.
package projectpolicy

import (
	"context"

	projectstore "github.com/sciencebridge/sciencebridge/internal/app/store/projects"
	"github.com/sciencebridge/sciencebridge/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Policy evaluates project-scoped permissions.
type Policy struct {
	projects *projectstore.Store
}

// New constructs a Policy over the project store.
func New(projects *projectstore.Store) *Policy {
	return &Policy{projects: projects}
}

// CanManage reports whether the profile may manage the project's
// applications and lifecycle. Only the posting profile may; there are no
// co-managers.
func (p *Policy) CanManage(ctx context.Context, projectID, profileID primitive.ObjectID) (bool, error) {
	proj, err := p.projects.GetByID(ctx, projectID)
	if err != nil {
		return false, err
	}
	return proj.PostedBy == profileID, nil
}

// CanApply reports whether the profile's role may apply and the project is
// accepting applications. Existing-application checks are left to the
// participant store's insert, whose unique index is authoritative.
func CanApply(role models.Role, status models.ProjectStatus) bool {
	return role.CanApplyToProjects() && status == models.StatusOpen
}

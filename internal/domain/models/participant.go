// internal/domain/models/participant.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ParticipantRole is the closed set of roles a profile can hold on a project.
type ParticipantRole string

const (
	ParticipantCandidate      ParticipantRole = "candidate"
	ParticipantMember         ParticipantRole = "member"
	ParticipantSupervisor     ParticipantRole = "supervisor"
	ParticipantCompanyContact ParticipantRole = "company_contact"
)

// ParticipantRoleOption pairs a stored participant role with its label.
type ParticipantRoleOption struct {
	Value ParticipantRole
	Label string
}

// AllParticipantRoles contains every participant role with its label.
var AllParticipantRoles = []ParticipantRoleOption{
	{Value: ParticipantCandidate, Label: "Candidate"},
	{Value: ParticipantMember, Label: "Member"},
	{Value: ParticipantSupervisor, Label: "Supervisor"},
	{Value: ParticipantCompanyContact, Label: "Company Contact"},
}

// IsValid reports whether r is one of the defined participant roles.
func (r ParticipantRole) IsValid() bool {
	switch r {
	case ParticipantCandidate, ParticipantMember, ParticipantSupervisor, ParticipantCompanyContact:
		return true
	}
	return false
}

// Label returns the display label, or the raw value if unknown.
func (r ParticipantRole) Label() string {
	for _, o := range AllParticipantRoles {
		if o.Value == r {
			return o.Label
		}
	}
	return string(r)
}

// ProjectParticipant is the authoritative join between profiles and projects.
// Exactly one document per (project_id, profile_id), enforced by a unique
// index. The application's pre-insert existence check is advisory only.
//
// Lifecycle: created on apply (accepted=false), accepted by the project owner
// (accepted=true, joined_at set), and deleted outright on withdrawal or
// rejection. There is no retained "rejected" state.
type ProjectParticipant struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProjectID primitive.ObjectID `bson:"project_id" json:"project_id"`
	ProfileID primitive.ObjectID `bson:"profile_id" json:"profile_id"`

	Role      ParticipantRole `bson:"role" json:"role"`
	Accepted  bool            `bson:"accepted" json:"accepted"`
	AppliedAt time.Time       `bson:"applied_at" json:"applied_at"`
	JoinedAt  *time.Time      `bson:"joined_at,omitempty" json:"joined_at,omitempty"`
}

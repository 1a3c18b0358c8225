// internal/domain/models/project.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProjectType is the closed set of project kinds.
type ProjectType string

const (
	ProjectMission     ProjectType = "mission"
	ProjectResearch    ProjectType = "research"
	ProjectEngineering ProjectType = "engineering"
	ProjectPFE         ProjectType = "pfe"
)

// ProjectTypeOption pairs a stored project type with its display label.
type ProjectTypeOption struct {
	Value ProjectType
	Label string
}

// AllProjectTypes contains every project type with its label, in UI order.
var AllProjectTypes = []ProjectTypeOption{
	{Value: ProjectMission, Label: "Mission Courte"},
	{Value: ProjectResearch, Label: "Recherche"},
	{Value: ProjectEngineering, Label: "Ingénierie"},
	{Value: ProjectPFE, Label: "PFE / Master / PhD"},
}

// IsValid reports whether t is one of the defined project types.
func (t ProjectType) IsValid() bool {
	switch t {
	case ProjectMission, ProjectResearch, ProjectEngineering, ProjectPFE:
		return true
	}
	return false
}

// Label returns the display label, or the raw value if unknown.
func (t ProjectType) Label() string {
	for _, o := range AllProjectTypes {
		if o.Value == t {
			return o.Label
		}
	}
	return string(t)
}

// ProjectStatus is the closed set of project lifecycle states. Transitions
// are owner-driven, never time-based; only open projects accept applications.
type ProjectStatus string

const (
	StatusOpen       ProjectStatus = "open"
	StatusInProgress ProjectStatus = "in_progress"
	StatusCompleted  ProjectStatus = "completed"
	StatusCancelled  ProjectStatus = "cancelled"
)

// ProjectStatusOption pairs a stored status with its display label.
type ProjectStatusOption struct {
	Value ProjectStatus
	Label string
}

// AllProjectStatuses contains every status with its label, in UI order.
var AllProjectStatuses = []ProjectStatusOption{
	{Value: StatusOpen, Label: "Open"},
	{Value: StatusInProgress, Label: "In Progress"},
	{Value: StatusCompleted, Label: "Completed"},
	{Value: StatusCancelled, Label: "Cancelled"},
}

// IsValid reports whether s is one of the defined statuses.
func (s ProjectStatus) IsValid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Label returns the display label, or the raw value if unknown.
func (s ProjectStatus) Label() string {
	for _, o := range AllProjectStatuses {
		if o.Value == s {
			return o.Label
		}
	}
	return string(s)
}

// Project is a posted collaboration project. PostedBy is always the creating
// profile; it is never taken from client input.
type Project struct {
	ID       primitive.ObjectID `bson:"_id" json:"id"`
	Title    string             `bson:"title" json:"title"`
	TitleCI  string             `bson:"title_ci" json:"-"`
	PostedBy primitive.ObjectID `bson:"posted_by" json:"posted_by"`

	Description          string         `bson:"description" json:"description"`
	Type                 ProjectType    `bson:"type" json:"type"`
	Status               ProjectStatus  `bson:"status" json:"status"`
	SpecializationNeeded Specialization `bson:"specialization_needed" json:"specialization_needed"`

	// KeywordIDs tags the project for discovery.
	KeywordIDs []primitive.ObjectID `bson:"keyword_ids,omitempty" json:"keyword_ids,omitempty"`

	Duration      string `bson:"duration,omitempty" json:"duration,omitempty"`
	Prerequisites string `bson:"prerequisites,omitempty" json:"prerequisites,omitempty"`

	// Budget is a decimal amount kept as entered ("12500.00"); it is
	// informational and never computed on.
	Budget string `bson:"budget,omitempty" json:"budget,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// internal/domain/models/roles.go
package models

// Role is the closed set of profile roles on the platform.
//
// Roles drive what a profile may do:
//   - researcher and company profiles can post projects
//   - student and researcher profiles can apply to projects
//   - university, association, and medical profiles browse and message
type Role string

const (
	RoleStudent     Role = "student"
	RoleResearcher  Role = "researcher"
	RoleUniversity  Role = "university"
	RoleCompany     Role = "company"
	RoleAssociation Role = "association"
	RoleMedical     Role = "medical"
)

// RoleOption pairs a stored role value with its display label.
type RoleOption struct {
	Value Role
	Label string
}

// AllRoles contains every role with its display label, in UI order.
var AllRoles = []RoleOption{
	{Value: RoleStudent, Label: "Student"},
	{Value: RoleResearcher, Label: "Researcher"},
	{Value: RoleUniversity, Label: "University / Lab"},
	{Value: RoleCompany, Label: "Company"},
	{Value: RoleAssociation, Label: "Association"},
	{Value: RoleMedical, Label: "Medical Staff"},
}

// IsValid reports whether r is one of the defined roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleStudent, RoleResearcher, RoleUniversity, RoleCompany, RoleAssociation, RoleMedical:
		return true
	}
	return false
}

// Label returns the display label for the role, or the raw value if unknown.
func (r Role) Label() string {
	for _, o := range AllRoles {
		if o.Value == r {
			return o.Label
		}
	}
	return string(r)
}

// CanPostProjects reports whether profiles with this role may create projects.
func (r Role) CanPostProjects() bool {
	return r == RoleResearcher || r == RoleCompany
}

// CanApplyToProjects reports whether profiles with this role may apply to projects.
func (r Role) CanApplyToProjects() bool {
	return r == RoleStudent || r == RoleResearcher
}

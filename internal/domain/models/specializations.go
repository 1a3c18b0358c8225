// internal/domain/models/specializations.go
package models

// Specialization is the controlled set of scientific/engineering fields
// shared by profiles (their field) and projects (the field they need).
type Specialization string

const (
	SpecAero  Specialization = "aero"
	SpecAgri  Specialization = "agri"
	SpecAI    Specialization = "ai"
	SpecBio   Specialization = "bio"
	SpecChem  Specialization = "chem"
	SpecCivil Specialization = "civ"
	SpecCS    Specialization = "cs"
	SpecElec  Specialization = "elec"
	SpecEnv   Specialization = "env"
	SpecMech  Specialization = "mech"
	SpecMed   Specialization = "med"
	SpecMgmt  Specialization = "mgmt"
	SpecMath  Specialization = "math"
	SpecPhys  Specialization = "phys"
	SpecSoc   Specialization = "soc"
	SpecOther Specialization = "other"
)

// SpecializationOption pairs a stored value with its display label.
type SpecializationOption struct {
	Value Specialization
	Label string
}

// AllSpecializations contains every specialization with its label, in UI order.
var AllSpecializations = []SpecializationOption{
	{Value: SpecAero, Label: "Aeronautical Engineering"},
	{Value: SpecAgri, Label: "Agriculture"},
	{Value: SpecAI, Label: "Artificial Intelligence"},
	{Value: SpecBio, Label: "Biotechnology"},
	{Value: SpecChem, Label: "Chemistry / Chemical Engineering"},
	{Value: SpecCivil, Label: "Civil Engineering"},
	{Value: SpecCS, Label: "Computer Science / ICT"},
	{Value: SpecElec, Label: "Electrical & Power Engineering"},
	{Value: SpecEnv, Label: "Environment"},
	{Value: SpecMech, Label: "Mechanical Engineering"},
	{Value: SpecMed, Label: "Medicine / Biomedical"},
	{Value: SpecMgmt, Label: "Management Science"},
	{Value: SpecMath, Label: "Mathematics"},
	{Value: SpecPhys, Label: "Physics"},
	{Value: SpecSoc, Label: "Social Sciences / Humanities"},
	{Value: SpecOther, Label: "Other"},
}

// IsValid reports whether s is one of the defined specializations.
func (s Specialization) IsValid() bool {
	for _, o := range AllSpecializations {
		if o.Value == s {
			return true
		}
	}
	return false
}

// Label returns the display label, or the raw value if unknown.
func (s Specialization) Label() string {
	for _, o := range AllSpecializations {
		if o.Value == s {
			return o.Label
		}
	}
	return string(s)
}

// InstitutionType is the closed set of institution kinds an organization or
// profile affiliation can have.
type InstitutionType string

const (
	InstitutionUniversity     InstitutionType = "university"
	InstitutionPublicResearch InstitutionType = "public_research"
	InstitutionAssociation    InstitutionType = "association"
	InstitutionTechCenter     InstitutionType = "tech_center"
	InstitutionTechnopole     InstitutionType = "technopole"
)

// InstitutionOption pairs a stored institution type with its display label.
type InstitutionOption struct {
	Value InstitutionType
	Label string
}

// AllInstitutionTypes contains every institution type with its label.
var AllInstitutionTypes = []InstitutionOption{
	{Value: InstitutionUniversity, Label: "Université"},
	{Value: InstitutionPublicResearch, Label: "Établissement public de recherche"},
	{Value: InstitutionAssociation, Label: "Association scientifique"},
	{Value: InstitutionTechCenter, Label: "Centre technique"},
	{Value: InstitutionTechnopole, Label: "Technopôle"},
}

// IsValid reports whether t is one of the defined institution types.
func (t InstitutionType) IsValid() bool {
	switch t {
	case InstitutionUniversity, InstitutionPublicResearch, InstitutionAssociation,
		InstitutionTechCenter, InstitutionTechnopole:
		return true
	}
	return false
}

// Label returns the display label, or the raw value if unknown.
func (t InstitutionType) Label() string {
	for _, o := range AllInstitutionTypes {
		if o.Value == t {
			return o.Label
		}
	}
	return string(t)
}

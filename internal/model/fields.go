package model

import "strings"

// AccountFields is the account form payload. A non-empty ID targets an existing account.
type AccountFields struct {
	ID          string
	CompanyName string
	Industry    string
	CompanyInfo string
	PainPoints  string
	Impact      string
}

// ProspectFields is the prospect form payload. A non-empty ID targets an existing prospect.
type ProspectFields struct {
	ID              string
	FullName        string
	Position        string
	ContactInfo     string
	LinkedInProfile string
	Personality     string
}

// InteractionFields is the interaction form payload.
type InteractionFields struct {
	Type     InteractionType
	Feedback Feedback
	Notes    string
}

// Missing returns the labels of required fields left blank.
func (f AccountFields) Missing() []string {
	return missing(field{"Company name", f.CompanyName})
}

// Missing returns the labels of required fields left blank.
func (f ProspectFields) Missing() []string {
	return missing(field{"Full name", f.FullName})
}

// Missing returns the labels of required fields left blank.
func (f InteractionFields) Missing() []string {
	return missing(field{"Type", string(f.Type)}, field{"Feedback", string(f.Feedback)})
}

// Apply overwrites the account's form fields, leaving ID and prospects untouched.
func (f AccountFields) Apply(a *Account) {
	a.CompanyName = f.CompanyName
	a.Industry = f.Industry
	a.CompanyInfo = f.CompanyInfo
	a.PainPoints = f.PainPoints
	a.Impact = f.Impact
}

// Apply overwrites the prospect's form fields, leaving ID and interactions untouched.
func (f ProspectFields) Apply(p *Prospect) {
	p.FullName = f.FullName
	p.Position = f.Position
	p.ContactInfo = f.ContactInfo
	p.LinkedInProfile = f.LinkedInProfile
	p.Personality = f.Personality
}

// FieldsOf extracts the editable fields of an account.
func FieldsOf(a Account) AccountFields {
	return AccountFields{
		ID:          a.ID,
		CompanyName: a.CompanyName,
		Industry:    a.Industry,
		CompanyInfo: a.CompanyInfo,
		PainPoints:  a.PainPoints,
		Impact:      a.Impact,
	}
}

// ProspectFieldsOf extracts the editable fields of a prospect.
func ProspectFieldsOf(p Prospect) ProspectFields {
	return ProspectFields{
		ID:              p.ID,
		FullName:        p.FullName,
		Position:        p.Position,
		ContactInfo:     p.ContactInfo,
		LinkedInProfile: p.LinkedInProfile,
		Personality:     p.Personality,
	}
}

type field struct {
	label string
	value string
}

func missing(fields ...field) []string {
	var out []string
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			out = append(out, f.label)
		}
	}
	return out
}

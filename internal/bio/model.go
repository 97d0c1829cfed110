package bio

import (
	"encoding/json"
	"time"
)

// Bio is the user's durable profile, seeded from the first extracted
// resume and edited directly afterwards.
type Bio struct {
	ID               string          `json:"id"`
	UserID           string          `json:"userId"`
	FirstName        string          `json:"firstName,omitempty"`
	LastName         string          `json:"lastName,omitempty"`
	Email            string          `json:"email,omitempty"`
	Phone            string          `json:"phone,omitempty"`
	CurrentCity      string          `json:"currentCity,omitempty"`
	CurrentState     string          `json:"currentState,omitempty"`
	CurrentCountry   string          `json:"currentCountry,omitempty"`
	Headline         string          `json:"headline,omitempty"`
	TargetRoles      json.RawMessage `json:"targetRoles"`
	TargetIndustries json.RawMessage `json:"targetIndustries"`
	BaseSummary      string          `json:"baseSummary,omitempty"`
	BaseEducation    json.RawMessage `json:"baseEducation"`
	BaseLanguages    json.RawMessage `json:"baseLanguages"`
	BaseCertificates json.RawMessage `json:"baseCertificates"`
	Socials          []SocialProfile `json:"socials,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// SocialProfile is one external profile link. A bio carries at most one
// profile per network.
type SocialProfile struct {
	ID        string    `json:"id"`
	BioID     string    `json:"bioId"`
	Network   string    `json:"network"`
	Username  string    `json:"username,omitempty"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

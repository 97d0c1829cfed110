package jobposts

import "time"

type JobPost struct {
	ID             string    `json:"id"`
	SourceURL      string    `json:"sourceUrl"`
	CompanyName    string    `json:"companyName,omitempty"`
	JobTitle       string    `json:"jobTitle,omitempty"`
	JobDescription string    `json:"jobDescription,omitempty"`
	ApplyLink      string    `json:"applyLink,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

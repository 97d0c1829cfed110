package resumes

import (
	"encoding/json"
	"time"
)

// Resume holds one structured resume. Section content stays as raw JSON;
// the model output is stored as produced and rendered clients consume it
// unmodified.
type Resume struct {
	ID                   string          `json:"id"`
	UserID               string          `json:"userId,omitempty"`
	Name                 string          `json:"name"`
	IsBaseResume         bool            `json:"isBaseResume"`
	Email                string          `json:"email,omitempty"`
	Phone                string          `json:"phone,omitempty"`
	Location             string          `json:"location,omitempty"`
	Summary              string          `json:"summary,omitempty"`
	Work                 json.RawMessage `json:"work"`
	Projects             json.RawMessage `json:"projects"`
	Skills               json.RawMessage `json:"skills"`
	Education            json.RawMessage `json:"education"`
	Languages            json.RawMessage `json:"languages"`
	Certificates         json.RawMessage `json:"certificates"`
	Socials              json.RawMessage `json:"socials"`
	SourceJobDescription string          `json:"sourceJobDescription,omitempty"`
	SourceJobURL         string          `json:"sourceJobUrl,omitempty"`
	SourceCompanyName    string          `json:"sourceCompanyName,omitempty"`
	OtherExtractedData   string          `json:"otherExtractedData,omitempty"`
	Analysis             string          `json:"analysis,omitempty"`
	CreatedAt            time.Time       `json:"createdAt"`
	UpdatedAt            time.Time       `json:"updatedAt"`
}

var emptyArray = json.RawMessage("[]")

// FromStructured maps parsed extraction output onto a Resume. Unknown or
// missing keys leave zero values; the caller decides identity fields.
func FromStructured(data map[string]any) Resume {
	r := Resume{
		Email:              str(data, "email"),
		Phone:              str(data, "phone"),
		Location:           str(data, "location"),
		Summary:            str(data, "summary"),
		OtherExtractedData: str(data, "other_extracted_data"),
		Analysis:           str(data, "analysis"),
		Work:               rawSection(data, "work"),
		Projects:           rawSection(data, "projects"),
		Skills:             rawSection(data, "skills"),
		Education:          rawSection(data, "education"),
		Languages:          rawSection(data, "languages"),
		Certificates:       rawSection(data, "certificates"),
		Socials:            rawSection(data, "socials"),
	}
	first := str(data, "first_name")
	last := str(data, "last_name")
	switch {
	case first != "" && last != "":
		r.Name = first + " " + last
	case first != "":
		r.Name = first
	case last != "":
		r.Name = last
	}
	return r
}

// FirstName and LastName split back out of the display name for bio seeding.
func (r Resume) FirstName() string {
	name, _, _ := cutName(r.Name)
	return name
}

func (r Resume) LastName() string {
	_, rest, _ := cutName(r.Name)
	return rest
}

func cutName(name string) (string, string, bool) {
	for i := 0; i < len(name); i++ {
		if name[i] == ' ' {
			return name[:i], name[i+1:], true
		}
	}
	return name, "", false
}

func str(data map[string]any, key string) string {
	if v, ok := data[key].(string); ok {
		return v
	}
	return ""
}

func rawSection(data map[string]any, key string) json.RawMessage {
	v, ok := data[key]
	if !ok || v == nil {
		return emptyArray
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return emptyArray
	}
	return raw
}

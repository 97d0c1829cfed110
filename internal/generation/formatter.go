package generation

import (
	"encoding/json"
	"strings"

	"tailorcv-backend/internal/bio"
	"tailorcv-backend/internal/resumes"
)

// FormatProfile flattens the user's bio and base resume into the block
// of text the tailoring prompt consumes. Contact basics stay out; the
// model only needs professional content.
func FormatProfile(b bio.Bio, base resumes.Resume) string {
	var sb strings.Builder
	sb.WriteString("## User Context & Base Content:\n")
	sb.WriteString("Headline: " + orNA(b.Headline) + "\n")
	sb.WriteString("Target Roles: " + orNA(joinRaw(b.TargetRoles)) + "\n")
	sb.WriteString("Target Industries: " + orNA(joinRaw(b.TargetIndustries)) + "\n\n")

	sb.WriteString("## Base Summary:\n" + orNA(base.Summary) + "\n\n")

	sb.WriteString("## Base Work Experience:\n")
	work := decodeList(base.Work)
	if len(work) == 0 {
		sb.WriteString("N/A\n\n")
	}
	for _, entry := range work {
		sb.WriteString("- **" + orNA(field(entry, "position")) + "** at **" + orNA(field(entry, "name")) + "**")
		start, end := field(entry, "startDate"), field(entry, "endDate")
		if start != "" || end != "" {
			sb.WriteString(" (" + orNA(start) + " - " + orNA(end) + ")")
		}
		sb.WriteString("\n")
		if highlights := list(entry, "highlights"); len(highlights) > 0 {
			sb.WriteString("  Original Highlights:\n")
			for _, h := range highlights {
				sb.WriteString("  - " + h + "\n")
			}
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Base Projects:\n")
	projects := decodeList(base.Projects)
	if len(projects) == 0 {
		sb.WriteString("N/A\n\n")
	}
	for _, entry := range projects {
		sb.WriteString("- **" + orNA(field(entry, "name")) + "**\n")
		sb.WriteString("  Description: " + orNA(field(entry, "description")) + "\n")
		if keywords := list(entry, "keywords"); len(keywords) > 0 {
			sb.WriteString("  Keywords: " + strings.Join(keywords, ", ") + "\n")
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Base Skills:\n")
	skills := decodeList(base.Skills)
	if len(skills) == 0 {
		sb.WriteString("N/A\n")
	}
	for _, entry := range skills {
		sb.WriteString("- **" + orNA(field(entry, "category")) + ":** " + strings.Join(list(entry, "skills"), ", ") + "\n")
	}

	if langs := joinRaw(b.BaseLanguages); langs != "" {
		sb.WriteString("\n## Languages:\n" + langs + "\n")
	}
	certs := decodeList(b.BaseCertificates)
	if len(certs) > 0 {
		sb.WriteString("\n## Certificates:\n")
		for _, cert := range certs {
			line := "- " + orNA(field(cert, "name"))
			if org := field(cert, "issuing_organization"); org != "" {
				line += " from " + org
			}
			if date := field(cert, "issue_date"); date != "" {
				line += " (" + date + ")"
			}
			sb.WriteString(line + "\n")
		}
	}

	return strings.TrimSpace(sb.String())
}

func decodeList(raw json.RawMessage) []map[string]any {
	var out []map[string]any
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

// joinRaw renders a JSON string array as a comma separated list.
func joinRaw(raw json.RawMessage) string {
	var items []string
	if len(raw) == 0 {
		return ""
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		return ""
	}
	return strings.Join(items, ", ")
}

func field(entry map[string]any, key string) string {
	if v, ok := entry[key].(string); ok {
		return v
	}
	return ""
}

func list(entry map[string]any, key string) []string {
	raw, ok := entry[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

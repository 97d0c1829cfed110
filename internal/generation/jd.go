package generation

import "strings"

// maxJDKeywords caps the keyword sample taken from a job description.
const maxJDKeywords = 30

// KeywordsFromJD pulls a rough keyword sample out of a job description.
// The result feeds logging and job-post records, not the prompt; the
// model sees the full text.
func KeywordsFromJD(jd string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, word := range strings.Fields(strings.ToLower(jd)) {
		word = strings.Trim(word, `.,!?:;"()[]`)
		if len(word) <= 3 || !isAlnum(word) {
			continue
		}
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}
		out = append(out, word)
		if len(out) == maxJDKeywords {
			break
		}
	}
	return out
}

func isAlnum(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

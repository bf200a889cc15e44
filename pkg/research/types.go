package research

import "strings"

// Defaults applied when a provider record omits a field.
const (
	DefaultTitle   = "No title"
	DefaultSummary = "No summary"
)

// Update is one development-news item recovered from a provider answer.
// URL is empty when the record carried no usable link.
type Update struct {
	Title   string `json:"title" description:"Clear, descriptive title"`
	Summary string `json:"summary" description:"1-2 sentence summary of the development"`
	URL     string `json:"url,omitempty" description:"Direct link to the source article"`
}

// updatesEnvelope is the schema target for structured chat mode. Providers
// that wrap the array as {"updates": [...]} decode straight into it.
type updatesEnvelope struct {
	Updates []Update `json:"updates"`
}

// withDefaults normalizes a raw record at the JSON boundary: blank fields get
// their display defaults and placeholder links are dropped.
func (u Update) withDefaults() Update {
	u.Title = strings.TrimSpace(u.Title)
	if u.Title == "" {
		u.Title = DefaultTitle
	}
	u.Summary = strings.TrimSpace(u.Summary)
	if u.Summary == "" {
		u.Summary = DefaultSummary
	}
	u.URL = strings.TrimSpace(u.URL)
	if u.URL == "#" {
		u.URL = ""
	}
	return u
}

package slack

import (
	"fmt"
	"strings"

	"devbrief/pkg/research"
)

// FormatUpdates renders the update list as a Slack mrkdwn message: a header
// plus one bullet per record, or a fixed no-updates sentence when the list is
// empty. Records without a usable URL drop the link segment entirely.
func FormatUpdates(city string, lookbackDays int, updates []research.Update) string {
	if len(updates) == 0 {
		return fmt.Sprintf(":no_entry_sign: No significant new development updates in %s in the past %d days.", city, lookbackDays)
	}

	var b strings.Builder
	fmt.Fprintf(&b, ":construction: *%s Development Updates*\n\n", city)
	for _, u := range updates {
		if u.URL != "" {
			fmt.Fprintf(&b, "• *%s* — %s  <%s|Read more>\n", u.Title, u.Summary, u.URL)
		} else {
			fmt.Fprintf(&b, "• *%s* — %s\n", u.Title, u.Summary)
		}
	}
	return b.String()
}

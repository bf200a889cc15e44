package slack

import (
	"testing"

	"github.com/stretchr/testify/require"

	"devbrief/pkg/research"
)

func TestFormatUpdatesEmpty(t *testing.T) {
	msg := FormatUpdates("Lexington", 14, nil)
	require.Equal(t, ":no_entry_sign: No significant new development updates in Lexington in the past 14 days.", msg)
}

func TestFormatUpdatesBullets(t *testing.T) {
	updates := []research.Update{
		{Title: "A", Summary: "B", URL: "http://x"},
		{Title: "C", Summary: "D"},
	}

	msg := FormatUpdates("Lexington", 14, updates)
	require.Equal(t,
		":construction: *Lexington Development Updates*\n\n"+
			"• *A* — B  <http://x|Read more>\n"+
			"• *C* — D\n",
		msg)
}

func TestFormatUpdatesDefaults(t *testing.T) {
	updates := []research.Update{
		{Title: research.DefaultTitle, Summary: "Summary only"},
	}

	msg := FormatUpdates("Lexington", 14, updates)
	require.Contains(t, msg, "• *No title* — Summary only\n")
	require.NotContains(t, msg, "Read more")
}

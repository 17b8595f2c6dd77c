package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePlainTextIsNotCommand(t *testing.T) {
	for _, text := range []string{
		"hello there",
		"what is on my agenda tomorrow?",
		"  leading whitespace",
		"",
		"no # prefix but a # in the middle",
	} {
		parsed := Parse(text)
		assert.Equal(t, KindUnknown, parsed.Kind, "text: %q", text)
		assert.False(t, parsed.IsCommand(), "text: %q", text)
		assert.Empty(t, parsed.Parameters, "text: %q", text)
		assert.False(t, parsed.HasPrefix, "text: %q", text)
	}
}

func TestParseKeywordSynonyms(t *testing.T) {
	cases := map[string]Kind{
		"#calendar lijst":     KindCalendar,
		"#agenda vandaag":     KindCalendar,
		"#cal morgen":         KindCalendar,
		"#reminder Tandarts":  KindReminder,
		"#herinnering bellen": KindReminder,
		"#task Rapport":       KindTask,
		"#taak Rapport":       KindTask,
		"#todo Rapport":       KindTask,
		"#note maken":         KindNote,
		"#notitie lijst":      KindNote,
		"#scan bon":           KindScan,
		"#help":               KindHelp,
		"#hulp":               KindHelp,
		"#HELP":               KindHelp,
		"#Taak Rapport":       KindTask,
	}

	for text, want := range cases {
		parsed := Parse(text)
		assert.Equal(t, want, parsed.Kind, "text: %q", text)
		assert.True(t, parsed.IsCommand(), "text: %q", text)
	}
}

func TestParseUnknownKeywordKeepsText(t *testing.T) {
	parsed := Parse("#frobnicate all the things")
	assert.Equal(t, KindUnknown, parsed.Kind)
	assert.False(t, parsed.IsCommand())
	assert.True(t, parsed.HasPrefix)
	assert.Equal(t, "#frobnicate all the things", parsed.OriginalText)
	assert.Empty(t, parsed.Parameters)
}

func TestParseTaskPlainTitle(t *testing.T) {
	parsed := Parse("#task Boodschappen doen voor het weekend")

	require.Equal(t, KindTask, parsed.Kind)
	assert.Equal(t, "Boodschappen doen voor het weekend", parsed.Parameters["title"])
	assert.NotContains(t, parsed.Parameters, "delegated_to")
	assert.NotContains(t, parsed.Parameters, "priority")
	assert.NotContains(t, parsed.Parameters, "due_date")
	assert.NotContains(t, parsed.Parameters, "tags")
}

func TestParseTaskFullExtraction(t *testing.T) {
	parsed := Parse("#taak Rapport deadline volgende week @Maria priority high tags urgent,admin")

	require.Equal(t, KindTask, parsed.Kind)
	assert.Equal(t, "Maria", parsed.Parameters["delegated_to"])
	assert.Equal(t, "high", parsed.Parameters["priority"])
	assert.Contains(t, parsed.Parameters["due_date"], "volgende week")
	assert.Equal(t, []string{"urgent", "admin"}, parsed.Parameters["tags"])
	assert.Equal(t, "Rapport", parsed.Parameters["title"])
}

func TestParseTaskDeadlineToEndOfString(t *testing.T) {
	parsed := Parse("#task Offerte opstellen deadline eind van de maand")

	require.Equal(t, KindTask, parsed.Kind)
	assert.Equal(t, "eind van de maand", parsed.Parameters["due_date"])
	assert.Equal(t, "Offerte opstellen", parsed.Parameters["title"])
}

func TestParseTaskTagsWithSpaces(t *testing.T) {
	parsed := Parse("#task Opruimen tags huis, klusjes , weekend")

	require.Equal(t, KindTask, parsed.Kind)
	assert.Equal(t, []string{"huis", "klusjes", "weekend"}, parsed.Parameters["tags"])
	assert.Equal(t, "Opruimen", parsed.Parameters["title"])
}

func TestParseCalendarActionAndTimeContext(t *testing.T) {
	cases := []struct {
		text        string
		action      string
		timeContext string
	}{
		{"#calendar afspraak maken om 14:00", "create", ""},
		{"#calendar lijst deze week", "list", "this_week"},
		{"#agenda vandaag", "today", "today"},
		{"#calendar morgen", "tomorrow", "tomorrow"},
		{"#calendar verwijder 12", "delete", ""},
		{"#calendar blabla", "unknown", ""},
	}

	for _, tc := range cases {
		parsed := Parse(tc.text)
		require.Equal(t, KindCalendar, parsed.Kind, "text: %q", tc.text)
		assert.Equal(t, tc.action, parsed.Parameters["action"], "text: %q", tc.text)
		assert.Equal(t, tc.timeContext, parsed.Parameters["time_context"], "text: %q", tc.text)
	}
}

func TestParseNoteAndScanClassification(t *testing.T) {
	assert.Equal(t, "create", Parse("#note maken: boodschappen").Parameters["action"])
	assert.Equal(t, "search", Parse("#note zoek vergadering").Parameters["action"])
	assert.Equal(t, "list", Parse("#notitie lijst").Parameters["action"])
	assert.Equal(t, "unknown", Parse("#note iets anders").Parameters["action"])

	assert.Equal(t, "receipt", Parse("#scan bon voor declaratie").Parameters["scan_type"])
	assert.Equal(t, "image", Parse("#scan foto van het bord").Parameters["scan_type"])
	assert.Equal(t, "document", Parse("#scan contract.pdf").Parameters["scan_type"])
	assert.Equal(t, "document", Parse("#scan").Parameters["scan_type"])
}

func TestParseHelpTopic(t *testing.T) {
	assert.Equal(t, string(KindCalendar), Parse("#help calendar").Parameters["topic"])
	assert.Equal(t, string(KindTask), Parse("#hulp taak").Parameters["topic"])
	assert.Equal(t, "", Parse("#help").Parameters["topic"])
}

func TestHelpTextIdempotentAndTotal(t *testing.T) {
	for _, kind := range []Kind{KindCalendar, KindReminder, KindTask, KindNote, KindScan, KindHelp} {
		first := HelpText(kind)
		second := HelpText(kind)
		assert.NotEmpty(t, first)
		assert.Equal(t, first, second)
	}

	assert.Equal(t, genericHelp, HelpText(KindUnknown))
	assert.Equal(t, genericHelp, HelpText(Kind("bogus")))
}

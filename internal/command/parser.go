// Package command implements the chat command grammar: detection of
// #-prefixed commands and extraction of their structured parameters.
// Everything in this package is pure; malformed input degrades to a
// documented default and never produces an error.
package command

import (
	"regexp"
	"strings"
)

// Kind identifies which chat command the user invoked.
type Kind string

const (
	KindCalendar Kind = "calendar"
	KindReminder Kind = "reminder"
	KindTask     Kind = "task"
	KindNote     Kind = "note"
	KindScan     Kind = "scan"
	KindHelp     Kind = "help"
	KindUnknown  Kind = "unknown"
)

// Prefix is the character that introduces a command.
const Prefix = "#"

// keywordOrder keeps keyword lookup deterministic (maps iterate randomly).
var keywordOrder = []string{
	"calendar", "agenda", "cal",
	"reminder", "herinnering",
	"task", "taak", "todo",
	"note", "notitie",
	"scan",
	"help", "hulp",
}

var keywords = map[string]Kind{
	"calendar":    KindCalendar,
	"agenda":      KindCalendar,
	"cal":         KindCalendar,
	"reminder":    KindReminder,
	"herinnering": KindReminder,
	"task":        KindTask,
	"taak":        KindTask,
	"todo":        KindTask,
	"note":        KindNote,
	"notitie":     KindNote,
	"scan":        KindScan,
	"help":        KindHelp,
	"hulp":        KindHelp,
}

// ParsedCommand is the result of parsing a chat message.
type ParsedCommand struct {
	Kind         Kind
	OriginalText string
	// CommandText is the text after the command keyword.
	CommandText string
	// Parameters holds kind-specific extracted values.
	Parameters map[string]interface{}
	// HasPrefix distinguishes "#unknownword ..." from plain chat text;
	// both parse to KindUnknown.
	HasPrefix bool
}

// IsCommand reports whether a known command was recognized.
func (p ParsedCommand) IsCommand() bool {
	return p.Kind != KindUnknown
}

// Parse detects a command in the given text and extracts its parameters.
func Parse(text string) ParsedCommand {
	text = strings.TrimSpace(text)

	if !strings.HasPrefix(text, Prefix) {
		return ParsedCommand{
			Kind:         KindUnknown,
			OriginalText: text,
			Parameters:   map[string]interface{}{},
		}
	}

	parts := strings.SplitN(text, " ", 2)
	keyword := strings.ToLower(strings.TrimPrefix(parts[0], Prefix))
	commandText := ""
	if len(parts) > 1 {
		commandText = strings.TrimSpace(parts[1])
	}

	kind, ok := keywords[keyword]
	if !ok {
		return ParsedCommand{
			Kind:         KindUnknown,
			OriginalText: text,
			Parameters:   map[string]interface{}{},
			HasPrefix:    true,
		}
	}

	return ParsedCommand{
		Kind:         kind,
		OriginalText: text,
		CommandText:  commandText,
		Parameters:   extractParameters(kind, commandText),
		HasPrefix:    true,
	}
}

func extractParameters(kind Kind, text string) map[string]interface{} {
	params := map[string]interface{}{"raw_text": text}

	switch kind {
	case KindCalendar, KindReminder:
		extractCalendarParams(text, params)
	case KindTask:
		extractTaskParams(text, params)
	case KindNote:
		extractNoteParams(text, params)
	case KindScan:
		extractScanParams(text, params)
	case KindHelp:
		extractHelpParams(text, params)
	}

	return params
}

func extractCalendarParams(text string, params map[string]interface{}) {
	lower := strings.ToLower(text)

	action := "unknown"
	switch {
	case containsAny(lower, "maak", "plan", "afspraak", "toevoeg", "create"):
		action = "create"
	case containsAny(lower, "lijst", "toon", "bekijk", "overzicht", "list"):
		action = "list"
	case containsAny(lower, "vandaag", "today"):
		action = "today"
	case containsAny(lower, "morgen", "tomorrow"):
		action = "tomorrow"
	case containsAny(lower, "verwijder", "delete", "annuleer"):
		action = "delete"
	}

	params["action"] = action
	params["time_context"] = extractTimeContext(lower)
}

var (
	delegateRe = regexp.MustCompile(`@([\p{L}\p{N}_-]+)`)
	priorityRe = regexp.MustCompile(`(?i)\b(?:priority|prioriteit)\s+(low|medium|high)\b`)
	deadlineRe = regexp.MustCompile(`(?i)\bdeadline\b\s*`)
	tagsRe     = regexp.MustCompile(`(?i)\btags\s+(.+)$`)
	spaceRe    = regexp.MustCompile(`\s+`)
)

// extractTaskParams strips recognized fragments in a fixed order
// (delegate, priority, deadline, tags) so earlier extractions cannot
// consume tokens belonging to later ones. Whatever remains is the title.
func extractTaskParams(text string, params map[string]interface{}) {
	rest := text

	if m := delegateRe.FindStringSubmatch(rest); m != nil {
		params["delegated_to"] = m[1]
		rest = strings.Replace(rest, m[0], " ", 1)
	}

	if m := priorityRe.FindStringSubmatch(rest); m != nil {
		params["priority"] = strings.ToLower(m[1])
		rest = strings.Replace(rest, m[0], " ", 1)
	}

	if loc := deadlineRe.FindStringIndex(rest); loc != nil {
		after := rest[loc[1]:]
		phrase := after
		if stop := tagsRe.FindStringIndex(after); stop != nil {
			phrase = after[:stop[0]]
		}
		phrase = strings.TrimSpace(phrase)
		if phrase != "" {
			params["due_date"] = phrase
		}
		rest = rest[:loc[0]] + " " + strings.TrimPrefix(after, phrase)
	}

	if m := tagsRe.FindStringSubmatch(rest); m != nil {
		var tags []string
		for _, t := range strings.Split(m[1], ",") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
		if len(tags) > 0 {
			params["tags"] = tags
		}
		rest = strings.Replace(rest, m[0], " ", 1)
	}

	title := strings.TrimSpace(spaceRe.ReplaceAllString(rest, " "))
	params["title"] = title
}

func extractNoteParams(text string, params map[string]interface{}) {
	lower := strings.ToLower(text)

	action := "unknown"
	switch {
	case containsAny(lower, "maak", "nieuw", "schrijf", "create"):
		action = "create"
	case containsAny(lower, "lijst", "toon", "bekijk", "list"):
		action = "list"
	case containsAny(lower, "zoek", "vind", "search"):
		action = "search"
	}

	params["action"] = action
}

func extractScanParams(text string, params map[string]interface{}) {
	lower := strings.ToLower(text)

	scanType := "document"
	switch {
	case containsAny(lower, "bon", "receipt"):
		scanType = "receipt"
	case containsAny(lower, "foto", "image"):
		scanType = "image"
	}

	params["scan_type"] = scanType
}

func extractHelpParams(text string, params map[string]interface{}) {
	lower := strings.ToLower(text)

	topic := ""
	for _, keyword := range keywordOrder {
		if strings.Contains(lower, keyword) {
			topic = string(keywords[keyword])
			break
		}
	}

	params["topic"] = topic
}

func extractTimeContext(lower string) string {
	switch {
	case containsAny(lower, "vandaag", "today"):
		return "today"
	case containsAny(lower, "morgen", "tomorrow"):
		return "tomorrow"
	case strings.Contains(lower, "week"):
		return "this_week"
	case containsAny(lower, "maand", "month"):
		return "this_month"
	}
	return ""
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

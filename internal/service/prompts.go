package service

import (
	"fmt"
	"time"
)

// System prompts per conversation mode. The assistant always answers in
// Dutch; the mode shifts the register and the focus.
var modeSystemPrompts = map[string]string{
	"chat": "Je bent Claudine, een persoonlijke assistent. Je helpt met agenda's, " +
		"taken, notities en dagelijkse planning. Antwoord beknopt en vriendelijk " +
		"in het Nederlands.",
	"voice": "Je bent Claudine, een persoonlijke assistent. De gebruiker spreekt " +
		"via spraak; houd je antwoorden kort en natuurlijk om voor te lezen. " +
		"Antwoord in het Nederlands.",
	"note": "Je bent Claudine, een persoonlijke assistent. De gebruiker dicteert " +
		"een notitie. Structureer de inhoud helder en bondig. Antwoord in het " +
		"Nederlands.",
	"scan": "Je bent Claudine, een persoonlijke assistent. De gebruiker verwerkt " +
		"een gescand document. Help met samenvatten en archiveren. Antwoord in " +
		"het Nederlands.",
}

// systemPromptFor returns the system prompt for a mode, defaulting to
// the chat prompt for anything unrecognized.
func systemPromptFor(mode string) string {
	if p, ok := modeSystemPrompts[mode]; ok {
		return p
	}
	return modeSystemPrompts["chat"]
}

// titlePrompt asks for a short conversation title.
const titlePrompt = "Genereer een korte, beschrijvende titel (maximaal 50 tekens) " +
	"voor dit gesprek. Antwoord alleen met de titel, zonder aanhalingstekens."

// eventExtractionPrompt asks the model to turn a natural-language
// appointment or reminder into a small JSON object. The current date is
// included so relative phrases like "morgen" resolve correctly.
func eventExtractionPrompt(now time.Time) string {
	return fmt.Sprintf(
		"Vandaag is %s (%s). Haal uit het verzoek van de gebruiker een titel, "+
			"tijdstip, en eventueel een omschrijving en locatie. Antwoord "+
			"uitsluitend met JSON in dit formaat, zonder toelichting:\n"+
			`{"title": "...", "start_time": "2006-01-02T15:04:05", "end_time": "2006-01-02T15:04:05", "description": "...", "location": "..."}`+"\n"+
			"Laat end_time, description en location weg als die niet genoemd worden.",
		now.Format("2006-01-02"), dutchWeekday(now.Weekday()),
	)
}

func dutchWeekday(d time.Weekday) string {
	switch d {
	case time.Monday:
		return "maandag"
	case time.Tuesday:
		return "dinsdag"
	case time.Wednesday:
		return "woensdag"
	case time.Thursday:
		return "donderdag"
	case time.Friday:
		return "vrijdag"
	case time.Saturday:
		return "zaterdag"
	default:
		return "zondag"
	}
}

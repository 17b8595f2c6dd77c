package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"assistant-go/internal/command"
	"assistant-go/internal/model"
	"assistant-go/pkg/llm"
	"assistant-go/pkg/log"
)

// Static replies for command paths that have no chat implementation yet.
const (
	noteCommandReply = "📝 Notities via de chat komen binnenkort beschikbaar. " +
		"Gebruik voorlopig het notitie-overzicht in de app."
	scanCommandReply = "📸 Stuur je document via de scan-functie in de app, " +
		"dan verwerk ik het automatisch."
	deleteEventReply = "Afspraken verwijderen kan via het agenda-overzicht in de app."
)

// handleCommand dispatches a parsed command and returns the in-band
// reply plus message metadata. Command failures never surface as errors;
// they become friendly Dutch replies so the conversation keeps flowing.
func (s *conversationService) handleCommand(ctx context.Context, userID uint, parsed command.ParsedCommand) (string, model.JSONMap) {
	metadata := model.JSONMap{"command": string(parsed.Kind)}

	switch parsed.Kind {
	case command.KindHelp:
		if topic, _ := parsed.Parameters["topic"].(string); topic != "" {
			return command.HelpText(command.Kind(topic)), metadata
		}
		return command.HelpText(command.KindHelp), metadata

	case command.KindCalendar:
		action, _ := parsed.Parameters["action"].(string)
		switch action {
		case "list", "today", "tomorrow":
			return s.listEventsReply(userID, action), metadata
		case "delete":
			return deleteEventReply, metadata
		default:
			return s.createEventReply(ctx, userID, parsed, false), metadata
		}

	case command.KindReminder:
		return s.createEventReply(ctx, userID, parsed, true), metadata

	case command.KindTask:
		return s.createTaskReply(ctx, userID, parsed), metadata

	case command.KindNote:
		return noteCommandReply, metadata

	case command.KindScan:
		return scanCommandReply, metadata

	default:
		// "#unknownword ..." — prefixed but not a known command.
		return command.HelpText(command.KindUnknown), metadata
	}
}

// extractedEvent is the JSON shape the LLM returns for appointment and
// reminder extraction.
type extractedEvent struct {
	Title       string `json:"title"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Description string `json:"description"`
	Location    string `json:"location"`
}

var eventTimeLayouts = []string{
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02T15:04",
}

func parseEventTime(value string) (time.Time, error) {
	var lastErr error
	for _, layout := range eventTimeLayouts {
		t, err := time.ParseInLocation(layout, value, time.Local)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// createEventReply asks the LLM to extract a title and time from the
// command text and stores the result as a calendar event. Reminders are
// short events marked with a bell prefix.
func (s *conversationService) createEventReply(ctx context.Context, userID uint, parsed command.ParsedCommand, reminder bool) string {
	raw := parsed.CommandText
	if strings.TrimSpace(raw) == "" {
		if reminder {
			return "Waar wil je aan herinnerd worden? Bijvoorbeeld: #herinnering bel de tandarts morgen 10:00"
		}
		return "Wat wil je inplannen? Bijvoorbeeld: #agenda maak afspraak tandarts morgen 10:00"
	}

	ext, err := s.extractEvent(ctx, raw)
	if err != nil {
		log.Warnf("event extraction failed: %v", err)
		return "Sorry, ik kon daar geen afspraak uit afleiden. Probeer het iets concreter, bijvoorbeeld met een datum en tijd."
	}

	start, err := parseEventTime(ext.StartTime)
	if err != nil || ext.Title == "" {
		return "Sorry, ik kon daar geen afspraak uit afleiden. Probeer het iets concreter, bijvoorbeeld met een datum en tijd."
	}

	in := CalendarEventInput{
		Title:       ext.Title,
		StartTime:   start,
		Description: ext.Description,
		Location:    ext.Location,
	}
	if reminder {
		in.Title = "🔔 " + ext.Title
		in.EndTime = start.Add(defaultReminderDuration)
	} else if ext.EndTime != "" {
		if end, err := parseEventTime(ext.EndTime); err == nil {
			in.EndTime = end
		}
	}

	event, err := s.calendarSvc.Create(userID, in)
	if err != nil {
		log.Errorf("failed to store event from command: %v", err)
		return "Sorry, het opslaan van de afspraak is niet gelukt. Probeer het later opnieuw."
	}

	when := fmt.Sprintf("%s om %s", event.StartTime.Format("02-01-2006"), event.StartTime.Format("15:04"))
	if reminder {
		return fmt.Sprintf("🔔 Herinnering gezet: %s op %s.", ext.Title, when)
	}
	return fmt.Sprintf("📅 Afspraak toegevoegd: %s op %s.", event.Title, when)
}

func (s *conversationService) extractEvent(ctx context.Context, raw string) (*extractedEvent, error) {
	reply, err := s.llmClient.Complete(ctx,
		[]llm.Message{{Role: model.RoleUser, Content: raw}},
		eventExtractionPrompt(time.Now()),
	)
	if err != nil {
		return nil, err
	}

	var ext extractedEvent
	if err := json.Unmarshal([]byte(stripCodeFences(reply)), &ext); err != nil {
		return nil, fmt.Errorf("unparseable extraction reply: %w", err)
	}
	return &ext, nil
}

// stripCodeFences removes a surrounding markdown code fence, which some
// models add around JSON despite instructions.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func (s *conversationService) listEventsReply(userID uint, action string) string {
	var (
		list   []model.CalendarEvent
		err    error
		header string
		empty  string
	)

	switch action {
	case "today":
		list, err = s.calendarSvc.ListDay(userID, time.Now())
		header = "📅 Je afspraken voor vandaag:"
		empty = "Je hebt vandaag geen afspraken."
	case "tomorrow":
		list, err = s.calendarSvc.ListDay(userID, time.Now().AddDate(0, 0, 1))
		header = "📅 Je afspraken voor morgen:"
		empty = "Je hebt morgen geen afspraken."
	default:
		from := time.Now()
		list, err = s.calendarSvc.List(userID, &from, nil)
		header = "📅 Je komende afspraken:"
		empty = "Je hebt geen komende afspraken."
	}
	if err != nil {
		log.Errorf("failed to list events for command: %v", err)
		return "Sorry, het ophalen van je agenda is niet gelukt. Probeer het later opnieuw."
	}

	if len(list) == 0 {
		return empty
	}

	var sb strings.Builder
	sb.WriteString(header)
	for _, ev := range list {
		sb.WriteString(fmt.Sprintf("\n• %s %s — %s",
			ev.StartTime.Format("02-01"), ev.StartTime.Format("15:04"), ev.Title))
	}
	return sb.String()
}

// createTaskReply builds a task from the parsed command parameters.
func (s *conversationService) createTaskReply(ctx context.Context, userID uint, parsed command.ParsedCommand) string {
	title, _ := parsed.Parameters["title"].(string)
	if title == "" {
		return "Wat is de taak? Bijvoorbeeld: #taak Rapport afmaken deadline vrijdag"
	}

	in := CreateTaskInput{Title: title}
	if p, ok := parsed.Parameters["priority"].(string); ok {
		in.Priority = p
	}
	if d, ok := parsed.Parameters["due_date"].(string); ok {
		in.DueDate = d
	}
	if tags, ok := parsed.Parameters["tags"].([]string); ok {
		in.Tags = tags
	}

	var delegateName string
	if name, ok := parsed.Parameters["delegated_to"].(string); ok {
		person, err := s.personSvc.ResolveByName(userID, name)
		if err != nil {
			return fmt.Sprintf("Ik ken niemand met de naam '%s'. Voeg deze persoon eerst toe aan je contacten.", name)
		}
		in.DelegatedTo = &person.ID
		delegateName = person.Name
	}

	task, err := s.taskSvc.Create(ctx, userID, in)
	if err != nil {
		log.Errorf("failed to create task from command: %v", err)
		return "Sorry, het aanmaken van de taak is niet gelukt. Probeer het later opnieuw."
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("✅ Taak %s aangemaakt: %s", task.FormattedID(), task.Title))
	if delegateName != "" {
		sb.WriteString(fmt.Sprintf("\nGedelegeerd aan: %s", delegateName))
	}
	if task.DueDate != "" {
		sb.WriteString(fmt.Sprintf("\nDeadline: %s", task.DueDate))
	}
	if task.Priority != model.PriorityMedium {
		sb.WriteString(fmt.Sprintf("\nPrioriteit: %s", task.Priority))
	}
	if len(task.Tags) > 0 {
		sb.WriteString(fmt.Sprintf("\nTags: %s", strings.Join(task.Tags, ", ")))
	}
	return sb.String()
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"assistant-go/internal/config"
	"assistant-go/internal/model"
	"assistant-go/internal/repository"
	"assistant-go/pkg/apperr"
	"assistant-go/pkg/events"
	"assistant-go/pkg/llm"
)

// ---- in-memory fakes ----

type memConvRepo struct {
	mu      sync.Mutex
	convs   map[uint]*model.Conversation
	msgs    []model.Message
	nextCID uint
	nextMID uint
}

func newMemConvRepo() *memConvRepo {
	return &memConvRepo{convs: map[uint]*model.Conversation{}}
}

func (r *memConvRepo) CreateConversation(_ context.Context, conv *model.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextCID++
	conv.ID = r.nextCID
	conv.CreatedAt = time.Now()
	conv.UpdatedAt = conv.CreatedAt
	r.convs[conv.ID] = conv
	return nil
}

func (r *memConvRepo) FindConversation(_ context.Context, userID, convID uint) (*model.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	conv, ok := r.convs[convID]
	if !ok || conv.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *conv
	return &clone, nil
}

func (r *memConvRepo) ListConversations(_ context.Context, userID uint, mode string, limit, offset int) ([]model.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Conversation
	for _, c := range r.convs {
		if c.UserID != userID {
			continue
		}
		if mode != "" && c.Mode != mode {
			continue
		}
		out = append(out, *c)
	}
	if offset > len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *memConvRepo) UpdateConversation(_ context.Context, conv *model.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *conv
	r.convs[conv.ID] = &clone
	return nil
}

func (r *memConvRepo) DeleteConversation(_ context.Context, userID, convID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	conv, ok := r.convs[convID]
	if !ok || conv.UserID != userID {
		return gorm.ErrRecordNotFound
	}
	delete(r.convs, convID)
	kept := r.msgs[:0]
	for _, m := range r.msgs {
		if m.ConversationID != convID {
			kept = append(kept, m)
		}
	}
	r.msgs = kept
	return nil
}

func (r *memConvRepo) AppendMessage(_ context.Context, msg *model.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextMID++
	msg.ID = r.nextMID
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	r.msgs = append(r.msgs, *msg)
	return nil
}

func (r *memConvRepo) ListMessages(_ context.Context, convID uint, limit, offset int) ([]model.Message, error) {
	all := r.messagesFor(convID)
	if offset > len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (r *memConvRepo) LatestMessages(_ context.Context, convID uint, n int) ([]model.Message, error) {
	all := r.messagesFor(convID)
	if len(all) > n {
		all = all[len(all)-n:]
	}
	return all, nil
}

func (r *memConvRepo) FirstMessages(_ context.Context, convID uint, n int) ([]model.Message, error) {
	all := r.messagesFor(convID)
	if len(all) > n {
		all = all[:n]
	}
	return all, nil
}

func (r *memConvRepo) CountMessages(_ context.Context, convID uint) (int64, error) {
	return int64(len(r.messagesFor(convID))), nil
}

func (r *memConvRepo) messagesFor(convID uint) []model.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Message
	for _, m := range r.msgs {
		if m.ConversationID == convID {
			out = append(out, m)
		}
	}
	return out
}

type fakeLLM struct {
	mu         sync.Mutex
	completeFn func(messages []llm.Message, systemPrompt string) (string, error)
	streamFn   func(messages []llm.Message, systemPrompt string, onChunk func(string) error) error
	calls      int
	lastSystem string
}

func (f *fakeLLM) Complete(_ context.Context, messages []llm.Message, systemPrompt string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.lastSystem = systemPrompt
	f.mu.Unlock()
	if f.completeFn == nil {
		return "", errors.New("no completion configured")
	}
	return f.completeFn(messages, systemPrompt)
}

func (f *fakeLLM) CompleteStream(_ context.Context, messages []llm.Message, systemPrompt string, onChunk func(string) error) error {
	f.mu.Lock()
	f.calls++
	f.lastSystem = systemPrompt
	f.mu.Unlock()
	if f.streamFn == nil {
		return errors.New("no stream configured")
	}
	return f.streamFn(messages, systemPrompt, onChunk)
}

type memTaskRepo struct {
	mu    sync.Mutex
	seq   uint64
	tasks []*model.Task
}

func (r *memTaskRepo) NextTaskNumber(context.Context) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	return r.seq, nil
}

func (r *memTaskRepo) Create(task *model.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	task.ID = uint(len(r.tasks) + 1)
	r.tasks = append(r.tasks, task)
	return nil
}

func (r *memTaskRepo) FindByID(userID, taskID uint) (*model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tasks {
		if t.ID == taskID && t.UserID == userID {
			return t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memTaskRepo) List(userID uint, filter repository.TaskFilter) ([]model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Task
	for _, t := range r.tasks {
		if t.UserID != userID {
			continue
		}
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		if filter.Priority != "" && t.Priority != filter.Priority {
			continue
		}
		if filter.DelegatedTo != 0 && (t.DelegatedTo == nil || *t.DelegatedTo != filter.DelegatedTo) {
			continue
		}
		if filter.Tag != "" {
			found := false
			for _, tag := range t.Tags {
				if tag == filter.Tag {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		out = append(out, *t)
	}
	return out, nil
}

func (r *memTaskRepo) Search(userID uint, query string) ([]model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q := strings.ToLower(query)
	var out []model.Task
	for _, t := range r.tasks {
		if t.UserID != userID {
			continue
		}
		if strings.Contains(strings.ToLower(t.Title), q) ||
			strings.Contains(strings.ToLower(t.Memo), q) {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *memTaskRepo) Update(*model.Task) error { return nil }

func (r *memTaskRepo) Delete(userID, taskID uint) error { return gorm.ErrRecordNotFound }

type memPersonRepo struct {
	persons []model.Person
}

func (r *memPersonRepo) Create(person *model.Person) error {
	person.ID = uint(len(r.persons) + 1)
	r.persons = append(r.persons, *person)
	return nil
}

func (r *memPersonRepo) FindByID(userID, personID uint) (*model.Person, error) {
	for _, p := range r.persons {
		if p.ID == personID && p.UserID == userID {
			clone := p
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memPersonRepo) FindByName(userID uint, name string) (*model.Person, error) {
	for _, p := range r.persons {
		if p.UserID == userID && strings.EqualFold(p.Name, name) {
			clone := p
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memPersonRepo) List(userID uint) ([]model.Person, error) { return r.persons, nil }
func (r *memPersonRepo) Update(*model.Person) error               { return nil }
func (r *memPersonRepo) Delete(userID, personID uint) error       { return gorm.ErrRecordNotFound }

type memCalendarRepo struct {
	mu     sync.Mutex
	events []*model.CalendarEvent
}

func (r *memCalendarRepo) Create(event *model.CalendarEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	event.ID = uint(len(r.events) + 1)
	r.events = append(r.events, event)
	return nil
}

func (r *memCalendarRepo) FindByID(userID, eventID uint) (*model.CalendarEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if e.ID == eventID && e.UserID == userID {
			return e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memCalendarRepo) List(userID uint, from, to *time.Time) ([]model.CalendarEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.CalendarEvent
	for _, e := range r.events {
		if e.UserID != userID {
			continue
		}
		if from != nil && e.StartTime.Before(*from) {
			continue
		}
		if to != nil && !e.StartTime.Before(*to) {
			continue
		}
		out = append(out, *e)
	}
	return out, nil
}

func (r *memCalendarRepo) Update(*model.CalendarEvent) error     { return nil }
func (r *memCalendarRepo) Delete(userID, eventID uint) error     { return gorm.ErrRecordNotFound }

// ---- fixture ----

type convFixture struct {
	svc      ConversationService
	convRepo *memConvRepo
	taskRepo *memTaskRepo
	calRepo  *memCalendarRepo
	llm      *fakeLLM
	sink     *events.RingSink
	conv     *model.Conversation
}

func newConvFixture(t *testing.T, llmClient *fakeLLM) *convFixture {
	t.Helper()

	convRepo := newMemConvRepo()
	taskRepo := &memTaskRepo{}
	personRepo := &memPersonRepo{}
	calRepo := &memCalendarRepo{}
	sink := events.NewRingSink(50)

	require.NoError(t, personRepo.Create(&model.Person{UserID: 1, Name: "Maria"}))

	svc := NewConversationService(
		convRepo,
		NewTaskService(taskRepo, personRepo),
		NewCalendarService(calRepo),
		NewPersonService(personRepo),
		llmClient,
		sink,
		config.AssistantConfig{ContextWindow: 50},
	)

	conv, err := svc.Create(context.Background(), 1, "", model.ModeChat)
	require.NoError(t, err)
	assert.Equal(t, "Nieuw gesprek", conv.Title)

	return &convFixture{
		svc: svc, convRepo: convRepo, taskRepo: taskRepo,
		calRepo: calRepo, llm: llmClient, sink: sink, conv: conv,
	}
}

// ---- tests ----

func TestSendMessagePlainChat(t *testing.T) {
	llmClient := &fakeLLM{
		completeFn: func(messages []llm.Message, _ string) (string, error) {
			// The just-sent user message must be part of the context.
			require.NotEmpty(t, messages)
			assert.Equal(t, "Hoi, wie ben jij?", messages[len(messages)-1].Content)
			return "Ik ben Claudine, je assistent.", nil
		},
	}
	f := newConvFixture(t, llmClient)

	reply, err := f.svc.SendMessage(context.Background(), 1, f.conv.ID, SendInput{Content: "Hoi, wie ben jij?"})
	require.NoError(t, err)
	assert.Equal(t, model.RoleAssistant, reply.Role)
	assert.Equal(t, "Ik ben Claudine, je assistent.", reply.Content)
	assert.Contains(t, llmClient.lastSystem, "Claudine")

	msgs, err := f.svc.Messages(context.Background(), 1, f.conv.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, model.RoleUser, msgs[0].Role)
	assert.Equal(t, model.RoleAssistant, msgs[1].Role)
}

func TestSendMessageLLMFailureKeepsUserMessage(t *testing.T) {
	llmClient := &fakeLLM{
		completeFn: func([]llm.Message, string) (string, error) {
			return "", errors.New("connection refused")
		},
	}
	f := newConvFixture(t, llmClient)

	_, err := f.svc.SendMessage(context.Background(), 1, f.conv.ID, SendInput{Content: "Hallo?"})
	require.Error(t, err)
	assert.True(t, apperr.IsUpstream(err))

	msgs, _ := f.svc.Messages(context.Background(), 1, f.conv.ID, 0, 0)
	require.Len(t, msgs, 1)
	assert.Equal(t, model.RoleUser, msgs[0].Role)
}

func TestSendMessageUnknownConversation(t *testing.T) {
	f := newConvFixture(t, &fakeLLM{})

	_, err := f.svc.SendMessage(context.Background(), 1, 999, SendInput{Content: "Hallo"})
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))

	// Wrong owner behaves like a missing conversation.
	_, err = f.svc.SendMessage(context.Background(), 2, f.conv.ID, SendInput{Content: "Hallo"})
	assert.True(t, apperr.IsNotFound(err))
}

func TestSendMessageTaskCommand(t *testing.T) {
	f := newConvFixture(t, &fakeLLM{}) // a command path must not hit the LLM

	reply, err := f.svc.SendMessage(context.Background(), 1, f.conv.ID, SendInput{
		Content: "#taak Rapport afmaken deadline volgende week @Maria priority high tags werk,rapportage",
	})
	require.NoError(t, err)
	assert.Contains(t, reply.Content, "Task-00000001")
	assert.Contains(t, reply.Content, "Rapport afmaken")
	assert.Contains(t, reply.Content, "Maria")
	assert.Contains(t, reply.Content, "volgende week")
	assert.Equal(t, 0, f.llm.calls)

	tasks, err := f.taskRepo.List(1, repository.TaskFilter{})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, uint64(1), tasks[0].TaskNumber)
	assert.Equal(t, model.PriorityHigh, tasks[0].Priority)
	assert.Equal(t, model.StringList{"werk", "rapportage"}, tasks[0].Tags)
	require.NotNil(t, tasks[0].DelegatedTo)
}

func TestSendMessageCommandTagsUserMessage(t *testing.T) {
	f := newConvFixture(t, &fakeLLM{})

	_, err := f.svc.SendMessage(context.Background(), 1, f.conv.ID, SendInput{Content: "#taak Rapport priority high"})
	require.NoError(t, err)

	msgs := f.convRepo.messagesFor(f.conv.ID)
	require.Len(t, msgs, 2)
	user := msgs[0]
	require.Equal(t, model.RoleUser, user.Role)
	assert.Equal(t, "chat", user.Metadata["mode"])
	assert.Equal(t, "task", user.Metadata["command"])
	params, ok := user.Metadata["command_params"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Rapport", params["title"])
	assert.Equal(t, "high", params["priority"])
}

func TestSendMessagePlainChatLeavesMessageUntagged(t *testing.T) {
	llmClient := &fakeLLM{
		completeFn: func([]llm.Message, string) (string, error) { return "Hallo!", nil },
	}
	f := newConvFixture(t, llmClient)

	_, err := f.svc.SendMessage(context.Background(), 1, f.conv.ID, SendInput{Content: "gewoon een vraag"})
	require.NoError(t, err)

	msgs := f.convRepo.messagesFor(f.conv.ID)
	require.Len(t, msgs, 2)
	assert.NotContains(t, msgs[0].Metadata, "command")
	assert.NotContains(t, msgs[0].Metadata, "command_params")
}

func TestSendMessageTaskCommandUnknownDelegate(t *testing.T) {
	f := newConvFixture(t, &fakeLLM{})

	reply, err := f.svc.SendMessage(context.Background(), 1, f.conv.ID, SendInput{
		Content: "#taak Bel de bank @Onbekend",
	})
	require.NoError(t, err)
	assert.Contains(t, reply.Content, "Onbekend")
	assert.Contains(t, reply.Content, "contacten")

	tasks, _ := f.taskRepo.List(1, repository.TaskFilter{})
	assert.Empty(t, tasks)
}

func TestSendMessageUnknownCommandRepliesInBand(t *testing.T) {
	f := newConvFixture(t, &fakeLLM{})

	reply, err := f.svc.SendMessage(context.Background(), 1, f.conv.ID, SendInput{Content: "#frobnicate iets"})
	require.NoError(t, err)
	assert.Contains(t, reply.Content, "#help")
	assert.Equal(t, 0, f.llm.calls)
}

func TestSendMessageReminderCommand(t *testing.T) {
	llmClient := &fakeLLM{
		completeFn: func(_ []llm.Message, systemPrompt string) (string, error) {
			require.Contains(t, systemPrompt, "JSON")
			return `{"title":"Tandarts bellen","start_time":"2026-09-02T10:00:00"}`, nil
		},
	}
	f := newConvFixture(t, llmClient)

	reply, err := f.svc.SendMessage(context.Background(), 1, f.conv.ID, SendInput{
		Content: "#herinnering bel de tandarts morgen om 10:00",
	})
	require.NoError(t, err)
	assert.Contains(t, reply.Content, "🔔 Herinnering gezet")
	assert.Contains(t, reply.Content, "Tandarts bellen")

	require.Len(t, f.calRepo.events, 1)
	ev := f.calRepo.events[0]
	assert.Equal(t, "🔔 Tandarts bellen", ev.Title)
	assert.Equal(t, ev.StartTime.Add(5*time.Minute), ev.EndTime)
}

func TestSendMessageCalendarCommandStoresDetails(t *testing.T) {
	llmClient := &fakeLLM{
		completeFn: func(_ []llm.Message, systemPrompt string) (string, error) {
			require.Contains(t, systemPrompt, "location")
			return `{"title":"Tandarts","start_time":"2026-09-02T10:00:00","end_time":"2026-09-02T10:30:00",` +
				`"description":"halfjaarlijkse controle","location":"Amsterdam"}`, nil
		},
	}
	f := newConvFixture(t, llmClient)

	reply, err := f.svc.SendMessage(context.Background(), 1, f.conv.ID, SendInput{
		Content: "#agenda maak afspraak tandarts morgen 10:00 in Amsterdam",
	})
	require.NoError(t, err)
	assert.Contains(t, reply.Content, "📅 Afspraak toegevoegd")

	require.Len(t, f.calRepo.events, 1)
	ev := f.calRepo.events[0]
	assert.Equal(t, "Tandarts", ev.Title)
	assert.Equal(t, "halfjaarlijkse controle", ev.Description)
	assert.Equal(t, "Amsterdam", ev.Location)
	assert.Equal(t, time.Date(2026, 9, 2, 10, 30, 0, 0, time.Local), ev.EndTime)
}

func TestSendMessageHelpCommand(t *testing.T) {
	f := newConvFixture(t, &fakeLLM{})

	reply, err := f.svc.SendMessage(context.Background(), 1, f.conv.ID, SendInput{Content: "#help"})
	require.NoError(t, err)
	assert.Contains(t, reply.Content, "#agenda")
	assert.Contains(t, reply.Content, "#taak")
}

func TestSendMessageStreamDeliversAndPersists(t *testing.T) {
	llmClient := &fakeLLM{
		streamFn: func(_ []llm.Message, _ string, onChunk func(string) error) error {
			for _, c := range []string{"Hal", "lo ", "daar"} {
				if err := onChunk(c); err != nil {
					return err
				}
			}
			return nil
		},
	}
	f := newConvFixture(t, llmClient)

	ch, err := f.svc.SendMessageStream(context.Background(), 1, f.conv.ID, SendInput{Content: "Zeg eens hallo"})
	require.NoError(t, err)

	var content strings.Builder
	var done bool
	for chunk := range ch {
		require.NoError(t, chunk.Err)
		if chunk.Done {
			done = true
			continue
		}
		content.WriteString(chunk.Content)
	}
	assert.True(t, done)
	assert.Equal(t, "Hallo daar", content.String())

	msgs, _ := f.svc.Messages(context.Background(), 1, f.conv.ID, 0, 0)
	require.Len(t, msgs, 2)
	assert.Equal(t, "Hallo daar", msgs[1].Content)
}

func TestSendMessageStreamCancelDiscardsPartialReply(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	llmClient := &fakeLLM{
		streamFn: func(_ []llm.Message, _ string, onChunk func(string) error) error {
			if err := onChunk("Gedeeltelijk "); err != nil {
				return err
			}
			cancel() // client goes away mid-stream
			for {
				if err := onChunk("antwoord"); err != nil {
					return err
				}
			}
		},
	}
	f := newConvFixture(t, llmClient)

	ch, err := f.svc.SendMessageStream(ctx, 1, f.conv.ID, SendInput{Content: "Vertel een verhaal"})
	require.NoError(t, err)

	var sawDone bool
	for chunk := range ch {
		if chunk.Done {
			sawDone = true
		}
	}
	assert.False(t, sawDone)

	// Only the user message survives a cancelled stream.
	msgs, _ := f.svc.Messages(context.Background(), 1, f.conv.ID, 0, 0)
	require.Len(t, msgs, 1)
	assert.Equal(t, model.RoleUser, msgs[0].Role)
}

func TestSendMessageStreamCommandSingleChunk(t *testing.T) {
	f := newConvFixture(t, &fakeLLM{})

	ch, err := f.svc.SendMessageStream(context.Background(), 1, f.conv.ID, SendInput{Content: "#help"})
	require.NoError(t, err)

	var chunks []StreamChunk
	for chunk := range ch {
		chunks = append(chunks, chunk)
	}
	require.Len(t, chunks, 2)
	assert.Contains(t, chunks[0].Content, "#agenda")
	assert.True(t, chunks[1].Done)
}

func TestGenerateTitleFromLLM(t *testing.T) {
	llmClient := &fakeLLM{
		completeFn: func([]llm.Message, string) (string, error) {
			return "\"Tandartsafspraak plannen\"\n", nil
		},
	}
	f := newConvFixture(t, llmClient)
	require.NoError(t, f.convRepo.AppendMessage(context.Background(), &model.Message{
		ConversationID: f.conv.ID, Role: model.RoleUser, Content: "Ik wil naar de tandarts",
	}))

	title, err := f.svc.GenerateTitle(context.Background(), 1, f.conv.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tandartsafspraak plannen", title)

	conv, _ := f.svc.Get(context.Background(), 1, f.conv.ID)
	assert.Equal(t, "Tandartsafspraak plannen", conv.Title)
}

func TestGenerateTitleCapsLength(t *testing.T) {
	long := strings.Repeat("lang ", 30)
	llmClient := &fakeLLM{
		completeFn: func([]llm.Message, string) (string, error) { return long, nil },
	}
	f := newConvFixture(t, llmClient)
	require.NoError(t, f.convRepo.AppendMessage(context.Background(), &model.Message{
		ConversationID: f.conv.ID, Role: model.RoleUser, Content: "hoi",
	}))

	title, err := f.svc.GenerateTitle(context.Background(), 1, f.conv.ID)
	require.NoError(t, err)
	assert.LessOrEqual(t, len([]rune(title)), 50)
}

func TestGenerateTitleFallsBackToFirstUserMessage(t *testing.T) {
	llmClient := &fakeLLM{
		completeFn: func([]llm.Message, string) (string, error) {
			return "", errors.New("unavailable")
		},
	}
	f := newConvFixture(t, llmClient)
	require.NoError(t, f.convRepo.AppendMessage(context.Background(), &model.Message{
		ConversationID: f.conv.ID, Role: model.RoleUser,
		Content: "Hello there, this is a very long first message indeed",
	}))

	title, err := f.svc.GenerateTitle(context.Background(), 1, f.conv.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hello there, this is a very lo...", title)
}

func TestGenerateTitleTranscriptStaysValidUTF8(t *testing.T) {
	var transcript string
	llmClient := &fakeLLM{
		completeFn: func(messages []llm.Message, _ string) (string, error) {
			require.NotEmpty(t, messages)
			transcript = messages[0].Content
			return "Titel", nil
		},
	}
	f := newConvFixture(t, llmClient)

	// The multi-byte runes straddle the transcript cap.
	content := strings.Repeat("a", 480) + strings.Repeat("€", 10)
	require.NoError(t, f.convRepo.AppendMessage(context.Background(), &model.Message{
		ConversationID: f.conv.ID,
		Role:           model.RoleUser,
		Content:        content,
	}))

	_, err := f.svc.GenerateTitle(context.Background(), 1, f.conv.ID)
	require.NoError(t, err)
	assert.True(t, utf8.ValidString(transcript))
	assert.LessOrEqual(t, len(transcript), 500)
}

func TestGenerateTitleEmptyConversationUsesDefault(t *testing.T) {
	llmClient := &fakeLLM{
		completeFn: func([]llm.Message, string) (string, error) {
			return "", errors.New("unavailable")
		},
	}
	f := newConvFixture(t, llmClient)

	title, err := f.svc.GenerateTitle(context.Background(), 1, f.conv.ID)
	require.NoError(t, err)
	assert.Equal(t, "Nieuw gesprek", title)
}

func TestConcurrentSendsKeepPairsContiguous(t *testing.T) {
	llmClient := &fakeLLM{
		completeFn: func(messages []llm.Message, _ string) (string, error) {
			// Echo the latest user message so pairs are verifiable.
			return "re: " + messages[len(messages)-1].Content, nil
		},
	}
	f := newConvFixture(t, llmClient)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.svc.SendMessage(context.Background(), 1, f.conv.ID, SendInput{
				Content: fmt.Sprintf("bericht %d", i),
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	msgs, err := f.svc.Messages(context.Background(), 1, f.conv.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 10)
	for i := 0; i < len(msgs); i += 2 {
		assert.Equal(t, model.RoleUser, msgs[i].Role)
		assert.Equal(t, model.RoleAssistant, msgs[i+1].Role)
		assert.Equal(t, "re: "+msgs[i].Content, msgs[i+1].Content)
	}
}

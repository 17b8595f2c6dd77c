package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"

	"assistant-go/internal/command"
	"assistant-go/internal/config"
	"assistant-go/internal/model"
	"assistant-go/internal/repository"
	"assistant-go/pkg/apperr"
	"assistant-go/pkg/events"
	"assistant-go/pkg/llm"
	"assistant-go/pkg/log"
)

const (
	defaultContextWindow = 50
	defaultTitle         = "Nieuw gesprek"
	titleMaxRunes        = 50
	titleFallbackRunes   = 30
	titleSourceMessages  = 5
	titleSourceMaxChars  = 500
)

// StreamChunk is one unit of a streamed assistant reply. Exactly one of
// the fields is meaningful: Content carries text, Done marks successful
// completion, Err carries a terminal failure.
type StreamChunk struct {
	Content string
	Done    bool
	Err     error
}

// SendInput carries an incoming chat message. Mode optionally overrides
// the conversation's mode for this exchange only.
type SendInput struct {
	Content string `json:"content" binding:"required"`
	Mode    string `json:"mode"`
}

// ConversationService is the chat orchestrator: it owns conversation
// lifecycle, message persistence, command dispatch and the LLM calls.
//
// Ordering rules: the user message is always persisted before anything
// else happens; the assistant message is persisted only once its content
// is complete. A per-conversation lock keeps each user/assistant pair
// contiguous under concurrent sends.
type ConversationService interface {
	Create(ctx context.Context, userID uint, title, mode string) (*model.Conversation, error)
	List(ctx context.Context, userID uint, mode string, limit, offset int) ([]model.Conversation, error)
	Get(ctx context.Context, userID, convID uint) (*model.Conversation, error)
	Delete(ctx context.Context, userID, convID uint) error
	Messages(ctx context.Context, userID, convID uint, limit, offset int) ([]model.Message, error)
	SendMessage(ctx context.Context, userID, convID uint, in SendInput) (*model.Message, error)
	SendMessageStream(ctx context.Context, userID, convID uint, in SendInput) (<-chan StreamChunk, error)
	GenerateTitle(ctx context.Context, userID, convID uint) (string, error)
}

type conversationService struct {
	convRepo    repository.ConversationRepository
	taskSvc     TaskService
	calendarSvc CalendarService
	personSvc   PersonService
	llmClient   llm.Client
	emitter     events.Emitter
	cfg         config.AssistantConfig
	locks       sync.Map // conversation id -> *sync.Mutex
}

// NewConversationService creates a new ConversationService instance.
func NewConversationService(
	convRepo repository.ConversationRepository,
	taskSvc TaskService,
	calendarSvc CalendarService,
	personSvc PersonService,
	llmClient llm.Client,
	emitter events.Emitter,
	cfg config.AssistantConfig,
) ConversationService {
	return &conversationService{
		convRepo:    convRepo,
		taskSvc:     taskSvc,
		calendarSvc: calendarSvc,
		personSvc:   personSvc,
		llmClient:   llmClient,
		emitter:     emitter,
		cfg:         cfg,
	}
}

func (s *conversationService) contextWindow() int {
	if s.cfg.ContextWindow > 0 {
		return s.cfg.ContextWindow
	}
	return defaultContextWindow
}

func (s *conversationService) fallbackTitle() string {
	if s.cfg.DefaultTitle != "" {
		return s.cfg.DefaultTitle
	}
	return defaultTitle
}

func (s *conversationService) lockFor(convID uint) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(convID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

func (s *conversationService) Create(ctx context.Context, userID uint, title, mode string) (*model.Conversation, error) {
	if mode == "" {
		mode = model.ModeChat
	}
	if !model.ValidMode(mode) {
		return nil, apperr.Validationf("unknown conversation mode '%s'", mode)
	}
	if strings.TrimSpace(title) == "" {
		title = s.fallbackTitle()
	}
	conv := &model.Conversation{
		UserID: userID,
		Title:  title,
		Mode:   mode,
	}
	if err := s.convRepo.CreateConversation(ctx, conv); err != nil {
		return nil, err
	}
	return conv, nil
}

func (s *conversationService) List(ctx context.Context, userID uint, mode string, limit, offset int) ([]model.Conversation, error) {
	if mode != "" && !model.ValidMode(mode) {
		return nil, apperr.Validationf("unknown conversation mode '%s'", mode)
	}
	return s.convRepo.ListConversations(ctx, userID, mode, limit, offset)
}

func (s *conversationService) Get(ctx context.Context, userID, convID uint) (*model.Conversation, error) {
	conv, err := s.convRepo.FindConversation(ctx, userID, convID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("conversation %d not found", convID)
		}
		return nil, err
	}
	return conv, nil
}

func (s *conversationService) Delete(ctx context.Context, userID, convID uint) error {
	err := s.convRepo.DeleteConversation(ctx, userID, convID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFoundf("conversation %d not found", convID)
	}
	return err
}

func (s *conversationService) Messages(ctx context.Context, userID, convID uint, limit, offset int) ([]model.Message, error) {
	if _, err := s.Get(ctx, userID, convID); err != nil {
		return nil, err
	}
	return s.convRepo.ListMessages(ctx, convID, limit, offset)
}

// SendMessage handles one buffered exchange: persist the user message,
// dispatch (command or LLM), persist and return the assistant reply.
// Command failures come back as friendly in-band replies; only plain
// chat with a failing LLM surfaces an error, with the user message kept.
func (s *conversationService) SendMessage(ctx context.Context, userID, convID uint, in SendInput) (*model.Message, error) {
	conv, mode, err := s.prepareSend(ctx, userID, convID, in)
	if err != nil {
		return nil, err
	}

	mu := s.lockFor(conv.ID)
	mu.Lock()
	defer mu.Unlock()

	parsed := command.Parse(in.Content)
	if err := s.appendUserMessage(ctx, conv.ID, in.Content, mode, parsed); err != nil {
		return nil, err
	}

	var reply string
	var metadata model.JSONMap

	if parsed.IsCommand() || parsed.HasPrefix {
		reply, metadata = s.handleCommand(ctx, userID, parsed)
	} else {
		reply, err = s.chatReply(ctx, conv.ID, mode)
		if err != nil {
			return nil, err
		}
	}

	assistantMsg, err := s.appendAssistantMessage(ctx, conv.ID, reply, metadata)
	if err != nil {
		return nil, err
	}

	s.emitExchange(ctx, userID, conv.ID, parsed)
	return assistantMsg, nil
}

// SendMessageStream handles one streamed exchange. Chunks arrive on the
// returned channel; the assistant message is persisted only after the
// stream completes. If the caller's context is cancelled mid-stream the
// partial reply is discarded and only the user message remains.
func (s *conversationService) SendMessageStream(ctx context.Context, userID, convID uint, in SendInput) (<-chan StreamChunk, error) {
	conv, mode, err := s.prepareSend(ctx, userID, convID, in)
	if err != nil {
		return nil, err
	}

	ch := make(chan StreamChunk, 8)
	go func() {
		defer close(ch)

		mu := s.lockFor(conv.ID)
		mu.Lock()
		defer mu.Unlock()

		parsed := command.Parse(in.Content)
		if err := s.appendUserMessage(ctx, conv.ID, in.Content, mode, parsed); err != nil {
			ch <- StreamChunk{Err: err}
			return
		}

		if parsed.IsCommand() || parsed.HasPrefix {
			// Commands reply as a single chunk.
			reply, metadata := s.handleCommand(ctx, userID, parsed)
			if _, err := s.appendAssistantMessage(ctx, conv.ID, reply, metadata); err != nil {
				ch <- StreamChunk{Err: err}
				return
			}
			ch <- StreamChunk{Content: reply}
			ch <- StreamChunk{Done: true}
			s.emitExchange(ctx, userID, conv.ID, parsed)
			return
		}

		history, err := s.convRepo.LatestMessages(ctx, conv.ID, s.contextWindow())
		if err != nil {
			ch <- StreamChunk{Err: err}
			return
		}

		var buf strings.Builder
		streamErr := s.llmClient.CompleteStream(ctx, toLLMMessages(history), systemPromptFor(mode), func(chunk string) error {
			if ctx.Err() != nil {
				return apperr.ErrStreamInterrupted
			}
			select {
			case ch <- StreamChunk{Content: chunk}:
				buf.WriteString(chunk)
				return nil
			case <-ctx.Done():
				return apperr.ErrStreamInterrupted
			}
		})
		if streamErr != nil {
			if errors.Is(streamErr, apperr.ErrStreamInterrupted) || errors.Is(streamErr, context.Canceled) {
				log.Infow("stream cancelled by client", "conversation", conv.ID)
				s.emitter.Emit(context.Background(), events.Event{
					Type:           events.TypeStreamCancelled,
					UserID:         userID,
					ConversationID: conv.ID,
				})
				return
			}
			s.emitter.Emit(ctx, events.Event{
				Type:           events.TypeUpstreamFailure,
				UserID:         userID,
				ConversationID: conv.ID,
				Payload:        map[string]interface{}{"error": streamErr.Error()},
			})
			ch <- StreamChunk{Err: apperr.Upstreamf(streamErr, "de assistent is tijdelijk niet beschikbaar")}
			return
		}

		if _, err := s.appendAssistantMessage(ctx, conv.ID, buf.String(), nil); err != nil {
			ch <- StreamChunk{Err: err}
			return
		}
		ch <- StreamChunk{Done: true}
		s.emitExchange(ctx, userID, conv.ID, parsed)
	}()

	return ch, nil
}

// GenerateTitle derives a short title from the first messages of the
// conversation. When the LLM is unavailable it falls back to a prefix of
// the first user message.
func (s *conversationService) GenerateTitle(ctx context.Context, userID, convID uint) (string, error) {
	conv, err := s.Get(ctx, userID, convID)
	if err != nil {
		return "", err
	}

	msgs, err := s.convRepo.FirstMessages(ctx, convID, titleSourceMessages)
	if err != nil {
		return "", err
	}

	title := s.titleFromLLM(ctx, msgs)
	if title == "" {
		title = s.titleFromFirstUserMessage(msgs)
	}

	conv.Title = title
	if err := s.convRepo.UpdateConversation(ctx, conv); err != nil {
		return "", err
	}
	s.emitter.Emit(ctx, events.Event{
		Type:           events.TypeTitleGenerated,
		UserID:         userID,
		ConversationID: convID,
		Payload:        map[string]interface{}{"title": title},
	})
	return title, nil
}

func (s *conversationService) titleFromLLM(ctx context.Context, msgs []model.Message) string {
	if len(msgs) == 0 {
		return ""
	}

	var transcript strings.Builder
	for _, m := range msgs {
		line := fmt.Sprintf("%s: %s\n", m.Role, m.Content)
		if transcript.Len()+len(line) > titleSourceMaxChars {
			cut := titleSourceMaxChars - transcript.Len()
			// Back up to a rune boundary so the transcript stays valid UTF-8.
			for cut > 0 && !utf8.RuneStart(line[cut]) {
				cut--
			}
			if cut > 0 {
				transcript.WriteString(line[:cut])
			}
			break
		}
		transcript.WriteString(line)
	}

	raw, err := s.llmClient.Complete(ctx, []llm.Message{{Role: model.RoleUser, Content: transcript.String()}}, titlePrompt)
	if err != nil {
		log.Warnf("title generation failed, using fallback: %v", err)
		return ""
	}
	return cleanTitle(raw)
}

func (s *conversationService) titleFromFirstUserMessage(msgs []model.Message) string {
	for _, m := range msgs {
		if m.Role != model.RoleUser {
			continue
		}
		runes := []rune(strings.TrimSpace(m.Content))
		if len(runes) == 0 {
			break
		}
		if len(runes) > titleFallbackRunes {
			return string(runes[:titleFallbackRunes]) + "..."
		}
		return string(runes)
	}
	return s.fallbackTitle()
}

// cleanTitle normalizes an LLM-produced title: surrounding quotes go,
// newlines collapse, and the result is capped at 50 runes.
func cleanTitle(raw string) string {
	title := strings.TrimSpace(raw)
	title = strings.Trim(title, "\"'“”‘’")
	title = strings.Join(strings.Fields(title), " ")
	runes := []rune(title)
	if len(runes) > titleMaxRunes {
		title = strings.TrimSpace(string(runes[:titleMaxRunes]))
	}
	return title
}

// prepareSend validates the input and resolves the effective mode.
func (s *conversationService) prepareSend(ctx context.Context, userID, convID uint, in SendInput) (*model.Conversation, string, error) {
	if strings.TrimSpace(in.Content) == "" {
		return nil, "", apperr.Validationf("message content is required")
	}
	conv, err := s.Get(ctx, userID, convID)
	if err != nil {
		return nil, "", err
	}
	mode := conv.Mode
	if in.Mode != "" {
		if !model.ValidMode(in.Mode) {
			return nil, "", apperr.Validationf("unknown conversation mode '%s'", in.Mode)
		}
		mode = in.Mode
	}
	return conv, mode, nil
}

// appendUserMessage persists the incoming message. Command messages are
// tagged with the parsed kind and parameters so the history records what
// was recognized, not just the raw text.
func (s *conversationService) appendUserMessage(ctx context.Context, convID uint, content, mode string, parsed command.ParsedCommand) error {
	metadata := model.JSONMap{"mode": mode}
	if parsed.IsCommand() {
		metadata["command"] = string(parsed.Kind)
		metadata["command_params"] = parsed.Parameters
	}
	msg := &model.Message{
		ConversationID: convID,
		Role:           model.RoleUser,
		Content:        content,
		Metadata:       metadata,
		CreatedAt:      time.Now(),
	}
	return s.convRepo.AppendMessage(ctx, msg)
}

func (s *conversationService) appendAssistantMessage(ctx context.Context, convID uint, content string, metadata model.JSONMap) (*model.Message, error) {
	msg := &model.Message{
		ConversationID: convID,
		Role:           model.RoleAssistant,
		Content:        content,
		Metadata:       metadata,
		CreatedAt:      time.Now(),
	}
	if err := s.convRepo.AppendMessage(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// chatReply runs a plain-chat exchange against the LLM with the recent
// history as context. The just-persisted user message is part of that
// history.
func (s *conversationService) chatReply(ctx context.Context, convID uint, mode string) (string, error) {
	history, err := s.convRepo.LatestMessages(ctx, convID, s.contextWindow())
	if err != nil {
		return "", err
	}
	reply, err := s.llmClient.Complete(ctx, toLLMMessages(history), systemPromptFor(mode))
	if err != nil {
		s.emitter.Emit(ctx, events.Event{
			Type:           events.TypeUpstreamFailure,
			ConversationID: convID,
			Payload:        map[string]interface{}{"error": err.Error()},
		})
		return "", apperr.Upstreamf(err, "de assistent is tijdelijk niet beschikbaar")
	}
	return reply, nil
}

func (s *conversationService) emitExchange(ctx context.Context, userID, convID uint, parsed command.ParsedCommand) {
	evType := events.TypeMessageExchange
	payload := map[string]interface{}{}
	if parsed.IsCommand() {
		evType = events.TypeCommandExecuted
		payload["command"] = string(parsed.Kind)
	}
	s.emitter.Emit(ctx, events.Event{
		Type:           evType,
		UserID:         userID,
		ConversationID: convID,
		Payload:        payload,
	})
}

func toLLMMessages(msgs []model.Message) []llm.Message {
	out := make([]llm.Message, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, llm.Message{Role: m.Role, Content: m.Content})
	}
	return out
}

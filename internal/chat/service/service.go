package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	biztransport "bizgenie_backend/internal/business/transport"
	"bizgenie_backend/internal/chat/conversation"
	"bizgenie_backend/internal/chat/transport"
	"bizgenie_backend/internal/events"
	"bizgenie_backend/internal/rag"
	"bizgenie_backend/platform/ai/llm"
	"bizgenie_backend/platform/logger"
	"bizgenie_backend/platform/phone"

	"github.com/google/uuid"
)

// BusinessSource looks up the business profile that scopes a conversation.
type BusinessSource interface {
	Get(ctx context.Context, id uuid.UUID) (*biztransport.BusinessResponse, error)
}

// ConversationStore persists chat histories.
type ConversationStore interface {
	Append(ctx context.Context, conversationID string, turns ...conversation.Turn) error
	History(ctx context.Context, conversationID string) ([]conversation.Turn, error)
}

// Completer generates assistant replies from a message history.
type Completer interface {
	Chat(ctx context.Context, messages []llm.Message) (string, error)
}

// Service implements the assistant chat pipeline: intent classification,
// the booking fast path, document retrieval, model completion, and tool
// routing.
type Service struct {
	businesses    BusinessSource
	conversations ConversationStore
	retriever     rag.Retriever
	completer     Completer
	router        *ToolRouter
	bus           events.Bus
	topK          int
	log           *logger.Logger
}

// New creates a new chat service.
func New(
	businesses BusinessSource,
	conversations ConversationStore,
	retriever rag.Retriever,
	completer Completer,
	router *ToolRouter,
	bus events.Bus,
	topK int,
	log *logger.Logger,
) *Service {
	if topK <= 0 {
		topK = 4
	}
	return &Service{
		businesses:    businesses,
		conversations: conversations,
		retriever:     retriever,
		completer:     completer,
		router:        router,
		bus:           bus,
		topK:          topK,
		log:           log,
	}
}

// Chat answers one customer message.
func (s *Service) Chat(ctx context.Context, req transport.ChatRequest) (*transport.ChatResponse, error) {
	profile, err := s.businesses.Get(ctx, req.BusinessID)
	if err != nil {
		return nil, err
	}
	biz := toBusinessContext(profile)

	conversationID := req.ConversationID
	if conversationID == "" {
		conversationID = uuid.NewString()
		s.captureLead(ctx, req, conversationID)
	}

	intent := ClassifyIntent(req.Message)

	resp := &transport.ChatResponse{
		ConversationID: conversationID,
		Intent:         string(intent),
		ToolActions:    []transport.ToolAction{},
		DocumentsUsed:  []string{},
	}

	if IsBookingIntent(intent) {
		s.handleBooking(ctx, req, biz, intent, resp)
		s.record(ctx, conversationID, req.Message, resp.Reply)
		return resp, nil
	}

	chunks := s.retrieve(ctx, req.BusinessID, req.Message)
	resp.DocumentsUsed = chunkSources(chunks)

	answer, call := s.generate(ctx, conversationID, req.Message, biz, chunks)
	resp.Reply = answer
	if action := s.router.Execute(ctx, call, biz); action != nil {
		resp.ToolActions = append(resp.ToolActions, *action)
	}

	s.record(ctx, conversationID, req.Message, resp.Reply)
	return resp, nil
}

// handleBooking serves appointment requests without the language model when
// the message carries an explicit date and time.
func (s *Service) handleBooking(ctx context.Context, req transport.ChatRequest, biz BusinessContext, intent Intent, resp *transport.ChatResponse) {
	date, hasDate := ExtractDate(req.Message)
	clock, hasTime := ExtractTime(req.Message)

	if !hasDate || !hasTime {
		resp.Reply = "I can set that up. What date and time would you like? Please use a date like 2026-09-15 and a time like 14:30."
		return
	}

	toolName := "create_event"
	if intent == IntentRescheduleAppointment {
		toolName = "update_event"
	}

	// The date and time travel inside the event itself, not just the reply.
	params := map[string]any{
		"date":        date,
		"time":        clock,
		"title":       fmt.Sprintf("Appointment on %s at %s", date, clock),
		"description": req.Message,
	}
	if biz.Address != "" {
		params["location"] = biz.Address
	}
	if email := extractEmail(req.Message); email != "" {
		params["attendee_email"] = email
	}

	action := s.router.Execute(ctx, &ToolCall{Name: toolName, Params: params}, biz)
	if action == nil {
		resp.Reply = fmt.Sprintf("I have your request for %s at %s, but I need an email address to send the invite to. What email should I use?", date, clock)
		return
	}

	resp.ToolActions = append(resp.ToolActions, *action)
	resp.Reply = fmt.Sprintf("Done. Your appointment is set for %s at %s and a calendar invite is on its way to %s.", date, clock, action.To)
}

// generate runs the retrieval-augmented completion. When the model is
// unreachable it falls back to a summary built from the business profile,
// so the endpoint still answers.
func (s *Service) generate(ctx context.Context, conversationID, message string, biz BusinessContext, chunks []rag.Chunk) (string, *ToolCall) {
	if s.completer == nil {
		return fallbackReply(biz), nil
	}

	messages := []llm.Message{
		{Role: "system", Content: BuildSystemPrompt(biz, chunks)},
	}

	history, err := s.conversations.History(ctx, conversationID)
	if err != nil {
		s.log.DatabaseError("conversation_history", err)
	}
	for _, turn := range history {
		messages = append(messages, llm.Message{Role: turn.Role, Content: turn.Content})
	}
	messages = append(messages, llm.Message{Role: "user", Content: message})

	raw, err := s.completer.Chat(ctx, messages)
	if err != nil {
		s.log.UpstreamError("llm", "chat", err)
		return fallbackReply(biz), nil
	}

	return ParseReply(raw)
}

func (s *Service) retrieve(ctx context.Context, businessID uuid.UUID, query string) []rag.Chunk {
	if s.retriever == nil {
		return nil
	}
	chunks, err := s.retriever.Retrieve(ctx, businessID, query, s.topK)
	if err != nil {
		// Retrieval is best effort; the profile alone can still answer.
		s.log.UpstreamError("retrieval", "retrieve", err)
		return nil
	}
	return chunks
}

// captureLead publishes a lead for first-contact messages so the business
// can follow up even if the visitor never books.
func (s *Service) captureLead(ctx context.Context, req transport.ChatRequest, conversationID string) {
	source := req.Channel
	if source == "" {
		source = "chat"
	}

	s.bus.Publish(ctx, events.LeadCreated{
		BaseEvent:      events.NewBaseEvent(),
		LeadID:         uuid.New(),
		BusinessID:     req.BusinessID,
		ConversationID: conversationID,
		Name:           req.UserName,
		Email:          extractEmail(req.Message),
		Phone:          extractPhone(req.Message),
		Source:         source,
		FirstMessage:   req.Message,
	})
}

func (s *Service) record(ctx context.Context, conversationID, userMessage, reply string) {
	now := time.Now()
	err := s.conversations.Append(ctx, conversationID,
		conversation.Turn{Role: "user", Content: userMessage, At: now},
		conversation.Turn{Role: "assistant", Content: reply, At: now},
	)
	if err != nil {
		s.log.DatabaseError("conversation_append", err)
	}
}

func fallbackReply(biz BusinessContext) string {
	return fmt.Sprintf("I can't reach my assistant brain right now, but here is what I know about %s:\n\n%s", biz.Name, MetadataSummary(biz))
}

func toBusinessContext(profile *biztransport.BusinessResponse) BusinessContext {
	return BusinessContext{
		Name:         profile.Name,
		Description:  profile.Description,
		Address:      profile.Address,
		Services:     profile.Services,
		WorkingHours: profile.WorkingHours,
		ContactEmail: profile.ContactEmail,
		ContactPhone: profile.ContactPhone,
	}
}

func chunkSources(chunks []rag.Chunk) []string {
	seen := make(map[string]struct{}, len(chunks))
	sources := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		if chunk.Source == "" {
			continue
		}
		if _, ok := seen[chunk.Source]; ok {
			continue
		}
		seen[chunk.Source] = struct{}{}
		sources = append(sources, chunk.Source)
	}
	return sources
}

var (
	emailRe     = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	phoneDigits = regexp.MustCompile(`\+?[0-9][0-9 ()\-]{7,}[0-9]`)
)

func extractEmail(message string) string {
	return emailRe.FindString(message)
}

func extractPhone(message string) string {
	raw := phoneDigits.FindString(message)
	if raw == "" {
		return ""
	}
	normalized := phone.NormalizeE164(raw)
	if !strings.HasPrefix(normalized, "+") {
		return ""
	}
	return normalized
}

package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	biztransport "bizgenie_backend/internal/business/transport"
	"bizgenie_backend/internal/chat/conversation"
	"bizgenie_backend/internal/chat/transport"
	"bizgenie_backend/internal/events"
	"bizgenie_backend/internal/rag"
	"bizgenie_backend/platform/ai/llm"
	"bizgenie_backend/platform/apperr"
	"bizgenie_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeBusinessSource struct {
	profile *biztransport.BusinessResponse
}

func (f *fakeBusinessSource) Get(_ context.Context, id uuid.UUID) (*biztransport.BusinessResponse, error) {
	if f.profile == nil || f.profile.ID != id {
		return nil, apperr.NotFound("business not found")
	}
	return f.profile, nil
}

type memoryConversations struct {
	turns map[string][]conversation.Turn
}

func newMemoryConversations() *memoryConversations {
	return &memoryConversations{turns: make(map[string][]conversation.Turn)}
}

func (m *memoryConversations) Append(_ context.Context, id string, turns ...conversation.Turn) error {
	m.turns[id] = append(m.turns[id], turns...)
	return nil
}

func (m *memoryConversations) History(_ context.Context, id string) ([]conversation.Turn, error) {
	return m.turns[id], nil
}

type fakeRetriever struct {
	chunks []rag.Chunk
}

func (f *fakeRetriever) Retrieve(context.Context, uuid.UUID, string, int) ([]rag.Chunk, error) {
	return f.chunks, nil
}

type fakeCompleter struct {
	reply    string
	err      error
	messages []llm.Message
	calls    int
}

func (f *fakeCompleter) Chat(_ context.Context, messages []llm.Message) (string, error) {
	f.calls++
	f.messages = messages
	return f.reply, f.err
}

type capturingBus struct {
	published []events.Event
}

func (b *capturingBus) Publish(_ context.Context, event events.Event) {
	b.published = append(b.published, event)
}

func (b *capturingBus) PublishSync(_ context.Context, event events.Event) error {
	b.published = append(b.published, event)
	return nil
}

func (b *capturingBus) Subscribe(string, events.Handler) {}

type chatFixture struct {
	svc       *Service
	business  *biztransport.BusinessResponse
	completer *fakeCompleter
	bus       *capturingBus
	store     *memoryConversations
	email     *recordingEmail
	calendar  *recordingCalendar
}

func newChatFixture(t *testing.T, chunks []rag.Chunk) *chatFixture {
	t.Helper()

	profile := &biztransport.BusinessResponse{
		ID:           uuid.New(),
		Name:         "Glow Salon",
		Description:  "Hair and beauty studio",
		Address:      "12 High Street",
		Services:     []string{"haircut", "coloring"},
		WorkingHours: map[string]biztransport.DayHours{"monday": {Open: "09:00", Close: "17:00"}},
		ContactEmail: "owner@glow.example",
		ContactPhone: "+15551234567",
	}

	router, email, _, cal := newTestRouter()
	completer := &fakeCompleter{reply: "We open at nine."}
	bus := &capturingBus{}
	store := newMemoryConversations()

	svc := New(
		&fakeBusinessSource{profile: profile},
		store,
		&fakeRetriever{chunks: chunks},
		completer,
		router,
		bus,
		4,
		logger.New("test"),
	)

	return &chatFixture{
		svc:       svc,
		business:  profile,
		completer: completer,
		bus:       bus,
		store:     store,
		email:     email,
		calendar:  cal,
	}
}

func TestChatUnknownBusiness(t *testing.T) {
	fx := newChatFixture(t, nil)

	_, err := fx.svc.Chat(context.Background(), transport.ChatRequest{
		BusinessID: uuid.New(),
		Message:    "hello",
	})
	if apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestChatNewConversationCapturesLead(t *testing.T) {
	fx := newChatFixture(t, nil)

	resp, err := fx.svc.Chat(context.Background(), transport.ChatRequest{
		BusinessID: fx.business.ID,
		UserName:   "Jo Smit",
		Message:    "Hi, do you do balayage? You can reach me at jo@example.com",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.ConversationID == "" {
		t.Error("expected a generated conversation id")
	}

	if len(fx.bus.published) != 1 {
		t.Fatalf("expected one event, got %d", len(fx.bus.published))
	}
	lead, ok := fx.bus.published[0].(events.LeadCreated)
	if !ok {
		t.Fatalf("expected LeadCreated, got %T", fx.bus.published[0])
	}
	if lead.Email != "jo@example.com" || lead.BusinessID != fx.business.ID {
		t.Errorf("unexpected lead %+v", lead)
	}
	if lead.Name != "Jo Smit" {
		t.Errorf("name = %q, want Jo Smit", lead.Name)
	}
	if lead.Source != "chat" {
		t.Errorf("source = %q, want chat", lead.Source)
	}
}

func TestChatExistingConversationSkipsLead(t *testing.T) {
	fx := newChatFixture(t, nil)

	_, err := fx.svc.Chat(context.Background(), transport.ChatRequest{
		BusinessID:     fx.business.ID,
		Message:        "And on Saturdays?",
		ConversationID: uuid.NewString(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fx.bus.published) != 0 {
		t.Errorf("expected no lead event, got %d", len(fx.bus.published))
	}
}

func TestChatBookingFastPath(t *testing.T) {
	fx := newChatFixture(t, nil)

	resp, err := fx.svc.Chat(context.Background(), transport.ChatRequest{
		BusinessID:     fx.business.ID,
		Message:        "Book me a haircut on 2026-09-15 at 14:30, I'm at jo@example.com",
		ConversationID: uuid.NewString(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.Intent != string(IntentCreateAppointment) {
		t.Errorf("intent = %s", resp.Intent)
	}
	if len(resp.ToolActions) != 1 || resp.ToolActions[0].Action != "create_event" {
		t.Fatalf("unexpected actions %+v", resp.ToolActions)
	}
	if resp.ToolActions[0].To != "jo@example.com" {
		t.Errorf("invite went to %q", resp.ToolActions[0].To)
	}
	if len(fx.calendar.created) != 1 {
		t.Fatalf("expected one calendar event, got %d", len(fx.calendar.created))
	}
	ev := fx.calendar.created[0]
	if !strings.Contains(ev.Summary, "2026-09-15") || !strings.Contains(ev.Summary, "14:30") {
		t.Errorf("event title should carry the date and time, got %q", ev.Summary)
	}
	if !strings.Contains(ev.Description, "Book me a haircut") {
		t.Errorf("event description should carry the request, got %q", ev.Description)
	}
	if fx.completer.calls != 0 {
		t.Error("fast path must not call the language model")
	}
	if !strings.Contains(resp.Reply, "2026-09-15") {
		t.Errorf("reply should confirm the date, got %q", resp.Reply)
	}
}

func TestChatBookingAsksForDateAndTime(t *testing.T) {
	fx := newChatFixture(t, nil)

	resp, err := fx.svc.Chat(context.Background(), transport.ChatRequest{
		BusinessID:     fx.business.ID,
		Message:        "I'd like to book an appointment",
		ConversationID: uuid.NewString(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(resp.ToolActions) != 0 {
		t.Errorf("clarification must not trigger tools, got %+v", resp.ToolActions)
	}
	if !strings.Contains(resp.Reply, "date and time") {
		t.Errorf("expected clarification, got %q", resp.Reply)
	}
	if fx.completer.calls != 0 {
		t.Error("clarification must not call the language model")
	}
}

func TestChatFallsBackToProfileWhenModelFails(t *testing.T) {
	fx := newChatFixture(t, nil)
	fx.completer.err = errors.New("connection refused")

	resp, err := fx.svc.Chat(context.Background(), transport.ChatRequest{
		BusinessID:     fx.business.ID,
		Message:        "Tell me about your coloring services and pricing options",
		ConversationID: uuid.NewString(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(resp.Reply, "Glow Salon") || !strings.Contains(resp.Reply, "haircut") {
		t.Errorf("expected profile summary, got %q", resp.Reply)
	}
	if len(resp.ToolActions) != 0 {
		t.Error("fallback must not trigger tools")
	}
}

func TestChatExecutesModelToolCall(t *testing.T) {
	chunks := []rag.Chunk{
		{Source: "pricelist.pdf", Content: "Balayage from 120"},
		{Source: "pricelist.pdf", Content: "Cut and finish 45"},
	}
	fx := newChatFixture(t, chunks)
	fx.completer.reply = `{"answer": "Sent you the price list.", "call_tool": {"name": "send_email", "params": {"to": "jo@example.com", "subject": "Prices", "body": "Balayage from 120"}}}`

	resp, err := fx.svc.Chat(context.Background(), transport.ChatRequest{
		BusinessID:     fx.business.ID,
		Message:        "Could you email me your full price list for coloring please?",
		ConversationID: uuid.NewString(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.Reply != "Sent you the price list." {
		t.Errorf("unexpected reply %q", resp.Reply)
	}
	if len(resp.ToolActions) != 1 || resp.ToolActions[0].To != "jo@example.com" {
		t.Fatalf("unexpected actions %+v", resp.ToolActions)
	}
	if len(fx.email.messages) != 1 {
		t.Fatalf("expected one email, got %d", len(fx.email.messages))
	}
	if len(resp.DocumentsUsed) != 1 || resp.DocumentsUsed[0] != "pricelist.pdf" {
		t.Errorf("unexpected documents %+v", resp.DocumentsUsed)
	}
}

func TestChatZeroChunksReportsEmptyDocuments(t *testing.T) {
	fx := newChatFixture(t, nil)

	resp, err := fx.svc.Chat(context.Background(), transport.ChatRequest{
		BusinessID:     fx.business.ID,
		Message:        "Do you have parking near the salon entrance?",
		ConversationID: uuid.NewString(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.DocumentsUsed == nil {
		t.Fatal("documents used must be present, not null")
	}
	if len(resp.DocumentsUsed) != 0 {
		t.Errorf("expected zero documents, got %+v", resp.DocumentsUsed)
	}
	if resp.Reply == "" {
		t.Error("reply must not be empty without documents")
	}
}

func TestChatRecordsConversationTurns(t *testing.T) {
	fx := newChatFixture(t, nil)
	id := uuid.NewString()

	_, err := fx.svc.Chat(context.Background(), transport.ChatRequest{
		BusinessID:     fx.business.ID,
		Message:        "What products do you use for sensitive skin treatments?",
		ConversationID: id,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	turns := fx.store.turns[id]
	if len(turns) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(turns))
	}
	if turns[0].Role != "user" || turns[1].Role != "assistant" {
		t.Errorf("unexpected roles %q %q", turns[0].Role, turns[1].Role)
	}
}

func TestChatIncludesHistoryInPrompt(t *testing.T) {
	fx := newChatFixture(t, nil)
	id := uuid.NewString()
	fx.store.turns[id] = []conversation.Turn{
		{Role: "user", Content: "Do you do balayage?"},
		{Role: "assistant", Content: "We do."},
	}

	_, err := fx.svc.Chat(context.Background(), transport.ChatRequest{
		BusinessID:     fx.business.ID,
		Message:        "And roughly how long does that usually take to finish?",
		ConversationID: id,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// system + 2 history turns + new user message
	if len(fx.completer.messages) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(fx.completer.messages))
	}
	if fx.completer.messages[1].Content != "Do you do balayage?" {
		t.Errorf("history not forwarded: %+v", fx.completer.messages)
	}
}

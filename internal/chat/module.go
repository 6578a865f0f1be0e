// Package chat provides the customer-facing assistant endpoint: retrieval
// over business documents, booking fast paths, and tool routing to email,
// WhatsApp, and calendar invites.
package chat

import (
	"bizgenie_backend/internal/chat/conversation"
	"bizgenie_backend/internal/chat/handler"
	"bizgenie_backend/internal/chat/service"
	"bizgenie_backend/internal/events"
	internalhttp "bizgenie_backend/internal/http"
	"bizgenie_backend/internal/notify"
	"bizgenie_backend/internal/rag"
	"bizgenie_backend/platform/config"
	"bizgenie_backend/platform/logger"
	"bizgenie_backend/platform/validator"

	"github.com/redis/go-redis/v9"
)

// Module wires the chat bounded context.
type Module struct {
	handler *handler.Handler
}

// Dependencies are the external collaborators the chat module needs.
type Dependencies struct {
	Businesses service.BusinessSource
	Retriever  rag.Retriever
	Completer  service.Completer
	Email      notify.EmailSender
	WhatsApp   notify.WhatsAppSender
	Calendar   notify.CalendarSender
	Dispatcher *notify.Dispatcher
	Redis      *redis.Client
	Bus        events.Bus
}

// Config narrows the app config to what the chat module reads.
type Config interface {
	config.ConversationConfig
	config.RAGConfig
}

// NewModule creates a new chat module with all dependencies wired.
func NewModule(deps Dependencies, cfg Config, val *validator.Validator, log *logger.Logger) *Module {
	store := conversation.NewStore(deps.Redis, cfg)
	router := service.NewToolRouter(deps.Email, deps.WhatsApp, deps.Calendar, deps.Dispatcher)
	svc := service.New(deps.Businesses, store, deps.Retriever, deps.Completer, router, deps.Bus, cfg.GetRAGTopK(), log)
	h := handler.New(svc, val)

	return &Module{handler: h}
}

// Name returns the module identifier.
func (m *Module) Name() string { return "chat" }

// RegisterRoutes mounts the chat routes behind the chat rate limiter.
func (m *Module) RegisterRoutes(ctx *internalhttp.RouterContext) {
	group := ctx.V1.Group("/chat")
	if ctx.ChatRateLimiter != nil {
		group.Use(ctx.ChatRateLimiter.RateLimit())
	}
	m.handler.RegisterRoutes(group)
}

var _ internalhttp.Module = (*Module)(nil)

// Package leads persists visitor contacts captured by the chat assistant.
package leads

import (
	"bizgenie_backend/internal/events"
	internalhttp "bizgenie_backend/internal/http"
	"bizgenie_backend/internal/leads/handler"
	"bizgenie_backend/internal/leads/repository"
	"bizgenie_backend/internal/leads/service"
	"bizgenie_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module wires the leads bounded context.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates a new leads module with all dependencies wired. It
// subscribes to chat lead events on construction.
func NewModule(pool *pgxpool.Pool, bus events.Bus, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	svc.SubscribeToEvents(bus)
	h := handler.New(svc)

	return &Module{handler: h, service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string { return "leads" }

// RegisterRoutes mounts the leads routes under the business scope.
func (m *Module) RegisterRoutes(ctx *internalhttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.V1.Group("/businesses/:id/leads"))
}

var _ internalhttp.Module = (*Module)(nil)

// Package business provides business profile registration and document
// ingestion for the assistant's knowledge base.
package business

import (
	"bizgenie_backend/internal/business/handler"
	"bizgenie_backend/internal/business/repository"
	"bizgenie_backend/internal/business/service"
	"bizgenie_backend/internal/events"
	internalhttp "bizgenie_backend/internal/http"
	"bizgenie_backend/platform/config"
	"bizgenie_backend/platform/logger"
	"bizgenie_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module wires the business bounded context.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates a new business module with all dependencies wired.
func NewModule(
	pool *pgxpool.Pool,
	ingestor service.Ingestor,
	bus events.Bus,
	cfg config.UploadConfig,
	val *validator.Validator,
	log *logger.Logger,
) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, ingestor, bus, cfg, log)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string { return "business" }

// Service exposes the business service for other modules.
func (m *Module) Service() *service.Service { return m.service }

// RegisterRoutes mounts the business routes.
func (m *Module) RegisterRoutes(ctx *internalhttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.V1.Group("/businesses"))
}

var _ internalhttp.Module = (*Module)(nil)

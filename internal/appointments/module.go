// Package appointments provides booking with confirmations and scheduled
// reminders.
package appointments

import (
	"bizgenie_backend/internal/appointments/handler"
	"bizgenie_backend/internal/appointments/repository"
	"bizgenie_backend/internal/appointments/service"
	"bizgenie_backend/internal/events"
	internalhttp "bizgenie_backend/internal/http"
	"bizgenie_backend/internal/notify"
	"bizgenie_backend/internal/scheduler"
	"bizgenie_backend/platform/config"
	"bizgenie_backend/platform/logger"
	"bizgenie_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module wires the appointments bounded context.
type Module struct {
	handler *handler.Handler
	Service *service.Service
}

// Dependencies are the external collaborators the appointments module needs.
type Dependencies struct {
	Reminders  scheduler.ReminderScheduler
	Dispatcher *notify.Dispatcher
	Email      notify.EmailSender
	WhatsApp   notify.WhatsAppSender
	Calendar   notify.CalendarSender
	Bus        events.Bus
}

// NewModule creates a new appointments module with all dependencies wired.
func NewModule(pool *pgxpool.Pool, deps Dependencies, cfg config.SchedulerConfig, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(
		repo,
		deps.Reminders,
		deps.Dispatcher,
		deps.Email,
		deps.WhatsApp,
		deps.Calendar,
		deps.Bus,
		cfg.GetReminderLeadTime(),
		log,
	)
	h := handler.New(svc, val)

	return &Module{handler: h, Service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string { return "appointments" }

// RegisterRoutes mounts the appointments routes under the business scope.
func (m *Module) RegisterRoutes(ctx *internalhttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.V1.Group("/businesses/:id/appointments"))
}

var _ internalhttp.Module = (*Module)(nil)

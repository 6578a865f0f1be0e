package service

import (
	"context"
	"fmt"
	"time"

	"bizgenie_backend/internal/events"
	"bizgenie_backend/internal/leads/repository"
	"bizgenie_backend/internal/leads/transport"
	"bizgenie_backend/platform/logger"

	"github.com/google/uuid"
)

// Service implements lead capture and retrieval.
type Service struct {
	repo *repository.Repository
	log  *logger.Logger
}

// New creates a new leads service.
func New(repo *repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// SubscribeToEvents registers the handlers that persist leads captured by
// the chat pipeline.
func (s *Service) SubscribeToEvents(bus events.Bus) {
	bus.Subscribe(events.LeadCreated{}.EventName(), events.HandlerFunc(s.handleLeadCreated))
}

func (s *Service) handleLeadCreated(ctx context.Context, event events.Event) error {
	lead, ok := event.(events.LeadCreated)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}

	return s.repo.Create(ctx, &repository.Lead{
		ID:             lead.LeadID,
		BusinessID:     lead.BusinessID,
		ConversationID: lead.ConversationID,
		Name:           lead.Name,
		Email:          lead.Email,
		Phone:          lead.Phone,
		Source:         lead.Source,
		FirstMessage:   lead.FirstMessage,
		CreatedAt:      time.Now(),
	})
}

// Get returns one lead scoped to a business.
func (s *Service) Get(ctx context.Context, id, businessID uuid.UUID) (*transport.LeadResponse, error) {
	lead, err := s.repo.GetByID(ctx, id, businessID)
	if err != nil {
		return nil, err
	}
	resp := toResponse(lead)
	return &resp, nil
}

// List returns a business's captured leads.
func (s *Service) List(ctx context.Context, businessID uuid.UUID, limit int) ([]transport.LeadResponse, error) {
	leads, err := s.repo.ListByBusiness(ctx, businessID, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]transport.LeadResponse, len(leads))
	for i := range leads {
		responses[i] = toResponse(&leads[i])
	}
	return responses, nil
}

func toResponse(lead *repository.Lead) transport.LeadResponse {
	return transport.LeadResponse{
		ID:             lead.ID,
		BusinessID:     lead.BusinessID,
		ConversationID: lead.ConversationID,
		Name:           lead.Name,
		Email:          lead.Email,
		Phone:          lead.Phone,
		Source:         lead.Source,
		FirstMessage:   lead.FirstMessage,
		CreatedAt:      lead.CreatedAt,
	}
}

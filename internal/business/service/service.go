package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"bizgenie_backend/internal/business/repository"
	"bizgenie_backend/internal/business/transport"
	"bizgenie_backend/internal/events"
	"bizgenie_backend/platform/apperr"
	"bizgenie_backend/platform/config"
	"bizgenie_backend/platform/logger"
	"bizgenie_backend/platform/phone"
	"bizgenie_backend/platform/sanitize"

	"github.com/google/uuid"
)

// Ingestor chunks and indexes document text for retrieval.
type Ingestor interface {
	IngestDocument(ctx context.Context, businessID, documentID uuid.UUID, source, text string) (int, error)
}

// Store is the persistence surface the service needs.
type Store interface {
	Create(ctx context.Context, biz *repository.Business) error
	GetByID(ctx context.Context, id uuid.UUID) (*repository.Business, error)
	GetByEmail(ctx context.Context, email string) (*repository.Business, error)
	Update(ctx context.Context, biz *repository.Business) error
	CreateDocument(ctx context.Context, doc *repository.Document) error
	UpdateDocumentChunkCount(ctx context.Context, id uuid.UUID, chunkCount int) error
	ListDocuments(ctx context.Context, businessID uuid.UUID) ([]repository.Document, error)
}

// Service implements business profile and document management.
type Service struct {
	repo      Store
	ingestor  Ingestor
	bus       events.Bus
	maxBytes  int64
	uploadDir string
	log       *logger.Logger
}

// New creates a new business service.
func New(repo Store, ingestor Ingestor, bus events.Bus, cfg config.UploadConfig, log *logger.Logger) *Service {
	return &Service{
		repo:      repo,
		ingestor:  ingestor,
		bus:       bus,
		maxBytes:  cfg.GetUploadMaxBytes(),
		uploadDir: cfg.GetUploadDir(),
		log:       log,
	}
}

// Register creates a new business profile.
func (s *Service) Register(ctx context.Context, req transport.RegisterBusinessRequest) (*transport.BusinessResponse, error) {
	now := time.Now()
	biz := &repository.Business{
		ID:           uuid.New(),
		Name:         sanitize.Text(req.Name),
		Email:        req.Email,
		Phone:        phone.NormalizeE164(req.Phone),
		Description:  sanitize.Text(req.Description),
		Address:      sanitize.Text(req.Address),
		Services:     sanitizeList(req.Services),
		WorkingHours: req.WorkingHours,
		ContactEmail: req.ContactEmail,
		ContactPhone: phone.NormalizeE164(req.ContactPhone),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// The assistant falls back to the registration email when no separate
	// contact address is set.
	if biz.ContactEmail == "" {
		biz.ContactEmail = biz.Email
	}
	if biz.ContactPhone == "" {
		biz.ContactPhone = biz.Phone
	}

	if err := s.repo.Create(ctx, biz); err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, events.BusinessRegistered{
		BaseEvent:  events.NewBaseEvent(),
		BusinessID: biz.ID,
		Name:       biz.Name,
		Email:      biz.Email,
	})

	return toResponse(biz), nil
}

// Get returns a business profile by ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*transport.BusinessResponse, error) {
	biz, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toResponse(biz), nil
}

// Lookup returns a business profile by registered email.
func (s *Service) Lookup(ctx context.Context, email string) (*transport.BusinessResponse, error) {
	biz, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return toResponse(biz), nil
}

// Update applies partial profile changes.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateBusinessRequest) (*transport.BusinessResponse, error) {
	biz, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		biz.Name = sanitize.Text(*req.Name)
	}
	if req.Phone != nil {
		biz.Phone = phone.NormalizeE164(*req.Phone)
	}
	if req.Description != nil {
		biz.Description = sanitize.Text(*req.Description)
	}
	if req.Address != nil {
		biz.Address = sanitize.Text(*req.Address)
	}
	if req.Services != nil {
		biz.Services = sanitizeList(*req.Services)
	}
	if req.WorkingHours != nil {
		biz.WorkingHours = *req.WorkingHours
	}
	if req.ContactEmail != nil {
		biz.ContactEmail = *req.ContactEmail
	}
	if req.ContactPhone != nil {
		biz.ContactPhone = phone.NormalizeE164(*req.ContactPhone)
	}
	biz.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, biz); err != nil {
		return nil, err
	}

	return toResponse(biz), nil
}

// UploadDocument extracts text from the file, stores the document record,
// and ingests the text into the retrieval index.
func (s *Service) UploadDocument(ctx context.Context, businessID uuid.UUID, fileName, contentType string, data []byte) (*transport.UploadDocumentResponse, error) {
	if s.maxBytes > 0 && int64(len(data)) > s.maxBytes {
		return nil, apperr.Validation(fmt.Sprintf("file exceeds maximum size of %d bytes", s.maxBytes))
	}

	// Ensures the business exists before accepting the file.
	biz, err := s.repo.GetByID(ctx, businessID)
	if err != nil {
		return nil, err
	}

	text, err := ExtractText(fileName, contentType, data)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, "could not extract text from document", err)
	}
	if text == "" {
		return nil, apperr.Validation("document contains no extractable text")
	}

	docID := uuid.New()
	doc := &repository.Document{
		ID:          docID,
		BusinessID:  biz.ID,
		FileName:    fileName,
		ContentType: contentType,
		SizeBytes:   int64(len(data)),
		StoragePath: s.storeOriginal(biz.ID, docID, fileName, data),
		CreatedAt:   time.Now(),
	}
	if err := s.repo.CreateDocument(ctx, doc); err != nil {
		return nil, err
	}

	// Ingestion failure keeps the upload: the original file and the
	// document record survive, the chunk count stays at zero.
	chunkCount, err := s.ingestor.IngestDocument(ctx, biz.ID, doc.ID, fileName, text)
	if err != nil {
		s.log.Warn("document ingestion failed, upload kept without chunks",
			"document_id", doc.ID, "file_name", fileName, "error", err)
		chunkCount = 0
	}
	doc.ChunkCount = chunkCount
	if err := s.repo.UpdateDocumentChunkCount(ctx, doc.ID, chunkCount); err != nil {
		s.log.DatabaseError("update_document_chunk_count", err)
	}

	s.bus.Publish(ctx, events.DocumentUploaded{
		BaseEvent:  events.NewBaseEvent(),
		DocumentID: doc.ID,
		BusinessID: biz.ID,
		FileName:   fileName,
		ChunkCount: chunkCount,
	})

	return &transport.UploadDocumentResponse{
		Document: toDocumentResponse(doc),
		Message:  fmt.Sprintf("document ingested into %d chunks", chunkCount),
	}, nil
}

// storeOriginal writes the uploaded bytes under the upload directory and
// returns the path, or "" when the write failed. A failed write does not
// fail the upload since the extracted text is already in hand.
func (s *Service) storeOriginal(businessID, docID uuid.UUID, fileName string, data []byte) string {
	dir := filepath.Join(s.uploadDir, businessID.String())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		s.log.Warn("could not create upload directory", "dir", dir, "error", err)
		return ""
	}

	path := filepath.Join(dir, docID.String()+filepath.Ext(fileName))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		s.log.Warn("could not store original document", "path", path, "error", err)
		return ""
	}
	return path
}

// ListDocuments returns the business's uploaded documents.
func (s *Service) ListDocuments(ctx context.Context, businessID uuid.UUID) ([]transport.DocumentResponse, error) {
	docs, err := s.repo.ListDocuments(ctx, businessID)
	if err != nil {
		return nil, err
	}

	responses := make([]transport.DocumentResponse, len(docs))
	for i := range docs {
		responses[i] = toDocumentResponse(&docs[i])
	}
	return responses, nil
}

func sanitizeList(values []string) []string {
	cleaned := make([]string, 0, len(values))
	for _, value := range values {
		if text := sanitize.Text(value); text != "" {
			cleaned = append(cleaned, text)
		}
	}
	return cleaned
}

func toResponse(biz *repository.Business) *transport.BusinessResponse {
	return &transport.BusinessResponse{
		ID:           biz.ID,
		Name:         biz.Name,
		Email:        biz.Email,
		Phone:        biz.Phone,
		Description:  biz.Description,
		Address:      biz.Address,
		Services:     biz.Services,
		WorkingHours: biz.WorkingHours,
		ContactEmail: biz.ContactEmail,
		ContactPhone: biz.ContactPhone,
		CreatedAt:    biz.CreatedAt,
		UpdatedAt:    biz.UpdatedAt,
	}
}

func toDocumentResponse(doc *repository.Document) transport.DocumentResponse {
	return transport.DocumentResponse{
		ID:          doc.ID,
		BusinessID:  doc.BusinessID,
		FileName:    doc.FileName,
		ContentType: doc.ContentType,
		SizeBytes:   doc.SizeBytes,
		ChunkCount:  doc.ChunkCount,
		CreatedAt:   doc.CreatedAt,
	}
}

package service

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/blake2b"

	"ruraldraft-backend/internal/logger"
	"ruraldraft-backend/internal/metrics"
	"ruraldraft-backend/internal/telemetry"
	"ruraldraft-backend/models"
	"ruraldraft-backend/render"
	"ruraldraft-backend/repository"
	"ruraldraft-backend/storage"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// Pipeline produces structured results for the document service.
type Pipeline interface {
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error)
	Preview(agentType string, data models.CaseData, partial *models.StructuredResult) (*models.StructuredResult, error)
}

// DocumentStore persists rendered documents.
type DocumentStore interface {
	Create(ctx context.Context, doc *models.Document) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Document, error)
	List(ctx context.Context, limit, offset int) ([]*models.Document, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.DocumentStatus) error
}

// JobStore records the progress of generation runs.
type JobStore interface {
	Create(ctx context.Context, job *models.GenerationJob) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.GenerationJob, error)
	UpdateProgress(ctx context.Context, id uuid.UUID, currentStep string, steps models.GenerationSteps) error
	AttachDocument(ctx context.Context, id, documentID uuid.UUID) error
	Complete(ctx context.Context, id uuid.UUID, steps models.GenerationSteps) error
	Fail(ctx context.Context, id uuid.UUID, steps models.GenerationSteps, errorMessage string) error
}

// ExportStore persists export records.
type ExportStore interface {
	Create(ctx context.Context, export *models.DocumentExport) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.DocumentExport, error)
	ListByDocumentID(ctx context.Context, documentID uuid.UUID) ([]*models.DocumentExport, error)
}

// DocumentService generates, renders, stores and exports petitions
type DocumentService struct {
	pipeline  Pipeline
	renderer  *render.Renderer
	documents DocumentStore
	jobs      JobStore
	exports   ExportStore
	storage   storage.Storage
	logger    logger.Logger
	tracer    trace.Tracer
}

// DocumentServiceOption is a functional option for DocumentService
type DocumentServiceOption func(*DocumentService)

// DocumentWithPipeline sets the generation pipeline
func DocumentWithPipeline(p Pipeline) DocumentServiceOption {
	return func(s *DocumentService) {
		s.pipeline = p
	}
}

// DocumentWithRenderer sets the renderer
func DocumentWithRenderer(r *render.Renderer) DocumentServiceOption {
	return func(s *DocumentService) {
		s.renderer = r
	}
}

// DocumentWithDocumentStore sets the document repository
func DocumentWithDocumentStore(store DocumentStore) DocumentServiceOption {
	return func(s *DocumentService) {
		s.documents = store
	}
}

// DocumentWithJobStore sets the generation job repository. Without one,
// runs are not tracked.
func DocumentWithJobStore(store JobStore) DocumentServiceOption {
	return func(s *DocumentService) {
		s.jobs = store
	}
}

// DocumentWithExportStore sets the export repository
func DocumentWithExportStore(store ExportStore) DocumentServiceOption {
	return func(s *DocumentService) {
		s.exports = store
	}
}

// DocumentWithStorage sets the export storage backend
func DocumentWithStorage(st storage.Storage) DocumentServiceOption {
	return func(s *DocumentService) {
		s.storage = st
	}
}

// DocumentWithLogger sets the logger
func DocumentWithLogger(l logger.Logger) DocumentServiceOption {
	return func(s *DocumentService) {
		s.logger = l
	}
}

// NewDocumentService creates a new document service
func NewDocumentService(opts ...DocumentServiceOption) *DocumentService {
	s := &DocumentService{
		tracer: telemetry.Tracer("ruraldraft/documents"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logger.OrNop(s.logger)
	if s.renderer == nil {
		s.renderer = render.New(render.WithLogger(s.logger))
	}
	return s
}

// GenerateDocumentRequest represents a request to generate a petition
type GenerateDocumentRequest struct {
	AgentType         string
	Provider          string
	DocType           string
	CaseData          models.CaseData
	Template          string
	SystemInstruction string
	Signers           []models.Signer
	Office            *models.Office // nil uses the renderer default
	GeneratedBy       string
}

// GenerateDocumentResult represents the result of a generation run
type GenerateDocumentResult struct {
	JobID    uuid.UUID
	Document *models.Document
	Rendered *render.Document
}

// Generate runs the pipeline, renders its result and stores the document.
// Pipeline errors are returned unchanged so callers can tell them apart.
func (s *DocumentService) Generate(ctx context.Context, req GenerateDocumentRequest) (*GenerateDocumentResult, error) {
	if s.pipeline == nil {
		return nil, errors.New("generation pipeline not set")
	}
	if s.documents == nil {
		return nil, errors.New("document repository not set")
	}

	ctx, span := s.tracer.Start(ctx, "documents.Generate", trace.WithAttributes(
		attribute.String("agent.type", req.AgentType),
	))
	defer span.End()

	// 1. Create job
	run := s.startJob(ctx, req.AgentType)

	// 2. Generate
	out, err := s.pipeline.Generate(ctx, GenerateRequest{
		AgentType:         req.AgentType,
		Provider:          req.Provider,
		DocType:           req.DocType,
		CaseData:          req.CaseData,
		Template:          req.Template,
		SystemInstruction: req.SystemInstruction,
		OnStep: func(step string) {
			s.markStep(ctx, run, step)
		},
	})
	if err != nil {
		s.failJob(ctx, run, err.Error())
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	// 3. Render
	s.markStep(ctx, run, models.StepRender)
	rendered := s.renderer.Render(render.Input{
		AgentType:   out.AgentType,
		Result:      out.Result,
		CaseData:    out.CaseData,
		Signers:     req.Signers,
		Office:      req.Office,
		GeneratedBy: req.GeneratedBy,
	})

	// 4. Store
	status := models.DocumentStatusGenerated
	if rendered.Unstructured {
		status = models.DocumentStatusUnstructured
	}
	doc := &models.Document{
		Code:        rendered.ID,
		AgentType:   out.AgentType,
		DocType:     req.DocType,
		Provider:    out.Provider,
		Status:      status,
		ClientName:  out.CaseData.Name,
		CaseData:    out.CaseData,
		Result:      *out.Result,
		HTML:        rendered.HTML,
		GeneratedBy: req.GeneratedBy,
	}
	if err := s.documents.Create(ctx, doc); err != nil {
		s.failJob(ctx, run, "failed to store document: "+err.Error())
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to store document: %w", err)
	}

	// 5. Complete job
	s.completeJob(ctx, run, doc.ID)

	s.logger.Info("document generated", map[string]interface{}{
		"document_id": doc.ID.String(),
		"code":        doc.Code,
		"agent_type":  doc.AgentType,
		"status":      string(doc.Status),
	})
	span.SetAttributes(attribute.String("document.code", doc.Code))

	result := &GenerateDocumentResult{Document: doc, Rendered: rendered}
	if run != nil {
		result.JobID = run.ID
	}
	return result, nil
}

// PreviewRequest represents a request to render without the backend
type PreviewRequest struct {
	AgentType   string
	CaseData    models.CaseData
	Result      *models.StructuredResult // optional partial result
	Signers     []models.Signer
	Office      *models.Office
	GeneratedBy string
}

// Preview renders case data with local calculations only. Sections the
// backend would write show placeholders.
func (s *DocumentService) Preview(ctx context.Context, req PreviewRequest) (*render.Document, error) {
	if s.pipeline == nil {
		return nil, errors.New("generation pipeline not set")
	}

	res, err := s.pipeline.Preview(req.AgentType, req.CaseData, req.Result)
	if err != nil {
		return nil, err
	}

	return s.renderer.Render(render.Input{
		AgentType:   req.AgentType,
		Result:      res,
		CaseData:    req.CaseData.WithRegistration(res.Registration),
		Signers:     req.Signers,
		Office:      req.Office,
		GeneratedBy: req.GeneratedBy,
	}), nil
}

// GetDocument retrieves a stored document by ID
func (s *DocumentService) GetDocument(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	if s.documents == nil {
		return nil, errors.New("document repository not set")
	}

	doc, err := s.documents.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}
	return doc, nil
}

// ListDocuments returns stored documents, newest first
func (s *DocumentService) ListDocuments(ctx context.Context, limit, offset int) ([]*models.Document, error) {
	if s.documents == nil {
		return nil, errors.New("document repository not set")
	}
	if limit <= 0 || limit > maxListLimit {
		limit = defaultListLimit
	}
	if offset < 0 {
		offset = 0
	}

	docs, err := s.documents.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	if docs == nil {
		docs = []*models.Document{}
	}
	return docs, nil
}

// GetJobStatus retrieves the progress of a generation run
func (s *DocumentService) GetJobStatus(ctx context.Context, id uuid.UUID) (*models.GenerationJob, error) {
	if s.jobs == nil {
		return nil, ErrJobNotFound
	}

	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return job, nil
}

// Export writes the document HTML to storage and records its checksum.
func (s *DocumentService) Export(ctx context.Context, documentID uuid.UUID) (*models.DocumentExport, error) {
	if s.storage == nil {
		return nil, ErrStorageNotSet
	}
	if s.exports == nil {
		return nil, errors.New("export repository not set")
	}

	doc, err := s.GetDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}

	data := []byte(doc.HTML)
	sum := blake2b.Sum256(data)
	filename := exportFilename(doc)

	export := &models.DocumentExport{
		ID:         uuid.New(),
		DocumentID: doc.ID,
		Filename:   filename,
		MimeType:   storage.ContentType(filename),
		Size:       int64(len(data)),
		Checksum:   hex.EncodeToString(sum[:]),
	}

	path, err := s.storage.Upload(ctx, export.ID, filename, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to store export: %w", err)
	}
	export.StoragePath = path

	if err := s.exports.Create(ctx, export); err != nil {
		if derr := s.storage.Delete(ctx, path); derr != nil {
			s.logger.Warn("failed to remove orphaned export", map[string]interface{}{
				"storage_path": path,
				"error":        derr.Error(),
			})
		}
		return nil, fmt.Errorf("failed to record export: %w", err)
	}

	if err := s.documents.UpdateStatus(ctx, doc.ID, models.DocumentStatusExported); err != nil {
		s.logger.Warn("failed to mark document exported", map[string]interface{}{
			"document_id": doc.ID.String(),
			"error":       err.Error(),
		})
	}

	metrics.ExportsStored.WithLabelValues(string(s.storage.Type())).Inc()
	s.logger.Info("document exported", map[string]interface{}{
		"document_id":  doc.ID.String(),
		"export_id":    export.ID.String(),
		"storage_path": path,
		"checksum":     export.Checksum,
	})

	return export, nil
}

// ListExports returns the exports of a document, newest first
func (s *DocumentService) ListExports(ctx context.Context, documentID uuid.UUID) ([]*models.DocumentExport, error) {
	if s.exports == nil {
		return nil, errors.New("export repository not set")
	}

	if _, err := s.GetDocument(ctx, documentID); err != nil {
		return nil, err
	}

	exports, err := s.exports.ListByDocumentID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if exports == nil {
		exports = []*models.DocumentExport{}
	}
	return exports, nil
}

// OpenExport returns the export record and a reader for its stored bytes.
// The caller closes the reader.
func (s *DocumentService) OpenExport(ctx context.Context, id uuid.UUID) (*models.DocumentExport, io.ReadCloser, error) {
	if s.storage == nil {
		return nil, nil, ErrStorageNotSet
	}
	if s.exports == nil {
		return nil, nil, errors.New("export repository not set")
	}

	export, err := s.exports.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrExportNotFound
		}
		return nil, nil, err
	}

	rc, err := s.storage.Download(ctx, export.StoragePath)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, ErrExportNotFound
		}
		return nil, nil, err
	}
	return export, rc, nil
}

func exportFilename(doc *models.Document) string {
	if doc.Code != "" {
		return doc.Code + ".html"
	}
	return doc.ID.String() + ".html"
}

// jobRun is the in-memory copy of a tracked job's steps.
type jobRun struct {
	ID      uuid.UUID
	Steps   models.GenerationSteps
	Current string
}

func (s *DocumentService) startJob(ctx context.Context, agentType string) *jobRun {
	if s.jobs == nil {
		return nil
	}

	job := &models.GenerationJob{
		AgentType: agentType,
		Status:    models.JobStatusPending,
		Steps:     models.NewPipelineSteps(),
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		s.logger.Warn("failed to create generation job, continuing untracked", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}
	return &jobRun{ID: job.ID, Steps: job.Steps}
}

func (s *DocumentService) markStep(ctx context.Context, run *jobRun, step string) {
	if run == nil {
		return
	}
	run.Steps.Mark(step, "in_progress")
	run.Current = step
	if err := s.jobs.UpdateProgress(ctx, run.ID, step, run.Steps); err != nil {
		s.logger.Warn("failed to update job progress", map[string]interface{}{
			"job_id": run.ID.String(),
			"step":   step,
			"error":  err.Error(),
		})
	}
}

func (s *DocumentService) failJob(ctx context.Context, run *jobRun, message string) {
	if run == nil {
		return
	}
	if run.Current != "" {
		run.Steps.Mark(run.Current, "failed")
	}
	if err := s.jobs.Fail(ctx, run.ID, run.Steps, message); err != nil {
		s.logger.Warn("failed to mark job failed", map[string]interface{}{
			"job_id": run.ID.String(),
			"error":  err.Error(),
		})
	}
}

func (s *DocumentService) completeJob(ctx context.Context, run *jobRun, documentID uuid.UUID) {
	if run == nil {
		return
	}
	run.Steps.Mark(models.StepRender, "completed")
	if err := s.jobs.AttachDocument(ctx, run.ID, documentID); err != nil {
		s.logger.Warn("failed to attach document to job", map[string]interface{}{
			"job_id": run.ID.String(),
			"error":  err.Error(),
		})
	}
	if err := s.jobs.Complete(ctx, run.ID, run.Steps); err != nil {
		s.logger.Warn("failed to complete job", map[string]interface{}{
			"job_id": run.ID.String(),
			"error":  err.Error(),
		})
	}
}

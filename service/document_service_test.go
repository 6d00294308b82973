package service

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/blake2b"

	"ruraldraft-backend/agent"
	"ruraldraft-backend/internal/logger"
	"ruraldraft-backend/llm"
	"ruraldraft-backend/models"
	"ruraldraft-backend/render"
	"ruraldraft-backend/repository"
	"ruraldraft-backend/storage"
)

type fakeDocuments struct {
	mu        sync.Mutex
	docs      map[uuid.UUID]*models.Document
	createErr error
	lastLimit int
}

func newFakeDocuments() *fakeDocuments {
	return &fakeDocuments{docs: map[uuid.UUID]*models.Document{}}
}

func (f *fakeDocuments) Create(_ context.Context, doc *models.Document) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	doc.ID = uuid.New()
	doc.CreatedAt = testNow
	doc.UpdatedAt = testNow
	f.docs[doc.ID] = doc
	return nil
}

func (f *fakeDocuments) GetByID(_ context.Context, id uuid.UUID) (*models.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, ok := f.docs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return doc, nil
}

func (f *fakeDocuments) List(_ context.Context, limit, offset int) ([]*models.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastLimit = limit
	var docs []*models.Document
	for _, doc := range f.docs {
		docs = append(docs, doc)
	}
	if offset >= len(docs) {
		return nil, nil
	}
	return docs[offset:], nil
}

func (f *fakeDocuments) UpdateStatus(_ context.Context, id uuid.UUID, status models.DocumentStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, ok := f.docs[id]
	if !ok {
		return repository.ErrNotFound
	}
	doc.Status = status
	return nil
}

type fakeJobs struct {
	id         uuid.UUID
	progress   []string
	documentID uuid.UUID
	completed  models.GenerationSteps
	failed     string
	failSteps  models.GenerationSteps
}

func (f *fakeJobs) Create(_ context.Context, job *models.GenerationJob) error {
	f.id = uuid.New()
	job.ID = f.id
	return nil
}

func (f *fakeJobs) GetByID(_ context.Context, id uuid.UUID) (*models.GenerationJob, error) {
	if id != f.id {
		return nil, repository.ErrNotFound
	}
	job := &models.GenerationJob{ID: f.id, AgentType: agent.MaternityType, Status: models.JobStatusInProgress}
	switch {
	case f.failed != "":
		job.Status = models.JobStatusFailed
		job.ErrorMessage = &f.failed
		job.Steps = f.failSteps
	case f.completed != nil:
		job.Status = models.JobStatusCompleted
		job.Steps = f.completed
		job.DocumentID = &f.documentID
	}
	return job, nil
}

func (f *fakeJobs) UpdateProgress(_ context.Context, _ uuid.UUID, step string, _ models.GenerationSteps) error {
	f.progress = append(f.progress, step)
	return nil
}

func (f *fakeJobs) AttachDocument(_ context.Context, _ uuid.UUID, documentID uuid.UUID) error {
	f.documentID = documentID
	return nil
}

func (f *fakeJobs) Complete(_ context.Context, _ uuid.UUID, steps models.GenerationSteps) error {
	f.completed = append(models.GenerationSteps(nil), steps...)
	return nil
}

func (f *fakeJobs) Fail(_ context.Context, _ uuid.UUID, steps models.GenerationSteps, msg string) error {
	f.failed = msg
	f.failSteps = append(models.GenerationSteps(nil), steps...)
	return nil
}

type fakeExports struct {
	exports   map[uuid.UUID]*models.DocumentExport
	createErr error
}

func (f *fakeExports) Create(_ context.Context, export *models.DocumentExport) error {
	if f.createErr != nil {
		return f.createErr
	}
	export.CreatedAt = testNow
	f.exports[export.ID] = export
	return nil
}

func (f *fakeExports) GetByID(_ context.Context, id uuid.UUID) (*models.DocumentExport, error) {
	e, ok := f.exports[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return e, nil
}

func (f *fakeExports) ListByDocumentID(_ context.Context, documentID uuid.UUID) ([]*models.DocumentExport, error) {
	var out []*models.DocumentExport
	for _, e := range f.exports {
		if e.DocumentID == documentID {
			out = append(out, e)
		}
	}
	return out, nil
}

type documentFixture struct {
	svc     *DocumentService
	gen     *fakeGenerator
	docs    *fakeDocuments
	jobs    *fakeJobs
	exports *fakeExports
	storage *storage.LocalStorage
}

func newDocumentFixture(t *testing.T, reply string) *documentFixture {
	t.Helper()
	f := &documentFixture{
		gen:     &fakeGenerator{name: llm.ProviderGemini, reply: reply},
		docs:    newFakeDocuments(),
		jobs:    &fakeJobs{},
		exports: &fakeExports{exports: map[uuid.UUID]*models.DocumentExport{}},
	}
	st, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	f.storage = st

	renderer := render.New(
		render.WithClock(func() time.Time { return testNow }),
		render.WithRandom(bytes.NewReader([]byte{0, 1, 10, 35})),
		render.WithLogger(logger.NewTestLogger(t)),
	)
	f.svc = NewDocumentService(
		DocumentWithPipeline(newTestOrchestrator(t, f.gen)),
		DocumentWithRenderer(renderer),
		DocumentWithDocumentStore(f.docs),
		DocumentWithJobStore(f.jobs),
		DocumentWithExportStore(f.exports),
		DocumentWithStorage(st),
		DocumentWithLogger(logger.NewTestLogger(t)),
	)
	return f
}

func generateRequest() GenerateDocumentRequest {
	return GenerateDocumentRequest{
		AgentType:   agent.MaternityType,
		DocType:     "Petição Inicial",
		CaseData:    testCaseData(),
		Signers:     []models.Signer{{FullName: "Ana Souza", OAB: "PA 12.345"}},
		GeneratedBy: "Ana Souza",
	}
}

func TestDocumentService_Generate(t *testing.T) {
	f := newDocumentFixture(t, bareReply)

	out, err := f.svc.Generate(context.Background(), generateRequest())
	require.NoError(t, err)

	doc := out.Document
	assert.Equal(t, "DOC-20250601120000-01AZ", doc.Code)
	assert.Equal(t, models.DocumentStatusGenerated, doc.Status)
	assert.Equal(t, llm.ProviderGemini, doc.Provider)
	assert.Equal(t, "Maria da Silva", doc.ClientName)
	assert.Equal(t, "Ana Souza", doc.GeneratedBy)
	assert.Contains(t, doc.HTML, "DOC-20250601120000-01AZ")
	assert.Contains(t, doc.HTML, "ANA SOUZA")
	assert.Equal(t, out.Rendered.HTML, doc.HTML)
	assert.Len(t, doc.Result.PaymentTable, 4)

	stored, err := f.svc.GetDocument(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Same(t, doc, stored)

	assert.Equal(t, f.jobs.id, out.JobID)
	assert.Equal(t, doc.ID, f.jobs.documentID)
	assert.Equal(t, []string{
		models.StepResolve, models.StepValidate, models.StepCalculate, models.StepEnrich,
		models.StepPrompt, models.StepInvoke, models.StepSalvage, models.StepMerge, models.StepRender,
	}, f.jobs.progress)
	require.Len(t, f.jobs.completed, 9)
	for _, step := range f.jobs.completed {
		assert.Equal(t, "completed", step.Status, step.Name)
	}
	assert.Empty(t, f.jobs.failed)
}

func TestDocumentService_GenerateUnstructured(t *testing.T) {
	f := newDocumentFixture(t, "Desculpe, não consegui gerar o JSON.")

	out, err := f.svc.Generate(context.Background(), generateRequest())
	require.NoError(t, err)

	assert.Equal(t, models.DocumentStatusUnstructured, out.Document.Status)
	assert.True(t, out.Rendered.Unstructured)
	assert.Contains(t, out.Document.HTML, "Desculpe, não consegui gerar o JSON.")
}

func TestDocumentService_GenerateFailuresMarkJob(t *testing.T) {
	t.Run("validation", func(t *testing.T) {
		f := newDocumentFixture(t, bareReply)
		req := generateRequest()
		req.CaseData.RG = ""

		_, err := f.svc.Generate(context.Background(), req)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, 0, f.gen.Calls())
		assert.Contains(t, f.jobs.failed, "rg")
		assert.Empty(t, f.docs.docs)

		for _, step := range f.jobs.failSteps {
			if step.Name == models.StepValidate {
				assert.Equal(t, "failed", step.Status)
			}
		}
	})

	t.Run("backend", func(t *testing.T) {
		f := newDocumentFixture(t, "")
		f.gen.err = errors.New("quota exceeded")

		_, err := f.svc.Generate(context.Background(), generateRequest())
		var gerr *GenerationError
		require.ErrorAs(t, err, &gerr)
		assert.Contains(t, f.jobs.failed, "quota exceeded")
	})

	t.Run("unknown agent", func(t *testing.T) {
		f := newDocumentFixture(t, bareReply)
		req := generateRequest()
		req.AgentType = "aposentadoria"

		_, err := f.svc.Generate(context.Background(), req)
		assert.ErrorIs(t, err, ErrAgentNotFound)
		assert.NotEmpty(t, f.jobs.failed)
	})

	t.Run("store", func(t *testing.T) {
		f := newDocumentFixture(t, bareReply)
		f.docs.createErr = errors.New("connection reset")

		_, err := f.svc.Generate(context.Background(), generateRequest())
		assert.ErrorContains(t, err, "failed to store document")
		assert.Contains(t, f.jobs.failed, "connection reset")
	})
}

func TestDocumentService_GenerateWithoutJobs(t *testing.T) {
	f := newDocumentFixture(t, bareReply)
	f.svc.jobs = nil

	out, err := f.svc.Generate(context.Background(), generateRequest())
	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, out.JobID)
	assert.NotEqual(t, uuid.Nil, out.Document.ID)
}

func TestDocumentService_Preview(t *testing.T) {
	f := newDocumentFixture(t, bareReply)

	doc, err := f.svc.Preview(context.Background(), PreviewRequest{
		AgentType: agent.MaternityType,
		CaseData:  testCaseData(),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, f.gen.Calls())
	assert.Contains(t, doc.HTML, render.PendingText)
	assert.Contains(t, doc.HTML, render.PendingAddress)
	assert.Contains(t, doc.HTML, "Junho/2024")
	assert.Greater(t, doc.Total, 0.0)

	_, err = f.svc.Preview(context.Background(), PreviewRequest{AgentType: "desconhecido"})
	assert.ErrorIs(t, err, ErrAgentNotFound)
}

func TestDocumentService_PreviewKeepsPartialResult(t *testing.T) {
	f := newDocumentFixture(t, bareReply)

	doc, err := f.svc.Preview(context.Background(), PreviewRequest{
		AgentType: agent.MaternityType,
		CaseData:  testCaseData(),
		Result: &models.StructuredResult{
			FactsSummary: "<p>Resumo revisado</p>",
			INSSAddress:  "APS Santarém - Av. Rui Barbosa, 100",
		},
	})
	require.NoError(t, err)
	assert.Contains(t, doc.HTML, "<p>Resumo revisado</p>")
	assert.Contains(t, doc.HTML, "APS Santarém - Av. Rui Barbosa, 100")
	assert.NotContains(t, doc.HTML, render.PendingText)
}

func TestDocumentService_GetDocumentNotFound(t *testing.T) {
	f := newDocumentFixture(t, bareReply)

	_, err := f.svc.GetDocument(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrDocumentNotFound)
}

func TestDocumentService_ExportRoundTrip(t *testing.T) {
	f := newDocumentFixture(t, bareReply)
	ctx := context.Background()

	out, err := f.svc.Generate(ctx, generateRequest())
	require.NoError(t, err)

	export, err := f.svc.Export(ctx, out.Document.ID)
	require.NoError(t, err)

	sum := blake2b.Sum256([]byte(out.Document.HTML))
	assert.Equal(t, hex.EncodeToString(sum[:]), export.Checksum)
	assert.Equal(t, "DOC-20250601120000-01AZ.html", export.Filename)
	assert.Equal(t, "text/html; charset=utf-8", export.MimeType)
	assert.Equal(t, int64(len(out.Document.HTML)), export.Size)
	assert.Equal(t, models.DocumentStatusExported, f.docs.docs[out.Document.ID].Status)

	got, rc, err := f.svc.OpenExport(ctx, export.ID)
	require.NoError(t, err)
	defer rc.Close()
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, export, got)
	assert.Equal(t, out.Document.HTML, string(body))
}

func TestDocumentService_ExportErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("no storage", func(t *testing.T) {
		svc := NewDocumentService()
		_, err := svc.Export(ctx, uuid.New())
		assert.ErrorIs(t, err, ErrStorageNotSet)
	})

	t.Run("missing document", func(t *testing.T) {
		f := newDocumentFixture(t, bareReply)
		_, err := f.svc.Export(ctx, uuid.New())
		assert.ErrorIs(t, err, ErrDocumentNotFound)
	})

	t.Run("record failure removes stored object", func(t *testing.T) {
		f := newDocumentFixture(t, bareReply)
		out, err := f.svc.Generate(ctx, generateRequest())
		require.NoError(t, err)

		f.exports.createErr = errors.New("insert failed")
		_, err = f.svc.Export(ctx, out.Document.ID)
		assert.ErrorContains(t, err, "failed to record export")
		assert.Equal(t, models.DocumentStatusGenerated, f.docs.docs[out.Document.ID].Status)
	})

	t.Run("unknown export", func(t *testing.T) {
		f := newDocumentFixture(t, bareReply)
		_, _, err := f.svc.OpenExport(ctx, uuid.New())
		assert.ErrorIs(t, err, ErrExportNotFound)
	})

	t.Run("stored bytes gone", func(t *testing.T) {
		f := newDocumentFixture(t, bareReply)
		out, err := f.svc.Generate(ctx, generateRequest())
		require.NoError(t, err)
		export, err := f.svc.Export(ctx, out.Document.ID)
		require.NoError(t, err)

		require.NoError(t, f.storage.Delete(ctx, export.StoragePath))
		_, _, err = f.svc.OpenExport(ctx, export.ID)
		assert.ErrorIs(t, err, ErrExportNotFound)
	})
}

func TestDocumentService_ListDocuments(t *testing.T) {
	f := newDocumentFixture(t, bareReply)

	docs, err := f.svc.ListDocuments(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.NotNil(t, docs)
	assert.Empty(t, docs)
	assert.Equal(t, 20, f.docs.lastLimit)

	_, err = f.svc.Generate(context.Background(), generateRequest())
	require.NoError(t, err)

	docs, err = f.svc.ListDocuments(context.Background(), 500, -1)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
	assert.Equal(t, 20, f.docs.lastLimit)

	_, err = f.svc.ListDocuments(context.Background(), 5, 0)
	require.NoError(t, err)
	assert.Equal(t, 5, f.docs.lastLimit)
}

func TestDocumentService_GetJobStatus(t *testing.T) {
	f := newDocumentFixture(t, bareReply)

	out, err := f.svc.Generate(context.Background(), generateRequest())
	require.NoError(t, err)

	job, err := f.svc.GetJobStatus(context.Background(), out.JobID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusCompleted, job.Status)
	require.NotNil(t, job.DocumentID)
	assert.Equal(t, out.Document.ID, *job.DocumentID)

	_, err = f.svc.GetJobStatus(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrJobNotFound)

	untracked := NewDocumentService()
	_, err = untracked.GetJobStatus(context.Background(), out.JobID)
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestDocumentService_ListExports(t *testing.T) {
	f := newDocumentFixture(t, bareReply)

	out, err := f.svc.Generate(context.Background(), generateRequest())
	require.NoError(t, err)

	exports, err := f.svc.ListExports(context.Background(), out.Document.ID)
	require.NoError(t, err)
	assert.NotNil(t, exports)
	assert.Empty(t, exports)

	export, err := f.svc.Export(context.Background(), out.Document.ID)
	require.NoError(t, err)

	exports, err = f.svc.ListExports(context.Background(), out.Document.ID)
	require.NoError(t, err)
	require.Len(t, exports, 1)
	assert.Equal(t, export.ID, exports[0].ID)

	_, err = f.svc.ListExports(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrDocumentNotFound)
}

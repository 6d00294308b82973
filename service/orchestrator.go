package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"ruraldraft-backend/agent"
	"ruraldraft-backend/internal/logger"
	"ruraldraft-backend/internal/metrics"
	"ruraldraft-backend/internal/telemetry"
	"ruraldraft-backend/llm"
	"ruraldraft-backend/models"
	"ruraldraft-backend/search"
)

// DefaultLegalContext is used when the knowledge base has nothing to offer.
const DefaultLegalContext = "Lei 8.213/91, CF/88, TNU/STJ."

// Fallback addresses for the INSS agency when the search cannot find one.
const (
	INSSAddressNotFound = "Endereço a ser confirmado na citação (Busca automática falhou)"
	INSSAddressFailed   = "Agência da Previdência Social (Endereço a confirmar)"
)

// KnowledgeRetriever returns reference text for a set of keywords.
type KnowledgeRetriever interface {
	Context(ctx context.Context, keywords []string) (string, error)
}

// Searcher finds the INSS agency and recent case law on the open web.
type Searcher interface {
	INSSAddress(ctx context.Context, userAddress string) (string, error)
	Jurisprudence(ctx context.Context, docType string) ([]agent.Reference, error)
}

// JurisdictionLookup resolves the federal court subsection for a city.
type JurisdictionLookup interface {
	Lookup(ctx context.Context, city, uf string) (*models.Jurisdiction, error)
}

// PriorityRules derives the statutory priorities from the case data.
type PriorityRules interface {
	Priorities(data models.CaseData, now time.Time) (models.Priorities, error)
}

// Orchestrator runs the generation pipeline: resolve, validate, calculate,
// enrich, build prompt, invoke, salvage, merge.
type Orchestrator struct {
	registry      *agent.Registry
	router        *llm.Router
	knowledge     KnowledgeRetriever
	search        Searcher
	jurisdiction  JurisdictionLookup
	rules         PriorityRules
	logger        logger.Logger
	tracer        trace.Tracer
	now           func() time.Time
	enrichTimeout time.Duration
}

// OrchestratorOption is a functional option for Orchestrator
type OrchestratorOption func(*Orchestrator)

// OrchestratorWithRegistry sets the agent registry
func OrchestratorWithRegistry(r *agent.Registry) OrchestratorOption {
	return func(o *Orchestrator) {
		o.registry = r
	}
}

// OrchestratorWithRouter sets the generation backends
func OrchestratorWithRouter(r *llm.Router) OrchestratorOption {
	return func(o *Orchestrator) {
		o.router = r
	}
}

// OrchestratorWithKnowledge sets the knowledge retriever
func OrchestratorWithKnowledge(k KnowledgeRetriever) OrchestratorOption {
	return func(o *Orchestrator) {
		o.knowledge = k
	}
}

// OrchestratorWithSearch sets the web searcher
func OrchestratorWithSearch(s Searcher) OrchestratorOption {
	return func(o *Orchestrator) {
		o.search = s
	}
}

// OrchestratorWithJurisdiction sets the jurisdiction lookup
func OrchestratorWithJurisdiction(j JurisdictionLookup) OrchestratorOption {
	return func(o *Orchestrator) {
		o.jurisdiction = j
	}
}

// OrchestratorWithPriorityRules sets the local priority rules
func OrchestratorWithPriorityRules(r PriorityRules) OrchestratorOption {
	return func(o *Orchestrator) {
		o.rules = r
	}
}

// OrchestratorWithLogger sets the logger
func OrchestratorWithLogger(l logger.Logger) OrchestratorOption {
	return func(o *Orchestrator) {
		o.logger = l
	}
}

// OrchestratorWithClock sets the clock used for age-based rules
func OrchestratorWithClock(now func() time.Time) OrchestratorOption {
	return func(o *Orchestrator) {
		o.now = now
	}
}

// OrchestratorWithEnrichTimeout bounds each enrichment lookup
func OrchestratorWithEnrichTimeout(d time.Duration) OrchestratorOption {
	return func(o *Orchestrator) {
		o.enrichTimeout = d
	}
}

// NewOrchestrator creates a new orchestrator
func NewOrchestrator(opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		now:           time.Now,
		enrichTimeout: 8 * time.Second,
		tracer:        telemetry.Tracer("ruraldraft/orchestrator"),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.logger = logger.OrNop(o.logger)
	return o
}

// GenerateRequest is one generation run. It lives only for the duration of
// Generate.
type GenerateRequest struct {
	AgentType string
	Provider  string // empty selects the router default
	DocType   string
	CaseData  models.CaseData
	// Template is the instruction template with {{placeholders}}. Empty
	// selects the default rural template for DocType.
	Template          string
	SystemInstruction string
	// OnStep, when set, is called as each pipeline step starts.
	OnStep func(step string)
}

// GenerateResult is the outcome of a successful run.
type GenerateResult struct {
	AgentType string
	Provider  string
	Prompt    string
	Raw       string
	Result    *models.StructuredResult
	// CaseData is the request case data with the backend's registration
	// corrections applied.
	CaseData models.CaseData
}

type enrichment struct {
	legalContext  string
	inssAddress   string
	inssFound     bool
	jurisprudence []agent.Reference
	jurisdiction  *models.Jurisdiction
}

// Generate runs the pipeline for req. Failures are *ValidationError,
// ErrAgentNotFound or *GenerationError; an unparseable reply is not an error
// and comes back with Result.Unstructured set.
func (o *Orchestrator) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	if o.registry == nil {
		return nil, errors.New("agent registry not set")
	}
	if o.router == nil {
		return nil, errors.New("generation router not set")
	}

	provider := req.Provider
	if provider == "" {
		provider = o.router.Default()
	}

	metrics.InFlightGenerations.Inc()
	defer metrics.InFlightGenerations.Dec()

	ctx, span := o.tracer.Start(ctx, "orchestrator.Generate", trace.WithAttributes(
		attribute.String("agent.type", req.AgentType),
		attribute.String("llm.provider", provider),
	))
	defer span.End()

	log := o.logger.WithFields(map[string]interface{}{
		"agent_type": req.AgentType,
		"provider":   provider,
	})

	// 1. Resolve
	o.step(req, models.StepResolve)
	a, err := o.registry.Get(req.AgentType)
	if err != nil {
		metrics.GenerationRequests.WithLabelValues(req.AgentType, provider, metrics.OutcomeNotFound).Inc()
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	// 2. Validate
	o.step(req, models.StepValidate)
	if missing := a.Validate(req.CaseData); len(missing) > 0 {
		metrics.GenerationRequests.WithLabelValues(req.AgentType, provider, metrics.OutcomeInvalid).Inc()
		log.Info("case data failed validation", map[string]interface{}{
			"missing": missing,
		})
		verr := &ValidationError{AgentType: req.AgentType, Missing: missing}
		span.SetStatus(codes.Error, verr.Error())
		return nil, verr
	}

	// 3. Calculate
	o.step(req, models.StepCalculate)
	var calc *agent.Calculation
	if c, ok := a.(agent.Calculator); ok {
		calc, err = c.Calculate(req.CaseData)
		if err != nil {
			log.Warn("local calculation failed, continuing without payment table", map[string]interface{}{
				"error": err.Error(),
			})
			calc = nil
		}
	}

	// 4. Enrich
	o.step(req, models.StepEnrich)
	enr := o.enrich(ctx, req, log)

	// 5. Build prompt
	o.step(req, models.StepPrompt)
	vars := agent.Variables{
		ClientName:    req.CaseData.Name,
		DocType:       req.DocType,
		Details:       req.CaseData.Details,
		INSSAddress:   enr.inssAddress,
		LegalContext:  enr.legalContext,
		Jurisprudence: enr.jurisprudence,
	}
	if calc != nil {
		vars.PaymentTable = calc.PaymentTable
	}
	tmpl := req.Template
	if strings.TrimSpace(tmpl) == "" {
		tmpl = agent.DefaultTemplate(req.DocType)
	}
	prompt := agent.BuildFullPrompt(a, tmpl, vars)
	if si := strings.TrimSpace(req.SystemInstruction); si != "" {
		prompt = si + "\n\n" + prompt
	}

	// 6. Invoke
	o.step(req, models.StepInvoke)
	raw, err := o.invoke(ctx, provider, prompt)
	if err != nil {
		metrics.GenerationRequests.WithLabelValues(req.AgentType, provider, metrics.OutcomeFailed).Inc()
		log.Error("generation backend failed", map[string]interface{}{
			"error": err.Error(),
		})
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	// 7. Salvage
	o.step(req, models.StepSalvage)
	res, doc, badFields, ok := salvage(raw)
	if !ok {
		metrics.SalvageFailures.WithLabelValues(req.AgentType).Inc()
		log.Warn("backend reply is not a JSON object, returning it unstructured", map[string]interface{}{
			"reply_length": len(raw),
		})
	} else {
		for _, f := range badFields {
			res.SchemaWarnings = append(res.SchemaWarnings, fmt.Sprintf("%s: could not be decoded", f))
		}
		res.SchemaWarnings = append(res.SchemaWarnings, schemaWarnings(a.Schema(), doc)...)
		if len(res.SchemaWarnings) > 0 {
			metrics.SchemaWarnings.WithLabelValues(req.AgentType).Inc()
			log.Warn("backend reply does not match the agent schema", map[string]interface{}{
				"warnings": res.SchemaWarnings,
			})
		}
	}

	// 8. Merge
	o.step(req, models.StepMerge)
	o.merge(res, calc, enr, req.CaseData, log)

	outcome := metrics.OutcomeSuccess
	if res.Unstructured {
		outcome = metrics.OutcomeUnstructured
	}
	metrics.GenerationRequests.WithLabelValues(req.AgentType, provider, outcome).Inc()
	span.SetAttributes(attribute.Bool("result.unstructured", res.Unstructured))

	return &GenerateResult{
		AgentType: req.AgentType,
		Provider:  provider,
		Prompt:    prompt,
		Raw:       raw,
		Result:    res,
		CaseData:  req.CaseData.WithRegistration(res.Registration),
	}, nil
}

// Preview merges the local calculations and priority rules into partial
// without calling the backend or any enrichment source. Validation is not
// enforced so incomplete forms can be previewed.
func (o *Orchestrator) Preview(agentType string, data models.CaseData, partial *models.StructuredResult) (*models.StructuredResult, error) {
	if o.registry == nil {
		return nil, errors.New("agent registry not set")
	}

	a, err := o.registry.Get(agentType)
	if err != nil {
		return nil, err
	}

	res := &models.StructuredResult{}
	if partial != nil {
		*res = *partial
	}

	log := o.logger.WithFields(map[string]interface{}{"agent_type": agentType})
	var calc *agent.Calculation
	if c, ok := a.(agent.Calculator); ok {
		if calc, err = c.Calculate(data); err != nil {
			log.Debug("preview without payment table", map[string]interface{}{
				"error": err.Error(),
			})
			calc = nil
		}
	}

	o.merge(res, calc, enrichment{inssAddress: res.INSSAddress}, data, log)
	return res, nil
}

func (o *Orchestrator) step(req GenerateRequest, name string) {
	if req.OnStep != nil {
		req.OnStep(name)
	}
}

func (o *Orchestrator) invoke(ctx context.Context, provider, prompt string) (string, error) {
	ctx, span := o.tracer.Start(ctx, "orchestrator.invoke")
	defer span.End()

	gen, err := o.router.Get(provider)
	if err != nil {
		return "", &GenerationError{Provider: provider, Err: err}
	}

	start := time.Now()
	raw, err := gen.Generate(ctx, prompt)
	metrics.GenerationDuration.WithLabelValues(provider).Observe(time.Since(start).Seconds())
	if err != nil {
		return "", &GenerationError{Provider: provider, Err: err}
	}
	return raw, nil
}

// enrich runs the best-effort lookups concurrently. None of them can fail
// the request.
func (o *Orchestrator) enrich(ctx context.Context, req GenerateRequest, log logger.Logger) enrichment {
	ctx, span := o.tracer.Start(ctx, "orchestrator.enrich")
	defer span.End()

	enr := enrichment{legalContext: DefaultLegalContext}
	g, gctx := errgroup.WithContext(ctx)

	if o.knowledge != nil {
		g.Go(func() error {
			lctx, cancel := context.WithTimeout(gctx, o.enrichTimeout)
			defer cancel()
			text, err := o.knowledge.Context(lctx, Keywords(req.DocType))
			if err != nil || strings.TrimSpace(text) == "" {
				o.fallback("knowledge", err, log)
				return nil
			}
			enr.legalContext = text
			return nil
		})
	} else {
		o.fallback("knowledge", nil, log)
	}

	if o.search != nil {
		g.Go(func() error {
			lctx, cancel := context.WithTimeout(gctx, o.enrichTimeout)
			defer cancel()
			addr, err := o.search.INSSAddress(lctx, req.CaseData.Address)
			switch {
			case err == nil:
				enr.inssAddress = addr
				enr.inssFound = true
			case errors.Is(err, search.ErrNoResult):
				o.fallback("inss_address", err, log)
				enr.inssAddress = INSSAddressNotFound
			default:
				o.fallback("inss_address", err, log)
				enr.inssAddress = INSSAddressFailed
			}
			return nil
		})
		g.Go(func() error {
			lctx, cancel := context.WithTimeout(gctx, o.enrichTimeout)
			defer cancel()
			refs, err := o.search.Jurisprudence(lctx, req.DocType)
			if err != nil {
				o.fallback("jurisprudence", err, log)
				return nil
			}
			enr.jurisprudence = refs
			return nil
		})
	}

	if o.jurisdiction != nil && req.CaseData.City != "" && req.CaseData.State != "" {
		g.Go(func() error {
			lctx, cancel := context.WithTimeout(gctx, o.enrichTimeout)
			defer cancel()
			j, err := o.jurisdiction.Lookup(lctx, req.CaseData.City, req.CaseData.State)
			if err != nil {
				o.fallback("jurisdiction", err, log)
				return nil
			}
			enr.jurisdiction = j
			return nil
		})
	}

	_ = g.Wait()
	return enr
}

func (o *Orchestrator) fallback(source string, err error, log logger.Logger) {
	metrics.EnrichmentFallbacks.WithLabelValues(source).Inc()
	fields := map[string]interface{}{"source": source}
	if err != nil {
		fields["error"] = err.Error()
	}
	log.Warn("enrichment lookup unavailable, using fallback", fields)
}

// merge overlays the salvaged result with the locally known values. Local
// money fields always win over the backend's.
func (o *Orchestrator) merge(res *models.StructuredResult, calc *agent.Calculation, enr enrichment, data models.CaseData, log logger.Logger) {
	if calc != nil {
		res.PaymentTable = calc.PaymentTable
		res.ClaimValue = models.NewAmount(calc.Total)
		res.ClaimValueInWords = calc.TotalInWords
	}

	if enr.inssFound || res.INSSAddress == "" {
		res.INSSAddress = enr.inssAddress
	}

	if len(res.Precedents) == 0 && len(enr.jurisprudence) > 0 {
		res.Precedents = precedentsFromReferences(enr.jurisprudence, 3)
	}

	if enr.jurisdiction != nil {
		res.Jurisdiction = enr.jurisdiction
	}
	if res.CityUF == "" && data.City != "" {
		res.CityUF = strings.TrimSpace(data.City)
		if data.State != "" {
			res.CityUF += "-" + strings.ToUpper(strings.TrimSpace(data.State))
		}
	}

	if o.rules != nil {
		local, err := o.rules.Priorities(data, o.now())
		if err != nil {
			log.Warn("priority rules failed", map[string]interface{}{
				"error": err.Error(),
			})
			return
		}
		res.Priorities.Elderly = res.Priorities.Elderly || local.Elderly
		res.Priorities.Disabled = res.Priorities.Disabled || local.Disabled
		res.Priorities.Minor = res.Priorities.Minor || local.Minor
	}
}

func precedentsFromReferences(refs []agent.Reference, limit int) []models.Precedent {
	out := make([]models.Precedent, 0, limit)
	for _, r := range refs {
		if len(out) == limit {
			break
		}
		p := models.Precedent{
			Court:     r.Title,
			Summary:   r.Snippet,
			Reference: r.Link,
		}
		if p.Court == "" {
			p.Court = "Tribunal Superior"
		}
		if p.Summary == "" {
			p.Summary = "Conteúdo indisponível"
		}
		if p.Reference == "" {
			p.Reference = "Fonte não informada"
		}
		out = append(out, p)
	}
	return out
}

// Keywords derives the knowledge-base tags for a document type: its words
// plus the domain terms, keeping only words longer than three letters.
func Keywords(docType string) []string {
	words := append(strings.Split(strings.ToLower(docType), " "), "rural", "salario", "maternidade")
	out := make([]string, 0, len(words))
	for _, w := range words {
		if utf8.RuneCountInString(w) > 3 {
			out = append(out, w)
		}
	}
	return out
}

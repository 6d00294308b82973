// Package render turns a merged generation result and the claimant's case
// data into the final petition HTML.
package render

import (
	"bytes"
	"crypto/rand"
	"fmt"
	"html"
	"html/template"
	"io"
	"strings"
	"time"

	"ruraldraft-backend/agent"
	"ruraldraft-backend/internal/logger"
	"ruraldraft-backend/models"
	"ruraldraft-backend/ptbr"
)

// Placeholder texts shown before the backend has produced a section.
const (
	PendingText       = "[Aguardando geração do texto]"
	PendingAddress    = "Endereço não localizado"
	PendingEmail      = "..."
	DefaultProfession = "Agricultora"
	DefaultChildName  = "João de Tal"
	DefaultAuthor     = "Sistema"
)

const defaultPreliminaries = `<p>Requer a parte Autora os benefícios da gratuidade da justiça, com fulcro no art. 5º, Inciso LXXIV da CF/88 e nos termos da Lei 1.060/50, haja vista declarar-se pobre na forma da lei, não podendo custear a máquina jurisdicional sem prejuízo de seu sustento e o da sua família.</p>`

var funcs = template.FuncMap{
	"upper": strings.ToUpper,
	"date":  ptbr.FormatDate,
	"inc":   func(i int) int { return i + 1 },
	"check": func(v bool) template.HTML {
		if v {
			return "X"
		}
		return "&nbsp;&nbsp;"
	},
}

var maternityTemplate = template.Must(template.New(agent.MaternityType).Funcs(funcs).Parse(maternitySource))

// Input is everything a petition is rendered from. A nil Result renders a
// preview with placeholders.
type Input struct {
	AgentType   string
	Result      *models.StructuredResult
	CaseData    models.CaseData
	Signers     []models.Signer
	Office      *models.Office // overrides the renderer default when set
	GeneratedBy string
}

// Document is a rendered petition.
type Document struct {
	ID           string    `json:"id"`
	HTML         string    `json:"html"`
	Total        float64   `json:"total"`
	TotalInWords string    `json:"total_in_words"`
	GeneratedAt  time.Time `json:"generated_at"`
	Unstructured bool      `json:"unstructured,omitempty"`
}

// Renderer renders petitions. It is safe for concurrent use.
type Renderer struct {
	office    *models.Office
	templates map[string]*template.Template
	fallback  *template.Template
	logger    logger.Logger
	now       func() time.Time
	random    io.Reader
}

// Option is a functional option for Renderer
type Option func(*Renderer)

// WithOffice sets the default letterhead
func WithOffice(o *models.Office) Option {
	return func(r *Renderer) {
		r.office = o
	}
}

// WithTemplate registers the template used for an agent type
func WithTemplate(agentType string, t *template.Template) Option {
	return func(r *Renderer) {
		r.templates[agentType] = t
	}
}

// WithLogger sets the logger
func WithLogger(l logger.Logger) Option {
	return func(r *Renderer) {
		r.logger = l
	}
}

// WithClock sets the clock used for ages, dates and document ids
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) {
		r.now = now
	}
}

// WithRandom sets the source of the document id suffix
func WithRandom(src io.Reader) Option {
	return func(r *Renderer) {
		r.random = src
	}
}

// New creates a renderer with the rural maternity template registered.
// Unknown agent types fall back to it.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		templates: map[string]*template.Template{agent.MaternityType: maternityTemplate},
		fallback:  maternityTemplate,
		now:       time.Now,
		random:    rand.Reader,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = logger.OrNop(r.logger)
	return r
}

// Render produces the petition. Rendering never fails: missing values fall
// back to placeholders and an unstructured result renders an error block
// holding the raw reply.
func (r *Renderer) Render(in Input) *Document {
	now := r.now()
	doc := &Document{
		ID:          r.documentID(now),
		GeneratedAt: now,
	}

	res := in.Result
	if res == nil {
		res = &models.StructuredResult{}
	}
	if res.Unstructured {
		doc.Unstructured = true
		doc.HTML = ErrorBlock(res.FactsSummary)
		return doc
	}

	v := r.view(in, res, now)
	v.DocumentID = doc.ID
	doc.Total = v.total
	doc.TotalInWords = v.TotalInWords

	tmpl, ok := r.templates[in.AgentType]
	if !ok {
		tmpl = r.fallback
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, v); err != nil {
		r.logger.Error("failed to execute petition template", map[string]interface{}{
			"agent_type": in.AgentType,
			"error":      err.Error(),
		})
		doc.HTML = ErrorBlock(err.Error())
		return doc
	}
	doc.HTML = buf.String()
	return doc
}

// ErrorBlock is shown in place of the petition when the backend reply could
// not be structured.
func ErrorBlock(raw string) string {
	return fmt.Sprintf(`<div style="padding:20px; color:red;"><h3>Erro na Formatação Automática</h3><p>Ocorreu um erro ao processar a resposta da IA.</p><pre>%s</pre></div>`,
		html.EscapeString(raw))
}

const idAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// documentID returns "DOC-<yyyymmddhhmmss>-<4 chars>".
func (r *Renderer) documentID(now time.Time) string {
	suffix := make([]byte, 4)
	if _, err := io.ReadFull(r.random, suffix); err != nil {
		r.logger.Warn("random source failed, using clock for document id", map[string]interface{}{
			"error": err.Error(),
		})
		n := now.UnixNano()
		for i := range suffix {
			suffix[i] = byte(n >> (8 * i))
		}
	}
	for i, b := range suffix {
		suffix[i] = idAlphabet[int(b)%len(idAlphabet)]
	}
	return fmt.Sprintf("DOC-%s-%s", now.UTC().Format("20060102150405"), suffix)
}

package web

import (
	"encoding/json"
	stderrors "errors"
	"html/template"
	"mime"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/hpungsan/voc/internal/analysis"
	"github.com/hpungsan/voc/internal/config"
	"github.com/hpungsan/voc/internal/errors"
	"github.com/hpungsan/voc/internal/ops"
	"github.com/hpungsan/voc/internal/report"
)

// ReportFilename is the attachment name of downloaded reports.
const ReportFilename = "comment_analysis_report.md"

// Handlers contains HTTP route handlers for the web UI and JSON API.
type Handlers struct {
	engine   *analysis.Engine
	cfg      *config.Config
	logger   *zap.Logger
	renderer *Renderer
}

// analyzeRequest is the JSON body accepted by the API routes.
type analyzeRequest struct {
	Text     string   `json:"text,omitempty"`
	Comments []string `json:"comments,omitempty"`
	Workers  int      `json:"workers,omitempty"`
}

// HandleIndex handles GET /, the comment input form.
func (h *Handlers) HandleIndex(w http.ResponseWriter, r *http.Request) {
	data := IndexPageData{
		PageData:        h.renderer.page("评论分析"),
		MaxComments:     h.cfg.MaxComments,
		MaxCommentChars: h.cfg.MaxCommentChars,
	}
	if r.URL.Query().Get("sample") == "1" {
		data.Text = ops.SampleText()
	}
	h.renderer.renderPage(w, "index", data)
}

// HandleAnalyze handles POST /analyze: form submit, rendered HTML report.
func (h *Handlers) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	in, err := h.readInput(w, r)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	result, err := h.analyze(r, in)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	summary, detail, _ := report.Split(result.Report)
	summaryHTML, err := report.HTML(summary)
	if err != nil {
		h.renderer.renderError(w, r, errors.NewInternal(err))
		return
	}
	detailHTML, err := report.HTML(detail)
	if err != nil {
		h.renderer.renderError(w, r, errors.NewInternal(err))
		return
	}

	tax := h.engine.Taxonomy()
	urgent := 0
	for _, rec := range result.Records {
		if rank, ok := tax.UrgencyRank(rec.Urgency); ok && rank == 0 {
			urgent++
		}
	}

	h.renderer.renderPage(w, "result", ResultPageData{
		PageData: h.renderer.page("分析报告"),
		Result:   result,
		Text:     in.Text,
		Valid:    result.Total - result.Invalid,
		Urgent:   urgent,
		Summary:  template.HTML(summaryHTML),
		Detail:   template.HTML(detailHTML),
	})
}

// HandleAPIAnalyze handles POST /api/analyze with the full result as JSON.
func (h *Handlers) HandleAPIAnalyze(w http.ResponseWriter, r *http.Request) {
	in, err := h.readInput(w, r)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	result, err := h.analyze(r, in)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusOK, result)
}

// HandleAPIReport handles POST /api/report, returning the markdown report as a download.
func (h *Handlers) HandleAPIReport(w http.ResponseWriter, r *http.Request) {
	in, err := h.readInput(w, r)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	result, err := h.analyze(r, in)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": ReportFilename}))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(result.Report))
}

// HandleAPITaxonomy handles GET /api/taxonomy.
func (h *Handlers) HandleAPITaxonomy(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, http.StatusOK, ops.DescribeTaxonomy(h.engine))
}

// HandleHealth handles GET /healthz.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, http.StatusOK, map[string]any{"status": "ok", "version": h.renderer.version})
}

func (h *Handlers) analyze(r *http.Request, in ops.AnalyzeInput) (*ops.AnalyzeOutput, error) {
	start := time.Now()
	result, err := ops.Analyze(r.Context(), h.engine, h.cfg, in)
	if err != nil {
		return nil, err
	}
	h.logger.Info("batch analyzed",
		zap.String("run_id", result.RunID),
		zap.Int("total", result.Total),
		zap.Int("invalid", result.Invalid),
		zap.Duration("elapsed", time.Since(start)),
	)
	return result, nil
}

// readInput decodes a JSON body or a form with a "comments" textarea.
func (h *Handlers) readInput(w http.ResponseWriter, r *http.Request) (ops.AnalyzeInput, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var req analyzeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return ops.AnalyzeInput{}, bodyError(err, "invalid JSON body")
		}
		return ops.AnalyzeInput{Text: req.Text, Comments: req.Comments, Workers: req.Workers}, nil
	}

	if err := r.ParseForm(); err != nil {
		return ops.AnalyzeInput{}, bodyError(err, "invalid form data")
	}
	return ops.AnalyzeInput{Text: r.PostFormValue("comments")}, nil
}

func bodyError(err error, msg string) error {
	var tooBig *http.MaxBytesError
	if stderrors.As(err, &tooBig) {
		return errors.NewInvalidRequest("request body too large")
	}
	return errors.NewInvalidRequest(msg)
}

// Package web serves the analysis page and the JSON API routes.
package web

import (
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fraudlens/fraudlens-go/internal/address"
	"github.com/fraudlens/fraudlens-go/internal/analysis"
	"github.com/fraudlens/fraudlens-go/internal/present"
	"github.com/fraudlens/fraudlens-go/internal/ratelimit"
	"github.com/fraudlens/fraudlens-go/internal/scoring"
)

//go:embed templates/*.html
var templateFS embed.FS

// Handler owns all HTTP routes: the server-rendered page plus the JSON
// passthrough API mirroring the scoring service's own surface.
type Handler struct {
	controller *analysis.Controller
	client     *scoring.Client
	watcher    *scoring.Watcher
	limiter    *ratelimit.Limiter
	logger     *slog.Logger
	tmpl       *template.Template
}

// NewHandler creates the handler with the embedded page template.
func NewHandler(
	controller *analysis.Controller,
	client *scoring.Client,
	watcher *scoring.Watcher,
	limiter *ratelimit.Limiter,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		controller: controller,
		client:     client,
		watcher:    watcher,
		limiter:    limiter,
		logger:     logger,
		tmpl:       template.Must(template.ParseFS(templateFS, "templates/*.html")),
	}
}

// pageData is what the page template renders. Result is nil unless the last
// attempt succeeded, and the template omits the whole result card then.
type pageData struct {
	Address          string
	Loading          bool
	Error            string
	Result           *present.ResultView
	ServiceReachable bool
	ServiceChecked   bool
}

// Index handles GET / — the form plus whatever state the controller is in.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w)
}

// AnalyzeForm handles POST /analyze — the page's form submission. The attempt
// runs to its terminal state before the page is rendered back.
func (h *Handler) AnalyzeForm(w http.ResponseWriter, r *http.Request) {
	if h.limiter.Check(w, r, "analyze") {
		return
	}
	h.controller.Submit(r.Context(), r.FormValue("address"))
	h.renderPage(w)
}

func (h *Handler) renderPage(w http.ResponseWriter) {
	snap := h.controller.Snapshot()
	reachable, checked := h.watcher.Status()

	data := pageData{
		Address:          snap.Address,
		Loading:          snap.Phase == analysis.PhaseLoading,
		Error:            snap.Err,
		ServiceReachable: reachable,
		ServiceChecked:   checked,
	}
	if snap.Phase == analysis.PhaseSucceeded {
		view := present.Build(snap.Result)
		data.Result = &view
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.tmpl.ExecuteTemplate(w, "page.html", data); err != nil {
		h.logger.Error("render page failed", "err", err)
	}
}

// APIAnalyze handles POST /api/analyze — JSON passthrough to the scoring
// service, with the same local pre-validation the service applies.
func (h *Handler) APIAnalyze(w http.ResponseWriter, r *http.Request) {
	if h.limiter.Check(w, r, "api") {
		return
	}

	var req struct {
		Address *string `json:"address"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Address == nil {
		jsonError(w, "Missing address in request body", http.StatusBadRequest)
		return
	}

	h.forwardAnalyze(w, r, *req.Address)
}

// APIAnalyzeGet handles GET /api/analyze/{address}.
func (h *Handler) APIAnalyzeGet(w http.ResponseWriter, r *http.Request) {
	if h.limiter.Check(w, r, "api") {
		return
	}
	h.forwardAnalyze(w, r, chi.URLParam(r, "address"))
}

func (h *Handler) forwardAnalyze(w http.ResponseWriter, r *http.Request, raw string) {
	addr, err := address.Validate(raw)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.client.Analyze(r.Context(), addr)
	if err != nil {
		var svcErr *scoring.ServiceError
		if errors.As(err, &svcErr) {
			msg := svcErr.Message
			if msg == "" {
				msg = analysis.MsgAnalyzeFailed
			}
			jsonError(w, msg, svcErr.StatusCode)
			return
		}
		jsonError(w, analysis.MsgServiceUnreachable, http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// Healthz handles GET /healthz — gateway liveness plus upstream reachability.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	reachable, checked := h.watcher.Status()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":            "ok",
		"scoring_reachable": reachable,
		"scoring_checked":   checked,
	})
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

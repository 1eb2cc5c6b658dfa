package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"fleetrank/internal/config"
	apierrors "fleetrank/internal/errors"
	"fleetrank/internal/ranking"
)

// RecordPayload is one telemetry record in a request body.
type RecordPayload struct {
	EntityID string  `json:"entity_id" validate:"required"`
	AreaID   string  `json:"area_id" validate:"required"`
	Date     string  `json:"date" validate:"required"`
	Value    float64 `json:"value"`
}

// RankingRequest asks for one ranking run over the posted records.
type RankingRequest struct {
	Records    []RecordPayload `json:"records" validate:"required,min=1,dive"`
	WindowDays int             `json:"window_days" validate:"omitempty,gte=1"`
}

// ComparisonRequest asks for two independent runs and their
// distributional comparison.
type ComparisonRequest struct {
	LeftDomain   string          `json:"left_domain" validate:"required"`
	RightDomain  string          `json:"right_domain" validate:"required"`
	LeftRecords  []RecordPayload `json:"left_records" validate:"required,min=1,dive"`
	RightRecords []RecordPayload `json:"right_records" validate:"required,min=1,dive"`
	WindowDays   int             `json:"window_days" validate:"omitempty,gte=1"`
}

// RankingHandler serves ranking runs over HTTP.
type RankingHandler struct {
	cfg      *config.Config
	logger   *slog.Logger
	metrics  *Metrics
	validate *validator.Validate
}

// NewRankingHandler creates a handler bound to the application config.
func NewRankingHandler(cfg *config.Config, logger *slog.Logger, metrics *Metrics) *RankingHandler {
	return &RankingHandler{
		cfg:      cfg,
		logger:   logger.With(slog.String("handler", "ranking")),
		metrics:  metrics,
		validate: validator.New(),
	}
}

// Run handles POST /api/v1/rankings/{domain}
func (h *RankingHandler) Run(w http.ResponseWriter, r *http.Request) {
	domain := ranking.Domain(chi.URLParam(r, "domain"))

	var req RankingRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		apierrors.RenderError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		apierrors.RenderError(w, r, apierrors.NewWithDetails(http.StatusBadRequest,
			"VALIDATION_FAILED", "Request validation failed", err.Error()))
		return
	}

	table, err := h.runDomain(r, domain, req.Records, req.WindowDays)
	if err != nil {
		apierrors.RenderError(w, r, err)
		return
	}

	render.JSON(w, r, table)
}

// Compare handles POST /api/v1/comparison
func (h *RankingHandler) Compare(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ComparisonRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		apierrors.RenderError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		apierrors.RenderError(w, r, apierrors.NewWithDetails(http.StatusBadRequest,
			"VALIDATION_FAILED", "Request validation failed", err.Error()))
		return
	}

	left, err := h.runDomain(r, ranking.Domain(req.LeftDomain), req.LeftRecords, req.WindowDays)
	if err != nil {
		apierrors.RenderError(w, r, err)
		return
	}
	right, err := h.runDomain(r, ranking.Domain(req.RightDomain), req.RightRecords, req.WindowDays)
	if err != nil {
		apierrors.RenderError(w, r, err)
		return
	}

	engineCfg, err := h.cfg.EngineConfigFor(ranking.Domain(req.LeftDomain))
	if err != nil {
		apierrors.RenderError(w, r, apierrors.UnknownDomainError(req.LeftDomain))
		return
	}

	result := ranking.Compare(left, right, engineCfg.CategoryNames())

	h.logger.InfoContext(ctx, "comparison completed",
		slog.String("left_domain", req.LeftDomain),
		slog.String("right_domain", req.RightDomain),
		slog.Int("left_entities", len(left.Entries)),
		slog.Int("right_entities", len(right.Entries)),
	)

	render.JSON(w, r, result)
}

// runDomain resolves the domain config, parses the payload and executes
// one engine run, updating the run metrics.
func (h *RankingHandler) runDomain(r *http.Request, domain ranking.Domain, payload []RecordPayload, windowDays int) (*ranking.RankingTable, error) {
	ctx := r.Context()

	engineCfg, err := h.cfg.EngineConfigFor(domain)
	if err != nil {
		return nil, apierrors.UnknownDomainError(string(domain))
	}
	if windowDays > 0 {
		engineCfg.WindowDays = windowDays
	}

	records, err := parseRecords(payload)
	if err != nil {
		return nil, apierrors.InvalidRequestWithError(err)
	}

	engine, err := ranking.NewEngine(engineCfg, h.logger)
	if err != nil {
		return nil, apierrors.RankingFailedError(err)
	}

	start := time.Now()
	table, err := engine.Run(ctx, records)
	if err != nil {
		h.metrics.RunsTotal.WithLabelValues(string(domain), "error").Inc()
		return nil, apierrors.RankingFailedError(err)
	}

	h.metrics.RunsTotal.WithLabelValues(string(domain), "ok").Inc()
	h.metrics.RunDuration.WithLabelValues(string(domain)).Observe(time.Since(start).Seconds())
	h.metrics.EntitiesRanked.WithLabelValues(string(domain)).Set(float64(len(table.Entries)))

	return table, nil
}

func parseRecords(payload []RecordPayload) ([]ranking.MetricRecord, error) {
	records := make([]ranking.MetricRecord, 0, len(payload))
	for i, p := range payload {
		date, err := parseDate(p.Date)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		records = append(records, ranking.MetricRecord{
			EntityID: p.EntityID,
			AreaID:   p.AreaID,
			Date:     date,
			Value:    p.Value,
		})
	}
	return records, nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD or RFC 3339)", s)
}

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/omergulen/mortgage-simulator/internal/config"
	"github.com/omergulen/mortgage-simulator/internal/store"
	"github.com/omergulen/mortgage-simulator/pkg/comparison"
	"github.com/omergulen/mortgage-simulator/pkg/constants"
	"github.com/omergulen/mortgage-simulator/pkg/etf"
	"github.com/omergulen/mortgage-simulator/pkg/loans"
	"github.com/omergulen/mortgage-simulator/pkg/output"
	"go.uber.org/zap"
)

// SetStore persists scenario sets. *store.Store implements it.
type SetStore interface {
	Save(ctx context.Context, rec store.SetRecord) (store.SetRecord, error)
	Get(ctx context.Context, id string) (store.SetRecord, error)
	List(ctx context.Context) ([]store.SetRecord, error)
	Delete(ctx context.Context, id string) error
}

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	version       string
	sets          SetStore
	comparator    *comparison.Comparator
	projector     *etf.Projector
	generator     *loans.AmortizationScheduleGenerator
}

// NewHandler constructs the HTTP handler that serves the simulation API.
// Scenario set routes are only mounted when sets is non-nil.
func NewHandler(logger *zap.Logger, cfg *Config, sets SetStore, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg == nil {
		cfg = &Config{}
	}

	maxUploadSize := cfg.UploadSizeBytes()
	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:        logger,
		maxUploadSize: maxUploadSize,
		version:       trimmedVersion,
		sets:          sets,
		comparator:    comparison.NewComparator(logger, constants.DefaultCompareWorkers),
		projector:     etf.NewProjector(logger),
		generator:     loans.NewAmortizationScheduleGenerator(logger),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		ExposedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.handleHealth)
		r.Get("/version", h.handleVersion)

		r.Post("/amortize", h.handleAmortize)
		r.Post("/etf", h.handleETF)
		r.Post("/combinations", h.handleCombinations)
		r.Post("/compare", h.handleCompare)

		r.Post("/import", h.handleImport)
		r.Post("/import/scenarios", h.handleImportScenarios)
		r.Post("/export", h.handleConfigExport)

		if sets != nil {
			r.Route("/scenario-sets", func(r chi.Router) {
				r.Get("/", h.handleListSets)
				r.Post("/", h.handleSaveSet)
				r.Get("/{id}", h.handleGetSet)
				r.Delete("/{id}", h.handleDeleteSet)
				r.Post("/{id}/compare", h.handleCompareSet)
			})
		}
	})

	return r
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			logger.Debug("request served",
				zap.String("op", "server.requestLogger"),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.String("requestID", middleware.GetReqID(r.Context())),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}

type amortizeRequest struct {
	Name  string          `json:"name"`
	Loan  loans.LoanTerms `json:"loan"`
	Years int             `json:"years"`
}

type amortizeResponse struct {
	Schedule    loans.Schedule      `json:"schedule"`
	Yearly      []loans.YearSummary `json:"yearly"`
	PaidOff     bool                `json:"paidOff"`
	PayoffYears float64             `json:"payoffYears"`
}

type etfRequest struct {
	Initial      float64 `json:"initial"`
	Monthly      float64 `json:"monthly"`
	AnnualReturn float64 `json:"annualReturn"`
	Years        int     `json:"years"`
	Strategy     string  `json:"strategy"`
}

type combinationsRequest struct {
	Scenarios []comparison.Scenario `json:"scenarios"`
	Options   comparison.Options    `json:"options"`
}

type compareResponse struct {
	Results    []comparison.Result `json:"results"`
	Ranking    []string            `json:"ranking"`
	Warnings   []string            `json:"warnings,omitempty"`
	CSV        string              `json:"csv"`
	Duration   string              `json:"duration"`
	ConfigYAML string              `json:"configYaml,omitempty"`
}

type saveSetRequest struct {
	ID         string                `json:"id"`
	Name       string                `json:"name"`
	Config     *config.Configuration `json:"config"`
	ConfigYAML string                `json:"configYaml"`
}

type setResponse struct {
	store.SetRecord
	Parsed *config.Configuration `json:"config,omitempty"`
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"status": "ok"}
	if pinger, ok := h.sets.(interface{ Ping(context.Context) error }); ok {
		if err := pinger.Ping(r.Context()); err != nil {
			h.respondErrorWithOp(w, http.StatusServiceUnavailable, fmt.Sprintf("database unavailable: %v", err), "server.handleHealth")
			return
		}
		status["database"] = "ok"
	}
	h.writeJSON(w, http.StatusOK, status)
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleAmortize(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleAmortize"

	var req amortizeRequest
	if !h.decodeJSON(w, r, &req, op) {
		return
	}
	if req.Loan.Principal <= 0 {
		h.respondErrorWithOp(w, http.StatusBadRequest, "loan.principal must be positive", op)
		return
	}
	if req.Loan.MonthlyPayment < 0 || req.Loan.ExtraYearly < 0 {
		h.respondErrorWithOp(w, http.StatusBadRequest, "loan.monthlyPayment and loan.extraYearly must not be negative", op)
		return
	}
	if req.Years <= 0 {
		req.Years = constants.PayoffHorizonYears
	}
	if req.Name == "" {
		req.Name = "loan"
	}

	schedule := h.generator.GenerateSchedule(req.Name, req.Loan, req.Years)
	h.writeJSON(w, http.StatusOK, amortizeResponse{
		Schedule:    schedule,
		Yearly:      schedule.Yearly(),
		PaidOff:     schedule.PaidOff(),
		PayoffYears: loans.PayoffYears(req.Loan),
	})
}

func (h *handler) handleETF(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleETF"

	var req etfRequest
	if !h.decodeJSON(w, r, &req, op) {
		return
	}
	if req.Strategy == "" {
		req.Strategy = config.DefaultStrategy
	}
	strategy, err := etf.ParseStrategy(req.Strategy)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	if req.Years < 0 || req.Initial < 0 || req.Monthly < 0 {
		h.respondErrorWithOp(w, http.StatusBadRequest, "years, initial and monthly must not be negative", op)
		return
	}
	if req.AnnualReturn <= -constants.PercentageMultiplier {
		h.respondErrorWithOp(w, http.StatusBadRequest, "annualReturn must be above -100", op)
		return
	}

	h.writeJSON(w, http.StatusOK, h.projector.Project(req.Initial, req.Monthly, req.AnnualReturn, req.Years, strategy))
}

func (h *handler) handleCombinations(w http.ResponseWriter, r *http.Request) {
	var req combinationsRequest
	if !h.decodeJSON(w, r, &req, "server.handleCombinations") {
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"combinations": comparison.GenerateCombinations(req.Scenarios, req.Options),
	})
}

func (h *handler) handleCompare(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCompare"
	start := time.Now()

	var cfg config.Configuration
	if !h.decodeJSON(w, r, &cfg, op) {
		return
	}
	cfg.Normalize()

	h.runComparison(w, r, &cfg, start, op)
}

func (h *handler) runComparison(w http.ResponseWriter, r *http.Request, cfg *config.Configuration, start time.Time, op string) {
	if err := cfg.Validate(); err != nil {
		h.respondFor(w, err, op)
		return
	}
	req, err := cfg.ComparisonRequest()
	if err != nil {
		h.respondFor(w, err, op)
		return
	}

	results, err := h.comparator.Compare(r.Context(), req)
	if err != nil {
		h.respondFor(w, err, op)
		return
	}

	ranked := comparison.Rank(results)
	ranking := make([]string, 0, len(ranked))
	for _, result := range ranked {
		ranking = append(ranking, result.Combination.ID)
	}

	configYAML, err := config.ExportYAML(cfg)
	if err != nil {
		h.logger.Warn("failed to marshal configuration",
			zap.String("op", op),
			zap.Error(err),
		)
	}

	elapsed := time.Since(start)
	h.logger.Info("comparison computed",
		zap.String("op", op),
		zap.String("config", cfg.Summary()),
		zap.Int("combinations", len(results)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, compareResponse{
		Results:    results,
		Ranking:    ranking,
		Warnings:   cfg.Warnings(),
		CSV:        output.CSVComparisonString(results),
		Duration:   elapsed.String(),
		ConfigYAML: string(configYAML),
	})
}

func (h *handler) handleImport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleImport"

	data, ok := h.readBody(w, r, op)
	if !ok {
		return
	}
	cfg, err := config.ParseYAML(data)
	if err != nil {
		h.respondFor(w, err, op)
		return
	}
	if err := cfg.Validate(); err != nil {
		h.respondFor(w, err, op)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"config":   cfg,
		"warnings": cfg.Warnings(),
	})
}

func (h *handler) handleImportScenarios(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleImportScenarios"

	data, ok := h.readBody(w, r, op)
	if !ok {
		return
	}
	scenarios, err := config.ImportScenarios(bytes.NewReader(data))
	if err != nil {
		h.respondFor(w, err, op)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"scenarios": scenarios,
	})
}

func (h *handler) handleConfigExport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleConfigExport"

	var payload map[string]interface{}
	if !h.decodeJSON(w, r, &payload, op) {
		return
	}
	if payload == nil {
		payload = make(map[string]interface{})
	}

	yamlBytes, err := config.MarshalOrderedYAML(payload)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to encode configuration: %v", err), op)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"configYaml": string(yamlBytes),
	})
}

func (h *handler) handleListSets(w http.ResponseWriter, r *http.Request) {
	records, err := h.sets.List(r.Context())
	if err != nil {
		h.respondFor(w, err, "server.handleListSets")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"scenarioSets": records})
}

func (h *handler) handleSaveSet(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSaveSet"

	var req saveSetRequest
	if !h.decodeJSON(w, r, &req, op) {
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		h.respondFor(w, &config.FieldError{Path: "name", Problem: config.ErrMissingField}, op)
		return
	}

	cfg := req.Config
	if cfg == nil {
		parsed, err := config.ParseYAML([]byte(req.ConfigYAML))
		if err != nil {
			h.respondFor(w, err, op)
			return
		}
		cfg = parsed
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		h.respondFor(w, err, op)
		return
	}

	data, err := config.ExportYAML(cfg)
	if err != nil {
		h.respondFor(w, err, op)
		return
	}

	saved, err := h.sets.Save(r.Context(), store.SetRecord{ID: req.ID, Name: strings.TrimSpace(req.Name), Config: string(data)})
	if err != nil {
		h.respondFor(w, err, op)
		return
	}

	status := http.StatusOK
	if req.ID == "" {
		status = http.StatusCreated
	}
	h.writeJSON(w, status, setResponse{SetRecord: saved, Parsed: cfg})
}

func (h *handler) handleGetSet(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleGetSet"

	rec, cfg, ok := h.loadSet(w, r, op)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, setResponse{SetRecord: rec, Parsed: cfg})
}

func (h *handler) handleDeleteSet(w http.ResponseWriter, r *http.Request) {
	if err := h.sets.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.respondFor(w, err, "server.handleDeleteSet")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) handleCompareSet(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCompareSet"
	start := time.Now()

	_, cfg, ok := h.loadSet(w, r, op)
	if !ok {
		return
	}
	h.runComparison(w, r, cfg, start, op)
}

func (h *handler) loadSet(w http.ResponseWriter, r *http.Request, op string) (store.SetRecord, *config.Configuration, bool) {
	rec, err := h.sets.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondFor(w, err, op)
		return store.SetRecord{}, nil, false
	}
	cfg, err := config.ParseYAML([]byte(rec.Config))
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("stored configuration is unreadable: %v", err), op)
		return store.SetRecord{}, nil, false
	}
	return rec, cfg, true
}

func (h *handler) readBody(w http.ResponseWriter, r *http.Request, op string) ([]byte, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	data, err := io.ReadAll(r.Body)
	if err != nil {
		h.respondBodyError(w, err, op)
		return nil, false
	}
	return data, true
}

func (h *handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}, op string) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.respondBodyError(w, err, op)
		return false
	}
	return true
}

func (h *handler) respondBodyError(w http.ResponseWriter, err error, op string) {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("request exceeds limit of %d bytes", h.maxUploadSize), op)
		return
	}
	h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
}

// respondFor maps an error to its HTTP status.
func (h *handler) respondFor(w http.ResponseWriter, err error, op string) {
	var fieldErr *config.FieldError
	switch {
	case errors.As(err, &fieldErr),
		errors.Is(err, config.ErrMissingField), errors.Is(err, config.ErrInvalidValue),
		errors.Is(err, etf.ErrUnknownStrategy), errors.Is(err, config.ErrMalformed):
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
	case errors.Is(err, store.ErrNotFound):
		h.respondErrorWithOp(w, http.StatusNotFound, err.Error(), op)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		h.respondErrorWithOp(w, http.StatusServiceUnavailable, err.Error(), op)
	default:
		h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), op)
	}
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

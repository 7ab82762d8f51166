// Package api - Thin, deterministic API layer
// The API is ONLY responsible for: input ingestion, engine orchestration,
// output serialization. The API NEVER performs scoring logic.
package api

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"churnrisk/core/schema"
	"churnrisk/core/scoring"
	"churnrisk/core/types"
	"churnrisk/internal/errors"
	"churnrisk/internal/logging"
)

// Auditor records served predictions. Audit failures are logged, never
// surfaced to the caller.
type Auditor interface {
	Record(ctx context.Context, p *types.Prediction) error
}

// RecentLister is implemented by audit stores that can report recently
// served predictions.
type RecentLister interface {
	Recent(ctx context.Context, limit int) ([]*types.Prediction, error)
}

// Server is the API server
type Server struct {
	engine  *scoring.Engine
	auditor Auditor
	mux     *http.ServeMux
	version string
}

// NewServer creates a new API server. The engine may be nil only in tests;
// in production the caller fails fatally on artifact load before this point.
func NewServer(version string, engine *scoring.Engine) *Server {
	return NewServerWithAuditor(version, engine, nil)
}

// NewServerWithAuditor creates a new API server with a prediction audit log
func NewServerWithAuditor(version string, engine *scoring.Engine, auditor Auditor) *Server {
	s := &Server{
		engine:  engine,
		auditor: auditor,
		mux:     http.NewServeMux(),
		version: version,
	}
	s.registerRoutes()
	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// registerRoutes registers all API routes
func (s *Server) registerRoutes() {
	s.mux.HandleFunc("POST /predict", s.handlePredict)
	s.mux.HandleFunc("POST /predict/batch", s.handlePredictBatch)
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /version", s.handleVersion)
	s.mux.HandleFunc("GET /schema", s.handleSchema)
	s.mux.HandleFunc("GET /predictions", s.handleRecentPredictions)
}

// handlePredict handles POST /predict
func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := generateRequestID()

	if s.engine == nil {
		s.writeError(w, requestID, "ARTIFACTS_UNAVAILABLE",
			"model artifacts are not loaded", http.StatusServiceUnavailable)
		return
	}

	var req PredictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, requestID, "INVALID_JSON", err.Error(), http.StatusBadRequest)
		return
	}

	req.Record.ApplyDefaults()
	inputHash := computeInputHash(&req.Record)

	// Execute engine (NO SCORING LOGIC HERE)
	prediction, flags, err := s.engine.ScoreWithFlags(&req.Record)
	if err != nil {
		s.writeEngineError(w, requestID, err)
		return
	}

	s.audit(r.Context(), prediction)

	resp := &PredictResponse{
		RequestID:  requestID,
		Timestamp:  time.Now().UTC(),
		Prediction: prediction,
		RiskFlags:  flags,
		Metadata: &ResponseMetadata{
			InputHash:     inputHash,
			SchemaVersion: schema.Version,
			ServerVersion: s.version,
			DurationMs:    time.Since(start).Milliseconds(),
		},
	}
	s.writeJSON(w, resp, http.StatusOK)
}

// handlePredictBatch handles POST /predict/batch
func (s *Server) handlePredictBatch(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := generateRequestID()

	if s.engine == nil {
		s.writeError(w, requestID, "ARTIFACTS_UNAVAILABLE",
			"model artifacts are not loaded", http.StatusServiceUnavailable)
		return
	}

	var req BatchPredictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, requestID, "INVALID_JSON", err.Error(), http.StatusBadRequest)
		return
	}
	if len(req.Records) == 0 {
		s.writeError(w, requestID, "VALIDATION_ERROR", "records must not be empty", http.StatusBadRequest)
		return
	}

	recs := make([]*types.RawAttributeRecord, len(req.Records))
	for i := range req.Records {
		req.Records[i].ApplyDefaults()
		recs[i] = &req.Records[i]
	}
	inputHash := computeInputHash(recs)

	predictions, err := s.engine.ScoreBatch(recs)
	if err != nil {
		s.writeEngineError(w, requestID, err)
		return
	}

	for _, p := range predictions {
		s.audit(r.Context(), p)
	}

	resp := &BatchPredictResponse{
		RequestID:   requestID,
		Timestamp:   time.Now().UTC(),
		Predictions: predictions,
		Metadata: &ResponseMetadata{
			InputHash:     inputHash,
			SchemaVersion: schema.Version,
			ServerVersion: s.version,
			DurationMs:    time.Since(start).Milliseconds(),
		},
	}
	s.writeJSON(w, resp, http.StatusOK)
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.engine == nil {
		s.writeJSON(w, &HealthResponse{
			Status:        "unavailable",
			SchemaVersion: schema.Version,
		}, http.StatusServiceUnavailable)
		return
	}
	s.writeJSON(w, &HealthResponse{
		Status:        "ok",
		SchemaVersion: schema.Version,
		Threshold:     s.engine.Threshold(),
	}, http.StatusOK)
}

// handleVersion handles GET /version
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{
		"version":        s.version,
		"schema_version": schema.Version,
	}, http.StatusOK)
}

// handleSchema handles GET /schema
func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, &SchemaResponse{
		Version: schema.Version,
		Columns: schema.Columns,
	}, http.StatusOK)
}

// handleRecentPredictions handles GET /predictions
func (s *Server) handleRecentPredictions(w http.ResponseWriter, r *http.Request) {
	requestID := generateRequestID()

	lister, ok := s.auditor.(RecentLister)
	if !ok {
		s.writeError(w, requestID, "AUDIT_DISABLED",
			"prediction audit log is not configured", http.StatusNotFound)
		return
	}

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 1000 {
			s.writeError(w, requestID, "VALIDATION_ERROR",
				"limit must be an integer in 1-1000", http.StatusBadRequest)
			return
		}
		limit = n
	}

	predictions, err := lister.Recent(r.Context(), limit)
	if err != nil {
		s.writeError(w, requestID, "STORAGE_ERROR", err.Error(), http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, predictions, http.StatusOK)
}

func (s *Server) audit(ctx context.Context, p *types.Prediction) {
	if s.auditor == nil {
		return
	}
	if err := s.auditor.Record(ctx, p); err != nil {
		logging.Warn("failed to audit prediction", zap.Error(err))
	}
}

// writeEngineError maps the error taxonomy to HTTP status codes: input
// validation is the caller's problem, schema mismatches are ours.
func (s *Server) writeEngineError(w http.ResponseWriter, requestID string, err error) {
	switch {
	case errors.IsType(err, errors.TypeInput):
		s.writeError(w, requestID, "VALIDATION_ERROR", err.Error(), http.StatusBadRequest)
	case errors.IsType(err, errors.TypeSchema):
		logging.Error("schema invariant violation", zap.Error(err))
		s.writeError(w, requestID, "SCHEMA_ERROR", err.Error(), http.StatusInternalServerError)
	default:
		s.writeError(w, requestID, "ENGINE_ERROR", err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) writeError(w http.ResponseWriter, requestID, code, message string, status int) {
	s.writeJSON(w, &ErrorResponse{
		RequestID: requestID,
		Code:      code,
		Message:   message,
	}, status)
}

func (s *Server) writeJSON(w http.ResponseWriter, v interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("failed to encode response", zap.Error(err))
	}
}

// computeInputHash produces a deterministic hash of the canonical JSON
// encoding of the scoring input, for response reproducibility metadata.
func computeInputHash(v interface{}) string {
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func generateRequestID() string {
	return fmt.Sprintf("req-%d", time.Now().UnixNano())
}

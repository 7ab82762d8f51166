// Package api - API types for churn scoring
// These types define the contract for the /predict endpoints.
// The API is stateless, idempotent, and deterministic.
package api

import (
	"time"

	"churnrisk/core/types"
)

// PredictRequest is the input to POST /predict
type PredictRequest struct {
	// Record is the customer to score
	Record types.RawAttributeRecord `json:"record"`
}

// BatchPredictRequest is the input to POST /predict/batch
type BatchPredictRequest struct {
	// Records are scored independently, in order
	Records []types.RawAttributeRecord `json:"records"`
}

// PredictResponse is the output of POST /predict
type PredictResponse struct {
	// Request tracking
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`

	// Prediction is the scoring outcome
	Prediction *types.Prediction `json:"prediction"`

	// RiskFlags are the engineered indicators that fired
	RiskFlags []string `json:"risk_flags,omitempty"`

	// Metadata contains execution context
	Metadata *ResponseMetadata `json:"metadata,omitempty"`
}

// BatchPredictResponse is the output of POST /predict/batch
type BatchPredictResponse struct {
	RequestID   string              `json:"request_id"`
	Timestamp   time.Time           `json:"timestamp"`
	Predictions []*types.Prediction `json:"predictions"`
	Metadata    *ResponseMetadata   `json:"metadata,omitempty"`
}

// ResponseMetadata carries execution context for reproducibility
type ResponseMetadata struct {
	// InputHash is the deterministic hash of the canonical request input
	InputHash string `json:"input_hash"`

	// SchemaVersion identifies the feature schema in use
	SchemaVersion string `json:"schema_version"`

	// ServerVersion is the serving build version
	ServerVersion string `json:"server_version"`

	// DurationMs is the request processing time
	DurationMs int64 `json:"duration_ms"`
}

// ErrorResponse is the error envelope for all endpoints
type ErrorResponse struct {
	RequestID string `json:"request_id,omitempty"`
	Code      string `json:"code"`
	Message   string `json:"message"`
}

// SchemaResponse is the output of GET /schema
type SchemaResponse struct {
	Version string   `json:"version"`
	Columns []string `json:"columns"`
}

// HealthResponse is the output of GET /health
type HealthResponse struct {
	Status        string  `json:"status"`
	SchemaVersion string  `json:"schema_version"`
	Threshold     float64 `json:"threshold,omitempty"`
}

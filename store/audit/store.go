// Package audit persists served predictions to Postgres. The audit log is
// an operational record, not part of the scoring path: a failed insert is
// logged by the caller and never fails the request.
package audit

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"churnrisk/core/types"
	"churnrisk/internal/errors"
)

const ddl = `
CREATE TABLE IF NOT EXISTS predictions (
	id             BIGSERIAL PRIMARY KEY,
	customer_id    TEXT,
	probability    DOUBLE PRECISION NOT NULL,
	decision       BOOLEAN NOT NULL,
	threshold      DOUBLE PRECISION NOT NULL,
	risk_tier      TEXT NOT NULL,
	schema_version TEXT NOT NULL,
	scored_at      TIMESTAMPTZ NOT NULL
)`

// Store is a Postgres-backed prediction audit log.
type Store struct {
	pool *pgxpool.Pool
}

// New connects to Postgres and ensures the audit table exists.
func New(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, errors.Wrap(errors.TypeStorage, "failed to connect to audit store", err)
	}
	if _, err := pool.Exec(ctx, ddl); err != nil {
		pool.Close()
		return nil, errors.Wrap(errors.TypeStorage, "failed to create predictions table", err)
	}
	return &Store{pool: pool}, nil
}

// Record inserts one served prediction.
func (s *Store) Record(ctx context.Context, p *types.Prediction) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO predictions
			(customer_id, probability, decision, threshold, risk_tier, schema_version, scored_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.CustomerID, p.Probability, p.Decision, p.Threshold,
		string(p.RiskTier), p.SchemaVersion, p.ScoredAt)
	if err != nil {
		return errors.Wrap(errors.TypeStorage, "failed to insert prediction", err)
	}
	return nil
}

// Recent returns the most recently served predictions, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]*types.Prediction, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT customer_id, probability, decision, threshold, risk_tier, schema_version, scored_at
		FROM predictions
		ORDER BY scored_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, errors.Wrap(errors.TypeStorage, "failed to query predictions", err)
	}
	defer rows.Close()

	var out []*types.Prediction
	for rows.Next() {
		var p types.Prediction
		var tier string
		var scoredAt time.Time
		if err := rows.Scan(&p.CustomerID, &p.Probability, &p.Decision,
			&p.Threshold, &tier, &p.SchemaVersion, &scoredAt); err != nil {
			return nil, errors.Wrap(errors.TypeStorage, "failed to scan prediction", err)
		}
		p.RiskTier = types.RiskTier(tier)
		p.ScoredAt = scoredAt
		out = append(out, &p)
	}
	return out, rows.Err()
}

// Close releases the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

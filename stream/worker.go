// Package stream runs the Kafka scoring worker: raw customer records are
// consumed from the records topic, scored, and the decisions are produced
// keyed by customer id. An invalid record rejects only itself; the worker
// keeps consuming.
package stream

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"churnrisk/core/scoring"
	"churnrisk/core/types"
	"churnrisk/internal/config"
	"churnrisk/internal/logging"
)

// Auditor mirrors api.Auditor for the stream path.
type Auditor interface {
	Record(ctx context.Context, p *types.Prediction) error
}

// Worker consumes records and produces scored decisions.
type Worker struct {
	engine  *scoring.Engine
	reader  *kafka.Reader
	writer  *kafka.Writer
	auditor Auditor
}

// NewWorker creates a scoring worker for the configured topics.
func NewWorker(cfg config.StreamConfig, engine *scoring.Engine, auditor Auditor) *Worker {
	return &Worker{
		engine: engine,
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers: cfg.Brokers,
			Topic:   cfg.RecordsTopic,
			GroupID: cfg.GroupID,
		}),
		writer: &kafka.Writer{
			Addr:     kafka.TCP(cfg.Brokers...),
			Topic:    cfg.DecisionsTopic,
			Balancer: &kafka.LeastBytes{},
		},
		auditor: auditor,
	}
}

// Run consumes until the context is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	logging.Info("stream worker started")
	for {
		msg, err := w.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		w.handle(ctx, msg)
	}
}

func (w *Worker) handle(ctx context.Context, msg kafka.Message) {
	var rec types.RawAttributeRecord
	if err := json.Unmarshal(msg.Value, &rec); err != nil {
		logging.Warn("skipping undecodable record",
			zap.String("key", string(msg.Key)), zap.Error(err))
		return
	}
	rec.ApplyDefaults()
	if rec.CustomerID == "" {
		rec.CustomerID = string(msg.Key)
	}

	prediction, err := w.engine.Score(&rec)
	if err != nil {
		logging.Warn("skipping invalid record",
			zap.String("customer_id", rec.CustomerID), zap.Error(err))
		return
	}

	if w.auditor != nil {
		if err := w.auditor.Record(ctx, prediction); err != nil {
			logging.Warn("failed to audit prediction", zap.Error(err))
		}
	}

	if err := w.produce(ctx, prediction); err != nil {
		logging.Error("failed to produce decision",
			zap.String("customer_id", prediction.CustomerID), zap.Error(err))
		return
	}
	logging.Debug("scored record",
		zap.String("customer_id", prediction.CustomerID),
		zap.Float64("probability", prediction.Probability),
		zap.String("risk_tier", string(prediction.RiskTier)))
}

func (w *Worker) produce(ctx context.Context, p *types.Prediction) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return w.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(p.CustomerID),
		Value: data,
	})
}

// Close closes the Kafka reader and writer.
func (w *Worker) Close() error {
	if err := w.reader.Close(); err != nil {
		return err
	}
	return w.writer.Close()
}

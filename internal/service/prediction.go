package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"houseprice/internal/logger"
	"houseprice/internal/metrics"
	"houseprice/internal/model"
)

// HistoryStore records completed predictions
type HistoryStore interface {
	Save(ctx context.Context, entry *model.HistoryEntry) error
	Recent(ctx context.Context, limit int) ([]model.HistoryEntry, error)
	Similar(ctx context.Context, features model.FeatureVector, limit int) ([]model.HistoryEntry, error)
}

// ErrHistoryDisabled is returned by history queries when no store is configured
var ErrHistoryDisabled = errors.New("prediction history is disabled")

// PredictionService decorates a Predictor with metrics, logging and history
type PredictionService struct {
	predictor Predictor
	history   HistoryStore
	log       logger.Logger
}

// NewPredictionService creates the service. history may be nil.
func NewPredictionService(predictor Predictor, history HistoryStore, log logger.Logger) *PredictionService {
	return &PredictionService{
		predictor: predictor,
		history:   history,
		log:       log.With(map[string]interface{}{"component": "prediction-service"}),
	}
}

// CheckStatus probes the prediction service
func (s *PredictionService) CheckStatus(ctx context.Context) error {
	err := s.predictor.CheckStatus(ctx)
	if err != nil {
		metrics.StatusChecks.WithLabelValues("offline").Inc()
		s.log.WithError(err).Warn("prediction service offline", nil)
		return err
	}
	metrics.StatusChecks.WithLabelValues("connected").Inc()
	s.log.Debug("prediction service connected", nil)
	return nil
}

// Predict forwards one request and records its outcome
func (s *PredictionService) Predict(ctx context.Context, features model.FeatureVector) (*model.PredictionResult, error) {
	requestID := uuid.NewString()
	log := s.log.With(map[string]interface{}{"requestId": requestID})

	metrics.PredictionsInFlight.Inc()
	start := time.Now()
	result, err := s.predictor.Predict(ctx, features)
	elapsed := time.Since(start)
	metrics.PredictionsInFlight.Dec()

	outcome := metrics.OutcomeSuccess
	switch {
	case err != nil:
		outcome = metrics.OutcomeNetworkError
		log.WithError(err).Error("prediction request failed", map[string]interface{}{
			"elapsedMs": elapsed.Milliseconds(),
		})
	case !result.Succeeded():
		outcome = metrics.OutcomeServiceError
		log.Warn("prediction rejected", map[string]interface{}{
			"message":   result.Message,
			"elapsedMs": elapsed.Milliseconds(),
		})
	default:
		log.Info("prediction completed", map[string]interface{}{
			"estimatedPrice": result.Price,
			"elapsedMs":      elapsed.Milliseconds(),
		})
	}
	metrics.Predictions.WithLabelValues(outcome).Inc()
	metrics.PredictionDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())

	if err == nil {
		s.record(ctx, log, requestID, features, result)
	}
	return result, err
}

// record stores the outcome; failures are logged and never reach the caller
func (s *PredictionService) record(ctx context.Context, log logger.Logger, requestID string, features model.FeatureVector, result *model.PredictionResult) {
	if s.history == nil {
		return
	}

	entry := &model.HistoryEntry{
		ID:        uuid.NewString(),
		RequestID: requestID,
		Features:  features,
		CreatedAt: time.Now().UTC(),
	}
	if result.Succeeded() {
		price := result.Price
		entry.Price = &price
	} else {
		msg := result.Message
		entry.Error = &msg
	}

	if err := s.history.Save(context.WithoutCancel(ctx), entry); err != nil {
		metrics.HistoryWriteFailures.Inc()
		log.WithError(err).Warn("failed to record prediction", nil)
	}
}

// HistoryEnabled reports whether predictions are being recorded
func (s *PredictionService) HistoryEnabled() bool {
	return s.history != nil
}

// RecentPredictions returns the latest recorded predictions
func (s *PredictionService) RecentPredictions(ctx context.Context, limit int) ([]model.HistoryEntry, error) {
	if s.history == nil {
		return nil, ErrHistoryDisabled
	}
	return s.history.Recent(ctx, limit)
}

// SimilarPredictions returns recorded predictions for houses closest to features
func (s *PredictionService) SimilarPredictions(ctx context.Context, features model.FeatureVector, limit int) ([]model.HistoryEntry, error) {
	if s.history == nil {
		return nil, ErrHistoryDisabled
	}
	return s.history.Similar(ctx, features, limit)
}

// Ensure PredictionService implements Predictor
var _ Predictor = (*PredictionService)(nil)

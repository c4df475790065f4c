package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"houseprice/internal/logger"
	"houseprice/internal/model"
)

type stubPredictor struct {
	statusErr error
	result    *model.PredictionResult
	err       error
}

func (s *stubPredictor) CheckStatus(ctx context.Context) error { return s.statusErr }

func (s *stubPredictor) Predict(ctx context.Context, features model.FeatureVector) (*model.PredictionResult, error) {
	return s.result, s.err
}

type memoryHistory struct {
	mu      sync.Mutex
	entries []model.HistoryEntry
	saveErr error
}

func (m *memoryHistory) Save(ctx context.Context, entry *model.HistoryEntry) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *memoryHistory) Recent(ctx context.Context, limit int) ([]model.HistoryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entries, nil
}

func (m *memoryHistory) Similar(ctx context.Context, features model.FeatureVector, limit int) ([]model.HistoryEntry, error) {
	return m.Recent(ctx, limit)
}

func TestPredictionService_RecordsSuccess(t *testing.T) {
	history := &memoryHistory{}
	svc := NewPredictionService(&stubPredictor{result: &model.PredictionResult{Price: 650000}}, history, logger.NewTestLogger(t))

	result, err := svc.Predict(context.Background(), sampleVector())
	require.NoError(t, err)
	assert.Equal(t, 650000.0, result.Price)

	require.Len(t, history.entries, 1)
	entry := history.entries[0]
	assert.NotEmpty(t, entry.ID)
	assert.NotEmpty(t, entry.RequestID)
	require.NotNil(t, entry.Price)
	assert.Equal(t, 650000.0, *entry.Price)
	assert.Nil(t, entry.Error)
	assert.Equal(t, sampleVector(), entry.Features)
}

func TestPredictionService_RecordsRejection(t *testing.T) {
	history := &memoryHistory{}
	svc := NewPredictionService(&stubPredictor{result: &model.PredictionResult{Message: "bad input"}}, history, logger.NewNoOpLogger())

	result, err := svc.Predict(context.Background(), sampleVector())
	require.NoError(t, err)
	assert.Equal(t, "bad input", result.Message)

	require.Len(t, history.entries, 1)
	require.NotNil(t, history.entries[0].Error)
	assert.Equal(t, "bad input", *history.entries[0].Error)
	assert.Nil(t, history.entries[0].Price)
}

func TestPredictionService_TransportErrorNotRecorded(t *testing.T) {
	history := &memoryHistory{}
	svc := NewPredictionService(&stubPredictor{err: ErrServiceUnavailable}, history, logger.NewNoOpLogger())

	_, err := svc.Predict(context.Background(), sampleVector())
	assert.ErrorIs(t, err, ErrServiceUnavailable)
	assert.Empty(t, history.entries)
}

func TestPredictionService_HistoryFailureIsSwallowed(t *testing.T) {
	history := &memoryHistory{saveErr: errors.New("db down")}
	svc := NewPredictionService(&stubPredictor{result: &model.PredictionResult{Price: 1}}, history, logger.NewNoOpLogger())

	result, err := svc.Predict(context.Background(), sampleVector())
	require.NoError(t, err)
	assert.Equal(t, 1.0, result.Price)
}

func TestPredictionService_WithoutHistory(t *testing.T) {
	svc := NewPredictionService(&stubPredictor{result: &model.PredictionResult{Price: 1}}, nil, logger.NewNoOpLogger())

	assert.False(t, svc.HistoryEnabled())
	_, err := svc.Predict(context.Background(), sampleVector())
	require.NoError(t, err)

	_, err = svc.RecentPredictions(context.Background(), 5)
	assert.ErrorIs(t, err, ErrHistoryDisabled)
	_, err = svc.SimilarPredictions(context.Background(), sampleVector(), 5)
	assert.ErrorIs(t, err, ErrHistoryDisabled)
}

func TestPredictionService_CheckStatus(t *testing.T) {
	svc := NewPredictionService(&stubPredictor{}, nil, logger.NewNoOpLogger())
	assert.NoError(t, svc.CheckStatus(context.Background()))

	svc = NewPredictionService(&stubPredictor{statusErr: ErrServiceUnavailable}, nil, logger.NewNoOpLogger())
	assert.ErrorIs(t, svc.CheckStatus(context.Background()), ErrServiceUnavailable)
}

package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"houseprice/internal/model"
)

func TestHistory_Disabled(t *testing.T) {
	backend := &fakeBackend{}
	r := newTestRouter(t, backend)

	w := doJSON(r, http.MethodGet, "/api/v1/history?limit=-1", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = doJSON(r, http.MethodPost, "/api/v1/history/similar", predictJSON)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"error":"Prediction history is not enabled"}`, w.Body.String())

	assert.Zero(t, backend.gotLimit)
	assert.Empty(t, backend.gotFeatures)
}

func TestHistory_Recent(t *testing.T) {
	price := 650000.0
	backend := &fakeBackend{enabled: true, history: []model.HistoryEntry{{ID: "a", Price: &price}}}
	r := newTestRouter(t, backend)

	w := doJSON(r, http.MethodGet, "/api/v1/history", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 20, backend.gotLimit)

	var out model.HistoryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, 1, out.Count)
	assert.Equal(t, "a", out.Results[0].ID)
}

func TestHistory_LimitHandling(t *testing.T) {
	backend := &fakeBackend{enabled: true}
	r := newTestRouter(t, backend)

	w := doJSON(r, http.MethodGet, "/api/v1/history?limit=500", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, maxHistoryLimit, backend.gotLimit)

	w = doJSON(r, http.MethodGet, "/api/v1/history?limit=-1", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHistory_Similar(t *testing.T) {
	backend := &fakeBackend{enabled: true}
	r := newTestRouter(t, backend)

	w := doJSON(r, http.MethodPost, "/api/v1/history/similar?limit=3", predictJSON)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3, backend.gotLimit)
	require.Len(t, backend.gotFeatures, 1)
	assert.Equal(t, model.Int(4), backend.gotFeatures[0].Bedrooms)
}

func TestHistory_StoreError(t *testing.T) {
	r := newTestRouter(t, &fakeBackend{enabled: true, historyErr: errors.New("db down")})

	w := doJSON(r, http.MethodGet, "/api/v1/history", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

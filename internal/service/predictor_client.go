package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"houseprice/internal/config"
	"houseprice/internal/model"
)

var (
	// ErrServiceUnavailable covers every transport-level failure: refused
	// connections, DNS errors, timeouts and cancelled contexts.
	ErrServiceUnavailable = errors.New("prediction service unavailable")

	// ErrInvalidResponse means the service answered with a body that is not
	// the expected JSON object.
	ErrInvalidResponse = errors.New("invalid response from prediction service")
)

// GenericFailureMessage is shown when the service rejects a prediction
// without saying why
const GenericFailureMessage = "Prediction failed. Please try again."

const predictPath = "/get_predicted_price"

// Predictor is the prediction service as seen by the UI layer
type Predictor interface {
	// CheckStatus returns nil when the service root answers with a 2xx status
	CheckStatus(ctx context.Context) error

	// Predict sends one feature vector. Server-reported failures come back as a
	// result with a message; only transport and decoding failures are errors.
	Predict(ctx context.Context, features model.FeatureVector) (*model.PredictionResult, error)
}

// PredictorClient talks to the external prediction API over HTTP
type PredictorClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewPredictorClient creates a client for the configured base URL. A zero
// timeout leaves requests bounded only by the caller's context.
func NewPredictorClient(cfg *config.PredictorConfig) *PredictorClient {
	return &PredictorClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// BaseURL returns the service address requests are sent to
func (c *PredictorClient) BaseURL() string {
	return c.baseURL
}

// CheckStatus issues the liveness probe
func (c *PredictorClient) CheckStatus(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: status %d", ErrServiceUnavailable, resp.StatusCode)
	}
	return nil
}

// Predict sends the feature vector and interprets the answer. A response counts
// as a success only with a 2xx status and a non-zero estimated_price.
func (c *PredictorClient) Predict(ctx context.Context, features model.FeatureVector) (*model.PredictionResult, error) {
	reqBody, err := json.Marshal(model.PredictionRequest{Input: features})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+predictPath, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrServiceUnavailable, err)
	}

	var decoded *model.PredictionResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("%w: status %d: %v", ErrInvalidResponse, resp.StatusCode, err)
	}
	if decoded == nil {
		return nil, fmt.Errorf("%w: status %d: empty JSON body", ErrInvalidResponse, resp.StatusCode)
	}

	return interpretResponse(resp.StatusCode, decoded), nil
}

func interpretResponse(status int, body *model.PredictionResponse) *model.PredictionResult {
	ok := status >= 200 && status <= 299
	if ok && body.EstimatedPrice != 0 {
		return &model.PredictionResult{Price: body.EstimatedPrice}
	}
	if body.Error != "" {
		return &model.PredictionResult{Message: body.Error}
	}
	return &model.PredictionResult{Message: GenericFailureMessage}
}

// Ensure PredictorClient implements Predictor
var _ Predictor = (*PredictorClient)(nil)

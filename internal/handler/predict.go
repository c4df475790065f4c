package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"houseprice/internal/logger"
	"houseprice/internal/model"
	"houseprice/internal/service"
	"houseprice/internal/ui"
)

// Backend is what the handlers need from the prediction service
type Backend interface {
	service.Predictor
	HistoryEnabled() bool
	RecentPredictions(ctx context.Context, limit int) ([]model.HistoryEntry, error)
	SimilarPredictions(ctx context.Context, features model.FeatureVector, limit int) ([]model.HistoryEntry, error)
}

// PredictHandler serves the form page and the prediction API
type PredictHandler struct {
	backend Backend
	opts    ui.Options
	log     logger.Logger
}

// NewPredictHandler creates a new prediction handler. opts only carries the
// display timings; timed transitions run in the browser.
func NewPredictHandler(backend Backend, opts ui.Options, log logger.Logger) *PredictHandler {
	return &PredictHandler{
		backend: backend,
		opts:    ui.Options{StatusHideDelay: opts.StatusHideDelay, ResultDisplayTimeout: opts.ResultDisplayTimeout},
		log:     log.With(map[string]interface{}{"component": "predict-handler"}),
	}
}

type pageData struct {
	Form            model.PredictionForm
	State           ui.State
	Furnishing      []string
	StatusHideMs    int64
	ResultDisplayMs int64
	LoadingLabel    string
	ConnectedText   string
	OfflineText     string
}

// newController builds a controller for one request. Timers are left to the page.
func (h *PredictHandler) newController() *ui.Controller {
	return ui.NewController(h.backend, nil, ui.Options{})
}

func (h *PredictHandler) render(c *gin.Context, form model.PredictionForm, state ui.State) {
	c.HTML(http.StatusOK, "index.html", pageData{
		Form:            form,
		State:           state,
		Furnishing:      model.FurnishingOptions(),
		StatusHideMs:    h.opts.StatusHideDelay.Milliseconds(),
		ResultDisplayMs: h.opts.ResultDisplayTimeout.Milliseconds(),
		LoadingLabel:    ui.LoadingLabel,
		ConnectedText:   ui.ConnectedText,
		OfflineText:     ui.OfflineText,
	})
}

// Page handles GET / and shows the form. The status indicator is filled in
// by the page from /api/v1/status.
func (h *PredictHandler) Page(c *gin.Context) {
	h.render(c, model.DefaultForm(), ui.Initial())
}

// Submit handles POST / from the form
func (h *PredictHandler) Submit(c *gin.Context) {
	var form model.PredictionForm
	if err := c.ShouldBind(&form); err != nil {
		c.String(http.StatusBadRequest, "Invalid form: "+err.Error())
		return
	}

	ctrl := h.newController()
	defer ctrl.Close()

	state, err := ctrl.Submit(c.Request.Context(), form)
	if err != nil {
		h.log.WithError(err).Error("form submission rejected", nil)
	}
	h.render(c, form, state)
}

// Status handles GET /api/v1/status
func (h *PredictHandler) Status(c *gin.Context) {
	ctrl := h.newController()
	defer ctrl.Close()

	state := ctrl.CheckStatus(c.Request.Context())
	code := http.StatusOK
	if state.Status != ui.StatusConnected {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, model.StatusResponse{Status: state.Status.String()})
}

// Predict handles POST /api/v1/predict
func (h *PredictHandler) Predict(c *gin.Context) {
	var form model.PredictionForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	ctrl := h.newController()
	defer ctrl.Close()

	state, err := ctrl.Submit(c.Request.Context(), form)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	if state.Phase != ui.PhaseSuccess {
		c.JSON(http.StatusBadGateway, model.PredictionOutcome{Error: state.Message})
		return
	}
	c.JSON(http.StatusOK, model.PredictionOutcome{
		EstimatedPrice: state.Price,
		FormattedPrice: state.PriceText,
	})
}

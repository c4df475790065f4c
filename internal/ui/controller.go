package ui

import (
	"context"
	"errors"
	"sync"
	"time"

	"houseprice/internal/model"
	"houseprice/internal/service"
)

// ErrSubmitInFlight is returned when a submission arrives while the submit
// control is disabled
var ErrSubmitInFlight = errors.New("a prediction is already in flight")

// Renderer paints a state. Render is called with the controller's lock held,
// so it must not call back into the controller.
type Renderer interface {
	Render(State)
}

// RendererFunc adapts a function to Renderer
type RendererFunc func(State)

// Render implements Renderer
func (f RendererFunc) Render(s State) { f(s) }

// AfterFunc runs f after d and returns a function that cancels it
type AfterFunc func(d time.Duration, f func()) (stop func() bool)

func timeAfterFunc(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

// Options tune the controller's timed transitions
type Options struct {
	StatusHideDelay      time.Duration
	ResultDisplayTimeout time.Duration
	AfterFunc            AfterFunc
}

// Controller owns one form's lifecycle: status probe, submission and the
// timed returns to idle.
type Controller struct {
	predictor service.Predictor
	renderer  Renderer
	opts      Options

	mu         sync.Mutex
	state      State
	statusGen  uint64
	resultGen  uint64
	stopStatus func() bool
	stopResult func() bool
}

// NewController creates a controller and renders the initial state
func NewController(predictor service.Predictor, renderer Renderer, opts Options) *Controller {
	if opts.AfterFunc == nil {
		opts.AfterFunc = timeAfterFunc
	}
	if renderer == nil {
		renderer = RendererFunc(func(State) {})
	}
	c := &Controller{
		predictor: predictor,
		renderer:  renderer,
		opts:      opts,
		state:     Initial(),
	}
	c.renderer.Render(c.state)
	return c
}

// State returns the current state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// CheckStatus probes the service and updates the status indicator. A connected
// indicator hides itself after StatusHideDelay; offline stays up. A probe
// abandoned through ctx leaves the indicator untouched.
func (c *Controller) CheckStatus(ctx context.Context) State {
	err := c.predictor.CheckStatus(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if ctx.Err() != nil {
		return c.state
	}

	c.statusGen++
	if c.stopStatus != nil {
		c.stopStatus()
		c.stopStatus = nil
	}
	c.apply(c.state.StatusChecked(err == nil))

	if err == nil && c.opts.StatusHideDelay > 0 {
		gen := c.statusGen
		c.stopStatus = c.opts.AfterFunc(c.opts.StatusHideDelay, func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			if gen == c.statusGen {
				c.apply(c.state.HideStatus())
			}
		})
	}
	return c.state
}

// Submit runs one prediction round trip for the form snapshot. It returns the
// state after cleanup. The only error is ErrSubmitInFlight; service failures
// are reported through the state.
func (c *Controller) Submit(ctx context.Context, form model.PredictionForm) (final State, err error) {
	c.mu.Lock()
	if c.state.SubmitDisabled {
		st := c.state
		c.mu.Unlock()
		return st, ErrSubmitInFlight
	}
	c.resultGen++
	if c.stopResult != nil {
		c.stopResult()
		c.stopResult = nil
	}
	c.apply(c.state.BeginSubmit())
	c.mu.Unlock()

	defer func() {
		final = c.release()
	}()

	result, perr := c.predictor.Predict(ctx, form.Vector())

	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case perr != nil:
		c.apply(c.state.Fail(NetworkErrorMessage))
	case result == nil:
		c.apply(c.state.Fail(service.GenericFailureMessage))
	case result.Succeeded():
		c.apply(c.state.Succeed(result.Price))
	default:
		c.apply(c.state.Fail(result.Message))
	}
	return c.state, nil
}

// release is the cleanup half of Submit and runs exactly once per submission
func (c *Controller) release() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.apply(c.state.EndSubmit())

	if c.state.Phase == PhaseSuccess && c.opts.ResultDisplayTimeout > 0 {
		gen := c.resultGen
		c.stopResult = c.opts.AfterFunc(c.opts.ResultDisplayTimeout, func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			if gen == c.resultGen {
				c.apply(c.state.ExpireResult())
			}
		})
	}
	return c.state
}

// Close cancels pending timed transitions
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.statusGen++
	c.resultGen++
	if c.stopStatus != nil {
		c.stopStatus()
	}
	if c.stopResult != nil {
		c.stopResult()
	}
}

func (c *Controller) apply(next State) {
	c.state = next
	c.renderer.Render(next)
}

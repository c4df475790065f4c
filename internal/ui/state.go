// Package ui models the prediction form's visible state as a value with pure
// transitions. Side effects (painting a page, printing to a terminal) live in
// Renderer implementations.
package ui

import "houseprice/internal/utils"

// Phase of the submit cycle
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseSuccess
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseSuccess:
		return "success"
	case PhaseError:
		return "error"
	default:
		return "idle"
	}
}

// Status of the prediction service as last probed
type Status int

const (
	StatusUnknown Status = iota
	StatusConnected
	StatusOffline
)

func (s Status) String() string {
	switch s {
	case StatusConnected:
		return "connected"
	case StatusOffline:
		return "offline"
	default:
		return "unknown"
	}
}

// NetworkErrorMessage is shown for any transport failure or unreadable response
const NetworkErrorMessage = "Network error. Please check that the prediction service is running."

// Button captions
const (
	SubmitLabel  = "Predict Price"
	LoadingLabel = "Predicting..."
)

// Status indicator captions
const (
	ConnectedText = "Connected to prediction service"
	OfflineText   = "Prediction service offline"
)

// State is everything the form displays
type State struct {
	Phase          Phase   `json:"phase"`
	Status         Status  `json:"-"`
	StatusVisible  bool    `json:"status_visible"`
	SubmitDisabled bool    `json:"submit_disabled"`
	Loading        bool    `json:"loading"`
	Price          float64 `json:"estimated_price,omitempty"`
	PriceText      string  `json:"formatted_price,omitempty"`
	Message        string  `json:"error,omitempty"`
}

// Initial is the state before anything has happened
func Initial() State {
	return State{Phase: PhaseIdle, Status: StatusUnknown}
}

// StatusChecked shows the probe outcome
func (s State) StatusChecked(connected bool) State {
	if connected {
		s.Status = StatusConnected
	} else {
		s.Status = StatusOffline
	}
	s.StatusVisible = true
	return s
}

// HideStatus hides a "connected" indicator. Offline stays visible.
func (s State) HideStatus() State {
	if s.Status == StatusConnected {
		s.StatusVisible = false
	}
	return s
}

// BeginSubmit disables the submit control, shows the loading indicator and
// clears any previous result.
func (s State) BeginSubmit() State {
	s.Phase = PhaseLoading
	s.Loading = true
	s.SubmitDisabled = true
	s.Price = 0
	s.PriceText = ""
	s.Message = ""
	return s
}

// Succeed shows an estimated price
func (s State) Succeed(price float64) State {
	s.Phase = PhaseSuccess
	s.Price = price
	s.PriceText = utils.FormatUSD(price)
	s.Message = ""
	return s
}

// Fail shows an error message
func (s State) Fail(message string) State {
	s.Phase = PhaseError
	s.Price = 0
	s.PriceText = ""
	s.Message = message
	return s
}

// EndSubmit clears the loading indicator and re-enables the submit control.
// A cycle that never produced an outcome falls back to idle.
func (s State) EndSubmit() State {
	s.Loading = false
	s.SubmitDisabled = false
	if s.Phase == PhaseLoading {
		s.Phase = PhaseIdle
	}
	return s
}

// ExpireResult returns a displayed success to idle. Errors persist.
func (s State) ExpireResult() State {
	if s.Phase != PhaseSuccess {
		return s
	}
	s.Phase = PhaseIdle
	s.Price = 0
	s.PriceText = ""
	return s
}

// ButtonText is the submit control caption
func (s State) ButtonText() string {
	if s.Loading {
		return LoadingLabel
	}
	return SubmitLabel
}

// StatusText is the status indicator caption
func (s State) StatusText() string {
	switch s.Status {
	case StatusConnected:
		return ConnectedText
	case StatusOffline:
		return OfflineText
	default:
		return ""
	}
}

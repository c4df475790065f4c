package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// PredictionForm is a snapshot of the 12 named form fields as the user typed them
type PredictionForm struct {
	Area             string `form:"area" json:"area"`
	Bedrooms         string `form:"bedrooms" json:"bedrooms"`
	Bathrooms        string `form:"bathrooms" json:"bathrooms"`
	Stories          string `form:"stories" json:"stories"`
	MainRoad         string `form:"mainroad" json:"mainroad"`
	GuestRoom        string `form:"guestroom" json:"guestroom"`
	Basement         string `form:"basement" json:"basement"`
	HotWaterHeating  string `form:"hotwaterheating" json:"hotwaterheating"`
	AirConditioning  string `form:"airconditioning" json:"airconditioning"`
	Parking          string `form:"parking" json:"parking"`
	PrefArea         string `form:"prefarea" json:"prefarea"`
	FurnishingStatus string `form:"furnishingstatus" json:"furnishingstatus"`
}

// FormFromLookup builds a form by looking up every field name
func FormFromLookup(get func(name string) string) PredictionForm {
	return PredictionForm{
		Area:             get("area"),
		Bedrooms:         get("bedrooms"),
		Bathrooms:        get("bathrooms"),
		Stories:          get("stories"),
		MainRoad:         get("mainroad"),
		GuestRoom:        get("guestroom"),
		Basement:         get("basement"),
		HotWaterHeating:  get("hotwaterheating"),
		AirConditioning:  get("airconditioning"),
		Parking:          get("parking"),
		PrefArea:         get("prefarea"),
		FurnishingStatus: get("furnishingstatus"),
	}
}

// UnmarshalJSON accepts every field as a JSON string, number, boolean or null.
// Non-string scalars keep their literal text so they parse like typed input.
func (f *PredictionForm) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	values := make(map[string]string, len(raw))
	for name, msg := range raw {
		msg = bytes.TrimSpace(msg)
		switch {
		case len(msg) == 0 || string(msg) == "null":
			values[name] = ""
		case msg[0] == '"':
			var s string
			if err := json.Unmarshal(msg, &s); err != nil {
				return fmt.Errorf("field %s: %w", name, err)
			}
			values[name] = s
		case msg[0] == '{' || msg[0] == '[':
			return fmt.Errorf("field %s: expected a scalar value", name)
		default:
			values[name] = string(msg)
		}
	}

	*f = FormFromLookup(func(name string) string { return values[name] })
	return nil
}

// Vector converts the form into a feature vector. Integer fields that do not
// parse become not-a-number and are forwarded as such; nothing is rejected here.
func (f PredictionForm) Vector() FeatureVector {
	return FeatureVector{
		Area:             ParseInt(f.Area),
		Bedrooms:         ParseInt(f.Bedrooms),
		Bathrooms:        ParseInt(f.Bathrooms),
		Stories:          ParseInt(f.Stories),
		MainRoad:         f.MainRoad,
		GuestRoom:        f.GuestRoom,
		Basement:         f.Basement,
		HotWaterHeating:  f.HotWaterHeating,
		AirConditioning:  f.AirConditioning,
		Parking:          ParseInt(f.Parking),
		PrefArea:         f.PrefArea,
		FurnishingStatus: f.FurnishingStatus,
	}
}

// DefaultForm is the form as first shown to the user
func DefaultForm() PredictionForm {
	return PredictionForm{
		MainRoad:         "yes",
		GuestRoom:        "no",
		Basement:         "no",
		HotWaterHeating:  "no",
		AirConditioning:  "no",
		PrefArea:         "no",
		FurnishingStatus: Furnished,
	}
}

// PredictionRequest is the body sent to the prediction endpoint
type PredictionRequest struct {
	Input FeatureVector `json:"input"`
}

// PredictionResponse is the body returned by the prediction endpoint.
// Either field may be missing.
type PredictionResponse struct {
	EstimatedPrice float64 `json:"estimated_price"`
	Error          string  `json:"error"`
}

// PredictionResult is either an estimated price or an error message, never both
type PredictionResult struct {
	Price   float64 `json:"estimated_price,omitempty"`
	Message string  `json:"error,omitempty"`
}

// Succeeded reports whether the result carries a price
func (r *PredictionResult) Succeeded() bool {
	return r.Message == ""
}

// HistoryEntry is one recorded prediction
type HistoryEntry struct {
	ID        string        `json:"id"`
	RequestID string        `json:"request_id"`
	Features  FeatureVector `json:"features"`
	Price     *float64      `json:"estimated_price,omitempty"`
	Error     *string       `json:"error,omitempty"`
	Distance  *float64      `json:"distance,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

// PredictionOutcome is the JSON answer of the predict endpoint
type PredictionOutcome struct {
	EstimatedPrice float64 `json:"estimated_price,omitempty"`
	FormattedPrice string  `json:"formatted_price,omitempty"`
	Error          string  `json:"error,omitempty"`
}

// StatusResponse is the JSON answer of the status endpoint
type StatusResponse struct {
	Status  string `json:"status"`
	BaseURL string `json:"base_url,omitempty"`
}

// HistoryResponse wraps history query results
type HistoryResponse struct {
	Results []HistoryEntry `json:"results"`
	Count   int            `json:"count"`
}

package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// FeatureNames lists the form fields in the positional order the prediction
// service expects them in the "input" array.
var FeatureNames = [FeatureCount]string{
	"area",
	"bedrooms",
	"bathrooms",
	"stories",
	"mainroad",
	"guestroom",
	"basement",
	"hotwaterheating",
	"airconditioning",
	"parking",
	"prefarea",
	"furnishingstatus",
}

// FeatureCount is the length of the feature vector
const FeatureCount = 12

// Furnishing status labels offered by the form
const (
	Furnished     = "furnished"
	SemiFurnished = "semi-furnished"
	Unfurnished   = "unfurnished"
)

// FurnishingOptions returns the known furnishing labels in display order
func FurnishingOptions() []string {
	return []string{Furnished, SemiFurnished, Unfurnished}
}

// IntValue is an integer form value that may be "not a number".
// Not-a-number values are forwarded as JSON null.
type IntValue struct {
	Value int64
	Valid bool
}

// Int returns a valid IntValue
func Int(v int64) IntValue {
	return IntValue{Value: v, Valid: true}
}

// NaN returns the not-a-number IntValue
func NaN() IntValue {
	return IntValue{}
}

// ParseInt reads the leading integer of s: leading whitespace is skipped, an
// optional sign is accepted and parsing stops at the first non-digit, so
// "12abc" yields 12 and "3.9" yields 3. Input without leading digits, or whose
// digits overflow int64, is not a number.
func ParseInt(s string) IntValue {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return NaN()
	}

	v, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return NaN()
	}
	return Int(v)
}

// String renders the value the way it was interpreted
func (v IntValue) String() string {
	if !v.Valid {
		return "NaN"
	}
	return strconv.FormatInt(v.Value, 10)
}

// MarshalJSON implements json.Marshaler
func (v IntValue) MarshalJSON() ([]byte, error) {
	if !v.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatInt(v.Value, 10)), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (v *IntValue) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = NaN()
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("int value: %w", err)
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		*v = NaN()
		return nil
	}
	*v = Int(int64(f))
	return nil
}

// FeatureVector is one house's attributes, typed per position
type FeatureVector struct {
	Area             IntValue
	Bedrooms         IntValue
	Bathrooms        IntValue
	Stories          IntValue
	MainRoad         string
	GuestRoom        string
	Basement         string
	HotWaterHeating  string
	AirConditioning  string
	Parking          IntValue
	PrefArea         string
	FurnishingStatus string
}

// Values returns the 12 features in wire order
func (v FeatureVector) Values() []any {
	return []any{
		v.Area,
		v.Bedrooms,
		v.Bathrooms,
		v.Stories,
		v.MainRoad,
		v.GuestRoom,
		v.Basement,
		v.HotWaterHeating,
		v.AirConditioning,
		v.Parking,
		v.PrefArea,
		v.FurnishingStatus,
	}
}

// MarshalJSON encodes the vector as a positional array
func (v FeatureVector) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Values())
}

// UnmarshalJSON decodes a positional array of exactly FeatureCount elements
func (v *FeatureVector) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("feature vector: %w", err)
	}
	if len(raw) != FeatureCount {
		return fmt.Errorf("feature vector: expected %d values, got %d", FeatureCount, len(raw))
	}

	ints := []*IntValue{&v.Area, &v.Bedrooms, &v.Bathrooms, &v.Stories}
	for i, dst := range ints {
		if err := json.Unmarshal(raw[i], dst); err != nil {
			return fmt.Errorf("feature %s: %w", FeatureNames[i], err)
		}
	}
	strs := map[int]*string{
		4: &v.MainRoad, 5: &v.GuestRoom, 6: &v.Basement, 7: &v.HotWaterHeating,
		8: &v.AirConditioning, 10: &v.PrefArea, 11: &v.FurnishingStatus,
	}
	for i, dst := range strs {
		if err := json.Unmarshal(raw[i], dst); err != nil {
			return fmt.Errorf("feature %s: %w", FeatureNames[i], err)
		}
	}
	if err := json.Unmarshal(raw[9], &v.Parking); err != nil {
		return fmt.Errorf("feature %s: %w", FeatureNames[9], err)
	}
	return nil
}

// Encode maps the vector onto numbers for similarity lookups: integers as-is,
// yes/no as 1/0 and furnishing as 2/1/0. Not-a-number and unknown labels map to 0.
func (v FeatureVector) Encode() []float32 {
	num := func(i IntValue) float32 {
		if !i.Valid {
			return 0
		}
		return float32(i.Value)
	}
	flag := func(s string) float32 {
		if strings.EqualFold(strings.TrimSpace(s), "yes") {
			return 1
		}
		return 0
	}
	var furnishing float32
	switch strings.ToLower(strings.TrimSpace(v.FurnishingStatus)) {
	case Furnished:
		furnishing = 2
	case SemiFurnished:
		furnishing = 1
	}

	return []float32{
		num(v.Area),
		num(v.Bedrooms),
		num(v.Bathrooms),
		num(v.Stories),
		flag(v.MainRoad),
		flag(v.GuestRoom),
		flag(v.Basement),
		flag(v.HotWaterHeating),
		flag(v.AirConditioning),
		num(v.Parking),
		flag(v.PrefArea),
		furnishing,
	}
}

package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInt(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  IntValue
	}{
		{name: "plain", input: "7420", want: Int(7420)},
		{name: "leading whitespace", input: "  \t42", want: Int(42)},
		{name: "trailing garbage", input: "12abc", want: Int(12)},
		{name: "decimal truncates", input: "3.9", want: Int(3)},
		{name: "exponent stops at e", input: "1e3", want: Int(1)},
		{name: "negative", input: "-2", want: Int(-2)},
		{name: "explicit plus", input: "+5", want: Int(5)},
		{name: "empty", input: "", want: NaN()},
		{name: "letters", input: "abc", want: NaN()},
		{name: "sign only", input: "-", want: NaN()},
		{name: "leading dot", input: ".5", want: NaN()},
		{name: "overflow", input: "99999999999999999999", want: NaN()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseInt(tt.input))
		})
	}
}

func sampleForm() PredictionForm {
	return PredictionForm{
		Area:             "7420",
		Bedrooms:         "4",
		Bathrooms:        "2",
		Stories:          "3",
		MainRoad:         "yes",
		GuestRoom:        "no",
		Basement:         "no",
		HotWaterHeating:  "no",
		AirConditioning:  "yes",
		Parking:          "2",
		PrefArea:         "yes",
		FurnishingStatus: Furnished,
	}
}

func TestPredictionRequest_PreservesFieldOrder(t *testing.T) {
	body, err := json.Marshal(PredictionRequest{Input: sampleForm().Vector()})
	require.NoError(t, err)

	assert.JSONEq(t,
		`{"input":[7420,4,2,3,"yes","no","no","no","yes",2,"yes","furnished"]}`,
		string(body))
}

func TestPredictionRequest_AllPositionsPresent(t *testing.T) {
	body, err := json.Marshal(PredictionRequest{Input: PredictionForm{}.Vector()})
	require.NoError(t, err)

	var decoded struct {
		Input []any `json:"input"`
	}
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Len(t, decoded.Input, FeatureCount)
}

func TestPredictionRequest_NaNForwardedAsNull(t *testing.T) {
	form := sampleForm()
	form.Area = ""
	form.Parking = "lots"

	body, err := json.Marshal(PredictionRequest{Input: form.Vector()})
	require.NoError(t, err)

	assert.JSONEq(t,
		`{"input":[null,4,2,3,"yes","no","no","no","yes",null,"yes","furnished"]}`,
		string(body))
}

func TestFeatureVector_UnmarshalJSON(t *testing.T) {
	var v FeatureVector
	err := json.Unmarshal([]byte(`[8960,4,4,4,"yes","no","no","no","yes",3,"no","semi-furnished"]`), &v)
	require.NoError(t, err)

	assert.Equal(t, Int(8960), v.Area)
	assert.Equal(t, Int(3), v.Parking)
	assert.Equal(t, "no", v.PrefArea)
	assert.Equal(t, SemiFurnished, v.FurnishingStatus)

	err = json.Unmarshal([]byte(`[1,2,3]`), &v)
	assert.Error(t, err)
}

func TestFeatureVector_Encode(t *testing.T) {
	got := sampleForm().Vector().Encode()
	assert.Equal(t, []float32{7420, 4, 2, 3, 1, 0, 0, 0, 1, 2, 1, 2}, got)

	form := sampleForm()
	form.Area = "n/a"
	form.FurnishingStatus = "unknown"
	got = form.Vector().Encode()
	assert.Equal(t, float32(0), got[0])
	assert.Equal(t, float32(0), got[11])
}

func TestFormFromLookup(t *testing.T) {
	values := map[string]string{}
	for i, name := range FeatureNames {
		values[name] = string(rune('a' + i))
	}
	form := FormFromLookup(func(name string) string { return values[name] })

	assert.Equal(t, "a", form.Area)
	assert.Equal(t, "j", form.Parking)
	assert.Equal(t, "l", form.FurnishingStatus)
}

package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alias1177/astrokit/models"
)

var sampleInput = models.PredictionInput{
	NASAConfidence:     0.9,
	SignalToNoise:      80,
	TransitDepth:       3000,
	OrbitalPeriod:      20,
	TransitDuration:    3,
	PlanetRadius:       2,
	PlanetTemperature:  500,
	FlagEphemerisMatch: true,
}

func TestClassify_SendsInputAndTranslatedModel(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/predict/", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{
			"status": "candidate",
			"confidence": 0.93,
			"explanation": "remote says yes",
			"probabilities": {"candidate": 0.93, "false_positive": 0.07},
			"feature_importance": [{"feature": "koi_score", "importance": 0.4}],
			"prediction_id": 17
		}`))
	}))
	defer srv.Close()

	c := NewClient(ClientOptions{BaseURL: srv.URL + "/api/"})
	res, err := c.Classify(context.Background(), sampleInput, models.MissionTESS)
	require.NoError(t, err)

	assert.Equal(t, models.PredictionResult{
		Status:      models.StatusCandidate,
		Confidence:  0.93,
		Explanation: "remote says yes",
	}, res)
	assert.Equal(t, "toi", got["model"])
	assert.Equal(t, 0.9, got["nasaConfidence"])
	assert.Equal(t, true, got["flagEphemerisMatch"])
	assert.Equal(t, false, got["flagNotTransit"])
}

func TestClassify_Failures(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		malformed bool
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `{"error":"boom"}`},
		{name: "not found", status: http.StatusNotFound, body: ``},
		{name: "bad json", status: http.StatusOK, body: `{"status":`, malformed: true},
		{name: "missing confidence", status: http.StatusOK, body: `{"status":"candidate","explanation":"x"}`, malformed: true},
		{name: "missing explanation", status: http.StatusOK, body: `{"status":"candidate","confidence":0.5}`, malformed: true},
		{name: "unknown status", status: http.StatusOK, body: `{"status":"confirmed","confidence":0.5,"explanation":"x"}`, malformed: true},
		{name: "percentage confidence", status: http.StatusOK, body: `{"status":"candidate","confidence":95,"explanation":"x"}`, malformed: true},
		{name: "negative confidence", status: http.StatusOK, body: `{"status":"unknown","confidence":-0.2,"explanation":"x"}`, malformed: true},
		{name: "error field", status: http.StatusOK, body: `{"error":"model not trained"}`, malformed: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewClient(ClientOptions{BaseURL: srv.URL})
			_, err := c.Classify(context.Background(), sampleInput, models.MissionK2)
			require.Error(t, err)
			assert.Equal(t, tt.malformed, errors.Is(err, ErrMalformed))
		})
	}
}

func TestClassify_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewClient(ClientOptions{BaseURL: url})
	_, err := c.Classify(context.Background(), sampleInput, models.MissionKepler)
	assert.Error(t, err)
}

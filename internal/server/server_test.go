package server

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alias1177/astrokit/internal/app"
	"github.com/Alias1177/astrokit/internal/config"
	"github.com/Alias1177/astrokit/internal/history"
	"github.com/Alias1177/astrokit/internal/scoring"
	"github.com/Alias1177/astrokit/models"
)

const strongBody = `{
	"nasaConfidence": 0.9, "signalToNoise": 80, "transitDepth": 3000,
	"orbitalPeriod": 20, "transitDuration": 3, "planetRadius": 2,
	"planetTemperature": 500, "flagNotTransit": false, "flagStellarEclipse": false,
	"flagCentroidOffset": false, "flagEphemerisMatch": true, "model": "%s"
}`

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	cfg := &config.Config{Store: config.StoreConfig{Driver: "memory", Slot: history.DefaultSlotName}}
	a, err := app.New(context.Background(), cfg, app.Options{Random: scoring.FixedSource(0.5)})
	require.NoError(t, err)

	s := New(a, config.ServerConfig{AllowedOrigins: []string{"http://localhost:5173"}})
	s.now = func() time.Time { return time.UnixMilli(1759579200000) }
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func predict(t *testing.T, ts *httptest.Server, model string) PredictResponse {
	t.Helper()
	body := strings.Replace(strongBody, "%s", model, 1)
	resp, err := http.Post(ts.URL+"/api/predict", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out PredictResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestHealth(t *testing.T) {
	_, ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestModels(t *testing.T) {
	_, ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/api/models")
	require.NoError(t, err)
	defer resp.Body.Close()

	var catalog []models.MissionInfo
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&catalog))
	require.Len(t, catalog, 3)
	assert.Equal(t, models.MissionK2, catalog[0].Name)
}

func TestPredict(t *testing.T) {
	_, ts := newTestServer(t)
	out := predict(t, ts, "toi")

	assert.Equal(t, scoring.SourceLocal, out.Source)
	assert.Equal(t, models.MissionTESS, out.Record.ModelName)
	assert.Equal(t, models.StatusCandidate, out.Record.Result.Status)
	assert.Equal(t, 0.88, out.Record.Result.Confidence)
	assert.NotEmpty(t, out.Record.ID)
}

func TestPredict_BadRequests(t *testing.T) {
	_, ts := newTestServer(t)
	tests := []struct {
		name string
		body string
	}{
		{"not json", `{`},
		{"unknown model", strings.Replace(strongBody, "%s", "Hubble", 1)},
		{"out of range", strings.Replace(strings.Replace(strongBody, "%s", "K2", 1), `"nasaConfidence": 0.9`, `"nasaConfidence": 2`, 1)},
		{"missing period", `{"nasaConfidence": 0.5, "model": "K2"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(ts.URL+"/api/predict", "application/json", strings.NewReader(tt.body))
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			var body errorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestHistory_ListFilterClear(t *testing.T) {
	_, ts := newTestServer(t)
	first := predict(t, ts, "K2")
	second := predict(t, ts, "Kepler")

	resp, err := http.Get(ts.URL + "/api/history?sort=oldest")
	require.NoError(t, err)
	var listed HistoryResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listed))
	resp.Body.Close()

	require.Len(t, listed.Records, 2)
	assert.Equal(t, first.Record.ID, listed.Records[0].ID)
	assert.Equal(t, second.Record.ID, listed.Records[1].ID)
	assert.Equal(t, 2, listed.Summary.Total)

	resp, err = http.Get(ts.URL + "/api/history?status=false_positive")
	require.NoError(t, err)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listed))
	resp.Body.Close()
	assert.Empty(t, listed.Records)

	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/api/history", nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/api/history")
	require.NoError(t, err)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listed))
	resp.Body.Close()
	assert.Empty(t, listed.Records)
}

func TestHistory_BadQuery(t *testing.T) {
	_, ts := newTestServer(t)
	for _, q := range []string{"?status=maybe", "?sort=random", "/export?format=pdf"} {
		resp, err := http.Get(ts.URL + "/api/history" + q)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, q)
	}
}

func TestExportCSV(t *testing.T) {
	_, ts := newTestServer(t)
	predict(t, ts, "TESS")

	resp, err := http.Get(ts.URL + "/api/history/export?format=csv")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "astrokit-predictions-1759579200000.csv")

	rows, err := csv.NewReader(resp.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, history.ExportColumns, rows[0])
	assert.Equal(t, "TESS", rows[1][1])
	assert.Equal(t, "candidate", rows[1][2])
}

func TestExportXLSX(t *testing.T) {
	_, ts := newTestServer(t)
	predict(t, ts, "K2")

	resp, err := http.Get(ts.URL + "/api/history/export?format=xlsx")
	require.NoError(t, err)
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), ".xlsx")
	// xlsx files are zip archives
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("PK")))
}

func TestMetricsEndpoint(t *testing.T) {
	_, ts := newTestServer(t)
	predict(t, ts, "K2")

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `astrokit_scoring_total{source="local",status="candidate"} 1`)
}

func TestCORS(t *testing.T) {
	_, ts := newTestServer(t)
	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/api/predict", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
}

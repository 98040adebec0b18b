package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpClient "github.com/Alias1177/astrokit/internal/platform/http"
	"github.com/Alias1177/astrokit/models"
)

// ErrMalformed is returned when the service answers 2xx with an unusable body
var ErrMalformed = errors.New("malformed classifier response")

// Client is the remote exoplanet classification API client
type Client struct {
	baseURL    string
	httpClient *httpClient.Client
	logger     zerolog.Logger
}

// ClientOptions holds options for creating a new classifier client
type ClientOptions struct {
	BaseURL        string // e.g. http://localhost:8001/api
	RequestTimeout time.Duration
	RequestsPerSec float64
	MaxRetries     int
}

// NewClient creates a new classifier API client
func NewClient(options ClientOptions) *Client {
	return &Client{
		baseURL: strings.TrimRight(options.BaseURL, "/"),
		httpClient: httpClient.NewClient(httpClient.ClientOptions{
			Timeout:        options.RequestTimeout,
			RequestsPerSec: options.RequestsPerSec,
			MaxRetries:     options.MaxRetries,
		}),
		logger: log.With().Str("component", "classifier_client").Logger(),
	}
}

// predictRequest is the wire body: the observation fields plus the remote model id
type predictRequest struct {
	models.PredictionInput
	Model string `json:"model"`
}

// predictResponse mirrors the service answer. Only status, confidence and
// explanation are used; the rest is decoded for logging.
type predictResponse struct {
	Status            *string            `json:"status"`
	Confidence        *float64           `json:"confidence"`
	Explanation       *string            `json:"explanation"`
	Probabilities     map[string]float64 `json:"probabilities,omitempty"`
	FeatureImportance []struct {
		Feature    string  `json:"feature"`
		Importance float64 `json:"importance"`
	} `json:"feature_importance,omitempty"`
	PredictionID *int64 `json:"prediction_id,omitempty"`
	Error        string `json:"error,omitempty"`
}

// Classify sends one observation to POST {base}/predict/ and returns the
// service's verdict verbatim
func (c *Client) Classify(ctx context.Context, input models.PredictionInput, mission models.MissionModel) (models.PredictionResult, error) {
	body, err := json.Marshal(predictRequest{PredictionInput: input, Model: mission.RemoteID()})
	if err != nil {
		return models.PredictionResult{}, fmt.Errorf("encoding request: %w", err)
	}

	url := c.baseURL + "/predict/"
	c.logger.Debug().Str("url", url).Str("model", mission.RemoteID()).Msg("Requesting remote classification")

	payload, err := c.httpClient.PostJSON(ctx, url, body)
	if err != nil {
		return models.PredictionResult{}, fmt.Errorf("classifier request: %w", err)
	}

	result, err := decodeResult(payload)
	if err != nil {
		c.logger.Warn().Err(err).Str("response", truncate(string(payload), 256)).Msg("Unusable classifier response")
		return models.PredictionResult{}, err
	}

	c.logger.Debug().
		Str("status", string(result.Status)).
		Float64("confidence", result.Confidence).
		Msg("Remote classification received")
	return result, nil
}

func decodeResult(payload []byte) (models.PredictionResult, error) {
	var resp predictResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return models.PredictionResult{}, fmt.Errorf("%w: parsing JSON: %v", ErrMalformed, err)
	}
	if resp.Error != "" {
		return models.PredictionResult{}, fmt.Errorf("%w: service error: %s", ErrMalformed, resp.Error)
	}
	if resp.Status == nil || resp.Confidence == nil || resp.Explanation == nil {
		return models.PredictionResult{}, fmt.Errorf("%w: status, confidence and explanation are required", ErrMalformed)
	}

	status := models.Status(*resp.Status)
	if !status.Valid() {
		return models.PredictionResult{}, fmt.Errorf("%w: unknown status %q", ErrMalformed, *resp.Status)
	}
	if math.IsNaN(*resp.Confidence) || math.IsInf(*resp.Confidence, 0) {
		return models.PredictionResult{}, fmt.Errorf("%w: non-finite confidence", ErrMalformed)
	}
	if *resp.Confidence < 0 || *resp.Confidence > 1 {
		return models.PredictionResult{}, fmt.Errorf("%w: confidence %v outside [0,1]", ErrMalformed, *resp.Confidence)
	}

	return models.PredictionResult{
		Status:      status,
		Confidence:  *resp.Confidence,
		Explanation: *resp.Explanation,
	}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

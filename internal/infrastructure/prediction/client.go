package prediction

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"

	"saltmarket/internal/domain"
	"saltmarket/internal/domain/value"
	"saltmarket/pkg/errcodes"
	"saltmarket/pkg/httpx"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

const defaultTimeout = 15 * time.Second

// Client talks to the salt-production prediction microservice. Every request
// carries the caller's context, so an abandoned caller cancels the request
// instead of letting a stale response land later.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, opts ...httpx.Option) *Client {
	transport := httpx.NewLoggingRoundTripper(http.DefaultTransport, opts...)

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   defaultTimeout,
		},
	}
}

// WithTimeout overrides the default per-request timeout.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	if timeout > 0 {
		c.httpClient.Timeout = timeout
	}

	return c
}

// PredictRequest mirrors the feature vector the prediction model was trained
// on.
type PredictRequest struct {
	TemperatureC float64 `json:"temperature_c"`
	HumidityPct  float64 `json:"humidity_pct"`
	RainfallMm   float64 `json:"rainfall_mm"`
	WindSpeedKmh float64 `json:"wind_speed_kmh"`
	ProductionKg float64 `json:"production_kg"`
	Month        int     `json:"month"`
}

type PredictResponse struct {
	PredictedTons float64            `json:"predicted_tons"`
	Breakdown     map[string]float64 `json:"breakdown,omitempty"`
	ModelVersion  string             `json:"model_version,omitempty"`
}

// Prediction is one stored prediction row from the paging endpoint.
type Prediction struct {
	DataID        string    `json:"data_id"`
	PredictedTons float64   `json:"predicted_tons"`
	CreatedAt     time.Time `json:"created_at"`
}

type predictionsPage struct {
	Items []Prediction `json:"items"`
}

// Predict runs a single prediction (POST /predict).
func (c *Client) Predict(ctx context.Context, request PredictRequest) (PredictResponse, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return PredictResponse{}, fmt.Errorf("json.Marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return PredictResponse{}, fmt.Errorf("http.NewRequestWithContext: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	var response PredictResponse
	if err := c.do(req, &response); err != nil {
		return PredictResponse{}, err
	}

	return response, nil
}

// Predictions pages stored predictions (GET /predictions).
func (c *Client) Predictions(ctx context.Context, nextDataID string, pageSize int) ([]Prediction, error) {
	query := url.Values{}
	query.Set("next_data_id", nextDataID)
	query.Set("page_size", strconv.Itoa(pageSize))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/predictions?"+query.Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("http.NewRequestWithContext: %w", err)
	}

	var page predictionsPage
	if err := c.do(req, &page); err != nil {
		return nil, err
	}

	return page.Items, nil
}

const seasonPageSize = 50

// SeasonTotal sums the stored predictions for one landowner into the season
// production total the allocation flow is based on.
func (c *Client) SeasonTotal(ctx context.Context, landownerID value.PartyID) (float64, error) {
	predictions, err := c.Predictions(ctx, landownerID.String(), seasonPageSize)
	if err != nil {
		return 0, fmt.Errorf("predictions: %w", err)
	}

	var total float64
	for _, p := range predictions {
		total += p.PredictedTons
	}

	return total, nil
}

func (c *Client) do(req *http.Request, dest any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.WrapError(err, errcodes.PredictionFailed, "prediction service unreachable")
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.NewError(errcodes.PredictionFailed,
			fmt.Sprintf("prediction service returned %d", resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return domain.WrapError(err, errcodes.PredictionFailed, "failed to decode prediction response")
	}

	return nil
}

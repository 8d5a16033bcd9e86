package prediction_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"saltmarket/internal/domain"
	"saltmarket/internal/infrastructure/prediction"
	"saltmarket/pkg/errcodes"
)

func TestPredict(t *testing.T) {
	rq := require.New(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rq.Equal(http.MethodPost, r.Method)
		rq.Equal("/predict", r.URL.Path)
		rq.Equal("application/json", r.Header.Get("Content-Type"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"predicted_tons": 42.5, "model_version": "rf-v3"}`))
	}))
	defer srv.Close()

	client := prediction.NewClient(srv.URL)

	response, err := client.Predict(context.Background(), prediction.PredictRequest{
		TemperatureC: 31.2,
		HumidityPct:  68,
		RainfallMm:   0,
		WindSpeedKmh: 14,
		ProductionKg: 1200,
		Month:        8,
	})
	rq.NoError(err)
	rq.InDelta(42.5, response.PredictedTons, 1e-9)
	rq.Equal("rf-v3", response.ModelVersion)
}

func TestSeasonTotalSumsPage(t *testing.T) {
	rq := require.New(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rq.Equal("/predictions", r.URL.Path)
		rq.Equal("lo-1", r.URL.Query().Get("next_data_id"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items": [
			{"data_id": "d1", "predicted_tons": 30},
			{"data_id": "d2", "predicted_tons": 25.5},
			{"data_id": "d3", "predicted_tons": 14.5}
		]}`))
	}))
	defer srv.Close()

	client := prediction.NewClient(srv.URL)

	total, err := client.SeasonTotal(context.Background(), "lo-1")
	rq.NoError(err)
	rq.InDelta(70, total, 1e-9)
}

func TestPredictServerError(t *testing.T) {
	rq := require.New(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := prediction.NewClient(srv.URL)

	_, err := client.Predict(context.Background(), prediction.PredictRequest{})
	code, ok := domain.GetCode(err)
	rq.True(ok)
	rq.Equal(errcodes.PredictionFailed, code)
}

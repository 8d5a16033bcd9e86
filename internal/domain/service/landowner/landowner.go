package landowner

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"

	"saltmarket/internal/domain/entity"
	"saltmarket/internal/domain/value"
)

const predictionCacheTTL = 10 * time.Minute

type Repository interface {
	GetByID(ctx context.Context, id value.PartyID) (*entity.Landowner, error)
	SetPrediction(ctx context.Context, id value.PartyID, predictedSeasonTotal, availableTons float64) error
}

type DealRepository interface {
	ClaimedTons(ctx context.Context, landownerID value.PartyID) (float64, error)
}

// PredictionClient fetches the predicted season production total for a
// landowner from the prediction microservice.
type PredictionClient interface {
	SeasonTotal(ctx context.Context, landownerID value.PartyID) (float64, error)
}

// Summary is the landowner dashboard header: prediction, claimed and
// remaining tons.
type Summary struct {
	Landowner     entity.Landowner
	ClaimedTons   float64
	AvailableTons float64
}

type Service struct {
	repo        Repository
	deals       DealRepository
	predictions PredictionClient
	cache       *cache.Cache
}

func NewService(repo Repository, deals DealRepository, predictions PredictionClient) *Service {
	return &Service{
		repo:        repo,
		deals:       deals,
		predictions: predictions,
		cache:       cache.New(predictionCacheTTL, predictionCacheTTL),
	}
}

// Summary recomputes available tons from the claimed quantities so the header
// never drifts from the deal collection.
func (s *Service) Summary(ctx context.Context, id value.PartyID) (Summary, error) {
	landowner, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Summary{}, fmt.Errorf("repo.GetByID: %w", err)
	}

	claimed, err := s.deals.ClaimedTons(ctx, id)
	if err != nil {
		return Summary{}, fmt.Errorf("deals.ClaimedTons: %w", err)
	}

	return Summary{
		Landowner:     *landowner,
		ClaimedTons:   claimed,
		AvailableTons: landowner.PredictedSeasonTotal - claimed,
	}, nil
}

// RefreshPrediction pulls the season total from the prediction service
// (cached) and rebases available tons on it, preserving already-claimed
// quantities.
func (s *Service) RefreshPrediction(ctx context.Context, id value.PartyID) (*entity.Landowner, error) {
	landowner, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("repo.GetByID: %w", err)
	}

	predicted, err := s.seasonTotal(ctx, id)
	if err != nil {
		if landowner.PredictedSeasonTotal > 0 {
			logger(ctx).Warn("prediction fetch failed, keeping stored total",
				"landowner_id", id.String(),
				"stored_total", landowner.PredictedSeasonTotal,
				"error", err,
			)
			return landowner, nil
		}

		return nil, fmt.Errorf("seasonTotal: %w", err)
	}

	claimed, err := s.deals.ClaimedTons(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("deals.ClaimedTons: %w", err)
	}

	available := predicted - claimed
	if available < 0 {
		available = 0
	}

	if err := s.repo.SetPrediction(ctx, id, predicted, available); err != nil {
		return nil, fmt.Errorf("repo.SetPrediction: %w", err)
	}

	landowner.PredictedSeasonTotal = predicted
	landowner.AvailableTons = available

	return landowner, nil
}

func (s *Service) seasonTotal(ctx context.Context, id value.PartyID) (float64, error) {
	if cached, found := s.cache.Get(id.String()); found {
		if total, ok := cached.(float64); ok {
			return total, nil
		}
	}

	total, err := s.predictions.SeasonTotal(ctx, id)
	if err != nil {
		return 0, err
	}

	s.cache.Set(id.String(), total, cache.DefaultExpiration)

	return total, nil
}

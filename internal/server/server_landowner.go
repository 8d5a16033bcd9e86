package server

import (
	"context"
	"fmt"
	"net/http"

	"saltmarket/internal/domain/entity"
	"saltmarket/internal/domain/service/landowner"
	"saltmarket/internal/domain/value"
	"saltmarket/pkg/httpx/reply"
	"saltmarket/pkg/rest"
)

type landownerService interface {
	Summary(ctx context.Context, id value.PartyID) (landowner.Summary, error)
	RefreshPrediction(ctx context.Context, id value.PartyID) (*entity.Landowner, error)
}

type LandownerServer struct {
	landownerService landownerService
}

func NewLandownerServer(landownerService landownerService) LandownerServer {
	return LandownerServer{
		landownerService: landownerService,
	}
}

func (s LandownerServer) getV1LandownerSummary(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	id, err := value.ParsePartyID(r.PathValue("id"))
	if err != nil {
		return fmt.Errorf("value.ParsePartyID: %w", err)
	}

	summary, err := s.landownerService.Summary(ctx, id)
	if err != nil {
		return fmt.Errorf("landownerService.Summary: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTSummary(summary))

	return nil
}

// postV1LandownerRefreshPrediction pulls a fresh season total from the
// prediction service and rebases available tons on it.
func (s LandownerServer) postV1LandownerRefreshPrediction(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	id, err := value.ParsePartyID(r.PathValue("id"))
	if err != nil {
		return fmt.Errorf("value.ParsePartyID: %w", err)
	}

	updated, err := s.landownerService.RefreshPrediction(ctx, id)
	if err != nil {
		return fmt.Errorf("landownerService.RefreshPrediction: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, rest.LandownerSummary{
		ID:                   updated.ID.String(),
		Name:                 updated.Name,
		PredictedSeasonTotal: updated.PredictedSeasonTotal,
		AvailableTons:        updated.AvailableTons,
		ClaimedTons:          updated.PredictedSeasonTotal - updated.AvailableTons,
		UpdatedAt:            updated.UpdatedAt,
	})

	return nil
}

package entity

import (
	"time"

	"saltmarket/internal/domain/value"
)

// Landowner carries the season summary used by the allocation flow.
//
// AvailableTons = PredictedSeasonTotal - sum(quantity of ACCEPTED|COMPLETED
// deals of this landowner). The deal store maintains it inside the same
// transaction that records an accepted deal.
type Landowner struct {
	ID                   value.PartyID `json:"id"`
	Name                 string        `json:"name"`
	PredictedSeasonTotal float64       `json:"predicted_season_total"`
	AvailableTons        float64       `json:"available_tons"`
	UpdatedAt            time.Time     `json:"updated_at"`
}

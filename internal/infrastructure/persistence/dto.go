package persistence

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"saltmarket/internal/domain/entity"
	"saltmarket/internal/domain/value"
)

type offerSchema struct {
	ID            string    `db:"id"`
	SellerID      string    `db:"seller_id"`
	Name          string    `db:"name"`
	PricePerTon   float64   `db:"price_per_ton"`
	DemandTons    float64   `db:"demand_tons"`
	Reliability   string    `db:"reliability"`
	IsRecommended bool      `db:"is_recommended"`
	PublishedAt   time.Time `db:"published_at"`
}

func (s offerSchema) toDomain() (entity.SellerOffer, error) {
	reliability, err := value.ParseReliability(s.Reliability)
	if err != nil {
		return entity.SellerOffer{}, fmt.Errorf("value.ParseReliability: %w", err)
	}

	return entity.SellerOffer{
		ID:            value.OfferID(s.ID),
		SellerID:      value.PartyID(s.SellerID),
		Name:          s.Name,
		PricePerTon:   s.PricePerTon,
		DemandTons:    s.DemandTons,
		Reliability:   reliability,
		IsRecommended: s.IsRecommended,
		Timestamp:     s.PublishedAt,
	}, nil
}

type dealSchema struct {
	ID              string          `db:"id"`
	BatchID         sql.NullString  `db:"batch_id"`
	SellerID        string          `db:"seller_id"`
	SellerName      string          `db:"seller_name"`
	LandownerID     string          `db:"landowner_id"`
	LandownerName   string          `db:"landowner_name"`
	Quantity        float64         `db:"quantity"`
	PricePerTon     float64         `db:"price_per_ton"`
	TotalPrice      float64         `db:"total_price"`
	Status          string          `db:"status"`
	Negotiations    json.RawMessage `db:"negotiations"`
	ProductionCosts sql.NullFloat64 `db:"production_costs"`
	NetProfit       sql.NullFloat64 `db:"net_profit"`
	CreatedAt       time.Time       `db:"created_at"`
	AcceptedAt      sql.NullTime    `db:"accepted_at"`
	CompletedAt     sql.NullTime    `db:"completed_at"`
}

func (s dealSchema) toDomain() (*entity.Deal, error) {
	status, err := value.ParseDealStatus(s.Status)
	if err != nil {
		return nil, fmt.Errorf("value.ParseDealStatus: %w", err)
	}

	deal := &entity.Deal{
		ID:            value.DealID(s.ID),
		SellerID:      value.PartyID(s.SellerID),
		SellerName:    s.SellerName,
		LandownerID:   value.PartyID(s.LandownerID),
		LandownerName: s.LandownerName,
		Quantity:      s.Quantity,
		PricePerTon:   s.PricePerTon,
		TotalPrice:    s.TotalPrice,
		Status:        status,
		CreatedAt:     s.CreatedAt,
	}

	if s.BatchID.Valid {
		deal.BatchID = value.BatchID(s.BatchID.String)
	}

	if len(s.Negotiations) > 0 {
		if err := json.Unmarshal(s.Negotiations, &deal.Negotiations); err != nil {
			return nil, fmt.Errorf("unmarshal negotiations: %w", err)
		}
	}

	if s.ProductionCosts.Valid {
		deal.ProductionCosts = &s.ProductionCosts.Float64
	}

	if s.NetProfit.Valid {
		deal.NetProfit = &s.NetProfit.Float64
	}

	if s.AcceptedAt.Valid {
		at := s.AcceptedAt.Time
		deal.AcceptedAt = &at
	}

	if s.CompletedAt.Valid {
		at := s.CompletedAt.Time
		deal.CompletedAt = &at
	}

	return deal, nil
}

type notificationSchema struct {
	ID          string         `db:"id"`
	Type        string         `db:"type"`
	Title       string         `db:"title"`
	Message     string         `db:"message"`
	RecipientID string         `db:"recipient_id"`
	DealID      sql.NullString `db:"deal_id"`
	Read        bool           `db:"read"`
	CreatedAt   time.Time      `db:"created_at"`
}

func (s notificationSchema) toDomain() (entity.Notification, error) {
	kind, err := value.ParseNotificationType(s.Type)
	if err != nil {
		return entity.Notification{}, fmt.Errorf("value.ParseNotificationType: %w", err)
	}

	notification := entity.Notification{
		ID:          value.NotificationID(s.ID),
		Type:        kind,
		Title:       s.Title,
		Message:     s.Message,
		RecipientID: value.PartyID(s.RecipientID),
		Read:        s.Read,
		Timestamp:   s.CreatedAt,
	}

	if s.DealID.Valid {
		dealID := value.DealID(s.DealID.String)
		notification.DealID = &dealID
	}

	return notification, nil
}

type landownerSchema struct {
	ID                   string    `db:"id"`
	Name                 string    `db:"name"`
	PredictedSeasonTotal float64   `db:"predicted_season_total"`
	AvailableTons        float64   `db:"available_tons"`
	UpdatedAt            time.Time `db:"updated_at"`
}

func (s landownerSchema) toDomain() *entity.Landowner {
	return &entity.Landowner{
		ID:                   value.PartyID(s.ID),
		Name:                 s.Name,
		PredictedSeasonTotal: s.PredictedSeasonTotal,
		AvailableTons:        s.AvailableTons,
		UpdatedAt:            s.UpdatedAt,
	}
}

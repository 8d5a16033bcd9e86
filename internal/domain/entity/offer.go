package entity

import (
	"time"

	"saltmarket/internal/domain/value"
)

// SellerOffer is a published demand offer: a seller asks for up to DemandTons
// at PricePerTon. Offers are immutable once published; a seller republishes to
// change terms, which appends a new record.
type SellerOffer struct {
	ID            value.OfferID     `json:"id"`
	SellerID      value.PartyID     `json:"seller_id"`
	Name          string            `json:"name"`
	PricePerTon   float64           `json:"price_per_ton"`
	DemandTons    float64           `json:"demand_tons"`
	Reliability   value.Reliability `json:"reliability"`
	IsRecommended bool              `json:"is_recommended"`
	Timestamp     time.Time         `json:"timestamp"`
}

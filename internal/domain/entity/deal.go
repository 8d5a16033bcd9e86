package entity

import (
	"time"

	"saltmarket/internal/domain/value"
)

// Deal is the contract between one seller and one landowner. It is owned
// exclusively by the deal store; other aggregates hold only its ID.
//
// Invariant at creation: TotalPrice == Quantity * PricePerTon.
type Deal struct {
	ID            value.DealID  `json:"id"`
	BatchID       value.BatchID `json:"batch_id,omitempty"`
	SellerID      value.PartyID `json:"seller_id"`
	SellerName    string        `json:"seller_name"`
	LandownerID   value.PartyID `json:"landowner_id"`
	LandownerName string        `json:"landowner_name"`

	Quantity    float64          `json:"quantity"`
	PricePerTon float64          `json:"price_per_ton"`
	TotalPrice  float64          `json:"total_price"`
	Status      value.DealStatus `json:"status"`

	Negotiations []NegotiationMessage `json:"negotiations,omitempty"`

	ProductionCosts *float64 `json:"production_costs,omitempty"`
	NetProfit       *float64 `json:"net_profit,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	AcceptedAt  *time.Time `json:"accepted_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// DealPatch is a partial update; nil fields are left untouched.
type DealPatch struct {
	Status          *value.DealStatus `json:"status,omitempty"`
	ProductionCosts *float64          `json:"production_costs,omitempty"`
	NetProfit       *float64          `json:"net_profit,omitempty"`
}

// NegotiationMessage is one entry of a deal's counter-offer log.
type NegotiationMessage struct {
	ID          string        `json:"id"`
	SenderID    value.PartyID `json:"sender_id"`
	Message     string        `json:"message"`
	PricePerTon *float64      `json:"price_per_ton,omitempty"`
	Quantity    *float64      `json:"quantity,omitempty"`
	SentAt      time.Time     `json:"sent_at"`
}

// Wire types of the marketplace HTTP API.
package rest

import "time"

type SellerOffer struct {
	ID            string    `json:"id"`
	SellerID      string    `json:"sellerId"`
	Name          string    `json:"name"`
	PricePerTon   float64   `json:"pricePerTon"`
	DemandTons    float64   `json:"demandTons"`
	Reliability   string    `json:"reliability"`
	IsRecommended bool      `json:"isRecommended"`
	Timestamp     time.Time `json:"timestamp"`
}

type PublishOfferRequest struct {
	SellerID      string  `json:"sellerId" validate:"required"`
	Name          string  `json:"name" validate:"required"`
	PricePerTon   float64 `json:"pricePerTon" validate:"required,gt=0"`
	DemandTons    float64 `json:"demandTons" validate:"required,gt=0"`
	Reliability   string  `json:"reliability" validate:"required,oneof=High Medium Low"`
	IsRecommended bool    `json:"isRecommended"`
}

type ProductionCosts struct {
	Fertilizer float64 `json:"fertilizer" validate:"gte=0"`
	Labor      float64 `json:"labor" validate:"gte=0"`
	Transport  float64 `json:"transport" validate:"gte=0"`
}

type RankedOffer struct {
	Offer        SellerOffer `json:"offer"`
	SellingTons  float64     `json:"sellingTons"`
	Revenue      float64     `json:"revenue"`
	Profit       float64     `json:"profit"`
	ProfitPerTon float64     `json:"profitPerTon"`
	IsBest       bool        `json:"isBest"`
}

type RankedOffersResponse struct {
	AvailableTons float64       `json:"availableTons"`
	Offers        []RankedOffer `json:"offers"`
}

type NegotiationMessage struct {
	ID          string    `json:"id"`
	SenderID    string    `json:"senderId"`
	Message     string    `json:"message"`
	PricePerTon *float64  `json:"pricePerTon,omitempty"`
	Quantity    *float64  `json:"quantity,omitempty"`
	SentAt      time.Time `json:"sentAt"`
}

type Deal struct {
	ID              string               `json:"id"`
	BatchID         string               `json:"batchId,omitempty"`
	SellerID        string               `json:"sellerId"`
	SellerName      string               `json:"sellerName"`
	LandownerID     string               `json:"landownerId"`
	LandownerName   string               `json:"landownerName"`
	Quantity        float64              `json:"quantity"`
	PricePerTon     float64              `json:"pricePerTon"`
	TotalPrice      float64              `json:"totalPrice"`
	Status          string               `json:"status"`
	Negotiations    []NegotiationMessage `json:"negotiations,omitempty"`
	ProductionCosts *float64             `json:"productionCosts,omitempty"`
	NetProfit       *float64             `json:"netProfit,omitempty"`
	CreatedAt       time.Time            `json:"createdAt"`
	AcceptedAt      *time.Time           `json:"acceptedAt,omitempty"`
	CompletedAt     *time.Time           `json:"completedAt,omitempty"`
}

type OpenDealRequest struct {
	SellerID      string  `json:"sellerId" validate:"required"`
	SellerName    string  `json:"sellerName" validate:"required"`
	LandownerID   string  `json:"landownerId" validate:"required"`
	LandownerName string  `json:"landownerName" validate:"required"`
	Quantity      float64 `json:"quantity" validate:"required,gt=0"`
	PricePerTon   float64 `json:"pricePerTon" validate:"required,gt=0"`
}

type CounterOfferRequest struct {
	SenderID    string   `json:"senderId" validate:"required"`
	Message     string   `json:"message" validate:"required"`
	PricePerTon *float64 `json:"pricePerTon,omitempty" validate:"omitempty,gt=0"`
	Quantity    *float64 `json:"quantity,omitempty" validate:"omitempty,gt=0"`
}

type UpdateDealRequest struct {
	Status          *string  `json:"status,omitempty" validate:"omitempty,oneof=NEGOTIATING ACCEPTED COMPLETED REJECTED"`
	ProductionCosts *float64 `json:"productionCosts,omitempty" validate:"omitempty,gte=0"`
	NetProfit       *float64 `json:"netProfit,omitempty"`
}

type AllocationSelection struct {
	OfferID  string  `json:"offerId" validate:"required"`
	Quantity float64 `json:"quantity" validate:"gte=0"`
}

type NegotiationReviewRequest struct {
	LandownerID string                `json:"landownerId" validate:"required"`
	Selections  []AllocationSelection `json:"selections" validate:"required,min=1,dive"`
	Costs       *ProductionCosts      `json:"costs,omitempty"`
}

type AllocationLine struct {
	Offer    SellerOffer `json:"offer"`
	Quantity float64     `json:"quantity"`
	Revenue  float64     `json:"revenue"`
}

type NegotiationReview struct {
	Lines         []AllocationLine `json:"lines"`
	TotalRevenue  float64          `json:"totalRevenue"`
	TotalProfit   *float64         `json:"totalProfit,omitempty"`
	AvailableTons float64          `json:"availableTons"`
	RemainingTons float64          `json:"remainingTons"`
}

type NegotiationAcceptResponse struct {
	BatchID      string   `json:"batchId"`
	Deals        []Deal   `json:"deals"`
	TotalRevenue float64  `json:"totalRevenue"`
	TotalProfit  *float64 `json:"totalProfit,omitempty"`
}

type Notification struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Message     string    `json:"message"`
	RecipientID string    `json:"recipientId"`
	DealID      *string   `json:"dealId,omitempty"`
	Read        bool      `json:"read"`
	Timestamp   time.Time `json:"timestamp"`
}

type LandownerSummary struct {
	ID                   string    `json:"id"`
	Name                 string    `json:"name"`
	PredictedSeasonTotal float64   `json:"predictedSeasonTotal"`
	ClaimedTons          float64   `json:"claimedTons"`
	AvailableTons        float64   `json:"availableTons"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

// Error is the error envelope returned on failures.
type Error struct {
	// Code is a stable machine-readable error code.
	Code ErrorCode `json:"code"`

	// Message is a human-readable description for the UI.
	Message string `json:"message"`
}

// ErrorCode is a stable error code.
type ErrorCode string

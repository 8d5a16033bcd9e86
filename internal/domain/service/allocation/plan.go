package allocation

import (
	"math"

	"saltmarket/internal/domain"
	"saltmarket/internal/domain/entity"
	"saltmarket/internal/domain/value"
	"saltmarket/pkg/errcodes"
)

// Plan is the ephemeral allocation map built while a landowner reviews offers.
// It is never persisted; a successful accept resets it.
//
// Invariant after every mutation: sum(allocations) <= availableTons.
type Plan struct {
	availableTons float64
	order         []value.OfferID
	offers        map[value.OfferID]entity.SellerOffer
	allocated     map[value.OfferID]float64
}

func NewPlan(availableTons float64, offers []entity.SellerOffer) *Plan {
	p := &Plan{
		availableTons: availableTons,
		order:         make([]value.OfferID, 0, len(offers)),
		offers:        make(map[value.OfferID]entity.SellerOffer, len(offers)),
		allocated:     make(map[value.OfferID]float64, len(offers)),
	}

	for _, offer := range offers {
		if _, ok := p.offers[offer.ID]; ok {
			continue
		}

		p.order = append(p.order, offer.ID)
		p.offers[offer.ID] = offer
	}

	return p
}

// Set allocates tons to one offer and returns the stored value. The request
// is clamped to [0, maxAllowable] where
//
//	maxAllowable = min(offer.DemandTons, remaining + currentAllocationForOffer)
//
// The "+ current" term reopens the caller's own already-claimed capacity, so
// one offer can be raised after another is lowered.
//
// Non-finite quantities are rejected, not coerced to zero.
func (p *Plan) Set(id value.OfferID, tons float64) (float64, error) {
	offer, ok := p.offers[id]
	if !ok {
		return 0, domain.NewError(errcodes.OfferNotFound, "offer not in plan")
	}

	if math.IsNaN(tons) || math.IsInf(tons, 0) {
		return 0, domain.NewError(errcodes.InvalidQuantity, "quantity is not a finite number")
	}

	current := p.allocated[id]
	maxAllowable := min(offer.DemandTons, p.Remaining()+current)

	clamped := min(max(tons, 0), maxAllowable)
	p.allocated[id] = clamped

	return clamped, nil
}

func (p *Plan) Allocated(id value.OfferID) float64 {
	return p.allocated[id]
}

// Total is the sum of all current allocations. Zero for an empty plan.
func (p *Plan) Total() float64 {
	var total float64
	for _, tons := range p.allocated {
		total += tons
	}

	return total
}

func (p *Plan) Remaining() float64 {
	return p.availableTons - p.Total()
}

func (p *Plan) AvailableTons() float64 {
	return p.availableTons
}

// Lines returns the non-zero allocations in the order offers were added.
func (p *Plan) Lines() []Line {
	lines := make([]Line, 0, len(p.order))

	for _, id := range p.order {
		tons := p.allocated[id]
		if tons <= 0 {
			continue
		}

		offer := p.offers[id]

		lines = append(lines, Line{
			Offer:    offer,
			Quantity: tons,
			Revenue:  tons * offer.PricePerTon,
		})
	}

	return lines
}

// Reset discards every allocation, keeping the offer set.
func (p *Plan) Reset() {
	p.allocated = make(map[value.OfferID]float64, len(p.offers))
}

// Line is one committed row of a reviewed plan.
type Line struct {
	Offer    entity.SellerOffer `json:"offer"`
	Quantity float64            `json:"quantity"`
	Revenue  float64            `json:"revenue"`
}

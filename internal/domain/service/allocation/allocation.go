package allocation

import (
	"sort"

	"saltmarket/internal/domain/entity"
	"saltmarket/internal/domain/value"
)

// DefaultHighDemandThreshold caps the demand (in tons) an offer may carry and
// still qualify for best-offer selection. Sellers asking for very large
// volumes would otherwise win mechanically on nominal profit magnitude.
const DefaultHighDemandThreshold = 30.0

// OfferWithProfit is a ranked offer enriched with the profit scenario for one
// landowner.
type OfferWithProfit struct {
	Offer        entity.SellerOffer `json:"offer"`
	SellingTons  float64            `json:"selling_tons"`
	Revenue      float64            `json:"revenue"`
	Profit       float64            `json:"profit"`
	ProfitPerTon float64            `json:"profit_per_ton"`
}

// RankOffers computes the profit scenario of every offer against the
// landowner's available tons and fixed production costs, sorted descending by
// price per ton. Ordering is by price, not profit: the catalogue favors price
// transparency, best-offer selection is a separate concern.
//
// The cost total is a shared fixed cost applied once per scenario, not per
// offer.
func RankOffers(availableTons float64, costs value.ProductionCosts, offers []entity.SellerOffer) []OfferWithProfit {
	totalCost := costs.Total()

	ranked := make([]OfferWithProfit, 0, len(offers))

	for _, offer := range offers {
		sellingTons := min(availableTons, offer.DemandTons)
		revenue := sellingTons * offer.PricePerTon
		profit := revenue - totalCost

		profitPerTon := 0.0
		if sellingTons > 0 {
			profitPerTon = profit / sellingTons
		}

		ranked = append(ranked, OfferWithProfit{
			Offer:        offer,
			SellingTons:  sellingTons,
			Revenue:      revenue,
			Profit:       profit,
			ProfitPerTon: profitPerTon,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Offer.PricePerTon > ranked[j].Offer.PricePerTon
	})

	return ranked
}

// BestOffer picks the most profitable offer among those whose demand does not
// exceed highDemandThreshold. Ties resolve first-wins in ranked order. When no
// offer is eligible the first entry of the price-sorted list is returned as a
// fallback. ok is false only for an empty list.
func BestOffer(ranked []OfferWithProfit, highDemandThreshold float64) (best OfferWithProfit, ok bool) {
	if len(ranked) == 0 {
		return OfferWithProfit{}, false
	}

	found := false

	for _, candidate := range ranked {
		if candidate.Offer.DemandTons > highDemandThreshold {
			continue
		}

		if !found || candidate.Profit > best.Profit {
			best = candidate
			found = true
		}
	}

	if !found {
		return ranked[0], true
	}

	return best, true
}

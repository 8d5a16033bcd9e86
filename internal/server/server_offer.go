package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/samber/lo"

	"saltmarket/internal/domain/entity"
	"saltmarket/internal/domain/service/allocation"
	"saltmarket/internal/domain/service/landowner"
	"saltmarket/internal/domain/value"
	"saltmarket/pkg/httpx/reply"
	"saltmarket/pkg/httpx/req"
	"saltmarket/pkg/rest"
)

type offerService interface {
	PublishOffer(ctx context.Context, offer entity.SellerOffer) (entity.SellerOffer, error)
	GetOffer(ctx context.Context, id value.OfferID) (*entity.SellerOffer, error)
	ListOffers(ctx context.Context, limit, offset int) ([]entity.SellerOffer, error)
	CurrentOffer(ctx context.Context, sellerID value.PartyID) (*entity.SellerOffer, error)
}

type landownerSummaries interface {
	Summary(ctx context.Context, id value.PartyID) (landowner.Summary, error)
}

type OfferServer struct {
	offerService        offerService
	landownerSummaries  landownerSummaries
	highDemandThreshold float64
}

func NewOfferServer(
	offerService offerService,
	landownerSummaries landownerSummaries,
	highDemandThreshold float64,
) OfferServer {
	if highDemandThreshold <= 0 {
		highDemandThreshold = allocation.DefaultHighDemandThreshold
	}

	return OfferServer{
		offerService:        offerService,
		landownerSummaries:  landownerSummaries,
		highDemandThreshold: highDemandThreshold,
	}
}

func (s OfferServer) postV1Offer(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.PublishOfferRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	reliability, err := value.ParseReliability(request.Reliability)
	if err != nil {
		return fmt.Errorf("value.ParseReliability: %w", err)
	}

	offer, err := s.offerService.PublishOffer(ctx, entity.SellerOffer{
		SellerID:      value.PartyID(request.SellerID),
		Name:          request.Name,
		PricePerTon:   request.PricePerTon,
		DemandTons:    request.DemandTons,
		Reliability:   reliability,
		IsRecommended: request.IsRecommended,
	})
	if err != nil {
		return fmt.Errorf("offerService.PublishOffer: %w", err)
	}

	reply.JSON(ctx, w, http.StatusCreated, newRESTOffer(offer))

	return nil
}

func (s OfferServer) getV1Offer(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	id, err := value.ParseOfferID(r.PathValue("id"))
	if err != nil {
		return fmt.Errorf("value.ParseOfferID: %w", err)
	}

	offer, err := s.offerService.GetOffer(ctx, id)
	if err != nil {
		return fmt.Errorf("offerService.GetOffer: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTOffer(*offer))

	return nil
}

// getV1Offers lists the catalogue; with sellerId it narrows to that seller's
// current offer.
func (s OfferServer) getV1Offers(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	if sellerID := r.URL.Query().Get("sellerId"); sellerID != "" {
		offer, err := s.offerService.CurrentOffer(ctx, value.PartyID(sellerID))
		if err != nil {
			return fmt.Errorf("offerService.CurrentOffer: %w", err)
		}

		reply.JSON(ctx, w, http.StatusOK, []rest.SellerOffer{newRESTOffer(*offer)})

		return nil
	}

	limit, offset, err := paging(r)
	if err != nil {
		return err
	}

	offers, err := s.offerService.ListOffers(ctx, limit, offset)
	if err != nil {
		return fmt.Errorf("offerService.ListOffers: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, lo.Map(offers, func(offer entity.SellerOffer, _ int) rest.SellerOffer {
		return newRESTOffer(offer)
	}))

	return nil
}

// getV1OffersRanked is the allocation calculator view: every offer priced
// against one landowner's available tons, best pick flagged.
func (s OfferServer) getV1OffersRanked(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	landownerID, err := value.ParsePartyID(r.URL.Query().Get("landownerId"))
	if err != nil {
		return fmt.Errorf("value.ParsePartyID: %w", err)
	}

	costs, err := s.readCosts(r)
	if err != nil {
		return err
	}

	summary, err := s.landownerSummaries.Summary(ctx, landownerID)
	if err != nil {
		return fmt.Errorf("landownerSummaries.Summary: %w", err)
	}

	offers, err := s.offerService.ListOffers(ctx, 0, 0)
	if err != nil {
		return fmt.Errorf("offerService.ListOffers: %w", err)
	}

	ranked := allocation.RankOffers(summary.AvailableTons, costs, offers)
	best, hasBest := allocation.BestOffer(ranked, s.highDemandThreshold)

	response := rest.RankedOffersResponse{
		AvailableTons: summary.AvailableTons,
		Offers: lo.Map(ranked, func(offer allocation.OfferWithProfit, _ int) rest.RankedOffer {
			return rest.RankedOffer{
				Offer:        newRESTOffer(offer.Offer),
				SellingTons:  offer.SellingTons,
				Revenue:      offer.Revenue,
				Profit:       offer.Profit,
				ProfitPerTon: offer.ProfitPerTon,
				IsBest:       hasBest && offer.Offer.ID == best.Offer.ID,
			}
		}),
	}

	reply.JSON(ctx, w, http.StatusOK, response)

	return nil
}

func (s OfferServer) readCosts(r *http.Request) (value.ProductionCosts, error) {
	fertilizer, err := queryFloat(r, "fertilizer")
	if err != nil {
		return value.ProductionCosts{}, err
	}

	labor, err := queryFloat(r, "labor")
	if err != nil {
		return value.ProductionCosts{}, err
	}

	transport, err := queryFloat(r, "transport")
	if err != nil {
		return value.ProductionCosts{}, err
	}

	return value.ProductionCosts{
		Fertilizer: fertilizer,
		Labor:      labor,
		Transport:  transport,
	}, nil
}

package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/samber/lo"

	"saltmarket/internal/domain/entity"
	"saltmarket/internal/domain/value"
	"saltmarket/pkg/httpx/reply"
	"saltmarket/pkg/httpx/req"
	"saltmarket/pkg/rest"
)

type dealService interface {
	Open(ctx context.Context, draft entity.Deal) (*entity.Deal, error)
	Get(ctx context.Context, id value.DealID) (*entity.Deal, error)
	ListByParty(ctx context.Context, partyID value.PartyID, limit, offset int) ([]entity.Deal, error)
	Accept(ctx context.Context, id value.DealID) (*entity.Deal, error)
	Reject(ctx context.Context, id value.DealID) (*entity.Deal, error)
	Complete(ctx context.Context, id value.DealID) (*entity.Deal, error)
	Counter(ctx context.Context, id value.DealID, msg entity.NegotiationMessage) (*entity.Deal, error)
	Update(ctx context.Context, id value.DealID, patch entity.DealPatch) (*entity.Deal, error)
}

type DealServer struct {
	dealService dealService
}

func NewDealServer(dealService dealService) DealServer {
	return DealServer{
		dealService: dealService,
	}
}

func (s DealServer) postV1Deal(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.OpenDealRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	deal, err := s.dealService.Open(ctx, entity.Deal{
		SellerID:      value.PartyID(request.SellerID),
		SellerName:    request.SellerName,
		LandownerID:   value.PartyID(request.LandownerID),
		LandownerName: request.LandownerName,
		Quantity:      request.Quantity,
		PricePerTon:   request.PricePerTon,
	})
	if err != nil {
		return fmt.Errorf("dealService.Open: %w", err)
	}

	reply.JSON(ctx, w, http.StatusCreated, newRESTDeal(*deal))

	return nil
}

func (s DealServer) getV1Deal(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	id, err := value.ParseDealID(r.PathValue("id"))
	if err != nil {
		return fmt.Errorf("value.ParseDealID: %w", err)
	}

	deal, err := s.dealService.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("dealService.Get: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTDeal(*deal))

	return nil
}

func (s DealServer) getV1Deals(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	partyID, err := value.ParsePartyID(r.URL.Query().Get("partyId"))
	if err != nil {
		return fmt.Errorf("value.ParsePartyID: %w", err)
	}

	limit, offset, err := paging(r)
	if err != nil {
		return err
	}

	deals, err := s.dealService.ListByParty(ctx, partyID, limit, offset)
	if err != nil {
		return fmt.Errorf("dealService.ListByParty: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, lo.Map(deals, func(deal entity.Deal, _ int) rest.Deal {
		return newRESTDeal(deal)
	}))

	return nil
}

func (s DealServer) postV1DealAccept(w http.ResponseWriter, r *http.Request) error {
	return s.transition(w, r, s.dealService.Accept)
}

func (s DealServer) postV1DealReject(w http.ResponseWriter, r *http.Request) error {
	return s.transition(w, r, s.dealService.Reject)
}

func (s DealServer) postV1DealComplete(w http.ResponseWriter, r *http.Request) error {
	return s.transition(w, r, s.dealService.Complete)
}

func (s DealServer) transition(
	w http.ResponseWriter,
	r *http.Request,
	apply func(context.Context, value.DealID) (*entity.Deal, error),
) error {
	ctx := r.Context()

	id, err := value.ParseDealID(r.PathValue("id"))
	if err != nil {
		return fmt.Errorf("value.ParseDealID: %w", err)
	}

	deal, err := apply(ctx, id)
	if err != nil {
		return fmt.Errorf("dealService transition: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTDeal(*deal))

	return nil
}

func (s DealServer) postV1DealCounter(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	id, err := value.ParseDealID(r.PathValue("id"))
	if err != nil {
		return fmt.Errorf("value.ParseDealID: %w", err)
	}

	var request rest.CounterOfferRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	deal, err := s.dealService.Counter(ctx, id, entity.NegotiationMessage{
		SenderID:    value.PartyID(request.SenderID),
		Message:     request.Message,
		PricePerTon: request.PricePerTon,
		Quantity:    request.Quantity,
	})
	if err != nil {
		return fmt.Errorf("dealService.Counter: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTDeal(*deal))

	return nil
}

func (s DealServer) patchV1Deal(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	id, err := value.ParseDealID(r.PathValue("id"))
	if err != nil {
		return fmt.Errorf("value.ParseDealID: %w", err)
	}

	var request rest.UpdateDealRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	patch := entity.DealPatch{
		ProductionCosts: request.ProductionCosts,
		NetProfit:       request.NetProfit,
	}

	if request.Status != nil {
		status, err := value.ParseDealStatus(*request.Status)
		if err != nil {
			return fmt.Errorf("value.ParseDealStatus: %w", err)
		}

		patch.Status = &status
	}

	deal, err := s.dealService.Update(ctx, id, patch)
	if err != nil {
		return fmt.Errorf("dealService.Update: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTDeal(*deal))

	return nil
}

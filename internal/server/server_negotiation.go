package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/samber/lo"

	"saltmarket/internal/domain/service/negotiation"
	"saltmarket/internal/domain/value"
	"saltmarket/pkg/httpx/reply"
	"saltmarket/pkg/httpx/req"
	"saltmarket/pkg/rest"
)

type negotiationService interface {
	Review(
		ctx context.Context,
		landownerID value.PartyID,
		selections []negotiation.Selection,
		costs *value.ProductionCosts,
	) (negotiation.Review, error)
	Accept(
		ctx context.Context,
		landownerID value.PartyID,
		selections []negotiation.Selection,
		costs *value.ProductionCosts,
	) (negotiation.AcceptResult, error)
}

type NegotiationServer struct {
	negotiationService negotiationService
}

func NewNegotiationServer(negotiationService negotiationService) NegotiationServer {
	return NegotiationServer{
		negotiationService: negotiationService,
	}
}

func (s NegotiationServer) postV1NegotiationReview(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	landownerID, selections, costs, err := readBundle(r)
	if err != nil {
		return err
	}

	review, err := s.negotiationService.Review(ctx, landownerID, selections, costs)
	if err != nil {
		return fmt.Errorf("negotiationService.Review: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTReview(review))

	return nil
}

func (s NegotiationServer) postV1NegotiationAccept(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	landownerID, selections, costs, err := readBundle(r)
	if err != nil {
		return err
	}

	result, err := s.negotiationService.Accept(ctx, landownerID, selections, costs)
	if err != nil {
		return fmt.Errorf("negotiationService.Accept: %w", err)
	}

	reply.JSON(ctx, w, http.StatusCreated, newRESTAcceptResponse(result))

	return nil
}

func readBundle(r *http.Request) (value.PartyID, []negotiation.Selection, *value.ProductionCosts, error) {
	var request rest.NegotiationReviewRequest

	if err := req.Read(r, &request); err != nil {
		return "", nil, nil, fmt.Errorf("req.Read: %w", err)
	}

	selections := lo.Map(request.Selections, func(s rest.AllocationSelection, _ int) negotiation.Selection {
		return negotiation.Selection{
			OfferID:  value.OfferID(s.OfferID),
			Quantity: s.Quantity,
		}
	})

	return value.PartyID(request.LandownerID), selections, newDomainCosts(request.Costs), nil
}

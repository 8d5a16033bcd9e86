package negotiation

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/xid"

	"saltmarket/internal/domain"
	"saltmarket/internal/domain/entity"
	"saltmarket/internal/domain/service/allocation"
	"saltmarket/internal/domain/value"
	"saltmarket/pkg/errcodes"
)

type DealRepository interface {
	CreateAccepted(ctx context.Context, deal *entity.Deal) error
}

type OfferRepository interface {
	GetByIDs(ctx context.Context, ids []value.OfferID) ([]entity.SellerOffer, error)
}

type LandownerRepository interface {
	GetByID(ctx context.Context, id value.PartyID) (*entity.Landowner, error)
}

type NotificationDispatcher interface {
	Dispatch(ctx context.Context, notification entity.Notification) error
}

// Selection is one requested allocation line of a review or accept call.
type Selection struct {
	OfferID  value.OfferID
	Quantity float64
}

// Review is the first step of the two-step flow: the bundle as it would be
// committed, after clamping, with aggregate revenue and (when production
// costs are supplied) profit.
type Review struct {
	Landowner     entity.Landowner
	Lines         []allocation.Line
	TotalRevenue  float64
	TotalProfit   *float64
	AvailableTons float64
	RemainingTons float64
}

// AcceptResult is the outcome of a confirmed bundle: one ACCEPTED deal per
// allocated offer, correlated by BatchID.
type AcceptResult struct {
	BatchID      value.BatchID
	Deals        []entity.Deal
	TotalRevenue float64
	TotalProfit  *float64
}

// Service drives the review -> confirm flow that turns an ephemeral
// allocation plan into accepted deals.
type Service struct {
	deals      DealRepository
	offers     OfferRepository
	landowners LandownerRepository
	dispatcher NotificationDispatcher
}

func NewService(
	deals DealRepository,
	offers OfferRepository,
	landowners LandownerRepository,
	dispatcher NotificationDispatcher,
) *Service {
	return &Service{
		deals:      deals,
		offers:     offers,
		landowners: landowners,
		dispatcher: dispatcher,
	}
}

// Review clamps the requested allocations against the landowner's available
// tons and returns the bundle totals for confirmation. Nothing is persisted.
func (s *Service) Review(
	ctx context.Context,
	landownerID value.PartyID,
	selections []Selection,
	costs *value.ProductionCosts,
) (Review, error) {
	landowner, plan, err := s.buildPlan(ctx, landownerID, selections)
	if err != nil {
		return Review{}, err
	}

	return s.review(*landowner, plan, costs), nil
}

// Accept is the confirm step: it re-applies the selections and commits them.
func (s *Service) Accept(
	ctx context.Context,
	landownerID value.PartyID,
	selections []Selection,
	costs *value.ProductionCosts,
) (AcceptResult, error) {
	landowner, plan, err := s.buildPlan(ctx, landownerID, selections)
	if err != nil {
		return AcceptResult{}, err
	}

	return s.AcceptPlan(ctx, *landowner, plan, costs)
}

// AcceptPlan commits a reviewed plan: one ACCEPTED deal and one DEAL_ACCEPTED
// notification per allocated offer, all stamped with the same batch id. On
// success the plan is reset to empty.
func (s *Service) AcceptPlan(
	ctx context.Context,
	landowner entity.Landowner,
	plan *allocation.Plan,
	costs *value.ProductionCosts,
) (AcceptResult, error) {
	lines := plan.Lines()
	if len(lines) == 0 {
		return AcceptResult{}, domain.NewError(errcodes.EmptyAllocation, "no offers selected")
	}

	review := s.review(landowner, plan, costs)

	result := AcceptResult{
		BatchID:      value.BatchID(xid.New().String()),
		Deals:        make([]entity.Deal, 0, len(lines)),
		TotalRevenue: review.TotalRevenue,
		TotalProfit:  review.TotalProfit,
	}

	now := time.Now()

	for _, line := range lines {
		deal := entity.Deal{
			ID:            value.DealID(xid.New().String()),
			BatchID:       result.BatchID,
			SellerID:      line.Offer.SellerID,
			SellerName:    line.Offer.Name,
			LandownerID:   landowner.ID,
			LandownerName: landowner.Name,
			Quantity:      line.Quantity,
			PricePerTon:   line.Offer.PricePerTon,
			TotalPrice:    line.Quantity * line.Offer.PricePerTon,
			Status:        value.DealStatusAccepted,
			CreatedAt:     now,
			AcceptedAt:    &now,
		}

		if costs != nil {
			// The fixed cost is shared by the whole scenario; it is split
			// across the batch pro rata to each line's revenue so the batch
			// net profit sums to totalRevenue - totalCost.
			share := 0.0
			if review.TotalRevenue > 0 {
				share = costs.Total() * (line.Revenue / review.TotalRevenue)
			}

			netProfit := line.Revenue - share
			deal.ProductionCosts = &share
			deal.NetProfit = &netProfit
		}

		if err := s.deals.CreateAccepted(ctx, &deal); err != nil {
			return AcceptResult{}, fmt.Errorf("deals.CreateAccepted: %w", err)
		}

		result.Deals = append(result.Deals, deal)

		s.notifySeller(ctx, deal)
	}

	plan.Reset()

	return result, nil
}

func (s *Service) buildPlan(
	ctx context.Context,
	landownerID value.PartyID,
	selections []Selection,
) (*entity.Landowner, *allocation.Plan, error) {
	landowner, err := s.landowners.GetByID(ctx, landownerID)
	if err != nil {
		return nil, nil, fmt.Errorf("landowners.GetByID: %w", err)
	}

	ids := make([]value.OfferID, 0, len(selections))
	for _, sel := range selections {
		ids = append(ids, sel.OfferID)
	}

	offers, err := s.offers.GetByIDs(ctx, ids)
	if err != nil {
		return nil, nil, fmt.Errorf("offers.GetByIDs: %w", err)
	}

	plan := allocation.NewPlan(landowner.AvailableTons, offers)

	for _, sel := range selections {
		if _, err := plan.Set(sel.OfferID, sel.Quantity); err != nil {
			return nil, nil, fmt.Errorf("plan.Set %s: %w", sel.OfferID, err)
		}
	}

	return landowner, plan, nil
}

func (s *Service) review(landowner entity.Landowner, plan *allocation.Plan, costs *value.ProductionCosts) Review {
	lines := plan.Lines()

	var totalRevenue float64
	for _, line := range lines {
		totalRevenue += line.Revenue
	}

	review := Review{
		Landowner:     landowner,
		Lines:         lines,
		TotalRevenue:  totalRevenue,
		AvailableTons: plan.AvailableTons(),
		RemainingTons: plan.Remaining(),
	}

	if costs != nil {
		profit := totalRevenue - costs.Total()
		review.TotalProfit = &profit
	}

	return review
}

func (s *Service) notifySeller(ctx context.Context, deal entity.Deal) {
	notification := entity.Notification{
		ID:          value.NotificationID(xid.New().String()),
		Type:        value.NotificationDealAccepted,
		Title:       "Deal accepted",
		Message: fmt.Sprintf(
			"%s accepted %.1f t at %.2f per ton (total %.2f)",
			deal.LandownerName, deal.Quantity, deal.PricePerTon, deal.TotalPrice,
		),
		RecipientID: deal.SellerID,
		DealID:      &deal.ID,
		Timestamp:   time.Now(),
	}

	if err := s.dispatcher.Dispatch(ctx, notification); err != nil {
		logger(ctx).Error("notification dispatch failed",
			"deal_id", deal.ID.String(),
			"seller_id", deal.SellerID.String(),
			"error", err,
		)
	}
}

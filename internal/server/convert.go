package server

import (
	"saltmarket/internal/domain/entity"
	"saltmarket/internal/domain/service/allocation"
	"saltmarket/internal/domain/service/landowner"
	"saltmarket/internal/domain/service/negotiation"
	"saltmarket/internal/domain/value"
	"saltmarket/pkg/rest"

	"github.com/samber/lo"
)

func newRESTOffer(offer entity.SellerOffer) rest.SellerOffer {
	return rest.SellerOffer{
		ID:            offer.ID.String(),
		SellerID:      offer.SellerID.String(),
		Name:          offer.Name,
		PricePerTon:   offer.PricePerTon,
		DemandTons:    offer.DemandTons,
		Reliability:   offer.Reliability.String(),
		IsRecommended: offer.IsRecommended,
		Timestamp:     offer.Timestamp,
	}
}

func newRESTDeal(deal entity.Deal) rest.Deal {
	return rest.Deal{
		ID:            deal.ID.String(),
		BatchID:       deal.BatchID.String(),
		SellerID:      deal.SellerID.String(),
		SellerName:    deal.SellerName,
		LandownerID:   deal.LandownerID.String(),
		LandownerName: deal.LandownerName,
		Quantity:      deal.Quantity,
		PricePerTon:   deal.PricePerTon,
		TotalPrice:    deal.TotalPrice,
		Status:        deal.Status.String(),
		Negotiations: lo.Map(deal.Negotiations, func(m entity.NegotiationMessage, _ int) rest.NegotiationMessage {
			return newRESTNegotiationMessage(m)
		}),
		ProductionCosts: deal.ProductionCosts,
		NetProfit:       deal.NetProfit,
		CreatedAt:       deal.CreatedAt,
		AcceptedAt:      deal.AcceptedAt,
		CompletedAt:     deal.CompletedAt,
	}
}

func newRESTNegotiationMessage(msg entity.NegotiationMessage) rest.NegotiationMessage {
	return rest.NegotiationMessage{
		ID:          msg.ID,
		SenderID:    msg.SenderID.String(),
		Message:     msg.Message,
		PricePerTon: msg.PricePerTon,
		Quantity:    msg.Quantity,
		SentAt:      msg.SentAt,
	}
}

func newRESTNotification(notification entity.Notification) rest.Notification {
	var dealID *string
	if notification.DealID != nil {
		dealID = lo.ToPtr(notification.DealID.String())
	}

	return rest.Notification{
		ID:          notification.ID.String(),
		Type:        notification.Type.String(),
		Title:       notification.Title,
		Message:     notification.Message,
		RecipientID: notification.RecipientID.String(),
		DealID:      dealID,
		Read:        notification.Read,
		Timestamp:   notification.Timestamp,
	}
}

func newRESTSummary(summary landowner.Summary) rest.LandownerSummary {
	return rest.LandownerSummary{
		ID:                   summary.Landowner.ID.String(),
		Name:                 summary.Landowner.Name,
		PredictedSeasonTotal: summary.Landowner.PredictedSeasonTotal,
		ClaimedTons:          summary.ClaimedTons,
		AvailableTons:        summary.AvailableTons,
		UpdatedAt:            summary.Landowner.UpdatedAt,
	}
}

func newRESTAllocationLine(line allocation.Line) rest.AllocationLine {
	return rest.AllocationLine{
		Offer:    newRESTOffer(line.Offer),
		Quantity: line.Quantity,
		Revenue:  line.Revenue,
	}
}

func newRESTReview(review negotiation.Review) rest.NegotiationReview {
	return rest.NegotiationReview{
		Lines: lo.Map(review.Lines, func(line allocation.Line, _ int) rest.AllocationLine {
			return newRESTAllocationLine(line)
		}),
		TotalRevenue:  review.TotalRevenue,
		TotalProfit:   review.TotalProfit,
		AvailableTons: review.AvailableTons,
		RemainingTons: review.RemainingTons,
	}
}

func newRESTAcceptResponse(result negotiation.AcceptResult) rest.NegotiationAcceptResponse {
	return rest.NegotiationAcceptResponse{
		BatchID: result.BatchID.String(),
		Deals: lo.Map(result.Deals, func(deal entity.Deal, _ int) rest.Deal {
			return newRESTDeal(deal)
		}),
		TotalRevenue: result.TotalRevenue,
		TotalProfit:  result.TotalProfit,
	}
}

func newDomainCosts(costs *rest.ProductionCosts) *value.ProductionCosts {
	if costs == nil {
		return nil
	}

	return &value.ProductionCosts{
		Fertilizer: costs.Fertilizer,
		Labor:      costs.Labor,
		Transport:  costs.Transport,
	}
}

package deal

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/xid"

	"saltmarket/internal/domain"
	"saltmarket/internal/domain/entity"
	"saltmarket/internal/domain/value"
	"saltmarket/pkg/errcodes"
)

type DealRepository interface {
	Create(ctx context.Context, deal *entity.Deal) error
	CreateAccepted(ctx context.Context, deal *entity.Deal) error
	GetByID(ctx context.Context, id value.DealID) (*entity.Deal, error)
	ListByParty(ctx context.Context, partyID value.PartyID, limit, offset int) ([]entity.Deal, error)
	Accept(ctx context.Context, id value.DealID, at time.Time) error
	Reject(ctx context.Context, id value.DealID) error
	Complete(ctx context.Context, id value.DealID, at time.Time) error
	ApplyPatch(ctx context.Context, id value.DealID, patch entity.DealPatch) error
	AppendNegotiation(ctx context.Context, id value.DealID, msg entity.NegotiationMessage) error
}

type OfferRepository interface {
	Create(ctx context.Context, offer *entity.SellerOffer) error
	GetByID(ctx context.Context, id value.OfferID) (*entity.SellerOffer, error)
	List(ctx context.Context, limit, offset int) ([]entity.SellerOffer, error)
	FirstBySeller(ctx context.Context, sellerID value.PartyID) (*entity.SellerOffer, error)
}

type LandownerRepository interface {
	GetByID(ctx context.Context, id value.PartyID) (*entity.Landowner, error)
	List(ctx context.Context, limit, offset int) ([]entity.Landowner, error)
}

// NotificationDispatcher hands a notification to the delivery queue. Delivery
// is asynchronous and at-least-once; the deal mutation itself never waits on
// it.
type NotificationDispatcher interface {
	Dispatch(ctx context.Context, notification entity.Notification) error
}

// Service owns the deal, offer and notification collections. All status
// transitions go through it so the lifecycle invariants hold in one place.
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

// PublishOffer appends a new offer with a generated id and timestamp and fans
// a NEW_OFFER notification out to every landowner. Republishing does not
// replace earlier offers from the same seller; CurrentOffer surfaces only the
// first match.
func (s *Service) PublishOffer(ctx context.Context, offer entity.SellerOffer) (entity.SellerOffer, error) {
	if offer.PricePerTon <= 0 {
		return entity.SellerOffer{}, domain.NewError(errcodes.InvalidOfferPrice, "price per ton must be positive")
	}

	if offer.DemandTons <= 0 {
		return entity.SellerOffer{}, domain.NewError(errcodes.InvalidDemandTons, "demand tons must be positive")
	}

	offer.ID = value.OfferID(xid.New().String())
	offer.Timestamp = time.Now()

	if err := s.offers.Create(ctx, &offer); err != nil {
		return entity.SellerOffer{}, fmt.Errorf("offers.Create: %w", err)
	}

	offersPublished.Inc()

	landowners, err := s.landowners.List(ctx, fanOutLimit, 0)
	if err != nil {
		logger(ctx).Error("landowner fan-out failed", "offer_id", offer.ID, "error", err)
		return offer, nil
	}

	for _, landowner := range landowners {
		s.dispatch(ctx, newOfferNotification(offer, landowner.ID))
	}

	return offer, nil
}

func (s *Service) GetOffer(ctx context.Context, id value.OfferID) (*entity.SellerOffer, error) {
	offer, err := s.offers.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("offers.GetByID: %w", err)
	}

	return offer, nil
}

func (s *Service) ListOffers(ctx context.Context, limit, offset int) ([]entity.SellerOffer, error) {
	offers, err := s.offers.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("offers.List: %w", err)
	}

	return offers, nil
}

// CurrentOffer returns the seller's first (oldest) live offer.
func (s *Service) CurrentOffer(ctx context.Context, sellerID value.PartyID) (*entity.SellerOffer, error) {
	offer, err := s.offers.FirstBySeller(ctx, sellerID)
	if err != nil {
		return nil, fmt.Errorf("offers.FirstBySeller: %w", err)
	}

	return offer, nil
}

// Open records a seller-initiated deal in NEGOTIATING state. Available tons
// are not claimed until the deal is accepted.
func (s *Service) Open(ctx context.Context, draft entity.Deal) (*entity.Deal, error) {
	if draft.Quantity <= 0 {
		return nil, domain.NewError(errcodes.InvalidQuantity, "quantity must be positive")
	}

	if draft.PricePerTon <= 0 {
		return nil, domain.NewError(errcodes.InvalidOfferPrice, "price per ton must be positive")
	}

	if _, err := s.landowners.GetByID(ctx, draft.LandownerID); err != nil {
		return nil, fmt.Errorf("landowners.GetByID: %w", err)
	}

	draft.ID = value.DealID(xid.New().String())
	draft.Status = value.DealStatusNegotiating
	draft.TotalPrice = draft.Quantity * draft.PricePerTon
	draft.CreatedAt = time.Now()
	draft.AcceptedAt = nil
	draft.CompletedAt = nil

	if err := s.deals.Create(ctx, &draft); err != nil {
		return nil, fmt.Errorf("deals.Create: %w", err)
	}

	dealsCreated.WithLabelValues(draft.Status.String()).Inc()

	s.dispatch(ctx, newProposalNotification(draft))

	return &draft, nil
}

func (s *Service) Get(ctx context.Context, id value.DealID) (*entity.Deal, error) {
	deal, err := s.deals.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("deals.GetByID: %w", err)
	}

	return deal, nil
}

func (s *Service) ListByParty(ctx context.Context, partyID value.PartyID, limit, offset int) ([]entity.Deal, error) {
	deals, err := s.deals.ListByParty(ctx, partyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("deals.ListByParty: %w", err)
	}

	return deals, nil
}

// Accept moves a NEGOTIATING deal to ACCEPTED. The repository claims the
// landowner's available tons in the same transaction.
func (s *Service) Accept(ctx context.Context, id value.DealID) (*entity.Deal, error) {
	deal, err := s.transition(ctx, id, value.DealStatusAccepted)
	if err != nil {
		return nil, err
	}

	s.dispatch(ctx, acceptedNotification(*deal, deal.SellerID))

	return deal, nil
}

func (s *Service) Reject(ctx context.Context, id value.DealID) (*entity.Deal, error) {
	return s.transition(ctx, id, value.DealStatusRejected)
}

func (s *Service) Complete(ctx context.Context, id value.DealID) (*entity.Deal, error) {
	deal, err := s.transition(ctx, id, value.DealStatusCompleted)
	if err != nil {
		return nil, err
	}

	s.dispatch(ctx, completedNotification(*deal))

	return deal, nil
}

func (s *Service) transition(ctx context.Context, id value.DealID, next value.DealStatus) (*entity.Deal, error) {
	deal, err := s.deals.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("deals.GetByID: %w", err)
	}

	if !deal.Status.CanTransitionTo(next) {
		return nil, domain.NewError(errcodes.InvalidDealStatus,
			fmt.Sprintf("cannot move deal from %s to %s", deal.Status, next))
	}

	now := time.Now()

	switch next {
	case value.DealStatusAccepted:
		err = s.deals.Accept(ctx, id, now)
		deal.AcceptedAt = &now
	case value.DealStatusRejected:
		err = s.deals.Reject(ctx, id)
	case value.DealStatusCompleted:
		err = s.deals.Complete(ctx, id, now)
		deal.CompletedAt = &now
	default:
		return nil, domain.NewError(errcodes.InvalidDealStatus, "unsupported transition target")
	}

	if err != nil {
		return nil, fmt.Errorf("deals transition %s: %w", next, err)
	}

	deal.Status = next

	return deal, nil
}

// Counter appends a counter-offer message to a NEGOTIATING deal and notifies
// the counterpart of the sender.
func (s *Service) Counter(ctx context.Context, id value.DealID, msg entity.NegotiationMessage) (*entity.Deal, error) {
	deal, err := s.deals.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("deals.GetByID: %w", err)
	}

	if deal.Status != value.DealStatusNegotiating {
		return nil, domain.NewError(errcodes.DealNotNegotiable, "deal is not open for negotiation")
	}

	msg.ID = xid.New().String()
	msg.SentAt = time.Now()

	if err := s.deals.AppendNegotiation(ctx, id, msg); err != nil {
		return nil, fmt.Errorf("deals.AppendNegotiation: %w", err)
	}

	deal.Negotiations = append(deal.Negotiations, msg)

	recipient := deal.SellerID
	if msg.SenderID == deal.SellerID {
		recipient = deal.LandownerID
	}

	s.dispatch(ctx, counterNotification(*deal, msg, recipient))

	return deal, nil
}

// Update merges a partial patch into a deal. A status change must still be a
// legal transition. Unknown ids are a NotFound error, not a silent no-op.
func (s *Service) Update(ctx context.Context, id value.DealID, patch entity.DealPatch) (*entity.Deal, error) {
	deal, err := s.deals.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("deals.GetByID: %w", err)
	}

	if patch.Status != nil {
		if *patch.Status != deal.Status {
			return s.transitionWithPatch(ctx, deal, patch)
		}

		patch.Status = nil
	}

	if err := s.deals.ApplyPatch(ctx, id, patch); err != nil {
		return nil, fmt.Errorf("deals.ApplyPatch: %w", err)
	}

	return s.deals.GetByID(ctx, id)
}

func (s *Service) transitionWithPatch(ctx context.Context, deal *entity.Deal, patch entity.DealPatch) (*entity.Deal, error) {
	next := *patch.Status
	patch.Status = nil

	if patch.ProductionCosts != nil || patch.NetProfit != nil {
		if err := s.deals.ApplyPatch(ctx, deal.ID, patch); err != nil {
			return nil, fmt.Errorf("deals.ApplyPatch: %w", err)
		}
	}

	return s.transition(ctx, deal.ID, next)
}

func (s *Service) dispatch(ctx context.Context, notification entity.Notification) {
	if err := s.dispatcher.Dispatch(ctx, notification); err != nil {
		// Delivery is best-effort on the hot path, the queue retries.
		logger(ctx).Error("notification dispatch failed",
			"type", notification.Type.String(),
			"recipient", notification.RecipientID.String(),
			"error", err,
		)
	}
}

const fanOutLimit = 500

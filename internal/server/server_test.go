package server_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"saltmarket/internal/domain"
	"saltmarket/internal/domain/entity"
	"saltmarket/internal/domain/service/landowner"
	"saltmarket/internal/domain/service/negotiation"
	"saltmarket/internal/domain/value"
	"saltmarket/internal/server"
	"saltmarket/pkg/errcodes"
	"saltmarket/pkg/rest"
	"saltmarket/pkg/tests"
)

type stubOfferService struct {
	offers []entity.SellerOffer
}

func (s *stubOfferService) PublishOffer(_ context.Context, offer entity.SellerOffer) (entity.SellerOffer, error) {
	if offer.PricePerTon <= 0 {
		return entity.SellerOffer{}, domain.NewError(errcodes.InvalidOfferPrice, "price per ton must be positive")
	}

	offer.ID = value.OfferID(fmt.Sprintf("offer-%d", len(s.offers)+1))
	offer.Timestamp = time.Now()
	s.offers = append(s.offers, offer)

	return offer, nil
}

func (s *stubOfferService) GetOffer(_ context.Context, id value.OfferID) (*entity.SellerOffer, error) {
	for _, offer := range s.offers {
		if offer.ID == id {
			return &offer, nil
		}
	}

	return nil, domain.NewError(errcodes.OfferNotFound, "offer not found")
}

func (s *stubOfferService) ListOffers(context.Context, int, int) ([]entity.SellerOffer, error) {
	return s.offers, nil
}

func (s *stubOfferService) CurrentOffer(_ context.Context, sellerID value.PartyID) (*entity.SellerOffer, error) {
	for _, offer := range s.offers {
		if offer.SellerID == sellerID {
			return &offer, nil
		}
	}

	return nil, domain.NewError(errcodes.OfferNotFound, "seller has no offers")
}

type stubDealService struct {
	deal entity.Deal
}

func (s *stubDealService) Open(_ context.Context, draft entity.Deal) (*entity.Deal, error) {
	draft.ID = "deal-new"
	draft.Status = value.DealStatusNegotiating
	draft.TotalPrice = draft.Quantity * draft.PricePerTon
	draft.CreatedAt = time.Now()

	return &draft, nil
}

func (s *stubDealService) Get(_ context.Context, id value.DealID) (*entity.Deal, error) {
	if id != s.deal.ID {
		return nil, domain.NewError(errcodes.DealNotFound, "deal not found")
	}

	copied := s.deal

	return &copied, nil
}

func (s *stubDealService) ListByParty(_ context.Context, partyID value.PartyID, _, _ int) ([]entity.Deal, error) {
	if s.deal.SellerID == partyID || s.deal.LandownerID == partyID {
		return []entity.Deal{s.deal}, nil
	}

	return nil, nil
}

func (s *stubDealService) Accept(ctx context.Context, id value.DealID) (*entity.Deal, error) {
	deal, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if deal.Status != value.DealStatusNegotiating {
		return nil, domain.NewError(errcodes.InvalidDealStatus, "cannot move deal to ACCEPTED")
	}

	deal.Status = value.DealStatusAccepted

	return deal, nil
}

func (s *stubDealService) Reject(ctx context.Context, id value.DealID) (*entity.Deal, error) {
	deal, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	deal.Status = value.DealStatusRejected

	return deal, nil
}

func (s *stubDealService) Complete(ctx context.Context, id value.DealID) (*entity.Deal, error) {
	deal, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	deal.Status = value.DealStatusCompleted

	return deal, nil
}

func (s *stubDealService) Counter(ctx context.Context, id value.DealID, msg entity.NegotiationMessage) (*entity.Deal, error) {
	deal, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	msg.ID = "msg-1"
	msg.SentAt = time.Now()
	deal.Negotiations = append(deal.Negotiations, msg)

	return deal, nil
}

func (s *stubDealService) Update(ctx context.Context, id value.DealID, patch entity.DealPatch) (*entity.Deal, error) {
	deal, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.ProductionCosts != nil {
		deal.ProductionCosts = patch.ProductionCosts
	}

	return deal, nil
}

type stubNegotiationService struct{}

func (stubNegotiationService) Review(
	_ context.Context,
	_ value.PartyID,
	selections []negotiation.Selection,
	_ *value.ProductionCosts,
) (negotiation.Review, error) {
	var total float64
	for _, sel := range selections {
		total += sel.Quantity
	}

	return negotiation.Review{
		TotalRevenue:  total * 2000,
		AvailableTons: 70,
		RemainingTons: 70 - total,
	}, nil
}

func (stubNegotiationService) Accept(
	_ context.Context,
	landownerID value.PartyID,
	selections []negotiation.Selection,
	_ *value.ProductionCosts,
) (negotiation.AcceptResult, error) {
	if len(selections) == 0 {
		return negotiation.AcceptResult{}, domain.NewError(errcodes.EmptyAllocation, "no offers selected")
	}

	return negotiation.AcceptResult{
		BatchID: "batch-1",
		Deals: []entity.Deal{{
			ID:          "deal-1",
			BatchID:     "batch-1",
			LandownerID: landownerID,
			Status:      value.DealStatusAccepted,
		}},
	}, nil
}

type stubNotificationService struct {
	notifications []entity.Notification
	markedRead    []value.NotificationID
	markedAllFor  []value.PartyID
}

func (s *stubNotificationService) ListByRecipient(_ context.Context, recipientID value.PartyID, _, _ int) ([]entity.Notification, error) {
	var result []entity.Notification

	for _, n := range s.notifications {
		if n.RecipientID == recipientID {
			result = append(result, n)
		}
	}

	return result, nil
}

func (s *stubNotificationService) MarkRead(_ context.Context, id value.NotificationID) error {
	s.markedRead = append(s.markedRead, id)

	return nil
}

func (s *stubNotificationService) MarkAllRead(_ context.Context, recipientID value.PartyID) error {
	s.markedAllFor = append(s.markedAllFor, recipientID)

	return nil
}

type stubLandownerService struct {
	summary landowner.Summary
}

func (s *stubLandownerService) Summary(_ context.Context, id value.PartyID) (landowner.Summary, error) {
	if id != s.summary.Landowner.ID {
		return landowner.Summary{}, domain.NewError(errcodes.LandownerNotFound, "landowner not found")
	}

	return s.summary, nil
}

func (s *stubLandownerService) RefreshPrediction(_ context.Context, id value.PartyID) (*entity.Landowner, error) {
	if id != s.summary.Landowner.ID {
		return nil, domain.NewError(errcodes.LandownerNotFound, "landowner not found")
	}

	copied := s.summary.Landowner

	return &copied, nil
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func newTestServer() (*httptest.Server, *stubNotificationService) {
	offers := &stubOfferService{offers: []entity.SellerOffer{
		{ID: "offer-a", SellerID: "seller-a", Name: "PT Garam Jaya", PricePerTon: 2000, DemandTons: 25, Reliability: value.ReliabilityHigh},
		{ID: "offer-b", SellerID: "seller-b", Name: "CV Laut Biru", PricePerTon: 1500, DemandTons: 40, Reliability: value.ReliabilityMedium},
	}}

	landowners := &stubLandownerService{summary: landowner.Summary{
		Landowner:     entity.Landowner{ID: "lo-1", Name: "Pak Budi", PredictedSeasonTotal: 100, AvailableTons: 70},
		ClaimedTons:   30,
		AvailableTons: 70,
	}}

	deals := &stubDealService{deal: entity.Deal{
		ID:          "deal-1",
		SellerID:    "seller-a",
		LandownerID: "lo-1",
		Quantity:    10,
		PricePerTon: 2000,
		TotalPrice:  20000,
		Status:      value.DealStatusNegotiating,
		CreatedAt:   time.Now(),
	}}

	notifications := &stubNotificationService{notifications: []entity.Notification{
		{ID: "n1", RecipientID: "lo-1", Type: value.NotificationNewOffer, Title: "New offer"},
	}}

	srv := server.NewServer(
		server.NewOfferServer(offers, landowners, 30),
		server.NewDealServer(deals),
		server.NewNegotiationServer(stubNegotiationService{}),
		server.NewNotificationServer(notifications),
		server.NewLandownerServer(landowners),
	)

	router := chi.NewRouter()
	srv.RegisterRoutes(router)

	return httptest.NewServer(router), notifications
}

func TestPostOffer(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	ts, _ := newTestServer()
	defer ts.Close()

	api := tests.NewAPIClient(ts.URL, nil)
	rnd := tests.NewRandomizer()

	price := rnd.Float64()*1000 + 500
	demand := rnd.Float64()*20 + 5

	var created rest.SellerOffer
	var errResp errorEnvelope

	resp, err := api.Post(ctx, "/v1/offers", nil, rest.PublishOfferRequest{
		SellerID:      "seller-new",
		Name:          "UD Asin Makmur",
		PricePerTon:   price,
		DemandTons:    demand,
		Reliability:   "Low",
		IsRecommended: rnd.Bool(),
	}, &created, &errResp)
	rq.NoError(err)
	rq.Equal(http.StatusCreated, resp.StatusCode)
	rq.NotEmpty(created.ID)
	rq.InDelta(price, created.PricePerTon, 1e-9)
	rq.Equal("Low", created.Reliability)
}

func TestPostOfferValidation(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	ts, _ := newTestServer()
	defer ts.Close()

	api := tests.NewAPIClient(ts.URL, nil)

	var errResp errorEnvelope

	resp, err := api.PostJSON(ctx, "/v1/offers", nil, `{"sellerId": "seller-x"}`, nil, &errResp)
	rq.NoError(err)
	rq.Equal(http.StatusBadRequest, resp.StatusCode)
	rq.Equal(errcodes.ValidationError.String(), errResp.Code)
}

func TestRankedOffers(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	ts, _ := newTestServer()
	defer ts.Close()

	api := tests.NewAPIClient(ts.URL, nil)

	var ranked rest.RankedOffersResponse
	var errResp errorEnvelope

	resp, err := api.Get(ctx, "/v1/offers/ranked?landownerId=lo-1&fertilizer=8000&labor=15000&transport=5000", nil, &ranked, &errResp)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)

	rq.InDelta(70, ranked.AvailableTons, 1e-9)
	rq.Len(ranked.Offers, 2)

	// Sorted by price descending.
	rq.Equal("offer-a", ranked.Offers[0].Offer.ID)
	rq.InDelta(25, ranked.Offers[0].SellingTons, 1e-9)
	rq.InDelta(25*2000-28000, ranked.Offers[0].Profit, 1e-9)

	// offer-b demands more than the high-demand threshold, so offer-a wins.
	rq.True(ranked.Offers[0].IsBest)
	rq.False(ranked.Offers[1].IsBest)
}

func TestRankedOffersRequiresLandowner(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	ts, _ := newTestServer()
	defer ts.Close()

	api := tests.NewAPIClient(ts.URL, nil)

	var errResp errorEnvelope

	resp, err := api.Get(ctx, "/v1/offers/ranked", nil, nil, &errResp)
	rq.NoError(err)
	rq.Equal(http.StatusBadRequest, resp.StatusCode)
	rq.Equal(errcodes.InvalidPartyID.String(), errResp.Code)
}

func TestAcceptDeal(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	ts, _ := newTestServer()
	defer ts.Close()

	api := tests.NewAPIClient(ts.URL, nil)

	var deal rest.Deal
	var errResp errorEnvelope

	resp, err := api.PostJSON(ctx, "/v1/deals/deal-1/accept", nil, "", &deal, &errResp)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Equal("ACCEPTED", deal.Status)
}

func TestAcceptUnknownDeal(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	ts, _ := newTestServer()
	defer ts.Close()

	api := tests.NewAPIClient(ts.URL, nil)

	var errResp errorEnvelope

	resp, err := api.PostJSON(ctx, "/v1/deals/nope/accept", nil, "", nil, &errResp)
	rq.NoError(err)
	rq.Equal(http.StatusNotFound, resp.StatusCode)
	rq.Equal(errcodes.DealNotFound.String(), errResp.Code)
}

func TestDealsListRequiresParty(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	ts, _ := newTestServer()
	defer ts.Close()

	api := tests.NewAPIClient(ts.URL, nil)

	var errResp errorEnvelope

	resp, err := api.Get(ctx, "/v1/deals", nil, nil, &errResp)
	rq.NoError(err)
	rq.Equal(http.StatusBadRequest, resp.StatusCode)
	rq.Equal(errcodes.InvalidPartyID.String(), errResp.Code)
}

func TestNegotiationReviewAndAccept(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	ts, _ := newTestServer()
	defer ts.Close()

	api := tests.NewAPIClient(ts.URL, nil)

	request := rest.NegotiationReviewRequest{
		LandownerID: "lo-1",
		Selections: []rest.AllocationSelection{
			{OfferID: "offer-a", Quantity: 25},
		},
	}

	var review rest.NegotiationReview
	var errResp errorEnvelope

	resp, err := api.Post(ctx, "/v1/negotiations/review", nil, request, &review, &errResp)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.InDelta(25*2000, review.TotalRevenue, 1e-9)
	rq.InDelta(45, review.RemainingTons, 1e-9)

	var accepted rest.NegotiationAcceptResponse

	resp, err = api.Post(ctx, "/v1/negotiations/accept", nil, request, &accepted, &errResp)
	rq.NoError(err)
	rq.Equal(http.StatusCreated, resp.StatusCode)
	rq.Equal("batch-1", accepted.BatchID)
	rq.Len(accepted.Deals, 1)
}

func TestNotificationsFlow(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	ts, notifications := newTestServer()
	defer ts.Close()

	api := tests.NewAPIClient(ts.URL, nil)

	var listed []rest.Notification
	var errResp errorEnvelope

	resp, err := api.Get(ctx, "/v1/notifications?recipientId=lo-1", nil, &listed, &errResp)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Len(listed, 1)
	rq.Equal("n1", listed[0].ID)

	resp, err = api.PostJSON(ctx, "/v1/notifications/n1/read", nil, "", nil, &errResp)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Equal([]value.NotificationID{"n1"}, notifications.markedRead)

	resp, err = api.PostJSON(ctx, "/v1/notifications/read-all?recipientId=lo-1", nil, "", nil, &errResp)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Equal([]value.PartyID{"lo-1"}, notifications.markedAllFor)
}

func TestLandownerSummary(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	ts, _ := newTestServer()
	defer ts.Close()

	api := tests.NewAPIClient(ts.URL, nil)

	var summary rest.LandownerSummary
	var errResp errorEnvelope

	resp, err := api.Get(ctx, "/v1/landowners/lo-1/summary", nil, &summary, &errResp)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Equal("Pak Budi", summary.Name)
	rq.InDelta(100, summary.PredictedSeasonTotal, 1e-9)
	rq.InDelta(30, summary.ClaimedTons, 1e-9)
	rq.InDelta(70, summary.AvailableTons, 1e-9)
}

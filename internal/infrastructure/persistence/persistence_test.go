package persistence_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/rs/xid"
	"github.com/stretchr/testify/require"

	"saltmarket/internal/domain"
	"saltmarket/internal/domain/entity"
	"saltmarket/internal/domain/value"
	"saltmarket/internal/infrastructure/persistence"
	"saltmarket/pkg/dbtest"
	"saltmarket/pkg/errcodes"
)

// testDB connects to the database named by PG_TEST_DSN and applies the
// schema. The suite is skipped when the variable is unset.
func testDB(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := os.Getenv("PG_TEST_DSN")
	if dsn == "" {
		t.Skip("PG_TEST_DSN is not set")
	}

	db, err := sqlx.Connect("pgx", dsn)
	require.NoError(t, err)

	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, dbtest.MigrateFromFile(db, "../../../migrations/0001_init.sql"))

	return db
}

func seedLandowner(t *testing.T, db *sqlx.DB, availableTons float64) value.PartyID {
	t.Helper()

	id := value.PartyID("lo-" + xid.New().String())

	_, err := db.Exec(
		`INSERT INTO landowners (id, name, predicted_season_total, available_tons) VALUES ($1, $2, $3, $4)`,
		id.String(), "Test Landowner", availableTons, availableTons,
	)
	require.NoError(t, err)

	return id
}

func acceptedDeal(landownerID value.PartyID, quantity float64) *entity.Deal {
	now := time.Now()

	return &entity.Deal{
		ID:            value.DealID(xid.New().String()),
		SellerID:      "seller-1",
		SellerName:    "PT Garam Jaya",
		LandownerID:   landownerID,
		LandownerName: "Test Landowner",
		Quantity:      quantity,
		PricePerTon:   2000,
		TotalPrice:    quantity * 2000,
		Status:        value.DealStatusAccepted,
		CreatedAt:     now,
		AcceptedAt:    &now,
	}
}

func TestCreateAcceptedClaimsTons(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	db := testDB(t)
	repo := persistence.NewDealRepository(db)

	landownerID := seedLandowner(t, db, 70)

	rq.NoError(repo.CreateAccepted(ctx, acceptedDeal(landownerID, 50)))

	var remaining float64
	rq.NoError(db.Get(&remaining, `SELECT available_tons FROM landowners WHERE id = $1`, landownerID.String()))
	rq.InDelta(20, remaining, 1e-9)

	claimed, err := repo.ClaimedTons(ctx, landownerID)
	rq.NoError(err)
	rq.InDelta(50, claimed, 1e-9)
}

func TestCreateAcceptedInsufficientTons(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	db := testDB(t)
	repo := persistence.NewDealRepository(db)

	landownerID := seedLandowner(t, db, 10)

	err := repo.CreateAccepted(ctx, acceptedDeal(landownerID, 50))
	code, ok := domain.GetCode(err)
	rq.True(ok)
	rq.Equal(errcodes.InsufficientTons, code)

	// The deal insert rolled back with the claim.
	var count int
	rq.NoError(db.Get(&count, `SELECT count(*) FROM deals WHERE landowner_id = $1`, landownerID.String()))
	rq.Zero(count)
}

func TestAcceptLifecycleInDatabase(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	db := testDB(t)
	repo := persistence.NewDealRepository(db)

	landownerID := seedLandowner(t, db, 70)

	deal := acceptedDeal(landownerID, 15)
	deal.Status = value.DealStatusNegotiating
	deal.AcceptedAt = nil

	rq.NoError(repo.Create(ctx, deal))

	// NEGOTIATING deals do not claim tons.
	var available float64
	rq.NoError(db.Get(&available, `SELECT available_tons FROM landowners WHERE id = $1`, landownerID.String()))
	rq.InDelta(70, available, 1e-9)

	rq.NoError(repo.Accept(ctx, deal.ID, time.Now()))

	stored, err := repo.GetByID(ctx, deal.ID)
	rq.NoError(err)
	rq.Equal(value.DealStatusAccepted, stored.Status)
	rq.NotNil(stored.AcceptedAt)

	rq.NoError(db.Get(&available, `SELECT available_tons FROM landowners WHERE id = $1`, landownerID.String()))
	rq.InDelta(55, available, 1e-9)

	// Accepting twice is rejected at the row level.
	err = repo.Accept(ctx, deal.ID, time.Now())
	code, ok := domain.GetCode(err)
	rq.True(ok)
	rq.Equal(errcodes.InvalidDealStatus, code)
}

func TestAppendNegotiation(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	db := testDB(t)
	repo := persistence.NewDealRepository(db)

	landownerID := seedLandowner(t, db, 70)

	deal := acceptedDeal(landownerID, 10)
	deal.Status = value.DealStatusNegotiating
	deal.AcceptedAt = nil
	rq.NoError(repo.Create(ctx, deal))

	price := 1800.0
	msg := entity.NegotiationMessage{
		ID:          xid.New().String(),
		SenderID:    landownerID,
		Message:     "counter at 1800",
		PricePerTon: &price,
		SentAt:      time.Now(),
	}
	rq.NoError(repo.AppendNegotiation(ctx, deal.ID, msg))

	stored, err := repo.GetByID(ctx, deal.ID)
	rq.NoError(err)
	rq.Len(stored.Negotiations, 1)
	rq.Equal(msg.Message, stored.Negotiations[0].Message)
}

func TestNotificationPruneKeepsNewest(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	db := testDB(t)
	repo := persistence.NewNotificationRepository(db)

	recipient := value.PartyID("lo-" + xid.New().String())

	for i := 0; i < 5; i++ {
		notification := entity.Notification{
			ID:          value.NotificationID(xid.New().String()),
			Type:        value.NotificationNewOffer,
			Title:       "New offer",
			Message:     fmt.Sprintf("offer %d", i),
			RecipientID: recipient,
			Timestamp:   time.Now().Add(time.Duration(i) * time.Second),
		}
		rq.NoError(repo.Create(ctx, &notification))
	}

	pruned, err := repo.PruneToLast(ctx, 2)
	rq.NoError(err)
	rq.GreaterOrEqual(pruned, int64(3))

	kept, err := repo.ListByRecipient(ctx, recipient, 50, 0)
	rq.NoError(err)
	rq.Len(kept, 2)
	rq.Equal("offer 4", kept[0].Message)
}

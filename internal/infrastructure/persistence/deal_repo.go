package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"saltmarket/internal/domain"
	"saltmarket/internal/domain/entity"
	"saltmarket/internal/domain/value"
	"saltmarket/pkg/errcodes"
)

const dealColumns = `
	id, batch_id, seller_id, seller_name, landowner_id, landowner_name,
	quantity, price_per_ton, total_price, status, negotiations,
	production_costs, net_profit, created_at, accepted_at, completed_at`

type DealRepository struct {
	db *sqlx.DB
}

func NewDealRepository(db *sqlx.DB) *DealRepository {
	return &DealRepository{db: db}
}

func (r *DealRepository) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to begin transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return domain.WrapError(
				fmt.Errorf("%w; rollback: %v", err, rbErr),
				errcodes.InternalServerError,
				"transaction failed",
			)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to commit")
	}

	return nil
}

// Create records a deal without touching the landowner's available tons.
// Used for NEGOTIATING deals; the tons are claimed only on acceptance.
func (r *DealRepository) Create(ctx context.Context, deal *entity.Deal) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		return r.insertTx(ctx, tx, deal)
	})
}

// CreateAccepted records an already-accepted deal and claims the quantity
// from the landowner's available tons in the same transaction, so a failure
// partway leaves neither aggregate half-updated.
func (r *DealRepository) CreateAccepted(ctx context.Context, deal *entity.Deal) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := r.claimTonsTx(ctx, tx, deal.LandownerID, deal.Quantity); err != nil {
			return err
		}

		return r.insertTx(ctx, tx, deal)
	})
}

func (r *DealRepository) GetByID(ctx context.Context, id value.DealID) (*entity.Deal, error) {
	query := `SELECT ` + dealColumns + ` FROM deals WHERE id = $1`

	var schema dealSchema
	if err := r.db.GetContext(ctx, &schema, query, id.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewError(errcodes.DealNotFound, "deal not found")
		}
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to get deal")
	}

	return schema.toDomain()
}

// ListByParty returns deals where the party is either side, newest first.
func (r *DealRepository) ListByParty(ctx context.Context, partyID value.PartyID, limit, offset int) ([]entity.Deal, error) {
	query := `
		SELECT ` + dealColumns + `
		FROM deals
		WHERE seller_id = $1 OR landowner_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	var schemas []dealSchema
	if err := r.db.SelectContext(ctx, &schemas, query, partyID.String(), limit, offset); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list deals")
	}

	deals := make([]entity.Deal, 0, len(schemas))
	for _, s := range schemas {
		deal, err := s.toDomain()
		if err != nil {
			return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to convert deal")
		}
		deals = append(deals, *deal)
	}

	return deals, nil
}

// Accept locks the deal row, requires NEGOTIATING status and claims the
// landowner's tons atomically.
func (r *DealRepository) Accept(ctx context.Context, id value.DealID, at time.Time) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		lockQuery := `SELECT ` + dealColumns + ` FROM deals WHERE id = $1 FOR UPDATE`

		var schema dealSchema
		if err := tx.GetContext(ctx, &schema, lockQuery, id.String()); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.NewError(errcodes.DealNotFound, "deal not found")
			}
			return domain.WrapError(err, errcodes.InternalServerError, "failed to lock deal")
		}

		if schema.Status != value.DealStatusNegotiating.String() {
			return domain.NewError(errcodes.InvalidDealStatus, "deal is not negotiating")
		}

		if err := r.claimTonsTx(ctx, tx, value.PartyID(schema.LandownerID), schema.Quantity); err != nil {
			return err
		}

		updateQuery := `UPDATE deals SET status = $1, accepted_at = $2 WHERE id = $3`

		return r.execUpdateTx(ctx, tx, updateQuery, value.DealStatusAccepted.String(), at, id.String())
	})
}

func (r *DealRepository) Reject(ctx context.Context, id value.DealID) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		query := `UPDATE deals SET status = $1 WHERE id = $2`

		return r.execUpdateTx(ctx, tx, query, value.DealStatusRejected.String(), id.String())
	})
}

func (r *DealRepository) Complete(ctx context.Context, id value.DealID, at time.Time) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		query := `UPDATE deals SET status = $1, completed_at = $2 WHERE id = $3`

		return r.execUpdateTx(ctx, tx, query, value.DealStatusCompleted.String(), at, id.String())
	})
}

// ApplyPatch merges the non-nil patch fields into the row.
func (r *DealRepository) ApplyPatch(ctx context.Context, id value.DealID, patch entity.DealPatch) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			UPDATE deals SET
				status = COALESCE($1, status),
				production_costs = COALESCE($2, production_costs),
				net_profit = COALESCE($3, net_profit)
			WHERE id = $4`

		var status *string
		if patch.Status != nil {
			s := patch.Status.String()
			status = &s
		}

		return r.execUpdateTx(ctx, tx, query, status, patch.ProductionCosts, patch.NetProfit, id.String())
	})
}

// AppendNegotiation appends one message to the deal's negotiation log.
func (r *DealRepository) AppendNegotiation(ctx context.Context, id value.DealID, msg entity.NegotiationMessage) error {
	msgBytes, err := json.Marshal([]entity.NegotiationMessage{msg})
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to marshal negotiation message")
	}

	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		query := `UPDATE deals SET negotiations = negotiations || $1::jsonb WHERE id = $2`

		return r.execUpdateTx(ctx, tx, query, msgBytes, id.String())
	})
}

// ClaimedTons sums the quantities of ACCEPTED and COMPLETED deals for one
// landowner.
func (r *DealRepository) ClaimedTons(ctx context.Context, landownerID value.PartyID) (float64, error) {
	query := `
		SELECT COALESCE(SUM(quantity), 0)
		FROM deals
		WHERE landowner_id = $1 AND status IN ($2, $3)`

	var claimed float64
	err := r.db.GetContext(ctx, &claimed, query,
		landownerID.String(),
		value.DealStatusAccepted.String(),
		value.DealStatusCompleted.String(),
	)
	if err != nil {
		return 0, domain.WrapError(err, errcodes.InternalServerError, "failed to sum claimed tons")
	}

	return claimed, nil
}

func (r *DealRepository) insertTx(ctx context.Context, tx *sqlx.Tx, deal *entity.Deal) error {
	negotiations := deal.Negotiations
	if negotiations == nil {
		negotiations = []entity.NegotiationMessage{}
	}

	negotiationsBytes, err := json.Marshal(negotiations)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to marshal negotiations")
	}

	query := `
		INSERT INTO deals (
			id, batch_id, seller_id, seller_name, landowner_id, landowner_name,
			quantity, price_per_ton, total_price, status, negotiations,
			production_costs, net_profit, created_at, accepted_at, completed_at
		) VALUES (
			:id, :batch_id, :seller_id, :seller_name, :landowner_id, :landowner_name,
			:quantity, :price_per_ton, :total_price, :status, :negotiations,
			:production_costs, :net_profit, :created_at, :accepted_at, :completed_at
		)`

	var batchID *string
	if deal.BatchID != "" {
		b := deal.BatchID.String()
		batchID = &b
	}

	params := map[string]any{
		"id":               deal.ID.String(),
		"batch_id":         batchID,
		"seller_id":        deal.SellerID.String(),
		"seller_name":      deal.SellerName,
		"landowner_id":     deal.LandownerID.String(),
		"landowner_name":   deal.LandownerName,
		"quantity":         deal.Quantity,
		"price_per_ton":    deal.PricePerTon,
		"total_price":      deal.TotalPrice,
		"status":           deal.Status.String(),
		"negotiations":     negotiationsBytes,
		"production_costs": deal.ProductionCosts,
		"net_profit":       deal.NetProfit,
		"created_at":       deal.CreatedAt,
		"accepted_at":      deal.AcceptedAt,
		"completed_at":     deal.CompletedAt,
	}

	if _, err := tx.NamedExecContext(ctx, query, params); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to insert deal")
	}

	return nil
}

// claimTonsTx subtracts quantity from the landowner's available tons,
// refusing to go below zero.
func (r *DealRepository) claimTonsTx(ctx context.Context, tx *sqlx.Tx, landownerID value.PartyID, quantity float64) error {
	query := `
		UPDATE landowners
		SET available_tons = available_tons - $1, updated_at = $2
		WHERE id = $3 AND available_tons >= $1`

	res, err := tx.ExecContext(ctx, query, quantity, time.Now(), landownerID.String())
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to claim tons")
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to check affected rows")
	}

	if rows == 0 {
		var exists bool
		existsQuery := `SELECT EXISTS(SELECT 1 FROM landowners WHERE id = $1)`
		if err := tx.GetContext(ctx, &exists, existsQuery, landownerID.String()); err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to check landowner")
		}

		if !exists {
			return domain.NewError(errcodes.LandownerNotFound, "landowner not found")
		}

		return domain.NewError(errcodes.InsufficientTons, "not enough available tons")
	}

	return nil
}

func (r *DealRepository) execUpdateTx(ctx context.Context, tx *sqlx.Tx, query string, args ...any) error {
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to execute update")
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to check affected rows")
	}

	if rows == 0 {
		return domain.NewError(errcodes.DealNotFound, "deal not found")
	}

	return nil
}

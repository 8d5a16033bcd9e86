package persistence

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"saltmarket/internal/domain"
	"saltmarket/internal/domain/entity"
	"saltmarket/internal/domain/value"
	"saltmarket/pkg/errcodes"
	"saltmarket/pkg/lox"
)

const offerColumns = `id, seller_id, name, price_per_ton, demand_tons, reliability, is_recommended, published_at`

type OfferRepository struct {
	db *sqlx.DB
}

func NewOfferRepository(db *sqlx.DB) *OfferRepository {
	return &OfferRepository{db: db}
}

// Create appends an offer. There is deliberately no uniqueness constraint per
// seller: republishing stacks offers, and FirstBySeller surfaces the oldest.
func (r *OfferRepository) Create(ctx context.Context, offer *entity.SellerOffer) error {
	query := `
		INSERT INTO offers (id, seller_id, name, price_per_ton, demand_tons, reliability, is_recommended, published_at)
		VALUES (:id, :seller_id, :name, :price_per_ton, :demand_tons, :reliability, :is_recommended, :published_at)`

	params := map[string]any{
		"id":             offer.ID.String(),
		"seller_id":      offer.SellerID.String(),
		"name":           offer.Name,
		"price_per_ton":  offer.PricePerTon,
		"demand_tons":    offer.DemandTons,
		"reliability":    offer.Reliability.String(),
		"is_recommended": offer.IsRecommended,
		"published_at":   offer.Timestamp,
	}

	if _, err := r.db.NamedExecContext(ctx, query, params); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to insert offer")
	}

	return nil
}

func (r *OfferRepository) GetByID(ctx context.Context, id value.OfferID) (*entity.SellerOffer, error) {
	query := `SELECT ` + offerColumns + ` FROM offers WHERE id = $1`

	var schema offerSchema
	if err := r.db.GetContext(ctx, &schema, query, id.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewError(errcodes.OfferNotFound, "offer not found")
		}
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to get offer")
	}

	offer, err := schema.toDomain()
	if err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to convert offer")
	}

	return &offer, nil
}

func (r *OfferRepository) GetByIDs(ctx context.Context, ids []value.OfferID) ([]entity.SellerOffer, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	raw := make([]string, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, id.String())
	}

	query, args, err := sqlx.In(`SELECT `+offerColumns+` FROM offers WHERE id IN (?)`, raw)
	if err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to build query")
	}

	var schemas []offerSchema
	if err := r.db.SelectContext(ctx, &schemas, r.db.Rebind(query), args...); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to get offers")
	}

	return r.convertAll(schemas)
}

// List pages through the catalogue in publication order. A non-positive limit
// returns the whole catalogue, which the allocation calculator relies on.
func (r *OfferRepository) List(ctx context.Context, limit, offset int) ([]entity.SellerOffer, error) {
	query := `SELECT ` + offerColumns + ` FROM offers ORDER BY published_at ASC OFFSET $1`
	args := []any{offset}

	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	var schemas []offerSchema
	if err := r.db.SelectContext(ctx, &schemas, query, args...); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list offers")
	}

	return r.convertAll(schemas)
}

// FirstBySeller returns the seller's oldest offer, mirroring the original
// "current offer" lookup that surfaced only the first match.
func (r *OfferRepository) FirstBySeller(ctx context.Context, sellerID value.PartyID) (*entity.SellerOffer, error) {
	query := `SELECT ` + offerColumns + ` FROM offers WHERE seller_id = $1 ORDER BY published_at ASC LIMIT 1`

	var schema offerSchema
	if err := r.db.GetContext(ctx, &schema, query, sellerID.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewError(errcodes.OfferNotFound, "seller has no offers")
		}
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to get seller offer")
	}

	offer, err := schema.toDomain()
	if err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to convert offer")
	}

	return &offer, nil
}

func (r *OfferRepository) convertAll(schemas []offerSchema) ([]entity.SellerOffer, error) {
	offers, err := lox.MapErr(schemas, offerSchema.toDomain)
	if err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to convert offer")
	}

	return offers, nil
}

package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"saltmarket/internal/domain"
	"saltmarket/internal/domain/entity"
	"saltmarket/internal/domain/value"
	"saltmarket/pkg/errcodes"
)

const landownerColumns = `id, name, predicted_season_total, available_tons, updated_at`

type LandownerRepository struct {
	db *sqlx.DB
}

func NewLandownerRepository(db *sqlx.DB) *LandownerRepository {
	return &LandownerRepository{db: db}
}

func (r *LandownerRepository) GetByID(ctx context.Context, id value.PartyID) (*entity.Landowner, error) {
	query := `SELECT ` + landownerColumns + ` FROM landowners WHERE id = $1`

	var schema landownerSchema
	if err := r.db.GetContext(ctx, &schema, query, id.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewError(errcodes.LandownerNotFound, "landowner not found")
		}
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to get landowner")
	}

	return schema.toDomain(), nil
}

func (r *LandownerRepository) List(ctx context.Context, limit, offset int) ([]entity.Landowner, error) {
	query := `SELECT ` + landownerColumns + ` FROM landowners ORDER BY id LIMIT $1 OFFSET $2`

	var schemas []landownerSchema
	if err := r.db.SelectContext(ctx, &schemas, query, limit, offset); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list landowners")
	}

	landowners := make([]entity.Landowner, 0, len(schemas))
	for _, s := range schemas {
		landowners = append(landowners, *s.toDomain())
	}

	return landowners, nil
}

// SetPrediction rebases the landowner's season figures after a prediction
// refresh.
func (r *LandownerRepository) SetPrediction(ctx context.Context, id value.PartyID, predictedSeasonTotal, availableTons float64) error {
	query := `
		UPDATE landowners
		SET predicted_season_total = $1, available_tons = $2, updated_at = $3
		WHERE id = $4`

	res, err := r.db.ExecContext(ctx, query, predictedSeasonTotal, availableTons, time.Now(), id.String())
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to update prediction")
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to check affected rows")
	}

	if rows == 0 {
		return domain.NewError(errcodes.LandownerNotFound, "landowner not found")
	}

	return nil
}

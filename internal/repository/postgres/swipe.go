package postgres

import (
	"context"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/itamhack/matchmaking-service/internal/apperrors"
	"github.com/itamhack/matchmaking-service/internal/domain"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type SwipeRepository struct {
	db  *sqlx.DB
	log *slog.Logger
	sq  sq.StatementBuilderType
}

func NewSwipeRepository(db *sqlx.DB, log *slog.Logger) *SwipeRepository {
	return &SwipeRepository{
		db:  db,
		log: log,
		sq:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *SwipeRepository) Create(ctx context.Context, rec *domain.SwipeRecord) (*domain.SwipeRecord, error) {
	const op = "internal.repository.postgres.swipe.Create"

	query, args, err := r.sq.Insert("swipes").
		Columns("swiper_id", "target_id", "direction").
		Values(rec.SwiperID, rec.TargetID, rec.Direction).
		Suffix("RETURNING id, swiper_id, target_id, direction, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var created domain.SwipeRecord
	if err := r.db.QueryRowxContext(ctx, query, args...).StructScan(&created); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, fmt.Errorf("%s: %w", op, &apperrors.DuplicateSwipeError{
				SwiperID: rec.SwiperID,
				TargetID: rec.TargetID,
			})
		}

		return nil, fmt.Errorf("%s: failed to execute insert: %w", op, err)
	}

	return &created, nil
}

func (r *SwipeRepository) Delete(ctx context.Context, id int64) error {
	const op = "internal.repository.postgres.swipe.Delete"

	query, args, err := r.sq.Delete("swipes").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: failed to execute delete: %w", op, err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s: %w: swipe with id '%d'", op, apperrors.ErrNotFound, id)
	}

	return nil
}

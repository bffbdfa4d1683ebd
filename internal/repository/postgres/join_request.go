package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/itamhack/matchmaking-service/internal/apperrors"
	"github.com/itamhack/matchmaking-service/internal/domain"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type JoinRequestRepository struct {
	db  *sqlx.DB
	log *slog.Logger
	sq  sq.StatementBuilderType
}

func NewJoinRequestRepository(db *sqlx.DB, log *slog.Logger) *JoinRequestRepository {
	return &JoinRequestRepository{
		db:  db,
		log: log,
		sq:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

var joinRequestColumns = []string{"id", "team_id", "user_id", "status", "created_at"}

func (r *JoinRequestRepository) Create(ctx context.Context, req *domain.JoinRequest) (*domain.JoinRequest, error) {
	const op = "internal.repository.postgres.join_request.Create"

	query, args, err := r.sq.Insert("join_requests").
		Columns("team_id", "user_id", "status").
		Values(req.TeamID, req.UserID, req.Status).
		Suffix("RETURNING " + columnList(joinRequestColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var created domain.JoinRequest
	if err := r.db.QueryRowxContext(ctx, query, args...).StructScan(&created); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, fmt.Errorf("%s: %w", op, &apperrors.DuplicateRequestError{
				TeamID: req.TeamID,
				UserID: req.UserID,
			})
		}

		return nil, fmt.Errorf("%s: failed to execute insert: %w", op, err)
	}

	return &created, nil
}

func (r *JoinRequestRepository) GetByID(ctx context.Context, id int64) (*domain.JoinRequest, error) {
	const op = "internal.repository.postgres.join_request.GetByID"

	query, args, err := r.sq.Select(joinRequestColumns...).
		From("join_requests").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var req domain.JoinRequest
	if err := r.db.GetContext(ctx, &req, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w: join request with id '%d'", op, apperrors.ErrNotFound, id)
		}

		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return &req, nil
}

func (r *JoinRequestRepository) GetForUpdate(ctx context.Context, tx *sqlx.Tx, id int64) (*domain.JoinRequest, error) {
	const op = "internal.repository.postgres.join_request.GetForUpdate"

	query, args, err := r.sq.Select(joinRequestColumns...).
		From("join_requests").
		Where(sq.Eq{"id": id}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var req domain.JoinRequest
	if err := tx.GetContext(ctx, &req, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w: join request with id '%d'", op, apperrors.ErrNotFound, id)
		}

		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return &req, nil
}

func (r *JoinRequestRepository) UpdateStatus(ctx context.Context, ext sqlx.ExtContext, id int64, status domain.JoinRequestStatus) error {
	const op = "internal.repository.postgres.join_request.UpdateStatus"

	query, args, err := r.sq.Update("join_requests").
		Set("status", status).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	res, err := ext.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: failed to execute update: %w", op, err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s: %w: join request with id '%d'", op, apperrors.ErrNotFound, id)
	}

	return nil
}

type joinRequestUserRow struct {
	ID        int64                    `db:"id"`
	TeamID    int64                    `db:"team_id"`
	UserID    int64                    `db:"user_id"`
	Status    domain.JoinRequestStatus `db:"status"`
	CreatedAt time.Time                `db:"created_at"`

	Username   string `db:"username"`
	Name       string `db:"name"`
	Bio        string `db:"bio"`
	Experience string `db:"experience"`
	MMR        int    `db:"mmr"`
}

func (r *JoinRequestRepository) ListPendingForTeam(ctx context.Context, teamID int64) ([]domain.JoinRequestWithUser, error) {
	const op = "internal.repository.postgres.join_request.ListPendingForTeam"

	query, args, err := r.sq.Select(
		"jr.id", "jr.team_id", "jr.user_id", "jr.status", "jr.created_at",
		"p.username", "p.name", "p.bio", "p.experience", "p.mmr",
	).
		From("join_requests jr").
		Join("participants p ON p.id = jr.user_id").
		Where(sq.Eq{"jr.team_id": teamID, "jr.status": domain.RequestPending}).
		OrderBy("jr.created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var rows []joinRequestUserRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	requests := make([]domain.JoinRequestWithUser, len(rows))
	for i, row := range rows {
		requests[i] = domain.JoinRequestWithUser{
			JoinRequest: domain.JoinRequest{
				ID:        row.ID,
				TeamID:    row.TeamID,
				UserID:    row.UserID,
				Status:    row.Status,
				CreatedAt: row.CreatedAt,
			},
			User: domain.Participant{
				ID:         row.UserID,
				Username:   row.Username,
				Name:       row.Name,
				Bio:        row.Bio,
				Experience: row.Experience,
				MMR:        row.MMR,
			},
		}
	}

	return requests, nil
}

func (r *JoinRequestRepository) ListForUser(ctx context.Context, userID int64) ([]domain.JoinRequest, error) {
	const op = "internal.repository.postgres.join_request.ListForUser"

	query, args, err := r.sq.Select(joinRequestColumns...).
		From("join_requests").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var requests []domain.JoinRequest
	if err := r.db.SelectContext(ctx, &requests, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return requests, nil
}

func (r *JoinRequestRepository) CancelPendingForUser(ctx context.Context, tx *sqlx.Tx, userID, hackathonID int64) error {
	const op = "internal.repository.postgres.join_request.CancelPendingForUser"

	query, args, err := r.sq.Update("join_requests").
		Set("status", domain.RequestCancelled).
		Where(sq.Eq{"user_id": userID, "status": domain.RequestPending}).
		Where("team_id IN (SELECT id FROM teams WHERE hackathon_id = ?)", hackathonID).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%s: failed to execute update: %w", op, err)
	}

	return nil
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/itamhack/matchmaking-service/internal/apperrors"
	"github.com/itamhack/matchmaking-service/internal/domain"
	"github.com/jmoiron/sqlx"
)

type TeamRepository struct {
	db  *sqlx.DB
	log *slog.Logger
	sq  sq.StatementBuilderType
}

func NewTeamRepository(db *sqlx.DB, log *slog.Logger) *TeamRepository {
	return &TeamRepository{
		db:  db,
		log: log,
		sq:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

var teamColumns = []string{"id", "hackathon_id", "name", "captain_id", "max_size", "status", "created_at"}

func (r *TeamRepository) Create(ctx context.Context, tx *sqlx.Tx, team *domain.Team) (*domain.Team, error) {
	const op = "internal.repository.postgres.team.Create"

	query, args, err := r.sq.Insert("teams").
		Columns("hackathon_id", "name", "captain_id", "max_size", "status").
		Values(team.HackathonID, team.Name, team.CaptainID, team.MaxSize, team.Status).
		Suffix("RETURNING " + columnList(teamColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var created domain.Team
	if err := tx.QueryRowxContext(ctx, query, args...).StructScan(&created); err != nil {
		return nil, fmt.Errorf("%s: failed to execute insert: %w", op, err)
	}

	return &created, nil
}

func (r *TeamRepository) GetByID(ctx context.Context, id int64) (*domain.Team, error) {
	const op = "internal.repository.postgres.team.GetByID"

	query, args, err := r.sq.Select(teamColumns...).
		From("teams").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var team domain.Team
	if err := r.db.GetContext(ctx, &team, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w: team with id '%d'", op, apperrors.ErrNotFound, id)
		}

		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return &team, nil
}

func (r *TeamRepository) GetForUpdate(ctx context.Context, tx *sqlx.Tx, id int64) (*domain.Team, error) {
	const op = "internal.repository.postgres.team.GetForUpdate"

	query, args, err := r.sq.Select(teamColumns...).
		From("teams").
		Where(sq.Eq{"id": id}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var team domain.Team
	if err := tx.GetContext(ctx, &team, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w: team with id '%d'", op, apperrors.ErrNotFound, id)
		}

		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return &team, nil
}

func (r *TeamRepository) GetByCaptain(ctx context.Context, captainID, hackathonID int64) (*domain.Team, error) {
	const op = "internal.repository.postgres.team.GetByCaptain"

	query, args, err := r.sq.Select(teamColumns...).
		From("teams").
		Where(sq.Eq{"captain_id": captainID, "hackathon_id": hackathonID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var team domain.Team
	if err := r.db.GetContext(ctx, &team, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w: no team captained by '%d' in hackathon '%d'", op, apperrors.ErrNotFound, captainID, hackathonID)
		}

		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return &team, nil
}

func (r *TeamRepository) MemberCount(ctx context.Context, ext sqlx.ExtContext, teamID int64) (int, error) {
	const op = "internal.repository.postgres.team.MemberCount"

	query, args, err := r.sq.Select("COUNT(*)").
		From("participants").
		Where(sq.Eq{"current_team_id": teamID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var count int
	if err := sqlx.GetContext(ctx, ext, &count, query, args...); err != nil {
		return 0, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return count, nil
}

func (r *TeamRepository) SetStatus(ctx context.Context, ext sqlx.ExtContext, teamID int64, status domain.TeamStatus) error {
	const op = "internal.repository.postgres.team.SetStatus"

	query, args, err := r.sq.Update("teams").
		Set("status", status).
		Where(sq.Eq{"id": teamID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	res, err := ext.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: failed to execute update: %w", op, err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s: %w: team with id '%d'", op, apperrors.ErrNotFound, teamID)
	}

	return nil
}

func (r *TeamRepository) ListByHackathon(ctx context.Context, hackathonID int64) ([]domain.Team, error) {
	const op = "internal.repository.postgres.team.ListByHackathon"

	query, args, err := r.sq.Select(teamColumns...).
		From("teams").
		Where(sq.Eq{"hackathon_id": hackathonID}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var teams []domain.Team
	if err := r.db.SelectContext(ctx, &teams, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return teams, nil
}

func columnList(columns []string) string {
	out := columns[0]
	for _, c := range columns[1:] {
		out += ", " + c
	}

	return out
}

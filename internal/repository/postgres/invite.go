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

type InviteRepository struct {
	db  *sqlx.DB
	log *slog.Logger
	sq  sq.StatementBuilderType
}

func NewInviteRepository(db *sqlx.DB, log *slog.Logger) *InviteRepository {
	return &InviteRepository{
		db:  db,
		log: log,
		sq:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

var inviteColumns = []string{
	"id", "team_id", "from_user_id", "to_user_id", "status", "message", "created_at", "expires_at",
}

func (r *InviteRepository) Create(ctx context.Context, invite *domain.Invite) (*domain.Invite, error) {
	const op = "internal.repository.postgres.invite.Create"

	query, args, err := r.sq.Insert("invites").
		Columns("team_id", "from_user_id", "to_user_id", "status", "message", "expires_at").
		Values(invite.TeamID, invite.FromUserID, invite.ToUserID, invite.Status, invite.Message, invite.ExpiresAt).
		Suffix("RETURNING " + columnList(inviteColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var created domain.Invite
	if err := r.db.QueryRowxContext(ctx, query, args...).StructScan(&created); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, fmt.Errorf("%s: %w", op, &apperrors.DuplicateInviteError{
				TeamID:   invite.TeamID,
				ToUserID: invite.ToUserID,
			})
		}

		return nil, fmt.Errorf("%s: failed to execute insert: %w", op, err)
	}

	return &created, nil
}

func (r *InviteRepository) GetByID(ctx context.Context, id int64) (*domain.Invite, error) {
	const op = "internal.repository.postgres.invite.GetByID"

	query, args, err := r.sq.Select(inviteColumns...).
		From("invites").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var invite domain.Invite
	if err := r.db.GetContext(ctx, &invite, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w: invite with id '%d'", op, apperrors.ErrNotFound, id)
		}

		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return &invite, nil
}

func (r *InviteRepository) GetForUpdate(ctx context.Context, tx *sqlx.Tx, id int64) (*domain.Invite, error) {
	const op = "internal.repository.postgres.invite.GetForUpdate"

	query, args, err := r.sq.Select(inviteColumns...).
		From("invites").
		Where(sq.Eq{"id": id}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var invite domain.Invite
	if err := tx.GetContext(ctx, &invite, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w: invite with id '%d'", op, apperrors.ErrNotFound, id)
		}

		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return &invite, nil
}

func (r *InviteRepository) GetPendingByTeamAndUser(ctx context.Context, teamID, toUserID int64) (*domain.Invite, error) {
	const op = "internal.repository.postgres.invite.GetPendingByTeamAndUser"

	query, args, err := r.sq.Select(inviteColumns...).
		From("invites").
		Where(sq.Eq{
			"team_id":    teamID,
			"to_user_id": toUserID,
			"status":     domain.InvitePending,
		}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var invite domain.Invite
	if err := r.db.GetContext(ctx, &invite, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w: pending invite for team '%d' and participant '%d'", op, apperrors.ErrNotFound, teamID, toUserID)
		}

		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return &invite, nil
}

func (r *InviteRepository) UpdateStatus(ctx context.Context, ext sqlx.ExtContext, id int64, status domain.InviteStatus) error {
	const op = "internal.repository.postgres.invite.UpdateStatus"

	query, args, err := r.sq.Update("invites").
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
		return fmt.Errorf("%s: %w: invite with id '%d'", op, apperrors.ErrNotFound, id)
	}

	return nil
}

type inviteContextRow struct {
	ID         int64               `db:"id"`
	TeamID     int64               `db:"team_id"`
	FromUserID int64               `db:"from_user_id"`
	ToUserID   int64               `db:"to_user_id"`
	Status     domain.InviteStatus `db:"status"`
	Message    *string             `db:"message"`
	CreatedAt  time.Time           `db:"created_at"`
	ExpiresAt  time.Time           `db:"expires_at"`

	TeamName      string            `db:"team_name"`
	TeamStatus    domain.TeamStatus `db:"team_status"`
	TeamMaxSize   int               `db:"team_max_size"`
	TeamCaptainID int64             `db:"team_captain_id"`
	HackathonID   int64             `db:"hackathon_id"`

	FromUsername string `db:"from_username"`
	FromName     string `db:"from_name"`
	FromMMR      int    `db:"from_mmr"`
}

func (r *InviteRepository) ListForUser(ctx context.Context, userID int64) ([]domain.InviteWithContext, error) {
	const op = "internal.repository.postgres.invite.ListForUser"

	query, args, err := r.sq.Select(
		"i.id", "i.team_id", "i.from_user_id", "i.to_user_id", "i.status", "i.message", "i.created_at", "i.expires_at",
		"t.name AS team_name", "t.status AS team_status", "t.max_size AS team_max_size",
		"t.captain_id AS team_captain_id", "t.hackathon_id",
		"p.username AS from_username", "p.name AS from_name", "p.mmr AS from_mmr",
	).
		From("invites i").
		Join("teams t ON t.id = i.team_id").
		Join("participants p ON p.id = i.from_user_id").
		Where(sq.Eq{"i.to_user_id": userID}).
		OrderBy("i.created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var rows []inviteContextRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	invites := make([]domain.InviteWithContext, len(rows))
	for i, row := range rows {
		invites[i] = domain.InviteWithContext{
			Invite: domain.Invite{
				ID:         row.ID,
				TeamID:     row.TeamID,
				FromUserID: row.FromUserID,
				ToUserID:   row.ToUserID,
				Status:     row.Status,
				Message:    row.Message,
				CreatedAt:  row.CreatedAt,
				ExpiresAt:  row.ExpiresAt,
			},
			Team: domain.Team{
				ID:          row.TeamID,
				HackathonID: row.HackathonID,
				Name:        row.TeamName,
				CaptainID:   row.TeamCaptainID,
				MaxSize:     row.TeamMaxSize,
				Status:      row.TeamStatus,
			},
			FromUser: domain.Participant{
				ID:       row.FromUserID,
				Username: row.FromUsername,
				Name:     row.FromName,
				MMR:      row.FromMMR,
			},
		}
	}

	return invites, nil
}

func (r *InviteRepository) ListForTeam(ctx context.Context, teamID int64) ([]domain.Invite, error) {
	const op = "internal.repository.postgres.invite.ListForTeam"

	query, args, err := r.sq.Select(inviteColumns...).
		From("invites").
		Where(sq.Eq{"team_id": teamID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var invites []domain.Invite
	if err := r.db.SelectContext(ctx, &invites, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return invites, nil
}

func (r *InviteRepository) CancelPendingForUser(ctx context.Context, tx *sqlx.Tx, userID, hackathonID int64) error {
	const op = "internal.repository.postgres.invite.CancelPendingForUser"

	query, args, err := r.sq.Update("invites").
		Set("status", domain.InviteCancelled).
		Where(sq.Eq{"to_user_id": userID, "status": domain.InvitePending}).
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

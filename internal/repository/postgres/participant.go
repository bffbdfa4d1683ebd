package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/itamhack/matchmaking-service/internal/apperrors"
	"github.com/itamhack/matchmaking-service/internal/domain"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type ParticipantRepository struct {
	db  *sqlx.DB
	log *slog.Logger
	sq  sq.StatementBuilderType
}

func NewParticipantRepository(db *sqlx.DB, log *slog.Logger) *ParticipantRepository {
	return &ParticipantRepository{
		db:  db,
		log: log,
		sq:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

type participantRow struct {
	ID                 int64          `db:"id"`
	Username           string         `db:"username"`
	Name               string         `db:"name"`
	Bio                string         `db:"bio"`
	Experience         string         `db:"experience"`
	LookingFor         pq.StringArray `db:"looking_for"`
	PTS                int            `db:"pts"`
	MMR                int            `db:"mmr"`
	CurrentTeamID      *int64         `db:"current_team_id"`
	CurrentHackathonID *int64         `db:"current_hackathon_id"`
	CreatedAt          time.Time      `db:"created_at"`
}

func (r participantRow) toDomain() domain.Participant {
	return domain.Participant{
		ID:                 r.ID,
		Username:           r.Username,
		Name:               r.Name,
		Bio:                r.Bio,
		Experience:         r.Experience,
		LookingFor:         r.LookingFor,
		PTS:                r.PTS,
		MMR:                r.MMR,
		CurrentTeamID:      r.CurrentTeamID,
		CurrentHackathonID: r.CurrentHackathonID,
		CreatedAt:          r.CreatedAt,
	}
}

var participantColumns = []string{
	"id", "username", "name", "bio", "experience", "looking_for",
	"pts", "mmr", "current_team_id", "current_hackathon_id", "created_at",
}

func (r *ParticipantRepository) GetByID(ctx context.Context, id int64) (*domain.Participant, error) {
	const op = "internal.repository.postgres.participant.GetByID"

	query, args, err := r.sq.Select(participantColumns...).
		From("participants").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var row participantRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w: participant with id '%d'", op, apperrors.ErrNotFound, id)
		}

		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	participant := row.toDomain()

	skills, err := r.loadSkills(ctx, []int64{id})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	participant.Skills = skills[id]

	return &participant, nil
}

func (r *ParticipantRepository) GetForUpdate(ctx context.Context, tx *sqlx.Tx, id int64) (*domain.Participant, error) {
	const op = "internal.repository.postgres.participant.GetForUpdate"

	query, args, err := r.sq.Select(participantColumns...).
		From("participants").
		Where(sq.Eq{"id": id}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var row participantRow
	if err := tx.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w: participant with id '%d'", op, apperrors.ErrNotFound, id)
		}

		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	participant := row.toDomain()

	return &participant, nil
}

func (r *ParticipantRepository) ListByTeam(ctx context.Context, teamID int64) ([]domain.Participant, error) {
	const op = "internal.repository.postgres.participant.ListByTeam"

	query, args, err := r.sq.Select(participantColumns...).
		From("participants").
		Where(sq.Eq{"current_team_id": teamID}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	return r.selectParticipants(ctx, op, query, args)
}

func (r *ParticipantRepository) ListCandidates(ctx context.Context, hackathonID, swiperID int64, prefs domain.DeckPreferences, limit int) ([]domain.Participant, error) {
	const op = "internal.repository.postgres.participant.ListCandidates"

	builder := r.sq.Select(
		"p.id", "p.username", "p.name", "p.bio", "p.experience", "p.looking_for",
		"p.pts", "p.mmr", "p.current_team_id", "p.current_hackathon_id", "p.created_at",
	).
		From("participants p").
		Join("hackathon_participants hp ON hp.participant_id = p.id").
		Where(sq.Eq{"hp.hackathon_id": hackathonID}).
		Where(sq.NotEq{"p.id": swiperID}).
		Where("p.current_team_id IS NULL").
		Where("p.id NOT IN (SELECT target_id FROM swipes WHERE swiper_id = ?)", swiperID)

	if prefs.MinMMR != nil {
		builder = builder.Where(sq.GtOrEq{"p.mmr": *prefs.MinMMR})
	}
	if prefs.MaxMMR != nil {
		builder = builder.Where(sq.LtOrEq{"p.mmr": *prefs.MaxMMR})
	}
	if len(prefs.Experience) > 0 {
		builder = builder.Where(sq.Eq{"p.experience": prefs.Experience})
	}
	if len(prefs.Roles) > 0 {
		builder = builder.Where("p.looking_for && ?", pq.StringArray(prefs.Roles))
	}
	if len(prefs.Skills) > 0 {
		builder = builder.Where(
			"EXISTS (SELECT 1 FROM participant_skills ps WHERE ps.participant_id = p.id AND lower(ps.name) = ANY(?))",
			pq.StringArray(lowerAll(prefs.Skills)),
		)
	}
	if prefs.VerifiedOnly {
		builder = builder.Where(
			"EXISTS (SELECT 1 FROM participant_skills ps WHERE ps.participant_id = p.id AND ps.verified)",
		)
	}

	// Ordering only needs to be deterministic for a fixed input.
	query, args, err := builder.OrderBy("p.id").Limit(uint64(limit)).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	return r.selectParticipants(ctx, op, query, args)
}

func (r *ParticipantRepository) SetCurrentTeam(ctx context.Context, ext sqlx.ExtContext, id int64, teamID *int64) error {
	const op = "internal.repository.postgres.participant.SetCurrentTeam"

	query, args, err := r.sq.Update("participants").
		Set("current_team_id", teamID).
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
		return fmt.Errorf("%s: %w: participant with id '%d'", op, apperrors.ErrNotFound, id)
	}

	return nil
}

func (r *ParticipantRepository) UpdateRating(ctx context.Context, id int64, pts, mmr int) error {
	const op = "internal.repository.postgres.participant.UpdateRating"

	query, args, err := r.sq.Update("participants").
		Set("pts", pts).
		Set("mmr", mmr).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: failed to execute update: %w", op, err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s: %w: participant with id '%d'", op, apperrors.ErrNotFound, id)
	}

	return nil
}

func (r *ParticipantRepository) UpsertSkill(ctx context.Context, id int64, skill domain.Skill) error {
	const op = "internal.repository.postgres.participant.UpsertSkill"

	query, args, err := r.sq.Insert("participant_skills").
		Columns("participant_id", "name", "level", "verified").
		Values(id, skill.Name, skill.Level, skill.Verified).
		Suffix(`
        ON CONFLICT (participant_id, lower(name)) DO UPDATE SET
            name = EXCLUDED.name,
            level = EXCLUDED.level,
            verified = EXCLUDED.verified`).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return fmt.Errorf("%s: %w: participant with id '%d'", op, apperrors.ErrNotFound, id)
		}

		return fmt.Errorf("%s: failed to execute upsert: %w", op, err)
	}

	return nil
}

func (r *ParticipantRepository) IsRegistered(ctx context.Context, participantID, hackathonID int64) (bool, error) {
	const op = "internal.repository.postgres.participant.IsRegistered"

	query, args, err := r.sq.Select("1").
		From("hackathon_participants").
		Where(sq.Eq{"participant_id": participantID, "hackathon_id": hackathonID}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var one int
	if err := r.db.GetContext(ctx, &one, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}

		return false, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return true, nil
}

func (r *ParticipantRepository) selectParticipants(ctx context.Context, op, query string, args []interface{}) ([]domain.Participant, error) {
	var rows []participantRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	ids := make([]int64, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}

	skills, err := r.loadSkills(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	participants := make([]domain.Participant, len(rows))
	for i, row := range rows {
		participants[i] = row.toDomain()
		participants[i].Skills = skills[row.ID]
	}

	return participants, nil
}

type skillRow struct {
	ParticipantID int64             `db:"participant_id"`
	Name          string            `db:"name"`
	Level         domain.SkillLevel `db:"level"`
	Verified      bool              `db:"verified"`
}

func (r *ParticipantRepository) loadSkills(ctx context.Context, participantIDs []int64) (map[int64][]domain.Skill, error) {
	if len(participantIDs) == 0 {
		return map[int64][]domain.Skill{}, nil
	}

	query, args, err := r.sq.Select("participant_id", "name", "level", "verified").
		From("participant_skills").
		Where(sq.Eq{"participant_id": participantIDs}).
		OrderBy("participant_id", "name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build skills query: %w", err)
	}

	var rows []skillRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to load skills: %w", err)
	}

	skills := make(map[int64][]domain.Skill, len(participantIDs))
	for _, row := range rows {
		skills[row.ParticipantID] = append(skills[row.ParticipantID], domain.Skill{
			Name:     row.Name,
			Level:    row.Level,
			Verified: row.Verified,
		})
	}

	return skills, nil
}

func lowerAll(values []string) []string {
	lowered := make([]string, len(values))
	for i, v := range values {
		lowered[i] = strings.ToLower(v)
	}

	return lowered
}


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
	"github.com/lib/pq"
)

type PreferenceRepository struct {
	db  *sqlx.DB
	log *slog.Logger
	sq  sq.StatementBuilderType
}

func NewPreferenceRepository(db *sqlx.DB, log *slog.Logger) *PreferenceRepository {
	return &PreferenceRepository{
		db:  db,
		log: log,
		sq:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

type preferenceRow struct {
	MinMMR       *int           `db:"min_mmr"`
	MaxMMR       *int           `db:"max_mmr"`
	Skills       pq.StringArray `db:"skills"`
	Experience   pq.StringArray `db:"experience"`
	Roles        pq.StringArray `db:"roles"`
	VerifiedOnly bool           `db:"verified_only"`
}

func (r *PreferenceRepository) Get(ctx context.Context, userID, hackathonID int64) (*domain.DeckPreferences, error) {
	const op = "internal.repository.postgres.preference.Get"

	query, args, err := r.sq.Select("min_mmr", "max_mmr", "skills", "experience", "roles", "verified_only").
		From("swipe_preferences").
		Where(sq.Eq{"user_id": userID, "hackathon_id": hackathonID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var row preferenceRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w: preferences for participant '%d'", op, apperrors.ErrNotFound, userID)
		}

		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return &domain.DeckPreferences{
		MinMMR:       row.MinMMR,
		MaxMMR:       row.MaxMMR,
		Skills:       row.Skills,
		Experience:   row.Experience,
		Roles:        row.Roles,
		VerifiedOnly: row.VerifiedOnly,
	}, nil
}

func (r *PreferenceRepository) Upsert(ctx context.Context, userID, hackathonID int64, prefs domain.DeckPreferences) error {
	const op = "internal.repository.postgres.preference.Upsert"

	query, args, err := r.sq.Insert("swipe_preferences").
		Columns("user_id", "hackathon_id", "min_mmr", "max_mmr", "skills", "experience", "roles", "verified_only").
		Values(
			userID, hackathonID, prefs.MinMMR, prefs.MaxMMR,
			pq.StringArray(prefs.Skills), pq.StringArray(prefs.Experience), pq.StringArray(prefs.Roles),
			prefs.VerifiedOnly,
		).
		Suffix(`
        ON CONFLICT (user_id, hackathon_id) DO UPDATE SET
            min_mmr = EXCLUDED.min_mmr,
            max_mmr = EXCLUDED.max_mmr,
            skills = EXCLUDED.skills,
            experience = EXCLUDED.experience,
            roles = EXCLUDED.roles,
            verified_only = EXCLUDED.verified_only`).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return fmt.Errorf("%s: %w: participant with id '%d'", op, apperrors.ErrNotFound, userID)
		}

		return fmt.Errorf("%s: failed to execute upsert: %w", op, err)
	}

	return nil
}

// package repository defines the interfaces for the data persistence layer.
// These interfaces abstract the underlying database implementation from the
// service layer; the tx-taking methods exist so the roster can compose several
// writes into one atomic admission.
package repository

import (
	"context"

	"github.com/itamhack/matchmaking-service/internal/domain"
	"github.com/jmoiron/sqlx"
)

// ParticipantRepository covers participant profiles, ratings and skills.
type ParticipantRepository interface {
	// GetByID loads a participant with skills and roles.
	// Returns apperrors.ErrNotFound if the participant does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Participant, error)

	// GetForUpdate locks the participant row for the duration of the
	// transaction. Used by admission to pin current_team_id.
	GetForUpdate(ctx context.Context, tx *sqlx.Tx, id int64) (*domain.Participant, error)

	// ListByTeam returns every participant whose current_team_id is teamID.
	ListByTeam(ctx context.Context, teamID int64) ([]domain.Participant, error)

	// ListCandidates builds the swipe candidate pool for one swiper: hackathon
	// registrants minus the swiper, minus teamed participants, minus anyone the
	// swiper already swiped on, filtered by prefs and capped at limit.
	ListCandidates(ctx context.Context, hackathonID, swiperID int64, prefs domain.DeckPreferences, limit int) ([]domain.Participant, error)

	// SetCurrentTeam assigns or clears (nil) the participant's team.
	SetCurrentTeam(ctx context.Context, ext sqlx.ExtContext, id int64, teamID *int64) error

	// UpdateRating overwrites pts and mmr.
	// Returns apperrors.ErrNotFound if the participant does not exist.
	UpdateRating(ctx context.Context, id int64, pts, mmr int) error

	// UpsertSkill inserts or replaces the participant's skill entry, matching
	// the skill name case-insensitively.
	UpsertSkill(ctx context.Context, id int64, skill domain.Skill) error

	// IsRegistered reports whether the participant is registered for the
	// hackathon.
	IsRegistered(ctx context.Context, participantID, hackathonID int64) (bool, error)
}

// TeamRepository covers team rows. Membership itself lives on participants
// (current_team_id), so the roster is derived, never stored twice.
type TeamRepository interface {
	// Create inserts a team. The captain's current_team_id is NOT touched here;
	// that is the roster service's job inside the same transaction.
	Create(ctx context.Context, tx *sqlx.Tx, team *domain.Team) (*domain.Team, error)

	// GetByID returns apperrors.ErrNotFound if the team does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Team, error)

	// GetForUpdate locks the team row ("FOR UPDATE"). Every membership change
	// serializes on this lock, which is what makes the capacity recheck safe.
	GetForUpdate(ctx context.Context, tx *sqlx.Tx, id int64) (*domain.Team, error)

	// GetByCaptain finds the captain's team within a hackathon.
	// Returns apperrors.ErrNotFound if the captain has no team there.
	GetByCaptain(ctx context.Context, captainID, hackathonID int64) (*domain.Team, error)

	// MemberCount counts participants currently on the team.
	MemberCount(ctx context.Context, ext sqlx.ExtContext, teamID int64) (int, error)

	// SetStatus writes the team status.
	SetStatus(ctx context.Context, ext sqlx.ExtContext, teamID int64, status domain.TeamStatus) error

	// ListByHackathon returns the hackathon's teams.
	ListByHackathon(ctx context.Context, hackathonID int64) ([]domain.Team, error)
}

// SwipeRepository records swipe decisions. Pair uniqueness is enforced by the
// database, not by a pre-check, so concurrent duplicates cannot both land.
type SwipeRepository interface {
	// Create inserts the record and returns it with id and created_at set.
	// Returns *apperrors.DuplicateSwipeError if the pair already exists.
	Create(ctx context.Context, rec *domain.SwipeRecord) (*domain.SwipeRecord, error)

	// Delete removes a record by id. Used only by undo.
	Delete(ctx context.Context, id int64) error
}

// InviteRepository covers captain-issued invites. Pending uniqueness per
// (team, invitee) pair is a partial unique index, again enforced at write time.
type InviteRepository interface {
	// Create returns *apperrors.DuplicateInviteError if a pending invite for
	// the pair already exists.
	Create(ctx context.Context, invite *domain.Invite) (*domain.Invite, error)

	// GetByID returns apperrors.ErrNotFound if the invite does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Invite, error)

	// GetForUpdate locks the invite row so resolution and retraction cannot
	// race each other.
	GetForUpdate(ctx context.Context, tx *sqlx.Tx, id int64) (*domain.Invite, error)

	// GetPendingByTeamAndUser finds the pending invite for the pair, if any.
	GetPendingByTeamAndUser(ctx context.Context, teamID, toUserID int64) (*domain.Invite, error)

	// UpdateStatus writes the invite status.
	UpdateStatus(ctx context.Context, ext sqlx.ExtContext, id int64, status domain.InviteStatus) error

	// ListForUser returns the candidate's invites with team and sender context.
	ListForUser(ctx context.Context, userID int64) ([]domain.InviteWithContext, error)

	// ListForTeam returns the team's outgoing invites, newest first.
	ListForTeam(ctx context.Context, teamID int64) ([]domain.Invite, error)

	// CancelPendingForUser cancels every pending invite addressed to the user
	// by teams of the given hackathon. Runs inside the admission transaction.
	CancelPendingForUser(ctx context.Context, tx *sqlx.Tx, userID, hackathonID int64) error
}

// JoinRequestRepository covers candidate-issued join requests.
type JoinRequestRepository interface {
	// Create returns *apperrors.DuplicateRequestError if a pending request for
	// the pair already exists.
	Create(ctx context.Context, req *domain.JoinRequest) (*domain.JoinRequest, error)

	// GetByID returns apperrors.ErrNotFound if the request does not exist.
	GetByID(ctx context.Context, id int64) (*domain.JoinRequest, error)

	// GetForUpdate locks the request row for resolution.
	GetForUpdate(ctx context.Context, tx *sqlx.Tx, id int64) (*domain.JoinRequest, error)

	// UpdateStatus writes the request status.
	UpdateStatus(ctx context.Context, ext sqlx.ExtContext, id int64, status domain.JoinRequestStatus) error

	// ListPendingForTeam returns pending requests with the requester profile.
	ListPendingForTeam(ctx context.Context, teamID int64) ([]domain.JoinRequestWithUser, error)

	// ListForUser returns the candidate's own requests, newest first.
	ListForUser(ctx context.Context, userID int64) ([]domain.JoinRequest, error)

	// CancelPendingForUser cancels the user's pending requests to teams of the
	// given hackathon. Runs inside the admission transaction.
	CancelPendingForUser(ctx context.Context, tx *sqlx.Tx, userID, hackathonID int64) error
}

// PreferenceRepository persists per-(user, hackathon) swipe filters.
type PreferenceRepository interface {
	// Get returns apperrors.ErrNotFound when no preferences are stored yet.
	Get(ctx context.Context, userID, hackathonID int64) (*domain.DeckPreferences, error)

	// Upsert stores the preferences for the pair.
	Upsert(ctx context.Context, userID, hackathonID int64, prefs domain.DeckPreferences) error
}

package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/itamhack/matchmaking-service/internal/apperrors"
	"github.com/itamhack/matchmaking-service/internal/domain"
	"github.com/itamhack/matchmaking-service/internal/repository"
	"github.com/jmoiron/sqlx"
)

// RosterService is the single admission authority. Every membership change,
// whichever workflow triggered it, goes through Admit/Kick here so the capacity
// invariant is checked in exactly one place, under the team row lock.
type RosterService interface {
	CreateTeam(ctx context.Context, captainID, hackathonID int64, name string, maxSize int) (*domain.Team, error)
	GetTeam(ctx context.Context, teamID int64) (*domain.TeamWithMembers, error)
	ListTeams(ctx context.Context, hackathonID int64) ([]domain.TeamWithMembers, error)
	Admit(ctx context.Context, teamID, userID int64) error
	AdmitInTx(ctx context.Context, tx *sqlx.Tx, teamID, userID int64) error
	Kick(ctx context.Context, teamID, callerID, userID int64) error
	Leave(ctx context.Context, teamID, userID int64) error
	SetStatus(ctx context.Context, teamID, callerID int64, status domain.TeamStatus) error
}

type RosterServiceImpl struct {
	BaseService
	teams        repository.TeamRepository
	participants repository.ParticipantRepository
	invites      repository.InviteRepository
	requests     repository.JoinRequestRepository
}

func NewRosterService(
	db Transactor,
	log *slog.Logger,
	teams repository.TeamRepository,
	participants repository.ParticipantRepository,
	invites repository.InviteRepository,
	requests repository.JoinRequestRepository,
) *RosterServiceImpl {
	return &RosterServiceImpl{
		BaseService:  NewBaseService(db, log),
		teams:        teams,
		participants: participants,
		invites:      invites,
		requests:     requests,
	}
}

func (s *RosterServiceImpl) CreateTeam(ctx context.Context, captainID, hackathonID int64, name string, maxSize int) (*domain.Team, error) {
	const op = "internal.service.roster.CreateTeam"
	log := s.log.With(slog.String("op", op), slog.Int64("captain_id", captainID), slog.Int64("hackathon_id", hackathonID))

	registered, err := s.participants.IsRegistered(ctx, captainID, hackathonID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to check registration: %w", op, err)
	}
	if !registered {
		return nil, fmt.Errorf("%s: %w", op, apperrors.ErrNotRegistered)
	}

	var created *domain.Team

	err = s.transaction(ctx, op, func(tx *sqlx.Tx) error {
		captain, err := s.participants.GetForUpdate(ctx, tx, captainID)
		if err != nil {
			return fmt.Errorf("%s: failed to lock captain: %w", op, err)
		}

		if captain.CurrentTeamID != nil {
			return fmt.Errorf("%s: %w", op, apperrors.ErrAlreadyInTeam)
		}

		status := domain.TeamOpen
		if maxSize == 1 {
			status = domain.TeamFull
		}

		created, err = s.teams.Create(ctx, tx, &domain.Team{
			HackathonID: hackathonID,
			Name:        name,
			CaptainID:   captainID,
			MaxSize:     maxSize,
			Status:      status,
		})
		if err != nil {
			return fmt.Errorf("%s: failed to create team: %w", op, err)
		}

		if err := s.participants.SetCurrentTeam(ctx, tx, captainID, &created.ID); err != nil {
			return fmt.Errorf("%s: failed to place captain on team: %w", op, err)
		}

		// The captain just got a team; their pending offers elsewhere are moot.
		return s.cancelCompetingOffers(ctx, tx, op, captainID, hackathonID)
	})
	if err != nil {
		return nil, err
	}

	log.Info("team created", slog.Int64("team_id", created.ID))

	return created, nil
}

func (s *RosterServiceImpl) GetTeam(ctx context.Context, teamID int64) (*domain.TeamWithMembers, error) {
	const op = "internal.service.roster.GetTeam"

	team, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get team: %w", op, err)
	}

	members, err := s.participants.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list members: %w", op, err)
	}

	return &domain.TeamWithMembers{Team: *team, Members: members}, nil
}

func (s *RosterServiceImpl) ListTeams(ctx context.Context, hackathonID int64) ([]domain.TeamWithMembers, error) {
	const op = "internal.service.roster.ListTeams"

	teams, err := s.teams.ListByHackathon(ctx, hackathonID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list teams: %w", op, err)
	}

	out := make([]domain.TeamWithMembers, len(teams))
	for i, team := range teams {
		members, err := s.participants.ListByTeam(ctx, team.ID)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to list members of team %d: %w", op, team.ID, err)
		}

		out[i] = domain.TeamWithMembers{Team: team, Members: members}
	}

	return out, nil
}

func (s *RosterServiceImpl) Admit(ctx context.Context, teamID, userID int64) error {
	const op = "internal.service.roster.Admit"

	return s.transaction(ctx, op, func(tx *sqlx.Tx) error {
		return s.AdmitInTx(ctx, tx, teamID, userID)
	})
}

// AdmitInTx runs the admission inside the caller's transaction so invite and
// join-request resolution can mark their row accepted in the same atomic unit.
// The team row lock is what serializes concurrent admissions: the capacity and
// free-agent rechecks below happen after the lock is held.
func (s *RosterServiceImpl) AdmitInTx(ctx context.Context, tx *sqlx.Tx, teamID, userID int64) error {
	const op = "internal.service.roster.AdmitInTx"
	log := s.log.With(slog.String("op", op), slog.Int64("team_id", teamID), slog.Int64("user_id", userID))

	team, err := s.teams.GetForUpdate(ctx, tx, teamID)
	if err != nil {
		return fmt.Errorf("%s: failed to lock team: %w", op, err)
	}

	participant, err := s.participants.GetForUpdate(ctx, tx, userID)
	if err != nil {
		return fmt.Errorf("%s: failed to lock participant: %w", op, err)
	}

	count, err := s.teams.MemberCount(ctx, tx, teamID)
	if err != nil {
		return fmt.Errorf("%s: failed to count members: %w", op, err)
	}

	if count >= team.MaxSize {
		return fmt.Errorf("%s: %w", op, &apperrors.AdmissionError{TeamID: teamID, UserID: userID, Reason: apperrors.ErrTeamFull})
	}

	if participant.CurrentTeamID != nil {
		return fmt.Errorf("%s: %w", op, &apperrors.AdmissionError{TeamID: teamID, UserID: userID, Reason: apperrors.ErrAlreadyInTeam})
	}

	if err := s.participants.SetCurrentTeam(ctx, tx, userID, &teamID); err != nil {
		return fmt.Errorf("%s: failed to set current team: %w", op, err)
	}

	if count+1 == team.MaxSize {
		if err := s.teams.SetStatus(ctx, tx, teamID, domain.TeamFull); err != nil {
			return fmt.Errorf("%s: failed to mark team full: %w", op, err)
		}
	}

	if err := s.cancelCompetingOffers(ctx, tx, op, userID, team.HackathonID); err != nil {
		return err
	}

	log.Info("participant admitted", slog.Int("roster_size", count+1))

	return nil
}

func (s *RosterServiceImpl) Kick(ctx context.Context, teamID, callerID, userID int64) error {
	const op = "internal.service.roster.Kick"
	log := s.log.With(slog.String("op", op), slog.Int64("team_id", teamID), slog.Int64("user_id", userID))

	err := s.transaction(ctx, op, func(tx *sqlx.Tx) error {
		team, err := s.teams.GetForUpdate(ctx, tx, teamID)
		if err != nil {
			return fmt.Errorf("%s: failed to lock team: %w", op, err)
		}

		if team.CaptainID != callerID {
			return fmt.Errorf("%s: %w", op, apperrors.ErrNotCaptain)
		}

		if userID == team.CaptainID {
			return fmt.Errorf("%s: %w", op, apperrors.ErrCaptainKick)
		}

		return s.removeMember(ctx, tx, op, team, userID)
	})
	if err != nil {
		return err
	}

	log.Info("participant kicked")

	return nil
}

func (s *RosterServiceImpl) Leave(ctx context.Context, teamID, userID int64) error {
	const op = "internal.service.roster.Leave"
	log := s.log.With(slog.String("op", op), slog.Int64("team_id", teamID), slog.Int64("user_id", userID))

	err := s.transaction(ctx, op, func(tx *sqlx.Tx) error {
		team, err := s.teams.GetForUpdate(ctx, tx, teamID)
		if err != nil {
			return fmt.Errorf("%s: failed to lock team: %w", op, err)
		}

		if userID == team.CaptainID {
			return fmt.Errorf("%s: %w", op, apperrors.ErrCaptainLeave)
		}

		return s.removeMember(ctx, tx, op, team, userID)
	})
	if err != nil {
		return err
	}

	log.Info("participant left team")

	return nil
}

func (s *RosterServiceImpl) SetStatus(ctx context.Context, teamID, callerID int64, status domain.TeamStatus) error {
	const op = "internal.service.roster.SetStatus"

	return s.transaction(ctx, op, func(tx *sqlx.Tx) error {
		team, err := s.teams.GetForUpdate(ctx, tx, teamID)
		if err != nil {
			return fmt.Errorf("%s: failed to lock team: %w", op, err)
		}

		if team.CaptainID != callerID {
			return fmt.Errorf("%s: %w", op, apperrors.ErrNotCaptain)
		}

		if team.Status == domain.TeamFull {
			return fmt.Errorf("%s: %w", op, apperrors.ErrStatusLocked)
		}

		if err := s.teams.SetStatus(ctx, tx, teamID, status); err != nil {
			return fmt.Errorf("%s: failed to set status: %w", op, err)
		}

		return nil
	})
}

func (s *RosterServiceImpl) removeMember(ctx context.Context, tx *sqlx.Tx, op string, team *domain.Team, userID int64) error {
	participant, err := s.participants.GetForUpdate(ctx, tx, userID)
	if err != nil {
		return fmt.Errorf("%s: failed to lock participant: %w", op, err)
	}

	if participant.CurrentTeamID == nil || *participant.CurrentTeamID != team.ID {
		return fmt.Errorf("%s: %w: participant '%d' is not on team '%d'", op, apperrors.ErrNotFound, userID, team.ID)
	}

	if err := s.participants.SetCurrentTeam(ctx, tx, userID, nil); err != nil {
		return fmt.Errorf("%s: failed to clear current team: %w", op, err)
	}

	if team.Status == domain.TeamFull {
		if err := s.teams.SetStatus(ctx, tx, team.ID, domain.TeamOpen); err != nil {
			return fmt.Errorf("%s: failed to reopen team: %w", op, err)
		}
	}

	return nil
}

func (s *RosterServiceImpl) cancelCompetingOffers(ctx context.Context, tx *sqlx.Tx, op string, userID, hackathonID int64) error {
	if err := s.invites.CancelPendingForUser(ctx, tx, userID, hackathonID); err != nil {
		return fmt.Errorf("%s: failed to cancel pending invites: %w", op, err)
	}

	if err := s.requests.CancelPendingForUser(ctx, tx, userID, hackathonID); err != nil {
		return fmt.Errorf("%s: failed to cancel pending join requests: %w", op, err)
	}

	return nil
}

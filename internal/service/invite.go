package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/itamhack/matchmaking-service/internal/apperrors"
	"github.com/itamhack/matchmaking-service/internal/domain"
	"github.com/itamhack/matchmaking-service/internal/repository"
	"github.com/jmoiron/sqlx"
)

const (
	DecisionAccept  = "accept"
	DecisionDecline = "decline"
	DecisionReject  = "reject"
)

// Admitter is the slice of RosterService the resolution workflows need: run
// an admission inside the caller's transaction.
type Admitter interface {
	AdmitInTx(ctx context.Context, tx *sqlx.Tx, teamID, userID int64) error
}

type InviteService interface {
	Create(ctx context.Context, teamID, fromUserID, toUserID int64, message *string) (*domain.Invite, error)
	Resolve(ctx context.Context, inviteID, callerID int64, decision string) (*domain.Invite, error)
	Cancel(ctx context.Context, inviteID, callerID int64) (*domain.Invite, error)
	ListForUser(ctx context.Context, userID int64) ([]domain.InviteWithContext, error)
	ListForTeam(ctx context.Context, teamID, callerID int64) ([]domain.Invite, error)
}

type InviteServiceImpl struct {
	BaseService
	invites      repository.InviteRepository
	teams        repository.TeamRepository
	participants repository.ParticipantRepository
	roster       Admitter
	ttl          time.Duration
	now          func() time.Time
}

func NewInviteService(
	db Transactor,
	log *slog.Logger,
	invites repository.InviteRepository,
	teams repository.TeamRepository,
	participants repository.ParticipantRepository,
	roster Admitter,
	ttl time.Duration,
) *InviteServiceImpl {
	return &InviteServiceImpl{
		BaseService:  NewBaseService(db, log),
		invites:      invites,
		teams:        teams,
		participants: participants,
		roster:       roster,
		ttl:          ttl,
		now:          time.Now,
	}
}

// isExpired is the single expiry predicate: applied before any other check on
// every read and resolve path. Expiry is computed, never scheduled.
func isExpired(invite *domain.Invite, now time.Time) bool {
	return invite.Status == domain.InvitePending && now.After(invite.ExpiresAt)
}

func (s *InviteServiceImpl) Create(ctx context.Context, teamID, fromUserID, toUserID int64, message *string) (*domain.Invite, error) {
	const op = "internal.service.invite.Create"
	log := s.log.With(slog.String("op", op), slog.Int64("team_id", teamID), slog.Int64("to_user_id", toUserID))

	team, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get team: %w", op, err)
	}

	if team.CaptainID != fromUserID {
		return nil, fmt.Errorf("%s: %w", op, apperrors.ErrNotCaptain)
	}

	if team.Status == domain.TeamFull {
		return nil, fmt.Errorf("%s: %w", op, apperrors.ErrTeamFull)
	}

	candidate, err := s.participants.GetByID(ctx, toUserID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get candidate: %w", op, err)
	}

	if candidate.CurrentTeamID != nil {
		return nil, fmt.Errorf("%s: %w", op, apperrors.ErrAlreadyInTeam)
	}

	now := s.now()

	invite, err := s.invites.Create(ctx, &domain.Invite{
		TeamID:     teamID,
		FromUserID: fromUserID,
		ToUserID:   toUserID,
		Status:     domain.InvitePending,
		Message:    message,
		ExpiresAt:  now.Add(s.ttl),
	})
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create invite: %w", op, err)
	}

	log.Info("invite created", slog.Int64("invite_id", invite.ID))

	return invite, nil
}

func (s *InviteServiceImpl) Resolve(ctx context.Context, inviteID, callerID int64, decision string) (*domain.Invite, error) {
	const op = "internal.service.invite.Resolve"
	log := s.log.With(slog.String("op", op), slog.Int64("invite_id", inviteID), slog.String("decision", decision))

	var (
		invite  *domain.Invite
		expired bool
	)

	err := s.transaction(ctx, op, func(tx *sqlx.Tx) error {
		var err error

		invite, err = s.invites.GetForUpdate(ctx, tx, inviteID)
		if err != nil {
			return fmt.Errorf("%s: failed to get invite: %w", op, err)
		}

		if invite.ToUserID != callerID {
			return fmt.Errorf("%s: %w", op, apperrors.ErrNotInvitee)
		}

		if isExpired(invite, s.now()) {
			// The expiry write must survive even though the resolution fails,
			// so commit it and report ErrExpired afterwards.
			expired = true
			invite.Status = domain.InviteExpired

			return s.invites.UpdateStatus(ctx, tx, inviteID, domain.InviteExpired)
		}

		if invite.Status != domain.InvitePending {
			return fmt.Errorf("%s: %w: invite is '%s'", op, apperrors.ErrAlreadyResolved, invite.Status)
		}

		if decision == DecisionDecline {
			invite.Status = domain.InviteDeclined

			return s.invites.UpdateStatus(ctx, tx, inviteID, domain.InviteDeclined)
		}

		// Accept: admission must succeed in this same transaction, otherwise
		// the rollback leaves the invite pending. An invite is never accepted
		// without the candidate actually admitted.
		if err := s.roster.AdmitInTx(ctx, tx, invite.TeamID, invite.ToUserID); err != nil {
			return err
		}

		invite.Status = domain.InviteAccepted

		// After AdmitInTx, which cancels all of the candidate's pendings,
		// including this row; accepted wins.
		return s.invites.UpdateStatus(ctx, tx, inviteID, domain.InviteAccepted)
	})
	if err != nil {
		return nil, err
	}

	if expired {
		return invite, fmt.Errorf("%s: %w", op, apperrors.ErrExpired)
	}

	log.Info("invite resolved", slog.String("status", string(invite.Status)))

	return invite, nil
}

// Cancel retracts a pending invite. Used by the captain directly and by the
// swipe undo path.
func (s *InviteServiceImpl) Cancel(ctx context.Context, inviteID, callerID int64) (*domain.Invite, error) {
	const op = "internal.service.invite.Cancel"
	log := s.log.With(slog.String("op", op), slog.Int64("invite_id", inviteID))

	var invite *domain.Invite

	err := s.transaction(ctx, op, func(tx *sqlx.Tx) error {
		var err error

		invite, err = s.invites.GetForUpdate(ctx, tx, inviteID)
		if err != nil {
			return fmt.Errorf("%s: failed to get invite: %w", op, err)
		}

		team, err := s.teams.GetByID(ctx, invite.TeamID)
		if err != nil {
			return fmt.Errorf("%s: failed to get team: %w", op, err)
		}

		if team.CaptainID != callerID {
			return fmt.Errorf("%s: %w", op, apperrors.ErrNotCaptain)
		}

		if invite.Status != domain.InvitePending {
			return fmt.Errorf("%s: %w: invite is '%s'", op, apperrors.ErrAlreadyResolved, invite.Status)
		}

		invite.Status = domain.InviteCancelled

		return s.invites.UpdateStatus(ctx, tx, inviteID, domain.InviteCancelled)
	})
	if err != nil {
		return nil, err
	}

	log.Info("invite cancelled")

	return invite, nil
}

func (s *InviteServiceImpl) ListForUser(ctx context.Context, userID int64) ([]domain.InviteWithContext, error) {
	const op = "internal.service.invite.ListForUser"

	invites, err := s.invites.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list invites: %w", op, err)
	}

	// Lazy expiry on observation.
	now := s.now()

	var stale []int64
	for i := range invites {
		if isExpired(&invites[i].Invite, now) {
			stale = append(stale, invites[i].ID)
			invites[i].Status = domain.InviteExpired
		}
	}

	if len(stale) > 0 {
		err := s.transaction(ctx, op, func(tx *sqlx.Tx) error {
			for _, id := range stale {
				if err := s.invites.UpdateStatus(ctx, tx, id, domain.InviteExpired); err != nil {
					return fmt.Errorf("%s: failed to expire invite %d: %w", op, id, err)
				}
			}

			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return invites, nil
}

func (s *InviteServiceImpl) ListForTeam(ctx context.Context, teamID, callerID int64) ([]domain.Invite, error) {
	const op = "internal.service.invite.ListForTeam"

	team, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get team: %w", op, err)
	}

	if team.CaptainID != callerID {
		return nil, fmt.Errorf("%s: %w", op, apperrors.ErrNotCaptain)
	}

	invites, err := s.invites.ListForTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list invites: %w", op, err)
	}

	return invites, nil
}

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

type JoinRequestService interface {
	Create(ctx context.Context, teamID, userID int64) (*domain.JoinRequest, error)
	Resolve(ctx context.Context, requestID, callerID int64, decision string) (*domain.JoinRequest, error)
	Cancel(ctx context.Context, requestID, callerID int64) (*domain.JoinRequest, error)
	ListForTeam(ctx context.Context, teamID, callerID int64) ([]domain.JoinRequestWithUser, error)
	ListForUser(ctx context.Context, userID int64) ([]domain.JoinRequest, error)
}

type JoinRequestServiceImpl struct {
	BaseService
	requests     repository.JoinRequestRepository
	teams        repository.TeamRepository
	participants repository.ParticipantRepository
	roster       Admitter
}

func NewJoinRequestService(
	db Transactor,
	log *slog.Logger,
	requests repository.JoinRequestRepository,
	teams repository.TeamRepository,
	participants repository.ParticipantRepository,
	roster Admitter,
) *JoinRequestServiceImpl {
	return &JoinRequestServiceImpl{
		BaseService:  NewBaseService(db, log),
		requests:     requests,
		teams:        teams,
		participants: participants,
		roster:       roster,
	}
}

// Create opens a pending request. A closed team still takes requests: closing
// gates discovery, not intake; only a full team refuses.
func (s *JoinRequestServiceImpl) Create(ctx context.Context, teamID, userID int64) (*domain.JoinRequest, error) {
	const op = "internal.service.joinrequest.Create"
	log := s.log.With(slog.String("op", op), slog.Int64("team_id", teamID), slog.Int64("user_id", userID))

	participant, err := s.participants.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get participant: %w", op, err)
	}

	if participant.CurrentTeamID != nil {
		return nil, fmt.Errorf("%s: %w", op, apperrors.ErrAlreadyInTeam)
	}

	team, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get team: %w", op, err)
	}

	if team.Status == domain.TeamFull {
		return nil, fmt.Errorf("%s: %w", op, apperrors.ErrTeamFull)
	}

	registered, err := s.participants.IsRegistered(ctx, userID, team.HackathonID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to check registration: %w", op, err)
	}
	if !registered {
		return nil, fmt.Errorf("%s: %w", op, apperrors.ErrNotRegistered)
	}

	request, err := s.requests.Create(ctx, &domain.JoinRequest{
		TeamID: teamID,
		UserID: userID,
		Status: domain.RequestPending,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create request: %w", op, err)
	}

	log.Info("join request created", slog.Int64("request_id", request.ID))

	return request, nil
}

func (s *JoinRequestServiceImpl) Resolve(ctx context.Context, requestID, callerID int64, decision string) (*domain.JoinRequest, error) {
	const op = "internal.service.joinrequest.Resolve"
	log := s.log.With(slog.String("op", op), slog.Int64("request_id", requestID), slog.String("decision", decision))

	var request *domain.JoinRequest

	err := s.transaction(ctx, op, func(tx *sqlx.Tx) error {
		var err error

		request, err = s.requests.GetForUpdate(ctx, tx, requestID)
		if err != nil {
			return fmt.Errorf("%s: failed to get request: %w", op, err)
		}

		team, err := s.teams.GetByID(ctx, request.TeamID)
		if err != nil {
			return fmt.Errorf("%s: failed to get team: %w", op, err)
		}

		if team.CaptainID != callerID {
			return fmt.Errorf("%s: %w", op, apperrors.ErrNotCaptain)
		}

		if request.Status != domain.RequestPending {
			return fmt.Errorf("%s: %w: request is '%s'", op, apperrors.ErrAlreadyResolved, request.Status)
		}

		if decision == DecisionReject {
			request.Status = domain.RequestRejected

			return s.requests.UpdateStatus(ctx, tx, requestID, domain.RequestRejected)
		}

		// Accept: the request is only marked accepted if the admission in this
		// same transaction went through.
		if err := s.roster.AdmitInTx(ctx, tx, request.TeamID, request.UserID); err != nil {
			return err
		}

		request.Status = domain.RequestAccepted

		return s.requests.UpdateStatus(ctx, tx, requestID, domain.RequestAccepted)
	})
	if err != nil {
		return nil, err
	}

	log.Info("join request resolved", slog.String("status", string(request.Status)))

	return request, nil
}

func (s *JoinRequestServiceImpl) Cancel(ctx context.Context, requestID, callerID int64) (*domain.JoinRequest, error) {
	const op = "internal.service.joinrequest.Cancel"
	log := s.log.With(slog.String("op", op), slog.Int64("request_id", requestID))

	var request *domain.JoinRequest

	err := s.transaction(ctx, op, func(tx *sqlx.Tx) error {
		var err error

		request, err = s.requests.GetForUpdate(ctx, tx, requestID)
		if err != nil {
			return fmt.Errorf("%s: failed to get request: %w", op, err)
		}

		if request.UserID != callerID {
			return fmt.Errorf("%s: %w", op, apperrors.ErrNotRequester)
		}

		if request.Status != domain.RequestPending {
			return fmt.Errorf("%s: %w: request is '%s'", op, apperrors.ErrAlreadyResolved, request.Status)
		}

		request.Status = domain.RequestCancelled

		return s.requests.UpdateStatus(ctx, tx, requestID, domain.RequestCancelled)
	})
	if err != nil {
		return nil, err
	}

	log.Info("join request cancelled")

	return request, nil
}

func (s *JoinRequestServiceImpl) ListForTeam(ctx context.Context, teamID, callerID int64) ([]domain.JoinRequestWithUser, error) {
	const op = "internal.service.joinrequest.ListForTeam"

	team, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get team: %w", op, err)
	}

	if team.CaptainID != callerID {
		return nil, fmt.Errorf("%s: %w", op, apperrors.ErrNotCaptain)
	}

	requests, err := s.requests.ListPendingForTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list requests: %w", op, err)
	}

	return requests, nil
}

func (s *JoinRequestServiceImpl) ListForUser(ctx context.Context, userID int64) ([]domain.JoinRequest, error) {
	const op = "internal.service.joinrequest.ListForUser"

	requests, err := s.requests.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list requests: %w", op, err)
	}

	return requests, nil
}

package service

import (
	"context"
	"database/sql"

	"github.com/itamhack/matchmaking-service/internal/domain"
	"github.com/itamhack/matchmaking-service/internal/repository"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/mock"
)

type TransactorMock struct {
	mock.Mock
}

func (m *TransactorMock) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*sqlx.Tx), args.Error(1)
}

type ParticipantRepositoryMock struct {
	mock.Mock
}

var _ repository.ParticipantRepository = (*ParticipantRepositoryMock)(nil)

func (m *ParticipantRepositoryMock) GetByID(ctx context.Context, id int64) (*domain.Participant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Participant), args.Error(1)
}

func (m *ParticipantRepositoryMock) GetForUpdate(ctx context.Context, tx *sqlx.Tx, id int64) (*domain.Participant, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Participant), args.Error(1)
}

func (m *ParticipantRepositoryMock) ListByTeam(ctx context.Context, teamID int64) ([]domain.Participant, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.Participant), args.Error(1)
}

func (m *ParticipantRepositoryMock) ListCandidates(ctx context.Context, hackathonID, swiperID int64, prefs domain.DeckPreferences, limit int) ([]domain.Participant, error) {
	args := m.Called(ctx, hackathonID, swiperID, prefs, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.Participant), args.Error(1)
}

func (m *ParticipantRepositoryMock) SetCurrentTeam(ctx context.Context, ext sqlx.ExtContext, id int64, teamID *int64) error {
	args := m.Called(ctx, ext, id, teamID)
	return args.Error(0)
}

func (m *ParticipantRepositoryMock) UpdateRating(ctx context.Context, id int64, pts, mmr int) error {
	args := m.Called(ctx, id, pts, mmr)
	return args.Error(0)
}

func (m *ParticipantRepositoryMock) UpsertSkill(ctx context.Context, id int64, skill domain.Skill) error {
	args := m.Called(ctx, id, skill)
	return args.Error(0)
}

func (m *ParticipantRepositoryMock) IsRegistered(ctx context.Context, participantID, hackathonID int64) (bool, error) {
	args := m.Called(ctx, participantID, hackathonID)
	return args.Bool(0), args.Error(1)
}

type TeamRepositoryMock struct {
	mock.Mock
}

var _ repository.TeamRepository = (*TeamRepositoryMock)(nil)

func (m *TeamRepositoryMock) Create(ctx context.Context, tx *sqlx.Tx, team *domain.Team) (*domain.Team, error) {
	args := m.Called(ctx, tx, team)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Team), args.Error(1)
}

func (m *TeamRepositoryMock) GetByID(ctx context.Context, id int64) (*domain.Team, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Team), args.Error(1)
}

func (m *TeamRepositoryMock) GetForUpdate(ctx context.Context, tx *sqlx.Tx, id int64) (*domain.Team, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Team), args.Error(1)
}

func (m *TeamRepositoryMock) GetByCaptain(ctx context.Context, captainID, hackathonID int64) (*domain.Team, error) {
	args := m.Called(ctx, captainID, hackathonID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Team), args.Error(1)
}

func (m *TeamRepositoryMock) MemberCount(ctx context.Context, ext sqlx.ExtContext, teamID int64) (int, error) {
	args := m.Called(ctx, ext, teamID)
	return args.Int(0), args.Error(1)
}

func (m *TeamRepositoryMock) SetStatus(ctx context.Context, ext sqlx.ExtContext, teamID int64, status domain.TeamStatus) error {
	args := m.Called(ctx, ext, teamID, status)
	return args.Error(0)
}

func (m *TeamRepositoryMock) ListByHackathon(ctx context.Context, hackathonID int64) ([]domain.Team, error) {
	args := m.Called(ctx, hackathonID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.Team), args.Error(1)
}

type SwipeRepositoryMock struct {
	mock.Mock
}

var _ repository.SwipeRepository = (*SwipeRepositoryMock)(nil)

func (m *SwipeRepositoryMock) Create(ctx context.Context, rec *domain.SwipeRecord) (*domain.SwipeRecord, error) {
	args := m.Called(ctx, rec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.SwipeRecord), args.Error(1)
}

func (m *SwipeRepositoryMock) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type InviteRepositoryMock struct {
	mock.Mock
}

var _ repository.InviteRepository = (*InviteRepositoryMock)(nil)

func (m *InviteRepositoryMock) Create(ctx context.Context, invite *domain.Invite) (*domain.Invite, error) {
	args := m.Called(ctx, invite)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Invite), args.Error(1)
}

func (m *InviteRepositoryMock) GetByID(ctx context.Context, id int64) (*domain.Invite, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Invite), args.Error(1)
}

func (m *InviteRepositoryMock) GetForUpdate(ctx context.Context, tx *sqlx.Tx, id int64) (*domain.Invite, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Invite), args.Error(1)
}

func (m *InviteRepositoryMock) GetPendingByTeamAndUser(ctx context.Context, teamID, toUserID int64) (*domain.Invite, error) {
	args := m.Called(ctx, teamID, toUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Invite), args.Error(1)
}

func (m *InviteRepositoryMock) UpdateStatus(ctx context.Context, ext sqlx.ExtContext, id int64, status domain.InviteStatus) error {
	args := m.Called(ctx, ext, id, status)
	return args.Error(0)
}

func (m *InviteRepositoryMock) ListForUser(ctx context.Context, userID int64) ([]domain.InviteWithContext, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.InviteWithContext), args.Error(1)
}

func (m *InviteRepositoryMock) ListForTeam(ctx context.Context, teamID int64) ([]domain.Invite, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.Invite), args.Error(1)
}

func (m *InviteRepositoryMock) CancelPendingForUser(ctx context.Context, tx *sqlx.Tx, userID, hackathonID int64) error {
	args := m.Called(ctx, tx, userID, hackathonID)
	return args.Error(0)
}

type JoinRequestRepositoryMock struct {
	mock.Mock
}

var _ repository.JoinRequestRepository = (*JoinRequestRepositoryMock)(nil)

func (m *JoinRequestRepositoryMock) Create(ctx context.Context, req *domain.JoinRequest) (*domain.JoinRequest, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.JoinRequest), args.Error(1)
}

func (m *JoinRequestRepositoryMock) GetByID(ctx context.Context, id int64) (*domain.JoinRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.JoinRequest), args.Error(1)
}

func (m *JoinRequestRepositoryMock) GetForUpdate(ctx context.Context, tx *sqlx.Tx, id int64) (*domain.JoinRequest, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.JoinRequest), args.Error(1)
}

func (m *JoinRequestRepositoryMock) UpdateStatus(ctx context.Context, ext sqlx.ExtContext, id int64, status domain.JoinRequestStatus) error {
	args := m.Called(ctx, ext, id, status)
	return args.Error(0)
}

func (m *JoinRequestRepositoryMock) ListPendingForTeam(ctx context.Context, teamID int64) ([]domain.JoinRequestWithUser, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.JoinRequestWithUser), args.Error(1)
}

func (m *JoinRequestRepositoryMock) ListForUser(ctx context.Context, userID int64) ([]domain.JoinRequest, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.JoinRequest), args.Error(1)
}

func (m *JoinRequestRepositoryMock) CancelPendingForUser(ctx context.Context, tx *sqlx.Tx, userID, hackathonID int64) error {
	args := m.Called(ctx, tx, userID, hackathonID)
	return args.Error(0)
}

type PreferenceRepositoryMock struct {
	mock.Mock
}

var _ repository.PreferenceRepository = (*PreferenceRepositoryMock)(nil)

func (m *PreferenceRepositoryMock) Get(ctx context.Context, userID, hackathonID int64) (*domain.DeckPreferences, error) {
	args := m.Called(ctx, userID, hackathonID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.DeckPreferences), args.Error(1)
}

func (m *PreferenceRepositoryMock) Upsert(ctx context.Context, userID, hackathonID int64, prefs domain.DeckPreferences) error {
	args := m.Called(ctx, userID, hackathonID, prefs)
	return args.Error(0)
}

type AdmitterMock struct {
	mock.Mock
}

var _ Admitter = (*AdmitterMock)(nil)

func (m *AdmitterMock) AdmitInTx(ctx context.Context, tx *sqlx.Tx, teamID, userID int64) error {
	args := m.Called(ctx, tx, teamID, userID)
	return args.Error(0)
}

type InviteServiceMock struct {
	mock.Mock
}

var _ InviteService = (*InviteServiceMock)(nil)

func (m *InviteServiceMock) Create(ctx context.Context, teamID, fromUserID, toUserID int64, message *string) (*domain.Invite, error) {
	args := m.Called(ctx, teamID, fromUserID, toUserID, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Invite), args.Error(1)
}

func (m *InviteServiceMock) Resolve(ctx context.Context, inviteID, callerID int64, decision string) (*domain.Invite, error) {
	args := m.Called(ctx, inviteID, callerID, decision)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Invite), args.Error(1)
}

func (m *InviteServiceMock) Cancel(ctx context.Context, inviteID, callerID int64) (*domain.Invite, error) {
	args := m.Called(ctx, inviteID, callerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Invite), args.Error(1)
}

func (m *InviteServiceMock) ListForUser(ctx context.Context, userID int64) ([]domain.InviteWithContext, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.InviteWithContext), args.Error(1)
}

func (m *InviteServiceMock) ListForTeam(ctx context.Context, teamID, callerID int64) ([]domain.Invite, error) {
	args := m.Called(ctx, teamID, callerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.Invite), args.Error(1)
}

package http

import (
	"context"

	"github.com/itamhack/matchmaking-service/internal/domain"
	"github.com/itamhack/matchmaking-service/internal/service"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/mock"
)

type DeckServiceMock struct {
	mock.Mock
}

var _ service.DeckService = (*DeckServiceMock)(nil)

func (m *DeckServiceMock) FetchDeck(ctx context.Context, swiperID, hackathonID int64) ([]domain.Participant, error) {
	args := m.Called(ctx, swiperID, hackathonID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.Participant), args.Error(1)
}

func (m *DeckServiceMock) Swipe(ctx context.Context, swiperID, targetID int64, direction domain.SwipeDirection) (*domain.SwipeRecord, *domain.Invite, error) {
	args := m.Called(ctx, swiperID, targetID, direction)

	var record *domain.SwipeRecord
	if args.Get(0) != nil {
		record = args.Get(0).(*domain.SwipeRecord)
	}

	var invite *domain.Invite
	if args.Get(1) != nil {
		invite = args.Get(1).(*domain.Invite)
	}

	return record, invite, args.Error(2)
}

func (m *DeckServiceMock) UndoLastSwipe(ctx context.Context, swiperID int64) (*domain.SwipeRecord, error) {
	args := m.Called(ctx, swiperID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.SwipeRecord), args.Error(1)
}

func (m *DeckServiceMock) GetPreferences(ctx context.Context, userID, hackathonID int64) (*domain.DeckPreferences, error) {
	args := m.Called(ctx, userID, hackathonID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.DeckPreferences), args.Error(1)
}

func (m *DeckServiceMock) UpdatePreferences(ctx context.Context, userID, hackathonID int64, prefs domain.DeckPreferences) error {
	args := m.Called(ctx, userID, hackathonID, prefs)

	return args.Error(0)
}

type InviteServiceMock struct {
	mock.Mock
}

var _ service.InviteService = (*InviteServiceMock)(nil)

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

type JoinRequestServiceMock struct {
	mock.Mock
}

var _ service.JoinRequestService = (*JoinRequestServiceMock)(nil)

func (m *JoinRequestServiceMock) Create(ctx context.Context, teamID, userID int64) (*domain.JoinRequest, error) {
	args := m.Called(ctx, teamID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.JoinRequest), args.Error(1)
}

func (m *JoinRequestServiceMock) Resolve(ctx context.Context, requestID, callerID int64, decision string) (*domain.JoinRequest, error) {
	args := m.Called(ctx, requestID, callerID, decision)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.JoinRequest), args.Error(1)
}

func (m *JoinRequestServiceMock) Cancel(ctx context.Context, requestID, callerID int64) (*domain.JoinRequest, error) {
	args := m.Called(ctx, requestID, callerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.JoinRequest), args.Error(1)
}

func (m *JoinRequestServiceMock) ListForTeam(ctx context.Context, teamID, callerID int64) ([]domain.JoinRequestWithUser, error) {
	args := m.Called(ctx, teamID, callerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.JoinRequestWithUser), args.Error(1)
}

func (m *JoinRequestServiceMock) ListForUser(ctx context.Context, userID int64) ([]domain.JoinRequest, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.JoinRequest), args.Error(1)
}

type RosterServiceMock struct {
	mock.Mock
}

var _ service.RosterService = (*RosterServiceMock)(nil)

func (m *RosterServiceMock) CreateTeam(ctx context.Context, captainID, hackathonID int64, name string, maxSize int) (*domain.Team, error) {
	args := m.Called(ctx, captainID, hackathonID, name, maxSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Team), args.Error(1)
}

func (m *RosterServiceMock) GetTeam(ctx context.Context, teamID int64) (*domain.TeamWithMembers, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.TeamWithMembers), args.Error(1)
}

func (m *RosterServiceMock) ListTeams(ctx context.Context, hackathonID int64) ([]domain.TeamWithMembers, error) {
	args := m.Called(ctx, hackathonID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.TeamWithMembers), args.Error(1)
}

func (m *RosterServiceMock) Admit(ctx context.Context, teamID, userID int64) error {
	args := m.Called(ctx, teamID, userID)

	return args.Error(0)
}

func (m *RosterServiceMock) AdmitInTx(ctx context.Context, tx *sqlx.Tx, teamID, userID int64) error {
	args := m.Called(ctx, tx, teamID, userID)

	return args.Error(0)
}

func (m *RosterServiceMock) Kick(ctx context.Context, teamID, callerID, userID int64) error {
	args := m.Called(ctx, teamID, callerID, userID)

	return args.Error(0)
}

func (m *RosterServiceMock) Leave(ctx context.Context, teamID, userID int64) error {
	args := m.Called(ctx, teamID, userID)

	return args.Error(0)
}

func (m *RosterServiceMock) SetStatus(ctx context.Context, teamID, callerID int64, status domain.TeamStatus) error {
	args := m.Called(ctx, teamID, callerID, status)

	return args.Error(0)
}

type BalanceServiceMock struct {
	mock.Mock
}

var _ service.BalanceService = (*BalanceServiceMock)(nil)

func (m *BalanceServiceMock) ComputeBalance(ctx context.Context, teamID int64) (*domain.TeamBalanceReport, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.TeamBalanceReport), args.Error(1)
}

type RatingServiceMock struct {
	mock.Mock
}

var _ service.RatingService = (*RatingServiceMock)(nil)

func (m *RatingServiceMock) Calibrate(ctx context.Context, participantID int64, answers []domain.CalibrationAnswer) (int, int, error) {
	args := m.Called(ctx, participantID, answers)

	return args.Int(0), args.Int(1), args.Error(2)
}

func (m *RatingServiceMock) VerifySkill(ctx context.Context, participantID int64, skillName string, testScore int, thresholds domain.SkillThresholds, passingScore *int) (*domain.Skill, error) {
	args := m.Called(ctx, participantID, skillName, testScore, thresholds, passingScore)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Skill), args.Error(1)
}

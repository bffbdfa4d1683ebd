//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/itamhack/matchmaking-service/internal/apperrors"
	"github.com/itamhack/matchmaking-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInviteRepository_Lifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	truncateTables(t, testDB)
	repo := NewInviteRepository(testDB, logger)
	ctx := context.Background()

	captainID := seedParticipant(t, testDB, "captain", 1, 1200)
	candidateID := seedParticipant(t, testDB, "candidate", 1, 1000)
	teamID := seedTeam(t, testDB, "night-owls", 1, captainID, 4)

	message := "join us"
	created, err := repo.Create(ctx, &domain.Invite{
		TeamID:     teamID,
		FromUserID: captainID,
		ToUserID:   candidateID,
		Status:     domain.InvitePending,
		Message:    &message,
		ExpiresAt:  time.Now().Add(time.Hour),
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	require.NotNil(t, created.Message)
	assert.Equal(t, "join us", *created.Message)

	// A second pending invite for the same pair hits the partial unique index.
	_, err = repo.Create(ctx, &domain.Invite{
		TeamID:     teamID,
		FromUserID: captainID,
		ToUserID:   candidateID,
		Status:     domain.InvitePending,
		ExpiresAt:  time.Now().Add(time.Hour),
	})
	require.Error(t, err)
	var dup *apperrors.DuplicateInviteError
	assert.ErrorAs(t, err, &dup)

	pending, err := repo.GetPendingByTeamAndUser(ctx, teamID, candidateID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, pending.ID)

	require.NoError(t, repo.UpdateStatus(ctx, testDB, created.ID, domain.InviteDeclined))

	fetched, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InviteDeclined, fetched.Status)

	// With the first invite resolved, the pair is free again.
	_, err = repo.Create(ctx, &domain.Invite{
		TeamID:     teamID,
		FromUserID: captainID,
		ToUserID:   candidateID,
		Status:     domain.InvitePending,
		ExpiresAt:  time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	_, err = repo.GetByID(ctx, 9999)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestInviteRepository_ListForUser(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	truncateTables(t, testDB)
	repo := NewInviteRepository(testDB, logger)
	ctx := context.Background()

	captainID := seedParticipant(t, testDB, "captain", 1, 1200)
	candidateID := seedParticipant(t, testDB, "candidate", 1, 1000)
	teamID := seedTeam(t, testDB, "night-owls", 1, captainID, 4)

	_, err := repo.Create(ctx, &domain.Invite{
		TeamID:     teamID,
		FromUserID: captainID,
		ToUserID:   candidateID,
		Status:     domain.InvitePending,
		ExpiresAt:  time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	listed, err := repo.ListForUser(ctx, candidateID)
	require.NoError(t, err)
	require.Len(t, listed, 1)

	assert.Equal(t, "night-owls", listed[0].Team.Name)
	assert.Equal(t, int64(1), listed[0].Team.HackathonID)
	assert.Equal(t, captainID, listed[0].Team.CaptainID)
	assert.Equal(t, "captain", listed[0].FromUser.Username)
	assert.Equal(t, 1200, listed[0].FromUser.MMR)

	empty, err := repo.ListForUser(ctx, captainID)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestInviteRepository_CancelPendingForUser(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	truncateTables(t, testDB)
	repo := NewInviteRepository(testDB, logger)
	ctx := context.Background()

	c1 := seedParticipant(t, testDB, "c1", 1, 1200)
	c2 := seedParticipant(t, testDB, "c2", 2, 1200)
	candidateID := seedParticipant(t, testDB, "candidate", 1, 1000)

	teamA := seedTeam(t, testDB, "alpha", 1, c1, 4)
	teamB := seedTeam(t, testDB, "beta", 2, c2, 4)

	inviteA, err := repo.Create(ctx, &domain.Invite{
		TeamID: teamA, FromUserID: c1, ToUserID: candidateID,
		Status: domain.InvitePending, ExpiresAt: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	inviteB, err := repo.Create(ctx, &domain.Invite{
		TeamID: teamB, FromUserID: c2, ToUserID: candidateID,
		Status: domain.InvitePending, ExpiresAt: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	tx, err := testDB.Beginx()
	require.NoError(t, err)
	require.NoError(t, repo.CancelPendingForUser(ctx, tx, candidateID, 1))
	require.NoError(t, tx.Commit())

	// Only the invite inside hackathon 1 is cancelled.
	fetchedA, err := repo.GetByID(ctx, inviteA.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InviteCancelled, fetchedA.Status)

	fetchedB, err := repo.GetByID(ctx, inviteB.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InvitePending, fetchedB.Status)
}

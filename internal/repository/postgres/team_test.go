//go:build integration

package postgres

import (
	"context"
	"sync"
	"testing"

	"github.com/itamhack/matchmaking-service/internal/apperrors"
	"github.com/itamhack/matchmaking-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTeamRepository_CreateAndGet(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	truncateTables(t, testDB)
	repo := NewTeamRepository(testDB, logger)
	ctx := context.Background()

	captainID := seedParticipant(t, testDB, "captain", 1, 1200)

	tx, err := testDB.Beginx()
	require.NoError(t, err)

	created, err := repo.Create(ctx, tx, &domain.Team{
		HackathonID: 1,
		Name:        "night-owls",
		CaptainID:   captainID,
		MaxSize:     4,
		Status:      domain.TeamOpen,
	})
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	assert.NotZero(t, created.ID)
	assert.Equal(t, "night-owls", created.Name)
	assert.Equal(t, domain.TeamOpen, created.Status)
	assert.False(t, created.CreatedAt.IsZero())

	fetched, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, captainID, fetched.CaptainID)

	byCaptain, err := repo.GetByCaptain(ctx, captainID, 1)
	require.NoError(t, err)
	assert.Equal(t, created.ID, byCaptain.ID)

	_, err = repo.GetByID(ctx, 9999)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestTeamRepository_MemberCountAndStatus(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	truncateTables(t, testDB)
	repo := NewTeamRepository(testDB, logger)
	participants := NewParticipantRepository(testDB, logger)
	ctx := context.Background()

	captainID := seedParticipant(t, testDB, "captain", 1, 1200)
	memberID := seedParticipant(t, testDB, "member", 1, 1000)
	teamID := seedTeam(t, testDB, "night-owls", 1, captainID, 4)

	count, err := repo.MemberCount(ctx, testDB, teamID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, participants.SetCurrentTeam(ctx, testDB, memberID, &teamID))

	count, err = repo.MemberCount(ctx, testDB, teamID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, repo.SetStatus(ctx, testDB, teamID, domain.TeamClosed))

	fetched, err := repo.GetByID(ctx, teamID)
	require.NoError(t, err)
	assert.Equal(t, domain.TeamClosed, fetched.Status)

	err = repo.SetStatus(ctx, testDB, 9999, domain.TeamClosed)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestTeamRepository_ListByHackathon(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	truncateTables(t, testDB)
	repo := NewTeamRepository(testDB, logger)
	ctx := context.Background()

	c1 := seedParticipant(t, testDB, "c1", 1, 1000)
	c2 := seedParticipant(t, testDB, "c2", 1, 1000)
	c3 := seedParticipant(t, testDB, "c3", 2, 1000)

	seedTeam(t, testDB, "alpha", 1, c1, 4)
	seedTeam(t, testDB, "beta", 1, c2, 4)
	seedTeam(t, testDB, "gamma", 2, c3, 4)

	teams, err := repo.ListByHackathon(ctx, 1)
	require.NoError(t, err)
	require.Len(t, teams, 2)
	assert.Equal(t, "alpha", teams[0].Name)
	assert.Equal(t, "beta", teams[1].Name)
}

// Concurrent admissions race for the last seat; the team row lock must let
// exactly the free seats fill and no more.
func TestTeamRepository_ConcurrentAdmission(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	truncateTables(t, testDB)
	teams := NewTeamRepository(testDB, logger)
	participants := NewParticipantRepository(testDB, logger)
	ctx := context.Background()

	const maxSize = 3

	captainID := seedParticipant(t, testDB, "captain", 1, 1200)
	teamID := seedTeam(t, testDB, "night-owls", 1, captainID, maxSize)

	candidates := make([]int64, 5)
	for i := range candidates {
		candidates[i] = seedParticipant(t, testDB, "cand"+string(rune('a'+i)), 1, 1000)
	}

	var wg sync.WaitGroup
	for _, userID := range candidates {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()

			tx, err := testDB.Beginx()
			if err != nil {
				return
			}
			defer tx.Rollback()

			team, err := teams.GetForUpdate(ctx, tx, teamID)
			if err != nil {
				return
			}

			count, err := teams.MemberCount(ctx, tx, teamID)
			if err != nil || count >= team.MaxSize {
				return
			}

			if err := participants.SetCurrentTeam(ctx, tx, userID, &teamID); err != nil {
				return
			}

			_ = tx.Commit()
		}(userID)
	}
	wg.Wait()

	count, err := teams.MemberCount(ctx, testDB, teamID)
	require.NoError(t, err)
	assert.Equal(t, maxSize, count)
}

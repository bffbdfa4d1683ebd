//go:build integration

package postgres

import (
	"context"
	"testing"

	"github.com/itamhack/matchmaking-service/internal/apperrors"
	"github.com/itamhack/matchmaking-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParticipantRepository_GetByID_WithSkills(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	truncateTables(t, testDB)
	repo := NewParticipantRepository(testDB, logger)
	ctx := context.Background()

	id := seedParticipant(t, testDB, "ada", 1, 1200)

	require.NoError(t, repo.UpsertSkill(ctx, id, domain.Skill{Name: "Go", Level: domain.SkillAdvanced, Verified: false}))
	require.NoError(t, repo.UpsertSkill(ctx, id, domain.Skill{Name: "React", Level: domain.SkillBeginner, Verified: false}))

	fetched, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "ada", fetched.Username)
	assert.Equal(t, 1200, fetched.MMR)
	require.Len(t, fetched.Skills, 2)

	// Case-insensitive upsert overwrites instead of duplicating.
	require.NoError(t, repo.UpsertSkill(ctx, id, domain.Skill{Name: "go", Level: domain.SkillExpert, Verified: true}))

	fetched, err = repo.GetByID(ctx, id)
	require.NoError(t, err)
	require.Len(t, fetched.Skills, 2)

	var goSkill *domain.Skill
	for i := range fetched.Skills {
		if fetched.Skills[i].Name == "go" {
			goSkill = &fetched.Skills[i]
		}
	}
	require.NotNil(t, goSkill)
	assert.Equal(t, domain.SkillExpert, goSkill.Level)
	assert.True(t, goSkill.Verified)

	_, err = repo.GetByID(ctx, 9999)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestParticipantRepository_UpdateRating(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	truncateTables(t, testDB)
	repo := NewParticipantRepository(testDB, logger)
	ctx := context.Background()

	id := seedParticipant(t, testDB, "ada", 1, 0)

	require.NoError(t, repo.UpdateRating(ctx, id, 250, 200))

	fetched, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 250, fetched.PTS)
	assert.Equal(t, 200, fetched.MMR)

	err = repo.UpdateRating(ctx, 9999, 1, 1)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestParticipantRepository_IsRegistered(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	truncateTables(t, testDB)
	repo := NewParticipantRepository(testDB, logger)
	ctx := context.Background()

	id := seedParticipant(t, testDB, "ada", 1, 1000)

	registered, err := repo.IsRegistered(ctx, id, 1)
	require.NoError(t, err)
	assert.True(t, registered)

	registered, err = repo.IsRegistered(ctx, id, 2)
	require.NoError(t, err)
	assert.False(t, registered)
}

func TestParticipantRepository_ListCandidates(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	truncateTables(t, testDB)
	repo := NewParticipantRepository(testDB, logger)
	swipes := NewSwipeRepository(testDB, logger)
	ctx := context.Background()

	swiperID := seedParticipant(t, testDB, "swiper", 1, 1200)

	freeAgent := seedParticipant(t, testDB, "free", 1, 1000)
	lowRated := seedParticipant(t, testDB, "low", 1, 200)
	swiped := seedParticipant(t, testDB, "swiped", 1, 1000)
	otherHackathon := seedParticipant(t, testDB, "other", 2, 1000)

	captainID := seedParticipant(t, testDB, "captain", 1, 1000)
	seedTeam(t, testDB, "taken", 1, captainID, 4)

	_, err := swipes.Create(ctx, &domain.SwipeRecord{SwiperID: swiperID, TargetID: swiped, Direction: domain.SwipeLeft})
	require.NoError(t, err)

	// No filters: everyone registered, unswiped, teamless and not the swiper.
	candidates, err := repo.ListCandidates(ctx, 1, swiperID, domain.DeckPreferences{}, 20)
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	assert.Equal(t, freeAgent, candidates[0].ID)
	assert.Equal(t, lowRated, candidates[1].ID)

	for _, c := range candidates {
		assert.NotEqual(t, swiped, c.ID)
		assert.NotEqual(t, otherHackathon, c.ID)
		assert.NotEqual(t, captainID, c.ID)
	}

	// MMR floor cuts the low-rated candidate.
	minMMR := 500
	candidates, err = repo.ListCandidates(ctx, 1, swiperID, domain.DeckPreferences{MinMMR: &minMMR}, 20)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, freeAgent, candidates[0].ID)

	// Skill filter matches case-insensitively.
	require.NoError(t, repo.UpsertSkill(ctx, freeAgent, domain.Skill{Name: "Go", Level: domain.SkillAdvanced, Verified: true}))

	candidates, err = repo.ListCandidates(ctx, 1, swiperID, domain.DeckPreferences{Skills: []string{"GO"}}, 20)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, freeAgent, candidates[0].ID)
	require.Len(t, candidates[0].Skills, 1)

	// Verified-only keeps candidates with at least one verified skill.
	candidates, err = repo.ListCandidates(ctx, 1, swiperID, domain.DeckPreferences{VerifiedOnly: true}, 20)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, freeAgent, candidates[0].ID)

	// Limit caps the deck.
	candidates, err = repo.ListCandidates(ctx, 1, swiperID, domain.DeckPreferences{}, 1)
	require.NoError(t, err)
	assert.Len(t, candidates, 1)
}

func TestParticipantRepository_SetCurrentTeam(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	truncateTables(t, testDB)
	repo := NewParticipantRepository(testDB, logger)
	ctx := context.Background()

	captainID := seedParticipant(t, testDB, "captain", 1, 1200)
	memberID := seedParticipant(t, testDB, "member", 1, 1000)
	teamID := seedTeam(t, testDB, "night-owls", 1, captainID, 4)

	require.NoError(t, repo.SetCurrentTeam(ctx, testDB, memberID, &teamID))

	fetched, err := repo.GetByID(ctx, memberID)
	require.NoError(t, err)
	require.NotNil(t, fetched.CurrentTeamID)
	assert.Equal(t, teamID, *fetched.CurrentTeamID)

	members, err := repo.ListByTeam(ctx, teamID)
	require.NoError(t, err)
	assert.Len(t, members, 2)

	require.NoError(t, repo.SetCurrentTeam(ctx, testDB, memberID, nil))

	fetched, err = repo.GetByID(ctx, memberID)
	require.NoError(t, err)
	assert.Nil(t, fetched.CurrentTeamID)

	err = repo.SetCurrentTeam(ctx, testDB, 9999, nil)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

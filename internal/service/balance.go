package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/itamhack/matchmaking-service/internal/domain"
	"github.com/itamhack/matchmaking-service/internal/repository"
)

// Scoring knobs. The score never gates admission; it is advisory only.
const (
	spreadThreshold   = 500
	spreadPenaltyCap  = 30
	missingRoleCost   = 10
	skillTargetCount  = 5
	skillBonus        = 10
	bigRosterSize     = 4
	bigRosterBonus    = 5
	tinyRosterPenalty = 20
)

var requiredRoles = []string{"frontend", "backend", "designer"}

type BalanceService interface {
	ComputeBalance(ctx context.Context, teamID int64) (*domain.TeamBalanceReport, error)
}

type BalanceServiceImpl struct {
	log          *slog.Logger
	teams        repository.TeamRepository
	participants repository.ParticipantRepository
}

func NewBalanceService(log *slog.Logger, teams repository.TeamRepository, participants repository.ParticipantRepository) *BalanceServiceImpl {
	return &BalanceServiceImpl{
		log:          log,
		teams:        teams,
		participants: participants,
	}
}

// ComputeBalance recomputes the report from the live roster on every call;
// nothing is persisted.
func (s *BalanceServiceImpl) ComputeBalance(ctx context.Context, teamID int64) (*domain.TeamBalanceReport, error) {
	const op = "internal.service.balance.ComputeBalance"

	if _, err := s.teams.GetByID(ctx, teamID); err != nil {
		return nil, fmt.Errorf("%s: failed to get team: %w", op, err)
	}

	members, err := s.participants.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list members: %w", op, err)
	}

	return buildReport(members), nil
}

func buildReport(members []domain.Participant) *domain.TeamBalanceReport {
	report := &domain.TeamBalanceReport{
		SkillCoverage: make(map[string]int),
		Roles:         make(map[string]int),
		Warnings:      []string{},
		Suggestions:   []domain.BalanceSuggestion{},
	}

	if len(members) == 0 {
		return report
	}

	report.MMRStats = mmrStats(members)

	for _, m := range members {
		for _, skill := range m.Skills {
			report.SkillCoverage[strings.ToLower(skill.Name)]++
		}
		for _, role := range m.LookingFor {
			report.Roles[strings.ToLower(role)]++
		}
	}

	score := 100.0

	if spread := report.MMRStats.Spread; spread > spreadThreshold {
		penalty := math.Min(float64(spread-spreadThreshold)/10, spreadPenaltyCap)
		score -= penalty

		report.Warnings = append(report.Warnings,
			fmt.Sprintf("MMR spread of %d exceeds %d", spread, spreadThreshold))
		report.Suggestions = append(report.Suggestions, domain.BalanceSuggestion{
			Type:    "mmr",
			Message: "recruit members with closer ratings to reduce the spread",
		})
	}

	for _, role := range requiredRoles {
		if report.Roles[role] == 0 {
			score -= missingRoleCost

			report.Warnings = append(report.Warnings,
				fmt.Sprintf("no %s on the roster", role))
			report.Suggestions = append(report.Suggestions, domain.BalanceSuggestion{
				Type:    "role",
				Message: fmt.Sprintf("add a %s to the team", role),
			})
		}
	}

	if len(report.SkillCoverage) >= skillTargetCount {
		score += skillBonus
	} else {
		report.Suggestions = append(report.Suggestions, domain.BalanceSuggestion{
			Type:    "skills",
			Message: fmt.Sprintf("broaden skill coverage to at least %d distinct skills", skillTargetCount),
		})
	}

	if len(members) >= bigRosterSize {
		score += bigRosterBonus
	}

	if len(members) < 2 {
		score -= tinyRosterPenalty

		report.Warnings = append(report.Warnings, "team has fewer than two members")
	}

	report.Score = math.Max(0, math.Min(100, score))

	return report
}

func mmrStats(members []domain.Participant) domain.MMRStats {
	min, max, sum := members[0].MMR, members[0].MMR, 0
	for _, m := range members {
		if m.MMR < min {
			min = m.MMR
		}
		if m.MMR > max {
			max = m.MMR
		}
		sum += m.MMR
	}

	return domain.MMRStats{
		Min:     min,
		Max:     max,
		Average: float64(sum) / float64(len(members)),
		Spread:  max - min,
	}
}

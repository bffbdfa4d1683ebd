package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"

	"github.com/itamhack/matchmaking-service/internal/apperrors"
	"github.com/itamhack/matchmaking-service/internal/domain"
	"github.com/itamhack/matchmaking-service/internal/repository"
)

// mmrFactor derives the initial match-making rating from calibration points.
const mmrFactor = 0.8

type RatingService interface {
	Calibrate(ctx context.Context, participantID int64, answers []domain.CalibrationAnswer) (pts, mmr int, err error)
	VerifySkill(ctx context.Context, participantID int64, skillName string, testScore int, thresholds domain.SkillThresholds, passingScore *int) (*domain.Skill, error)
}

type RatingServiceImpl struct {
	log          *slog.Logger
	participants repository.ParticipantRepository

	// randFloat returns a value in [0, 1). Injectable so tests can pin the
	// calibration factor.
	randFloat func() float64

	defaultPassingScore int
}

func NewRatingService(log *slog.Logger, participants repository.ParticipantRepository, defaultPassingScore int) *RatingServiceImpl {
	return &RatingServiceImpl{
		log:                 log,
		participants:        participants,
		randFloat:           rand.Float64,
		defaultPassingScore: defaultPassingScore,
	}
}

// Calibrate overwrites pts and mmr from the quiz answers. The result carries a
// bounded random factor, so the call is one-shot: re-running changes the value.
func (s *RatingServiceImpl) Calibrate(ctx context.Context, participantID int64, answers []domain.CalibrationAnswer) (int, int, error) {
	const op = "internal.service.rating.Calibrate"
	log := s.log.With(slog.String("op", op), slog.Int64("participant_id", participantID))

	var raw float64
	for _, a := range answers {
		raw += a.Value * a.Weight
	}

	r := 0.9 + s.randFloat()*0.2
	pts := int(math.Round(raw * r))
	mmr := int(math.Floor(float64(pts) * mmrFactor))

	if err := s.participants.UpdateRating(ctx, participantID, pts, mmr); err != nil {
		return 0, 0, fmt.Errorf("%s: failed to update rating: %w", op, err)
	}

	log.Info("participant calibrated", slog.Int("pts", pts), slog.Int("mmr", mmr))

	return pts, mmr, nil
}

// VerifySkill maps the test score to the highest threshold met and upserts the
// skill as verified. Below the passing score nothing is written.
func (s *RatingServiceImpl) VerifySkill(ctx context.Context, participantID int64, skillName string, testScore int, thresholds domain.SkillThresholds, passingScore *int) (*domain.Skill, error) {
	const op = "internal.service.rating.VerifySkill"
	log := s.log.With(slog.String("op", op), slog.Int64("participant_id", participantID), slog.String("skill", skillName))

	passing := s.defaultPassingScore
	if passingScore != nil {
		passing = *passingScore
	}

	if testScore < passing {
		return nil, fmt.Errorf("%s: %w: score %d, passing %d", op, apperrors.ErrTestNotPassed, testScore, passing)
	}

	level := domain.SkillBeginner
	switch {
	case testScore >= thresholds.Expert:
		level = domain.SkillExpert
	case testScore >= thresholds.Advanced:
		level = domain.SkillAdvanced
	case testScore >= thresholds.Intermediate:
		level = domain.SkillIntermediate
	}

	skill := domain.Skill{
		Name:     skillName,
		Level:    level,
		Verified: true,
	}

	if err := s.participants.UpsertSkill(ctx, participantID, skill); err != nil {
		return nil, fmt.Errorf("%s: failed to upsert skill: %w", op, err)
	}

	log.Info("skill verified", slog.String("level", string(level)))

	return &skill, nil
}

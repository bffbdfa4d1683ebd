package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/itamhack/matchmaking-service/internal/apperrors"
	"github.com/itamhack/matchmaking-service/internal/domain"
	"github.com/itamhack/matchmaking-service/internal/repository"
	"github.com/itamhack/matchmaking-service/pkg/logger/sl"
)

type DeckService interface {
	FetchDeck(ctx context.Context, swiperID, hackathonID int64) ([]domain.Participant, error)
	Swipe(ctx context.Context, swiperID, targetID int64, direction domain.SwipeDirection) (*domain.SwipeRecord, *domain.Invite, error)
	UndoLastSwipe(ctx context.Context, swiperID int64) (*domain.SwipeRecord, error)
	GetPreferences(ctx context.Context, userID, hackathonID int64) (*domain.DeckPreferences, error)
	UpdatePreferences(ctx context.Context, userID, hackathonID int64, prefs domain.DeckPreferences) error
}

// undoSlot is the single-depth undo state for one swiper: the swipe to revert,
// the candidate to put back at the front of the deck, and the invite a right
// swipe chained into, if any.
type undoSlot struct {
	record   domain.SwipeRecord
	target   domain.Participant
	inviteID *int64
}

type DeckServiceImpl struct {
	log          *slog.Logger
	swipes       repository.SwipeRepository
	participants repository.ParticipantRepository
	prefs        repository.PreferenceRepository
	invites      InviteService
	deckLimit    int

	mu    sync.Mutex
	decks map[int64][]domain.Participant
	undo  map[int64]*undoSlot
}

func NewDeckService(
	log *slog.Logger,
	swipes repository.SwipeRepository,
	participants repository.ParticipantRepository,
	prefs repository.PreferenceRepository,
	invites InviteService,
	deckLimit int,
) *DeckServiceImpl {
	return &DeckServiceImpl{
		log:          log,
		swipes:       swipes,
		participants: participants,
		prefs:        prefs,
		invites:      invites,
		deckLimit:    deckLimit,
		decks:        make(map[int64][]domain.Participant),
		undo:         make(map[int64]*undoSlot),
	}
}

// resolveHackathonID falls back to the caller's current hackathon when the
// request did not name one explicitly.
func (s *DeckServiceImpl) resolveHackathonID(ctx context.Context, op string, userID, hackathonID int64) (int64, error) {
	if hackathonID != 0 {
		return hackathonID, nil
	}

	participant, err := s.participants.GetByID(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("%s: failed to get participant: %w", op, err)
	}

	if participant.CurrentHackathonID == nil {
		return 0, fmt.Errorf("%s: %w: hackathon not specified and participant has no current hackathon", op, apperrors.ErrInvalidRequest)
	}

	return *participant.CurrentHackathonID, nil
}

func (s *DeckServiceImpl) FetchDeck(ctx context.Context, swiperID, hackathonID int64) ([]domain.Participant, error) {
	const op = "internal.service.deck.FetchDeck"

	hackathonID, err := s.resolveHackathonID(ctx, op, swiperID, hackathonID)
	if err != nil {
		return nil, err
	}

	log := s.log.With(slog.String("op", op), slog.Int64("swiper_id", swiperID), slog.Int64("hackathon_id", hackathonID))

	prefs, err := s.prefs.Get(ctx, swiperID, hackathonID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%s: failed to load preferences: %w", op, err)
		}

		prefs = &domain.DeckPreferences{}
	}

	candidates, err := s.participants.ListCandidates(ctx, hackathonID, swiperID, *prefs, s.deckLimit)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build candidate pool: %w", op, err)
	}

	s.mu.Lock()
	s.decks[swiperID] = candidates
	s.mu.Unlock()

	log.Debug("deck rebuilt", slog.Int("size", len(candidates)))

	return candidates, nil
}

// Swipe records the decision and, on a right swipe, chains into invite
// creation. The swipe row is committed before the invite is attempted: an
// invite failure is returned to the caller but never drops the swipe.
func (s *DeckServiceImpl) Swipe(ctx context.Context, swiperID, targetID int64, direction domain.SwipeDirection) (*domain.SwipeRecord, *domain.Invite, error) {
	const op = "internal.service.deck.Swipe"
	log := s.log.With(slog.String("op", op), slog.Int64("swiper_id", swiperID), slog.Int64("target_id", targetID))

	record, err := s.swipes.Create(ctx, &domain.SwipeRecord{
		SwiperID:  swiperID,
		TargetID:  targetID,
		Direction: direction,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("%s: failed to record swipe: %w", op, err)
	}

	target := s.removeFromDeck(swiperID, targetID)
	if target == nil {
		// Swiped outside the cached deck; fetch the profile so undo can still
		// put it back.
		fetched, err := s.participants.GetByID(ctx, targetID)
		if err != nil {
			log.Warn("failed to load swiped target profile", sl.Err(err))

			fetched = &domain.Participant{ID: targetID}
		}

		target = fetched
	}

	slot := &undoSlot{record: *record, target: *target}

	s.mu.Lock()
	s.undo[swiperID] = slot
	s.mu.Unlock()

	if direction != domain.SwipeRight {
		return record, nil, nil
	}

	swiper, err := s.participants.GetByID(ctx, swiperID)
	if err != nil {
		return record, nil, fmt.Errorf("%s: failed to get swiper: %w", op, err)
	}

	if swiper.CurrentTeamID == nil {
		return record, nil, fmt.Errorf("%s: %w", op, apperrors.ErrNotCaptain)
	}

	invite, err := s.invites.Create(ctx, *swiper.CurrentTeamID, swiperID, targetID, nil)
	if err != nil {
		return record, nil, fmt.Errorf("%s: failed to create invite: %w", op, err)
	}

	s.mu.Lock()
	slot.inviteID = &invite.ID
	s.mu.Unlock()

	log.Info("right swipe chained into invite", slog.Int64("invite_id", invite.ID))

	return record, invite, nil
}

// UndoLastSwipe reverts at most the single most recent swipe. A second
// consecutive undo is a no-op and returns nil. If the swipe chained into an
// invite, the invite is retracted first; a resolved invite aborts the undo and
// the swipe record stays.
func (s *DeckServiceImpl) UndoLastSwipe(ctx context.Context, swiperID int64) (*domain.SwipeRecord, error) {
	const op = "internal.service.deck.UndoLastSwipe"
	log := s.log.With(slog.String("op", op), slog.Int64("swiper_id", swiperID))

	s.mu.Lock()
	slot := s.undo[swiperID]
	delete(s.undo, swiperID)
	s.mu.Unlock()

	if slot == nil {
		return nil, nil
	}

	if slot.inviteID != nil {
		if _, err := s.invites.Cancel(ctx, *slot.inviteID, swiperID); err != nil {
			return nil, fmt.Errorf("%s: failed to retract invite: %w", op, err)
		}
	}

	if err := s.swipes.Delete(ctx, slot.record.ID); err != nil {
		return nil, fmt.Errorf("%s: failed to delete swipe: %w", op, err)
	}

	s.mu.Lock()
	s.decks[swiperID] = append([]domain.Participant{slot.target}, s.decks[swiperID]...)
	s.mu.Unlock()

	log.Info("swipe undone", slog.Int64("target_id", slot.record.TargetID))

	return &slot.record, nil
}

func (s *DeckServiceImpl) GetPreferences(ctx context.Context, userID, hackathonID int64) (*domain.DeckPreferences, error) {
	const op = "internal.service.deck.GetPreferences"

	hackathonID, err := s.resolveHackathonID(ctx, op, userID, hackathonID)
	if err != nil {
		return nil, err
	}

	prefs, err := s.prefs.Get(ctx, userID, hackathonID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return &domain.DeckPreferences{}, nil
		}

		return nil, fmt.Errorf("%s: failed to load preferences: %w", op, err)
	}

	return prefs, nil
}

func (s *DeckServiceImpl) UpdatePreferences(ctx context.Context, userID, hackathonID int64, prefs domain.DeckPreferences) error {
	const op = "internal.service.deck.UpdatePreferences"

	hackathonID, err := s.resolveHackathonID(ctx, op, userID, hackathonID)
	if err != nil {
		return err
	}

	if err := s.prefs.Upsert(ctx, userID, hackathonID, prefs); err != nil {
		return fmt.Errorf("%s: failed to store preferences: %w", op, err)
	}

	// The cached deck was built with the old filters.
	s.mu.Lock()
	delete(s.decks, userID)
	s.mu.Unlock()

	return nil
}

func (s *DeckServiceImpl) removeFromDeck(swiperID, targetID int64) *domain.Participant {
	s.mu.Lock()
	defer s.mu.Unlock()

	deck := s.decks[swiperID]
	for i := range deck {
		if deck[i].ID == targetID {
			target := deck[i]
			s.decks[swiperID] = append(deck[:i:i], deck[i+1:]...)

			return &target
		}
	}

	return nil
}

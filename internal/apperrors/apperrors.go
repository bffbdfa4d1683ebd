package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound       = errors.New("resource not found")
	ErrInvalidRequest = errors.New("invalid request body")
	ErrNotCaptain     = errors.New("only the team captain may perform this action")
	ErrNotInvitee     = errors.New("only the invited participant may act on this invite")
	ErrNotRequester   = errors.New("only the requesting participant may cancel this request")

	// Conflict family: user-visible, non-retryable outcomes.
	ErrConflict        = errors.New("conflicting resource state")
	ErrAlreadyInTeam   = errors.New("participant already belongs to a team")
	ErrAlreadyResolved = errors.New("already resolved")
	ErrStatusLocked    = errors.New("status is derived from the roster and cannot be set while the team is full")
	ErrCaptainKick     = errors.New("captain cannot be kicked")
	ErrCaptainLeave    = errors.New("captain cannot leave the team")
	ErrNotRegistered   = errors.New("participant is not registered for this hackathon")
	ErrTestNotPassed   = errors.New("test score below the passing threshold")

	// Capacity family: retry with a different target may succeed.
	ErrTeamFull        = errors.New("team is full")
	ErrAdmissionFailed = errors.New("admission failed")

	// Temporal.
	ErrExpired = errors.New("invite has expired")
)

type DuplicateSwipeError struct {
	SwiperID int64
	TargetID int64
}

func (e *DuplicateSwipeError) Error() string {
	return fmt.Sprintf("swiper %d already swiped on participant %d", e.SwiperID, e.TargetID)
}
func (e *DuplicateSwipeError) Is(target error) bool { return target == ErrConflict }

type DuplicateInviteError struct {
	TeamID   int64
	ToUserID int64
}

func (e *DuplicateInviteError) Error() string {
	return fmt.Sprintf("team %d already has a pending invite for participant %d", e.TeamID, e.ToUserID)
}
func (e *DuplicateInviteError) Is(target error) bool { return target == ErrConflict }

type DuplicateRequestError struct {
	TeamID int64
	UserID int64
}

func (e *DuplicateRequestError) Error() string {
	return fmt.Sprintf("participant %d already has a pending request for team %d", e.UserID, e.TeamID)
}
func (e *DuplicateRequestError) Is(target error) bool { return target == ErrConflict }

// AdmissionError reports why TeamRoster.admit aborted. It unwraps to both
// ErrAdmissionFailed and the precondition that failed, so callers can match
// either level of detail.
type AdmissionError struct {
	TeamID int64
	UserID int64
	Reason error
}

func (e *AdmissionError) Error() string {
	return fmt.Sprintf("cannot admit participant %d to team %d: %v", e.UserID, e.TeamID, e.Reason)
}

func (e *AdmissionError) Is(target error) bool {
	return target == ErrAdmissionFailed || errors.Is(e.Reason, target)
}

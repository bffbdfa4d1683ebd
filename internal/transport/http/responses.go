package http

import (
	"time"

	"github.com/itamhack/matchmaking-service/internal/domain"
)

type skillResponse struct {
	Name     string `json:"name"`
	Level    string `json:"level"`
	Verified bool   `json:"verified"`
}

type participantResponse struct {
	ID         int64           `json:"id"`
	Username   string          `json:"username"`
	Name       string          `json:"name"`
	Bio        string          `json:"bio,omitempty"`
	Experience string          `json:"experience,omitempty"`
	LookingFor []string        `json:"looking_for,omitempty"`
	PTS        int             `json:"pts"`
	MMR        int             `json:"mmr"`
	TeamID     *int64          `json:"team_id,omitempty"`
	Skills     []skillResponse `json:"skills,omitempty"`
}

func toParticipantResponse(p domain.Participant) participantResponse {
	skills := make([]skillResponse, len(p.Skills))
	for i, s := range p.Skills {
		skills[i] = skillResponse{Name: s.Name, Level: string(s.Level), Verified: s.Verified}
	}

	return participantResponse{
		ID:         p.ID,
		Username:   p.Username,
		Name:       p.Name,
		Bio:        p.Bio,
		Experience: p.Experience,
		LookingFor: p.LookingFor,
		PTS:        p.PTS,
		MMR:        p.MMR,
		TeamID:     p.CurrentTeamID,
		Skills:     skills,
	}
}

func toParticipantResponses(ps []domain.Participant) []participantResponse {
	out := make([]participantResponse, len(ps))
	for i, p := range ps {
		out[i] = toParticipantResponse(p)
	}

	return out
}

type teamResponse struct {
	ID          int64     `json:"id"`
	HackathonID int64     `json:"hackathon_id"`
	Name        string    `json:"name"`
	CaptainID   int64     `json:"captain_id"`
	MaxSize     int       `json:"max_size"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

func toTeamResponse(t domain.Team) teamResponse {
	return teamResponse{
		ID:          t.ID,
		HackathonID: t.HackathonID,
		Name:        t.Name,
		CaptainID:   t.CaptainID,
		MaxSize:     t.MaxSize,
		Status:      string(t.Status),
		CreatedAt:   t.CreatedAt,
	}
}

type teamWithMembersResponse struct {
	teamResponse
	Members []participantResponse `json:"members"`
}

func toTeamWithMembersResponse(t domain.TeamWithMembers) teamWithMembersResponse {
	return teamWithMembersResponse{
		teamResponse: toTeamResponse(t.Team),
		Members:      toParticipantResponses(t.Members),
	}
}

type swipeResponse struct {
	ID        int64     `json:"id"`
	SwiperID  int64     `json:"swiper_id"`
	TargetID  int64     `json:"target_id"`
	Direction string    `json:"direction"`
	CreatedAt time.Time `json:"created_at"`
}

func toSwipeResponse(rec domain.SwipeRecord) swipeResponse {
	return swipeResponse{
		ID:        rec.ID,
		SwiperID:  rec.SwiperID,
		TargetID:  rec.TargetID,
		Direction: string(rec.Direction),
		CreatedAt: rec.CreatedAt,
	}
}

type inviteResponse struct {
	ID         int64     `json:"id"`
	TeamID     int64     `json:"team_id"`
	FromUserID int64     `json:"from_user_id"`
	ToUserID   int64     `json:"to_user_id"`
	Status     string    `json:"status"`
	Message    *string   `json:"message,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

func toInviteResponse(inv domain.Invite) inviteResponse {
	return inviteResponse{
		ID:         inv.ID,
		TeamID:     inv.TeamID,
		FromUserID: inv.FromUserID,
		ToUserID:   inv.ToUserID,
		Status:     string(inv.Status),
		Message:    inv.Message,
		CreatedAt:  inv.CreatedAt,
		ExpiresAt:  inv.ExpiresAt,
	}
}

func toInviteResponses(invs []domain.Invite) []inviteResponse {
	out := make([]inviteResponse, len(invs))
	for i, inv := range invs {
		out[i] = toInviteResponse(inv)
	}

	return out
}

type inviteWithContextResponse struct {
	inviteResponse
	Team     teamResponse        `json:"team"`
	FromUser participantResponse `json:"from_user"`
}

func toInviteWithContextResponses(invs []domain.InviteWithContext) []inviteWithContextResponse {
	out := make([]inviteWithContextResponse, len(invs))
	for i, inv := range invs {
		out[i] = inviteWithContextResponse{
			inviteResponse: toInviteResponse(inv.Invite),
			Team:           toTeamResponse(inv.Team),
			FromUser:       toParticipantResponse(inv.FromUser),
		}
	}

	return out
}

type joinRequestResponse struct {
	ID        int64     `json:"id"`
	TeamID    int64     `json:"team_id"`
	UserID    int64     `json:"user_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func toJoinRequestResponse(req domain.JoinRequest) joinRequestResponse {
	return joinRequestResponse{
		ID:        req.ID,
		TeamID:    req.TeamID,
		UserID:    req.UserID,
		Status:    string(req.Status),
		CreatedAt: req.CreatedAt,
	}
}

func toJoinRequestResponses(reqs []domain.JoinRequest) []joinRequestResponse {
	out := make([]joinRequestResponse, len(reqs))
	for i, req := range reqs {
		out[i] = toJoinRequestResponse(req)
	}

	return out
}

type joinRequestWithUserResponse struct {
	joinRequestResponse
	User participantResponse `json:"user"`
}

func toJoinRequestWithUserResponses(reqs []domain.JoinRequestWithUser) []joinRequestWithUserResponse {
	out := make([]joinRequestWithUserResponse, len(reqs))
	for i, req := range reqs {
		out[i] = joinRequestWithUserResponse{
			joinRequestResponse: toJoinRequestResponse(req.JoinRequest),
			User:                toParticipantResponse(req.User),
		}
	}

	return out
}

type preferencesResponse struct {
	MinMMR       *int     `json:"min_mmr,omitempty"`
	MaxMMR       *int     `json:"max_mmr,omitempty"`
	Skills       []string `json:"skills,omitempty"`
	Experience   []string `json:"experience,omitempty"`
	Roles        []string `json:"roles,omitempty"`
	VerifiedOnly bool     `json:"verified_only"`
}

func toPreferencesResponse(prefs domain.DeckPreferences) preferencesResponse {
	return preferencesResponse{
		MinMMR:       prefs.MinMMR,
		MaxMMR:       prefs.MaxMMR,
		Skills:       prefs.Skills,
		Experience:   prefs.Experience,
		Roles:        prefs.Roles,
		VerifiedOnly: prefs.VerifiedOnly,
	}
}

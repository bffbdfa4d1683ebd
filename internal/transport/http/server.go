// package http implements the HTTP transport layer for the matching engine.
// It handles incoming requests, decodes them, calls the appropriate service
// methods, and encodes the responses.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/itamhack/matchmaking-service/internal/apperrors"
	"github.com/itamhack/matchmaking-service/internal/domain"
	"github.com/itamhack/matchmaking-service/internal/service"
	"github.com/itamhack/matchmaking-service/internal/validation"
	"github.com/itamhack/matchmaking-service/pkg/logger/sl"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	log     *slog.Logger
	deck    service.DeckService
	invites service.InviteService
	joins   service.JoinRequestService
	roster  service.RosterService
	balance service.BalanceService
	rating  service.RatingService
}

func NewServer(
	log *slog.Logger,
	deck service.DeckService,
	invites service.InviteService,
	joins service.JoinRequestService,
	roster service.RosterService,
	balance service.BalanceService,
	rating service.RatingService,
) *Server {
	return &Server{
		log:     log,
		deck:    deck,
		invites: invites,
		joins:   joins,
		roster:  roster,
		balance: balance,
		rating:  rating,
	}
}

// Routes sets up the router with all middleware and API endpoints.
func (s *Server) Routes() http.Handler {
	mux := chi.NewRouter()

	mux.Use(s.requestID)
	mux.Use(s.logRequest)
	mux.Use(s.metricsMiddleware)

	mux.Handle("/metrics", promhttp.Handler())

	mux.Route("/api", func(r chi.Router) {
		r.Use(s.identity)

		r.Route("/deck", func(r chi.Router) {
			r.Get("/", s.getDeck)
			r.Get("/preferences", s.getPreferences)
			r.Put("/preferences", s.putPreferences)
			r.Post("/swipes", s.postSwipe)
			r.Post("/swipes/undo", s.postUndoSwipe)
		})

		r.Route("/invites", func(r chi.Router) {
			r.Get("/", s.getInvites)
			r.Post("/{inviteID}/resolve", s.postResolveInvite)
			r.Delete("/{inviteID}", s.deleteInvite)
		})

		r.Route("/teams", func(r chi.Router) {
			r.Post("/", s.postCreateTeam)
			r.Get("/", s.getTeams)
			r.Get("/{teamID}", s.getTeam)
			r.Get("/{teamID}/balance", s.getTeamBalance)
			r.Get("/{teamID}/invites", s.getTeamInvites)
			r.Post("/{teamID}/join-requests", s.postCreateJoinRequest)
			r.Get("/{teamID}/join-requests", s.getTeamJoinRequests)
			r.Post("/{teamID}/kick", s.postKick)
			r.Post("/{teamID}/status", s.postSetStatus)
			r.Post("/{teamID}/leave", s.postLeave)
		})

		r.Route("/join-requests", func(r chi.Router) {
			r.Get("/", s.getJoinRequests)
			r.Post("/{requestID}/resolve", s.postResolveJoinRequest)
			r.Delete("/{requestID}", s.deleteJoinRequest)
		})

		r.Route("/rating", func(r chi.Router) {
			r.Post("/calibrate", s.postCalibrate)
			r.Post("/skills/verify", s.postVerifySkill)
		})
	})

	return mux
}

func (s *Server) getDeck(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.getDeck"

	hackathonID, err := optionalQueryID(r, "hackathon_id")
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	deck, err := s.deck.FetchDeck(r.Context(), callerID(r.Context()), hackathonID)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string][]participantResponse{"deck": toParticipantResponses(deck)})
}

func (s *Server) getPreferences(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.getPreferences"

	hackathonID, err := optionalQueryID(r, "hackathon_id")
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	prefs, err := s.deck.GetPreferences(r.Context(), callerID(r.Context()), hackathonID)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]preferencesResponse{"preferences": toPreferencesResponse(*prefs)})
}

func (s *Server) putPreferences(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.putPreferences"

	hackathonID, err := optionalQueryID(r, "hackathon_id")
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	var req preferencesRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	prefs := domain.DeckPreferences{
		MinMMR:       req.MinMMR,
		MaxMMR:       req.MaxMMR,
		Skills:       req.Skills,
		Experience:   req.Experience,
		Roles:        req.Roles,
		VerifiedOnly: req.VerifiedOnly,
	}

	if err := s.deck.UpdatePreferences(r.Context(), callerID(r.Context()), hackathonID, prefs); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]preferencesResponse{"preferences": toPreferencesResponse(prefs)})
}

func (s *Server) postSwipe(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.postSwipe"

	var req swipeRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	record, invite, err := s.deck.Swipe(r.Context(), callerID(r.Context()), req.TargetID, domain.SwipeDirection(req.Direction))
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	resp := map[string]interface{}{"swipe": toSwipeResponse(*record)}
	if invite != nil {
		resp["invite"] = toInviteResponse(*invite)
	}

	s.respond(w, http.StatusCreated, resp)
}

func (s *Server) postUndoSwipe(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.postUndoSwipe"

	record, err := s.deck.UndoLastSwipe(r.Context(), callerID(r.Context()))
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	if record == nil {
		// Nothing to undo is a no-op, not an error.
		s.respond(w, http.StatusOK, map[string]interface{}{"swipe": nil})
		return
	}

	s.respond(w, http.StatusOK, map[string]swipeResponse{"swipe": toSwipeResponse(*record)})
}

func (s *Server) getInvites(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.getInvites"

	invites, err := s.invites.ListForUser(r.Context(), callerID(r.Context()))
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string][]inviteWithContextResponse{"invites": toInviteWithContextResponses(invites)})
}

func (s *Server) postResolveInvite(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.postResolveInvite"

	inviteID, err := pathID(r, "inviteID")
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	var req resolveInviteRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	invite, err := s.invites.Resolve(r.Context(), inviteID, callerID(r.Context()), req.Decision)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]inviteResponse{"invite": toInviteResponse(*invite)})
}

func (s *Server) deleteInvite(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.deleteInvite"

	inviteID, err := pathID(r, "inviteID")
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	invite, err := s.invites.Cancel(r.Context(), inviteID, callerID(r.Context()))
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]inviteResponse{"invite": toInviteResponse(*invite)})
}

func (s *Server) postCreateTeam(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.postCreateTeam"

	var req createTeamRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	team, err := s.roster.CreateTeam(r.Context(), callerID(r.Context()), req.HackathonID, req.Name, req.MaxSize)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusCreated, map[string]teamResponse{"team": toTeamResponse(*team)})
}

func (s *Server) getTeams(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.getTeams"

	hackathonID, err := requiredQueryID(r, "hackathon_id")
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	teams, err := s.roster.ListTeams(r.Context(), hackathonID)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	out := make([]teamWithMembersResponse, len(teams))
	for i, team := range teams {
		out[i] = toTeamWithMembersResponse(team)
	}

	s.respond(w, http.StatusOK, map[string][]teamWithMembersResponse{"teams": out})
}

func (s *Server) getTeam(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.getTeam"

	teamID, err := pathID(r, "teamID")
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	team, err := s.roster.GetTeam(r.Context(), teamID)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]teamWithMembersResponse{"team": toTeamWithMembersResponse(*team)})
}

func (s *Server) getTeamBalance(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.getTeamBalance"

	teamID, err := pathID(r, "teamID")
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	report, err := s.balance.ComputeBalance(r.Context(), teamID)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]*domain.TeamBalanceReport{"balance": report})
}

func (s *Server) getTeamInvites(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.getTeamInvites"

	teamID, err := pathID(r, "teamID")
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	invites, err := s.invites.ListForTeam(r.Context(), teamID, callerID(r.Context()))
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string][]inviteResponse{"invites": toInviteResponses(invites)})
}

func (s *Server) postCreateJoinRequest(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.postCreateJoinRequest"

	teamID, err := pathID(r, "teamID")
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	request, err := s.joins.Create(r.Context(), teamID, callerID(r.Context()))
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusCreated, map[string]joinRequestResponse{"join_request": toJoinRequestResponse(*request)})
}

func (s *Server) getTeamJoinRequests(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.getTeamJoinRequests"

	teamID, err := pathID(r, "teamID")
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	requests, err := s.joins.ListForTeam(r.Context(), teamID, callerID(r.Context()))
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string][]joinRequestWithUserResponse{"join_requests": toJoinRequestWithUserResponses(requests)})
}

func (s *Server) postKick(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.postKick"

	teamID, err := pathID(r, "teamID")
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	var req kickRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	if err := s.roster.Kick(r.Context(), teamID, callerID(r.Context()), req.UserID); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) postSetStatus(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.postSetStatus"

	teamID, err := pathID(r, "teamID")
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	var req setStatusRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	if err := s.roster.SetStatus(r.Context(), teamID, callerID(r.Context()), domain.TeamStatus(req.Status)); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]string{"status": req.Status})
}

func (s *Server) postLeave(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.postLeave"

	teamID, err := pathID(r, "teamID")
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	if err := s.roster.Leave(r.Context(), teamID, callerID(r.Context())); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getJoinRequests(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.getJoinRequests"

	requests, err := s.joins.ListForUser(r.Context(), callerID(r.Context()))
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string][]joinRequestResponse{"join_requests": toJoinRequestResponses(requests)})
}

func (s *Server) postResolveJoinRequest(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.postResolveJoinRequest"

	requestID, err := pathID(r, "requestID")
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	var req resolveJoinRequestRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	request, err := s.joins.Resolve(r.Context(), requestID, callerID(r.Context()), req.Decision)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]joinRequestResponse{"join_request": toJoinRequestResponse(*request)})
}

func (s *Server) deleteJoinRequest(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.deleteJoinRequest"

	requestID, err := pathID(r, "requestID")
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	request, err := s.joins.Cancel(r.Context(), requestID, callerID(r.Context()))
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]joinRequestResponse{"join_request": toJoinRequestResponse(*request)})
}

func (s *Server) postCalibrate(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.postCalibrate"

	var req calibrateRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	answers := make([]domain.CalibrationAnswer, len(req.Answers))
	for i, a := range req.Answers {
		answers[i] = domain.CalibrationAnswer{Weight: a.Weight, Value: a.Value}
	}

	pts, mmr, err := s.rating.Calibrate(r.Context(), callerID(r.Context()), answers)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]int{"pts": pts, "mmr": mmr})
}

func (s *Server) postVerifySkill(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.postVerifySkill"

	var req verifySkillRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	thresholds := domain.SkillThresholds{
		Intermediate: req.Thresholds.Intermediate,
		Advanced:     req.Thresholds.Advanced,
		Expert:       req.Thresholds.Expert,
	}

	skill, err := s.rating.VerifySkill(r.Context(), callerID(r.Context()), req.SkillName, req.TestScore, thresholds, req.PassingScore)
	if err != nil {
		if errors.Is(err, apperrors.ErrTestNotPassed) {
			// A failed test is a normal outcome: nothing was written.
			s.respond(w, http.StatusOK, map[string]interface{}{"verified": false})
			return
		}

		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]interface{}{
		"verified": skill.Verified,
		"level":    string(skill.Level),
	})
}

// respond is a helper function to encode data to JSON and write it to the response.
func (s *Server) respond(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)

	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			s.log.Error("failed to encode response", sl.Err(err))
		}
	}
}

func (s *Server) respondError(w http.ResponseWriter, code int, message string) {
	s.respond(w, code, map[string]string{"error": message})
}

// decodeAndValidate deserializes a JSON request body into a struct and then
// runs validation checks on it.
func (s *Server) decodeAndValidate(r *http.Request, v interface{}) error {
	if err := s.decode(r.Body, v); err != nil {
		return err
	}

	if err := validation.ValidateStruct(v); err != nil {
		return err
	}

	return nil
}

func (s *Server) decode(body io.ReadCloser, v interface{}) error {
	defer body.Close()

	if err := json.NewDecoder(body).Decode(v); err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrInvalidRequest, err)
	}

	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid %s", apperrors.ErrInvalidRequest, name)
	}

	return id, nil
}

func requiredQueryID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.URL.Query().Get(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid %s", apperrors.ErrInvalidRequest, name)
	}

	return id, nil
}

// optionalQueryID returns 0 when the parameter is absent; services resolve the
// fallback themselves.
func optionalQueryID(r *http.Request, name string) (int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid %s", apperrors.ErrInvalidRequest, name)
	}

	return id, nil
}

// handleServiceError provides centralized error handling for all HTTP handlers.
// It logs the internal error and maps it to a user-friendly HTTP response.
func (s *Server) handleServiceError(w http.ResponseWriter, _ *http.Request, op string, err error) {
	log := s.log.With(slog.String("op", op))
	log.Error("service error occurred", sl.Err(err))

	var validationErr *validation.ValidationError

	switch {
	case errors.As(err, &validationErr):
		s.respondError(w, http.StatusBadRequest, validationErr.Error())
	case errors.Is(err, apperrors.ErrInvalidRequest):
		s.respondError(w, http.StatusBadRequest, "invalid request")
	case errors.Is(err, apperrors.ErrNotRegistered):
		s.respondError(w, http.StatusBadRequest, apperrors.ErrNotRegistered.Error())
	case errors.Is(err, apperrors.ErrNotFound):
		s.respondError(w, http.StatusNotFound, "resource not found")
	case errors.Is(err, apperrors.ErrNotCaptain):
		s.respondError(w, http.StatusForbidden, apperrors.ErrNotCaptain.Error())
	case errors.Is(err, apperrors.ErrNotInvitee):
		s.respondError(w, http.StatusForbidden, apperrors.ErrNotInvitee.Error())
	case errors.Is(err, apperrors.ErrNotRequester):
		s.respondError(w, http.StatusForbidden, apperrors.ErrNotRequester.Error())
	case errors.Is(err, apperrors.ErrExpired):
		s.respondError(w, http.StatusGone, apperrors.ErrExpired.Error())
	case errors.Is(err, apperrors.ErrStatusLocked):
		s.respondError(w, http.StatusConflict, apperrors.ErrStatusLocked.Error())
	case errors.Is(err, apperrors.ErrCaptainKick):
		s.respondError(w, http.StatusConflict, apperrors.ErrCaptainKick.Error())
	case errors.Is(err, apperrors.ErrCaptainLeave):
		s.respondError(w, http.StatusConflict, apperrors.ErrCaptainLeave.Error())
	case errors.Is(err, apperrors.ErrTeamFull):
		s.respondError(w, http.StatusConflict, apperrors.ErrTeamFull.Error())
	case errors.Is(err, apperrors.ErrAdmissionFailed):
		s.respondError(w, http.StatusConflict, "admission failed: team filled up or candidate already placed")
	case errors.Is(err, apperrors.ErrAlreadyInTeam):
		s.respondError(w, http.StatusConflict, apperrors.ErrAlreadyInTeam.Error())
	case errors.Is(err, apperrors.ErrAlreadyResolved):
		s.respondError(w, http.StatusConflict, apperrors.ErrAlreadyResolved.Error())
	case errors.Is(err, apperrors.ErrConflict):
		// The typed duplicate swipe/invite/request errors bridge here.
		s.respondError(w, http.StatusConflict, apperrors.ErrConflict.Error())
	default:
		s.respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

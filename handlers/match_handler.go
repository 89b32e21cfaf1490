package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Dosada05/tournament-engine/services"
)

type MatchHandler struct {
	responder
	matchService *services.MatchService
}

func NewMatchHandler(ms *services.MatchService, logger *slog.Logger) *MatchHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &MatchHandler{responder: responder{logger: logger}, matchService: ms}
}

type assignTeamsRequest struct {
	TeamAID int `json:"team_a_id"`
	TeamBID int `json:"team_b_id"`
}

type recordScoreRequest struct {
	Scores []services.TeamScore `json:"scores"`
}

type transitionRequest struct {
	Status string `json:"status"`
}

// CreateMatch godoc
// @Summary      Create a match
// @Tags         matches
// @Accept       json
// @Produce      json
// @Param        input  body  services.CreateMatchInput  true  "Match"
// @Success      201  {object}  models.Match
// @Failure      400  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /matches [post]
func (h *MatchHandler) CreateMatch(w http.ResponseWriter, r *http.Request) {
	var input services.CreateMatchInput
	if err := readJSON(w, r, &input); err != nil {
		h.badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.CreateMatch(r.Context(), input)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusCreated, match)
}

// GetMatch godoc
// @Summary      Get a match with its teams
// @Tags         matches
// @Produce      json
// @Param        matchID  path  int  true  "Match ID"
// @Success      200  {object}  models.Match
// @Failure      404  {object}  map[string]string
// @Router       /matches/{matchID} [get]
func (h *MatchHandler) GetMatch(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.GetMatch(r.Context(), matchID)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, match)
}

// RescheduleMatch godoc
// @Summary      Edit the schedule of a match
// @Tags         matches
// @Accept       json
// @Produce      json
// @Param        matchID  path  int                     true  "Match ID"
// @Param        input    body  services.ScheduleInput  true  "Schedule"
// @Success      200  {object}  models.Match
// @Failure      409  {object}  map[string]string
// @Router       /matches/{matchID} [put]
func (h *MatchHandler) RescheduleMatch(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	var input services.ScheduleInput
	if err := readJSON(w, r, &input); err != nil {
		h.badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.RescheduleMatch(r.Context(), matchID, input)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, match)
}

// AssignTeams godoc
// @Summary      Set the two teams of a match
// @Tags         matches
// @Accept       json
// @Produce      json
// @Param        matchID  path  int                 true  "Match ID"
// @Param        input    body  assignTeamsRequest  true  "Teams"
// @Success      200  {object}  models.Match
// @Router       /matches/{matchID}/teams [put]
func (h *MatchHandler) AssignTeams(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	var input assignTeamsRequest
	if err := readJSON(w, r, &input); err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	if input.TeamAID <= 0 || input.TeamBID <= 0 {
		h.badRequestResponse(w, r, errors.New("team_a_id and team_b_id are required"))
		return
	}

	match, err := h.matchService.AssignTeams(r.Context(), matchID, input.TeamAID, input.TeamBID)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, match)
}

// RecordScore godoc
// @Summary      Record the result of a match
// @Tags         matches
// @Accept       json
// @Produce      json
// @Param        matchID  path  int                 true  "Match ID"
// @Param        input    body  recordScoreRequest  true  "Scores"
// @Success      200  {object}  models.Match
// @Router       /matches/{matchID}/score [put]
func (h *MatchHandler) RecordScore(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	var input recordScoreRequest
	if err := readJSON(w, r, &input); err != nil {
		h.badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.RecordScore(r.Context(), matchID, input.Scores)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, match)
}

// TransitionStatus godoc
// @Summary      Move a match to another state
// @Tags         matches
// @Accept       json
// @Produce      json
// @Param        matchID  path  int                true  "Match ID"
// @Param        input    body  transitionRequest  true  "Target state"
// @Success      200  {object}  models.Match
// @Failure      400  {object}  map[string]string
// @Router       /matches/{matchID}/status [patch]
func (h *MatchHandler) TransitionStatus(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	var input transitionRequest
	if err := readJSON(w, r, &input); err != nil {
		h.badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.TransitionMatchState(r.Context(), matchID, input.Status)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, match)
}

// RecordEvent godoc
// @Summary      Record a disciplinary event
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        matchID  path  int                  true  "Match ID"
// @Param        input    body  services.EventInput  true  "Event"
// @Success      201  {object}  models.NegativeEvent
// @Router       /matches/{matchID}/events [post]
func (h *MatchHandler) RecordEvent(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	var input services.EventInput
	if err := readJSON(w, r, &input); err != nil {
		h.badRequestResponse(w, r, err)
		return
	}

	event, err := h.matchService.RecordEvent(r.Context(), matchID, input)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusCreated, event)
}

// ListEvents godoc
// @Summary      List the events of a match
// @Tags         events
// @Produce      json
// @Param        matchID  path  int  true  "Match ID"
// @Success      200  {array}  models.NegativeEvent
// @Router       /matches/{matchID}/events [get]
func (h *MatchHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}

	events, err := h.matchService.ListEvents(r.Context(), matchID)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, jsonResponse{"events": events})
}

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Dosada05/tournament-engine/services"
)

type TournamentHandler struct {
	responder
	standingsService *services.StandingsService
	bracketService   *services.BracketService
}

func NewTournamentHandler(ss *services.StandingsService, bs *services.BracketService, logger *slog.Logger) *TournamentHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TournamentHandler{
		responder:        responder{logger: logger},
		standingsService: ss,
		bracketService:   bs,
	}
}

// GetStandings godoc
// @Summary      Standings table
// @Description  Computes the standings of a tournament, or of one group when group_id is given.
// @Tags         standings
// @Produce      json
// @Param        tournamentID  path   int  true   "Tournament ID"
// @Param        group_id      query  int  false  "Group ID"
// @Success      200  {object}  models.StandingsTable
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /tournaments/{tournamentID}/standings [get]
func (h *TournamentHandler) GetStandings(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	groupID, err := optionalIntQuery(r, "group_id")
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}

	table, err := h.standingsService.ComputeStandings(r.Context(), tournamentID, groupID)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, table)
}

// GetClassification godoc
// @Summary      Qualification view
// @Tags         standings
// @Produce      json
// @Param        tournamentID  path  int  true  "Tournament ID"
// @Success      200  {array}   models.QualificationEntry
// @Failure      404  {object}  map[string]string
// @Router       /tournaments/{tournamentID}/classification [get]
func (h *TournamentHandler) GetClassification(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}

	entries, err := h.standingsService.ComputeQualification(r.Context(), tournamentID)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, jsonResponse{"classification": entries})
}

// GetBracketStatus godoc
// @Summary      Whether the knockout bracket can be generated
// @Tags         bracket
// @Produce      json
// @Param        tournamentID  path  int  true  "Tournament ID"
// @Success      200  {object}  models.GroupPhaseStatus
// @Router       /tournaments/{tournamentID}/bracket/status [get]
func (h *TournamentHandler) GetBracketStatus(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}

	status, err := h.bracketService.CheckGroupPhaseComplete(r.Context(), tournamentID)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, status)
}

// GenerateBracket godoc
// @Summary      Generate the first knockout round
// @Tags         bracket
// @Produce      json
// @Param        tournamentID  path  int  true  "Tournament ID"
// @Success      201  {array}   models.Match
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /tournaments/{tournamentID}/bracket [post]
func (h *TournamentHandler) GenerateBracket(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}

	matches, err := h.bracketService.GenerateBracket(r.Context(), tournamentID)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusCreated, jsonResponse{"matches": matches})
}

// GenerateFixtures godoc
// @Summary      Generate group stage fixtures
// @Tags         bracket
// @Produce      json
// @Param        tournamentID  path  int  true  "Tournament ID"
// @Success      201  {array}  models.Match
// @Router       /tournaments/{tournamentID}/fixtures [post]
func (h *TournamentHandler) GenerateFixtures(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}

	matches, err := h.bracketService.GenerateGroupFixtures(r.Context(), tournamentID)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusCreated, jsonResponse{"matches": matches})
}

// PublishStandings godoc
// @Summary      Upload a standings snapshot to object storage
// @Tags         standings
// @Produce      json
// @Param        tournamentID  path  int  true  "Tournament ID"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Router       /tournaments/{tournamentID}/standings/publish [post]
func (h *TournamentHandler) PublishStandings(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}

	url, err := h.standingsService.PublishStandings(r.Context(), tournamentID)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, jsonResponse{"url": url})
}

// UnpublishStandings godoc
// @Summary      Remove the published standings snapshot
// @Tags         standings
// @Param        tournamentID  path  int  true  "Tournament ID"
// @Success      204
// @Router       /tournaments/{tournamentID}/standings/publish [delete]
func (h *TournamentHandler) UnpublishStandings(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}

	if err := h.standingsService.UnpublishStandings(r.Context(), tournamentID); err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

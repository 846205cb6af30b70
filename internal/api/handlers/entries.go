package handlers

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/moodloop/journal-server/internal/apperr"
	"github.com/moodloop/journal-server/internal/api/middleware"
	"github.com/moodloop/journal-server/internal/models"
	"github.com/moodloop/journal-server/internal/services"
	"github.com/moodloop/journal-server/internal/utils"
)

type EntryHandler struct {
	journal *services.Journal
}

func NewEntryHandler(journal *services.Journal) *EntryHandler {
	return &EntryHandler{journal: journal}
}

// Create godoc
// @Summary Create a journal entry
// @Description Persists an entry with a locally computed sentiment score
// @Tags Entries
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.Payload
// @Router /api/entries [post]
func (h *EntryHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.Identity(r)
	if !ok {
		utils.ErrorResponse(w, apperr.Auth("Unauthorized"))
		return
	}

	var input struct {
		Text string `json:"text"`
		Mood string `json:"mood"`
	}
	if err := utils.DecodeJSON(r, &input); err != nil {
		utils.ErrorResponse(w, err)
		return
	}

	entry, err := h.journal.CreateEntry(r.Context(), identity.UserID, input.Text, input.Mood)
	if err != nil {
		utils.ErrorResponse(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, struct {
		Success bool          `json:"success"`
		Entry   *models.Entry `json:"entry"`
	}{true, entry})
}

// List godoc
// @Summary List journal entries
// @Description Returns the caller's entries, newest first; limit is clamped server-side
// @Tags Entries
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum entries to return"
// @Success 200 {object} utils.Payload
// @Router /api/entries [get]
func (h *EntryHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.Identity(r)
	if !ok {
		utils.ErrorResponse(w, apperr.Auth("Unauthorized"))
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	entries, err := h.journal.ListEntries(r.Context(), identity.UserID, limit)
	if err != nil {
		utils.ErrorResponse(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, struct {
		Success bool           `json:"success"`
		Entries []models.Entry `json:"entries"`
	}{true, entries})
}

// Delete removes one of the caller's entries. Entries owned by anyone else
// report not-found.
func (h *EntryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.Identity(r)
	if !ok {
		utils.ErrorResponse(w, apperr.Auth("Unauthorized"))
		return
	}

	entryID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		utils.ErrorResponse(w, apperr.NotFound("Entry not found or not yours"))
		return
	}

	if err := h.journal.DeleteEntry(r.Context(), identity.UserID, entryID); err != nil {
		utils.ErrorResponse(w, err)
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{Success: true})
}

// WeeklyStats reports mood counts over the trailing seven days.
func (h *EntryHandler) WeeklyStats(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.Identity(r)
	if !ok {
		utils.ErrorResponse(w, apperr.Auth("Unauthorized"))
		return
	}

	stats, err := h.journal.WeeklyStats(r.Context(), identity.UserID)
	if err != nil {
		utils.ErrorResponse(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, struct {
		Success bool           `json:"success"`
		Stats   map[string]int `json:"stats"`
	}{true, stats})
}

package handlers

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/moodloop/journal-server/internal/apperr"
	"github.com/moodloop/journal-server/internal/api/middleware"
	"github.com/moodloop/journal-server/internal/clients"
	"github.com/moodloop/journal-server/internal/services"
	"github.com/moodloop/journal-server/internal/utils"
)

// Chatter relays a message to the chat completion provider.
type Chatter interface {
	Send(ctx context.Context, message string) (string, error)
}

type AnalysisHandler struct {
	sentiment *services.Sentiment
	chat      Chatter
	log       zerolog.Logger
}

func NewAnalysisHandler(sentiment *services.Sentiment, chat Chatter, log zerolog.Logger) *AnalysisHandler {
	return &AnalysisHandler{sentiment: sentiment, chat: chat, log: log}
}

// degradedProfile is the error marker carried in place of a profile when the
// analyzer is unavailable. The response is still a 200.
func degradedProfile(err error) map[string]string {
	return map[string]string{"error": apperr.ClientMessage(err)}
}

// Analyze godoc
// @Summary Analyze a text
// @Description Returns the local sentiment score plus a best-effort remote personality profile
// @Tags Analysis
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.Payload
// @Router /api/analyze [post]
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Text string `json:"text"`
	}
	if err := utils.DecodeJSON(r, &input); err != nil {
		utils.ErrorResponse(w, err)
		return
	}

	var (
		score     int
		profile   clients.PersonalityProfile
		remoteErr error
	)

	// The remote profile is optional enrichment; its failure is captured,
	// not propagated, so the group never cancels the local path.
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		score = services.LocalScore(input.Text)
		return nil
	})
	g.Go(func() error {
		profile, remoteErr = h.sentiment.RemoteProfile(ctx, input.Text)
		return nil
	})
	_ = g.Wait()

	var personality any
	if remoteErr != nil {
		personality = degradedProfile(remoteErr)
	} else if profile != nil {
		personality = profile
	}

	utils.JSON(w, http.StatusOK, struct {
		Success        bool `json:"success"`
		SentimentScore int  `json:"sentiment_score"`
		Personality    any  `json:"personality"`
	}{true, score, personality})
}

// Personality profiles the caller from their most recent entries. A user
// with no entries gets null; an unreachable analyzer degrades to an error
// marker, never a 500.
func (h *AnalysisHandler) Personality(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.Identity(r)
	if !ok {
		utils.ErrorResponse(w, apperr.Auth("Unauthorized"))
		return
	}

	var personality any
	profile, err := h.sentiment.UserProfile(r.Context(), identity.UserID)
	switch {
	case apperr.IsKind(err, apperr.KindUpstream):
		personality = degradedProfile(err)
	case err != nil:
		utils.ErrorResponse(w, err)
		return
	case profile != nil:
		personality = profile
	}

	utils.JSON(w, http.StatusOK, struct {
		Success     bool `json:"success"`
		Personality any  `json:"personality"`
	}{true, personality})
}

// Chat relays a message to the conversational assistant.
func (h *AnalysisHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Message string `json:"message"`
	}
	if err := utils.DecodeJSON(r, &input); err != nil {
		utils.ErrorResponse(w, err)
		return
	}
	if input.Message == "" {
		utils.ErrorResponse(w, apperr.Validation("No message provided"))
		return
	}

	reply, err := h.chat.Send(r.Context(), input.Message)
	if err != nil {
		h.log.Error().Err(err).Msg("chat relay failed")
		utils.ErrorResponse(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, struct {
		Success bool   `json:"success"`
		Reply   string `json:"reply"`
	}{true, reply})
}

package handlers

import (
	"net/http"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/moodloop/journal-server/internal/api/providers"
	"github.com/moodloop/journal-server/internal/services"
	"github.com/moodloop/journal-server/internal/utils"
)

// OAuthHandler drives the browser-redirect OAuth flows. The callback hands
// the session token to the frontend via a query parameter on a configured
// redirect, so the core stays free of any browser-messaging convention.
type OAuthHandler struct {
	accounts    *services.Accounts
	providers   map[string]*providers.Provider
	frontendURL string
	log         zerolog.Logger
}

func NewOAuthHandler(accounts *services.Accounts, provs map[string]*providers.Provider, frontendURL string, log zerolog.Logger) *OAuthHandler {
	return &OAuthHandler{
		accounts:    accounts,
		providers:   provs,
		frontendURL: frontendURL,
		log:         log,
	}
}

// Begin returns the handler that redirects the browser to the provider's
// consent page.
func (h *OAuthHandler) Begin(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := h.providers[name]
		if !ok {
			http.Error(w, "Unknown provider", http.StatusNotFound)
			return
		}

		state, err := utils.GenerateState(map[string]string{"provider": name})
		if err != nil {
			http.Error(w, "Failed to generate OAuth state", http.StatusInternalServerError)
			return
		}

		http.Redirect(w, r, p.Config.AuthCodeURL(state), http.StatusTemporaryRedirect)
	}
}

// Callback returns the handler for the provider's redirect back to us.
func (h *OAuthHandler) Callback(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := h.providers[name]
		if !ok {
			http.Error(w, "Unknown provider", http.StatusNotFound)
			return
		}

		stateData, err := utils.DecodeState(r.FormValue("state"))
		if err != nil || stateData["provider"] != name {
			h.redirectError(w, r, "invalid_state")
			return
		}

		token, err := p.Config.Exchange(r.Context(), r.FormValue("code"))
		if err != nil {
			h.log.Warn().Err(err).Str("provider", name).Msg("oauth code exchange failed")
			h.redirectError(w, r, "exchange_failed")
			return
		}

		client := p.Config.Client(r.Context(), token)
		info, err := p.FetchUser(r.Context(), client)
		if err != nil {
			h.log.Warn().Err(err).Str("provider", name).Msg("oauth userinfo fetch failed")
			h.redirectError(w, r, "userinfo_failed")
			return
		}

		sessionToken, err := h.accounts.CompleteOAuthLogin(r.Context(), name, info.ID, info.Email, info.Name, info.Avatar)
		if err != nil {
			h.log.Warn().Err(err).Str("provider", name).Msg("oauth upsert failed")
			h.redirectError(w, r, "login_failed")
			return
		}

		http.Redirect(w, r,
			h.frontendURL+"/oauth/callback?token="+url.QueryEscape(sessionToken),
			http.StatusTemporaryRedirect)
	}
}

func (h *OAuthHandler) redirectError(w http.ResponseWriter, r *http.Request, code string) {
	http.Redirect(w, r,
		h.frontendURL+"/login?error="+url.QueryEscape(code),
		http.StatusTemporaryRedirect)
}

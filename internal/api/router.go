// @title Mood Journal API
// @version 1.0
// @description Account lifecycle, journal entries, and sentiment analysis endpoints.
// @BasePath /
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer <JWT>

package api

import (
	"fmt"
	"net/http"

	_ "github.com/moodloop/journal-server/docs"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/moodloop/journal-server/internal/api/handlers"
	"github.com/moodloop/journal-server/internal/api/middleware"
	"github.com/moodloop/journal-server/internal/config"
)

type Deps struct {
	Cfg       *config.Config
	Auth      *middleware.Auth
	AuthH     *handlers.AuthHandler
	OAuthH    *handlers.OAuthHandler
	EntryH    *handlers.EntryHandler
	AnalysisH *handlers.AnalysisHandler
	Log       zerolog.Logger
}

func SetupRouter(d Deps) http.Handler {
	mux := http.NewServeMux()

	// ---------- PUBLIC ROUTES ----------
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"status":"ok"}`)
	})

	mux.HandleFunc("/docs/", httpSwagger.WrapHandler)

	mux.HandleFunc("POST /api/auth/register", d.AuthH.Register)
	mux.HandleFunc("POST /api/auth/verify-email", d.AuthH.VerifyEmail)
	mux.HandleFunc("POST /api/auth/resend-verification", d.AuthH.ResendVerification)
	mux.HandleFunc("POST /api/auth/login", d.AuthH.Login)
	mux.HandleFunc("POST /api/auth/request-reset", d.AuthH.RequestReset)
	mux.HandleFunc("POST /api/auth/reset-password", d.AuthH.ResetPassword)

	mux.HandleFunc("GET /api/auth/google", d.OAuthH.Begin("google"))
	mux.HandleFunc("GET /api/auth/google/callback", d.OAuthH.Callback("google"))
	mux.HandleFunc("GET /api/auth/facebook", d.OAuthH.Begin("facebook"))
	mux.HandleFunc("GET /api/auth/facebook/callback", d.OAuthH.Callback("facebook"))

	// ---------- PROTECTED ROUTES ----------
	protect := func(h http.HandlerFunc) http.Handler {
		return d.Auth.Require(h)
	}

	mux.Handle("GET /api/auth/me", protect(d.AuthH.GetMe))
	mux.Handle("PUT /api/auth/me", protect(d.AuthH.UpdateMe))
	mux.Handle("POST /api/auth/me/avatar", protect(d.AuthH.PresignAvatar))

	mux.Handle("GET /api/entries", protect(d.EntryH.List))
	mux.Handle("POST /api/entries", protect(d.EntryH.Create))
	mux.Handle("DELETE /api/entries/{id}", protect(d.EntryH.Delete))
	mux.Handle("GET /api/stats/week", protect(d.EntryH.WeeklyStats))

	mux.Handle("POST /api/analyze", protect(d.AnalysisH.Analyze))
	mux.Handle("GET /api/personality", protect(d.AnalysisH.Personality))
	mux.Handle("POST /api/chat", protect(d.AnalysisH.Chat))

	c := cors.New(d.Cfg.CorsOptions())
	handler := c.Handler(mux)
	handler = middleware.Logger(d.Log, handler)
	return handler
}

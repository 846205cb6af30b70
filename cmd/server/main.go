package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/moodloop/journal-server/internal/api"
	"github.com/moodloop/journal-server/internal/api/handlers"
	"github.com/moodloop/journal-server/internal/api/middleware"
	"github.com/moodloop/journal-server/internal/api/providers"
	"github.com/moodloop/journal-server/internal/auth"
	"github.com/moodloop/journal-server/internal/clients"
	"github.com/moodloop/journal-server/internal/config"
	"github.com/moodloop/journal-server/internal/repositories"
	"github.com/moodloop/journal-server/internal/services"
)

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	db, err := repositories.Open(cfg.DBPath, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	log.Info().Str("path", cfg.DBPath).Msg("database ready")

	// Repositories
	userRepo := repositories.NewUserRepository(db)
	entryRepo := repositories.NewEntryRepository(db)
	avatarStore := repositories.NewAvatarStore(cfg.Avatar)

	// Auth primitives
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	hasher := auth.NewPasswordHasher(cfg.PasswordPepper)

	// Collaborator clients
	emailClient := clients.NewEmailClient(cfg.EmailServiceURL)
	analyzerClient := clients.NewAnalyzerClient(cfg.AnalyzerURL)
	chatClient := clients.NewChatClient(cfg.ChatServiceURL)

	// Services
	accounts := services.NewAccounts(userRepo, emailClient, tokens, hasher, log)
	journal := services.NewJournal(entryRepo)
	sentiment := services.NewSentiment(analyzerClient, entryRepo, log)

	router := api.SetupRouter(api.Deps{
		Cfg:       cfg,
		Auth:      middleware.NewAuth(tokens, userRepo),
		AuthH:     handlers.NewAuthHandler(accounts, avatarStore, log),
		OAuthH:    handlers.NewOAuthHandler(accounts, providers.All(cfg), cfg.FrontendURL, log),
		EntryH:    handlers.NewEntryHandler(journal),
		AnalysisH: handlers.NewAnalysisHandler(sentiment, chatClient, log),
		Log:       log,
	})

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: router,
		// WriteTimeout must outlast the slowest collaborator call (chat, 20s)
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Info().Str("port", cfg.Port).Msg("starting mood journal server")

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

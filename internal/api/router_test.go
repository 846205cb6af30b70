package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moodloop/journal-server/internal/api/handlers"
	"github.com/moodloop/journal-server/internal/api/middleware"
	"github.com/moodloop/journal-server/internal/api/providers"
	"github.com/moodloop/journal-server/internal/auth"
	"github.com/moodloop/journal-server/internal/clients"
	"github.com/moodloop/journal-server/internal/config"
	"github.com/moodloop/journal-server/internal/models"
	"github.com/moodloop/journal-server/internal/repositories"
	"github.com/moodloop/journal-server/internal/services"
)

type testApp struct {
	handler http.Handler
	users   repositories.UserRepository
	hasher  auth.PasswordHasher
	tokens  *auth.TokenIssuer
}

// newTestApp wires the full stack against an in-memory store. The analyzer
// URL points at a closed port so remote profiling always fails fast; the
// degradation paths are what the tests care about.
func newTestApp(t *testing.T) *testApp {
	t.Helper()

	log := zerolog.Nop()

	db, err := repositories.Open(":memory:", log)
	require.NoError(t, err)

	deadSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	deadURL := deadSrv.URL
	deadSrv.Close()

	cfg := &config.Config{
		JWTSecret:      "test-secret",
		TokenTTL:       time.Hour,
		PasswordPepper: "test-pepper",
		FrontendURL:    "http://localhost:5173",
		CORSOrigins:    "http://localhost:5173",
	}

	userRepo := repositories.NewUserRepository(db)
	entryRepo := repositories.NewEntryRepository(db)

	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	hasher := auth.NewPasswordHasher(cfg.PasswordPepper)

	emailClient := clients.NewEmailClient(deadURL)
	analyzerClient := clients.NewAnalyzerClient(deadURL)
	chatClient := clients.NewChatClient(deadURL)

	accounts := services.NewAccounts(userRepo, emailClient, tokens, hasher, log)
	journal := services.NewJournal(entryRepo)
	sentiment := services.NewSentiment(analyzerClient, entryRepo, log)

	handler := SetupRouter(Deps{
		Cfg:       cfg,
		Auth:      middleware.NewAuth(tokens, userRepo),
		AuthH:     handlers.NewAuthHandler(accounts, nil, log),
		OAuthH:    handlers.NewOAuthHandler(accounts, providers.All(cfg), cfg.FrontendURL, log),
		EntryH:    handlers.NewEntryHandler(journal),
		AnalysisH: handlers.NewAnalysisHandler(sentiment, chatClient, log),
		Log:       log,
	})

	return &testApp{handler: handler, users: userRepo, hasher: hasher, tokens: tokens}
}

func (a *testApp) seedUser(t *testing.T, email, password string, verified bool) *models.User {
	t.Helper()

	user := &models.User{
		Email:          email,
		PasswordDigest: a.hasher.Hash(password),
		IsVerified:     verified,
	}
	require.NoError(t, a.users.Create(context.Background(), user))
	return user
}

func (a *testApp) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)

	decoded := map[string]any{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec, decoded
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)

	rec, body := app.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestProtectedRoutesRejectMissingAndBadTokens(t *testing.T) {
	app := newTestApp(t)

	rec, body := app.do(t, http.MethodGet, "/api/entries", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Authorization token required", body["message"])

	rec, body = app.do(t, http.MethodGet, "/api/entries", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid token", body["message"])
}

func TestUnverifiedUserIsForbidden(t *testing.T) {
	app := newTestApp(t)
	user := app.seedUser(t, "pending@example.com", "secret123", false)

	token, err := app.tokens.Issue(user.ID, user.Email)
	require.NoError(t, err)

	rec, body := app.do(t, http.MethodGet, "/api/entries", token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Email not verified. Please verify your email to continue.", body["message"])
}

func TestTokenForDeletedUserIsRejected(t *testing.T) {
	app := newTestApp(t)

	token, err := app.tokens.Issue(uuid.New(), "ghost@example.com")
	require.NoError(t, err)

	rec, _ := app.do(t, http.MethodGet, "/api/entries", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginAndEntryLifecycle(t *testing.T) {
	app := newTestApp(t)
	app.seedUser(t, "diarist@example.com", "secret123", true)

	rec, _ := app.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "diarist@example.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, body := app.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "diarist@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	rec, body = app.do(t, http.MethodPost, "/api/entries", token, map[string]string{
		"text": "Feeling grateful and hopeful today", "mood": "good",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	entry := body["entry"].(map[string]any)
	assert.Equal(t, "good", entry["mood"])
	assert.InDelta(t, 2, entry["sentiment"], 0.001)

	rec, body = app.do(t, http.MethodGet, "/api/entries", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["entries"], 1)

	entryID := entry["id"].(string)
	rec, _ = app.do(t, http.MethodDelete, "/api/entries/"+entryID, token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = app.do(t, http.MethodDelete, "/api/entries/"+entryID, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, body = app.do(t, http.MethodGet, "/api/stats/week", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, body["stats"])
}

func TestLoginToleratesExtraBodyFields(t *testing.T) {
	app := newTestApp(t)
	app.seedUser(t, "diarist@example.com", "secret123", true)

	rec, body := app.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":           "diarist@example.com",
		"password":        "secret123",
		"confirmPassword": "secret123",
		"rememberMe":      "true",
	})
	require.Equal(t, http.StatusOK, rec.Code, "unknown fields must not fail parsing")
	assert.NotEmpty(t, body["token"])
}

func TestAnalyzeDegradesWhenAnalyzerIsDown(t *testing.T) {
	app := newTestApp(t)
	user := app.seedUser(t, "diarist@example.com", "secret123", true)

	token, err := app.tokens.Issue(user.ID, user.Email)
	require.NoError(t, err)

	rec, body := app.do(t, http.MethodPost, "/api/analyze", token, map[string]string{
		"text": "I am happy but tired",
	})
	require.Equal(t, http.StatusOK, rec.Code, "analyzer failure must not fail the request")
	assert.Equal(t, true, body["success"])
	assert.InDelta(t, 0, body["sentiment_score"], 0.001)

	personality := body["personality"].(map[string]any)
	assert.NotEmpty(t, personality["error"])
}

func TestPersonalityWithoutEntriesIsNull(t *testing.T) {
	app := newTestApp(t)
	user := app.seedUser(t, "diarist@example.com", "secret123", true)

	token, err := app.tokens.Issue(user.ID, user.Email)
	require.NoError(t, err)

	rec, body := app.do(t, http.MethodGet, "/api/personality", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Nil(t, body["personality"])
}

func TestPersonalityDegradesWhenAnalyzerIsDown(t *testing.T) {
	app := newTestApp(t)
	user := app.seedUser(t, "diarist@example.com", "secret123", true)

	token, err := app.tokens.Issue(user.ID, user.Email)
	require.NoError(t, err)

	rec, _ := app.do(t, http.MethodPost, "/api/entries", token, map[string]string{
		"text": "Another calm evening",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, body := app.do(t, http.MethodGet, "/api/personality", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	personality := body["personality"].(map[string]any)
	assert.NotEmpty(t, personality["error"])
}

func TestChatRejectsEmptyMessage(t *testing.T) {
	app := newTestApp(t)
	user := app.seedUser(t, "diarist@example.com", "secret123", true)

	token, err := app.tokens.Issue(user.ID, user.Email)
	require.NoError(t, err)

	rec, body := app.do(t, http.MethodPost, "/api/chat", token, map[string]string{"message": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "No message provided", body["message"])
}

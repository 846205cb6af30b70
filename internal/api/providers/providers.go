// Package providers holds the OAuth identity provider configurations and the
// per-provider userinfo fetchers.
package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"
	"golang.org/x/oauth2/google"

	"github.com/moodloop/journal-server/internal/config"
)

// UserInfo is the normalized claim set extracted from a provider.
type UserInfo struct {
	ID     string
	Email  string
	Name   string
	Avatar string
}

type Provider struct {
	Name      string
	Config    *oauth2.Config
	FetchUser func(ctx context.Context, client *http.Client) (UserInfo, error)
}

// All returns the configured providers keyed by name. Providers without
// credentials are still returned; their flows fail at the exchange step.
func All(cfg *config.Config) map[string]*Provider {
	return map[string]*Provider{
		"google":   Google(cfg),
		"facebook": Facebook(cfg),
	}
}

func Google(cfg *config.Config) *Provider {
	return &Provider{
		Name: "google",
		Config: &oauth2.Config{
			ClientID:     cfg.OAuth.GoogleClientID,
			ClientSecret: cfg.OAuth.GoogleClientSecret,
			RedirectURL:  cfg.PublicBaseURL + "/api/auth/google/callback",
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		FetchUser: fetchGoogleUser,
	}
}

func Facebook(cfg *config.Config) *Provider {
	return &Provider{
		Name: "facebook",
		Config: &oauth2.Config{
			ClientID:     cfg.OAuth.FacebookAppID,
			ClientSecret: cfg.OAuth.FacebookAppSecret,
			RedirectURL:  cfg.PublicBaseURL + "/api/auth/facebook/callback",
			Scopes:       []string{"email"},
			Endpoint:     facebook.Endpoint,
		},
		FetchUser: fetchFacebookUser,
	}
}

func fetchGoogleUser(ctx context.Context, client *http.Client) (UserInfo, error) {
	data, err := getBody(client, "https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return UserInfo{}, err
	}

	var u struct {
		ID      string `json:"id"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := json.Unmarshal(data, &u); err != nil {
		return UserInfo{}, fmt.Errorf("failed to parse user info: %w", err)
	}
	return UserInfo{ID: u.ID, Email: u.Email, Name: u.Name, Avatar: u.Picture}, nil
}

func fetchFacebookUser(ctx context.Context, client *http.Client) (UserInfo, error) {
	data, err := getBody(client, "https://graph.facebook.com/me?fields=id,name,email,picture")
	if err != nil {
		return UserInfo{}, err
	}

	var u struct {
		ID      string `json:"id"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture struct {
			Data struct {
				URL string `json:"url"`
			} `json:"data"`
		} `json:"picture"`
	}
	if err := json.Unmarshal(data, &u); err != nil {
		return UserInfo{}, fmt.Errorf("failed to parse user info: %w", err)
	}
	return UserInfo{ID: u.ID, Email: u.Email, Name: u.Name, Avatar: u.Picture.Data.URL}, nil
}

func getBody(client *http.Client, url string) ([]byte, error) {
	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to get user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo endpoint returned %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

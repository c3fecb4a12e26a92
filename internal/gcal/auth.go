package gcal

import (
	"encoding/json"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
)

const callbackPath = "/oauth/callback"

// getOAuthCallbackURL returns the OAuth callback URL, using TAILORTALK_BASE_URL
// if set. The default points at the chat server itself, which serves the
// callback route and completes the exchange.
func getOAuthCallbackURL() string {
	if baseURL := os.Getenv("TAILORTALK_BASE_URL"); baseURL != "" {
		return baseURL + callbackPath
	}
	port := os.Getenv("TAILORTALK_HTTP_PORT")
	if port == "" {
		port = "8080"
	}
	return fmt.Sprintf("http://localhost:%s%s", port, callbackPath)
}

// OAuthScopes contains only Calendar scopes
var OAuthScopes = []string{
	calendar.CalendarScope,
}

// loadOAuthConfig loads OAuth2 configuration from credentials file or environment variable
func loadOAuthConfig(credentialsFile string) (*oauth2.Config, error) {
	// Try environment variable first (useful for container deployments)
	if credJSON := os.Getenv("GOOGLE_CREDENTIALS_JSON"); credJSON != "" {
		config, err := google.ConfigFromJSON([]byte(credJSON), OAuthScopes...)
		if err == nil {
			config.RedirectURL = getOAuthCallbackURL()
			return config, nil
		}
	}

	// Try specified file
	if credentialsFile != "" {
		if config, err := loadConfigFromFile(credentialsFile); err == nil {
			return config, nil
		}
	}

	// Try default credentials.json in current directory
	if config, err := loadConfigFromFile("./credentials.json"); err == nil {
		return config, nil
	}

	return nil, fmt.Errorf("no credentials file found - please provide credentials.json or set GOOGLE_CREDENTIALS_JSON env var")
}

// loadConfigFromFile attempts to load OAuth config from a file
func loadConfigFromFile(path string) (*oauth2.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config, err := google.ConfigFromJSON(data, OAuthScopes...)
	if err != nil {
		return nil, err
	}

	config.RedirectURL = getOAuthCallbackURL()
	return config, nil
}

// loadToken reads a previously saved OAuth token from disk
func loadToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("failed to parse token file: %w", err)
	}
	return &token, nil
}

// saveToken writes the OAuth token to disk for reuse across restarts
func saveToken(path string, token *oauth2.Token) error {
	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

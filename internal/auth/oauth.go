// Package auth handles the OAuth2 login flow against the collaboration backend.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/exec"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/hy4ri/taskboard/internal/config"
)

const (
	// CallbackAddr is where the local redirect listener binds.
	CallbackAddr = "127.0.0.1:8585"

	callbackPath    = "/callback"
	callbackTimeout = 5 * time.Minute
)

// ErrNoOAuthClient is returned when the config has no OAuth2 client.
var ErrNoOAuthClient = errors.New("no OAuth client configured")

// OAuthConfig builds the oauth2 client description from the auth settings.
func OAuthConfig(cfg *config.Config, redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.Auth.ClientID,
		ClientSecret: cfg.Auth.ClientSecret,
		RedirectURL:  redirectURL,
		Scopes:       []string{"tasks:read", "tasks:write"},
		Endpoint: oauth2.Endpoint{
			AuthURL:  cfg.Auth.AuthURL,
			TokenURL: cfg.Auth.TokenURL,
		},
	}
}

// Login runs the browser authorization-code flow with PKCE and returns the
// token. openURL is called with the authorization URL; nil opens the system
// browser.
func Login(ctx context.Context, cfg *config.Config, openURL func(string) error) (*oauth2.Token, error) {
	if !cfg.HasOAuthCredentials() {
		return nil, fmt.Errorf("%w: set auth.client_id, auth.auth_url and auth.token_url", ErrNoOAuthClient)
	}
	if openURL == nil {
		openURL = openBrowser
	}

	listener, err := net.Listen("tcp", CallbackAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to start callback listener on %s: %w", CallbackAddr, err)
	}

	return loginWithListener(ctx, cfg, listener, openURL)
}

func loginWithListener(ctx context.Context, cfg *config.Config, listener net.Listener, openURL func(string) error) (*oauth2.Token, error) {
	redirectURL := "http://" + listener.Addr().String() + callbackPath
	oc := OAuthConfig(cfg, redirectURL)

	state := uuid.NewString()
	verifier := oauth2.GenerateVerifier()

	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	server := &http.Server{
		Handler:      callbackHandler(state, codeCh, errCh),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("callback server error: %w", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	authURL := oc.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.S256ChallengeOption(verifier))
	slog.Info("waiting for authorization", "url", authURL)
	if err := openURL(authURL); err != nil {
		slog.Warn("failed to open browser", "error", err)
	}

	timeout := time.NewTimer(callbackTimeout)
	defer timeout.Stop()

	select {
	case code := <-codeCh:
		exchangeCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		tok, err := oc.Exchange(exchangeCtx, code, oauth2.VerifierOption(verifier))
		if err != nil {
			return nil, fmt.Errorf("failed to exchange code for token: %w", err)
		}
		return tok, nil
	case err := <-errCh:
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timeout.C:
		return nil, fmt.Errorf("authorization timed out after %v", callbackTimeout)
	}
}

func callbackHandler(state string, codeCh chan<- string, errCh chan<- error) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(callbackPath, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		w.Header().Set("Content-Type", "text/html")

		if errMsg := q.Get("error"); errMsg != "" {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `<html><body><h1>Authorization Failed</h1><p>You can close this window.</p></body></html>`)
			sendErr(errCh, fmt.Errorf("authorization denied: %s", errMsg))
			return
		}
		if q.Get("state") != state {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `<html><body><h1>Authorization Failed</h1><p>State mismatch.</p></body></html>`)
			sendErr(errCh, fmt.Errorf("authorization state mismatch"))
			return
		}
		code := q.Get("code")
		if code == "" {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `<html><body><h1>Authorization Failed</h1><p>No authorization code received.</p></body></html>`)
			sendErr(errCh, fmt.Errorf("no authorization code received"))
			return
		}

		fmt.Fprint(w, `<html><body><h1>Authorization Successful!</h1><p>You can close this window and return to the terminal.</p></body></html>`)
		select {
		case codeCh <- code:
		default:
		}
	})
	return mux
}

func sendErr(errCh chan<- error, err error) {
	select {
	case errCh <- err:
	default:
	}
}

// StoreToken copies an OAuth2 token into the config.
func StoreToken(cfg *config.Config, tok *oauth2.Token) {
	cfg.Auth.AccessToken = tok.AccessToken
	if tok.RefreshToken != "" {
		cfg.Auth.RefreshToken = tok.RefreshToken
	}
	cfg.Auth.Expiry = tok.Expiry
}

// AccessToken returns a usable access token from the config, refreshing it
// through the token endpoint when it has expired. changed reports whether the
// config was updated and should be saved.
func AccessToken(ctx context.Context, cfg *config.Config) (token string, changed bool, err error) {
	if cfg.Auth.AccessToken == "" {
		return "", false, config.ErrNoAuth
	}

	current := &oauth2.Token{
		AccessToken:  cfg.Auth.AccessToken,
		RefreshToken: cfg.Auth.RefreshToken,
		Expiry:       cfg.Auth.Expiry,
	}
	if current.Valid() || current.RefreshToken == "" || !cfg.HasOAuthCredentials() {
		return current.AccessToken, false, nil
	}

	fresh, err := OAuthConfig(cfg, "").TokenSource(ctx, current).Token()
	if err != nil {
		return "", false, fmt.Errorf("failed to refresh access token: %w", err)
	}
	StoreToken(cfg, fresh)
	return fresh.AccessToken, true, nil
}

// openBrowser opens the default browser to the given URL.
func openBrowser(url string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default: // Linux and others
		cmd = exec.Command("xdg-open", url)
	}

	return cmd.Start()
}

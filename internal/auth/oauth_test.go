package auth

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/hy4ri/taskboard/internal/config"
)

func tokenServer(t *testing.T, accessToken string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST to token endpoint, got %s", r.Method)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("failed to parse form: %v", err)
		}
		if r.Form.Get("grant_type") == "authorization_code" && r.Form.Get("code_verifier") == "" {
			t.Error("expected PKCE code_verifier in exchange")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"` + accessToken + `","token_type":"bearer","refresh_token":"refresh-1","expires_in":3600}`))
	}))
}

func testConfig(tokenURL string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Auth.ClientID = "client"
	cfg.Auth.ClientSecret = "secret"
	cfg.Auth.AuthURL = "https://auth.example.com/authorize"
	cfg.Auth.TokenURL = tokenURL
	return cfg
}

// visit simulates the browser following the authorization URL and the
// provider redirecting back with the given code.
func visit(t *testing.T, code string, tamperState bool) func(string) error {
	return func(authURL string) error {
		u, err := url.Parse(authURL)
		if err != nil {
			return err
		}
		q := u.Query()
		if q.Get("code_challenge") == "" {
			t.Error("expected PKCE code_challenge in authorization URL")
		}
		state := q.Get("state")
		if tamperState {
			state = "forged"
		}
		callback := q.Get("redirect_uri") + "?" + url.Values{"code": {code}, "state": {state}}.Encode()
		go func() {
			resp, err := http.Get(callback)
			if err == nil {
				resp.Body.Close()
			}
		}()
		return nil
	}
}

func TestLogin(t *testing.T) {
	srv := tokenServer(t, "access-1")
	defer srv.Close()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	cfg := testConfig(srv.URL)
	tok, err := loginWithListener(context.Background(), cfg, listener, visit(t, "code-1", false))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.AccessToken != "access-1" || tok.RefreshToken != "refresh-1" {
		t.Errorf("unexpected token %+v", tok)
	}

	StoreToken(cfg, tok)
	if cfg.Auth.AccessToken != "access-1" || cfg.Auth.Expiry.IsZero() {
		t.Errorf("token not stored in config: %+v", cfg.Auth)
	}
}

func TestLogin_StateMismatch(t *testing.T) {
	srv := tokenServer(t, "access-1")
	defer srv.Close()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	_, err = loginWithListener(context.Background(), testConfig(srv.URL), listener, visit(t, "code-1", true))
	if err == nil {
		t.Fatal("expected state mismatch error")
	}
}

func TestLogin_Cancelled(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = loginWithListener(ctx, testConfig("http://127.0.0.1:1/token"), listener, func(string) error { return nil })
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestLogin_NoClient(t *testing.T) {
	_, err := Login(context.Background(), config.DefaultConfig(), nil)
	if !errors.Is(err, ErrNoOAuthClient) {
		t.Errorf("expected ErrNoOAuthClient, got %v", err)
	}
}

func TestAccessToken(t *testing.T) {
	srv := tokenServer(t, "access-2")
	defer srv.Close()

	t.Run("no token", func(t *testing.T) {
		_, _, err := AccessToken(context.Background(), config.DefaultConfig())
		if !errors.Is(err, config.ErrNoAuth) {
			t.Errorf("expected ErrNoAuth, got %v", err)
		}
	})

	t.Run("valid token is returned as is", func(t *testing.T) {
		cfg := testConfig(srv.URL)
		cfg.Auth.AccessToken = "still-good"
		cfg.Auth.Expiry = time.Now().Add(time.Hour)

		token, changed, err := AccessToken(context.Background(), cfg)
		if err != nil || token != "still-good" || changed {
			t.Errorf("AccessToken = %q, %v, %v", token, changed, err)
		}
	})

	t.Run("expired token is refreshed", func(t *testing.T) {
		cfg := testConfig(srv.URL)
		cfg.Auth.AccessToken = "stale"
		cfg.Auth.RefreshToken = "refresh-0"
		cfg.Auth.Expiry = time.Now().Add(-time.Hour)

		token, changed, err := AccessToken(context.Background(), cfg)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if token != "access-2" || !changed {
			t.Errorf("AccessToken = %q, changed=%v", token, changed)
		}
		if cfg.Auth.AccessToken != "access-2" || cfg.Auth.RefreshToken != "refresh-1" {
			t.Errorf("config not updated: %+v", cfg.Auth)
		}
	})
}

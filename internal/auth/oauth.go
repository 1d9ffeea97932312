// Package auth signs users in through an OAuth2 identity provider and tracks
// their sessions.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"

	"github.com/julianstephens/habitlog/internal/config"
)

// Identity is what the provider tells us about the signed-in user.
type Identity struct {
	Subject string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
}

// Exchanger is the provider side of the authorization-code flow.
type Exchanger interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (Identity, error)
}

// OAuth implements Exchanger against a standard OAuth2/OIDC provider.
type OAuth struct {
	cfg         *oauth2.Config
	userInfoURL string
}

func NewOAuth(c config.AuthConfig) *OAuth {
	endpoint := endpoints.Google
	if c.AuthURL != "" {
		endpoint = oauth2.Endpoint{AuthURL: c.AuthURL, TokenURL: c.TokenURL}
	}
	return &OAuth{
		cfg: &oauth2.Config{
			ClientID:     c.ClientID,
			ClientSecret: c.ClientSecret,
			RedirectURL:  c.RedirectURL,
			Scopes:       c.Scopes,
			Endpoint:     endpoint,
		},
		userInfoURL: c.UserInfoURL,
	}
}

func (o *OAuth) AuthCodeURL(state string) string {
	return o.cfg.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades the authorization code for a token and fetches the user's
// profile with it.
func (o *OAuth) Exchange(ctx context.Context, code string) (Identity, error) {
	token, err := o.cfg.Exchange(ctx, code)
	if err != nil {
		return Identity{}, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.userInfoURL, nil)
	if err != nil {
		return Identity{}, err
	}
	resp, err := o.cfg.Client(ctx, token).Do(req)
	if err != nil {
		return Identity{}, fmt.Errorf("failed to fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Identity{}, fmt.Errorf("user info request failed: %s: %s", resp.Status, body)
	}

	var id Identity
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&id); err != nil {
		return Identity{}, fmt.Errorf("failed to decode user info: %w", err)
	}
	if id.Subject == "" {
		return Identity{}, fmt.Errorf("user info response has no subject")
	}
	return id, nil
}

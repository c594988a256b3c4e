package auth

import (
	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

var googleEndpoint = oauth2.Endpoint{
	AuthURL:  "https://accounts.google.com/o/oauth2/auth",
	TokenURL: "https://oauth2.googleapis.com/token",
}

// GoogleOAuth builds the consent redirect. Code exchange happens at the external auth provider.
type GoogleOAuth struct {
	config *oauth2.Config
}

// NewGoogleOAuth returns nil when no client id is configured.
func NewGoogleOAuth(clientID, clientSecret, redirectURL string) *GoogleOAuth {
	if clientID == "" {
		return nil
	}
	return &GoogleOAuth{config: &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint:     googleEndpoint,
	}}
}

// AuthURL returns the consent URL and the state the caller must remember.
func (g *GoogleOAuth) AuthURL() (url, state string, err error) {
	if g == nil {
		return "", "", ErrOAuthDisabled
	}
	state = uuid.NewString()
	return g.config.AuthCodeURL(state, oauth2.AccessTypeOnline), state, nil
}

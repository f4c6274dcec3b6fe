package discord

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/forgo/guildpanel/internal/metrics"
	"golang.org/x/oauth2"
)

// Scopes requested during authorization
var Scopes = []string{"identify", "guilds"}

// OAuth performs the authorization-code flow against Discord
type OAuth struct {
	config     *oauth2.Config
	httpClient *http.Client
	timeout    time.Duration
	metrics    metrics.Recorder
}

// NewOAuth creates a new OAuth helper. Client credentials are sent in the
// form body, as Discord expects.
func NewOAuth(cfg Config, httpClient *http.Client, rec metrics.Recorder) *OAuth {
	if rec == nil {
		rec = metrics.Nop{}
	}
	apiURL := strings.TrimRight(cfg.APIURL, "/")
	return &OAuth{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Scopes:       Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   apiURL + "/oauth2/authorize",
				TokenURL:  apiURL + "/oauth2/token",
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		httpClient: httpClient,
		timeout:    cfg.timeout(),
		metrics:    rec,
	}
}

// AuthCodeURL returns the authorize URL carrying state
func (o *OAuth) AuthCodeURL(state string) string {
	return o.config.AuthCodeURL(state)
}

// Exchange trades an authorization code for an access token. It makes one
// form-encoded POST to the token endpoint and never returns an empty token.
func (o *OAuth) Exchange(ctx context.Context, code string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()
	ctx = context.WithValue(ctx, oauth2.HTTPClient, o.httpClient)

	start := time.Now()
	tok, err := o.config.Exchange(ctx, code)
	if err != nil {
		outcome, wrapped := classify(endpointToken, err)
		o.metrics.RecordUpstreamCall(endpointToken, outcome, time.Since(start))
		return "", wrapped
	}
	o.metrics.RecordUpstreamCall(endpointToken, metrics.OutcomeOK, time.Since(start))

	if tok.AccessToken == "" {
		return "", fmt.Errorf("%w: %s: response carried no access_token", ErrUpstream, endpointToken)
	}
	return tok.AccessToken, nil
}

package discord

import (
	"context"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/forgo/guildpanel/internal/testing/discordtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOAuth(t *testing.T, srv *discordtest.Server, timeout time.Duration) *OAuth {
	t.Helper()
	cfg := Config{
		ClientID:     discordtest.ClientID,
		ClientSecret: discordtest.ClientSecret,
		RedirectURI:  discordtest.RedirectURI,
		APIURL:       srv.APIURL(),
		Timeout:      timeout,
	}
	return NewOAuth(cfg, NewHTTPClient(cfg.APIURL, timeout, nil), nil)
}

func TestOAuth_Exchange(t *testing.T) {
	t.Parallel()

	srv := discordtest.New(t)
	srv.AddCode("good-code", "access-123")

	token, err := newTestOAuth(t, srv, time.Second).Exchange(context.Background(), "good-code")
	require.NoError(t, err)
	assert.Equal(t, "access-123", token)
	assert.Equal(t, 1, srv.Hits("/oauth2/token"))
}

func TestOAuth_Exchange_RejectedCode(t *testing.T) {
	t.Parallel()

	srv := discordtest.New(t)

	token, err := newTestOAuth(t, srv, time.Second).Exchange(context.Background(), "bad-code")
	assert.ErrorIs(t, err, ErrUpstream)
	assert.Empty(t, token)
}

func TestOAuth_Exchange_MissingAccessToken(t *testing.T) {
	t.Parallel()

	srv := discordtest.New(t)
	srv.AddCode("good-code", "access-123")
	srv.OmitAccessToken()

	token, err := newTestOAuth(t, srv, time.Second).Exchange(context.Background(), "good-code")
	assert.ErrorIs(t, err, ErrUpstream)
	assert.Empty(t, token)
}

func TestOAuth_Exchange_ServerError(t *testing.T) {
	t.Parallel()

	srv := discordtest.New(t)
	srv.Fail("/oauth2/token", http.StatusBadGateway)

	_, err := newTestOAuth(t, srv, time.Second).Exchange(context.Background(), "any")
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestOAuth_Exchange_Timeout(t *testing.T) {
	t.Parallel()

	srv := discordtest.New(t)
	srv.AddCode("slow", "access")
	srv.Delay("/oauth2/token", 2*time.Second)

	_, err := newTestOAuth(t, srv, 50*time.Millisecond).Exchange(context.Background(), "slow")
	assert.ErrorIs(t, err, ErrUpstreamTimeout)
}

func TestOAuth_AuthCodeURL(t *testing.T) {
	t.Parallel()

	srv := discordtest.New(t)

	raw := newTestOAuth(t, srv, time.Second).AuthCodeURL("state-1")
	u, err := url.Parse(raw)
	require.NoError(t, err)

	q := u.Query()
	assert.Equal(t, discordtest.APIPrefix+"/oauth2/authorize", u.Path)
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, discordtest.ClientID, q.Get("client_id"))
	assert.Equal(t, discordtest.RedirectURI, q.Get("redirect_uri"))
	assert.Equal(t, "identify guilds", q.Get("scope"))
	assert.Equal(t, "state-1", q.Get("state"))
}

func TestOAuth_ZeroTimeoutUsesDefault(t *testing.T) {
	t.Parallel()

	srv := discordtest.New(t)
	srv.AddCode("good-code", "access-123")

	o := newTestOAuth(t, srv, 0)
	assert.Equal(t, DefaultTimeout, o.timeout)

	token, err := o.Exchange(context.Background(), "good-code")
	require.NoError(t, err)
	assert.Equal(t, "access-123", token)
}

package discord

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPClient_RewritesDiscordgoBase(t *testing.T) {
	t.Parallel()

	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path + "?" + r.URL.RawQuery
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL+"/api/v10/", time.Second, nil)

	resp, err := client.Get(discordgo.EndpointAPI + "users/@me/guilds?limit=200")
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "/api/v10/users/@me/guilds?limit=200", gotPath)
}

func TestNewHTTPClient_LeavesOtherHostsAlone(t *testing.T) {
	t.Parallel()

	hit := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hit = true
		assert.Equal(t, "/plain", r.URL.Path)
	}))
	defer srv.Close()

	client := NewHTTPClient("https://discord.example/api/v10", time.Second, nil)

	resp, err := client.Get(srv.URL + "/plain")
	require.NoError(t, err)
	resp.Body.Close()
	assert.True(t, hit)
}

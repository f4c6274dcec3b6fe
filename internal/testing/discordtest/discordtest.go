// Package discordtest provides an in-process fake of the Discord REST API
// for tests.
//
// The fake serves the OAuth2 token endpoint, the current user, guild lists
// for user (Bearer) and bot (Bot) tokens, and guild metadata, roles and
// channels. Point a client at it with:
//
//	srv := discordtest.New(t)
//	httpClient := discord.NewHTTPClient(srv.APIURL(), time.Second, nil)
package discordtest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

// Credentials the fake accepts for the OAuth application and bot
const (
	ClientID     = "test-client"
	ClientSecret = "test-secret"
	RedirectURI  = "http://localhost:3000/callback"
	BotToken     = "test-bot-token"
)

// APIPrefix is the path every fake endpoint is mounted under
const APIPrefix = "/api/v10"

// User is a Discord user object
type User struct {
	ID            string  `json:"id"`
	Username      string  `json:"username"`
	Discriminator string  `json:"discriminator"`
	GlobalName    string  `json:"global_name,omitempty"`
	Avatar        *string `json:"avatar"`
}

// PartialGuild is an entry of /users/@me/guilds
type PartialGuild struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Icon        string   `json:"icon,omitempty"`
	Owner       bool     `json:"owner"`
	Permissions string   `json:"permissions"`
	Features    []string `json:"features"`
}

// Guild is a full guild object
type Guild struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Icon     string   `json:"icon,omitempty"`
	OwnerID  string   `json:"owner_id"`
	Features []string `json:"features"`
}

// Role is a guild role object
type Role struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Color       int    `json:"color"`
	Position    int    `json:"position"`
	Permissions string `json:"permissions"`
	Managed     bool   `json:"managed"`
	Mentionable bool   `json:"mentionable"`
	Hoist       bool   `json:"hoist"`
}

// Channel is a guild channel object
type Channel struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     int    `json:"type"`
	Position int    `json:"position"`
	ParentID string `json:"parent_id,omitempty"`
}

// Server is a fake Discord API. Configure it through the Add*/Set* methods;
// all state is guarded by a mutex so handlers may run concurrently.
type Server struct {
	*httptest.Server

	mu         sync.Mutex
	codes      map[string]string
	users      map[string]User
	userGuilds map[string][]PartialGuild
	botGuilds  []PartialGuild
	guilds     map[string]Guild
	roles      map[string][]Role
	channels   map[string][]Channel
	failures   map[string]int
	delays     map[string]time.Duration
	hits       map[string]int
	omitToken  bool
}

// New starts a fake Discord API that is closed when the test ends.
func New(t *testing.T) *Server {
	t.Helper()

	s := &Server{
		codes:      make(map[string]string),
		users:      make(map[string]User),
		userGuilds: make(map[string][]PartialGuild),
		guilds:     make(map[string]Guild),
		roles:      make(map[string][]Role),
		channels:   make(map[string][]Channel),
		failures:   make(map[string]int),
		delays:     make(map[string]time.Duration),
		hits:       make(map[string]int),
	}

	r := chi.NewRouter()
	r.Route(APIPrefix, func(r chi.Router) {
		r.Post("/oauth2/token", s.handleToken)
		r.Get("/users/@me", s.handleCurrentUser)
		r.Get("/users/@me/guilds", s.handleGuilds)
		r.Get("/guilds/{id}", s.handleGuild)
		r.Get("/guilds/{id}/roles", s.handleRoles)
		r.Get("/guilds/{id}/channels", s.handleChannels)
	})

	s.Server = httptest.NewServer(s.instrument(r))
	t.Cleanup(s.Close)
	return s
}

// APIURL is the base URL to configure as DISCORD_API_URL
func (s *Server) APIURL() string {
	return s.URL + APIPrefix
}

// AddCode registers an authorization code that exchanges for token
func (s *Server) AddCode(code, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[code] = token
}

// AddUser registers the user behind a bearer token and their guild list
func (s *Server) AddUser(token string, u User, guilds ...PartialGuild) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[token] = u
	s.userGuilds[token] = withPermissions(guilds)
}

// SetBotGuilds sets the guilds the bot is installed in
func (s *Server) SetBotGuilds(guilds ...PartialGuild) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.botGuilds = withPermissions(guilds)
}

// AddGuild registers full guild data visible to the bot
func (s *Server) AddGuild(g Guild, roles []Role, channels []Channel) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.guilds[g.ID] = g
	s.roles[g.ID] = withRolePermissions(roles)
	s.channels[g.ID] = channels
}

// Discord always sends permissions; an unset fixture field is sent as "0".
func withPermissions(guilds []PartialGuild) []PartialGuild {
	out := make([]PartialGuild, len(guilds))
	for i, g := range guilds {
		if g.Permissions == "" {
			g.Permissions = "0"
		}
		out[i] = g
	}
	return out
}

func withRolePermissions(roles []Role) []Role {
	out := make([]Role, len(roles))
	for i, r := range roles {
		if r.Permissions == "" {
			r.Permissions = "0"
		}
		out[i] = r
	}
	return out
}

// Fail makes every request to path (relative to APIPrefix) answer status
func (s *Server) Fail(path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[path] = status
}

// Delay holds requests to path for d or until the client gives up
func (s *Server) Delay(path string, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delays[path] = d
}

// OmitAccessToken makes the token endpoint answer 200 without an access_token
func (s *Server) OmitAccessToken() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.omitToken = true
}

// Hits returns how many requests reached path (relative to APIPrefix)
func (s *Server) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, APIPrefix)

		s.mu.Lock()
		s.hits[path]++
		status := s.failures[path]
		delay := s.delays[path]
		s.mu.Unlock()

		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-r.Context().Done():
				return
			}
		}
		if status != 0 {
			writeError(w, status)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_request"})
		return
	}
	if r.PostForm.Get("client_id") != ClientID || r.PostForm.Get("client_secret") != ClientSecret {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid_client"})
		return
	}
	if r.PostForm.Get("grant_type") != "authorization_code" || r.PostForm.Get("redirect_uri") != RedirectURI {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_request"})
		return
	}

	s.mu.Lock()
	token, ok := s.codes[r.PostForm.Get("code")]
	omit := s.omitToken
	s.mu.Unlock()

	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_grant"})
		return
	}
	if omit {
		writeJSON(w, http.StatusOK, map[string]interface{}{"token_type": "Bearer", "expires_in": 604800})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"access_token":  token,
		"token_type":    "Bearer",
		"expires_in":    604800,
		"refresh_token": "refresh-" + token,
		"scope":         "identify guilds",
	})
}

func (s *Server) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	token, ok := bearer(r)
	s.mu.Lock()
	u, found := s.users[token]
	s.mu.Unlock()

	if !ok || !found {
		writeError(w, http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleGuilds(w http.ResponseWriter, r *http.Request) {
	var list []PartialGuild

	s.mu.Lock()
	if isBot(r) {
		list = s.botGuilds
	} else if token, ok := bearer(r); ok {
		if _, found := s.users[token]; found {
			list = s.userGuilds[token]
		} else {
			s.mu.Unlock()
			writeError(w, http.StatusUnauthorized)
			return
		}
	} else {
		s.mu.Unlock()
		writeError(w, http.StatusUnauthorized)
		return
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, paginate(list, r.URL.Query().Get("after"), r.URL.Query().Get("limit")))
}

func (s *Server) handleGuild(w http.ResponseWriter, r *http.Request) {
	if !isBot(r) {
		writeError(w, http.StatusUnauthorized)
		return
	}
	s.mu.Lock()
	g, ok := s.guilds[chi.URLParam(r, "id")]
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (s *Server) handleRoles(w http.ResponseWriter, r *http.Request) {
	if !isBot(r) {
		writeError(w, http.StatusUnauthorized)
		return
	}
	s.mu.Lock()
	roles, ok := s.roles[chi.URLParam(r, "id")]
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound)
		return
	}
	if roles == nil {
		roles = []Role{}
	}
	writeJSON(w, http.StatusOK, roles)
}

func (s *Server) handleChannels(w http.ResponseWriter, r *http.Request) {
	if !isBot(r) {
		writeError(w, http.StatusUnauthorized)
		return
	}
	s.mu.Lock()
	channels, ok := s.channels[chi.URLParam(r, "id")]
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound)
		return
	}
	if channels == nil {
		channels = []Channel{}
	}
	writeJSON(w, http.StatusOK, channels)
}

// paginate mimics Discord's after/limit cursor over a list ordered by id
func paginate(list []PartialGuild, after, limitParam string) []PartialGuild {
	start := 0
	if after != "" {
		for i, g := range list {
			if g.ID == after {
				start = i + 1
				break
			}
		}
	}

	limit := 200
	if n, err := strconv.Atoi(limitParam); err == nil && n > 0 {
		limit = n
	}

	end := start + limit
	if end > len(list) {
		end = len(list)
	}
	if start >= end {
		return []PartialGuild{}
	}
	return list[start:end]
}

func bearer(r *http.Request) (string, bool) {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	return token, ok && token != ""
}

func isBot(r *http.Request) bool {
	return r.Header.Get("Authorization") == "Bot "+BotToken
}

func writeError(w http.ResponseWriter, status int) {
	writeJSON(w, status, map[string]interface{}{
		"message": strconv.Itoa(status) + ": " + http.StatusText(status),
		"code":    0,
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

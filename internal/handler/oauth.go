package handler

import (
	"net/http"

	"github.com/forgo/guildpanel/internal/model"
	"github.com/forgo/guildpanel/internal/service"
	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
)

const (
	oauthSessionName = "guildpanel_oauth"
	oauthStateKey    = "state"
	oauthStateMaxAge = 10 * 60
)

// OAuthHandler handles the Discord login redirect and callback
type OAuthHandler struct {
	oauthService *service.OAuthService
	store        sessions.Store
}

// NewOAuthHandler creates a new OAuth handler
func NewOAuthHandler(oauthService *service.OAuthService, store sessions.Store) *OAuthHandler {
	return &OAuthHandler{
		oauthService: oauthService,
		store:        store,
	}
}

// NewSessionStore returns the signed cookie store holding OAuth state. An
// empty secret gets a random per-process key, which invalidates pending
// logins on restart.
func NewSessionStore(secret string, secure bool) *sessions.CookieStore {
	key := []byte(secret)
	if len(key) == 0 {
		key = securecookie.GenerateRandomKey(32)
	}

	store := sessions.NewCookieStore(key)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   oauthStateMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// CallbackResponse is returned once the code has been exchanged
type CallbackResponse struct {
	AccessToken string `json:"accessToken"`
}

// Login handles GET /login
func (h *OAuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()

	// A cookie that fails to decode yields a fresh session; overwrite it
	sess, _ := h.store.Get(r, oauthSessionName)
	sess.Values[oauthStateKey] = state
	if err := sess.Save(r, w); err != nil {
		writeServiceError(w, r, err)
		return
	}

	http.Redirect(w, r, h.oauthService.AuthorizeURL(state), http.StatusFound)
}

// Callback handles GET /callback?code=&state=
func (h *OAuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	sess, _ := h.store.Get(r, oauthSessionName)
	if want, ok := sess.Values[oauthStateKey].(string); ok && want != "" {
		if q.Get("state") != want {
			WriteError(w, MapServiceError(service.ErrStateMismatch))
			return
		}
		// State is single use
		delete(sess.Values, oauthStateKey)
		sess.Options = &sessions.Options{Path: "/", MaxAge: -1, HttpOnly: true}
		_ = sess.Save(r, w)
	}

	token, err := h.oauthService.Exchange(r.Context(), q.Get("code"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, CallbackResponse{AccessToken: token})
}

// methodNotAllowed answers routes registered under another method
func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	WriteError(w, model.NewMethodNotAllowedError())
}

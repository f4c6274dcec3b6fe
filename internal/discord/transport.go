package discord

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
)

// NewHTTPClient returns the shared client used by every discordgo session and
// the OAuth2 exchange. discordgo builds URLs from its compiled-in API base;
// requests under that base are redirected to apiURL so the API version and
// host stay configurable.
func NewHTTPClient(apiURL string, timeout time.Duration, base http.RoundTripper) *http.Client {
	if base == nil {
		base = http.DefaultTransport
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &rewriteTransport{
			from: discordgo.EndpointAPI,
			to:   strings.TrimRight(apiURL, "/") + "/",
			base: base,
		},
	}
}

type rewriteTransport struct {
	from string
	to   string
	base http.RoundTripper
}

func (t *rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	raw := req.URL.String()
	if t.from == t.to || !strings.HasPrefix(raw, t.from) {
		return t.base.RoundTrip(req)
	}

	target, err := url.Parse(t.to + strings.TrimPrefix(raw, t.from))
	if err != nil {
		return nil, err
	}

	out := req.Clone(req.Context())
	out.URL = target
	out.Host = target.Host
	return t.base.RoundTrip(out)
}

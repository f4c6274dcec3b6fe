package discord

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/bwmarrin/discordgo"
	"github.com/forgo/guildpanel/internal/metrics"
	"golang.org/x/oauth2"
)

// Upstream errors. Callers match with errors.Is.
var (
	// ErrUpstream indicates Discord answered with a failure or an unusable body.
	ErrUpstream = errors.New("discord upstream error")

	// ErrUpstreamTimeout indicates a Discord call exceeded its deadline.
	ErrUpstreamTimeout = errors.New("discord upstream timeout")
)

// classify wraps a transport or API error from discordgo or x/oauth2 in one
// of the package sentinels and returns the metrics outcome for it. The
// original error stays in the chain.
func classify(endpoint string, err error) (string, error) {
	if isTimeout(err) {
		return metrics.OutcomeTimeout, fmt.Errorf("%w: %s: %w", ErrUpstreamTimeout, endpoint, err)
	}
	if status := statusCode(err); status != 0 {
		return metrics.OutcomeError, fmt.Errorf("%w: %s returned status %d: %w", ErrUpstream, endpoint, status, err)
	}
	return metrics.OutcomeError, fmt.Errorf("%w: %s: %w", ErrUpstream, endpoint, err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// statusCode extracts the upstream HTTP status from an error, or 0
func statusCode(err error) int {
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Response != nil {
		return restErr.Response.StatusCode
	}
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
		return retrieveErr.Response.StatusCode
	}
	return 0
}

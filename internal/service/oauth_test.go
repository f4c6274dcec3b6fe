package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOAuthService_Exchange(t *testing.T) {
	t.Parallel()

	ex := &mockExchanger{exchangeFn: func(_ context.Context, code string) (string, error) {
		assert.Equal(t, "abc", code)
		return "access-1", nil
	}}

	token, err := NewOAuthService(ex).Exchange(context.Background(), " abc ")
	require.NoError(t, err)
	assert.Equal(t, "access-1", token)
}

func TestOAuthService_Exchange_EmptyCode(t *testing.T) {
	t.Parallel()

	called := false
	ex := &mockExchanger{exchangeFn: func(context.Context, string) (string, error) {
		called = true
		return "x", nil
	}}

	_, err := NewOAuthService(ex).Exchange(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrAuthCodeRequired)
	assert.False(t, called, "no upstream call for an empty code")
}

func TestOAuthService_Exchange_UpstreamFailure(t *testing.T) {
	t.Parallel()

	ex := &mockExchanger{exchangeFn: func(context.Context, string) (string, error) {
		return "", errUpstreamDown
	}}

	token, err := NewOAuthService(ex).Exchange(context.Background(), "abc")
	assert.ErrorIs(t, err, ErrUpstream)
	assert.Empty(t, token)
}

func TestOAuthService_Exchange_EmptyTokenIsUpstreamError(t *testing.T) {
	t.Parallel()

	ex := &mockExchanger{exchangeFn: func(context.Context, string) (string, error) {
		return "", nil
	}}

	_, err := NewOAuthService(ex).Exchange(context.Background(), "abc")
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestOAuthService_AuthorizeURL(t *testing.T) {
	t.Parallel()

	ex := &mockExchanger{}
	url := NewOAuthService(ex).AuthorizeURL("s1")

	assert.Equal(t, "s1", ex.lastState)
	assert.Contains(t, url, "state=s1")
}

package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenFingerprint(t *testing.T) {
	t.Parallel()

	fp := TokenFingerprint("secret-access-token")
	assert.Len(t, fp, 16)
	assert.Equal(t, fp, TokenFingerprint("secret-access-token"))
	assert.NotEqual(t, fp, TokenFingerprint("other-token"))
	assert.NotContains(t, fp, "secret")
	assert.Empty(t, TokenFingerprint(""))
}

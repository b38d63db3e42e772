package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelayToken_RoundTrip(t *testing.T) {
	token, err := NewRelayToken("secret", time.Minute)
	require.NoError(t, err)

	claims, err := Parse(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "web", claims.Service)
	assert.Equal(t, RelayScope, claims.Scope)
}

func TestParse_Rejects(t *testing.T) {
	token, err := NewRelayToken("secret", time.Minute)
	require.NoError(t, err)

	_, err = Parse(token, "other")
	assert.Error(t, err)

	expired, err := NewRelayToken("secret", -time.Minute)
	require.NoError(t, err)
	_, err = Parse(expired, "secret")
	assert.Error(t, err)

	_, err = Parse("not-a-token", "secret")
	assert.Error(t, err)
}

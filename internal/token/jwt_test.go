package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParse(t *testing.T) {
	m := NewManager("secret", time.Hour)

	signed, err := m.Generate("651a8b2f9d3e4c0012345678", "admin")
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	claims, err := m.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, "651a8b2f9d3e4c0012345678", claims.UserID)
	assert.Equal(t, "admin", claims.Role)
}

func TestParseExpiredToken(t *testing.T) {
	m := NewManager("secret", -time.Minute)

	signed, err := m.Generate("651a8b2f9d3e4c0012345678", "admin")
	require.NoError(t, err)

	_, err = m.Parse(signed)
	assert.Error(t, err)
}

func TestParseWrongSecret(t *testing.T) {
	signed, err := NewManager("secret", time.Hour).Generate("651a8b2f9d3e4c0012345678", "admin")
	require.NoError(t, err)

	_, err = NewManager("other", time.Hour).Parse(signed)
	assert.Error(t, err)
}

func TestParseGarbage(t *testing.T) {
	m := NewManager("secret", time.Hour)

	for _, raw := range []string{"", "not-a-token", "a.b.c"} {
		_, err := m.Parse(raw)
		assert.Error(t, err, raw)
	}
}

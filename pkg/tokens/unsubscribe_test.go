package tokens

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnsubscribeRoundTrip(t *testing.T) {
	signer := NewUnsubscribeSigner("secret", time.Hour)

	token, err := signer.Generate(42, ScopeMarketing)
	require.NoError(t, err)

	id, err := signer.Verify(token, ScopeMarketing)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestUnsubscribeExpired(t *testing.T) {
	signer := NewUnsubscribeSigner("secret", -time.Minute)

	token, err := signer.Generate(42, ScopeMarketing)
	require.NoError(t, err)

	_, err = signer.Verify(token, ScopeMarketing)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestUnsubscribeTampered(t *testing.T) {
	signer := NewUnsubscribeSigner("secret", time.Hour)

	token, err := signer.Generate(42, ScopeMarketing)
	require.NoError(t, err)

	// Flip the person id, keep the original signature.
	parts := strings.Split(token, ".")
	parts[0] = "43"
	_, err = signer.Verify(strings.Join(parts, "."), ScopeMarketing)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestUnsubscribeWrongScope(t *testing.T) {
	signer := NewUnsubscribeSigner("secret", time.Hour)

	token, err := signer.Generate(42, "other")
	require.NoError(t, err)

	_, err = signer.Verify(token, ScopeMarketing)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestUnsubscribeWrongSecret(t *testing.T) {
	signer := NewUnsubscribeSigner("secret", time.Hour)
	other := NewUnsubscribeSigner("another", time.Hour)

	token, err := signer.Generate(42, ScopeMarketing)
	require.NoError(t, err)

	_, err = other.Verify(token, ScopeMarketing)
	assert.ErrorIs(t, err, ErrInvalid)
}

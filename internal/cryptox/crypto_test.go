package cryptox

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(t *testing.T) []byte {
	t.Helper()
	salt, err := NewSalt()
	require.NoError(t, err)
	return DeriveKey([]byte("correct horse battery staple"), salt)
}

func TestSealOpen_RoundTrip(t *testing.T) {
	c, err := NewCipher(testKey(t))
	require.NoError(t, err)

	plaintext := []byte("dear diary")
	blob, err := c.Seal(plaintext)
	require.NoError(t, err)
	require.NotEqual(t, plaintext, blob)

	got, err := c.Open(blob)
	require.NoError(t, err)
	assert.Equal(t, plaintext, got)
}

func TestSeal_FreshNoncePerCall(t *testing.T) {
	c, err := NewCipher(testKey(t))
	require.NoError(t, err)

	a, err := c.Seal([]byte("x"))
	require.NoError(t, err)
	b, err := c.Seal([]byte("x"))
	require.NoError(t, err)
	assert.False(t, bytes.Equal(a, b), "same plaintext must not seal to the same blob")
}

func TestOpen_WrongKey(t *testing.T) {
	c1, err := NewCipher(testKey(t))
	require.NoError(t, err)
	c2, err := NewCipher(testKey(t))
	require.NoError(t, err)

	blob, err := c1.Seal([]byte("secret"))
	require.NoError(t, err)

	_, err = c2.Open(blob)
	require.ErrorIs(t, err, ErrWrongKey)

	_, err = c1.Open([]byte{0x01})
	require.ErrorIs(t, err, ErrWrongKey)
}

func TestNewCipher_BadKeyLength(t *testing.T) {
	_, err := NewCipher([]byte("short"))
	require.Error(t, err)
}

func TestDeriveKey_Deterministic(t *testing.T) {
	salt := []byte("0123456789abcdef")
	k1 := DeriveKey([]byte("pass"), salt)
	k2 := DeriveKey([]byte("pass"), salt)
	assert.Equal(t, k1, k2)
	assert.Len(t, k1, 32)

	k3 := DeriveKey([]byte("other"), salt)
	assert.NotEqual(t, k1, k3)
}

func TestMakeVerifier(t *testing.T) {
	salt := []byte("0123456789abcdef")
	key := DeriveKey([]byte("pass"), salt)
	assert.Equal(t, MakeVerifier(key), MakeVerifier(key))
	assert.Len(t, MakeVerifier(key), 32)
}

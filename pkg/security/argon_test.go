package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndVerify(t *testing.T) {
	a := New()

	encoded, err := a.GenerateFromPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(encoded, "$argon2id$v=19$"))

	ok, err := a.VerifyPasswd("correct horse battery staple", encoded)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = a.VerifyPasswd("wrong password", encoded)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGenerateUsesRandomSalt(t *testing.T) {
	a := New()

	first, err := a.GenerateFromPassword("hunter22")
	require.NoError(t, err)

	second, err := a.GenerateFromPassword("hunter22")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestVerifyRejectsMalformedHash(t *testing.T) {
	a := New()

	_, err := a.VerifyPasswd("whatever", "not-a-phc-string")
	assert.Error(t, err)

	_, err = a.VerifyPasswd("whatever", "$argon2id$v=19$m=65536,t=3,p=2$!!!$!!!")
	assert.Error(t, err)
}

func TestNewVerificationToken(t *testing.T) {
	first, err := NewVerificationToken()
	require.NoError(t, err)
	// 32 random bytes, hex encoded
	assert.Len(t, first, 64)

	second, err := NewVerificationToken()
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

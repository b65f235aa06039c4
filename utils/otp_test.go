package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOTP(t *testing.T) {
	code, err := GenerateOTP(6)
	require.NoError(t, err)
	require.Len(t, code, 6)
	for _, ch := range code {
		assert.True(t, ch >= '0' && ch <= '9', "code %q contains non-digit %q", code, ch)
	}
}

func TestHashAndCompareOTP(t *testing.T) {
	hash, err := HashOTP("123456")
	require.NoError(t, err)
	require.NotEqual(t, "123456", hash)

	assert.True(t, CompareOTP(hash, "123456"))
	assert.False(t, CompareOTP(hash, "123457"))
	assert.False(t, CompareOTP(hash, ""))
}

package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntegrationTestConfigured(t *testing.T) {
	t.Setenv("AUTOINVEST_API_KEY", "abcdefgh")
	t.Setenv("AUTOINVEST_API_SECRET", "12345678")
	t.Setenv("TEST_AUTOINVEST", "0")

	_, _, ok := IntegrationTestConfigured(t, "AUTOINVEST")
	assert.False(t, ok)

	t.Setenv("TEST_AUTOINVEST", "1")
	key, secret, ok := IntegrationTestConfigured(t, "AUTOINVEST")
	assert.True(t, ok)
	assert.Equal(t, "abcdefgh", key)
	assert.Equal(t, "12345678", secret)
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "abcd******", maskSecret("abcdefgh"))
}

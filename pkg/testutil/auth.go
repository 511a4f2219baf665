package testutil

import (
	"os"
	"regexp"
	"testing"
)

var secretPattern = regexp.MustCompile(`\b(\w{4})\w+\b`)

func maskSecret(s string) string {
	return secretPattern.ReplaceAllString(s, "$1******")
}

// IntegrationTestConfigured returns the api credentials of the exchange prefix,
// ok is true only when both {prefix}_API_KEY and {prefix}_API_SECRET are set and TEST_{prefix}=1.
func IntegrationTestConfigured(t *testing.T, prefix string) (key, secret string, ok bool) {
	var hasKey, hasSecret bool
	key, hasKey = os.LookupEnv(prefix + "_API_KEY")
	secret, hasSecret = os.LookupEnv(prefix + "_API_SECRET")
	ok = hasKey && hasSecret && os.Getenv("TEST_"+prefix) == "1"
	if ok {
		t.Logf("%s api integration test enabled, key = %s, secret = %s", prefix, maskSecret(key), maskSecret(secret))
	}

	return key, secret, ok
}

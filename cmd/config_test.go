package cmd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{EnvData, EnvStore, EnvAccount, EnvEmail, EnvLogLevel, EnvLogPretty, EnvAddr, EnvFinnhubKey, EnvFinnhubSuffix, EnvQuoteTTL} {
		t.Setenv(k, "")
	}
	c := LoadConfig()
	assert.Equal(t, StoreSQLite, c.Store)
	assert.Equal(t, "wallet.db", c.Data)
	assert.Equal(t, "default", c.Account)
	assert.Equal(t, ".CA", c.FinnhubSuffix)
	assert.Equal(t, time.Minute, c.QuoteTTL)
	assert.True(t, c.LogPretty)
	assert.Empty(t, c.FinnhubKey)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv(EnvStore, StoreDir)
	t.Setenv(EnvData, "")
	t.Setenv(EnvAccount, "sara")
	t.Setenv(EnvEmail, "sara@example.com")
	t.Setenv(EnvLogPretty, "false")
	t.Setenv(EnvQuoteTTL, "30s")
	t.Setenv(EnvFinnhubKey, "secret")
	t.Setenv(EnvFinnhubSuffix, "")

	c := LoadConfig()
	assert.Equal(t, StoreDir, c.Store)
	assert.Equal(t, ".wallet", c.Data)
	assert.Equal(t, "sara", c.Account)
	assert.Equal(t, "sara@example.com", c.Email)
	assert.False(t, c.LogPretty)
	assert.Equal(t, 30*time.Second, c.QuoteTTL)
	assert.Equal(t, "secret", c.FinnhubKey)
	assert.Equal(t, ".CA", c.FinnhubSuffix)
}

func TestGetEnvFallsBackOnGarbage(t *testing.T) {
	t.Setenv("WLT_TEST_BOOL", "maybe")
	t.Setenv("WLT_TEST_DURATION", "soon")
	assert.True(t, getEnvAsBool("WLT_TEST_BOOL", true))
	assert.Equal(t, time.Hour, getEnvAsDuration("WLT_TEST_DURATION", time.Hour))
}

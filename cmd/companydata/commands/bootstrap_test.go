package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/wonny/companydata/internal/contracts"
	"github.com/wonny/companydata/pkg/config"
	"github.com/wonny/companydata/pkg/redis"
)

func TestLimiterFactoryWithoutRedis(t *testing.T) {
	rc, err := redis.New(&config.Config{})
	require.NoError(t, err)

	limiterFor := newLimiterFactory(rc)

	assert.Nil(t, limiterFor("edgar", 0))
	assert.IsType(t, &rate.Limiter{}, limiterFor("edgar", 10))
}

func TestBootstrapFromEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("SEC_FORM_TYPE=10-K\n"), 0o600))
	t.Setenv("SEC_FORM_TYPE", "10-K")
	t.Setenv("ENV", "test")
	t.Setenv("REDIS_ENABLED", "false")

	envFile, verbose = path, true
	t.Cleanup(func() { envFile, verbose = "", false })

	a, err := bootstrap()
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, "debug", a.cfg.LogLevel)
	assert.Equal(t, "10-K", a.filings.FormType())
	assert.NotNil(t, a.service)
}

func TestBootstrapMissingEnvFile(t *testing.T) {
	envFile = filepath.Join(t.TempDir(), "absent.env")
	t.Cleanup(func() { envFile = "" })

	_, err := bootstrap()
	assert.Error(t, err)
}

func TestPrintJSONKeepsQuoteFields(t *testing.T) {
	record, err := contracts.ParseQuoteRecord([]byte(`{"Symbol":"IBM","PERatio":"22.1"}`))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, printJSON(&buf, record))

	assert.Equal(t, "{\n  \"Symbol\": \"IBM\",\n  \"PERatio\": \"22.1\"\n}\n", buf.String())
}

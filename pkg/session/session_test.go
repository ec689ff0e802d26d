package session

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCookies(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"wmt.c": "1", "session-id": "abc123"}`), 0o600))

	cookies, err := LoadCookies(path)
	require.NoError(t, err)
	require.Len(t, cookies, 2)

	byName := map[string]string{}
	for _, c := range cookies {
		byName[c.Name] = c.Value
	}
	assert.Equal(t, "1", byName["wmt.c"])
	assert.Equal(t, "abc123", byName["session-id"])
}

func TestLoadCookiesMissingFile(t *testing.T) {
	_, err := LoadCookies(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}

func TestLoadCookiesBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.json")
	require.NoError(t, os.WriteFile(path, []byte(`not json`), 0o600))
	_, err := LoadCookies(path)
	require.Error(t, err)
}

func TestRoundRobinProxyCycles(t *testing.T) {
	fn, err := RoundRobinProxy("http://proxy1:8080", "http://proxy2:8080")
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodGet, "http://example.com", nil)
	require.NoError(t, err)

	first, err := fn(req)
	require.NoError(t, err)
	second, err := fn(req)
	require.NoError(t, err)
	third, err := fn(req)
	require.NoError(t, err)

	assert.Equal(t, "http://proxy1:8080", first.String())
	assert.Equal(t, "http://proxy2:8080", second.String())
	assert.Equal(t, first.String(), third.String())
}

func TestRoundRobinProxyEmpty(t *testing.T) {
	_, err := RoundRobinProxy()
	require.Error(t, err)
}

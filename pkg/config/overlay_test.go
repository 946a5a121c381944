package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvKeyFolding(t *testing.T) {
	e := NewEnvFromEnviron("ARGBIND_", nil)

	tests := []struct {
		name string
		want string
	}{
		{"region", "ARGBIND_REGION"},
		{"dry-run", "ARGBIND_DRY_RUN"},
		{"endpoint.url", "ARGBIND_ENDPOINT_URL"},
		{"endpoint.tls.cert-file", "ARGBIND_ENDPOINT_TLS_CERT_FILE"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, e.Key(tt.name))
	}
}

func TestEnvLookup(t *testing.T) {
	e := NewEnvFromEnviron("ARGBIND_", []string{
		"ARGBIND_REGION=eu-west",
		"ARGBIND_ENDPOINT_URL=http://cfg",
		"HOME=/root",
		"MALFORMED",
	})

	raw, ok := e.Lookup("region")
	require.True(t, ok)
	assert.Equal(t, []string{"eu-west"}, raw)

	raw, ok = e.Lookup("endpoint.url")
	require.True(t, ok)
	assert.Equal(t, []string{"http://cfg"}, raw)

	_, ok = e.Lookup("home")
	assert.False(t, ok, "variables outside the prefix are invisible")

	_, ok = e.Lookup("absent")
	assert.False(t, ok)
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFileLookup(t *testing.T) {
	path := writeTemp(t, "config.yaml", `
region: eu-west
count: 3
tags:
  - a
  - b
endpoint:
  url: http://cfg
  port: 9000
`)

	f, err := NewFile(path)
	require.NoError(t, err)

	raw, ok := f.Lookup("region")
	require.True(t, ok)
	assert.Equal(t, []string{"eu-west"}, raw)

	raw, ok = f.Lookup("count")
	require.True(t, ok)
	assert.Equal(t, []string{"3"}, raw, "scalars render to one raw token")

	raw, ok = f.Lookup("tags")
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, raw, "lists render element-wise")

	raw, ok = f.Lookup("endpoint.url")
	require.True(t, ok)
	assert.Equal(t, []string{"http://cfg"}, raw, "nested documents address flattened names")

	raw, ok = f.Lookup("endpoint.port")
	require.True(t, ok)
	assert.Equal(t, []string{"9000"}, raw)

	_, ok = f.Lookup("absent")
	assert.False(t, ok)
}

func TestFileJSON(t *testing.T) {
	path := writeTemp(t, "config.json", `{"region": "ap-south", "ports": [80, 443]}`)

	f, err := NewFile(path)
	require.NoError(t, err)

	raw, ok := f.Lookup("region")
	require.True(t, ok)
	assert.Equal(t, []string{"ap-south"}, raw)

	raw, ok = f.Lookup("ports")
	require.True(t, ok)
	assert.Equal(t, []string{"80", "443"}, raw)
}

func TestFileMissing(t *testing.T) {
	_, err := NewFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLayeredPrecedence(t *testing.T) {
	high := NewEnvFromEnviron("A_", []string{"A_REGION=from-high"})
	low := NewEnvFromEnviron("B_", []string{"B_REGION=from-low", "B_EXTRA=only-low"})

	l := NewLayered(high, low)

	raw, ok := l.Lookup("region")
	require.True(t, ok)
	assert.Equal(t, []string{"from-high"}, raw, "the first source that knows a name wins")

	raw, ok = l.Lookup("extra")
	require.True(t, ok)
	assert.Equal(t, []string{"only-low"}, raw)

	_, ok = l.Lookup("absent")
	assert.False(t, ok)
}

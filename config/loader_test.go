package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "oltbot.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, `
olt:
  address: http://192.168.1.100
  family: gpon
  username: admin
  password: secret
bot:
  token: "123:abc"
`)

	sc := New(path)
	require.NoError(t, sc.LoadConfig())

	c := sc.Get()
	assert.Equal(t, ":9776", c.Listen)
	assert.Equal(t, "/metrics", c.MetricsPath)
	assert.Equal(t, float64(60), c.Timeout)
	assert.Equal(t, float64(1800), c.OLT.TokenTTL)
	assert.Equal(t, "authuserlist.json", c.Bot.AuthFile)
	assert.Equal(t, "http://192.168.1.100", c.OLT.Address)
}

func TestLoadConfigOverrides(t *testing.T) {
	path := writeConfig(t, `
listen: ":9999"
timeout: 10
olt:
  address: http://10.0.0.1
  family: epon
  token_ttl: 600
  insecure_skip_verify: true
bot:
  token: "123:abc"
  password: rahasia
  auth_file: /tmp/users.json
`)

	sc := New(path)
	require.NoError(t, sc.LoadConfig())

	c := sc.Get()
	assert.Equal(t, ":9999", c.Listen)
	assert.Equal(t, float64(600), c.OLT.TokenTTL)
	assert.True(t, c.OLT.InsecureSkipVerify)
	assert.Equal(t, "rahasia", c.Bot.Password)
	assert.Equal(t, "/tmp/users.json", c.Bot.AuthFile)
}

func TestLoadConfigRejectsUnknownFields(t *testing.T) {
	path := writeConfig(t, `
olt:
  address: http://10.0.0.1
  familly: gpon
`)

	sc := New(path)
	err := sc.LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "familly")
}

func TestLoadConfigMissingFile(t *testing.T) {
	sc := New(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, sc.LoadConfig())
}

func TestLoadConfigKeepsOldOnFailure(t *testing.T) {
	path := writeConfig(t, `
olt:
  address: http://10.0.0.1
  family: gpon
`)

	sc := New(path)
	require.NoError(t, sc.LoadConfig())

	require.NoError(t, os.WriteFile(path, []byte("olt: [broken"), 0o644))
	require.Error(t, sc.LoadConfig())

	assert.Equal(t, "http://10.0.0.1", sc.Get().OLT.Address)
}

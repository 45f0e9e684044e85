package config

import (
	"io/ioutil"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEnsureDefaults(t *testing.T) {
	opts := &ClientOptions{Port: 4000}
	opts.EnsureDefaults()
	require.Equal(t, "localhost", opts.Host)
	require.Equal(t, 4000, opts.Port)
	require.Equal(t, 63*1024, opts.ChunkSize)
	require.Equal(t, 8, opts.SyncInterval)
	require.Equal(t, 16, opts.PipeCapacity)
	require.Equal(t, "none", opts.Compression)
	require.Equal(t, "INFO", opts.LogLevel)
	require.Equal(t, "localhost:4000", opts.Target())
	require.Nil(t, opts.Validate())
}

func TestValidate(t *testing.T) {
	opts := Default()
	opts.Port = 70000
	require.NotNil(t, opts.Validate())
	opts = Default()
	opts.LogLevel = "chatty"
	require.NotNil(t, opts.Validate())
}

func TestLoadFlagsOverrideEnv(t *testing.T) {
	t.Setenv("MARMOT_HOST", "envhost")
	t.Setenv("MARMOT_PORT", "9000")
	opts, err := LoadClientOptions([]string{"--port", "9100", "--rpc-timeout", "3s"})
	require.Nil(t, err)
	require.Equal(t, "envhost", opts.Host)
	require.Equal(t, 9100, opts.Port)
	require.Equal(t, 3*time.Second, opts.RPCTimeout)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "marmot.toml")
	contents := "host = \"filehost\"\ncompression = \"lz4\"\nsync-interval = 4\n"
	require.Nil(t, ioutil.WriteFile(path, []byte(contents), 0644))
	t.Setenv("MARMOT_COMPRESSION", "zstd")

	opts, err := LoadClientOptions([]string{"--config", path})
	require.Nil(t, err)
	require.Equal(t, "filehost", opts.Host)
	require.Equal(t, "zstd", opts.Compression)
	require.Equal(t, 4, opts.SyncInterval)
	require.Equal(t, DefaultPort, opts.Port)
}

func TestLoadMissingConfigFile(t *testing.T) {
	_, err := LoadClientOptions([]string{"--config", filepath.Join(t.TempDir(), "nope.toml")})
	require.NotNil(t, err)
}

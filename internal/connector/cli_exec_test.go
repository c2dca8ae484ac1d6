package connector

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCLI writes a shell script standing in for manus-mcp-cli and
// returns a source pointed at it.
func fakeCLI(t *testing.T, script string) *CLISource {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fake-mcp-cli")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755))
	return NewCLISource(path, 5*time.Second)
}

func TestDiscoverServersJSON(t *testing.T) {
	source := fakeCLI(t, `echo '[{"name":"weather-mcp"},{"name":"database-mcp"}]'`)

	servers, err := source.DiscoverServers(context.Background())
	require.NoError(t, err)
	require.Len(t, servers, 2)
	assert.Equal(t, "weather-mcp", servers[0].Name)
	assert.Equal(t, "database-mcp", servers[1].Name)
}

func TestDiscoverServersTextFallback(t *testing.T) {
	source := fakeCLI(t, `printf '# configured servers\nweather-mcp running\ndatabase-mcp stopped\n'`)

	servers, err := source.DiscoverServers(context.Background())
	require.NoError(t, err)
	require.Len(t, servers, 2)
	assert.Equal(t, "weather-mcp", servers[0].Name)
	assert.Equal(t, "database-mcp", servers[1].Name)
}

func TestDiscoverServersNoneFound(t *testing.T) {
	source := fakeCLI(t, `echo 'No MCP servers found'`)

	servers, err := source.DiscoverServers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, servers)
}

func TestDiscoverServersCLIFailure(t *testing.T) {
	source := fakeCLI(t, `echo 'boom' >&2; exit 1`)

	_, err := source.DiscoverServers(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestCheckConnection(t *testing.T) {
	connected := fakeCLI(t, `exit 0`)
	server := connected.CheckConnection(context.Background(), "weather-mcp")
	assert.Equal(t, StatusConnected, server.Status)

	down := fakeCLI(t, `echo 'connection refused' >&2; exit 1`)
	server = down.CheckConnection(context.Background(), "weather-mcp")
	assert.Equal(t, StatusDisconnected, server.Status)
	assert.Contains(t, server.ErrorMessage, "connection refused")
}

func TestCheckConnectionMissingBinary(t *testing.T) {
	source := NewCLISource(filepath.Join(t.TempDir(), "does-not-exist"), time.Second)
	server := source.CheckConnection(context.Background(), "weather-mcp")
	assert.Equal(t, StatusDisconnected, server.Status)
	assert.NotEmpty(t, server.ErrorMessage)
}

func TestExecuteTimeout(t *testing.T) {
	source := fakeCLI(t, `sleep 10`)
	source.timeout = 100 * time.Millisecond

	_, err := source.execute(context.Background(), "server", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")
}

func TestListToolsParsesOutput(t *testing.T) {
	source := fakeCLI(t, `echo '[{"name":"get_weather","description":"Weather lookup"}]'`)

	caps, err := source.ListTools(context.Background(), "weather-mcp")
	require.NoError(t, err)
	require.Len(t, caps, 1)
	assert.Equal(t, "get_weather", caps[0].Name)
	assert.Equal(t, SectionTool, caps[0].Section)
}

func TestListToolsMalformedOutputIsEmpty(t *testing.T) {
	source := fakeCLI(t, `echo 'this is not json'`)

	caps, err := source.ListTools(context.Background(), "weather-mcp")
	require.NoError(t, err)
	assert.Empty(t, caps)
}

func TestCallToolPassesResultThrough(t *testing.T) {
	source := fakeCLI(t, `echo '{"temperature":18,"city":"London"}'`)

	result, err := source.CallTool(context.Background(), "weather-mcp", "get_weather", map[string]interface{}{"city": "London"})
	require.NoError(t, err)
	data, ok := result.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "London", data["city"])
}

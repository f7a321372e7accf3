package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FrothyRythm/project010/pkg/server"
)

func TestConfigCmdDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	out, err := execute(t, context.Background(), "config", "--config", missingConfig(t))
	require.NoError(t, err)

	assert.Contains(t, out, "Port: 3000")
	assert.Contains(t, out, "Address: :3000")
	assert.Contains(t, out, "Log Level: info")
	assert.Contains(t, out, "not found, using defaults")
}

func TestConfigCmdPortFromEnv(t *testing.T) {
	t.Setenv("PORT", "8081")
	out, err := execute(t, context.Background(), "config", "--config", missingConfig(t))
	require.NoError(t, err)

	assert.Contains(t, out, "Port: 8081")
}

func TestConfigCmdInvalidPortFallsBack(t *testing.T) {
	t.Setenv("PORT", "not-a-port")
	out, err := execute(t, context.Background(), "config", "--config", missingConfig(t))
	require.NoError(t, err)

	assert.Contains(t, out, "Port: 3000")
	assert.Contains(t, out, `Ignored PORT: "not-a-port"`)
}

func TestConfigCmdFileAndFlags(t *testing.T) {
	t.Setenv("PORT", "")
	path := writeConfig(t, "port: 4567\nlog_level: warn\n")

	out, err := execute(t, context.Background(), "config", "--config", path, "--log-level", "debug")
	require.NoError(t, err)

	assert.Contains(t, out, "Port: 4567")
	assert.Contains(t, out, "Log Level: debug")
	assert.Contains(t, out, "(found)")
}

func TestInvalidLogLevel(t *testing.T) {
	_, err := execute(t, context.Background(), "config", "--config", missingConfig(t), "--log-level", "verbose")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level: verbose")
}

func TestRejectsArgs(t *testing.T) {
	_, err := execute(t, context.Background(), "extra")
	assert.Error(t, err)
}

func TestServe(t *testing.T) {
	port := freePort(t)
	t.Setenv("PORT", strconv.Itoa(port))
	path := writeConfig(t, "host: 127.0.0.1\n")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := execute(t, ctx, "--config", path)
		done <- err
	}()

	url := fmt.Sprintf("http://127.0.0.1:%d/", port)
	var body []byte
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		body, err = io.ReadAll(resp.Body)
		return err == nil && resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)
	assert.Equal(t, server.Message, string(body))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("serve did not stop after cancel")
	}
}

func TestServeBindError(t *testing.T) {
	occupied, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer occupied.Close()

	t.Setenv("PORT", strconv.Itoa(occupied.Addr().(*net.TCPAddr).Port))
	path := writeConfig(t, "host: 127.0.0.1\n")

	_, err = execute(t, context.Background(), "--config", path)
	require.Error(t, err)

	var bindErr *server.BindError
	assert.True(t, errors.As(err, &bindErr), "want *server.BindError, got %v", err)
}

func execute(t *testing.T, ctx context.Context, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

func missingConfig(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.yaml")
}

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func freePort(t *testing.T) int {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())
	return port
}

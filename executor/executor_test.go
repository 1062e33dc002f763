package executor_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/catalyst-forge-release/executor"
)

func TestBasicExecution(t *testing.T) {
	cmd := executor.New("echo", "hello", "world")
	result, err := cmd.Execute(context.Background())
	require.NoError(t, err)

	assert.Contains(t, result.Stdout, "hello world")
	assert.Equal(t, 0, result.ExitCode)
}

func TestFailedCommand(t *testing.T) {
	cmd := executor.New("sh", "-c", "echo boom >&2; exit 3")
	result, err := cmd.Execute(context.Background())
	require.Error(t, err)
	require.NotNil(t, result)

	assert.Equal(t, 3, result.ExitCode)
	assert.Contains(t, result.Stderr, "boom")
}

func TestMissingProgram(t *testing.T) {
	cmd := executor.New("definitely-not-a-real-program-xyz")
	result, err := cmd.Execute(context.Background())
	require.Error(t, err)
	assert.Equal(t, -1, result.ExitCode)
}

func TestEnvironmentVariables(t *testing.T) {
	cmd := executor.New("sh", "-c", "echo $RELEASE_VERSION")
	result, err := cmd.Execute(context.Background(), executor.WithEnv(map[string]string{
		"RELEASE_VERSION": "v1.2.3",
	}))
	require.NoError(t, err)

	assert.Equal(t, "v1.2.3", strings.TrimSpace(result.Stdout))
}

func TestWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	cmd := executor.New("pwd")
	result, err := cmd.Execute(context.Background(), executor.WithWorkingDir(dir))
	require.NoError(t, err)

	assert.Contains(t, strings.TrimSpace(result.Stdout), dir)
}

func TestCombinedCapture(t *testing.T) {
	cmd := executor.New("sh", "-c", "echo out; echo err >&2")
	result, err := cmd.Execute(context.Background(), executor.WithCapture(false, false, true))
	require.NoError(t, err)

	assert.Contains(t, result.Combined, "out")
	assert.Contains(t, result.Combined, "err")
	assert.Empty(t, result.Stdout)
	assert.Empty(t, result.Stderr)
}

func TestCustomWriters(t *testing.T) {
	var out bytes.Buffer
	cmd := executor.New("echo", "streamed")
	_, err := cmd.Execute(context.Background(), executor.WithStdoutWriter(&out))
	require.NoError(t, err)

	assert.Contains(t, out.String(), "streamed")
}

func TestContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cmd := executor.New("sleep", "10")
	_, err := cmd.Execute(ctx)
	require.Error(t, err)
}

func TestWrappedExecutor(t *testing.T) {
	sh := executor.NewWrappedExecutor("sh")
	result, err := sh.Execute(context.Background(), []string{"-c", "echo wrapped"})
	require.NoError(t, err)

	assert.Contains(t, result.Stdout, "wrapped")
}

func TestStdinInput(t *testing.T) {
	cmd := executor.New("cat")
	result, err := cmd.ExecuteWithInput(context.Background(), "from stdin")
	require.NoError(t, err)

	assert.Equal(t, "from stdin", result.Stdout)
}

package exec_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.trai.ch/pubkit/internal/adapters/exec"
	"go.trai.ch/pubkit/internal/core/domain"
	"go.trai.ch/pubkit/internal/core/ports"
	"go.trai.ch/pubkit/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestRunner_Run_MultiLineOutput(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Info("line1").Times(1)
	mockLogger.EXPECT().Info("line2").Times(1)

	runner := exec.NewRunner(mockLogger)

	result, err := runner.Run(context.Background(), domain.RunSpec{
		Path: "sh",
		Args: []string{"-c", "echo line1; echo line2"},
		Dir:  t.TempDir(),
	})
	require.NoError(t, err)
	require.Equal(t, 0, result.ExitCode)
	require.Equal(t, "line1\nline2\n", string(result.Stdout))
}

func TestRunner_Run_PartialLineFlushed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLogger := mocks.NewMockLogger(ctrl)
	// No trailing newline; the buffered remainder is flushed when the run ends.
	mockLogger.EXPECT().Info("partial").Times(1)

	runner := exec.NewRunner(mockLogger)

	result, err := runner.Run(context.Background(), domain.RunSpec{
		Path: "sh",
		Args: []string{"-c", "printf partial"},
		Dir:  t.TempDir(),
	})
	require.NoError(t, err)
	require.Equal(t, "partial", string(result.Stdout))
}

func TestRunner_Run_StderrCaptured(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Error(gomock.Any()).Times(1)

	runner := exec.NewRunner(mockLogger)

	result, err := runner.Run(context.Background(), domain.RunSpec{
		Path: "sh",
		Args: []string{"-c", "echo oops >&2"},
		Dir:  t.TempDir(),
	})
	require.NoError(t, err)
	require.Equal(t, "oops\n", string(result.Stderr))
}

func TestRunner_Run_NonZeroExit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLogger := mocks.NewMockLogger(ctrl)
	runner := exec.NewRunner(mockLogger)

	result, err := runner.Run(context.Background(), domain.RunSpec{
		Path: "sh",
		Args: []string{"-c", "exit 42"},
		Dir:  t.TempDir(),
	})
	require.NoError(t, err, "non-zero exit is a result, not an error")
	require.Equal(t, 42, result.ExitCode)
}

func TestRunner_Run_Timeout(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLogger := mocks.NewMockLogger(ctrl)
	runner := exec.NewRunner(mockLogger)

	start := time.Now()
	_, err := runner.Run(context.Background(), domain.RunSpec{
		Path:    "sh",
		Args:    []string{"-c", "sleep 5"},
		Dir:     t.TempDir(),
		Timeout: 50 * time.Millisecond,
	})
	require.Error(t, err)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Less(t, time.Since(start), 3*time.Second, "run should be cut short by the timeout")
}

func TestRunner_Run_ContextCanceled(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLogger := mocks.NewMockLogger(ctrl)
	runner := exec.NewRunner(mockLogger)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	_, err := runner.Run(ctx, domain.RunSpec{
		Path: "sh",
		Args: []string{"-c", "sleep 5"},
		Dir:  t.TempDir(),
	})
	require.Error(t, err)
	require.ErrorIs(t, err, context.Canceled)
}

func TestRunner_Run_StartFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLogger := mocks.NewMockLogger(ctrl)
	runner := exec.NewRunner(mockLogger)

	_, err := runner.Run(context.Background(), domain.RunSpec{
		Path: "nonexistent-command-xyz123",
		Dir:  t.TempDir(),
	})
	if err == nil {
		t.Fatal("Run() expected error for missing executable")
	}
	if !strings.Contains(err.Error(), "failed to run process") {
		t.Errorf("Run() error should mention the start failure: %v", err)
	}
}

func TestRunner_Run_EmptyPath(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLogger := mocks.NewMockLogger(ctrl)
	runner := exec.NewRunner(mockLogger)

	_, err := runner.Run(context.Background(), domain.RunSpec{})
	require.Error(t, err)
}

func TestRunner_Run_WorkingDirAndEnv(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Info("marker-contents").Times(1)
	mockLogger.EXPECT().Info("env-value-123").Times(1)

	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "marker.txt"), []byte("marker-contents\n"), 0o644)
	require.NoError(t, err)

	runner := exec.NewRunner(mockLogger)

	result, err := runner.Run(context.Background(), domain.RunSpec{
		Path: "sh",
		Args: []string{"-c", "cat marker.txt; echo $PUBKIT_TEST_VAR"},
		Dir:  dir,
		Env:  []string{"PUBKIT_TEST_VAR=env-value-123"},
	})
	require.NoError(t, err)
	require.Contains(t, string(result.Stdout), "marker-contents")
	require.Contains(t, string(result.Stdout), "env-value-123")
}

func TestRunner_Run_MirrorsToVertex(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Info(gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Error(gomock.Any()).AnyTimes()

	var vertexOut, vertexErr bytes.Buffer
	mockVertex := mocks.NewMockVertex(ctrl)
	mockVertex.EXPECT().Stdout().Return(&vertexOut).Times(1)
	mockVertex.EXPECT().Stderr().Return(&vertexErr).Times(1)

	runner := exec.NewRunner(mockLogger)
	ctx := ports.ContextWithVertex(context.Background(), mockVertex)

	_, err := runner.Run(ctx, domain.RunSpec{
		Path: "sh",
		Args: []string{"-c", "echo to-stdout; echo to-stderr >&2"},
		Dir:  t.TempDir(),
	})
	require.NoError(t, err)
	require.Contains(t, vertexOut.String(), "to-stdout")
	require.Contains(t, vertexErr.String(), "to-stderr")
}

func TestRunner_Run_ExitErrorNotMistakenForTimeout(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLogger := mocks.NewMockLogger(ctrl)
	runner := exec.NewRunner(mockLogger)

	// Generous timeout: the command fails on its own well before the deadline.
	result, err := runner.Run(context.Background(), domain.RunSpec{
		Path:    "sh",
		Args:    []string{"-c", "exit 7"},
		Dir:     t.TempDir(),
		Timeout: 30 * time.Second,
	})
	require.NoError(t, err)
	require.Equal(t, 7, result.ExitCode)
	require.False(t, errors.Is(err, context.DeadlineExceeded))
}

package errors

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/habitual/internal/models"
)

const exitModeEnv = "HABITUAL_ERRORS_EXIT_MODE"

func TestFormat(t *testing.T) {
	_, perr := models.ParsePeriodicity("monthly")
	require.Error(t, perr)

	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "plain", err: errors.New(`habit "Read" not found`), want: `Error: habit "Read" not found`},
		{name: "domain sentinel keeps its text", err: perr, want: "Error: " + perr.Error()},
		{
			name: "wrapped storage failure",
			err:  fmt.Errorf("failed to save habit: %w", errors.New("database is locked")),
			want: "Error: failed to save habit: database is locked",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.err))
		})
	}
}

func TestFormatfMatchesFormat(t *testing.T) {
	err := fmt.Errorf("cannot open storage: %w", errors.New("no such file"))
	assert.Equal(t, Format(err), Formatf("cannot open storage: %v", errors.Unwrap(err)))
	assert.Equal(t, "Error: 3 habits broken", Formatf("%d habits broken", 3))
}

// TestMain lets the exit paths below re-run this binary and call Fatal or Fatalf.
func TestMain(m *testing.M) {
	switch os.Getenv(exitModeEnv) {
	case "fatal":
		Fatal(errors.New("storage not initialized"))
	case "fatal-nil":
		Fatal(nil)
		os.Exit(0)
	case "fatalf":
		Fatalf("cannot open storage: %v", "permission denied")
	}
	os.Exit(m.Run())
}

func runExitMode(t *testing.T, mode string) (int, string) {
	t.Helper()
	cmd := exec.Command(os.Args[0], "-test.run=^$")
	cmd.Env = append(os.Environ(), exitModeEnv+"="+mode)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return 0, stderr.String()
	}
	var exitErr *exec.ExitError
	require.True(t, errors.As(err, &exitErr), "unexpected run error: %v", err)
	return exitErr.ExitCode(), stderr.String()
}

func TestFatalExitPaths(t *testing.T) {
	tests := []struct {
		mode     string
		wantCode int
		wantMsg  string
	}{
		{mode: "fatal", wantCode: 1, wantMsg: "Error: storage not initialized"},
		{mode: "fatalf", wantCode: 1, wantMsg: "Error: cannot open storage: permission denied"},
		{mode: "fatal-nil", wantCode: 0},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			code, stderr := runExitMode(t, tt.mode)
			assert.Equal(t, tt.wantCode, code)
			if tt.wantMsg == "" {
				assert.Empty(t, stderr)
				return
			}
			assert.Contains(t, stderr, tt.wantMsg)
		})
	}
}

package errors

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingConsole keeps every line written to it.
type recordingConsole struct {
	mu        sync.Mutex
	errorMsgs []string
	infoMsgs  []string
}

func (r *recordingConsole) Error(msgs ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errorMsgs = append(r.errorMsgs, strings.Join(msgs, " "))
}

func (r *recordingConsole) Info(msgs ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.infoMsgs = append(r.infoMsgs, strings.Join(msgs, " "))
}

func TestReportAddsHintForFixableKinds(t *testing.T) {
	out := &recordingConsole{}
	code := NewCLIHandler(out).Report(New(KindNoEndpoint, "resolve", stderrors.New("no server address")))

	assert.Equal(t, 3, code)
	assert.Equal(t, []string{"resolve: no server address"}, out.errorMsgs)
	require.Len(t, out.infoMsgs, 1)
	assert.Contains(t, out.infoMsgs[0], "NVIM_LISTEN_ADDRESS")
}

func TestReportRemoteErrorHasNoHint(t *testing.T) {
	out := &recordingConsole{}
	NewCLIHandler(out).Report(Remote("nvim_eval", stderrors.New("Vim:E15: Invalid expression")))

	assert.Equal(t, []string{"Vim:E15: Invalid expression"}, out.errorMsgs)
	assert.Empty(t, out.infoMsgs)
}

func TestDefaultCLIHandlerWritesToStderr(t *testing.T) {
	oldStderr := os.Stderr
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stderr = w
	t.Cleanup(func() { os.Stderr = oldStderr })

	code := NewDefaultCLIHandler().Report(Configf("conflicting layouts split and tab"))

	require.NoError(t, w.Close())
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, 2, code)
	assert.Contains(t, string(data), "Error:")
	assert.Contains(t, string(data), "conflicting layouts split and tab")
}

func TestReportReturnsExitCodePerKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"nil", nil, 0},
		{"configuration", Configf("only one of --remote-send, --remote-expr, --remote-command may be given"), 2},
		{"no endpoint", New(KindNoEndpoint, "resolve", stderrors.New("no server address")), 3},
		{"connection", New(KindConnection, "connect", stderrors.New("dial unix /tmp/x: connect: no such file")), 4},
		{"autostart", New(KindAutostartTimeout, "autostart", stderrors.New("gave up")), 5},
		{"remote", Remote("eval", stderrors.New("Vim:E121: Undefined variable: foo")), 6},
		{"internal", stderrors.New("boom"), 1},
		{"wrapped", fmt.Errorf("outer: %w", New(KindConnection, "connect", stderrors.New("x"))), 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := &recordingConsole{}
			code := NewCLIHandler(out).Report(tt.err)
			assert.Equal(t, tt.code, code)
			if tt.err == nil {
				assert.Empty(t, out.errorMsgs)
			} else {
				require.Len(t, out.errorMsgs, 1)
			}
		})
	}
}

func TestReportForwardsEditorExitStatusSilently(t *testing.T) {
	out := &recordingConsole{}
	code := NewCLIHandler(out).Report(&ExitStatus{Code: 7})

	assert.Equal(t, 7, code)
	assert.Empty(t, out.errorMsgs)
}

func TestRemoteErrorMessageIsVerbatim(t *testing.T) {
	err := Remote("eval", stderrors.New("Vim:E15: Invalid expression: \"1 +\""))
	assert.Equal(t, "Vim:E15: Invalid expression: \"1 +\"", err.Error())
}

func TestErrorsIsMatchesKindSentinels(t *testing.T) {
	cause := stderrors.New("refused")
	err := fmt.Errorf("wrap: %w", New(KindConnection, "connect", cause))

	assert.True(t, stderrors.Is(err, ErrConnection))
	assert.False(t, stderrors.Is(err, ErrNoEndpoint))
	assert.True(t, stderrors.Is(err, cause))
	assert.Equal(t, KindConnection, KindOf(err))
	assert.Equal(t, "connect: refused", New(KindConnection, "connect", cause).Error())
}

func TestKindNamesAreDistinct(t *testing.T) {
	seen := map[string]bool{}
	codes := map[int]bool{}
	for _, k := range []Kind{KindInternal, KindConfiguration, KindNoEndpoint, KindConnection, KindAutostartTimeout, KindRemote} {
		assert.False(t, seen[k.String()], "duplicate name %s", k)
		assert.False(t, codes[k.ExitCode()], "duplicate code for %s", k)
		assert.NotZero(t, k.ExitCode())
		seen[k.String()] = true
		codes[k.ExitCode()] = true
	}
}

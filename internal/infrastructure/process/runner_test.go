package process

import (
	"context"
	stderrors "errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/tinydock/pkg/errors"
)

func TestExecRunner_Success(t *testing.T) {
	r := NewExecRunner(nil)
	assert.NoError(t, r.Run(context.Background(), "sh", "-c", "echo ignored"))
}

func TestExecRunner_NonZeroExitCapturesStderr(t *testing.T) {
	r := NewExecRunner(nil)
	err := r.Run(context.Background(), "sh", "-c", "echo 'ligand parse error' >&2; exit 3")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeExternalTool))
	assert.Contains(t, err.Error(), "ligand parse error")
}

func TestExecRunner_MissingBinary(t *testing.T) {
	r := NewExecRunner(nil)
	err := r.Run(context.Background(), "tinydock-no-such-binary")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeExternalTool))
}

func TestExecRunner_Timeout(t *testing.T) {
	r := NewExecRunner(nil)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := r.Run(ctx, "sleep", "5")
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, context.DeadlineExceeded))
	assert.True(t, errors.IsCode(err, errors.CodeTimeout))
	assert.Less(t, time.Since(start), 4*time.Second)
}

func TestTailBuffer_KeepsTail(t *testing.T) {
	tb := &tailBuffer{limit: 8}
	_, _ = tb.Write([]byte("0123456789"))
	_, _ = tb.Write([]byte("ab"))
	assert.Equal(t, "456789ab", tb.String())
}

func TestCommandLine(t *testing.T) {
	assert.Equal(t, "vina --config c.txt", commandLine("vina", []string{"--config", "c.txt"}))
	assert.True(t, strings.HasPrefix(commandLine("obabel", nil), "obabel"))
}

//Personal.AI order the ending

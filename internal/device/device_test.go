package device

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestV4LAcquireExistingNode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "video0")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	stream, err := V4L{Path: path}.Acquire(context.Background())
	require.NoError(t, err)
	assert.Equal(t, path, stream.Device)
}

func TestV4LAcquireMissingNode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing")

	_, err := V4L{Path: path}.Acquire(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestV4LAcquireCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := V4L{Path: "/nonexistent"}.Acquire(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestUnavailable(t *testing.T) {
	_, err := Unavailable{}.Acquire(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestBellWritesBEL(t *testing.T) {
	var buf bytes.Buffer
	Bell{W: &buf}.Play()
	assert.Equal(t, "\a", buf.String())

	Bell{}.Play()
	Silent{}.Play()
}

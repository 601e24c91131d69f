// Package device provides the cosmetic camera and sound collaborators.
package device

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
)

// DefaultCameraPath is the first video4linux device node.
const DefaultCameraPath = "/dev/video0"

// ErrUnavailable is returned when no camera can be acquired.
var ErrUnavailable = errors.New("camera unavailable")

// Stream identifies an acquired camera.
type Stream struct {
	Device string
}

// VideoSource acquires a camera stream.
type VideoSource interface {
	Acquire(ctx context.Context) (Stream, error)
}

// ScanEffect plays the scan sound. Play must not block.
type ScanEffect interface {
	Play()
}

// V4L probes a video4linux device node. Nothing is ever read from it.
type V4L struct {
	Path string
}

// Acquire opens and closes the device node to check access.
func (v V4L) Acquire(ctx context.Context) (Stream, error) {
	if err := ctx.Err(); err != nil {
		return Stream{}, err
	}
	path := v.Path
	if path == "" {
		path = DefaultCameraPath
	}
	f, err := os.Open(path)
	if err != nil {
		return Stream{}, fmt.Errorf("failed to open %s: %w: %w", path, ErrUnavailable, err)
	}
	if cerr := f.Close(); cerr != nil {
		log.Debug().Err(cerr).Str("device", path).Msg("camera probe close failed")
	}
	return Stream{Device: path}, nil
}

// Unavailable is a VideoSource that always fails.
type Unavailable struct{}

// Acquire implements VideoSource.
func (Unavailable) Acquire(context.Context) (Stream, error) {
	return Stream{}, ErrUnavailable
}

// Bell rings the terminal bell on W.
type Bell struct {
	W io.Writer
}

// Play implements ScanEffect.
func (b Bell) Play() {
	if b.W == nil {
		return
	}
	if _, err := io.WriteString(b.W, "\a"); err != nil {
		log.Debug().Err(err).Msg("scan bell failed")
	}
}

// Silent is a ScanEffect that does nothing.
type Silent struct{}

// Play implements ScanEffect.
func (Silent) Play() {}

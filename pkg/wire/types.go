// Package wire moves raw Ethernet frames across simulated physical
// links.
package wire

import (
	"errors"
	"io"
)

// ErrClosed indicates I/O on a closed link.
var ErrClosed = errors.New("link closed")

// FrameReader reads whole frames in bytes.
type FrameReader interface {
	ReadFrame() ([]byte, error)
}

// FrameWriter writes whole frames in bytes.
type FrameWriter interface {
	WriteFrame([]byte) error
}

// FrameReadWriter reads/writes whole frames in bytes.
type FrameReadWriter interface {
	FrameReader
	FrameWriter
}

// FrameReadWriteCloser is a link that can be torn down.
type FrameReadWriteCloser interface {
	FrameReadWriter
	io.Closer
}

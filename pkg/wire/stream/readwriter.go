// Package stream runs a frame link over any byte stream.
package stream

import (
	"encoding/binary"
	"errors"
	"io"
)

// maxFrameSize bounds the length prefix so a corrupted stream cannot
// ask for an absurd allocation.
const maxFrameSize = 1 << 16

// ErrFrameTooLarge indicates a length prefix beyond maxFrameSize.
var ErrFrameTooLarge = errors.New("frame too large")

// ReadWriter implements wire.FrameReadWriter.
// Each frame is prefixed by 4-byte (little-endian) indicating the
// length.
type ReadWriter struct {
	io.ReadWriter
}

// New creates a ReadWriter with io.ReadWriter.
func New(s io.ReadWriter) *ReadWriter {
	return &ReadWriter{s}
}

// ReadFrame implements wire.FrameReader.
func (p *ReadWriter) ReadFrame() ([]byte, error) {
	var size uint32
	if err := binary.Read(p, binary.LittleEndian, &size); err != nil {
		return nil, err
	}
	if size > maxFrameSize {
		return nil, ErrFrameTooLarge
	}
	f := make([]byte, size)
	_, err := io.ReadFull(p, f)
	return f, err
}

// WriteFrame implements wire.FrameWriter.
func (p *ReadWriter) WriteFrame(f []byte) error {
	size := uint32(len(f))
	if err := binary.Write(p, binary.LittleEndian, size); err != nil {
		return err
	}
	_, err := p.Write(f[:size])
	return err
}

// Close implements io.Closer when the underlying stream supports it.
func (p *ReadWriter) Close() error {
	if closer, ok := p.ReadWriter.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

package wire

import "sync"

// pipeDepth is how many frames one direction buffers before writers
// block on the reader.
const pipeDepth = 16

// Pipe returns the two ends of an in-process duplex frame link.
// Closing either end tears the link down.
func Pipe() (a, b FrameReadWriteCloser) {
	ab := make(chan []byte, pipeDepth)
	ba := make(chan []byte, pipeDepth)
	done := make(chan struct{})
	once := new(sync.Once)
	a = &pipeEnd{in: ba, out: ab, done: done, once: once}
	b = &pipeEnd{in: ab, out: ba, done: done, once: once}
	return
}

// Loopback returns a link whose written frames come back as reads,
// subject to the receiver's address filter like any other traffic.
func Loopback() FrameReadWriteCloser {
	lo := make(chan []byte, pipeDepth)
	done := make(chan struct{})
	once := new(sync.Once)
	return &pipeEnd{in: lo, out: lo, done: done, once: once}
}

type pipeEnd struct {
	in   <-chan []byte
	out  chan<- []byte
	done chan struct{}
	once *sync.Once
}

// ReadFrame implements FrameReader. Frames already in the pipe are
// still delivered after a close.
func (p *pipeEnd) ReadFrame() ([]byte, error) {
	select {
	case f := <-p.in:
		return f, nil
	case <-p.done:
		select {
		case f := <-p.in:
			return f, nil
		default:
			return nil, ErrClosed
		}
	}
}

// WriteFrame implements FrameWriter. The frame is copied, so the
// caller may reuse its slice.
func (p *pipeEnd) WriteFrame(f []byte) error {
	select {
	case <-p.done:
		return ErrClosed
	default:
	}
	buf := append([]byte(nil), f...)
	select {
	case p.out <- buf:
		return nil
	case <-p.done:
		return ErrClosed
	}
}

// Close implements io.Closer.
func (p *pipeEnd) Close() error {
	p.once.Do(func() { close(p.done) })
	return nil
}

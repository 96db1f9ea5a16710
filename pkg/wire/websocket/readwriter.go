// Package websocket runs a point-to-point frame link over a
// websocket connection, one binary message per frame.
package websocket

import (
	"net/http"

	"golang.org/x/net/websocket"
)

// ReadWriter implements wire.FrameReadWriter.
type ReadWriter websocket.Conn

// New wraps websocket.Conn.
func New(conn *websocket.Conn) *ReadWriter {
	return (*ReadWriter)(conn)
}

// Dial connects to a listening peer.
func Dial(url, origin string) (*ReadWriter, error) {
	conn, err := websocket.Dial(url, "", origin)
	if err != nil {
		return nil, err
	}
	return New(conn), nil
}

// Handler adapts a per-connection callback into an http.Handler for
// the listening side. The connection closes when fn returns.
func Handler(fn func(*ReadWriter)) http.Handler {
	return websocket.Handler(func(conn *websocket.Conn) {
		fn(New(conn))
	})
}

// ReadFrame implements wire.FrameReader.
func (p *ReadWriter) ReadFrame() (f []byte, err error) {
	err = websocket.Message.Receive((*websocket.Conn)(p), &f)
	return
}

// WriteFrame implements wire.FrameWriter.
func (p *ReadWriter) WriteFrame(f []byte) error {
	return websocket.Message.Send((*websocket.Conn)(p), f)
}

// Close implements io.Closer.
func (p *ReadWriter) Close() error {
	return (*websocket.Conn)(p).Close()
}

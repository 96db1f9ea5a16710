package wire

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPipeRoundTrip(t *testing.T) {
	a, b := Pipe()

	require.NoError(t, a.WriteFrame([]byte("hello")))
	data, err := b.ReadFrame()
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), data)

	require.NoError(t, b.WriteFrame([]byte("world")))
	data, err = a.ReadFrame()
	require.NoError(t, err)
	require.Equal(t, []byte("world"), data)
}

func TestPipeWriteCopies(t *testing.T) {
	a, b := Pipe()

	buf := []byte{1, 2, 3}
	require.NoError(t, a.WriteFrame(buf))
	buf[0] = 9
	data, err := b.ReadFrame()
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, data)
}

func TestLoopback(t *testing.T) {
	lo := Loopback()

	require.NoError(t, lo.WriteFrame([]byte("echoed")))
	data, err := lo.ReadFrame()
	require.NoError(t, err)
	require.Equal(t, []byte("echoed"), data)

	require.NoError(t, lo.Close())
	_, err = lo.ReadFrame()
	require.Equal(t, ErrClosed, err)
}

func TestPipeClose(t *testing.T) {
	a, b := Pipe()

	require.NoError(t, a.WriteFrame([]byte("last")))
	require.NoError(t, a.Close())
	require.Equal(t, ErrClosed, a.WriteFrame([]byte("more")))

	data, err := b.ReadFrame()
	require.NoError(t, err)
	require.Equal(t, []byte("last"), data, "frames in flight survive the close")
	_, err = b.ReadFrame()
	require.Equal(t, ErrClosed, err)
}

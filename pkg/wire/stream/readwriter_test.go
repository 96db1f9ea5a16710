package stream

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadWriterRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	rw := New(&buf)

	frames := [][]byte{
		[]byte("alpha"),
		{},
		[]byte("gamma"),
	}
	for _, f := range frames {
		require.NoError(t, rw.WriteFrame(f))
	}
	for _, want := range frames {
		data, err := rw.ReadFrame()
		require.NoError(t, err)
		require.Equal(t, want, data)
	}
}

func TestReadFrameTooLarge(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint32(maxFrameSize+1)))

	_, err := New(&buf).ReadFrame()
	require.Equal(t, ErrFrameTooLarge, err)
}

func TestReadFrameShortPayload(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint32(10)))
	buf.WriteString("abc")

	_, err := New(&buf).ReadFrame()
	require.Error(t, err)
}

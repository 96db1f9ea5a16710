package mac

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iromero91/emac.go/pkg/frame"
	"github.com/iromero91/emac.go/pkg/hw"
	"github.com/iromero91/emac.go/pkg/hw/hwsim"
	"github.com/iromero91/emac.go/pkg/wire"
)

var (
	simAddrA = frame.MacAddress{0x02, 0, 0, 0, 0x01, 0x0a}
	simAddrB = frame.MacAddress{0x02, 0, 0, 0, 0x01, 0x0b}
)

// chanSink records notifications through channels, for the tests
// that run against the asynchronous simulated engine.
type chanSink struct {
	frames chan *frame.Frame
	sends  chan *Buffer
	errs   chan *Error
}

func newChanSink() *chanSink {
	return &chanSink{
		frames: make(chan *frame.Frame, 16),
		sends:  make(chan *Buffer, 16),
		errs:   make(chan *Error, 16),
	}
}

func (s *chanSink) HandleFrame(f *frame.Frame)   { s.frames <- f }
func (s *chanSink) HandleSendComplete(b *Buffer) { s.sends <- b }
func (s *chanSink) HandleDriverError(e *Error)   { s.errs <- e }

func (s *chanSink) notifications() Notifications {
	return Notifications{Frames: s, Sends: s, Errors: s}
}

func (s *chanSink) waitFrame(t *testing.T) *frame.Frame {
	t.Helper()
	select {
	case f := <-s.frames:
		return f
	case <-time.After(time.Second):
		t.Fatal("no frame delivered")
		return nil
	}
}

func (s *chanSink) waitSend(t *testing.T) *Buffer {
	t.Helper()
	select {
	case b := <-s.sends:
		return b
	case <-time.After(time.Second):
		t.Fatal("no send completion")
		return nil
	}
}

func (s *chanSink) waitError(t *testing.T) *Error {
	t.Helper()
	select {
	case e := <-s.errs:
		return e
	case <-time.After(time.Second):
		t.Fatal("no driver error")
		return nil
	}
}

type simNode struct {
	driver *Driver
	engine *hwsim.Engine
	sink   *chanSink
}

func newSimNode(t *testing.T, link wire.FrameReadWriter, addr frame.MacAddress, opts hwsim.Options) *simNode {
	n := &simNode{engine: hwsim.New(link, opts), sink: newChanSink()}
	params := DefaultParameters()
	params.Address = addr
	params.TxWait = 100 * time.Millisecond
	var err error
	n.driver, err = New(n.engine, params, n.sink.notifications())
	require.NoError(t, err)
	require.NoError(t, n.driver.Start())
	return n
}

func newSimPair(t *testing.T, optsA, optsB hwsim.Options) (a, b *simNode) {
	left, right := wire.Pipe()
	a = newSimNode(t, left, simAddrA, optsA)
	b = newSimNode(t, right, simAddrB, optsB)
	return
}

func TestSimPingPong(t *testing.T) {
	a, b := newSimPair(t, hwsim.Options{}, hwsim.Options{})
	defer a.driver.Stop()
	defer b.driver.Stop()

	buf := NewBufferFrom([]byte("hello over the wire"))
	require.NoError(t, a.driver.Send(simAddrB, frame.EtherTypeEcho, buf))
	require.True(t, a.sink.waitSend(t) == buf, "completion must hand back the borrowed buffer")

	got := b.sink.waitFrame(t)
	require.Equal(t, simAddrB, got.Dest)
	require.Equal(t, simAddrA, got.Source)
	require.Equal(t, frame.EtherTypeEcho, got.Type)
	require.Equal(t, []byte("hello over the wire"), got.Payload)

	reply := NewBufferFrom([]byte("hello yourself"))
	require.NoError(t, b.driver.Send(got.Source, frame.EtherTypeEcho, reply))
	echo := a.sink.waitFrame(t)
	require.Equal(t, []byte("hello yourself"), echo.Payload)
}

func TestSimChainedDelivery(t *testing.T) {
	a, b := newSimPair(t, hwsim.Options{}, hwsim.Options{SegmentSize: 64})
	defer a.driver.Stop()
	defer b.driver.Stop()

	payload := make([]byte, 200)
	for i := range payload {
		payload[i] = byte(i)
	}
	require.NoError(t, a.driver.Send(simAddrB, frame.EtherTypeEcho, NewBufferFrom(payload)))

	got := b.sink.waitFrame(t)
	require.Equal(t, payload, got.Payload, "chained segments must reassemble in order")
}

func TestSimBroadcast(t *testing.T) {
	a, b := newSimPair(t, hwsim.Options{}, hwsim.Options{})
	defer a.driver.Stop()
	defer b.driver.Stop()

	require.NoError(t, a.driver.Send(frame.Broadcast, frame.EtherTypeARP, NewBufferFrom([]byte("who-has"))))
	got := b.sink.waitFrame(t)
	require.Equal(t, frame.Broadcast, got.Dest)
	require.Equal(t, []byte("who-has"), got.Payload)
}

func TestSimTransmitFault(t *testing.T) {
	a, b := newSimPair(t, hwsim.Options{}, hwsim.Options{})
	defer a.driver.Stop()
	defer b.driver.Stop()

	a.engine.InjectTxFault(hw.TxUnderflow)
	require.NoError(t, a.driver.Send(simAddrB, frame.EtherTypeEcho, NewBufferFrom([]byte("doomed"))))
	e := a.sink.waitError(t)
	require.Equal(t, ErrTransmitUnderflow, e.Code)
	require.Equal(t, uint64(1), a.driver.Stats().TxErrors)

	// the slot is free again, the next frame goes through
	require.NoError(t, a.driver.Send(simAddrB, frame.EtherTypeEcho, NewBufferFrom([]byte("ok"))))
	require.Equal(t, []byte("ok"), b.sink.waitFrame(t).Payload)
}

func TestSimReceiveFault(t *testing.T) {
	a, b := newSimPair(t, hwsim.Options{}, hwsim.Options{})
	defer a.driver.Stop()
	defer b.driver.Stop()

	b.engine.InjectRxStatus(hw.RxCRCError)
	require.NoError(t, a.driver.Send(simAddrB, frame.EtherTypeEcho, NewBufferFrom([]byte("mangled"))))
	e := b.sink.waitError(t)
	require.Equal(t, ErrCrc, e.Code)
	require.Equal(t, uint64(1), b.driver.Stats().RxErrors)

	// the poisoned descriptors are armed again
	require.NoError(t, a.driver.Send(simAddrB, frame.EtherTypeEcho, NewBufferFrom([]byte("fine"))))
	require.Equal(t, []byte("fine"), b.sink.waitFrame(t).Payload)
}

func TestSimOrderedStream(t *testing.T) {
	a, b := newSimPair(t, hwsim.Options{}, hwsim.Options{})
	defer a.driver.Stop()
	defer b.driver.Stop()

	const count = 10
	for i := 0; i < count; i++ {
		payload := []byte(fmt.Sprintf("frame-%02d", i))
		require.NoError(t, a.driver.Send(simAddrB, frame.EtherTypeEcho, NewBufferFrom(payload)))
	}
	for i := 0; i < count; i++ {
		got := b.sink.waitFrame(t)
		require.Equal(t, fmt.Sprintf("frame-%02d", i), string(got.Payload))
	}
	require.Equal(t, uint64(count), a.driver.Stats().TxFrames)
	require.Equal(t, uint64(count), b.driver.Stats().RxFrames)
}

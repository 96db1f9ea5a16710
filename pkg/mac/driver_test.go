package mac

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iromero91/emac.go/pkg/frame"
	"github.com/iromero91/emac.go/pkg/hw"
)

var peer = frame.MacAddress{0x02, 0x00, 0x00, 0x00, 0x00, 0x0b}

// testEngine drives the descriptor rings the way hardware would,
// fully under test control.
type testEngine struct {
	vector  hw.Vector
	addr    frame.MacAddress
	rx      []*hw.RxDescriptor
	tx      []*hw.TxDescriptor
	rxNext  int
	txNext  int
	status  hw.DMAStatus
	started bool
	demands int
	resumes int
	cleared []hw.DMAStatus
}

func (e *testEngine) SetMacAddress(addr frame.MacAddress) {
	e.addr = addr
}

func (e *testEngine) AttachReceiveRing(ring []*hw.RxDescriptor) error {
	e.rx = ring
	return nil
}

func (e *testEngine) AttachTransmitRing(ring []*hw.TxDescriptor) error {
	e.tx = ring
	return nil
}

func (e *testEngine) BindInterrupt(src hw.IrqSource, fn func()) error {
	return e.vector.Bind(src, fn)
}

func (e *testEngine) Start() error {
	e.vector.Seal()
	e.started = true
	return nil
}

func (e *testEngine) Stop() {
	e.started = false
}

func (e *testEngine) TransmitDemand() {
	e.demands++
}

func (e *testEngine) ResumeReceive() {
	e.resumes++
}

func (e *testEngine) Status() hw.DMAStatus {
	return e.status
}

func (e *testEngine) ClearStatus(bits hw.DMAStatus) {
	e.cleared = append(e.cleared, bits)
	e.status &^= bits
}

// fill writes one frame into the ring in segments of at most seg
// bytes (0 means whole buffers), or'ing extra into the last
// descriptor's status. It does not raise the interrupt.
func (e *testEngine) fill(t *testing.T, raw []byte, seg int, extra hw.RxStatus) {
	t.Helper()
	for off := 0; off < len(raw); {
		d := e.rx[e.rxNext]
		require.Equal(t, hw.OwnedByDMA, d.Owner(), "ring out of descriptors")
		n := len(raw) - off
		if seg > 0 && n > seg {
			n = seg
		}
		if n > len(d.Buffer) {
			n = len(d.Buffer)
		}
		copy(d.Buffer, raw[off:off+n])
		d.Length = n
		d.Status = 0
		if off == 0 {
			d.Status |= hw.RxFirst
		}
		off += n
		if off == len(raw) {
			d.Status |= hw.RxLast | extra
		}
		d.Release(hw.OwnedByDriver)
		e.rxNext = (e.rxNext + 1) % len(e.rx)
	}
	e.status |= hw.DMAReceiveDone
}

func (e *testEngine) raiseRx() {
	e.vector.Raise(hw.IrqReceive)
}

// completeTx hands queued descriptors back with st and raises the
// transmit line. It returns a copy of each frame drained.
func (e *testEngine) completeTx(st hw.TxStatus) [][]byte {
	var sent [][]byte
	for {
		d := e.tx[e.txNext]
		if d.Owner() != hw.OwnedByDMA {
			break
		}
		sent = append(sent, append([]byte(nil), d.Data...))
		d.Status = st
		d.Release(hw.OwnedByDriver)
		e.txNext = (e.txNext + 1) % len(e.tx)
	}
	e.status |= hw.DMATransmitDone
	e.vector.Raise(hw.IrqTransmit)
	return sent
}

// fault latches abnormal bits and raises the error line.
func (e *testEngine) fault(bits hw.DMAStatus) {
	e.status |= bits
	e.vector.Raise(hw.IrqError)
}

// recordingSink captures every notification.
type recordingSink struct {
	frames []*frame.Frame
	sends  []*Buffer
	errs   []*Error
}

func (s *recordingSink) HandleFrame(f *frame.Frame) {
	s.frames = append(s.frames, f)
}

func (s *recordingSink) HandleSendComplete(b *Buffer) {
	s.sends = append(s.sends, b)
}

func (s *recordingSink) HandleDriverError(e *Error) {
	s.errs = append(s.errs, e)
}

func (s *recordingSink) notifications() Notifications {
	return Notifications{Frames: s, Sends: s, Errors: s}
}

func (s *recordingSink) codes() []ErrorCode {
	var codes []ErrorCode
	for _, e := range s.errs {
		codes = append(codes, e.Code)
	}
	return codes
}

func testParameters() Parameters {
	p := DefaultParameters()
	p.Address = frame.MacAddress{0x02, 0x00, 0x00, 0x00, 0x00, 0x0a}
	p.TxWait = 5 * time.Millisecond
	return p
}

func newTestDriver(t *testing.T) (*Driver, *testEngine, *recordingSink) {
	t.Helper()
	engine := &testEngine{}
	sink := &recordingSink{}
	d, err := New(engine, testParameters(), sink.notifications())
	require.NoError(t, err)
	require.NoError(t, d.Start())
	return d, engine, sink
}

func rxFrameFor(d *Driver, payload []byte) *frame.Frame {
	return &frame.Frame{
		Header:  frame.Header{Dest: d.Address(), Source: peer, Type: frame.EtherTypeIPv4},
		Payload: payload,
	}
}

func TestNewArmsReceiveRing(t *testing.T) {
	engine := &testEngine{}
	d, err := New(engine, testParameters(), Notifications{})
	require.NoError(t, err)
	require.Len(t, engine.rx, 5)
	require.Len(t, engine.tx, 5)
	for _, desc := range engine.rx {
		require.Equal(t, hw.OwnedByDMA, desc.Owner())
		require.Len(t, desc.Buffer, testParameters().FrameSize())
	}
	for _, desc := range engine.tx {
		require.Equal(t, hw.OwnedByDriver, desc.Owner())
		require.Nil(t, desc.Data)
	}
	require.Equal(t, testParameters().Address, engine.addr)
	require.False(t, d.Started())
}

func TestNewRejectsBadParameters(t *testing.T) {
	p := testParameters()
	p.Mtu = 1
	_, err := New(&testEngine{}, p, Notifications{})
	require.Error(t, err)
}

func TestStartTwice(t *testing.T) {
	d, _, _ := newTestDriver(t)
	require.Equal(t, ErrStarted, d.Start())
}

func TestStop(t *testing.T) {
	d, engine, _ := newTestDriver(t)
	d.Stop()
	require.False(t, engine.started)
	require.False(t, d.Started())
	require.Equal(t, ErrNotStarted, d.Send(peer, frame.EtherTypeIPv4, NewBuffer(4)))
	d.Stop()
}

func TestSendAndComplete(t *testing.T) {
	d, engine, sink := newTestDriver(t)
	payload := []byte("ping over the wire")
	b := NewBufferFrom(payload)
	require.NoError(t, d.Send(peer, frame.EtherTypeEcho, b))
	require.Equal(t, 1, engine.demands)
	require.Empty(t, sink.sends)

	sent := engine.completeTx(0)
	require.Len(t, sent, 1)
	f, err := frame.Parse(sent[0])
	require.NoError(t, err)
	require.Equal(t, peer, f.Dest)
	require.Equal(t, d.Address(), f.Source)
	require.Equal(t, frame.EtherTypeEcho, f.Type)
	require.Equal(t, payload, f.Payload)

	require.Len(t, sink.sends, 1)
	require.True(t, sink.sends[0] == b, "completion must carry the same buffer")
	require.Empty(t, sink.errs)

	st := d.Stats()
	require.Equal(t, uint64(1), st.TxFrames)
	require.Equal(t, uint64(len(payload)+frame.HeaderSize), st.TxBytes)
}

func TestSendTooBig(t *testing.T) {
	d, engine, sink := newTestDriver(t)
	b := NewBuffer(d.Parameters().Mtu + 1)
	err := d.Send(peer, frame.EtherTypeIPv4, b)
	require.True(t, IsCode(err, ErrTooBig))
	require.Zero(t, engine.demands)
	require.Empty(t, engine.completeTx(0))
	require.Empty(t, sink.sends)
}

func TestSendFlashBuffer(t *testing.T) {
	d, _, _ := newTestDriver(t)
	err := d.Send(peer, frame.EtherTypeIPv4, FlashBuffer([]byte("in flash")))
	require.True(t, IsCode(err, ErrNoFlashData))
}

func TestSendNotStarted(t *testing.T) {
	d, err := New(&testEngine{}, testParameters(), Notifications{})
	require.NoError(t, err)
	require.Equal(t, ErrNotStarted, d.Send(peer, frame.EtherTypeIPv4, NewBuffer(8)))
}

func TestSendBusy(t *testing.T) {
	d, engine, sink := newTestDriver(t)
	require.NoError(t, d.Send(peer, frame.EtherTypeIPv4, NewBuffer(16)))

	err := d.Send(peer, frame.EtherTypeIPv4, NewBuffer(16))
	require.True(t, IsCode(err, ErrBusy))

	engine.completeTx(0)
	require.Len(t, sink.sends, 1)
	require.NoError(t, d.Send(peer, frame.EtherTypeIPv4, NewBuffer(16)))
}

func TestSendWaitsForCompletion(t *testing.T) {
	d, engine, _ := newTestDriver(t)
	require.NoError(t, d.Send(peer, frame.EtherTypeIPv4, NewBuffer(8)))
	go func() {
		time.Sleep(time.Millisecond)
		engine.completeTx(0)
	}()
	require.NoError(t, d.Send(peer, frame.EtherTypeIPv4, NewBuffer(8)))
}

func TestSendRingWraps(t *testing.T) {
	d, engine, sink := newTestDriver(t)
	count := 2 * len(engine.tx)
	for i := 0; i < count; i++ {
		require.NoError(t, d.Send(peer, frame.EtherTypeIPv4, NewBufferFrom([]byte{byte(i)})))
		engine.completeTx(0)
	}
	require.Len(t, sink.sends, count)
	require.Empty(t, sink.errs)
	require.Equal(t, uint64(count), d.Stats().TxFrames)
}

func TestSendCompleteWithError(t *testing.T) {
	d, engine, sink := newTestDriver(t)
	require.NoError(t, d.Send(peer, frame.EtherTypeIPv4, NewBuffer(16)))
	engine.completeTx(hw.TxErrorSummary | hw.TxUnderflow)
	require.Empty(t, sink.sends)
	require.Equal(t, []ErrorCode{ErrTransmitUnderflow}, sink.codes())
	require.Equal(t, uint64(1), d.Stats().TxErrors)

	// the failed slot is free again
	require.NoError(t, d.Send(peer, frame.EtherTypeIPv4, NewBuffer(16)))
}

func TestReceiveSingleFrame(t *testing.T) {
	d, engine, sink := newTestDriver(t)
	f := rxFrameFor(d, []byte("data"))
	engine.fill(t, f.Bytes(), 0, 0)
	engine.raiseRx()

	require.Len(t, sink.frames, 1)
	require.Equal(t, f.Header, sink.frames[0].Header)
	require.Equal(t, f.Payload, sink.frames[0].Payload)
	require.True(t, d.rx.armed())
	require.Equal(t, 1, engine.resumes)
	require.Equal(t, []hw.DMAStatus{hw.DMAReceiveDone}, engine.cleared)
	require.Zero(t, engine.status&hw.DMAReceiveDone)
	require.Equal(t, uint64(1), d.Stats().RxFrames)
}

func TestReceiveInOrder(t *testing.T) {
	d, engine, sink := newTestDriver(t)
	for i := 0; i < 3; i++ {
		engine.fill(t, rxFrameFor(d, []byte{byte(i)}).Bytes(), 0, 0)
	}
	engine.raiseRx()

	require.Len(t, sink.frames, 3)
	for i := 0; i < 3; i++ {
		require.Equal(t, []byte{byte(i)}, sink.frames[i].Payload)
	}
	require.True(t, d.rx.armed())
}

func TestReceiveChained(t *testing.T) {
	d, engine, sink := newTestDriver(t)
	payload := bytes.Repeat([]byte{0xab}, 40)
	f := rxFrameFor(d, payload)
	engine.fill(t, f.Bytes(), 13, 0) // 54 bytes over five descriptors
	engine.raiseRx()

	require.Len(t, sink.frames, 1)
	require.Equal(t, payload, sink.frames[0].Payload)
	require.True(t, d.rx.armed())
}

func TestReceivePartialChainWaits(t *testing.T) {
	d, engine, sink := newTestDriver(t)
	raw := rxFrameFor(d, bytes.Repeat([]byte{0x11}, 26)).Bytes()

	d0 := engine.rx[0]
	copy(d0.Buffer, raw[:20])
	d0.Length = 20
	d0.Status = hw.RxFirst
	d0.Release(hw.OwnedByDriver)
	engine.rxNext = 1
	engine.status |= hw.DMAReceiveDone
	engine.raiseRx()

	require.Empty(t, sink.frames)
	require.Empty(t, sink.errs)
	require.Equal(t, hw.OwnedByDriver, d0.Owner(), "head segment stays until the tail arrives")

	d1 := engine.rx[1]
	copy(d1.Buffer, raw[20:])
	d1.Length = len(raw) - 20
	d1.Status = hw.RxLast
	d1.Release(hw.OwnedByDriver)
	engine.rxNext = 2
	engine.status |= hw.DMAReceiveDone
	engine.raiseRx()

	require.Len(t, sink.frames, 1)
	require.Equal(t, raw[frame.HeaderSize:], sink.frames[0].Payload)
	require.True(t, d.rx.armed())
}

func TestReceiveStatusError(t *testing.T) {
	d, engine, sink := newTestDriver(t)
	engine.fill(t, rxFrameFor(d, []byte("bad")).Bytes(), 0, hw.RxErrorSummary|hw.RxCRCError)
	engine.raiseRx()

	require.Empty(t, sink.frames)
	require.Equal(t, []ErrorCode{ErrCrc}, sink.codes())
	require.NotZero(t, sink.errs[0].Cause&uint32(hw.RxCRCError))
	require.True(t, d.rx.armed())
	require.Equal(t, uint64(1), d.Stats().RxErrors)
}

func TestReceive8023Frame(t *testing.T) {
	d, engine, sink := newTestDriver(t)
	f := rxFrameFor(d, make([]byte, 46))
	f.Type = frame.EtherType(46)
	engine.fill(t, f.Bytes(), 0, 0)
	engine.raiseRx()

	require.Empty(t, sink.frames)
	require.Equal(t, []ErrorCode{ErrUnsupported8023Frame}, sink.codes())
	require.True(t, d.rx.armed())
}

func TestReceiveOversizeFrame(t *testing.T) {
	d, engine, sink := newTestDriver(t)
	raw := make([]byte, testParameters().FrameSize()+8)
	hdr := frame.Header{Dest: d.Address(), Source: peer, Type: frame.EtherTypeIPv4}
	hdr.Put(raw)
	engine.fill(t, raw, 0, 0)
	engine.raiseRx()

	require.Empty(t, sink.frames)
	require.Equal(t, []ErrorCode{ErrTooBig}, sink.codes())
	require.True(t, d.rx.armed())
}

func TestReceiveStraySegment(t *testing.T) {
	d, engine, sink := newTestDriver(t)
	d0 := engine.rx[0]
	d0.Length = 4
	d0.Status = hw.RxLast // no frame start
	d0.Release(hw.OwnedByDriver)
	engine.status |= hw.DMAReceiveDone
	engine.raiseRx()

	require.Empty(t, sink.frames)
	require.Equal(t, []ErrorCode{ErrReceive}, sink.codes())
	require.True(t, d.rx.armed())
}

func TestReceiveUnterminatedRing(t *testing.T) {
	d, engine, sink := newTestDriver(t)
	for i, desc := range engine.rx {
		desc.Length = 10
		desc.Status = 0
		if i == 0 {
			desc.Status = hw.RxFirst
		}
		desc.Release(hw.OwnedByDriver)
	}
	engine.status |= hw.DMAReceiveDone
	engine.raiseRx()

	require.Empty(t, sink.frames)
	require.Equal(t, []ErrorCode{ErrTruncated}, sink.codes())
	require.True(t, d.rx.armed(), "a wedged chain must not deadlock the ring")
}

func TestReceiveIdleRaise(t *testing.T) {
	d, engine, sink := newTestDriver(t)
	engine.raiseRx()
	require.Empty(t, sink.frames)
	require.Empty(t, sink.errs)
	require.Zero(t, engine.resumes)
	require.True(t, d.rx.armed())
}

func TestErrorInterruptOnePerBit(t *testing.T) {
	d, engine, sink := newTestDriver(t)
	engine.fault(hw.DMAReceiveWatchdog | hw.DMALateCollision)

	require.Equal(t, []ErrorCode{ErrReceiveWatchdogTimeout, ErrLateCollision}, sink.codes())
	for _, e := range sink.errs {
		require.Equal(t, uint32(hw.DMAReceiveWatchdog|hw.DMALateCollision), e.Cause)
	}
	require.Equal(t, []hw.DMAStatus{hw.DMAReceiveWatchdog | hw.DMALateCollision}, engine.cleared)
	require.Zero(t, engine.status)
	require.Equal(t, uint64(2), d.Stats().Faults)
}

func TestErrorInterruptIgnoresNormalBits(t *testing.T) {
	d, engine, sink := newTestDriver(t)
	engine.status |= hw.DMAReceiveDone
	engine.fault(0)

	require.Empty(t, sink.errs)
	require.Empty(t, engine.cleared)
	require.Zero(t, d.Stats().Faults)
}

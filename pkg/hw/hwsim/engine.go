// Package hwsim is a software model of the MAC/DMA engine. It drives
// the same descriptor rings a real controller would, with a
// wire.FrameReadWriter standing in for the PHY, and delivers
// interrupts from a single dispatch goroutine the way a CPU delivers
// them from interrupt context.
package hwsim

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/golang/glog"

	"github.com/iromero91/emac.go/pkg/frame"
	"github.com/iromero91/emac.go/pkg/hw"
	"github.com/iromero91/emac.go/pkg/wire"
)

var (
	// ErrRunning indicates a reconfiguration while the engine runs.
	ErrRunning = errors.New("engine running")
	// ErrBadRing indicates an unusable descriptor ring.
	ErrBadRing = errors.New("bad descriptor ring")
	// ErrNoRing indicates Start before both rings were attached.
	ErrNoRing = errors.New("descriptor ring not attached")
)

const raiseDepth = 64

// Options tunes the simulated controller.
type Options struct {
	// SegmentSize caps how many bytes the engine writes into one
	// receive descriptor, forcing frames to chain. 0 fills each
	// buffer.
	SegmentSize int
	// Latency delays every transmitted frame.
	Latency time.Duration
}

// Engine implements hw.Engine over a frame link.
type Engine struct {
	opts Options
	link wire.FrameReadWriter

	vector hw.Vector
	mac    frame.MacAddress

	mu       sync.Mutex
	rx       []*hw.RxDescriptor
	tx       []*hw.TxDescriptor
	rxNext   int
	txNext   int
	txFault  hw.TxStatus
	rxPoison hw.RxStatus
	running  bool
	reading  bool

	status uint32

	frames chan []byte
	demand chan struct{}
	resume chan struct{}
	raises chan hw.IrqSource
	done   chan struct{}
	wg     sync.WaitGroup
}

// New creates an engine attached to link.
func New(link wire.FrameReadWriter, opts Options) *Engine {
	return &Engine{
		opts:   opts,
		link:   link,
		frames: make(chan []byte),
		demand: make(chan struct{}, 1),
		resume: make(chan struct{}, 1),
		raises: make(chan hw.IrqSource, raiseDepth),
	}
}

// SetMacAddress implements hw.Engine. Program the filter before
// Start.
func (e *Engine) SetMacAddress(addr frame.MacAddress) {
	e.mac = addr
}

// AttachReceiveRing implements hw.Engine.
func (e *Engine) AttachReceiveRing(ring []*hw.RxDescriptor) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running {
		return ErrRunning
	}
	if len(ring) == 0 {
		return ErrBadRing
	}
	for _, d := range ring {
		if d == nil || len(d.Buffer) == 0 {
			return ErrBadRing
		}
	}
	e.rx, e.rxNext = ring, 0
	return nil
}

// AttachTransmitRing implements hw.Engine.
func (e *Engine) AttachTransmitRing(ring []*hw.TxDescriptor) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running {
		return ErrRunning
	}
	if len(ring) == 0 {
		return ErrBadRing
	}
	for _, d := range ring {
		if d == nil {
			return ErrBadRing
		}
	}
	e.tx, e.txNext = ring, 0
	return nil
}

// BindInterrupt implements hw.Engine.
func (e *Engine) BindInterrupt(src hw.IrqSource, fn func()) error {
	return e.vector.Bind(src, fn)
}

// Start implements hw.Engine. It seals the interrupt vector and
// spawns the receive pump, the transmit scanner and the interrupt
// dispatcher.
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running {
		return ErrRunning
	}
	if len(e.rx) == 0 || len(e.tx) == 0 {
		return ErrNoRing
	}
	e.vector.Seal()
	e.done = make(chan struct{})
	e.running = true
	if !e.reading {
		e.reading = true
		go e.read()
	}
	e.wg.Add(3)
	go e.dispatch()
	go e.pump()
	go e.scan()
	return nil
}

// Stop implements hw.Engine. Descriptors the engine holds stay
// DMA owned.
func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return
	}
	e.running = false
	close(e.done)
	e.mu.Unlock()
	e.wg.Wait()
}

// TransmitDemand implements hw.Engine.
func (e *Engine) TransmitDemand() {
	select {
	case e.demand <- struct{}{}:
	default:
	}
}

// ResumeReceive implements hw.Engine.
func (e *Engine) ResumeReceive() {
	select {
	case e.resume <- struct{}{}:
	default:
	}
}

// Status implements hw.Engine.
func (e *Engine) Status() hw.DMAStatus {
	return hw.DMAStatus(atomic.LoadUint32(&e.status))
}

// ClearStatus implements hw.Engine.
func (e *Engine) ClearStatus(bits hw.DMAStatus) {
	for {
		old := atomic.LoadUint32(&e.status)
		if atomic.CompareAndSwapUint32(&e.status, old, old&^uint32(bits)) {
			return
		}
	}
}

// InjectFault sets abnormal status bits and raises the error
// interrupt, as a controller fault would.
func (e *Engine) InjectFault(bits hw.DMAStatus) {
	e.setStatus(bits)
	e.raise(hw.IrqError)
}

// InjectTxFault makes the next transmit complete with status instead
// of going out on the link. The error summary bit is set implicitly.
func (e *Engine) InjectTxFault(status hw.TxStatus) {
	e.mu.Lock()
	e.txFault = status | hw.TxErrorSummary
	e.mu.Unlock()
}

// InjectRxStatus poisons the closing status of the next received
// frame. The error summary bit is set implicitly.
func (e *Engine) InjectRxStatus(bits hw.RxStatus) {
	e.mu.Lock()
	e.rxPoison = bits | hw.RxErrorSummary
	e.mu.Unlock()
}

func (e *Engine) setStatus(bits hw.DMAStatus) {
	for {
		old := atomic.LoadUint32(&e.status)
		if atomic.CompareAndSwapUint32(&e.status, old, old|uint32(bits)) {
			return
		}
	}
}

// raise queues one interrupt for the dispatcher. A full queue only
// happens when many raises of the same source are already pending,
// and the drain style handlers coalesce those, so dropping is safe.
func (e *Engine) raise(src hw.IrqSource) {
	select {
	case e.raises <- src:
	default:
		glog.Warningf("hwsim: interrupt queue overrun, %v dropped", src)
	}
}

// read pulls frames off the link for the lifetime of the engine,
// across Start/Stop cycles.
func (e *Engine) read() {
	for {
		data, err := e.link.ReadFrame()
		if err != nil {
			glog.V(2).Infof("hwsim: link down: %v", err)
			close(e.frames)
			return
		}
		e.frames <- data
	}
}

func (e *Engine) dispatch() {
	defer e.wg.Done()
	for {
		select {
		case src := <-e.raises:
			e.vector.Raise(src)
		case <-e.done:
			return
		}
	}
}

func (e *Engine) pump() {
	defer e.wg.Done()
	for {
		select {
		case <-e.done:
			return
		case data, ok := <-e.frames:
			if !ok {
				e.setStatus(hw.DMAFatalBusError)
				e.raise(hw.IrqError)
				return
			}
			if !e.accepts(data) {
				continue
			}
			if !e.deliver(data) {
				// receive ring exhausted, drop the frame and
				// park until descriptors come back
				e.setStatus(hw.DMAReceiveBufferUnavailable)
				e.raise(hw.IrqError)
				select {
				case <-e.resume:
				case <-e.done:
					return
				}
				continue
			}
			e.setStatus(hw.DMAReceiveDone)
			e.raise(hw.IrqReceive)
		}
	}
}

// accepts applies the address filter: our unicast address, plus
// every group address. Runts pass through for the driver to reject.
func (e *Engine) accepts(data []byte) bool {
	if len(data) < frame.HeaderSize {
		return true
	}
	var dest frame.MacAddress
	copy(dest[:], data[:frame.MacLength])
	return dest == e.mac || dest.IsMulticast()
}

// deliver writes one frame into consecutive DMA owned receive
// descriptors. It reports false when the ring cannot take the frame
// yet. A frame larger than the whole ring is cut short and flagged
// truncated.
func (e *Engine) deliver(data []byte) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	n := len(e.rx)
	avail, capacity := 0, 0
	for avail < n && e.rx[(e.rxNext+avail)%n].Owner() == hw.OwnedByDMA {
		capacity += e.segmentCap(e.rx[(e.rxNext+avail)%n])
		avail++
	}
	if avail == 0 || (capacity < len(data) && avail < n) {
		return false
	}

	remaining := data
	first := true
	for {
		d := e.rx[e.rxNext]
		seg := e.segmentCap(d)
		if seg > len(remaining) {
			seg = len(remaining)
		}
		copy(d.Buffer[:seg], remaining[:seg])
		remaining = remaining[seg:]
		avail--

		var st hw.RxStatus
		if first {
			st |= hw.RxFirst
			first = false
		}
		last := len(remaining) == 0 || avail == 0
		if last {
			st |= hw.RxLast
			if len(remaining) > 0 {
				st |= hw.RxTruncated | hw.RxErrorSummary
			}
			st |= e.rxPoison
			e.rxPoison = 0
		}
		d.Status = st
		d.Length = seg
		d.Release(hw.OwnedByDriver)
		e.rxNext = (e.rxNext + 1) % n
		if last {
			return true
		}
	}
}

func (e *Engine) segmentCap(d *hw.RxDescriptor) int {
	c := len(d.Buffer)
	if s := e.opts.SegmentSize; s > 0 && s < c {
		c = s
	}
	return c
}

func (e *Engine) scan() {
	defer e.wg.Done()
	for {
		select {
		case <-e.done:
			return
		case <-e.demand:
		}
		for {
			d, data, fault := e.nextTx()
			if d == nil {
				break
			}
			if e.opts.Latency > 0 {
				select {
				case <-time.After(e.opts.Latency):
				case <-e.done:
					return
				}
			}
			status := fault
			if status == 0 {
				if err := e.link.WriteFrame(data); err != nil {
					status = hw.TxNoCarrier | hw.TxErrorSummary
				}
			}
			d.Status = status
			d.Release(hw.OwnedByDriver)
			e.setStatus(hw.DMATransmitDone)
			e.raise(hw.IrqTransmit)
		}
	}
}

// nextTx claims the next DMA owned transmit descriptor. The
// descriptor stays with the engine until the completion status is
// written back.
func (e *Engine) nextTx() (*hw.TxDescriptor, []byte, hw.TxStatus) {
	e.mu.Lock()
	defer e.mu.Unlock()
	d := e.tx[e.txNext]
	if d.Owner() != hw.OwnedByDMA {
		return nil, nil, 0
	}
	e.txNext = (e.txNext + 1) % len(e.tx)
	data := append([]byte(nil), d.Data...)
	fault := e.txFault
	e.txFault = 0
	return d, data, fault
}

package mac

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/golang/glog"

	"github.com/iromero91/emac.go/pkg/frame"
	"github.com/iromero91/emac.go/pkg/hw"
)

// Driver is the Ethernet MAC driver core. It owns the descriptor
// rings, moves frames in and out through an Engine and reports
// everything asynchronous through its Notifications bundle.
type Driver struct {
	engine hw.Engine
	params Parameters
	notif  Notifications
	counts *counters

	mu      sync.Mutex
	rx      *rxRing
	tx      *txRing
	bound   bool
	started bool
}

// New builds a driver over engine: validates params, allocates both
// descriptor rings (every receive descriptor armed for the engine,
// every transmit slot free) and programs the address filter. No
// interrupt is live until Start.
func New(engine hw.Engine, params Parameters, notif Notifications) (*Driver, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	d := &Driver{
		engine: engine,
		params: params,
		notif:  notif,
		counts: &counters{},
		rx:     newRxRing(params.ReceiveBufferCount, params.FrameSize()),
		tx:     newTxRing(params.TransmitBufferCount),
	}
	engine.SetMacAddress(params.Address)
	if err := engine.AttachReceiveRing(d.rx.descs); err != nil {
		return nil, err
	}
	if err := engine.AttachTransmitRing(d.tx.descs); err != nil {
		return nil, err
	}
	return d, nil
}

// Address returns the configured unicast address.
func (d *Driver) Address() frame.MacAddress {
	return d.params.Address
}

// Parameters returns the configuration the driver runs with.
func (d *Driver) Parameters() Parameters {
	return d.params
}

// Stats returns a snapshot of the cumulative counters.
func (d *Driver) Stats() Stats {
	return d.counts.snapshot()
}

// RingView is a point in time snapshot of one descriptor ring for
// inspection surfaces. Ownership words are read atomically but the
// slots are not a consistent cut.
type RingView struct {
	// Owners holds the ownership word of each slot in ring order.
	Owners []hw.Owner `json:"owners"`
	// Next is the slot the driver inspects next.
	Next int `json:"next"`
}

// Rings snapshots the receive and transmit rings.
func (d *Driver) Rings() (rx, tx RingView) {
	d.mu.Lock()
	defer d.mu.Unlock()
	rx = RingView{Owners: make([]hw.Owner, len(d.rx.descs)), Next: d.rx.next}
	for i, desc := range d.rx.descs {
		rx.Owners[i] = desc.Owner()
	}
	tx = RingView{Owners: make([]hw.Owner, len(d.tx.descs)), Next: d.tx.tail}
	for i, desc := range d.tx.descs {
		tx.Owners[i] = desc.Owner()
	}
	return rx, tx
}

// Started reports whether the driver is running.
func (d *Driver) Started() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.started
}

// Start binds the three interrupt handlers into the engine's vector
// and starts the engine. The receive path is live from here on.
func (d *Driver) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started {
		return ErrStarted
	}
	if !d.bound {
		if err := d.engine.BindInterrupt(hw.IrqReceive, d.HandleReceiveInterrupt); err != nil {
			return err
		}
		if err := d.engine.BindInterrupt(hw.IrqTransmit, d.HandleTransmitInterrupt); err != nil {
			return err
		}
		if err := d.engine.BindInterrupt(hw.IrqError, d.HandleErrorInterrupt); err != nil {
			return err
		}
		d.bound = true
	}
	if err := d.engine.Start(); err != nil {
		return err
	}
	d.started = true
	glog.V(2).Infof("emac: started, address %v", d.params.Address)
	return nil
}

// Stop halts the engine. Buffers still in flight are not handed
// back.
func (d *Driver) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.started {
		return
	}
	d.engine.Stop()
	d.started = false
}

// Send queues one frame. The configured source address, dest and
// etherType are stamped into the buffer headroom ahead of the
// payload, and the buffer is borrowed until the matching send
// complete or transmit error notification ends the borrow.
//
// Send fails synchronously with ErrTooBig when the payload exceeds
// the MTU, ErrNoFlashData when the buffer is out of the engine's
// reach, and ErrBusy when the previous frame has not completed
// within TxWait. The wait spins on the caller's goroutine, never on
// an interrupt path.
func (d *Driver) Send(dest frame.MacAddress, etherType frame.EtherType, b *Buffer) error {
	if b.InFlash() {
		return newError(ErrNoFlashData, 0)
	}
	if len(b.Payload()) > d.params.Mtu {
		return newError(ErrTooBig, 0)
	}
	deadline := time.Now().Add(d.params.TxWait)
	for {
		d.mu.Lock()
		if !d.started {
			d.mu.Unlock()
			return ErrNotStarted
		}
		if d.tx.idle() {
			hdr := frame.Header{Dest: dest, Source: d.params.Address, Type: etherType}
			hdr.Put(b.header())
			d.tx.queue(b)
			d.mu.Unlock()
			d.engine.TransmitDemand()
			return nil
		}
		d.mu.Unlock()
		if !time.Now().Before(deadline) {
			return newError(ErrBusy, 0)
		}
		runtime.Gosched()
	}
}

// HandleReceiveInterrupt is the receive completion entry point. It
// drains every completed descriptor, delivers whole frames in ring
// order, re-arms the consumed descriptors and clears the pending bit
// last, so a frame landing mid drain is caught either by this pass
// or by the re-raised interrupt.
func (d *Driver) HandleReceiveInterrupt() {
	consumed := false
	for {
		d.mu.Lock()
		res, data, derr := d.rx.collect()
		d.mu.Unlock()
		switch res {
		case rxFrame:
			consumed = true
			d.deliver(data)
		case rxFault:
			consumed = true
			atomic.AddUint64(&d.counts.rxErrors, 1)
			d.notifyError(derr)
		default:
			if consumed {
				d.engine.ResumeReceive()
			}
			d.engine.ClearStatus(hw.DMAReceiveDone)
			return
		}
	}
}

// deliver validates one assembled frame and hands it to the sink.
func (d *Driver) deliver(data []byte) {
	if len(data) > d.params.FrameSize() {
		atomic.AddUint64(&d.counts.rxErrors, 1)
		d.notifyError(newError(ErrTooBig, 0))
		return
	}
	f, err := frame.Parse(data)
	if err != nil {
		atomic.AddUint64(&d.counts.rxErrors, 1)
		if err == frame.ErrLengthFramed {
			d.notifyError(newError(ErrUnsupported8023Frame, 0))
		} else {
			d.notifyError(newError(ErrReceive, 0))
		}
		return
	}
	d.counts.countRx(len(data))
	glog.V(2).Infof("emac: rx %v", f)
	if d.notif.Frames != nil {
		d.notif.Frames.HandleFrame(f)
	}
}

// txCompletion is one drained transmit slot.
type txCompletion struct {
	status hw.TxStatus
	buffer *Buffer
}

// HandleTransmitInterrupt is the transmit completion entry point. It
// dispatches one notification per returned slot in submission order,
// ending the buffer borrow even when the transmit failed, and clears
// the pending bit last.
func (d *Driver) HandleTransmitInterrupt() {
	var comps []txCompletion
	d.mu.Lock()
	for {
		desc, buf, ok := d.tx.done()
		if !ok {
			break
		}
		comps = append(comps, txCompletion{status: desc.Status, buffer: buf})
		d.tx.release()
	}
	d.mu.Unlock()
	for _, c := range comps {
		if c.status.HasError() {
			atomic.AddUint64(&d.counts.txErrors, 1)
			d.notifyError(txStatusError(c.status))
			continue
		}
		d.counts.countTx(len(c.buffer.Bytes()))
		glog.V(2).Infof("emac: tx done, %d bytes", len(c.buffer.Bytes()))
		if d.notif.Sends != nil {
			d.notif.Sends.HandleSendComplete(c.buffer)
		}
	}
	d.engine.ClearStatus(hw.DMATransmitDone)
}

// HandleErrorInterrupt is the abnormal status entry point. One error
// is dispatched per set fault bit, each carrying the whole status
// word as its cause, and exactly the consumed bits are cleared.
func (d *Driver) HandleErrorInterrupt() {
	status := d.engine.Status() & hw.DMAAbnormalMask
	if status == 0 {
		return
	}
	glog.V(2).Infof("emac: abnormal status %v", status)
	for _, bit := range status.Split() {
		atomic.AddUint64(&d.counts.faults, 1)
		d.notifyError(newError(dmaErrorCode(bit), uint32(status)))
	}
	d.engine.ClearStatus(status)
}

// notifyError pushes a fault to the sink, or logs it when no error
// capability is bound so faults are never silently lost.
func (d *Driver) notifyError(e *Error) {
	if d.notif.Errors != nil {
		d.notif.Errors.HandleDriverError(e)
		return
	}
	glog.Warningf("emac: dropped: %v", e)
}

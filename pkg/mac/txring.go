package mac

import "github.com/iromero91/emac.go/pkg/hw"

// txRing is the transmit descriptor ring plus the in-flight buffer
// bookkeeping. A slot is free when the driver owns the descriptor
// and no buffer is tracked, pending while the engine owns it, and
// done when it came back still carrying its buffer, until the
// completion is dispatched. Pending slots turn free only through the
// transmit completion path.
type txRing struct {
	descs   []*hw.TxDescriptor
	buffers []*Buffer
	head    int // next slot queue claims
	tail    int // next slot the completion path inspects
}

// newTxRing allocates descriptors only. Transmit data stays in
// caller buffers for the time a frame is in flight.
func newTxRing(count int) *txRing {
	r := &txRing{
		descs:   make([]*hw.TxDescriptor, count),
		buffers: make([]*Buffer, count),
	}
	for i := range r.descs {
		r.descs[i] = &hw.TxDescriptor{}
	}
	return r
}

// idle reports whether no frame is in flight or awaiting completion
// dispatch.
func (r *txRing) idle() bool {
	for _, b := range r.buffers {
		if b != nil {
			return false
		}
	}
	return true
}

// queue points the head slot at the frame bytes and hands it to the
// engine.
func (r *txRing) queue(b *Buffer) {
	d := r.descs[r.head]
	r.buffers[r.head] = b
	d.Status = 0
	d.Data = b.Bytes()
	d.Release(hw.OwnedByDMA)
	r.head = (r.head + 1) % len(r.descs)
}

// done returns the tail slot if the engine handed it back.
func (r *txRing) done() (*hw.TxDescriptor, *Buffer, bool) {
	d := r.descs[r.tail]
	b := r.buffers[r.tail]
	if b == nil || d.Owner() != hw.OwnedByDriver {
		return nil, nil, false
	}
	return d, b, true
}

// release frees the tail slot after its completion was dispatched.
func (r *txRing) release() {
	d := r.descs[r.tail]
	r.buffers[r.tail] = nil
	d.Data = nil
	d.Status = 0
	r.tail = (r.tail + 1) % len(r.descs)
}

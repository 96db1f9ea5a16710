package mac

import "github.com/iromero91/emac.go/pkg/hw"

// rxResult tells what collect consumed.
type rxResult int

const (
	// rxIdle: nothing ready under the cursor.
	rxIdle rxResult = iota
	// rxFrame: one whole frame assembled, its descriptors re-armed.
	rxFrame
	// rxFault: one fault consumed, its descriptors re-armed.
	rxFault
	// rxPartial: a frame starts under the cursor but its tail has
	// not arrived yet; nothing consumed.
	rxPartial
)

// rxRing is the receive descriptor ring. Every descriptor belongs to
// the engine except while the driver drains a completed one; a
// single cursor walks the ring in order.
type rxRing struct {
	descs []*hw.RxDescriptor
	next  int
}

func newRxRing(count, bufSize int) *rxRing {
	r := &rxRing{descs: make([]*hw.RxDescriptor, count)}
	for i := range r.descs {
		d := &hw.RxDescriptor{Buffer: make([]byte, bufSize)}
		d.Release(hw.OwnedByDMA)
		r.descs[i] = d
	}
	return r
}

// rearm hands the cursor descriptor back to the engine and advances.
func (r *rxRing) rearm() {
	d := r.descs[r.next]
	d.Status = 0
	d.Length = 0
	d.Release(hw.OwnedByDMA)
	r.next = (r.next + 1) % len(r.descs)
}

// drop re-arms n descriptors from the cursor.
func (r *rxRing) drop(n int) {
	for ; n > 0; n-- {
		r.rearm()
	}
}

// armed reports whether every descriptor currently belongs to the
// engine.
func (r *rxRing) armed() bool {
	for _, d := range r.descs {
		if d.Owner() != hw.OwnedByDMA {
			return false
		}
	}
	return true
}

// collect consumes at most one whole frame or fault from the cursor.
// Frame bytes are copied out before the descriptors go back to the
// engine. However a chain is malformed, exactly one fault comes out
// of it and the ring keeps moving.
func (r *rxRing) collect() (rxResult, []byte, *Error) {
	head := r.descs[r.next]
	if head.Owner() != hw.OwnedByDriver {
		return rxIdle, nil, nil
	}
	if head.Status&hw.RxFirst == 0 {
		// segment without a frame start
		st := head.Status
		r.rearm()
		return rxFault, nil, newError(ErrReceive, uint32(st))
	}

	// walk First..Last counting segments
	segs, total := 0, 0
	i := r.next
	var last *hw.RxDescriptor
	for {
		d := r.descs[i]
		if d.Owner() != hw.OwnedByDriver {
			return rxPartial, nil, nil
		}
		if d.Length < 0 || d.Length > len(d.Buffer) {
			r.drop(segs + 1)
			return rxFault, nil, newError(ErrReceive, uint32(d.Status))
		}
		if segs > 0 && d.Status&hw.RxFirst != 0 {
			// a new frame began before this one ended
			r.drop(segs)
			return rxFault, nil, newError(ErrReceive, 0)
		}
		segs++
		total += d.Length
		if d.Status&hw.RxLast != 0 {
			last = d
			break
		}
		i = (i + 1) % len(r.descs)
		if i == r.next {
			// the whole ring holds one unterminated frame
			r.drop(segs)
			return rxFault, nil, newError(ErrTruncated, 0)
		}
	}

	if last.Status.HasError() {
		err := rxStatusError(last.Status)
		r.drop(segs)
		return rxFault, nil, err
	}

	data := make([]byte, 0, total)
	for n := 0; n < segs; n++ {
		d := r.descs[(r.next+n)%len(r.descs)]
		data = append(data, d.Buffer[:d.Length]...)
	}
	r.drop(segs)
	return rxFrame, data, nil
}

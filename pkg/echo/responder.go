package echo

import (
	"context"

	"github.com/golang/glog"

	"github.com/iromero91/emac.go/pkg/frame"
	"github.com/iromero91/emac.go/pkg/mac"
)

// queueDepth is how many requests may wait for a reply slot.
const queueDepth = 16

// pending is one request waiting for its reply to go out.
type pending struct {
	dest    frame.MacAddress
	payload []byte
}

// Responder answers echo requests arriving on a driver by sending
// the payload back as a reply. Replies go out from Run's goroutine
// so the notification path never waits on transmit backpressure;
// when the queue is full requests drop the way a loaded station
// would.
type Responder struct {
	driver *mac.Driver
	next   mac.FrameHandler
	reqs   chan pending
}

// NewResponder creates a Responder sending replies through driver.
// Frames that are not echo requests pass through to next, which may
// be nil.
func NewResponder(driver *mac.Driver, next mac.FrameHandler) *Responder {
	return &Responder{
		driver: driver,
		next:   next,
		reqs:   make(chan pending, queueDepth),
	}
}

// HandleFrame implements mac.FrameHandler. Echo requests are
// consumed, everything else chains to next.
func (r *Responder) HandleFrame(f *frame.Frame) {
	if f.Type == frame.EtherTypeEcho && IsRequest(f.Payload) {
		req := pending{
			dest:    f.Source,
			payload: append([]byte(nil), f.Payload...),
		}
		select {
		case r.reqs <- req:
		default:
			glog.V(2).Infof("echo: queue full, request %d from %v dropped", Seq(f.Payload), f.Source)
		}
		return
	}
	if r.next != nil {
		r.next.HandleFrame(f)
	}
}

// Run answers queued requests until ctx ends.
func (r *Responder) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case req := <-r.reqs:
			b := mac.NewBufferFrom(Reply(req.payload))
			if err := r.driver.Send(req.dest, frame.EtherTypeEcho, b); err != nil {
				glog.V(2).Infof("echo: reply to %v dropped: %v", req.dest, err)
			}
		}
	}
}

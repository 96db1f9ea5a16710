package mqtt

import (
	"strings"
	"sync"

	"github.com/golang/glog"

	"github.com/iromero91/emac.go/pkg/wire"
)

const readerDepth = 64

// ReadWriter implements wire.FrameReadWriter over a broker-backed
// segment. Every member publishes its frames on seg/<segment>/<node>
// and receives the other members' through the + wildcard.
type ReadWriter struct {
	queue   *Queue
	segment string
	node    string
	sub     *Subscription
	in      chan []byte
	done    chan struct{}
	once    sync.Once
}

// Join subscribes node to a segment on the queue.
func Join(q *Queue, segment, node string) *ReadWriter {
	rw := &ReadWriter{
		queue:   q,
		segment: segment,
		node:    node,
		in:      make(chan []byte, readerDepth),
		done:    make(chan struct{}),
	}
	rw.sub = q.Sub("seg/"+segment+"/+", rw.receive)
	return rw
}

// ReadFrame implements wire.FrameReader.
func (rw *ReadWriter) ReadFrame() ([]byte, error) {
	select {
	case data := <-rw.in:
		return data, nil
	case <-rw.done:
		return nil, wire.ErrClosed
	}
}

// WriteFrame implements wire.FrameWriter.
func (rw *ReadWriter) WriteFrame(data []byte) error {
	select {
	case <-rw.done:
		return wire.ErrClosed
	default:
	}
	rw.queue.Pub("seg/"+rw.segment+"/"+rw.node, data)
	return nil
}

// Close leaves the segment.
func (rw *ReadWriter) Close() error {
	rw.once.Do(func() { close(rw.done) })
	return rw.sub.Close()
}

func (rw *ReadWriter) receive(topic string, payload []byte) {
	if topic[strings.LastIndex(topic, "/")+1:] == rw.node {
		return
	}
	data := make([]byte, len(payload))
	copy(data, payload)
	select {
	case rw.in <- data:
	case <-rw.done:
	default:
		glog.V(2).Infof("segment %s: reader overrun, frame dropped", rw.segment)
	}
}

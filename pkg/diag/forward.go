package diag

import (
	"github.com/golang/glog"

	"github.com/iromero91/emac.go/pkg/frame"
	"github.com/iromero91/emac.go/pkg/mac"
)

// Publisher sends an encoded diagnostic to a topic.
type Publisher interface {
	Publish(topic string, payload []byte) error
}

// PublisherFunc is the func adapter of Publisher.
type PublisherFunc func(topic string, payload []byte) error

// Publish implements Publisher.
func (fn PublisherFunc) Publish(topic string, payload []byte) error {
	return fn(topic, payload)
}

// FrameTopic is the frame event topic of a NIC.
func FrameTopic(nic string) string { return "diag/" + nic + "/frame" }

// ErrorTopic is the error event topic of a NIC.
func ErrorTopic(nic string) string { return "diag/" + nic + "/error" }

// StatsTopic is the counters topic of a NIC.
func StatsTopic(nic string) string { return "diag/" + nic + "/stats" }

// Forwarder publishes driver notifications as diagnostics, then
// chains to Next.
type Forwarder struct {
	Nic  string
	Pub  Publisher
	Next mac.Notifications
}

// HandleFrame implements mac.FrameHandler.
func (f *Forwarder) HandleFrame(fr *frame.Frame) {
	f.publish(FrameTopic(f.Nic), NewRxFrameEvent(f.Nic, fr))
	if h := f.Next.Frames; h != nil {
		h.HandleFrame(fr)
	}
}

// HandleSendComplete implements mac.SendHandler.
func (f *Forwarder) HandleSendComplete(b *mac.Buffer) {
	f.publish(FrameTopic(f.Nic), NewTxFrameEvent(f.Nic, b))
	if h := f.Next.Sends; h != nil {
		h.HandleSendComplete(b)
	}
}

// HandleDriverError implements mac.ErrorHandler.
func (f *Forwarder) HandleDriverError(e *mac.Error) {
	f.publish(ErrorTopic(f.Nic), NewErrorEvent(f.Nic, e))
	if h := f.Next.Errors; h != nil {
		h.HandleDriverError(e)
	}
}

// Notifications returns the bundle to hand to mac.New.
func (f *Forwarder) Notifications() mac.Notifications {
	return mac.Notifications{Frames: f, Sends: f, Errors: f}
}

func (f *Forwarder) publish(topic string, msg Message) {
	data, err := Encode(msg)
	if err != nil {
		glog.Errorf("diag: encode %T: %v", msg, err)
		return
	}
	if err := f.Pub.Publish(topic, data); err != nil {
		glog.V(2).Infof("diag: publish %s: %v", topic, err)
	}
}

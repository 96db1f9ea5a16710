package mac

import (
	"github.com/golang/glog"

	"github.com/iromero91/emac.go/pkg/frame"
)

// FrameHandler consumes frames the driver fully reassembled. It runs
// on the interrupt dispatch path and must return quickly without
// blocking.
type FrameHandler interface {
	HandleFrame(f *frame.Frame)
}

// FrameHandlerFunc is the func adapter of FrameHandler.
type FrameHandlerFunc func(*frame.Frame)

// HandleFrame implements FrameHandler.
func (fn FrameHandlerFunc) HandleFrame(f *frame.Frame) {
	fn(f)
}

// SendHandler learns when a transmit buffer is handed back to its
// owner.
type SendHandler interface {
	HandleSendComplete(b *Buffer)
}

// SendHandlerFunc is the func adapter of SendHandler.
type SendHandlerFunc func(*Buffer)

// HandleSendComplete implements SendHandler.
func (fn SendHandlerFunc) HandleSendComplete(b *Buffer) {
	fn(b)
}

// ErrorHandler consumes faults the driver cannot return
// synchronously.
type ErrorHandler interface {
	HandleDriverError(e *Error)
}

// ErrorHandlerFunc is the func adapter of ErrorHandler.
type ErrorHandlerFunc func(*Error)

// HandleDriverError implements ErrorHandler.
func (fn ErrorHandlerFunc) HandleDriverError(e *Error) {
	fn(e)
}

// Notifications bundles the capabilities a driver reports through.
// A nil member drops that event class.
type Notifications struct {
	Frames FrameHandler
	Sends  SendHandler
	Errors ErrorHandler
}

// LogHandler implements every capability by logging. Useful as a
// development sink.
type LogHandler struct {
	Name string
}

// HandleFrame implements FrameHandler.
func (h *LogHandler) HandleFrame(f *frame.Frame) {
	glog.Infof("[%s] rx %v", h.Name, f)
}

// HandleSendComplete implements SendHandler.
func (h *LogHandler) HandleSendComplete(b *Buffer) {
	glog.Infof("[%s] tx done, %d bytes", h.Name, len(b.Bytes()))
}

// HandleDriverError implements ErrorHandler.
func (h *LogHandler) HandleDriverError(e *Error) {
	glog.Warningf("[%s] %v", h.Name, e)
}

// Notifications returns a bundle with every capability pointed at
// the logger.
func (h *LogHandler) Notifications() Notifications {
	return Notifications{Frames: h, Sends: h, Errors: h}
}

package diag

import (
	"github.com/golang/protobuf/proto"

	"github.com/iromero91/emac.go/pkg/frame"
	"github.com/iromero91/emac.go/pkg/mac"
	pb "github.com/iromero91/emac.go/pkg/proto/emac/v1"
)

// payloadPrefixCap caps how much payload a FrameEvent carries.
const payloadPrefixCap = 32

// FrameEvent reports one frame moved by the driver.
type FrameEvent struct {
	pb.FrameEvent
}

// NewRxFrameEvent creates a FrameEvent for a received frame.
func NewRxFrameEvent(nic string, f *frame.Frame) *FrameEvent {
	return &FrameEvent{FrameEvent: pb.FrameEvent{
		Nic:           nic,
		Direction:     pb.Direction_DIRECTION_RX,
		Dest:          f.Dest.String(),
		Source:        f.Source.String(),
		EtherType:     uint32(f.Type),
		Length:        uint32(frame.HeaderSize + len(f.Payload)),
		PayloadPrefix: payloadPrefix(f.Payload),
	}}
}

// NewTxFrameEvent creates a FrameEvent for a completed transmit.
func NewTxFrameEvent(nic string, b *mac.Buffer) *FrameEvent {
	ev := &FrameEvent{FrameEvent: pb.FrameEvent{
		Nic:       nic,
		Direction: pb.Direction_DIRECTION_TX,
		Length:    uint32(len(b.Bytes())),
	}}
	if hdr, err := frame.ParseHeader(b.Bytes()); err == nil {
		ev.Dest = hdr.Dest.String()
		ev.Source = hdr.Source.String()
		ev.EtherType = uint32(hdr.Type)
		ev.PayloadPrefix = payloadPrefix(b.Payload())
	}
	return ev
}

func payloadPrefix(payload []byte) []byte {
	if len(payload) > payloadPrefixCap {
		payload = payload[:payloadPrefixCap]
	}
	return append([]byte(nil), payload...)
}

// NewMessage implements Message.
func (m *FrameEvent) NewMessage() Message { return &FrameEvent{} }

// TypeID implements Message.
func (m *FrameEvent) TypeID() uint32 { return FrameEventTypeID }

// Serializable implements Message.
func (m *FrameEvent) Serializable() proto.Message { return &m.FrameEvent }

// ErrorEvent reports one driver error notification.
type ErrorEvent struct {
	pb.ErrorEvent
}

// NewErrorEvent creates an ErrorEvent from a driver error.
func NewErrorEvent(nic string, e *mac.Error) *ErrorEvent {
	return &ErrorEvent{ErrorEvent: pb.ErrorEvent{
		Nic:      nic,
		Code:     uint32(e.Code),
		CodeName: e.Code.String(),
		Cause:    e.Cause,
	}}
}

// NewMessage implements Message.
func (m *ErrorEvent) NewMessage() Message { return &ErrorEvent{} }

// TypeID implements Message.
func (m *ErrorEvent) TypeID() uint32 { return ErrorEventTypeID }

// Serializable implements Message.
func (m *ErrorEvent) Serializable() proto.Message { return &m.ErrorEvent }

// StatsEvent is a snapshot of the driver counters.
type StatsEvent struct {
	pb.StatsEvent
}

// NewStatsEvent creates a StatsEvent from a counter snapshot.
func NewStatsEvent(nic string, s mac.Stats) *StatsEvent {
	return &StatsEvent{StatsEvent: pb.StatsEvent{
		Nic:      nic,
		RxFrames: s.RxFrames,
		RxBytes:  s.RxBytes,
		RxErrors: s.RxErrors,
		TxFrames: s.TxFrames,
		TxBytes:  s.TxBytes,
		TxErrors: s.TxErrors,
		Faults:   s.Faults,
	}}
}

// NewMessage implements Message.
func (m *StatsEvent) NewMessage() Message { return &StatsEvent{} }

// TypeID implements Message.
func (m *StatsEvent) TypeID() uint32 { return StatsEventTypeID }

// Serializable implements Message.
func (m *StatsEvent) Serializable() proto.Message { return &m.StatsEvent }

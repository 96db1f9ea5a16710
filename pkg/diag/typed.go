package diag

import (
	"fmt"

	"github.com/golang/protobuf/proto"

	pb "github.com/iromero91/emac.go/pkg/proto/emac/v1"
)

// TypeIDs
const (
	FrameEventTypeID uint32 = 0x0001
	ErrorEventTypeID uint32 = 0x0002
	StatsEventTypeID uint32 = 0x0003
)

// Message is a diagnostic event that can cross the wire.
type Message interface {
	NewMessage() Message
	TypeID() uint32
	Serializable() proto.Message
}

// ErrUnknownType indicates unknown type id.
type ErrUnknownType struct {
	TypeID uint32
}

// Error implements error.
func (e *ErrUnknownType) Error() string {
	return fmt.Sprintf("unknown type: %x", e.TypeID)
}

// MessageTypes are predefined mapping of type ID to messages.
var MessageTypes = map[uint32]Message{
	FrameEventTypeID: (*FrameEvent)(nil),
	ErrorEventTypeID: (*ErrorEvent)(nil),
	StatsEventTypeID: (*StatsEvent)(nil),
}

// Typed wraps a message with type information.
type Typed struct {
	pb.Typed
}

// TypedFrom creates a Typed from a message.
func TypedFrom(msg Message) (*Typed, error) {
	data, err := proto.Marshal(msg.Serializable())
	if err != nil {
		return nil, err
	}
	return &Typed{Typed: pb.Typed{TypeId: msg.TypeID(), Message: data}}, nil
}

// Decode decodes the envelope into the actual message.
func (p Typed) Decode() (Message, error) {
	msgType, ok := MessageTypes[p.TypeId]
	if !ok {
		return nil, &ErrUnknownType{TypeID: p.TypeId}
	}
	msg := msgType.NewMessage()
	if err := proto.Unmarshal(p.Message, msg.Serializable()); err != nil {
		return nil, err
	}
	return msg, nil
}

// Encode encodes the Typed to bytes.
func (p Typed) Encode() ([]byte, error) {
	return proto.Marshal(&p.Typed)
}

// DecodeTyped decodes bytes into Typed.
func DecodeTyped(data []byte) (*Typed, error) {
	var typed Typed
	if err := proto.Unmarshal(data, &typed.Typed); err != nil {
		return nil, err
	}
	return &typed, nil
}

// Encode marshals a message with its envelope in one step.
func Encode(msg Message) ([]byte, error) {
	typed, err := TypedFrom(msg)
	if err != nil {
		return nil, err
	}
	return typed.Encode()
}

// Decode unmarshals an enveloped message in one step.
func Decode(data []byte) (Message, error) {
	typed, err := DecodeTyped(data)
	if err != nil {
		return nil, err
	}
	return typed.Decode()
}

// Package frame models raw Ethernet frames.
package frame

import (
	"errors"
	"fmt"
)

// EtherType identifies the protocol carried in a frame or, for
// 802.3 framing, the payload length.
type EtherType uint16

// Assigned EtherType values used around this module.
const (
	// EtherTypeIPv4 is the EtherType for IPv4 frames.
	EtherTypeIPv4 EtherType = 0x0800
	// EtherTypeARP is the EtherType for ARP frames.
	EtherTypeARP EtherType = 0x0806
	// EtherTypeIPv6 is the EtherType for IPv6 frames.
	EtherTypeIPv6 EtherType = 0x86dd
	// EtherTypeEcho is the first IEEE local experimental EtherType,
	// carried by the echo frames emacd answers.
	EtherTypeEcho EtherType = 0x88b5
	// EtherTypeTest is the second IEEE local experimental
	// EtherType, carried by free form test frames.
	EtherTypeTest EtherType = 0x88b6
)

// etherTypeMin is the smallest value interpreted as a protocol type
// rather than an 802.3 payload length.
const etherTypeMin = 0x0600

// IsLength reports whether the field holds an 802.3 payload length
// instead of a protocol type.
func (t EtherType) IsLength() bool {
	return t < etherTypeMin
}

func (t EtherType) String() string {
	return fmt.Sprintf("0x%04x", uint16(t))
}

// HeaderSize is the size of an Ethernet header on the wire:
// destination and source addresses followed by the EtherType.
const HeaderSize = 2*MacLength + 2

// Header is the fixed leading part of every frame.
type Header struct {
	Dest   MacAddress
	Source MacAddress
	Type   EtherType
}

// Put encodes the header into the first HeaderSize bytes of b.
func (h *Header) Put(b []byte) {
	copy(b, h.Dest[:])
	copy(b[MacLength:], h.Source[:])
	b[12] = byte(h.Type >> 8)
	b[13] = byte(h.Type)
}

// ParseHeader decodes the fixed header from the start of b.
func ParseHeader(b []byte) (Header, error) {
	var h Header
	if len(b) < HeaderSize {
		return h, ErrShortFrame
	}
	copy(h.Dest[:], b)
	copy(h.Source[:], b[MacLength:])
	h.Type = EtherType(b[12])<<8 | EtherType(b[13])
	return h, nil
}

var (
	// ErrShortFrame indicates the data does not cover a full header.
	ErrShortFrame = errors.New("short frame")
	// ErrLengthFramed indicates 802.3 length framing, which this
	// module does not handle.
	ErrLengthFramed = errors.New("802.3 length framed")
)

// Frame is a decoded Ethernet frame.
type Frame struct {
	Header
	Payload []byte
}

// Parse decodes a frame from raw bytes. The payload aliases b.
func Parse(b []byte) (*Frame, error) {
	h, err := ParseHeader(b)
	if err != nil {
		return nil, err
	}
	if h.Type.IsLength() {
		return nil, ErrLengthFramed
	}
	return &Frame{Header: h, Payload: b[HeaderSize:]}, nil
}

// Bytes encodes the frame for the wire.
func (f *Frame) Bytes() []byte {
	b := make([]byte, HeaderSize+len(f.Payload))
	f.Header.Put(b)
	copy(b[HeaderSize:], f.Payload)
	return b
}

func (f *Frame) String() string {
	return fmt.Sprintf("%v > %v %v (%d)", f.Source, f.Dest, f.Type, len(f.Payload))
}

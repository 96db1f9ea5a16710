package mac

import "github.com/iromero91/emac.go/pkg/frame"

// Buffer is a transmit staging buffer: payload bytes with fixed
// headroom for the Ethernet header. Send borrows the buffer until
// the matching send complete or transmit error notification, and the
// caller must not touch it in between.
type Buffer struct {
	data  []byte
	flash bool
}

// NewBuffer allocates a buffer for a payload of size bytes.
func NewBuffer(size int) *Buffer {
	return &Buffer{data: make([]byte, frame.HeaderSize+size)}
}

// NewBufferFrom allocates a buffer and copies payload into it.
func NewBufferFrom(payload []byte) *Buffer {
	b := NewBuffer(len(payload))
	copy(b.Payload(), payload)
	return b
}

// FlashBuffer wraps payload that lives in storage the DMA engine
// cannot read, such as flash banks. The driver refuses to send one;
// copy it through NewBufferFrom first.
func FlashBuffer(payload []byte) *Buffer {
	return &Buffer{data: payload, flash: true}
}

// Payload returns the payload region for the caller to fill.
func (b *Buffer) Payload() []byte {
	if b.flash {
		return b.data
	}
	return b.data[frame.HeaderSize:]
}

// Bytes returns the whole frame region, header plus payload.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// InFlash reports whether the backing storage is out of the DMA
// engine's reach.
func (b *Buffer) InFlash() bool {
	return b.flash
}

// header returns the headroom Send stamps.
func (b *Buffer) header() []byte {
	return b.data[:frame.HeaderSize]
}

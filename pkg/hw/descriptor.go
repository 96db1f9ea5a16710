// Package hw defines the hardware surface of the Ethernet MAC
// controller: the descriptor layouts shared with the DMA engine, the
// status words, the engine register interface and the interrupt
// vector.
package hw

import "sync/atomic"

// Owner tells which side may touch a descriptor.
type Owner uint32

const (
	// OwnedByDriver means the driver may read and write the
	// descriptor fields.
	OwnedByDriver Owner = iota
	// OwnedByDMA means the engine may fill or drain the descriptor
	// and the driver must not touch any field.
	OwnedByDMA
)

func (o Owner) String() string {
	if o == OwnedByDMA {
		return "dma"
	}
	return "driver"
}

// ownership is the per descriptor ownership word. It is the only
// synchronization between driver and engine: releasing a descriptor
// publishes every field write made while holding it.
type ownership struct {
	word uint32
}

// Owner returns the side currently holding the descriptor.
func (o *ownership) Owner() Owner {
	return Owner(atomic.LoadUint32(&o.word))
}

// Release hands the descriptor to the given side.
func (o *ownership) Release(to Owner) {
	atomic.StoreUint32(&o.word, uint32(to))
}

// RxStatus is the status word the engine writes back into a receive
// descriptor before releasing it.
type RxStatus uint32

const (
	// RxFirst marks the first descriptor of a frame.
	RxFirst RxStatus = 1 << iota
	// RxLast marks the last descriptor of a frame.
	RxLast
	// RxCRCError reports a failed frame check sequence.
	RxCRCError
	// RxOverflow reports a receive FIFO overflow during the frame.
	RxOverflow
	// RxTruncated reports a frame the engine cut short.
	RxTruncated
	// RxWatchdog reports the receive watchdog fired mid frame.
	RxWatchdog
	// RxLateCollision reports a collision after the slot time.
	RxLateCollision
	// RxIPHeaderChecksum reports a bad IP header checksum flagged by
	// the offload engine.
	RxIPHeaderChecksum
	// RxPayloadError reports a bad payload flagged by the offload
	// engine.
	RxPayloadError
	// RxHeaderError reports a malformed header flagged by the
	// offload engine.
	RxHeaderError
	// RxErrorSummary is set whenever any receive error bit is set.
	RxErrorSummary
)

// HasError reports whether the error summary bit is set.
func (s RxStatus) HasError() bool {
	return s&RxErrorSummary != 0
}

// RxDescriptor is one slot of the receive ring. The engine fills
// Buffer, records Status and Length, and releases the descriptor to
// the driver. The driver consumes it and releases it back.
type RxDescriptor struct {
	ownership

	Status RxStatus
	Length int

	// Buffer is the fixed backing store, allocated once at ring
	// setup and never reallocated.
	Buffer []byte
}

// TxStatus is the status word the engine writes back into a transmit
// descriptor at completion.
type TxStatus uint32

const (
	// TxUnderflow reports the transmit FIFO drained mid frame.
	TxUnderflow TxStatus = 1 << iota
	// TxJabberTimeout reports the jabber timer cut the frame off.
	TxJabberTimeout
	// TxLateCollision reports a collision after the slot time.
	TxLateCollision
	// TxNoCarrier reports the carrier disappeared during transmit.
	TxNoCarrier
	// TxExcessiveCollisions reports the retry limit was hit.
	TxExcessiveCollisions
	// TxErrorSummary is set whenever any transmit error bit is set.
	TxErrorSummary
)

// HasError reports whether the error summary bit is set.
func (s TxStatus) HasError() bool {
	return s&TxErrorSummary != 0
}

// TxDescriptor is one slot of the transmit ring. Data points at
// caller memory only while a frame is in flight; the engine drains it
// and releases the descriptor back with a completion Status.
type TxDescriptor struct {
	ownership

	Status TxStatus
	Data   []byte
}

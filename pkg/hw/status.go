package hw

import (
	"fmt"
	"strings"
)

// DMAStatus is the controller level status word. Several bits can be
// pending in a single read; ClearStatus is write-one-to-clear.
type DMAStatus uint32

const (
	// DMAReceiveDone signals completed receive descriptors.
	DMAReceiveDone DMAStatus = 1 << iota
	// DMATransmitDone signals completed transmit descriptors.
	DMATransmitDone
	// DMATransmitStopped signals the transmit process halted.
	DMATransmitStopped
	// DMATransmitJabber signals the transmit jabber timer expired.
	DMATransmitJabber
	// DMAReceiveOverflow signals a receive FIFO overflow.
	DMAReceiveOverflow
	// DMATransmitUnderflow signals a transmit FIFO underflow.
	DMATransmitUnderflow
	// DMAReceiveBufferUnavailable signals the engine found no
	// DMA owned receive descriptor for an incoming frame.
	DMAReceiveBufferUnavailable
	// DMAReceiveStopped signals the receive process halted.
	DMAReceiveStopped
	// DMAReceiveWatchdog signals the receive watchdog expired.
	DMAReceiveWatchdog
	// DMAFatalBusError signals an unrecoverable bus fault.
	DMAFatalBusError
	// DMAEarlyTransmit signals a frame fully moved to the FIFO
	// before going out on the wire.
	DMAEarlyTransmit
	// DMALateCollision signals a collision after the slot time.
	DMALateCollision
)

// DMAAbnormalMask covers every fault bit of the status word.
const DMAAbnormalMask = DMATransmitStopped | DMATransmitJabber |
	DMAReceiveOverflow | DMATransmitUnderflow |
	DMAReceiveBufferUnavailable | DMAReceiveStopped |
	DMAReceiveWatchdog | DMAFatalBusError | DMALateCollision

// Split returns each set bit as its own status word, lowest first.
func (s DMAStatus) Split() []DMAStatus {
	var bits []DMAStatus
	for s != 0 {
		bit := s & -s
		bits = append(bits, bit)
		s &^= bit
	}
	return bits
}

var dmaStatusNames = map[DMAStatus]string{
	DMAReceiveDone:              "receive-done",
	DMATransmitDone:             "transmit-done",
	DMATransmitStopped:          "transmit-stopped",
	DMATransmitJabber:           "transmit-jabber",
	DMAReceiveOverflow:          "receive-overflow",
	DMATransmitUnderflow:        "transmit-underflow",
	DMAReceiveBufferUnavailable: "receive-buffer-unavailable",
	DMAReceiveStopped:           "receive-stopped",
	DMAReceiveWatchdog:          "receive-watchdog",
	DMAFatalBusError:            "fatal-bus-error",
	DMAEarlyTransmit:            "early-transmit",
	DMALateCollision:            "late-collision",
}

func (s DMAStatus) String() string {
	if s == 0 {
		return "none"
	}
	var parts []string
	for _, bit := range s.Split() {
		if name, ok := dmaStatusNames[bit]; ok {
			parts = append(parts, name)
		} else {
			parts = append(parts, fmt.Sprintf("0x%x", uint32(bit)))
		}
	}
	return strings.Join(parts, "|")
}

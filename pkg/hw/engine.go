package hw

import "github.com/iromero91/emac.go/pkg/frame"

// Engine is the register level surface of a MAC/DMA engine. The
// driver programs it through this interface only; hwsim provides a
// simulated implementation, a real port wraps memory mapped
// registers.
type Engine interface {
	// SetMacAddress programs the unicast address filter.
	SetMacAddress(addr frame.MacAddress)

	// AttachReceiveRing hands the receive descriptors to the engine.
	AttachReceiveRing(ring []*RxDescriptor) error

	// AttachTransmitRing hands the transmit descriptors to the
	// engine.
	AttachTransmitRing(ring []*TxDescriptor) error

	// BindInterrupt registers fn as the handler for an interrupt
	// source. All handlers must be bound before Start.
	BindInterrupt(src IrqSource, fn func()) error

	// Start arms both DMA paths and enables interrupt delivery.
	Start() error

	// Stop halts the engine and interrupt delivery.
	Stop()

	// TransmitDemand tells the engine to scan the transmit ring for
	// newly queued descriptors.
	TransmitDemand()

	// ResumeReceive tells the engine that receive descriptors were
	// handed back after a stall.
	ResumeReceive()

	// Status returns the pending status bits.
	Status() DMAStatus

	// ClearStatus clears the given pending bits.
	ClearStatus(bits DMAStatus)
}

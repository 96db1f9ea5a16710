package hw

import "errors"

// IrqSource identifies one interrupt line of the controller.
type IrqSource int

const (
	// IrqReceive fires when receive descriptors complete.
	IrqReceive IrqSource = iota
	// IrqTransmit fires when transmit descriptors complete.
	IrqTransmit
	// IrqError fires on any abnormal status bit.
	IrqError

	irqSourceCount
)

var irqSourceNames = [irqSourceCount]string{"receive", "transmit", "error"}

func (s IrqSource) String() string {
	if s < 0 || s >= irqSourceCount {
		return "invalid"
	}
	return irqSourceNames[s]
}

var (
	// ErrVectorSealed indicates a bind after the vector was sealed.
	ErrVectorSealed = errors.New("interrupt vector sealed")
	// ErrBadIrqSource indicates an unknown interrupt source.
	ErrBadIrqSource = errors.New("unknown interrupt source")
)

// Vector maps the controller's interrupt lines to bound handlers.
// All binds happen while the engine is quiescent and the vector is
// sealed before interrupts are enabled, so Raise dispatches with a
// plain read and no locking.
type Vector struct {
	handlers [irqSourceCount]func()
	sealed   bool
}

// Bind registers fn for src.
func (v *Vector) Bind(src IrqSource, fn func()) error {
	if src < 0 || src >= irqSourceCount {
		return ErrBadIrqSource
	}
	if v.sealed {
		return ErrVectorSealed
	}
	v.handlers[src] = fn
	return nil
}

// Seal freezes the vector. Engines seal before raising.
func (v *Vector) Seal() {
	v.sealed = true
}

// Raise invokes the handler bound to src, if any.
func (v *Vector) Raise(src IrqSource) {
	if src < 0 || src >= irqSourceCount {
		return
	}
	if fn := v.handlers[src]; fn != nil {
		fn()
	}
}

package mac

import (
	"errors"
	"fmt"

	"github.com/iromero91/emac.go/pkg/hw"
)

var (
	// ErrNotStarted indicates use of a driver before Start.
	ErrNotStarted = errors.New("driver not started")
	// ErrStarted indicates a second Start.
	ErrStarted = errors.New("driver already started")
)

// ErrorCode enumerates every fault the driver reports. The set is
// closed; new conditions map onto an existing code.
type ErrorCode uint32

const (
	// ErrUnspecified covers faults with no more specific code.
	ErrUnspecified ErrorCode = iota

	// PHY management access. Reported by the PHY layers built on
	// top of this driver, never by the driver itself.
	ErrPhyWriteTimeout
	ErrPhyReadTimeout
	ErrPhyWaitTimeout

	// Receive path.
	ErrCrc
	ErrReceive
	ErrIPHeaderChecksum
	ErrOverflow
	ErrTruncated
	ErrPayload
	ErrHeader
	ErrUnsupported8023Frame

	// Transmit path.
	ErrTooBig
	ErrTransmit
	ErrBusy
	ErrNoFlashData
	ErrWatchdogTimeout
	ErrLateCollision

	// Controller level faults, one per abnormal status bit.
	ErrTransmitProcessStopped
	ErrTransmitJabberTimeout
	ErrReceiveOverflow
	ErrTransmitUnderflow
	ErrReceiveBufferUnavailable
	ErrReceiveProcessStopped
	ErrReceiveWatchdogTimeout
	ErrFatalBusError
)

// String returns the short name of the code.
func (c ErrorCode) String() string {
	switch c {
	case ErrPhyWriteTimeout:
		return "phy-write-timeout"
	case ErrPhyReadTimeout:
		return "phy-read-timeout"
	case ErrPhyWaitTimeout:
		return "phy-wait-timeout"
	case ErrCrc:
		return "crc"
	case ErrReceive:
		return "receive"
	case ErrIPHeaderChecksum:
		return "ip-header-checksum"
	case ErrOverflow:
		return "overflow"
	case ErrTruncated:
		return "truncated"
	case ErrPayload:
		return "payload"
	case ErrHeader:
		return "header"
	case ErrUnsupported8023Frame:
		return "unsupported-802.3-frame"
	case ErrTooBig:
		return "too-big"
	case ErrTransmit:
		return "transmit"
	case ErrBusy:
		return "busy"
	case ErrNoFlashData:
		return "no-flash-data"
	case ErrWatchdogTimeout:
		return "watchdog-timeout"
	case ErrLateCollision:
		return "late-collision"
	case ErrTransmitProcessStopped:
		return "transmit-process-stopped"
	case ErrTransmitJabberTimeout:
		return "transmit-jabber-timeout"
	case ErrReceiveOverflow:
		return "receive-overflow"
	case ErrTransmitUnderflow:
		return "transmit-underflow"
	case ErrReceiveBufferUnavailable:
		return "receive-buffer-unavailable"
	case ErrReceiveProcessStopped:
		return "receive-process-stopped"
	case ErrReceiveWatchdogTimeout:
		return "receive-watchdog-timeout"
	case ErrFatalBusError:
		return "fatal-bus-error"
	}
	return "unspecified"
}

// Error is a driver fault: a taxonomy code plus the raw hardware
// status word that produced it, passed through untouched.
type Error struct {
	Code  ErrorCode
	Cause uint32
}

func newError(code ErrorCode, cause uint32) *Error {
	return &Error{Code: code, Cause: cause}
}

// Error implements error.
func (e *Error) Error() string {
	if e.Cause != 0 {
		return fmt.Sprintf("emac: %v (status 0x%x)", e.Code, e.Cause)
	}
	return "emac: " + e.Code.String()
}

// IsCode reports whether err is a driver Error carrying code.
func IsCode(err error, code ErrorCode) bool {
	e, ok := err.(*Error)
	return ok && e.Code == code
}

// rxStatusError maps receive status bits to the taxonomy, checked in
// priority order. One frame yields one error.
func rxStatusError(s hw.RxStatus) *Error {
	cause := uint32(s)
	switch {
	case s&hw.RxCRCError != 0:
		return newError(ErrCrc, cause)
	case s&hw.RxOverflow != 0:
		return newError(ErrOverflow, cause)
	case s&hw.RxTruncated != 0:
		return newError(ErrTruncated, cause)
	case s&hw.RxWatchdog != 0:
		return newError(ErrWatchdogTimeout, cause)
	case s&hw.RxLateCollision != 0:
		return newError(ErrLateCollision, cause)
	case s&hw.RxIPHeaderChecksum != 0:
		return newError(ErrIPHeaderChecksum, cause)
	case s&hw.RxHeaderError != 0:
		return newError(ErrHeader, cause)
	case s&hw.RxPayloadError != 0:
		return newError(ErrPayload, cause)
	}
	return newError(ErrReceive, cause)
}

// txStatusError maps transmit completion status bits to the
// taxonomy, checked in priority order.
func txStatusError(s hw.TxStatus) *Error {
	cause := uint32(s)
	switch {
	case s&hw.TxUnderflow != 0:
		return newError(ErrTransmitUnderflow, cause)
	case s&hw.TxJabberTimeout != 0:
		return newError(ErrTransmitJabberTimeout, cause)
	case s&hw.TxLateCollision != 0:
		return newError(ErrLateCollision, cause)
	}
	return newError(ErrTransmit, cause)
}

// dmaErrorCode maps one abnormal status bit to the taxonomy.
func dmaErrorCode(bit hw.DMAStatus) ErrorCode {
	switch bit {
	case hw.DMATransmitStopped:
		return ErrTransmitProcessStopped
	case hw.DMATransmitJabber:
		return ErrTransmitJabberTimeout
	case hw.DMAReceiveOverflow:
		return ErrReceiveOverflow
	case hw.DMATransmitUnderflow:
		return ErrTransmitUnderflow
	case hw.DMAReceiveBufferUnavailable:
		return ErrReceiveBufferUnavailable
	case hw.DMAReceiveStopped:
		return ErrReceiveProcessStopped
	case hw.DMAReceiveWatchdog:
		return ErrReceiveWatchdogTimeout
	case hw.DMAFatalBusError:
		return ErrFatalBusError
	case hw.DMALateCollision:
		return ErrLateCollision
	}
	return ErrUnspecified
}

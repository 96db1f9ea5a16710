package mac

import (
	"fmt"
	"time"

	"github.com/iromero91/emac.go/pkg/frame"
)

// minMtu is the smallest standard Ethernet payload size.
const minMtu = 46

// Parameters configures a Driver instance. There are no other
// tunables.
type Parameters struct {
	// Mtu is the largest payload carried in one frame.
	Mtu int
	// Address is the unicast address of this interface.
	Address frame.MacAddress
	// TxWait bounds how long Send waits for the previous frame to
	// finish before failing busy.
	TxWait time.Duration
	// ReceiveBufferCount is the receive ring size.
	ReceiveBufferCount int
	// TransmitBufferCount is the transmit ring size.
	TransmitBufferCount int
}

var defaultParameters = Parameters{
	Mtu:                 1518,
	Address:             frame.MacAddress{0x02, 0x00, 0x00, 0x00, 0x00, 0x00},
	TxWait:              200 * time.Millisecond,
	ReceiveBufferCount:  5,
	TransmitBufferCount: 5,
}

// DefaultParameters returns the default parameter set: a locally
// administered address, 1518 byte MTU, five buffers each way and a
// 200ms transmit wait.
func DefaultParameters() Parameters {
	return defaultParameters
}

// FrameSize returns the size of the largest whole frame, header
// included. Receive buffers are allocated at this size.
func (p Parameters) FrameSize() int {
	return p.Mtu + frame.HeaderSize
}

// LinkHeaderSize returns the number of bytes this link prepends to a
// payload.
func (p Parameters) LinkHeaderSize() int {
	return frame.HeaderSize
}

// LinkMtu returns the largest payload a single frame carries.
func (p Parameters) LinkMtu() int {
	return p.Mtu
}

// Validate checks the parameter set is usable.
func (p Parameters) Validate() error {
	if p.Mtu < minMtu {
		return fmt.Errorf("mtu %d below minimum %d", p.Mtu, minMtu)
	}
	if p.ReceiveBufferCount <= 0 || p.TransmitBufferCount <= 0 {
		return fmt.Errorf("buffer counts must be positive")
	}
	if p.TxWait <= 0 {
		return fmt.Errorf("transmit wait must be positive")
	}
	if p.Address.IsMulticast() {
		return fmt.Errorf("unicast address required, got %v", p.Address)
	}
	return nil
}

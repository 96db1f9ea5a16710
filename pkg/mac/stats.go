package mac

import (
	"fmt"
	"sync/atomic"
)

// Stats is a snapshot of the cumulative driver counters.
type Stats struct {
	RxFrames uint64
	RxBytes  uint64
	RxErrors uint64
	TxFrames uint64
	TxBytes  uint64
	TxErrors uint64
	Faults   uint64
}

func (s Stats) String() string {
	return fmt.Sprintf("rx %d frames %d bytes %d errors, tx %d frames %d bytes %d errors, %d faults",
		s.RxFrames, s.RxBytes, s.RxErrors, s.TxFrames, s.TxBytes, s.TxErrors, s.Faults)
}

// counters is heap allocated so the uint64 fields stay 8 byte
// aligned for atomic access on 32 bit targets.
type counters struct {
	rxFrames, rxBytes, rxErrors uint64
	txFrames, txBytes, txErrors uint64
	faults                      uint64
}

func (c *counters) countRx(bytes int) {
	atomic.AddUint64(&c.rxFrames, 1)
	atomic.AddUint64(&c.rxBytes, uint64(bytes))
}

func (c *counters) countTx(bytes int) {
	atomic.AddUint64(&c.txFrames, 1)
	atomic.AddUint64(&c.txBytes, uint64(bytes))
}

func (c *counters) snapshot() Stats {
	return Stats{
		RxFrames: atomic.LoadUint64(&c.rxFrames),
		RxBytes:  atomic.LoadUint64(&c.rxBytes),
		RxErrors: atomic.LoadUint64(&c.rxErrors),
		TxFrames: atomic.LoadUint64(&c.txFrames),
		TxBytes:  atomic.LoadUint64(&c.txBytes),
		TxErrors: atomic.LoadUint64(&c.txErrors),
		Faults:   atomic.LoadUint64(&c.faults),
	}
}

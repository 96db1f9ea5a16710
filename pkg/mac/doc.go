// Package mac implements the Ethernet MAC driver core.
package mac

// The driver owns a receive and a transmit descriptor ring shared
// with the DMA engine. The per descriptor ownership word is the only
// synchronization with the engine: a side touches a descriptor's
// fields only while it owns it, and releasing ownership publishes
// the writes made while holding it.
//
// Everything synchronous (queueing a frame) happens on the caller's
// goroutine; everything asynchronous (received frames, transmit
// completions, faults) is dispatched from the engine's interrupt
// lines through the Notifications bundle.
//
// Producer: hw.Engine (receive path), callers of Send (transmit path)
// Consumer: the Notifications sink

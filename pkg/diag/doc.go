// Package diag defines the diagnostic event schemas a running driver
// publishes and the forwarding glue between driver notifications and
// a publisher.
package diag

// Diagnostic events are serialized protos wrapped in a Typed
// envelope, published per NIC under diag/<nic>/.
//
// Producer: the driver host (emacd)
// Consumer: monitoring tools (emacmon)

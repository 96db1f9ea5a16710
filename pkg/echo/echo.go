// Package echo implements the request and reply convention carried
// in EtherTypeEcho frames: a one byte opcode and a big endian
// sequence number, followed by padding the replier sends back
// untouched.
package echo

const (
	// OpRequest asks the receiver to send the payload back.
	OpRequest = 0x01
	// OpReply carries a request's payload back to its sender.
	OpReply = 0x02
)

// headerSize covers the opcode and the sequence number.
const headerSize = 3

// Request builds a request payload with seq and pad zero bytes.
func Request(seq uint16, pad int) []byte {
	p := make([]byte, headerSize+pad)
	p[0] = OpRequest
	p[1], p[2] = byte(seq>>8), byte(seq)
	return p
}

// Reply copies a request payload into the matching reply.
func Reply(req []byte) []byte {
	p := append([]byte(nil), req...)
	p[0] = OpReply
	return p
}

// IsRequest reports whether p is a well formed request.
func IsRequest(p []byte) bool {
	return len(p) >= headerSize && p[0] == OpRequest
}

// IsReply reports whether p is a well formed reply.
func IsReply(p []byte) bool {
	return len(p) >= headerSize && p[0] == OpReply
}

// Seq extracts the sequence number. Check IsRequest or IsReply
// first.
func Seq(p []byte) uint16 {
	return uint16(p[1])<<8 | uint16(p[2])
}

package frame

import (
	"fmt"
	"strconv"
	"strings"
)

// MacLength is the length of a MAC address in bytes.
const MacLength = 6

// MacAddress is a 48-bit Ethernet hardware address.
type MacAddress [MacLength]byte

// Broadcast is the all-ones broadcast address.
var Broadcast = MacAddress{0xff, 0xff, 0xff, 0xff, 0xff, 0xff}

// String formats the address in the colon separated form.
func (a MacAddress) String() string {
	return fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x",
		a[0], a[1], a[2], a[3], a[4], a[5])
}

// IsBroadcast reports whether the address is the broadcast address.
func (a MacAddress) IsBroadcast() bool {
	return a == Broadcast
}

// IsMulticast reports whether the group bit is set.
func (a MacAddress) IsMulticast() bool {
	return a[0]&0x01 != 0
}

// IsLocal reports whether the address is locally administered.
func (a MacAddress) IsLocal() bool {
	return a[0]&0x02 != 0
}

// ParseMacAddress parses the colon separated form.
func ParseMacAddress(s string) (MacAddress, error) {
	var a MacAddress
	parts := strings.Split(s, ":")
	if len(parts) != MacLength {
		return a, fmt.Errorf("invalid mac address %q", s)
	}
	for i, p := range parts {
		v, err := strconv.ParseUint(p, 16, 8)
		if err != nil {
			return a, fmt.Errorf("invalid mac address %q", s)
		}
		a[i] = byte(v)
	}
	return a, nil
}

package env

import (
	"hash/fnv"
	"os"

	"github.com/iromero91/emac.go/pkg/frame"
)

// DefaultMqttURL is used when EMAC_MQTT_URL is not set.
const DefaultMqttURL = "mqtt://localhost:1883/emac/"

// MqttURL returns the broker URL from the environment.
func MqttURL() string {
	if val := os.Getenv("EMAC_MQTT_URL"); val != "" {
		return val
	}
	return DefaultMqttURL
}

// DeriveMac maps an identity string to a stable locally administered
// unicast address.
func DeriveMac(id string) frame.MacAddress {
	h := fnv.New64a()
	h.Write([]byte(id))
	sum := h.Sum64()
	var addr frame.MacAddress
	addr[0] = 0x02
	for i := 1; i < frame.MacLength; i++ {
		addr[i] = byte(sum >> (uint(frame.MacLength-1-i) * 8))
	}
	return addr
}

// MachineMac derives the address of this machine.
func MachineMac() frame.MacAddress {
	return DeriveMac(MachineID())
}

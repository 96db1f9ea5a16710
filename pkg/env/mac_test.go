package env

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeriveMac(t *testing.T) {
	a := DeriveMac("machine-a")
	require.Equal(t, a, DeriveMac("machine-a"), "derivation must be stable")
	require.NotEqual(t, a, DeriveMac("machine-b"))
	require.True(t, a.IsLocal())
	require.False(t, a.IsMulticast())
}

func TestMqttURL(t *testing.T) {
	old, had := os.LookupEnv("EMAC_MQTT_URL")
	defer func() {
		if had {
			os.Setenv("EMAC_MQTT_URL", old)
		} else {
			os.Unsetenv("EMAC_MQTT_URL")
		}
	}()

	os.Unsetenv("EMAC_MQTT_URL")
	require.Equal(t, DefaultMqttURL, MqttURL())
	os.Setenv("EMAC_MQTT_URL", "mqtt://broker:1883/lab/")
	require.Equal(t, "mqtt://broker:1883/lab/", MqttURL())
}

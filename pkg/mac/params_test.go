package mac

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iromero91/emac.go/pkg/frame"
)

func TestDefaultParameters(t *testing.T) {
	p := DefaultParameters()
	require.NoError(t, p.Validate())
	require.Equal(t, 1518, p.Mtu)
	require.Equal(t, "02:00:00:00:00:00", p.Address.String())
	require.Equal(t, 200*time.Millisecond, p.TxWait)
	require.Equal(t, 5, p.ReceiveBufferCount)
	require.Equal(t, 5, p.TransmitBufferCount)
	require.Equal(t, 1532, p.FrameSize())
	require.Equal(t, 14, p.LinkHeaderSize())
	require.Equal(t, 1518, p.LinkMtu())
	require.True(t, p.Address.IsLocal())
}

func TestParametersValidate(t *testing.T) {
	for _, c := range []struct {
		name string
		mod  func(*Parameters)
	}{
		{"small-mtu", func(p *Parameters) { p.Mtu = 45 }},
		{"no-rx-buffers", func(p *Parameters) { p.ReceiveBufferCount = 0 }},
		{"no-tx-buffers", func(p *Parameters) { p.TransmitBufferCount = -1 }},
		{"no-wait", func(p *Parameters) { p.TxWait = 0 }},
		{"multicast", func(p *Parameters) { p.Address = frame.Broadcast }},
	} {
		t.Run(c.name, func(t *testing.T) {
			p := DefaultParameters()
			c.mod(&p)
			require.Error(t, p.Validate())
		})
	}
}

package sh

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iromero91/emac.go/pkg/frame"
	"github.com/iromero91/emac.go/pkg/hw"
	"github.com/iromero91/emac.go/pkg/mac"
)

func newTestBench(t *testing.T) *Bench {
	b, err := NewBench(NewConfig())
	require.NoError(t, err)
	return b
}

// waitRecv polls the receive log until a frame shows up.
func waitRecv(t *testing.T, n *Node) *frame.Frame {
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if got := n.Recent(); len(got) > 0 {
			return got[0]
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("node %s received nothing", n.Name)
	return nil
}

func TestBenchPair(t *testing.T) {
	b := newTestBench(t)
	defer b.Close()

	require.Len(t, b.Nodes, 2)
	left, right := b.Node("left"), b.Node("right")
	require.NotNil(t, left)
	require.NotNil(t, right)
	require.True(t, b.Peer(left) == right)
	require.True(t, b.Peer(right) == left)
	require.NotEqual(t, left.Driver.Address(), right.Driver.Address())
	require.True(t, left.Driver.Started())
	require.True(t, right.Driver.Started())
}

func TestBenchSendRecv(t *testing.T) {
	b := newTestBench(t)
	defer b.Close()
	left, right := b.Node("left"), b.Node("right")

	payload := []byte("over the bench")
	require.NoError(t, left.Send(right.Driver.Address(), frame.EtherTypeTest, payload, time.Second))

	got := waitRecv(t, right)
	require.Equal(t, frame.EtherTypeTest, got.Type)
	require.Equal(t, left.Driver.Address(), got.Source)
	require.Equal(t, payload, got.Payload)
	require.Empty(t, right.Recent(), "the log must clear once read")
}

func TestBenchPing(t *testing.T) {
	b := newTestBench(t)
	defer b.Close()
	left, right := b.Node("left"), b.Node("right")

	seq, rtt, err := left.Ping(right.Driver.Address(), 24, time.Second)
	require.NoError(t, err)
	require.Equal(t, uint16(1), seq)
	require.True(t, rtt > 0)

	seq, _, err = left.Ping(right.Driver.Address(), 24, time.Second)
	require.NoError(t, err)
	require.Equal(t, uint16(2), seq, "sequence numbers must advance")
}

func TestBenchTransmitFault(t *testing.T) {
	b := newTestBench(t)
	defer b.Close()
	left, right := b.Node("left"), b.Node("right")

	left.Engine.InjectTxFault(hw.TxUnderflow)
	err := left.Send(right.Driver.Address(), frame.EtherTypeTest, []byte("doomed"), time.Second)
	require.Error(t, err)
	require.True(t, mac.IsCode(err, mac.ErrTransmitUnderflow))
	require.Contains(t, left.Status().LastError, "transmit-underflow")

	// the fault is one shot, the link recovers
	require.NoError(t, left.Send(right.Driver.Address(), frame.EtherTypeTest, []byte("ok"), time.Second))
	require.Equal(t, []byte("ok"), waitRecv(t, right).Payload)
}

func TestBenchReceiveFault(t *testing.T) {
	b := newTestBench(t)
	defer b.Close()
	left, right := b.Node("left"), b.Node("right")

	right.Engine.InjectRxStatus(hw.RxCRCError)
	require.NoError(t, left.Send(right.Driver.Address(), frame.EtherTypeTest, []byte("mangled"), time.Second))

	deadline := time.Now().Add(time.Second)
	for right.Driver.Stats().RxErrors == 0 {
		require.True(t, time.Now().Before(deadline), "receive error never counted")
		time.Sleep(time.Millisecond)
	}
	require.Empty(t, right.Recent())
}

func TestBenchResolveDest(t *testing.T) {
	b := newTestBench(t)
	defer b.Close()

	addr, err := b.ResolveDest("left")
	require.NoError(t, err)
	require.Equal(t, b.Node("left").Driver.Address(), addr)

	addr, err = b.ResolveDest("bcast")
	require.NoError(t, err)
	require.Equal(t, frame.Broadcast, addr)

	addr, err = b.ResolveDest("02:00:00:00:00:07")
	require.NoError(t, err)
	require.Equal(t, frame.MacAddress{0x02, 0, 0, 0, 0, 0x07}, addr)

	_, err = b.ResolveDest("no-such-node")
	require.Error(t, err)
}

func TestBenchClose(t *testing.T) {
	b := newTestBench(t)
	left := b.Node("left")
	b.Close()
	require.False(t, left.Driver.Started())

	_, _, err := left.Ping(b.Node("right").Driver.Address(), 24, 10*time.Millisecond)
	require.Error(t, err)
}

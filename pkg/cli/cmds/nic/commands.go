// Package nic provides the bench commands of the playground shell.
package nic

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/abiosoft/ishell"

	"github.com/iromero91/emac.go/pkg/cli/sh"
	"github.com/iromero91/emac.go/pkg/frame"
	"github.com/iromero91/emac.go/pkg/hw"
	"github.com/iromero91/emac.go/pkg/mac"
)

var (
	// StatusCmd shows both bench nodes.
	StatusCmd = ishell.Cmd{
		Name:    "status",
		Aliases: []string{"st"},
		Help:    "",
		Func: func(c *ishell.Context) {
			s := sh.ShellFrom(c)
			if s.OutputJSON {
				views := make([]sh.NodeStatus, 0, len(s.Bench.Nodes))
				for _, n := range s.Bench.Nodes {
					views = append(views, n.Status())
				}
				printJSON(c, views)
				return
			}
			for _, n := range s.Bench.Nodes {
				st := n.Status()
				mark := " "
				if n == s.Node {
					mark = "*"
				}
				state := "down"
				if st.Started {
					state = "up"
				}
				c.Printf("%s %s %s %s mtu %d\n", mark, st.Name, st.Address, state, st.Mtu)
				c.Printf("    %v\n", st.Stats)
				if st.LastError != "" {
					c.Printf("    last error: %s\n", st.LastError)
				}
			}
		},
	}

	// SendCmd transmits a test frame from the selected node.
	SendCmd = ishell.Cmd{
		Name:    "send",
		Aliases: []string{"tx"},
		Help:    "DEST TEXT... (DEST: node name, MAC or bcast)",
		Func: func(c *ishell.Context) {
			if len(c.Args) < 2 {
				c.Err(fmt.Errorf("DEST and TEXT required"))
				return
			}
			s := sh.ShellFrom(c)
			dest, err := s.Bench.ResolveDest(c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			payload := []byte(strings.Join(c.Args[1:], " "))
			if err := s.Node.Send(dest, frame.EtherTypeTest, payload, time.Second); err != nil {
				c.Err(err)
				return
			}
			c.Printf("sent %d bytes to %v\n", len(payload), dest)
		},
	}

	// RecvCmd drains the selected node's received frame log.
	RecvCmd = ishell.Cmd{
		Name:    "recv",
		Aliases: []string{"rx"},
		Help:    "",
		Func: func(c *ishell.Context) {
			frames := sh.NodeFrom(c).Recent()
			if len(frames) == 0 {
				c.Println("nothing received")
				return
			}
			for _, f := range frames {
				if f.Type == frame.EtherTypeTest {
					c.Printf("%v %q\n", f, string(f.Payload))
				} else {
					c.Printf("%v\n", f)
				}
			}
		},
	}

	// PingCmd measures echo round trips to the peer.
	PingCmd = ishell.Cmd{
		Name: "ping",
		Help: "[COUNT]",
		Func: func(c *ishell.Context) {
			count := 1
			if len(c.Args) > 0 {
				val, err := strconv.Atoi(c.Args[0])
				if err != nil || val <= 0 {
					c.Err(fmt.Errorf("invalid COUNT %q", c.Args[0]))
					return
				}
				count = val
			}
			s := sh.ShellFrom(c)
			peer := s.Peer()
			for i := 0; i < count; i++ {
				seq, rtt, err := s.Node.Ping(peer.Driver.Address(), 24, time.Second)
				if err != nil {
					c.Printf("%s: %v\n", peer.Name, err)
					continue
				}
				c.Printf("reply from %s: seq=%d time=%v\n", peer.Name, seq, rtt)
			}
		},
	}

	// RingsCmd shows descriptor ownership of the selected node.
	RingsCmd = ishell.Cmd{
		Name: "rings",
		Help: "",
		Func: func(c *ishell.Context) {
			s := sh.ShellFrom(c)
			rx, tx := s.Node.Driver.Rings()
			if s.OutputJSON {
				printJSON(c, map[string]mac.RingView{"rx": rx, "tx": tx})
				return
			}
			c.Printf("rx %s next=%d\n", ownerBar(rx.Owners), rx.Next)
			c.Printf("tx %s next=%d\n", ownerBar(tx.Owners), tx.Next)
		},
	}

	// StatsCmd prints the selected node's counters.
	StatsCmd = ishell.Cmd{
		Name: "stats",
		Help: "",
		Func: func(c *ishell.Context) {
			s := sh.ShellFrom(c)
			stats := s.Node.Driver.Stats()
			if s.OutputJSON {
				printJSON(c, stats)
				return
			}
			c.Println(stats.String())
		},
	}

	// FaultCmd injects a hardware fault into the selected node.
	FaultCmd = ishell.Cmd{
		Name: "fault",
		Help: "tx|rx|dma [NAME]",
		Func: func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("tx, rx or dma required"))
				return
			}
			n := sh.NodeFrom(c)
			var name string
			if len(c.Args) > 1 {
				name = c.Args[1]
			}
			switch c.Args[0] {
			case "tx":
				if name == "" {
					name = "underflow"
				}
				bits, ok := txFaults[name]
				if !ok {
					c.Err(fmt.Errorf("unknown transmit fault %q", name))
					return
				}
				n.Engine.InjectTxFault(bits)
				c.Printf("next transmit on %s fails: %s\n", n.Name, name)
			case "rx":
				if name == "" {
					name = "crc"
				}
				bits, ok := rxFaults[name]
				if !ok {
					c.Err(fmt.Errorf("unknown receive fault %q", name))
					return
				}
				n.Engine.InjectRxStatus(bits)
				c.Printf("next frame into %s arrives poisoned: %s\n", n.Name, name)
			case "dma":
				if name == "" {
					name = "bus"
				}
				bits, ok := dmaFaults[name]
				if !ok {
					c.Err(fmt.Errorf("unknown controller fault %q", name))
					return
				}
				n.Engine.InjectFault(bits)
				c.Printf("raised %v on %s\n", bits, n.Name)
			default:
				c.Err(fmt.Errorf("unknown fault class %q", c.Args[0]))
			}
		},
	}

	// MtuCmd shows or changes the bench MTU. Rings are sized from
	// it, so a change rebuilds both drivers.
	MtuCmd = ishell.Cmd{
		Name: "mtu",
		Help: "[BYTES]",
		Func: func(c *ishell.Context) {
			s := sh.ShellFrom(c)
			if len(c.Args) == 0 {
				c.Printf("mtu %d\n", s.Bench.Config.Mtu)
				return
			}
			val, err := strconv.Atoi(c.Args[0])
			if err != nil {
				c.Err(fmt.Errorf("invalid BYTES: %v", err))
				return
			}
			conf := s.Bench.Config
			conf.Mtu = val
			if err := s.Rebuild(&conf); err != nil {
				c.Err(err)
				return
			}
			c.Printf("mtu %d, bench rebuilt\n", val)
		},
	}

	// StartCmd starts the selected node's driver.
	StartCmd = ishell.Cmd{
		Name: "start",
		Help: "",
		Func: func(c *ishell.Context) {
			n := sh.NodeFrom(c)
			if err := n.Driver.Start(); err != nil {
				c.Err(err)
				return
			}
			c.Printf("%s up\n", n.Name)
		},
	}

	// StopCmd stops the selected node's driver.
	StopCmd = ishell.Cmd{
		Name: "stop",
		Help: "",
		Func: func(c *ishell.Context) {
			n := sh.NodeFrom(c)
			n.Driver.Stop()
			c.Printf("%s down\n", n.Name)
		},
	}
)

var txFaults = map[string]hw.TxStatus{
	"underflow": hw.TxUnderflow,
	"jabber":    hw.TxJabberTimeout,
	"collision": hw.TxLateCollision,
	"carrier":   hw.TxNoCarrier,
	"retries":   hw.TxExcessiveCollisions,
}

var rxFaults = map[string]hw.RxStatus{
	"crc":       hw.RxCRCError,
	"overflow":  hw.RxOverflow,
	"truncated": hw.RxTruncated,
	"watchdog":  hw.RxWatchdog,
	"collision": hw.RxLateCollision,
}

var dmaFaults = map[string]hw.DMAStatus{
	"tx-stopped":  hw.DMATransmitStopped,
	"jabber":      hw.DMATransmitJabber,
	"rx-overflow": hw.DMAReceiveOverflow,
	"underflow":   hw.DMATransmitUnderflow,
	"unavailable": hw.DMAReceiveBufferUnavailable,
	"rx-stopped":  hw.DMAReceiveStopped,
	"watchdog":    hw.DMAReceiveWatchdog,
	"bus":         hw.DMAFatalBusError,
	"collision":   hw.DMALateCollision,
}

// ownerBar renders ring slots, D for DMA owned, . for driver owned.
func ownerBar(owners []hw.Owner) string {
	b := make([]byte, len(owners))
	for i, o := range owners {
		if o == hw.OwnedByDMA {
			b[i] = 'D'
		} else {
			b[i] = '.'
		}
	}
	return "[" + string(b) + "]"
}

func printJSON(c *ishell.Context, v interface{}) {
	out, err := json.Marshal(v)
	if err != nil {
		c.Err(err)
		return
	}
	c.Println(string(out))
}

func init() {
	sh.AddCmds(
		&StatusCmd,
		&SendCmd,
		&RecvCmd,
		&PingCmd,
		&RingsCmd,
		&StatsCmd,
		&FaultCmd,
		&MtuCmd,
		&StartCmd,
		&StopCmd,
	)
}

// Package nic assembles a complete interface for daemon processes:
// a wire link named by URL, a simulated engine over it, the driver,
// and the echo, diagnostics and presence services around them.
package nic

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/golang/glog"

	"github.com/iromero91/emac.go/pkg/diag"
	"github.com/iromero91/emac.go/pkg/echo"
	"github.com/iromero91/emac.go/pkg/env"
	"github.com/iromero91/emac.go/pkg/frame"
	"github.com/iromero91/emac.go/pkg/hw/hwsim"
	"github.com/iromero91/emac.go/pkg/mac"
	"github.com/iromero91/emac.go/pkg/run"
	"github.com/iromero91/emac.go/pkg/wire"
	"github.com/iromero91/emac.go/pkg/wire/mqtt"
	"github.com/iromero91/emac.go/pkg/wire/stream"
	"github.com/iromero91/emac.go/pkg/wire/websocket"
)

// wireConnectTimeout bounds the initial broker handshake.
const wireConnectTimeout = 30 * time.Second

// Config provides common options to assemble a NIC.
type Config struct {
	// WireURL names the link carrying frames.
	// e.g. mqtt://host:port/topic-prefix, ws://host:port/,
	// ws-listen://:port/, tcp://host:port, tcp-listen://:port or
	// pipe://
	WireURL string

	// Segment is the broadcast domain joined on mqtt wires.
	Segment string

	// Node names this interface in presence and diagnostic records.
	// Empty picks the machine ID.
	Node string

	// Mac overrides the interface address. Empty derives one from the
	// machine ID.
	Mac string

	// Mtu is the payload MTU of the driver.
	Mtu int

	// Echo answers echo requests when set.
	Echo bool

	// Diag publishes frame, error and counter diagnostics over the
	// broker. Only effective on mqtt wires.
	Diag bool

	// StatsEvery is the counter publishing period.
	StatsEvery time.Duration
}

var defaultConfig = Config{
	Segment:    "lab",
	Mtu:        1500,
	Echo:       true,
	StatsEvery: 10 * time.Second,
}

func init() {
	defaultConfig.WireURL = env.MqttURL()
	if val := os.Getenv("EMAC_SEGMENT"); val != "" {
		defaultConfig.Segment = val
	}
	if val := os.Getenv("EMAC_NODE"); val != "" {
		defaultConfig.Node = val
	}
}

// SetupFlags sets up command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.WireURL, "wire", defaultConfig.WireURL, "Wire URL carrying frames.")
	flag.StringVar(&defaultConfig.Segment, "segment", defaultConfig.Segment, "Segment to join on mqtt wires.")
	flag.StringVar(&defaultConfig.Node, "node", defaultConfig.Node, "Node name, default is the machine ID.")
	flag.StringVar(&defaultConfig.Mac, "mac", defaultConfig.Mac, "Interface address, default derives from the machine ID.")
	flag.IntVar(&defaultConfig.Mtu, "mtu", defaultConfig.Mtu, "Payload MTU of the driver.")
	flag.BoolVar(&defaultConfig.Echo, "echo", defaultConfig.Echo, "Answer echo requests.")
	flag.BoolVar(&defaultConfig.Diag, "diag", defaultConfig.Diag, "Publish diagnostics over the broker.")
	flag.DurationVar(&defaultConfig.StatsEvery, "stats-every", defaultConfig.StatsEvery, "Counter publishing period.")
}

// Default gets the default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

func (c *Config) address() (frame.MacAddress, error) {
	if c.Mac == "" {
		return env.MachineMac(), nil
	}
	return frame.ParseMacAddress(c.Mac)
}

// NIC is an assembled interface ready to run.
type NIC struct {
	Config *Config
	Link   wire.FrameReadWriteCloser
	Engine *hwsim.Engine
	Driver *mac.Driver

	// Queue is the broker connection, nil on non-mqtt wires.
	Queue *mqtt.Queue

	addr    frame.MacAddress
	notif   mac.Notifications
	runners []run.Runnable
}

// NewNIC assembles a NIC using current config.
func (c *Config) NewNIC() (*NIC, error) {
	if c.Node == "" {
		c.Node = env.MachineID()
	}
	addr, err := c.address()
	if err != nil {
		return nil, fmt.Errorf("invalid mac: %v", err)
	}
	n := &NIC{Config: c, addr: addr}
	if err := n.dialWire(); err != nil {
		return nil, err
	}
	n.Engine = hwsim.New(n.Link, hwsim.Options{})
	params := mac.DefaultParameters()
	params.Address = addr
	params.Mtu = c.Mtu
	n.Driver, err = mac.New(n.Engine, params, mac.Notifications{
		Frames: mac.FrameHandlerFunc(n.onFrame),
		Sends:  mac.SendHandlerFunc(n.onSend),
		Errors: mac.ErrorHandlerFunc(n.onError),
	})
	if err != nil {
		n.teardown()
		return nil, err
	}
	n.assemble()
	return n, nil
}

// MustNewNIC assembles a NIC and fails on error.
func (c *Config) MustNewNIC() *NIC {
	n, err := c.NewNIC()
	if err != nil {
		log.Fatalln(err)
	}
	return n
}

// dialWire builds the frame link named by WireURL.
func (n *NIC) dialWire() error {
	c := n.Config
	u, err := url.Parse(c.WireURL)
	if err != nil {
		return fmt.Errorf("invalid wire URL: %v", err)
	}
	switch u.Scheme {
	case "", "mqtt":
		return n.joinSegment()
	case "ws", "wss":
		n.Link, err = websocket.Dial(c.WireURL, "http://"+u.Host+"/")
		return err
	case "ws-listen":
		n.Link, err = listenWire(u.Host)
		return err
	case "tcp":
		conn, err := net.Dial("tcp", u.Host)
		if err != nil {
			return err
		}
		n.Link = stream.New(conn)
		return nil
	case "tcp-listen":
		n.Link, err = listenTCP(u.Host)
		return err
	case "pipe":
		n.Link = wire.Loopback()
		return nil
	default:
		return fmt.Errorf("unknown wire URL scheme: %q", u.Scheme)
	}
}

// joinSegment connects the broker and joins the configured segment,
// announcing a presence record that reconnects refresh and the last
// will clears.
func (n *NIC) joinSegment() error {
	c := n.Config
	q, err := mqtt.NewPresenceQueue(c.WireURL, c.Node)
	if err != nil {
		return err
	}
	rec := mqtt.NicRecord{
		Node:    c.Node,
		Address: n.addr.String(),
		Mtu:     c.Mtu,
		Segment: c.Segment,
	}
	q.OnConnect = func(q *mqtt.Queue) {
		q.Announce(rec)
	}
	rw := mqtt.Join(q, c.Segment, c.Node)
	if err := q.ConnectWait(wireConnectTimeout); err != nil {
		rw.Close()
		q.Close()
		return err
	}
	n.Queue = q
	n.Link = rw
	return nil
}

// listenWire waits for one websocket peer and uses its connection as
// the wire. Later peers are turned away.
func listenWire(addr string) (wire.FrameReadWriteCloser, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	conns := make(chan *websocket.ReadWriter)
	go http.Serve(ln, websocket.Handler(func(rw *websocket.ReadWriter) {
		select {
		case conns <- rw:
			<-(chan struct{})(nil)
		default:
			rw.Close()
		}
	}))
	glog.Infof("waiting for a peer on %s", addr)
	return <-conns, nil
}

// listenTCP waits for one TCP peer and runs the wire over its stream.
// The listener closes after the first accept.
func listenTCP(addr string) (wire.FrameReadWriteCloser, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	defer ln.Close()
	glog.Infof("waiting for a peer on %s", addr)
	conn, err := ln.Accept()
	if err != nil {
		return nil, err
	}
	return stream.New(conn), nil
}

// assemble builds the notification chain and the service runners.
// Faults always reach the log. At -v=1 every event does. The echo
// responder fronts the chain, and on broker wires the diagnostic
// forwarder fronts the responder so it sees requests too.
func (n *NIC) assemble() {
	c := n.Config
	logger := &mac.LogHandler{Name: c.Node}
	notif := mac.Notifications{Errors: logger}
	if glog.V(1) {
		notif = logger.Notifications()
	}
	if c.Echo {
		resp := echo.NewResponder(n.Driver, notif.Frames)
		notif.Frames = resp
		n.runners = append(n.runners, run.NamedRun("echo", resp))
	}
	if c.Diag && n.Queue != nil {
		fwd := &diag.Forwarder{Nic: c.Node, Pub: n.publisher(), Next: notif}
		notif = fwd.Notifications()
		n.runners = append(n.runners, run.NamedRun("stats", &diag.StatsTicker{
			Nic:    c.Node,
			Pub:    n.publisher(),
			Driver: n.Driver,
			Every:  c.StatsEvery,
		}))
	}
	n.notif = notif
}

func (n *NIC) publisher() diag.Publisher {
	q := n.Queue
	return diag.PublisherFunc(func(topic string, payload []byte) error {
		q.Pub(topic, payload)
		return nil
	})
}

func (n *NIC) onFrame(f *frame.Frame) {
	if h := n.notif.Frames; h != nil {
		h.HandleFrame(f)
	}
}

func (n *NIC) onSend(b *mac.Buffer) {
	if h := n.notif.Sends; h != nil {
		h.HandleSendComplete(b)
	}
}

func (n *NIC) onError(e *mac.Error) {
	if h := n.notif.Errors; h != nil {
		h.HandleDriverError(e)
	}
}

func (n *NIC) teardown() {
	if n.Link != nil {
		n.Link.Close()
	}
	if n.Queue != nil {
		n.Queue.Close()
	}
}

// Runnables returns the NIC and its services, ready for a Runner.
func (n *NIC) Runnables() []run.Runnable {
	return append([]run.Runnable{run.NamedRun("nic", n)}, n.runners...)
}

// Run implements run.Runnable. The interface is up until ctx ends.
func (n *NIC) Run(ctx context.Context) error {
	if err := n.Driver.Start(); err != nil {
		return err
	}
	glog.Infof("nic %s up, %v on %q", n.Config.Node, n.addr, n.Config.WireURL)
	<-ctx.Done()
	if n.Queue != nil {
		n.Queue.Withdraw(n.Config.Node).WaitTimeout(time.Second)
	}
	n.Driver.Stop()
	n.teardown()
	return ctx.Err()
}

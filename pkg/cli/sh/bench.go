package sh

import (
	"context"
	"flag"
	"fmt"
	"sync"
	"time"

	"github.com/iromero91/emac.go/pkg/echo"
	"github.com/iromero91/emac.go/pkg/env"
	"github.com/iromero91/emac.go/pkg/frame"
	"github.com/iromero91/emac.go/pkg/hw/hwsim"
	"github.com/iromero91/emac.go/pkg/mac"
	"github.com/iromero91/emac.go/pkg/wire"
)

// Config provides common options to build the bench pair.
type Config struct {
	// Mtu is the payload MTU of both drivers.
	Mtu int
	// SegmentSize caps receive descriptor fills, forcing frames to
	// chain. 0 fills whole buffers.
	SegmentSize int
	// Latency delays every transmitted frame.
	Latency time.Duration
}

var defaultConfig = Config{
	Mtu: 1500,
}

// SetupFlags sets up command line flags.
func SetupFlags() {
	flag.IntVar(&defaultConfig.Mtu, "mtu", defaultConfig.Mtu, "Payload MTU of the bench drivers.")
	flag.IntVar(&defaultConfig.SegmentSize, "seg", defaultConfig.SegmentSize, "Receive segment size, 0 fills whole buffers.")
	flag.DurationVar(&defaultConfig.Latency, "latency", defaultConfig.Latency, "Simulated transmit latency.")
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

const (
	eventDepth = 16
	recvLog    = 32
	errLog     = 16
)

// Node is one bench interface: a driver over its own simulated
// engine, joined to the peer by an in-process pipe. Every node
// answers echo requests.
type Node struct {
	Name   string
	Link   wire.FrameReadWriteCloser
	Engine *hwsim.Engine
	Driver *mac.Driver

	resp *echo.Responder
	seq  uint16

	sends   chan *mac.Buffer
	txErrs  chan *mac.Error
	replies chan *frame.Frame

	mu   sync.Mutex
	recv []*frame.Frame
	errs []*mac.Error
}

func newNode(name string, link wire.FrameReadWriteCloser, conf *Config) (*Node, error) {
	n := &Node{
		Name:    name,
		Link:    link,
		Engine:  hwsim.New(link, hwsim.Options{SegmentSize: conf.SegmentSize, Latency: conf.Latency}),
		sends:   make(chan *mac.Buffer, eventDepth),
		txErrs:  make(chan *mac.Error, eventDepth),
		replies: make(chan *frame.Frame, eventDepth),
	}
	params := mac.DefaultParameters()
	params.Address = env.DeriveMac(name)
	params.Mtu = conf.Mtu
	var err error
	n.Driver, err = mac.New(n.Engine, params, mac.Notifications{
		Frames: mac.FrameHandlerFunc(n.handleFrame),
		Sends:  mac.SendHandlerFunc(n.handleSend),
		Errors: mac.ErrorHandlerFunc(n.handleError),
	})
	if err != nil {
		return nil, err
	}
	n.resp = echo.NewResponder(n.Driver, mac.FrameHandlerFunc(n.collect))
	if err := n.Driver.Start(); err != nil {
		return nil, err
	}
	return n, nil
}

func (n *Node) handleFrame(f *frame.Frame) {
	n.resp.HandleFrame(f)
}

// collect files frames the responder passed through: echo replies go
// to a waiting Ping, the rest into the receive log.
func (n *Node) collect(f *frame.Frame) {
	if f.Type == frame.EtherTypeEcho && echo.IsReply(f.Payload) {
		select {
		case n.replies <- f:
		default:
		}
		return
	}
	n.mu.Lock()
	if len(n.recv) >= recvLog {
		n.recv = n.recv[1:]
	}
	n.recv = append(n.recv, f)
	n.mu.Unlock()
}

func (n *Node) handleSend(b *mac.Buffer) {
	select {
	case n.sends <- b:
	default:
	}
}

func (n *Node) handleError(e *mac.Error) {
	switch e.Code {
	case mac.ErrTransmit, mac.ErrTransmitUnderflow, mac.ErrTransmitJabberTimeout, mac.ErrLateCollision:
		select {
		case n.txErrs <- e:
		default:
		}
	}
	n.mu.Lock()
	if len(n.errs) >= errLog {
		n.errs = n.errs[1:]
	}
	n.errs = append(n.errs, e)
	n.mu.Unlock()
}

// Send queues payload to dest and waits for its completion or its
// transmit error.
func (n *Node) Send(dest frame.MacAddress, etherType frame.EtherType, payload []byte, wait time.Duration) error {
	b := mac.NewBufferFrom(payload)
	if err := n.Driver.Send(dest, etherType, b); err != nil {
		return err
	}
	deadline := time.After(wait)
	for {
		select {
		case done := <-n.sends:
			if done == b {
				return nil
			}
			// an echo reply completed, keep waiting for ours
		case e := <-n.txErrs:
			return e
		case <-deadline:
			return fmt.Errorf("no completion within %v", wait)
		}
	}
}

// Ping sends one echo request to dest and waits for the matching
// reply.
func (n *Node) Ping(dest frame.MacAddress, pad int, wait time.Duration) (uint16, time.Duration, error) {
	n.seq++
	seq := n.seq
	started := time.Now()
	if err := n.Driver.Send(dest, frame.EtherTypeEcho, mac.NewBufferFrom(echo.Request(seq, pad))); err != nil {
		return seq, 0, err
	}
	deadline := time.After(wait)
	for {
		select {
		case f := <-n.replies:
			if echo.Seq(f.Payload) != seq {
				continue // a stale reply from an earlier timed out ping
			}
			return seq, time.Since(started), nil
		case <-deadline:
			return seq, 0, fmt.Errorf("no reply within %v", wait)
		}
	}
}

// Recent returns and clears the received frame log.
func (n *Node) Recent() []*frame.Frame {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := n.recv
	n.recv = nil
	return out
}

// NodeStatus is the inspection view of one node.
type NodeStatus struct {
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Started   bool      `json:"started"`
	Mtu       int       `json:"mtu"`
	Stats     mac.Stats `json:"stats"`
	LastError string    `json:"last_error,omitempty"`
}

// Status snapshots the node.
func (n *Node) Status() NodeStatus {
	st := NodeStatus{
		Name:    n.Name,
		Address: n.Driver.Address().String(),
		Started: n.Driver.Started(),
		Mtu:     n.Driver.Parameters().Mtu,
		Stats:   n.Driver.Stats(),
	}
	n.mu.Lock()
	if len(n.errs) > 0 {
		st.LastError = n.errs[len(n.errs)-1].Error()
	}
	n.mu.Unlock()
	return st
}

// Bench is a pair of simulated interfaces joined back to back.
type Bench struct {
	Config Config
	Nodes  []*Node

	cancel func()
}

var nodeNames = [2]string{"left", "right"}

// NewBench builds the pair over a fresh pipe and starts both drivers
// and their echo responders.
func NewBench(conf *Config) (*Bench, error) {
	ctx, cancel := context.WithCancel(context.Background())
	b := &Bench{Config: *conf, cancel: cancel}
	var links [2]wire.FrameReadWriteCloser
	links[0], links[1] = wire.Pipe()
	for i, name := range nodeNames {
		n, err := newNode(name, links[i], conf)
		if err != nil {
			b.Close()
			links[0].Close()
			return nil, fmt.Errorf("node %s: %v", name, err)
		}
		b.Nodes = append(b.Nodes, n)
		go n.resp.Run(ctx)
	}
	return b, nil
}

// Node returns the named node, or nil.
func (b *Bench) Node(name string) *Node {
	for _, n := range b.Nodes {
		if n.Name == name {
			return n
		}
	}
	return nil
}

// Peer returns the node across the wire from n.
func (b *Bench) Peer(n *Node) *Node {
	for _, other := range b.Nodes {
		if other != n {
			return other
		}
	}
	return nil
}

// ResolveDest parses a destination: a node name, "bcast", or a MAC
// address in colon form.
func (b *Bench) ResolveDest(s string) (frame.MacAddress, error) {
	if n := b.Node(s); n != nil {
		return n.Driver.Address(), nil
	}
	if s == "bcast" || s == "broadcast" {
		return frame.Broadcast, nil
	}
	return frame.ParseMacAddress(s)
}

// Close stops the responders, the drivers and the wire.
func (b *Bench) Close() {
	b.cancel()
	for _, n := range b.Nodes {
		n.Driver.Stop()
		n.Link.Close()
	}
}

// Package sh provides the ishell backed playground shell: a pair of
// simulated interfaces joined back to back, poked by commands.
package sh

import (
	"flag"
	"fmt"
	"log"

	"github.com/abiosoft/ishell"
)

// Shell provides the ishell backed interactive shell over a bench.
type Shell struct {
	Interactive bool
	OutputJSON  bool

	Shell *ishell.Shell
	Bench *Bench
	Node  *Node
}

const shellKey = "$shell"

var (
	// flags

	evalOnly   bool
	outputJSON bool

	// commands
	commands = []*ishell.Cmd{
		&NodesCmd,
		&UseCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
}

// AddCmds is used by other command providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell over a bench built from conf.
func New(conf *Config) (*Shell, error) {
	bench, err := NewBench(conf)
	if err != nil {
		return nil, err
	}
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,

		Shell: ishell.New(),
		Bench: bench,
	}
	s.Shell.Set(shellKey, s)
	s.selectNode(bench.Nodes[0])
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s, nil
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// NodeFrom gets the selected bench node from ishell context.
func NodeFrom(c *ishell.Context) *Node {
	return ShellFrom(c).Node
}

func (s *Shell) selectNode(n *Node) {
	s.Node = n
	s.Shell.SetPrompt(fmt.Sprintf("%s > ", n.Name))
}

// Use selects the named node and moves the prompt there.
func (s *Shell) Use(name string) error {
	n := s.Bench.Node(name)
	if n == nil {
		return fmt.Errorf("no node %q", name)
	}
	s.selectNode(n)
	return nil
}

// Peer returns the node across the wire from the selected one.
func (s *Shell) Peer() *Node {
	return s.Bench.Peer(s.Node)
}

// Rebuild replaces the bench, keeping the node selection. Rings are
// sized from the parameters, so changes need fresh drivers.
func (s *Shell) Rebuild(conf *Config) error {
	bench, err := NewBench(conf)
	if err != nil {
		return err
	}
	name := s.Node.Name
	s.Bench.Close()
	s.Bench = bench
	return s.Use(name)
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

var (
	// NodesCmd lists the bench nodes.
	NodesCmd = ishell.Cmd{
		Name:    "nodes",
		Aliases: []string{"ls"},
		Help:    "",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			for _, n := range s.Bench.Nodes {
				mark := " "
				if n == s.Node {
					mark = "*"
				}
				c.Printf("%s %s %v\n", mark, n.Name, n.Driver.Address())
			}
		},
	}

	// UseCmd selects the node commands act on.
	UseCmd = ishell.Cmd{
		Name:    "use",
		Aliases: []string{"u"},
		Help:    "NODE",
		Func: func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("NODE required"))
				return
			}
			if err := ShellFrom(c).Use(c.Args[0]); err != nil {
				c.Err(err)
			}
		},
	}
)

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	s, err := New(NewConfig())
	if err != nil {
		log.Fatalln(err)
	}
	s.Run(flag.Args()...)
}

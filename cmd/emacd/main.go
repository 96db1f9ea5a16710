package main

//go-build: CGO_ENABLED=0

import (
	"flag"
	"log"

	"github.com/iromero91/emac.go/pkg/env/nic"
	"github.com/iromero91/emac.go/pkg/run"
)

func init() {
	nic.SetupFlags()
}

func main() {
	flag.Parse()

	n := nic.NewConfig().MustNewNIC()
	err := run.NewRunner().HandleSignals().Go(n.Runnables()...).Wait()
	if err != nil {
		log.Fatalln(err)
	}
}

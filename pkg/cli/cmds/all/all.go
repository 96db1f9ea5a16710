// Package all pulls in every command provider of the shell.
package all

import (
	_ "github.com/iromero91/emac.go/pkg/cli/cmds/nic"
)

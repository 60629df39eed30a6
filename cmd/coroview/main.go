package main

import (
	"os"

	"github.com/coroview/coroview/cmd/coroview/cmds"
)

func main() {
	if err := cmds.New().Execute(); err != nil {
		os.Exit(1)
	}
}

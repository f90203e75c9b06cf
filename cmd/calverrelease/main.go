package main

import (
	"os"

	"github.com/grokify/calverrelease/cmd/calverrelease/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

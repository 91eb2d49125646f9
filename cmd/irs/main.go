package main

import (
	"os"

	"github.com/meenmo/ratekit/cmd/irs/internal/commands"
)

func main() {
	os.Exit(commands.Run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

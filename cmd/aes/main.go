// Command aes runs agentic evaluation scenarios and records evidence.
package main

import (
	"os"

	"github.com/roach88/aes/internal/cli"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:], os.Stdout, os.Stderr))
}

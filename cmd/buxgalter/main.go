// Command buxgalter is the ledger CLI.
package main

import (
	"os"

	"github.com/mesh-intelligence/buxgalter/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}

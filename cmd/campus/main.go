// Command campus answers questions about a university from its website.
package main

import (
	"os"

	"github.com/custodia-labs/campus-assistant/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

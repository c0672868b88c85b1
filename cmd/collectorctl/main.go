package main

import (
	"os"

	"github.com/kestrel-systems/kestrel-collector/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"os"

	"github.com/rustyeddy/sigchart/cmd/sigchart/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

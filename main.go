package main

import (
	"os"

	"github.com/xeniter/romygo/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/voxaide/voxaide-core/cmd/voxaide/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

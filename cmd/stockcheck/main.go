package main

import (
	"os"

	"github.com/stockcheck-dev/stockcheck/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

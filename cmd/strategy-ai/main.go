package main

import (
	"os"

	"github.com/meghna-1234/game-strategy-ai/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

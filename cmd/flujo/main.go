package main

import (
	"os"

	"github.com/davidentech/flujo-caja-v2/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/kbukum/logkit/internal/commands"
)

func main() {
	if err := commands.NewApp().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

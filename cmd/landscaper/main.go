package main

import (
	"os"

	"landscaper/cmd/landscaper/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"os"

	"github.com/lalith-99/pocketchat/cmd/messenger/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"os"

	"github.com/teranos/modelexport/cmd/modelexport/commands"
)

func main() {
	os.Exit(commands.Execute())
}

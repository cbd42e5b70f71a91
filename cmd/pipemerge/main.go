package main

import (
	"os"

	"github.com/askiada/go-pipemerge/internal/cli/commands"
)

var Version = "dev"

func main() {
	os.Exit(commands.Execute(Version))
}

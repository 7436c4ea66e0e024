package main

import (
	"github.com/keywarden/keywarden/cli/cmd"
)

func main() {
	cmd.Execute()
}

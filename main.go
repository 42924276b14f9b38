package main

import (
	"os"

	"github.com/GopalOmotec/echolearn-updated/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

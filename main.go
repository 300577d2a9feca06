package main

import (
	"os"

	"github.com/haydenwalker/envseal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"os"

	"github.com/jmcampanini/git-pulls/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

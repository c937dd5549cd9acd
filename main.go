package main

import (
	"os"

	"github.com/prepsched/prepsched/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

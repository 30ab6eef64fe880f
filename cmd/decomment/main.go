package main

import (
	"os"

	"github.com/byRen2002/decomment/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

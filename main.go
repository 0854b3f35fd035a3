package main

import (
	"fmt"
	"os"

	"glitchchess/ui"
)

func main() {
	if err := ui.RunGlitchChess(); err != nil {
		fmt.Fprintf(os.Stderr, "glitchchess: %v\n", err)
		os.Exit(1)
	}
}

package main

import (
	"context"
	"os"

	"github.com/fatih/color"
)

func main() {
	if err := NewRootCommand().ExecuteContext(context.Background()); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "igortree: %v\n", err)
		os.Exit(1)
	}
}

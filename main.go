package main

import (
	"context"
	"fmt"
	"os"

	"briefcard/bootstrap"
)

func main() {
	if err := bootstrap.Run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "briefcard: %v\n", err)
		os.Exit(1)
	}
}

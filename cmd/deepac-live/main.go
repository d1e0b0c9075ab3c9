package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"deepaclive/internal/services"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	if code := services.ExitCode(err); code != 0 {
		return code
	}
	return services.ExitFailure
}

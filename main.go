package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/velamo/ghg/cmd/cli"
)

const (
	exitErrorTemplateConstant = "%v\n"
	fallbackExitCodeConstant  = 1
)

// main executes the ghg command-line application.
func main() {
	executionError := cli.Execute()
	if executionError == nil {
		return
	}

	fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, executionError)

	var exitCodeCarrier interface{ ExitCode() int }
	if errors.As(executionError, &exitCodeCarrier) && exitCodeCarrier.ExitCode() > 0 {
		os.Exit(exitCodeCarrier.ExitCode())
	}
	os.Exit(fallbackExitCodeConstant)
}

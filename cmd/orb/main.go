// Package main provides the entry point for the orb command line tool.
package main

import (
	"fmt"
	"os"

	"github.com/telnet2/orb-sdk-go/cmd/orb/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

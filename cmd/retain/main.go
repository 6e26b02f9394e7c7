// Command retain runs the retain demo application and inspects project
// configuration.
package main

import (
	"fmt"
	"os"

	"github.com/go-drift/retain/cmd/retain/cmd"
)

func main() {
	if err := cmd.Execute(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

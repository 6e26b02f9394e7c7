package cmd

import "fmt"

func init() {
	RegisterCommand(&Command{
		Name:  "version",
		Short: "Show version information",
		Long:  "Print the retain CLI version and build time.",
		Usage: "retain version",
		Run: func([]string) error {
			printVersion()
			return nil
		},
	})
}

func printVersion() {
	fmt.Fprintf(stdout, "retain version %s (built %s)\n", Version, BuildTime)
}

package cmd

import (
	"fmt"

	"github.com/go-drift/retain/pkg/config"
)

func init() {
	RegisterCommand(&Command{
		Name:  "config",
		Short: "Print the resolved configuration",
		Long: `Print the configuration of the current project as YAML.

Values missing from retain.yaml are filled with their defaults; the
application name defaults to the last element of the module path.`,
		Usage: "retain config",
		Run:   runConfig,
	})
}

func runConfig(args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("config takes no arguments (got %q)", args[0])
	}
	r, err := resolveConfig()
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "# %s\n", r.Root)
	return config.Write(stdout, r.Config())
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the release version, set at build time with
// -ldflags "-X github.com/mesh-intelligence/buxgalter/internal/cli.Version=...".
var Version = "0.1.0"

const modulePath = "github.com/mesh-intelligence/buxgalter"

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the buxgalter version",
		Args:  args(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.flags.jsonMode {
				return a.printer().JSON(map[string]string{"version": Version, "module": modulePath})
			}
			_, err := fmt.Fprintf(a.stdout, "buxgalter v%s\nmodule: %s\n", Version, modulePath)
			return err
		},
	}
}

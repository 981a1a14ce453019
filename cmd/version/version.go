package version

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/usegalaxy-eu/jcaas/version"
)

// Cmd represents the `jcaas version` command.
var Cmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.String())
	},
}

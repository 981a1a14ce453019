// Package cmd contains the jcaas CLI commands.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/usegalaxy-eu/jcaas/cmd/inspect"
	"github.com/usegalaxy-eu/jcaas/cmd/resolve"
	"github.com/usegalaxy-eu/jcaas/cmd/server"
	"github.com/usegalaxy-eu/jcaas/cmd/version"
)

// RootCmd represents the root command
var RootCmd = &cobra.Command{
	Use:           "jcaas",
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	RootCmd.AddCommand(inspect.Cmd)
	RootCmd.AddCommand(resolve.Cmd)
	RootCmd.AddCommand(server.Cmd)
	RootCmd.AddCommand(version.Cmd)
}

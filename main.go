package main

import (
	"os"

	"github.com/usegalaxy-eu/jcaas/cmd"
	"github.com/usegalaxy-eu/jcaas/logger"
)

func main() {
	if err := cmd.RootCmd.Execute(); err != nil {
		logger.PrintSimpleError(err)
		os.Exit(1)
	}
}

package server

import (
	"context"

	"github.com/imdario/mergo"
	"github.com/spf13/cobra"
	"github.com/usegalaxy-eu/jcaas/cmd/util"
	"github.com/usegalaxy-eu/jcaas/config"
	"github.com/usegalaxy-eu/jcaas/logger"
	"github.com/usegalaxy-eu/jcaas/server"
	"github.com/usegalaxy-eu/jcaas/version"
)

var log = logger.New("server cmd")
var configFile string
var flagConf = config.Config{}

// Cmd represents the `jcaas server` CLI command set.
var Cmd = &cobra.Command{
	Use:   "server",
	Short: "Runs the jcaas destination authority server.",
	Long:  ``,
	RunE: func(cmd *cobra.Command, args []string) error {

		// parse config file
		conf := config.DefaultConfig()
		if err := config.ParseFile(configFile, &conf); err != nil {
			return err
		}

		// file vals <- cli vals
		if err := mergo.MergeWithOverwrite(&conf, flagConf); err != nil {
			return err
		}

		return Run(conf)
	},
}

func init() {
	flags := Cmd.Flags()
	flags.StringVarP(&configFile, "config", "c", "", "Config File")
	flags.StringVar(&flagConf.Server.HostName, "hostname", flagConf.Server.HostName, "Host name or IP")
	flags.StringVar(&flagConf.Server.HTTPPort, "http-port", flagConf.Server.HTTPPort, "HTTP Port")
	flags.StringVar(&flagConf.Server.Logger.Level, "log-level", flagConf.Server.Logger.Level, "Level of logging")
	flags.StringVar(&flagConf.Server.Logger.OutputFile, "log-path", flagConf.Server.Logger.OutputFile, "File path to write logs to")
	flags.StringVar(&flagConf.Catalog.Specifications, "specifications", flagConf.Catalog.Specifications, "Backend specification file")
	flags.StringVar(&flagConf.Catalog.ToolDestinations, "tool-destinations", flagConf.Catalog.ToolDestinations, "Tool destination file")
}

// Run runs the jcaas destination authority server. This loads and
// validates the catalog, then serves resolutions over HTTP. This blocks
// indefinitely.
func Run(conf config.Config) error {
	logger.Configure(conf.Server.Logger)
	log.Info("Version", version.LogFields()...)

	cat, err := config.LoadCatalog(conf.Catalog)
	if err != nil {
		log.Error("Couldn't load catalog", err)
		return err
	}
	if err := cat.Validate(); err != nil {
		log.Error("Catalog validation failed", err)
		return err
	}

	srv := &server.Server{
		HTTPPort: conf.Server.HTTPPort,
		Resolver: util.NewResolver(conf, cat),
	}
	return srv.Serve(context.Background())
}

package resolve

import (
	"context"
	"fmt"

	"github.com/ghodss/yaml"
	"github.com/imdario/mergo"
	"github.com/spf13/cobra"
	"github.com/usegalaxy-eu/jcaas/cmd/util"
	"github.com/usegalaxy-eu/jcaas/config"
	"github.com/usegalaxy-eu/jcaas/gateway"
	"github.com/usegalaxy-eu/jcaas/logger"
)

var configFile string
var flagConf = config.Config{}
var roles []string
var email string
var resubmit bool
var local bool

// Cmd represents the `jcaas resolve` CLI command set.
var Cmd = &cobra.Command{
	Use:   "resolve [toolID]",
	Short: "Resolves the destination for one tool and prints it.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		conf := config.DefaultConfig()
		if err := config.ParseFile(configFile, &conf); err != nil {
			return err
		}
		if err := mergo.MergeWithOverwrite(&conf, flagConf); err != nil {
			return err
		}

		logger.Configure(conf.Server.Logger)

		cat, err := config.LoadCatalog(conf.Catalog)
		if err != nil {
			return err
		}

		client := gateway.NewClient(conf.Gateway, util.NewResolver(conf, cat))
		if local {
			client.URL = ""
		}

		ctx := context.Background()
		resolveFn := client.Resolve
		if resubmit {
			resolveFn = client.ResolveResubmission
		}
		desc, err := resolveFn(ctx, args[0], roles, email)
		if err != nil {
			return err
		}

		out, err := yaml.Marshal(desc)
		if err != nil {
			return err
		}
		fmt.Print(string(out))
		return nil
	},
}

func init() {
	flags := Cmd.Flags()
	flags.StringVarP(&configFile, "config", "c", "", "Config File")
	flags.StringSliceVar(&roles, "role", nil, "User role, repeatable")
	flags.StringVar(&email, "email", "", "User email")
	flags.BoolVar(&resubmit, "resubmit", false, "Resolve the resubmission destination")
	flags.BoolVar(&local, "local", false, "Skip the remote authority and resolve in-process")
	flags.StringVar(&flagConf.Gateway.URL, "gateway-url", flagConf.Gateway.URL, "Remote authority URL")
	flags.StringVar(&flagConf.Catalog.Specifications, "specifications", flagConf.Catalog.Specifications, "Backend specification file")
	flags.StringVar(&flagConf.Catalog.ToolDestinations, "tool-destinations", flagConf.Catalog.ToolDestinations, "Tool destination file")
}

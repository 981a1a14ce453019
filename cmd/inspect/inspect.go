package inspect

import (
	"fmt"
	"io"
	"reflect"
	"sort"

	"github.com/spf13/cobra"
	"github.com/usegalaxy-eu/jcaas/config"
	"github.com/usegalaxy-eu/jcaas/destination"
)

var configFile string
var check bool

// Cmd represents the `jcaas inspect` CLI command set. It renders every
// distinct tool spec in the catalog as a job conf destination stanza for
// operator review.
var Cmd = &cobra.Command{
	Use:   "inspect",
	Short: "Renders all distinct catalog destinations for review.",
	RunE: func(cmd *cobra.Command, args []string) error {
		conf := config.DefaultConfig()
		if err := config.ParseFile(configFile, &conf); err != nil {
			return err
		}

		cat, err := config.LoadCatalog(conf.Catalog)
		if err != nil {
			return err
		}

		if check {
			if err := cat.Validate(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "catalog OK")
			return nil
		}

		return render(cmd.OutOrStdout(), cat)
	},
}

func init() {
	flags := Cmd.Flags()
	flags.StringVarP(&configFile, "config", "c", "", "Config File")
	flags.BoolVar(&check, "check", false, "Validate the catalog instead of rendering it")
}

func render(w io.Writer, cat *config.Catalog) error {
	tools := make([]string, 0, len(cat.Tools))
	for tool := range cat.Tools {
		tools = append(tools, tool)
	}
	sort.Strings(tools)

	// Many tools share a destination; render each distinct one once.
	var seen []destination.ToolSpec
	for _, tool := range tools {
		spec := cat.Tools[tool]
		dup := false
		for _, s := range seen {
			if reflect.DeepEqual(s, spec) {
				dup = true
				break
			}
		}
		if !dup {
			seen = append(seen, spec)
		}
	}

	for _, spec := range seen {
		result, err := destination.Build(cat, spec)
		if err != nil {
			return err
		}
		toXML(w, spec, result)
	}
	return nil
}

func toXML(w io.Writer, spec destination.ToolSpec, result *destination.BuildResult) {
	fmt.Fprintf(w, "        <destination id=%q runner=%q>\n", spec.DestinationID(), result.Runner)

	params := make([]string, 0, len(result.Params))
	for k := range result.Params {
		params = append(params, k)
	}
	sort.Strings(params)
	for _, k := range params {
		fmt.Fprintf(w, "            <param id=%q>%s</param>\n", k, result.Params[k])
	}

	for _, e := range result.Env {
		fmt.Fprintf(w, "            <env id=%q>%s</env>\n", e.Name, e.Value)
	}
	fmt.Fprintf(w, "        </destination>\n\n")
}

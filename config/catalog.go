package config

import (
	"fmt"
	"os"

	"github.com/ghodss/yaml"
	"github.com/hashicorp/go-multierror"
	"github.com/usegalaxy-eu/jcaas/destination"
)

// Catalog holds the destination specification catalog: backend base
// templates and per-tool override records. Loaded once at startup and
// shared read-only by all resolutions.
type Catalog struct {
	Specifications map[string]destination.Template
	Tools          map[string]destination.ToolSpec
}

// DefaultCatalog returns a catalog with the built-in backend templates
// and no tool overrides.
func DefaultCatalog() *Catalog {
	return &Catalog{
		Specifications: DefaultSpecifications(),
		Tools:          map[string]destination.ToolSpec{},
	}
}

// LoadCatalog builds the catalog from the configured YAML files. Paths
// left empty keep the built-in defaults.
func LoadCatalog(files CatalogFiles) (*Catalog, error) {
	cat := DefaultCatalog()

	if files.Specifications != "" {
		raw, err := os.ReadFile(files.Specifications)
		if err != nil {
			return nil, fmt.Errorf("failed to read specifications at path %s: %v", files.Specifications, err)
		}
		specs := map[string]destination.Template{}
		if err := yaml.Unmarshal(raw, &specs); err != nil {
			return nil, fmt.Errorf("failed to parse specifications at path %s: %v", files.Specifications, err)
		}
		cat.Specifications = specs
	}

	if files.ToolDestinations != "" {
		raw, err := os.ReadFile(files.ToolDestinations)
		if err != nil {
			return nil, fmt.Errorf("failed to read tool destinations at path %s: %v", files.ToolDestinations, err)
		}
		tools := map[string]destination.ToolSpec{}
		if err := yaml.Unmarshal(raw, &tools); err != nil {
			return nil, fmt.Errorf("failed to parse tool destinations at path %s: %v", files.ToolDestinations, err)
		}
		cat.Tools = tools
	}

	return cat, nil
}

// BackendTemplate returns the base template for a backend name, or an
// empty template for unknown names.
func (c *Catalog) BackendTemplate(name string) destination.Template {
	return c.Specifications[name]
}

// ToolOverride returns the override record for a short tool id.
func (c *Catalog) ToolOverride(shortID string) (destination.ToolSpec, bool) {
	spec, ok := c.Tools[shortID]
	return spec, ok
}

// Validate renders every tool record and every backend template through
// the spec builder, collecting all broken records instead of stopping at
// the first. An unresolved token here means the catalog itself is
// broken.
func (c *Catalog) Validate() error {
	var result *multierror.Error

	for name := range c.Specifications {
		spec := destination.ToolSpec{Runner: name}
		if _, err := destination.Build(c, spec); err != nil {
			result = multierror.Append(result, fmt.Errorf("backend %q: %v", name, err))
		}
	}

	for tool, spec := range c.Tools {
		if _, err := destination.Build(c, spec); err != nil {
			result = multierror.Append(result, fmt.Errorf("tool %q: %v", tool, err))
		}
	}

	return result.ErrorOrNil()
}

// Package config describes configuration for jcaas, and loads the
// destination specification catalog.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ghodss/yaml"
	"github.com/usegalaxy-eu/jcaas/logger"
)

// Config describes configuration for jcaas.
type Config struct {
	Server  Server
	Gateway Gateway
	Cluster Cluster
	Catalog CatalogFiles
	// AuthorizedEmail is the only user allowed to run the diagnostic
	// environment tool.
	AuthorizedEmail string
}

// Server describes the destination authority HTTP server.
type Server struct {
	HostName string
	HTTPPort string
	Logger   logger.LoggerConfig
}

// HTTPAddress returns the base address of the server.
func (s Server) HTTPAddress() string {
	return "http://" + s.HostName + ":" + s.HTTPPort
}

// Gateway describes the remote destination authority and the retry
// policy used when calling it.
type Gateway struct {
	// URL of the remote authority. Empty disables the remote attempt
	// and resolves everything in-process.
	URL string
	// Timeout of a single remote call.
	Timeout Duration
	// MaxTries bounds the remote attempts before falling back to the
	// local pipeline.
	MaxTries int
}

// Cluster describes the cluster status probe and kill-switch markers.
type Cluster struct {
	StatusCommand     string
	InventoryTTL      Duration
	SGEDisableFile    string
	CondorDisableFile string
}

// CatalogFiles points at the YAML catalog files. Empty paths fall back
// to the built-in defaults.
type CatalogFiles struct {
	// Specifications holds the per-backend base templates.
	Specifications string
	// ToolDestinations holds the per-tool override records.
	ToolDestinations string
}

// ToYaml formats the configuration into YAML and returns the bytes.
func ToYaml(c Config) ([]byte, error) {
	return yaml.Marshal(c)
}

// Parse parses a YAML doc into the given Config instance.
func Parse(raw []byte, conf *Config) error {
	return yaml.Unmarshal(raw, conf)
}

// ParseFile parses a jcaas config file, which is formatted in YAML,
// into the given Config instance.
func ParseFile(relpath string, conf *Config) error {
	if relpath == "" {
		return nil
	}

	// Try to get absolute path. If it fails, fall back to relative path.
	path, abserr := filepath.Abs(relpath)
	if abserr != nil {
		path = relpath
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config at path %s: %v", path, err)
	}

	err = Parse(source, conf)
	if err != nil {
		return fmt.Errorf("failed to parse config at path %s: %v", path, err)
	}
	return nil
}

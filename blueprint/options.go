package blueprint

import (
	"log/slog"

	"github.com/opencm/cloudify-common-opencm/resource"
)

// ParseOption configures a Parse/ParseFromPath/ParseFromURL invocation
// (spec.md §6), mirroring the teacher's schemas.ValidationOption
// functional-options shape.
type ParseOption func(*parseConfig)

type parseConfig struct {
	aliasMapping     map[string]string
	aliasMappingURL  string
	resourcesBaseURL string
	logger           *slog.Logger
}

// WithAliasMapping supplies an inline name→name alias mapping, applied
// after any URL-loaded mapping (spec.md §4.2).
func WithAliasMapping(mapping map[string]string) ParseOption {
	return func(c *parseConfig) { c.aliasMapping = mapping }
}

// WithAliasMappingURL supplies a YAML document URL holding the alias
// mapping, loaded before the inline mapping (spec.md §4.2).
func WithAliasMappingURL(url string) ParseOption {
	return func(c *parseConfig) { c.aliasMappingURL = url }
}

// WithResourcesBaseURL supplies the final fallback prefix used by the
// Resource Resolver (spec.md §4.1).
func WithResourcesBaseURL(baseURL string) ParseOption {
	return func(c *parseConfig) { c.resourcesBaseURL = baseURL }
}

// WithLogger supplies a structured logger for import-fetch and
// node-processed trace lines. Defaults to slog.Default() if never set.
func WithLogger(logger *slog.Logger) ParseOption {
	return func(c *parseConfig) { c.logger = logger }
}

func (c *parseConfig) resolver() *resource.Resolver {
	return resource.NewResolver(c.resourcesBaseURL)
}

func (c *parseConfig) log() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return slog.Default()
}

package config

// Defaults applied before the config file, environment, and flags.
const (
	DefaultListen   = ":8080"
	DefaultBasePath = "/"
	DefaultTitle    = "Sample metadata"
	DefaultOntology = "efo"
	DefaultPolicy   = "strict"
	DefaultRows     = 10
)

// Config is the resolved server configuration.
type Config struct {
	Listen   string `koanf:"listen"`
	BasePath string `koanf:"base_path"`
	Title    string `koanf:"title"`

	OLSUpstream     string `koanf:"ols_upstream"`
	DefaultOntology string `koanf:"default_ontology"`
	Rows            int    `koanf:"rows"`

	RoutingFile    string `koanf:"routing_file"`
	VocabularyFile string `koanf:"vocabulary_file"`

	// Policy selects the closed-vocabulary enforcement variant,
	// "strict" or "loose".
	Policy string `koanf:"policy"`

	Verbose bool `koanf:"verbose"`
}

package gather

import (
	"github.com/kelseyhightower/envconfig"
)

// Config groups the pool tunables. Values are taken from environment
// variables with the prefix "GATHER_". Example: GATHER_WORKERS=16 .
type Config struct {
	Workers int `envconfig:"WORKERS" default:"8"`
}

// LoadConfig populates Config from environment variables (prefix GATHER_).
func LoadConfig() (Config, error) {
	var c Config
	return c, envconfig.Process("GATHER", &c)
}

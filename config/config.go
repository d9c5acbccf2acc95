package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type (
	// Env holds the values of environment variable based configuration
	Env struct {
		Host            string        `envconfig:"HOST" default:"127.0.0.1"`
		Port            int           `envconfig:"PORT" default:"6969"`
		TargetURL       string        `envconfig:"TARGET_URL"`
		AddCORSHeaders  bool          `envconfig:"ADD_CORS_HEADERS" default:"false"`
		ExtraHeaders    []string      `envconfig:"EXTRA_HEADERS"`
		MockConfigPath  string        `envconfig:"GNOCK_MOCKS"`
		SaveDirectory   string        `envconfig:"GNOCK_SAVE_DIR"`
		HideHeaders     bool          `envconfig:"HIDE_HEADERS" default:"false"`
		HideBody        bool          `envconfig:"HIDE_BODY" default:"false"`
		UpstreamTimeout time.Duration `envconfig:"UPSTREAM_TIMEOUT" default:"30s"`
		LogLevel        string        `envconfig:"LOG_LEVEL" default:"debug"`
	}
)

// New returns a new Env config
func New() *Env {
	cfg := &Env{}

	envconfig.MustProcess("", cfg)

	return cfg
}

package main

import (
	"net/url"

	"github.com/sirupsen/logrus"
	"github.com/zerbitx/gnockthru/config"
	"github.com/zerbitx/gnockthru/relay"
	"github.com/zerbitx/gnockthru/spec"
)

func main() {
	cfg := config.New()

	logger := logrus.New()
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	if cfg.TargetURL == "" {
		logger.Fatal("TARGET_URL is required")
	}

	if _, err := url.ParseRequestURI(cfg.TargetURL); err != nil {
		logger.WithError(err).Fatalf("invalid target URL %s", cfg.TargetURL)
	}

	options := []relay.Option{
		relay.WithLogger(logger),
		relay.WithHost(cfg.Host),
		relay.WithPort(cfg.Port),
		relay.WithTarget(cfg.TargetURL),
		relay.WithExtraHeaders(cfg.ExtraHeaders),
		relay.WithUpstreamTimeout(cfg.UpstreamTimeout),
	}

	// No catalog...no problem; every request forwards.
	if cfg.MockConfigPath != "" {
		catalog, err := spec.Load(cfg.MockConfigPath)
		if err != nil {
			logger.WithError(err).Fatal("failed to load mock catalog")
		}

		logger.WithFields(logrus.Fields{"mocks": len(catalog.Mocks), "path": cfg.MockConfigPath}).Info("catalog loaded")
		options = append(options, relay.WithCatalog(catalog))
	}

	if cfg.AddCORSHeaders {
		options = append(options, relay.WithCORSHeaders())
	}

	if cfg.SaveDirectory != "" {
		options = append(options, relay.WithSaveDir(cfg.SaveDirectory))
	}

	if cfg.HideHeaders {
		options = append(options, relay.WithHideHeaders())
	}

	if cfg.HideBody {
		options = append(options, relay.WithHideBody())
	}

	if err := relay.New(options...).Start(); err != nil {
		logger.Fatal(err)
	}
}

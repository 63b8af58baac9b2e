package collector

import (
	"github.com/egresswatch/egresswatch/internal/config"
	"github.com/egresswatch/egresswatch/internal/pkg/errors"
	"github.com/egresswatch/egresswatch/internal/pkg/logger"
)

// FromConfig builds the enabled collectors. Provider names were already
// validated by the configuration layer; credentials are checked here so
// a misconfigured provider fails at startup rather than mid-run.
func FromConfig(cfg config.CollectorConfig, log *logger.Logger) ([]Collector, error) {
	var out []Collector
	for _, name := range cfg.Providers {
		switch name {
		case "static":
			if cfg.StaticDataPath == "" {
				return nil, errors.ConfigurationError("static collector requires COLLECTOR_STATIC_PATH", nil)
			}
			out = append(out, NewStaticCollector(cfg.StaticDataPath, log))
		case "azure":
			if cfg.AzureSubscriptionID == "" || cfg.AzureTenantID == "" || cfg.AzureClientID == "" {
				return nil, errors.ConfigurationError("azure collector requires subscription, tenant, and client IDs", nil)
			}
			out = append(out, NewAzureCollector(cfg, log))
		case "aws":
			out = append(out, NewAWSCollector(cfg, log))
		}
	}
	return out, nil
}

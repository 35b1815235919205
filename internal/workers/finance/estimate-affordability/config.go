package estimateaffordability

import (
	"fmt"
	"time"

	"vehicle-finance-workers/internal/common/config"
	"vehicle-finance-workers/internal/finance"
)

type Config struct {
	Enabled         bool
	MaxJobsActive   int
	Timeout         time.Duration
	NetIncomeFactor float64
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:         true,
		MaxJobsActive:   10,
		Timeout:         5 * time.Second,
		NetIncomeFactor: finance.DefaultNetIncomeFactor,
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxJobsActive <= 0 {
		return fmt.Errorf("max_jobs_active must be positive")
	}
	if c.NetIncomeFactor <= 0 || c.NetIncomeFactor > 1 {
		return fmt.Errorf("net_income_factor must be in (0, 1]")
	}
	return nil
}

func createConfigFromAppConfig(appConfig *config.Config, customConfig *Config) *Config {
	if customConfig != nil {
		return customConfig
	}

	cfg := DefaultConfig()
	if appConfig == nil {
		return cfg
	}

	if workerCfg, exists := appConfig.Workers[WorkerName]; exists {
		cfg.Enabled = workerCfg.Enabled
		if workerCfg.MaxJobsActive > 0 {
			cfg.MaxJobsActive = workerCfg.MaxJobsActive
		}
		if workerCfg.Timeout > 0 {
			cfg.Timeout = config.GetDuration(workerCfg.Timeout)
		}
	}
	if appConfig.Finance.NetIncomeFactor > 0 {
		cfg.NetIncomeFactor = appConfig.Finance.NetIncomeFactor
	}
	return cfg
}

package sendbudgetalert

import (
	"fmt"
	"time"

	"vehicle-finance-workers/internal/common/config"
)

type Config struct {
	Enabled       bool
	MaxJobsActive int
	Timeout       time.Duration
	SNSEnabled    bool
	TopicARN      string
	SESEnabled    bool
	FromEmail     string
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:       true,
		MaxJobsActive: 5,
		Timeout:       15 * time.Second,
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxJobsActive <= 0 {
		return fmt.Errorf("max_jobs_active must be positive")
	}
	if c.SNSEnabled && c.TopicARN == "" {
		return fmt.Errorf("topic_arn is required when SNS is enabled")
	}
	if c.SESEnabled && c.FromEmail == "" {
		return fmt.Errorf("from_email is required when SES is enabled")
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

	n := appConfig.Notifications
	cfg.SNSEnabled = n.SNS.Enabled
	cfg.TopicARN = n.SNS.TopicARN
	cfg.SESEnabled = n.SES.Enabled
	cfg.FromEmail = n.SES.FromEmail
	return cfg
}

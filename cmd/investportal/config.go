package main

import (
	"context"
	"fmt"
	"time"

	"investportal/internal/api"
	"investportal/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

func loadConfig() (*types.Config, error) {
	c := new(types.Config)
	if err := envconfig.Process("", c); err != nil {
		return nil, fmt.Errorf("process environment config: %w", err)
	}

	if c.APIBaseURL == "" {
		return nil, fmt.Errorf("set API_BASE_URL")
	}

	if c.ServerPort == 0 {
		c.ServerPort = 8080
	}

	if c.ReadTimeoutSec == 0 {
		c.ReadTimeoutSec = 10
	}

	if c.WriteTimeoutSec == 0 {
		c.WriteTimeoutSec = 15
	}

	if c.APITimeoutSec == 0 {
		c.APITimeoutSec = 30
	}

	if c.AttachmentLinkTTLMin == 0 {
		c.AttachmentLinkTTLMin = 15
	}

	if c.DraftMemoryMB == 0 {
		c.DraftMemoryMB = 256
	}

	return c, nil
}

func loadAWSConfig(ctx context.Context) (aws.Config, error) {
	config, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load aws config: %w", err)
	}

	return config, nil
}

func newLogger(c *types.Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		logger.WithError(err).Warnf("unknown LOG_LEVEL %q, using info", c.LogLevel)
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	return logger
}

func newAPIClient(c *types.Config, logger *logrus.Logger) *api.Client {
	return api.NewClient(c.APIBaseURL, time.Duration(c.APITimeoutSec)*time.Second, logger)
}

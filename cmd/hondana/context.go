package main

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"hondana/internal/config"
	"hondana/internal/logging"
	"hondana/internal/pipeline"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	c.loggerOnce.Do(func() {
		logger, err := logging.New(logging.Options{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
			LogDir: cfg.Paths.LogDir,
		})
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) runner() (*pipeline.Runner, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cfg, logger), nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

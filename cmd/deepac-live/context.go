package main

import (
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"deepaclive/internal/config"
	"deepaclive/internal/services"
)

// skipConfigLoad is the annotation key for commands that must run without a
// loadable configuration, such as config init.
const skipConfigLoad = "skipConfigLoad"

// commandContext lazily loads the configuration named by --config and shares
// it across the command tree of one invocation.
type commandContext struct {
	configFlag string

	load         sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.load.Do(func() {
		cfg, resolved, exists, err := config.Load(strings.TrimSpace(c.configFlag))
		c.configPath, c.configExists = resolved, exists
		if err != nil {
			c.configErr = services.Wrap(services.ErrConfiguration, "cli", "load config", "", err)
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func needsConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[skipConfigLoad] == "true" {
			return false
		}
	}
	return true
}

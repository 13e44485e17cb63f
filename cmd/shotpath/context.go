package main

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"shotpath/internal/catalog"
	"shotpath/internal/config"
	"shotpath/internal/entity"
	"shotpath/internal/logging"
	"shotpath/internal/remote"
	"shotpath/internal/site"
	"shotpath/internal/version"
)

type commandContext struct {
	configFlag *string
	jsonFlag   *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		jsonFlag:   jsonFlag,
	}
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
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) jsonOutput() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

// entityOptions wires logging and site resolution into entities built by a
// command. The remote transport is attached only when requireTransport is
// set, since opening an S3 client is wasted work for local inspection.
func (c *commandContext) entityOptions(ctx context.Context, requireTransport bool) ([]entity.Option, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	resolver := site.NewResolver(cfg)
	opts := []entity.Option{
		entity.WithLogger(logger),
		entity.WithSites(resolver),
	}
	if !requireTransport {
		return opts, nil
	}
	transport, err := remote.New(ctx, cfg, resolver, logger)
	if err != nil {
		return nil, err
	}
	return append(opts, entity.WithTransport(transport)), nil
}

func (c *commandContext) withCatalog(fn func(*catalog.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return err
	}
	store, err := catalog.OpenFromConfig(cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

// isNoTransport reports whether err means syncing is switched off.
func isNoTransport(err error) bool {
	return errors.Is(err, remote.ErrNoTransport)
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

func (c *commandContext) finder() (*version.Finder, error) {
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	return version.NewFinder(version.WithLogger(logger)), nil
}

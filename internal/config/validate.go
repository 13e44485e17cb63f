package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
//
// A missing site location is not an error here: only the sync operations need
// it, and they report it when they run.
func (c *Config) Validate() error {
	if err := c.validateSite(); err != nil {
		return err
	}
	if err := c.validateRemote(); err != nil {
		return err
	}
	if err := c.validateCatalog(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateSite() error {
	for location, remote := range c.Site.Remotes {
		if remote == "" {
			return fmt.Errorf("site.remotes.%s must name a remote site", location)
		}
		if remote == location {
			return fmt.Errorf("site.remotes.%s cannot point at itself", location)
		}
	}
	return nil
}

func (c *Config) validateRemote() error {
	switch c.Remote.Backend {
	case BackendNone, BackendMirror:
	case BackendS3:
		if strings.TrimSpace(c.Remote.S3.Bucket) == "" {
			return errors.New("remote.s3.bucket must be set when remote.backend is \"s3\"")
		}
	default:
		return fmt.Errorf("remote.backend: unsupported value %q (want none, mirror, or s3)", c.Remote.Backend)
	}
	if c.Remote.MaxRetrySeconds <= 0 {
		return errors.New("remote.max_retry_seconds must be positive")
	}
	return nil
}

func (c *Config) validateCatalog() error {
	if !c.Catalog.Enabled {
		return nil
	}
	if strings.TrimSpace(c.Catalog.Path) == "" {
		return errors.New("catalog.path must be set when catalog.enabled is true")
	}
	if c.Catalog.LockTimeoutSeconds <= 0 {
		return errors.New("catalog.lock_timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !validLogLevel(c.Logging.Level) {
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	if c.Logging.FileLevel != "" && !validLogLevel(c.Logging.FileLevel) {
		return fmt.Errorf("logging.file_level: unsupported value %q", c.Logging.FileLevel)
	}
	return nil
}

func validLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}

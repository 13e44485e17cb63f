package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeSite()
	if err := c.normalizeRemote(); err != nil {
		return err
	}
	if err := c.normalizeCatalog(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeSite() {
	c.Site.Location = strings.ToLower(strings.TrimSpace(c.Site.Location))
	if c.Site.Location == "" {
		if value, ok := os.LookupEnv(defaultLocationEnv); ok {
			c.Site.Location = strings.ToLower(strings.TrimSpace(value))
		}
	}
	if len(c.Site.Remotes) == 0 {
		c.Site.Remotes = defaultRemotes()
		return
	}
	remotes := make(map[string]string, len(c.Site.Remotes))
	for location, remote := range c.Site.Remotes {
		location = strings.ToLower(strings.TrimSpace(location))
		remote = strings.ToLower(strings.TrimSpace(remote))
		if location == "" {
			continue
		}
		remotes[location] = remote
	}
	c.Site.Remotes = remotes
}

func (c *Config) normalizeRemote() error {
	if root := strings.TrimSpace(c.Remote.MirrorRoot); root != "" {
		expanded, err := expandPath(root)
		if err != nil {
			return fmt.Errorf("remote.mirror_root: %w", err)
		}
		c.Remote.MirrorRoot = expanded
	}
	c.Remote.Backend = strings.ToLower(strings.TrimSpace(c.Remote.Backend))
	if c.Remote.Backend == "" {
		c.Remote.Backend = defaultRemoteBackend
	}
	if c.Remote.MaxRetrySeconds <= 0 {
		c.Remote.MaxRetrySeconds = defaultRemoteMaxRetrySecs
	}
	s3 := &c.Remote.S3
	s3.Endpoint = strings.TrimSpace(s3.Endpoint)
	s3.Bucket = strings.TrimSpace(s3.Bucket)
	s3.Prefix = strings.Trim(strings.TrimSpace(s3.Prefix), "/")
	s3.Region = strings.TrimSpace(s3.Region)
	if s3.Region == "" {
		if value, ok := os.LookupEnv("AWS_REGION"); ok && strings.TrimSpace(value) != "" {
			s3.Region = strings.TrimSpace(value)
		} else {
			s3.Region = defaultS3Region
		}
	}
	s3.AccessKeyID = strings.TrimSpace(s3.AccessKeyID)
	if s3.AccessKeyID == "" {
		if value, ok := os.LookupEnv("AWS_ACCESS_KEY_ID"); ok {
			s3.AccessKeyID = strings.TrimSpace(value)
		}
	}
	s3.SecretAccessKey = strings.TrimSpace(s3.SecretAccessKey)
	if s3.SecretAccessKey == "" {
		if value, ok := os.LookupEnv("AWS_SECRET_ACCESS_KEY"); ok {
			s3.SecretAccessKey = strings.TrimSpace(value)
		}
	}
	return nil
}

func (c *Config) normalizeCatalog() error {
	var err error
	if strings.TrimSpace(c.Catalog.Path) == "" {
		c.Catalog.Path = defaultCatalogPath
	}
	if c.Catalog.Path, err = expandPath(c.Catalog.Path); err != nil {
		return fmt.Errorf("catalog.path: %w", err)
	}
	if c.Catalog.LockTimeoutSeconds <= 0 {
		c.Catalog.LockTimeoutSeconds = defaultCatalogLockTimeout
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.FileLevel = strings.ToLower(strings.TrimSpace(c.Logging.FileLevel))
}

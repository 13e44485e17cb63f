package config

const (
	defaultDataDir            = "~/.local/share/shotpath"
	defaultLogDir             = "~/.local/share/shotpath/logs"
	defaultCatalogPath        = "~/.local/share/shotpath/catalog.db"
	defaultCatalogLockTimeout = 10
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultRemoteBackend      = BackendMirror
	defaultRemoteMaxRetrySecs = 60
	defaultS3Region           = "us-east-1"
	defaultS3Prefix           = "shotpath"
	defaultLocationEnv        = "CE_LOCATION"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Site: Site{
			Remotes: defaultRemotes(),
		},
		Remote: Remote{
			Backend:         defaultRemoteBackend,
			MaxRetrySeconds: defaultRemoteMaxRetrySecs,
			S3: S3{
				Region: defaultS3Region,
				Prefix: defaultS3Prefix,
				UseSSL: true,
			},
		},
		Catalog: Catalog{
			Enabled:            true,
			Path:               defaultCatalogPath,
			LockTimeoutSeconds: defaultCatalogLockTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

func defaultRemotes() map[string]string {
	return map[string]string{
		"syd": "bne",
		"bne": "syd",
	}
}

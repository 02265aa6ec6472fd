package storage

// Config holds configuration for the storage provider.
type Config struct {
	// Provider selects the object store backend (azure, minio, s3).
	Provider string `mapstructure:"provider" default:"azure"`
	// Connection is the name of the connection string to use.
	Connection string `mapstructure:"connection" default:"CloudStorageConnection"`
	// ConnectionStrings maps connection names to provider connection strings.
	// Names are matched case-insensitively.
	ConnectionStrings map[string]string `mapstructure:"connection_strings"`
	// Container is the default destination container for uploads.
	Container string `mapstructure:"container" default:"$web"`
	// MaxAttempts is the total number of attempts per storage call, first try included.
	MaxAttempts int `mapstructure:"max_attempts" default:"4"`
	// TimeoutSeconds is the connection timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}

// Providers supported by NewClient.
const (
	ProviderAzure = "azure"
	ProviderMinio = "minio"
	ProviderS3    = "s3"
)

func (c Config) attempts() int {
	if c.MaxAttempts <= 0 {
		return 4
	}
	return c.MaxAttempts
}

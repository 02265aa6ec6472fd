package config

import (
	"errors"
	"os"
	"reflect"
	"strings"

	"blob-uploader/core/database"
	"blob-uploader/core/logger"
	"blob-uploader/core/server"
	"blob-uploader/core/storage"
	"blob-uploader/feature/upload"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// connectionEnvPrefix marks environment variables holding named connection strings,
// e.g. STORAGE_CONNECTION_STRINGS_CLOUDSTORAGECONNECTION.
const connectionEnvPrefix = "STORAGE_CONNECTION_STRINGS_"

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Storage holds configuration for the object storage (Azure, MinIO, S3).
	Storage storage.Config `mapstructure:"storage"`
	// Upload holds defaults for directory uploads.
	Upload upload.Config `mapstructure:"upload"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the upload journal database.
	Database database.Config `mapstructure:"database"`
}

// LoadConfig loads configuration from environment variables, an optional
// config.yaml and an optional .env file found in path.
func LoadConfig(path string) (*Config, error) {
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. STORAGE_PROVIDER -> storage.provider)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	mergeConnectionEnv(&config.Storage, os.Environ())

	return &config, nil
}

// mergeConnectionEnv adds connection strings declared as environment variables.
// Environment values win over config file values with the same name.
func mergeConnectionEnv(cfg *storage.Config, environ []string) {
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, connectionEnvPrefix) {
			continue
		}
		name := strings.ToLower(strings.TrimPrefix(key, connectionEnvPrefix))
		if name == "" {
			continue
		}
		if cfg.ConnectionStrings == nil {
			cfg.ConnectionStrings = map[string]string{}
		}
		for existing := range cfg.ConnectionStrings {
			if strings.EqualFold(existing, name) {
				delete(cfg.ConnectionStrings, existing)
			}
		}
		cfg.ConnectionStrings[name] = value
	}
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	// If it's a pointer, get the element
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		// Skip if no tag
		if tag == "" {
			continue
		}

		// Build the key
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		// If it's a nested struct, recurse
		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		// Maps come from the config file or mergeConnectionEnv, never from a scalar default.
		if field.Type.Kind() == reflect.Map {
			continue
		}

		defaultValue := field.Tag.Get("default")
		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, defaultValue)
	}
}

// Package config provides configuration management for the uploader.
//
// It utilizes Viper for loading configuration from environment variables,
// an optional config.yaml and an optional .env file.
//
// # Configuration Structure
//
//   - Server: HTTP server settings (port, API key)
//   - Storage: provider, connection name, named connection strings, retry budget
//   - Upload: default source directory and upload concurrency
//   - Database: optional upload journal (mysql or sqlite)
//   - Log: logging level and format
//
// Named connection strings are read from storage.connection_strings in config.yaml
// or from STORAGE_CONNECTION_STRINGS_<NAME> environment variables.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Storage.Container)
package config

package upload

// Config holds defaults for directory uploads.
type Config struct {
	// Source is the default local directory to upload.
	Source string `mapstructure:"source" default:""`
	// Prefix is prepended to every blob name.
	Prefix string `mapstructure:"prefix" default:""`
	// Concurrency is the number of files uploaded in parallel within a directory.
	Concurrency int `mapstructure:"concurrency" default:"1"`
}

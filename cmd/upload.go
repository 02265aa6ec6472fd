package cmd

import (
	"fmt"

	"blob-uploader/core/storage"
	"blob-uploader/feature/upload"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	uploadSource      string
	uploadContainer   string
	uploadPrefix      string
	uploadConcurrency int
	uploadConnection  string
	uploadProvider    string
)

// uploadCmd uploads a directory tree into a container.
var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Upload a local directory tree into a container",
	Long: `Uploads every file below --source into --container, naming each blob by its
path relative to the source directory. The container is created when missing.
Prints "true" once the whole tree has been uploaded.

Examples:
  # Upload ./public into the static website container
  upload --source ./public --container '$web'

  # Upload under a prefix with 8 parallel uploads per directory
  upload --source ./dist --container releases --prefix v1.2.0 --concurrency 8`,
	Args: cobra.NoArgs,
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().StringVar(&uploadSource, "source", "", "Local directory to upload (default upload.source)")
	uploadCmd.Flags().StringVar(&uploadContainer, "container", "", "Destination container (default storage.container)")
	uploadCmd.Flags().StringVar(&uploadPrefix, "prefix", "", "Blob name prefix (default upload.prefix)")
	uploadCmd.Flags().IntVar(&uploadConcurrency, "concurrency", 0, "Parallel uploads per directory (default upload.concurrency)")
	uploadCmd.Flags().StringVar(&uploadConnection, "connection", "", "Connection string name (default storage.connection)")
	uploadCmd.Flags().StringVar(&uploadProvider, "provider", "", "Storage provider: azure, minio, s3 (default storage.provider)")

	RootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	cfg, logg, err := bootstrap()
	if err != nil {
		return err
	}
	defer logg.Sync()

	if uploadConnection != "" {
		cfg.Storage.Connection = uploadConnection
	}
	if uploadProvider != "" {
		cfg.Storage.Provider = uploadProvider
	}
	concurrency := cfg.Upload.Concurrency
	if uploadConcurrency > 0 {
		concurrency = uploadConcurrency
	}
	req := upload.Request{
		Source:    firstNonEmpty(uploadSource, cfg.Upload.Source),
		Container: firstNonEmpty(uploadContainer, cfg.Storage.Container),
		Prefix:    firstNonEmpty(uploadPrefix, cfg.Upload.Prefix),
	}

	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to create storage client: %w", err)
	}

	var recorder upload.Recorder
	if repo := openJournal(cfg.Database, logg); repo != nil {
		recorder = repo
	}

	walker := upload.NewWalker(client, afero.NewOsFs(), logg, concurrency)
	svc := upload.NewService(client, walker, cfg.Storage.Container, cfg.Storage.Provider, recorder, logg)

	result, err := svc.Upload(cmd.Context(), req)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), result.Success)
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

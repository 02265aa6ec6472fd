package cmd

import (
	"fmt"

	"blob-uploader/core/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// containersCmd groups container operations.
var containersCmd = &cobra.Command{
	Use:   "containers",
	Short: "Inspect or create storage containers",
}

// containerExistsCmd prints whether a container exists.
var containerExistsCmd = &cobra.Command{
	Use:   "exists [name]",
	Short: "Print true when the container exists",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, logg, err := storageClient()
		if err != nil {
			return err
		}
		defer logg.Sync()

		exists, err := client.ContainerExists(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), exists)
		return nil
	},
}

// containerCreateCmd creates a container; prints false when it already existed.
var containerCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a container (prints false when it already exists)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, logg, err := storageClient()
		if err != nil {
			return err
		}
		defer logg.Sync()

		created, err := client.CreateContainer(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		logg.Info("Container create requested", zap.String("container", args[0]), zap.Bool("created", created))
		fmt.Fprintln(cmd.OutOrStdout(), created)
		return nil
	},
}

func init() {
	containersCmd.AddCommand(containerExistsCmd)
	containersCmd.AddCommand(containerCreateCmd)
	RootCmd.AddCommand(containersCmd)
}

func storageClient() (storage.Client, *zap.Logger, error) {
	cfg, logg, err := bootstrap()
	if err != nil {
		return nil, nil, err
	}
	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return client, logg, nil
}

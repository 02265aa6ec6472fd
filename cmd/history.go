package cmd

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var historyLimit int

// historyCmd lists recent uploads from the journal.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent uploads recorded in the journal",
	Long:  `Lists upload runs recorded in the configured database (DATABASE_DRIVER must be set).`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logg, err := bootstrap()
		if err != nil {
			return err
		}
		defer logg.Sync()

		if !cfg.Database.Enabled() {
			return errors.New("no database configured for the upload journal")
		}
		repo := openJournal(cfg.Database, logg)
		if repo == nil {
			return errors.New("upload journal unavailable")
		}

		runs, err := repo.List(cmd.Context(), historyLimit)
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tSTARTED\tSTATUS\tCONTAINER\tFILES\tBYTES\tSOURCE")
		for _, r := range runs {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%s\n",
				r.ID, r.StartedAt.Format(time.RFC3339), r.Status, r.Container, r.Files, r.Bytes, r.Source)
		}
		return tw.Flush()
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of runs to list")
	RootCmd.AddCommand(historyCmd)
}

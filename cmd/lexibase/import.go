package main

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"lexibase/internal/service"
)

func importCmd(a *app) *cobra.Command {
	var (
		run     bool
		watch   bool
		dataDir string
	)

	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import a dataset file, or list the data files",
		Long: `Import applies one dataset file in a single transaction.

Without --run the import is a dry run and is rolled back. Without a file
argument the importable files in the data directory are listed.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dataDir != "" {
				a.cfg.Import.DataDir = dataDir
			}

			repo, err := a.openRepo()
			if err != nil {
				return err
			}
			defer repo.Close()

			importer := service.NewImporter(repo, nil, a.logger, a.cfg.Import.DataDir, cmd.OutOrStdout())

			if watch {
				if run {
					return errors.New("--watch only dry-runs; drop --run")
				}
				if len(args) != 1 {
					return errors.New("--watch needs exactly one file")
				}
				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
				defer stop()
				return importer.Watch(ctx, args[0])
			}

			_, err = importer.Run(cmd.Context(), args, run)
			return err
		},
	}

	cmd.Flags().BoolVar(&run, "run", false, "commit the import instead of rolling back")
	cmd.Flags().BoolVar(&watch, "watch", false, "dry-run the file again whenever it changes")
	cmd.Flags().StringVar(&dataDir, "data-dir", "", "data directory (overrides config)")
	return cmd
}

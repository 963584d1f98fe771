package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"lexibase/internal/service"
)

func cladesCmd(a *app) *cobra.Command {
	var depth int

	cmd := &cobra.Command{
		Use:   "clades",
		Short: "Print the clade choices and their language counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := a.openRepo()
			if err != nil {
				return err
			}
			defer repo.Close()

			svc := service.NewCatalogService(repo, a.logger, a.cfg.Cognacy.CladeDepth, 0)
			clades, err := svc.Clades(cmd.Context(), depth)
			if err != nil {
				return err
			}
			for _, c := range clades.Choices {
				fmt.Fprintln(cmd.OutOrStdout(), c.Label)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&depth, "depth", 0, "taxa depth (default from config)")
	return cmd
}

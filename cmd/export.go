/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/bibliogo/apiserver/config"
	"github.com/bibliogo/apiserver/internal/export"
	"github.com/bibliogo/apiserver/internal/storage"
	"github.com/spf13/cobra"
)

// exportCmd runs the multi-format export pipeline from the command line.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the catalog to a compressed archive",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()

		publisher, err := storage.NewFromConfig(cmd.Context(), cfg.Storage)
		if err != nil {
			return err
		}
		if publisher != nil {
			if err := publisher.EnsureBucket(cmd.Context()); err != nil {
				return err
			}
		}

		path, err := export.NewPipeline(cfg, publisher).Export(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
}

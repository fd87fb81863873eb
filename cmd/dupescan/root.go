package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string

	cctx := newCommandContext(&configFlag)

	rootCmd := &cobra.Command{
		Use:           "dupescan",
		Short:         "Find duplicate files by MD5 fingerprint",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := cctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	rootCmd.AddCommand(newScanCommand(cctx))
	rootCmd.AddCommand(newPruneCommand(cctx))
	rootCmd.AddCommand(newConfigCommand())

	return rootCmd
}

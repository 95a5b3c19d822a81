package main

import (
	"encoding/json"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var uploadsLimit int

var uploadsCmd = &cobra.Command{
	Use:   "uploads",
	Short: "List recent upload-log entries",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		s, err := openStore(ctx, cfg.Store)
		if err != nil {
			return err
		}
		defer s.Close()

		entries, err := s.ListUploads(ctx, uploadsLimit)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(entries), "uploads: encode")
	},
}

func init() {
	uploadsCmd.Flags().IntVar(&uploadsLimit, "limit", 50, "maximum entries to list")
	rootCmd.AddCommand(uploadsCmd)
}

package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

var debugInput emailInput

var debugCmd = &cobra.Command{
	Use:   "debug",
	Short: "Show the output of every classification stage",
	RunE: func(cmd *cobra.Command, _ []string) error {
		email, err := debugInput.load(cmd.InOrStdin())
		if err != nil {
			return err
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.logger.Sync()

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(a.service.Debug(cmd.Context(), email))
	},
}

func init() {
	debugInput.register(debugCmd)
}

package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

var (
	classifyInput emailInput
	classifyJSON  bool
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify a single email",
	Example: `  triage-cli classify -s "Remittance" -b "Payment sent, see attached" --attachments
  triage-cli classify -f message.eml --json`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		email, err := classifyInput.load(cmd.InOrStdin())
		if err != nil {
			return err
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.logger.Sync()

		if classifyJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(a.service.Classify(cmd.Context(), email))
		}

		_, err = a.filter.ProcessEmail(cmd.Context(), email)
		return err
	},
}

func init() {
	classifyInput.register(classifyCmd)
	classifyCmd.Flags().BoolVar(&classifyJSON, "json", false, "Print the result as JSON")
}

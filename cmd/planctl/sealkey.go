package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"payoutkyc/internal/compliance/sealer"
)

// newSealingKeyCmd prints a fresh key for COMPLIANCE_SEALING_KEY.
func newSealingKeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sealing-key",
		Short: "Generate a tax ID sealing key",
		Long: "Generate a random base64 key for COMPLIANCE_SEALING_KEY. Rotating the key\n" +
			"makes tax IDs sealed under the old key unreadable.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			key, err := sealer.GenerateKey()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), key)
			return nil
		},
	}
}

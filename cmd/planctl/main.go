// Command planctl resolves compliance field plans and normalizes phone
// numbers offline, for support staff and for checking country rules. It also
// mints development tokens and sealing keys.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "planctl",
		Short:        "Inspect payout compliance field plans",
		SilenceUsage: true,
	}
	root.AddCommand(newResolveCmd(), newPhoneCmd(), newTokenCmd(), newSealingKeyCmd())
	return root
}

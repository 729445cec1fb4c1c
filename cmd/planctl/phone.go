package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"payoutkyc/internal/compliance/phone"
)

func newPhoneCmd() *cobra.Command {
	var (
		country string
		strict  bool
	)
	cmd := &cobra.Command{
		Use:   "phone <number>",
		Short: "Normalize a phone number to E.164",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			region := strings.ToUpper(country)
			if !strict {
				fmt.Fprintln(cmd.OutOrStdout(), phone.Normalize(args[0], region))
				return nil
			}
			formatted, err := phone.Format(args[0], region)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatted)
			return nil
		},
	}
	cmd.Flags().StringVar(&country, "country", "", "default region for numbers without a country code")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail instead of echoing numbers that cannot be normalized")
	return cmd
}

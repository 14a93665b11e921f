package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSubjectsCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "subjects",
		Short: "List distinct subject codes in the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, a, _, err := flags.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			codes, err := a.Catalog.Distinct(ctx, "subject")
			if err != nil {
				return err
			}
			for _, c := range codes {
				fmt.Fprintln(cmd.OutOrStdout(), c)
			}
			return nil
		},
	}
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var countCmd = &cobra.Command{
	Use:   "count",
	Short: "Print the number of redirects declared by the kernel sources",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		redirects, err := scanRedirects(".")
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%d", len(redirects))
		return nil
	},
}

var populateTableCmd = &cobra.Command{
	Use:   "populate-table <kernel image>",
	Short: "Resolve the redirect symbols and write the redirect table into the kernel image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		imgFile := args[0]

		redirects, err := scanRedirects(".")
		if err != nil {
			return err
		}

		if err = elfResolveRedirectSymbols(redirects, imgFile); err != nil {
			return err
		}

		return elfWriteRedirectTable(redirects, imgFile)
	},
}

func init() {
	rootCmd.AddCommand(countCmd)
	rootCmd.AddCommand(populateTableCmd)
}

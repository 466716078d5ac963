package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ZaguanLabs/gotdt"
)

func newLanguagesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List supported languages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
			for _, code := range gotdt.LanguageCodes() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", code, gotdt.LanguageName(code), gotdt.GetDirection(code))
			}
			return w.Flush()
		},
	}
}

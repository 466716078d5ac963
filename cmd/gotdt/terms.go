package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ZaguanLabs/gotdt"
	"github.com/ZaguanLabs/gotdt/terms"
)

func newTermsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "terms",
		Short: "Manage the technical term dictionary",
	}
	cmd.AddCommand(newTermsListCmd(a), newTermsAddCmd(a))
	return cmd
}

func newTermsListCmd(a *app) *cobra.Command {
	var asJSON bool
	var lang string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List dictionary entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(false); err != nil {
				return err
			}
			mapper, err := a.newMapper()
			if err != nil {
				return err
			}

			dict := mapper.Dictionary()
			if lang != "" {
				dict = terms.Dictionary{lang: dict[lang]}
			}

			if asJSON {
				enc := json.NewEncoder(a.stdout)
				enc.SetEscapeHTML(false)
				enc.SetIndent("", "  ")
				return enc.Encode(dict)
			}

			w := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
			for _, l := range dict.Languages() {
				entries := dict[l]
				keys := make([]string, 0, len(entries))
				for term := range entries {
					keys = append(keys, term)
				}
				sort.Strings(keys)
				for _, term := range keys {
					fmt.Fprintf(w, "%s\t%s\t%s\n", l, term, entries[term])
				}
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output the dictionary as JSON")
	cmd.Flags().StringVar(&lang, "lang", "", "Only list one language table")

	return cmd
}

func newTermsAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <source-lang> <term> <target-lang> <translation>",
		Short: "Add a term and save the dictionary",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(false); err != nil {
				return err
			}
			mapper, err := a.newMapper()
			if err != nil {
				return err
			}

			if err := mapper.AddTerm(args[0], args[1], args[2], args[3]); err != nil {
				if errors.Is(err, terms.ErrInvalidTerm) {
					return &gotdt.ValidationError{Code: gotdt.CodeInvalidTerm, Message: err.Error()}
				}
				return err
			}

			fmt.Fprintf(a.stdout, "Added %s:%q -> %q (%s)\n", args[0], args[1], args[3], args[2])
			return nil
		},
	}
}

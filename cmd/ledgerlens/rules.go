package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ledgerlens/ledgerlens/internal/rules"
)

func rulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Inspect the built-in categorization rules",
	}
	cmd.AddCommand(rulesListCmd())
	return cmd
}

func rulesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List rules in evaluation order",
		RunE: func(_ *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tREGION\tCATEGORY\tTYPE\tMATCH")

			for _, r := range rules.DefaultRules() {
				match := r.Pattern
				if len(r.Keywords) > 0 {
					match = strings.Join(r.Keywords, ", ")
				}
				typ := string(r.Type)
				if typ == "" {
					typ = "(amount sign)"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", r.ID, r.Region, r.Category, typ, match)
			}

			return w.Flush()
		},
	}
}

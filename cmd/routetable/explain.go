package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vango-dev/routetable/internal/errors"
)

func explainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "explain [code]",
		Short: "Describe an error code",
		Long: `Print the description and fix hint for an error code, or list every
code when none is given.

Examples:
  routetable explain
  routetable explain R003`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if len(args) == 0 {
				for _, code := range errors.GetAllCodes() {
					t, _ := errors.GetTemplate(code)
					fmt.Fprintf(w, "%s  %-10s %s\n", code, t.Category, t.Message)
				}
				return nil
			}

			code := args[0]
			if _, ok := errors.GetTemplate(code); !ok {
				return fmt.Errorf("unknown error code %q", code)
			}
			fmt.Fprint(w, errors.New(code).Format())
			return nil
		},
	}
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate SOURCE...",
		Short: "Check that documents parse",
		Long: `Resolve and parse each source without merging, reporting the detected
format. Useful for checking overrides before layering them.

Examples:
  confctl validate base.yml production.yml
  confctl validate https://config.example.com/defaults.json`,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			resolver, err := newResolver(cmd)
			if err != nil {
				return err
			}

			for _, ref := range args {
				doc, err := resolver.Resolve(cmd.Context(), ref)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: valid %s document\n", doc.Ref, doc.Format)
			}
			return nil
		},
	}

	cmd.Flags().String("format", "", "Input format for all sources: yaml, json, env, or hcl (default: detect per source)")

	return cmd
}

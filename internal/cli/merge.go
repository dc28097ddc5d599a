package cli

import (
	"github.com/spf13/cobra"

	"github.com/confctl/confctl/pkg/document"
	"github.com/confctl/confctl/pkg/merge"
)

func newMergeCmd() *cobra.Command {
	var (
		outputPath   string
		outputFormat string
	)

	cmd := &cobra.Command{
		Use:   "merge SOURCE...",
		Short: "Merge configuration documents in precedence order",
		Long: `Merge an ordered list of configuration documents into one resolved
document. List sources lowest precedence first; each later document
overrides the ones before it.

Examples:
  confctl merge base.yml production.yml
  confctl merge defaults.json '{"replicas": 3}'
  confctl merge base.yml s3://acme-config/prod.yml --list-strategy union --merge-key name
  confctl merge base.yml overrides.yml -o resolved.yml`,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			policy, err := policyFromFlags(cmd)
			if err != nil {
				return err
			}

			resolver, err := newResolver(cmd)
			if err != nil {
				return err
			}

			docs, err := resolver.ResolveAll(cmd.Context(), args)
			if err != nil {
				return err
			}

			values := make([]document.Value, len(docs))
			for i, doc := range docs {
				values[i] = doc.Value
			}

			result, err := merge.Fold(values, policy)
			if err != nil {
				return err
			}

			return writeDocument(cmd, result, outputPath, outputFormat)
		},
	}

	addPolicyFlags(cmd)
	cmd.Flags().String("format", "", "Input format for all sources: yaml, json, env, or hcl (default: detect per source)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the resolved document to a file instead of stdout")
	cmd.Flags().StringVar(&outputFormat, "output-format", "auto", "Output format: yaml, json, env, or auto")

	return cmd
}

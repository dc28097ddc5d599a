package cli

import (
	"github.com/spf13/cobra"
)

func newConvertCmd() *cobra.Command {
	var (
		outputPath   string
		outputFormat string
	)

	cmd := &cobra.Command{
		Use:   "convert SOURCE",
		Short: "Re-encode a document in another format",
		Long: `Parse one document and write it back in a different format, preserving
key order and numeric types.

Examples:
  confctl convert config.yml --output-format json
  confctl convert '{"a": 1}' --output-format yaml
  confctl convert settings.env -o settings.yml`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			resolver, err := newResolver(cmd)
			if err != nil {
				return err
			}

			doc, err := resolver.Resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			return writeDocument(cmd, doc.Value, outputPath, outputFormat)
		},
	}

	cmd.Flags().String("format", "", "Input format: yaml, json, env, or hcl (default: detect)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write to a file instead of stdout")
	cmd.Flags().StringVar(&outputFormat, "output-format", "auto", "Output format: yaml, json, env, or auto")

	return cmd
}

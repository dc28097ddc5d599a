package cli

import (
	"github.com/spf13/cobra"

	"github.com/confctl/confctl/pkg/errors"
	"github.com/confctl/confctl/pkg/overlay"
)

func newOverlayCmd() *cobra.Command {
	var (
		names        []string
		subfolders   []string
		outputPath   string
		outputFormat string
	)

	cmd := &cobra.Command{
		Use:   "overlay DIR",
		Short: "Fold a directory tree of configuration layers",
		Long: `Fold the layers of a configuration directory. Each folder contributes a
_default layer followed by the requested named layers; requested subfolders
are applied after the root in the given order.

Examples:
  confctl overlay ./conf --name production
  confctl overlay ./conf --name production --subfolder eu-west
  confctl overlay ./conf --name staging --name debug -o resolved.yml`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			policy, err := policyFromFlags(cmd)
			if err != nil {
				return err
			}

			o := overlay.New(args[0], policy)
			exists, err := o.Exists()
			if err != nil {
				return err
			}
			if !exists {
				return errors.NotFoundError("overlay directory", args[0])
			}

			result, err := o.Get(names, subfolders)
			if err != nil {
				return err
			}

			return writeDocument(cmd, result, outputPath, outputFormat)
		},
	}

	addPolicyFlags(cmd)
	cmd.Flags().StringArrayVar(&names, "name", nil, "Named layer to apply after the defaults (repeatable, in order)")
	cmd.Flags().StringArrayVar(&subfolders, "subfolder", nil, "Subfolder to apply after the root (repeatable, in order)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the resolved document to a file instead of stdout")
	cmd.Flags().StringVar(&outputFormat, "output-format", "auto", "Output format: yaml, json, env, or auto")

	return cmd
}

package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/confctl/confctl/pkg/document"
	"github.com/confctl/confctl/pkg/errors"
	"github.com/confctl/confctl/pkg/merge"
	"github.com/confctl/confctl/pkg/source"
)

// addPolicyFlags registers the merge-policy flags shared by the commands
// that perform merges.
func addPolicyFlags(cmd *cobra.Command) {
	cmd.Flags().String("list-strategy", "", "List merge strategy: replace, concat, or union (default replace)")
	cmd.Flags().String("merge-key", "", "Field that identifies list elements (required by --list-strategy union)")
	cmd.Flags().Bool("null-transparent", false, "Explicit nulls in overlays do not override earlier values")
	cmd.Flags().String("on-type-conflict", "", "Behavior when incompatible types meet: override or error (default override)")
	cmd.Flags().Int("max-depth", 0, "Maximum document nesting depth")
}

// policyFromFlags builds a merge policy from command flags, falling back to
// the viper config file for flags the user did not set.
func policyFromFlags(cmd *cobra.Command) (merge.Policy, error) {
	policy := merge.DefaultPolicy()

	if raw := stringSetting(cmd, "list-strategy", "list_strategy"); raw != "" {
		strategy, err := merge.ParseListStrategy(raw)
		if err != nil {
			return merge.Policy{}, err
		}
		policy.Lists = strategy
	}

	if key := stringSetting(cmd, "merge-key", "merge_key"); key != "" {
		policy.MergeKey = key
	}

	if boolSetting(cmd, "null-transparent", "null_transparent") {
		policy.Nulls = merge.NullTransparent
	}

	if raw := stringSetting(cmd, "on-type-conflict", "on_type_conflict"); raw != "" {
		rule, err := merge.ParseMismatchRule(raw)
		if err != nil {
			return merge.Policy{}, err
		}
		policy.TypeMismatch = rule
	}

	if depth, _ := cmd.Flags().GetInt("max-depth"); depth > 0 {
		policy.MaxDepth = depth
	} else if depth := viper.GetInt("max_depth"); depth > 0 {
		policy.MaxDepth = depth
	}

	if err := policy.Validate(); err != nil {
		return merge.Policy{}, err
	}
	return policy, nil
}

// stringSetting returns the flag value when set, otherwise the config-file
// value under the viper key.
func stringSetting(cmd *cobra.Command, flag, viperKey string) string {
	if cmd.Flags().Changed(flag) {
		value, _ := cmd.Flags().GetString(flag)
		return value
	}
	return viper.GetString(viperKey)
}

func boolSetting(cmd *cobra.Command, flag, viperKey string) bool {
	if cmd.Flags().Changed(flag) {
		value, _ := cmd.Flags().GetBool(flag)
		return value
	}
	return viper.GetBool(viperKey)
}

// newResolver builds a source resolver from the global backend config and an
// optional input-format override.
func newResolver(cmd *cobra.Command) (*source.Resolver, error) {
	opts := source.Options{}

	if raw := stringSetting(cmd, "format", "format"); raw != "" {
		format, err := document.ParseFormat(raw)
		if err != nil {
			return nil, err
		}
		opts.Format = format
	}

	pairs, _ := cmd.Flags().GetStringArray("source-config")
	config := make(map[string]string)
	for key, value := range viper.GetStringMapString("source_config") {
		config[key] = value
	}
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found {
			return nil, errors.ValidationError(
				fmt.Sprintf("invalid source-config %q (expected key=value)", pair), nil)
		}
		config[key] = value
	}
	opts.BackendConfig = config

	return source.NewResolver(opts), nil
}

// writeDocument serializes the document and writes it to the output path, or
// to stdout when no path is given. The output format comes from the flag,
// else the output file's extension, else JSON. Stdout JSON is indented on a
// terminal and compact otherwise.
func writeDocument(cmd *cobra.Command, v document.Value, outputPath, formatName string) error {
	var data []byte
	var err error

	switch {
	case formatName != "" && formatName != "auto":
		format, perr := document.ParseFormat(formatName)
		if perr != nil {
			return perr
		}
		data, err = document.Encode(v, format)
	case outputPath != "":
		format, derr := document.DetectFormat(outputPath)
		if derr != nil {
			format = document.FormatJSON
		}
		data, err = document.Encode(v, format)
	case term.IsTerminal(int(os.Stdout.Fd())):
		data, err = document.EncodeJSONIndent(v)
	default:
		data, err = document.EncodeJSON(v)
	}
	if err != nil {
		return err
	}

	if outputPath == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(outputPath, data, 0644)
}

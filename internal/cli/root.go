// Package cli implements the confctl CLI commands.
package cli

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	// Import source backends to register them via init()
	_ "github.com/confctl/confctl/pkg/source/backend/awssm"
	_ "github.com/confctl/confctl/pkg/source/backend/azurerm"
	_ "github.com/confctl/confctl/pkg/source/backend/gcs"
	_ "github.com/confctl/confctl/pkg/source/backend/git"
	_ "github.com/confctl/confctl/pkg/source/backend/httpsrc"
	_ "github.com/confctl/confctl/pkg/source/backend/local"
	_ "github.com/confctl/confctl/pkg/source/backend/oci"
	_ "github.com/confctl/confctl/pkg/source/backend/s3"
)

var (
	cfgFile string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "confctl",
	Short: "Merge layered configuration documents",
	Long: `confctl folds an ordered list of configuration documents into one
resolved document.

Operators layer environment-specific overrides (base, environment, instance)
over a common default configuration. Documents are listed lowest precedence
first; every later document overrides the ones before it. Sources can be
local files, inline JSON, HTTP(S) URLs, object storage (s3://, gs://,
azblob://), AWS Secrets Manager (awssm://), git repositories (git://), or
OCI artifacts (oci://).`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.confctl/config.yaml)")
	rootCmd.PersistentFlags().StringArray("source-config", nil, "Source backend configuration (key=value)")

	viper.SetEnvPrefix("CONFCTL")
	viper.AutomaticEnv()

	// Add subcommands
	rootCmd.AddCommand(newMergeCmd())
	rootCmd.AddCommand(newValidateCmd())
	rootCmd.AddCommand(newConvertCmd())
	rootCmd.AddCommand(newOverlayCmd())
	rootCmd.AddCommand(newVersionCmd())
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Search for config in home directory
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home + "/.confctl")
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	// Read config file if it exists
	_ = viper.ReadInConfig()
}

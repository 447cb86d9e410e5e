package cmd

import (
	"bytes"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/jmcampanini/git-pulls/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print current configuration in TOML format",
	Long: `Print the current effective configuration in TOML format.

This outputs the merged configuration: defaults, git-pulls.toml files and git
config overrides. The token is redacted. The output can be redirected to a
file to create a new configuration:

  git pulls config > git-pulls.toml`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, _ []string) error {
	cfg, _, _, err := loadConfig()
	if err != nil {
		return err
	}
	return writeConfig(cmd, cfg)
}

func writeConfig(cmd *cobra.Command, cfg config.Config) error {
	var buf bytes.Buffer
	encoder := toml.NewEncoder(&buf)
	if err := encoder.Encode(cfg.Redacted()); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	_, err := fmt.Fprint(cmd.OutOrStdout(), buf.String())
	return err
}

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/psacc/lumberjack/internal/config"
)

var (
	flagConfigPath      string
	flagConfigOverwrite bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration utilities",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a sample configuration file",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	Args:  cobra.NoArgs,
	RunE:  runConfigValidate,
}

func init() {
	configInitCmd.Flags().StringVarP(&flagConfigPath, "path", "p", "", "Destination for the configuration file")
	configInitCmd.Flags().BoolVar(&flagConfigOverwrite, "overwrite", false, "Overwrite an existing file")

	configCmd.AddCommand(configInitCmd, configValidateCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	target := strings.TrimSpace(flagConfigPath)
	var err error
	if target == "" {
		target, err = config.DefaultConfigPath()
	} else {
		target, err = config.ExpandPath(target)
	}
	if err != nil {
		return fmt.Errorf("resolve config path: %w", err)
	}

	if !flagConfigOverwrite {
		if _, err := os.Stat(target); err == nil {
			return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("check config path: %w", err)
		}
	}

	if err := config.CreateSample(target); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote sample configuration to %s\n", filepath.Clean(target))
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, path, exists, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	out := cmd.OutOrStdout()
	if exists {
		fmt.Fprintf(out, "Configuration valid: %s\n", path)
	} else {
		fmt.Fprintf(out, "No configuration file at %s; using defaults\n", path)
	}
	fmt.Fprintf(out, "backend: %s\n", cfg.Backend)
	fmt.Fprintf(out, "presets: %s\n", cfg.Presets.Path)
	fmt.Fprintf(out, "log file: %s\n", cfg.Logging.File)
	return nil
}

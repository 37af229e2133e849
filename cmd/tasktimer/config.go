package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/sandeepkv93/tasktimer/internal/clierr"
	"github.com/sandeepkv93/tasktimer/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or create the configuration file",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return clierr.New(clierr.InternalError, err.Error())
		}
		_, err = os.Stdout.Write(data)
		return err
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the current settings",
	Long: `Writes defaults, overlaid with environment variables and flags, to the
file named by --config or to the default location. An existing file is kept
unless --force is given.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

func init() {
	configInitCmd.Flags().Bool("force", false, "overwrite an existing file")
	configCmd.AddCommand(configShowCmd, configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	path, _ := cmd.Flags().GetString(config.FlagConfig)
	if path == "" {
		path = config.DefaultPath()
	}
	force, _ := cmd.Flags().GetBool("force")
	if _, err := os.Stat(path); err == nil && !force {
		return clierr.Newf(clierr.InvalidInput, "%s already exists; use --force to overwrite", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return clierr.New(clierr.StorageError, err.Error())
	}

	cfg, err := config.ApplyFlags(cmd.Flags(), config.FromEnv(config.Default()))
	if err != nil {
		return clierr.New(clierr.InvalidInput, err.Error())
	}
	if err := cfg.Validate(); err != nil {
		return clierr.New(clierr.InvalidInput, err.Error())
	}
	if err := cfg.Save(path); err != nil {
		return clierr.New(clierr.StorageError, err.Error())
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}

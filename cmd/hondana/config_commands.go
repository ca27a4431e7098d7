package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"hondana/internal/config"
)

func newConfigCommand(cctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}
	cmd.AddCommand(newConfigInitCommand())
	cmd.AddCommand(newConfigValidateCommand(cctx))
	return cmd
}

func newConfigInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:         "init [path]",
		Short:       "Write a commented sample configuration",
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := initTarget(args)
			if err != nil {
				return err
			}
			if !force {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("%s already exists (re-run with --force to replace it)", target)
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return fmt.Errorf("create config directory: %w", err)
			}
			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("write sample config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote %s\n", target)
			fmt.Fprintln(out, "Set Amazon credentials there or export PAAPI_ACCESS_KEY, PAAPI_SECRET_KEY and PAAPI_PARTNER_TAG.")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Replace an existing file")
	return cmd
}

func initTarget(args []string) (string, error) {
	if len(args) == 0 {
		return config.DefaultConfigPath()
	}
	return config.ExpandPath(args[0])
}

func newConfigValidateCommand(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration and report the lookup vendor",
		RunE: func(cmd *cobra.Command, args []string) error {
			flagPath := ""
			if cctx.configFlag != nil {
				flagPath = strings.TrimSpace(*cctx.configFlag)
			}
			cfg, path, exists, err := config.Load(flagPath)
			if err != nil {
				return err
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("ensure directories: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path: %s\n", path)
			if !exists {
				fmt.Fprintln(out, "No config file found; defaults are in effect")
			}
			switch {
			case cfg.Amazon.Configured():
				fmt.Fprintln(out, "Lookup vendor: Amazon PA-API")
			case cfg.Rakuten.Configured():
				fmt.Fprintln(out, "Lookup vendor: Rakuten Books")
			default:
				fmt.Fprintln(out, "Lookup vendor: none configured (builds will defer every seed)")
			}
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}

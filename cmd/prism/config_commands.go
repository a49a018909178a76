package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"prism/internal/config"
)

func newConfigCommand(configPath *string) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigShowCommand(configPath))
	configCmd.AddCommand(newConfigInitCommand())

	return configCmd
}

func newConfigShowCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, exists, err := config.Load(*configPath)
			if err != nil {
				return validationErr(err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "# %s\n", path)
			if !exists {
				fmt.Fprintln(out, "# file not found; showing defaults")
			}
			data, err := toml.Marshal(cfg)
			if err != nil {
				return runtimeErr(fmt.Errorf("render config: %w", err))
			}
			_, err = out.Write(data)
			return err
		},
	}
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a sample configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return runtimeErr(fmt.Errorf("determine default config path: %w", err))
				}
				target = defaultPath
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return validationErr(fmt.Errorf("resolve config path: %w", err))
				}
				target = expanded
			}

			dir := filepath.Dir(target)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return runtimeErr(fmt.Errorf("create config directory %q: %w", dir, err))
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return validationErr(fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target))
				} else if !os.IsNotExist(err) {
					return runtimeErr(fmt.Errorf("check config path: %w", err))
				}
			}

			if err := config.CreateSample(target); err != nil {
				return runtimeErr(err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Edit the file to adjust paths and viewer defaults.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

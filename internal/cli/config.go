package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/infradash/internal/config"
	"github.com/rileyhilliard/infradash/internal/errors"
	"github.com/rileyhilliard/infradash/internal/ui"
)

func newConfigCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create, inspect, and edit the infradash config",
		Long: `Manage .infradash.yaml.

Examples:
  infradash config init
  infradash config init --global
  infradash config set server.url http://status.internal:8080/api
  infradash config show
  infradash config path`,
	}

	cmd.AddCommand(
		newConfigInitCmd(g),
		newConfigSetCmd(g),
		newConfigShowCmd(g),
		newConfigPathCmd(g),
	)
	return cmd
}

func newConfigInitCmd(g *globalFlags) *cobra.Command {
	var global, force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return configInitCommand(cmd, g, global, force)
		},
	}
	cmd.Flags().BoolVar(&global, "global", false, "write ~/.config/infradash/config.yaml instead of ./.infradash.yaml")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	return cmd
}

func newConfigSetCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a value such as server.url or probe.timeout",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return configSetCommand(cmd, g, args[0], args[1])
		},
	}
}

func newConfigShowCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective config, including defaults and overrides",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, g, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			return WriteYAML(a.out, a.cfg)
		},
	}
}

func newConfigPathCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print which config file is in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.Find(g.configPath)
			if err != nil {
				return err
			}
			if path == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "No config file found; using defaults.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

func configInitCommand(cmd *cobra.Command, g *globalFlags, global, force bool) error {
	path := g.configPath
	switch {
	case path != "":
	case global:
		home, err := os.UserHomeDir()
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Couldn't find your home directory",
				"Pass --config with the path to write instead.")
		}
		path = config.GlobalConfigPath(home)
	default:
		path = config.ConfigFileName
	}

	if err := config.WriteDefault(path, force); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't write the config file",
			"Pass --force to overwrite an existing file.")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	fmt.Fprintln(cmd.OutOrStdout(), ui.FormatPhase(ui.SymbolSuccess, ui.ColorSuccess, "Created "+abs, ""))
	fmt.Fprintln(cmd.OutOrStdout(), "  Point it at your backend with: infradash config set server.url <url>")
	return nil
}

// configSetCommand edits one key in place and rolls the file back when the
// result no longer loads or validates.
func configSetCommand(cmd *cobra.Command, g *globalFlags, key, value string) error {
	path, err := config.Find(g.configPath)
	if err != nil {
		return err
	}
	if path == "" {
		return errors.New(errors.ErrConfig,
			"No config file to edit",
			"Run 'infradash config init' first.")
	}

	original, err := os.ReadFile(path)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Couldn't read "+path, "Check file permissions.")
	}

	if err := config.SetValue(path, key, value); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Couldn't set %s", key),
			"Keys are dotted paths such as server.url or probe.timeout.")
	}

	cfg, err := config.Load(path)
	if err == nil {
		err = config.Validate(cfg)
	}
	if err != nil {
		if rerr := os.WriteFile(path, original, 0o644); rerr != nil {
			return errors.WrapWithCode(rerr, errors.ErrConfig,
				"Couldn't restore "+path+" after an invalid change",
				"Fix the file by hand; the change that broke it was "+key+"="+value)
		}
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), ui.FormatPhase(ui.SymbolSuccess, ui.ColorSuccess, fmt.Sprintf("Set %s = %s", key, value), ""))
	return nil
}

// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chefkit/chef/internal/config"
)

// newConfigCommand creates the `chef config` command tree.
// Subcommands that read configuration use the App's ConfigProvider.
func newConfigCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage chef configuration",
		Long: `Manage chef configuration.

Configuration files are TOML, merged in this order:
  1. the global file:
     - Linux: $XDG_CONFIG_HOME/chef/config.toml (~/.config/chef/config.toml)
     - macOS: ~/Library/Application Support/chef/config.toml
     - Windows: %APPDATA%\chef\config.toml
  2. the collection file: <collection>/.cooklang/config.toml
  3. the file given with --config`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd.Context(), app, rootFlags)
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(app, force)
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing configuration file")
	cfgCmd.AddCommand(initCmd)

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file paths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath(app, rootFlags)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the merged configuration as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Context(), app, rootFlags)
			if err != nil {
				return err
			}
			content, err := config.Encode(cfg)
			if err != nil {
				return err
			}
			_, err = app.stdout.Write(content)
			return err
		},
	})

	return cfgCmd
}

func loadConfig(ctx context.Context, app *App, rootFlags *rootFlagValues) (*config.Config, error) {
	return app.Config.Load(ctx, config.LoadOptions{
		ConfigFilePath: rootFlags.configPath,
		CollectionDir:  rootFlags.collection,
	})
}

func showConfig(ctx context.Context, app *App, rootFlags *rootFlagValues) error {
	cfg, err := loadConfig(ctx, app, rootFlags)
	if err != nil {
		return err
	}

	out := app.stdout
	fmt.Fprintln(out, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(out)

	if len(cfg.Sources) == 0 {
		fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("Config files"), SubtitleStyle.Render("(using defaults)"))
	} else {
		fmt.Fprintf(out, "%s:\n", keyStyle.Render("Config files"))
		for _, src := range cfg.Sources {
			fmt.Fprintf(out, "  - %s\n", src)
		}
	}
	fmt.Fprintln(out)

	collection := cfg.DefaultCollection
	if collection == "" {
		collection = SubtitleStyle.Render("(current directory)")
	} else {
		collection = valueStyle.Render(collection)
	}
	fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("default_collection"), collection)
	fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("max_depth"), valueStyle.Render(fmt.Sprint(cfg.MaxDepth)))

	fmt.Fprintf(out, "%s:", keyStyle.Render("units"))
	if len(cfg.Units) == 0 {
		fmt.Fprintf(out, " %s\n", SubtitleStyle.Render("(built-in table only)"))
	} else {
		fmt.Fprintln(out)
		for _, u := range cfg.Units {
			fmt.Fprintf(out, "  - %s\n", valueStyle.Render(u))
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(out, "  color_scheme: %s\n", valueStyle.Render(cfg.UI.ColorScheme.String()))
	fmt.Fprintf(out, "  verbose: %s\n", valueStyle.Render(fmt.Sprint(cfg.UI.Verbose)))

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s:\n", keyStyle.Render("check"))
	fmt.Fprintf(out, "  max_workers: %s\n", valueStyle.Render(fmt.Sprint(cfg.Check.MaxWorkers)))

	return nil
}

func initConfig(app *App, force bool) error {
	path, err := config.GlobalConfigPath("")
	if err != nil {
		return err
	}

	written, err := config.WriteDefault(path, force)
	if err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}
	if !written {
		fmt.Fprintf(app.stdout, "%s Configuration already exists at %s (use --force to overwrite)\n", WarningStyle.Render("!"), path)
		return nil
	}

	fmt.Fprintf(app.stdout, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), path)
	return nil
}

func showConfigPath(app *App, rootFlags *rootFlagValues) error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}
	globalPath, err := config.GlobalConfigPath(cfgDir)
	if err != nil {
		return err
	}

	collection := rootFlags.collection
	if collection == "" {
		collection = "."
	}

	lines := []string{
		"Config directory: " + cfgDir,
		"Config file: " + globalPath,
		"Collection config file: " + config.CollectionConfigPath(collection),
	}
	if rootFlags.configPath != "" {
		lines = append(lines, "Explicit config file: "+rootFlags.configPath)
	}
	_, err = fmt.Fprintln(app.stdout, strings.Join(lines, "\n"))
	return err
}

// Package main implements the taskmaster CLI.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/tgienger/taskmaster/internal/config"
	"github.com/tgienger/taskmaster/internal/ui/styles"
)

// Version information set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:               "taskmaster",
	Short:             "Track projects and tasks shared between groups of users",
	Version:           fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

var (
	flagConfig    string
	flagDir       string
	flagWorkspace string
	flagUser      string
	flagPassword  string
)

var (
	cfg *config.Config
	sty = styles.NewStyles(styles.TokyoNight)
)

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default $XDG_CONFIG_HOME/taskmaster/config.toml)")
	rootCmd.PersistentFlags().StringVar(&flagDir, "dir", "", "Workspace directory (overrides workspace.dir)")
	rootCmd.PersistentFlags().StringVarP(&flagWorkspace, "workspace", "w", "default", "Workspace name")
	rootCmd.PersistentFlags().StringVarP(&flagUser, "user", "u", "", "User to log in as")
	rootCmd.PersistentFlags().StringVar(&flagPassword, "password", "", "Password (default $TASKMASTER_PASSWORD, else prompt)")
}

// setup loads the configuration and installs the logger and output styles
func setup(cmd *cobra.Command, args []string) error {
	path := flagConfig
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}

	c, err := config.Load(path)
	if err != nil {
		return err
	}
	if flagDir != "" {
		c.Workspace.Dir = flagDir
	}
	cfg = c

	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: cfg.LogLevel()}))
	slog.SetDefault(logger)

	sty = styles.NewStyles(styles.ForName(cfg.UI.Theme))
	for _, msg := range cfg.Corrections {
		fmt.Fprintln(cmd.ErrOrStderr(), sty.Warning.Render("! config: "+msg))
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, sty.Fail(err.Error()))
		os.Exit(1)
	}
}

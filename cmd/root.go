package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

// rootOptions are the persistent flags shared by every command.
type rootOptions struct {
	configPath string
	logLevel   string
	logFormat  string
	output     string
	timeout    time.Duration

	// newApp opens the backend and stores. Tests replace it.
	newApp appFactory
}

// rootCmd represents the base command for the uptodo application
var rootCmd = newRootCmd()

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "uptodo version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	opts.newApp = opts.openApp
	return newRootCmdWithOptions(opts)
}

func newRootCmdWithOptions(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "uptodo",
		Short: "Manage tasks, categories and focus sessions",
		Long: `uptodo keeps a personal task list with categories, priorities and due
times in a hosted document database, and runs a countdown focus mode.

It can run as:
  - A command-line client (task, category, focus, auth)
  - An MCP (Model Context Protocol) server for AI assistants (serve)

Configuration is read from $XDG_CONFIG_HOME/uptodo/uptodo.yaml (or
~/.config/uptodo/uptodo.yaml), then ./uptodo.yaml, and can be overridden with
UPTODO_* environment variables, e.g. UPTODO_BACKEND=redis.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Config file (default: search $XDG_CONFIG_HOME/uptodo and .)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn or error (overrides config)")
	cmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "", "Log format: text or json (overrides config)")
	cmd.PersistentFlags().StringVarP(&opts.output, "output", "o", outputText, "Output format: text, json or yaml")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 0, "Timeout for backend calls (overrides config)")

	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newTaskCmd(opts))
	cmd.AddCommand(newCategoryCmd(opts))
	cmd.AddCommand(newFocusCmd(opts))
	cmd.AddCommand(newAuthCmd(opts))
	cmd.AddCommand(newGenerateDocsCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "uptodo version %s\n", version)
		},
	}
}

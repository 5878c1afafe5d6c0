package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vpatch/internal/config"
	"github.com/vango-dev/vpatch/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// globals holds the persistent flags shared by every command.
type globals struct {
	dir     string
	noColor bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errors.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	g := &globals{}

	rootCmd := &cobra.Command{
		Use:   "vpatch",
		Short: "Diff and patch virtual trees",
		Long: `vpatch computes the minimal set of patches that turns one tree
snapshot into another and replays them onto a live host tree.

Snapshots are YAML or JSON documents:

  tag: ul
  children:
    - tag: li
      key: a
      children:
        - text: first`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupColor(cmd.OutOrStdout(), g.noColor)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&g.dir, "dir", "C", ".", "Directory to search for "+config.ConfigFileName)
	rootCmd.PersistentFlags().BoolVar(&g.noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(
		diffCmd(g),
		applyCmd(g),
		serveCmd(g),
		benchCmd(),
		versionCmd(),
	)

	return rootCmd
}

// load reads the configuration and builds the logger it describes.
func (g *globals) load(stderr io.Writer) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(config.FindRoot(g.dir))
	if err != nil {
		return nil, nil, err
	}
	return cfg, cfg.NewLogger(stderr), nil
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", green("✓"), fmt.Sprintf(format, args...))
}

package main

import (
	"encoding/json"
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/vango-dev/vpatch/internal/errors"
	"github.com/vango-dev/vpatch/internal/snapshot"
	"github.com/vango-dev/vpatch/pkg/vdom"
)

func diffCmd(g *globals) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "diff <before> <after>",
		Short: "Print the patches between two snapshots",
		Long: `Diff two tree snapshots and print the resulting patch set.

Patches are listed by index in ascending order. Text changes are shown
character by character.

Examples:
  vpatch diff before.yaml after.yaml
  vpatch diff before.json after.json -o json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(cmd, args[0], args[1], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "text", "Output format: text, json or yaml")

	return cmd
}

func runDiff(cmd *cobra.Command, beforePath, afterPath, output string) error {
	a, err := snapshot.Load(beforePath)
	if err != nil {
		return err
	}
	b, err := snapshot.Load(afterPath)
	if err != nil {
		return err
	}

	ps, err := vdom.Diff(a, b)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	switch output {
	case "text":
		if ps.Empty() {
			success(w, "No changes")
			return nil
		}
		writePatchSet(w, ps, "")
		fmt.Fprintf(w, "\n%d patches at %d indices\n", ps.Len(), len(ps.Indices()))
		return nil
	case "json":
		data, err := json.MarshalIndent(snapshot.Summarize(ps), "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(data))
		return nil
	case "yaml":
		data, err := yaml.Marshal(snapshot.Summarize(ps))
		if err != nil {
			return err
		}
		fmt.Fprint(w, string(data))
		return nil
	}
	return errors.Newf(errors.CategoryCLI, "unknown output format %q", output)
}

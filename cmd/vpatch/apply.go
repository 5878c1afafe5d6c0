package main

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	"github.com/vango-dev/vpatch/internal/config"
	"github.com/vango-dev/vpatch/internal/errors"
	"github.com/vango-dev/vpatch/internal/snapshot"
	"github.com/vango-dev/vpatch/pkg/reconcile"
	"github.com/vango-dev/vpatch/pkg/render"
)

type applyOptions struct {
	showDiff  bool
	pretty    bool
	prettySet bool
	verify    bool
}

func applyCmd(g *globals) *cobra.Command {
	var opts applyOptions

	cmd := &cobra.Command{
		Use:   "apply <before> <after>",
		Short: "Patch a host tree built from one snapshot into another",
		Long: `Render the first snapshot into a host tree, diff it against the
second and apply the patches. The patched tree is printed as HTML.

With --verify (the default) the result is checked against a fresh
render of the second snapshot.

Examples:
  vpatch apply before.yaml after.yaml
  vpatch apply before.yaml after.yaml --show-diff`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.prettySet = cmd.Flags().Changed("pretty")
			return runApply(cmd, g, args[0], args[1], opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.showDiff, "show-diff", "d", false, "Print a unified diff of the HTML before and after")
	cmd.Flags().BoolVarP(&opts.pretty, "pretty", "p", false, "Indent HTML output (default from "+config.ConfigFileName+")")
	cmd.Flags().BoolVar(&opts.verify, "verify", true, "Check the patched tree against a fresh render")

	return cmd
}

func runApply(cmd *cobra.Command, g *globals, beforePath, afterPath string, opts applyOptions) error {
	cfg, logger, err := g.load(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	if opts.prettySet {
		cfg.Render.Pretty = opts.pretty
	}

	a, err := snapshot.Load(beforePath)
	if err != nil {
		return err
	}
	b, err := snapshot.Load(afterPath)
	if err != nil {
		return err
	}

	html := render.NewRenderer(render.RendererConfig{
		Pretty: cfg.Render.Pretty || opts.showDiff,
		Indent: cfg.Render.Indent,
	})

	rec := reconcile.New(reconcile.WithLogger(logger))
	root, err := rec.Mount(cmd.Context(), a)
	if err != nil {
		return err
	}
	before, err := html.RenderToString(root)
	if err != nil {
		return err
	}

	res, err := rec.Update(cmd.Context(), b)
	if err != nil {
		return err
	}
	after, err := html.RenderToString(res.Root)
	if err != nil {
		return err
	}

	if opts.verify {
		want, err := html.RenderVNode(b)
		if err != nil {
			return err
		}
		if want != after {
			return errors.New(errors.CodeTargetMismatch).
				WithDetail("patched tree differs from a fresh render").
				WithSuggestion(unifiedDiff("render", "patched", want, after))
		}
	}

	w := cmd.OutOrStdout()
	if opts.showDiff {
		fmt.Fprint(w, unifiedDiff(beforePath, afterPath, before, after))
	} else {
		fmt.Fprintln(w, strings.TrimRight(after, "\n"))
	}

	logger.Info("applied",
		"patches", res.Patches,
		"indices", res.Indices,
		"root_replaced", res.RootReplaced,
	)
	return nil
}

// unifiedDiff compares two HTML documents line by line.
func unifiedDiff(fromName, toName, from, to string) string {
	s, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(from),
		B:        difflib.SplitLines(to),
		FromFile: fromName,
		ToFile:   toName,
		Context:  3,
	})
	if err != nil {
		return ""
	}
	return s
}

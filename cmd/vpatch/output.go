package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/vango-dev/vpatch/pkg/vdom"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	faint  = color.New(color.Faint).SprintFunc()
)

// setupColor turns color off unless w is a terminal.
func setupColor(w io.Writer, disable bool) {
	f, ok := w.(*os.File)
	if disable || !ok {
		color.NoColor = true
		return
	}
	color.NoColor = !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd())
}

func inserted(s string) string {
	if color.NoColor {
		return "{+" + s + "+}"
	}
	return green(s)
}

func deleted(s string) string {
	if color.NoColor {
		return "[-" + s + "-]"
	}
	return red(s)
}

func kindColor(k vdom.PatchKind) func(a ...any) string {
	switch k {
	case vdom.PatchInsert:
		return green
	case vdom.PatchRemove:
		return red
	case vdom.PatchReplace, vdom.PatchWidget:
		return yellow
	default:
		return cyan
	}
}

// writePatchSet lists ps one patch per line in ascending index order.
// Nested thunk sets are indented under their patch.
func writePatchSet(w io.Writer, ps *vdom.PatchSet, indent string) {
	for _, index := range ps.Indices() {
		for _, p := range ps.Get(index) {
			kind := kindColor(p.Kind)(fmt.Sprintf("%-7s", p.Kind))
			fmt.Fprintf(w, "%s%s %s %s\n", indent, faint(fmt.Sprintf("@%-3d", index)), kind, describePatch(p))
			if p.Kind == vdom.PatchThunk {
				writePatchSet(w, p.Nested, indent+"    ")
			}
		}
	}
}

func describePatch(p vdom.Patch) string {
	switch p.Kind {
	case vdom.PatchText:
		var from, to string
		if t, ok := p.Old.(*vdom.VText); ok {
			from = t.Text()
		}
		if t, ok := p.New.(*vdom.VText); ok {
			to = t.Text()
		}
		return textDiff(from, to)
	case vdom.PatchProps:
		return describeProps(p.Props)
	case vdom.PatchReorder:
		if p.Moves == nil {
			return ""
		}
		var parts []string
		for _, r := range p.Moves.Removes {
			if r.Key == "" {
				parts = append(parts, deleted(fmt.Sprintf("%d", r.From)))
				continue
			}
			parts = append(parts, deleted(fmt.Sprintf("%d(%s)", r.From, r.Key)))
		}
		for _, ins := range p.Moves.Inserts {
			parts = append(parts, inserted(fmt.Sprintf("%s→%d", ins.Key, ins.To)))
		}
		return strings.Join(parts, " ")
	case vdom.PatchRemove:
		return describeNode(p.Old)
	case vdom.PatchThunk:
		return fmt.Sprintf("%d nested", p.Nested.Len())
	default:
		return describeNode(p.New)
	}
}

// textDiff renders a character-level diff of two strings.
func textDiff(from, to string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(from, to, false))

	var b strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			b.WriteString(inserted(d.Text))
		case diffmatchpatch.DiffDelete:
			b.WriteString(deleted(d.Text))
		default:
			b.WriteString(d.Text)
		}
	}
	return b.String()
}

func describeProps(diff vdom.PropsDiff) string {
	names := make([]string, 0, len(diff))
	for name := range diff {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		switch v := diff[name].(type) {
		case vdom.PropsDiff:
			parts = append(parts, name+"{"+describeProps(v)+"}")
		default:
			if vdom.IsRemoved(v) {
				parts = append(parts, deleted(name))
				continue
			}
			parts = append(parts, inserted(fmt.Sprintf("%s=%v", name, v)))
		}
	}
	return strings.Join(parts, " ")
}

func describeNode(v vdom.VNode) string {
	switch n := v.(type) {
	case nil:
		return ""
	case *vdom.Element:
		if n.Key() != "" {
			return fmt.Sprintf("<%s key=%q>", n.Tag(), n.Key())
		}
		return "<" + n.Tag() + ">"
	case *vdom.VText:
		return fmt.Sprintf("%q", n.Text())
	case *vdom.FuncWidget:
		return "widget " + n.Name
	}
	return v.Kind().String()
}

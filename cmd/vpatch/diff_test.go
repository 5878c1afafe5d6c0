package main

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/vango-dev/vpatch/internal/errors"
	"github.com/vango-dev/vpatch/internal/snapshot"
)

func TestDiffText(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.yaml", beforeYAML)
	b := writeFile(t, dir, "b.yaml", afterYAML)

	out, _, err := run(t, dir, "diff", a, b)
	if err != nil {
		t.Fatalf("diff: %v", err)
	}

	for _, want := range []string{
		"@0",
		"Props",
		"[-class-]",
		"{+id=items+}",
		"Reorder",
		"@6",
		"hello ",
		"3 patches at 2 indices",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("output contains color codes:\n%q", out)
	}
}

func TestDiffNoChanges(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.yaml", beforeYAML)

	out, _, err := run(t, dir, "diff", a, a)
	if err != nil {
		t.Fatalf("diff: %v", err)
	}
	if !strings.Contains(out, "No changes") {
		t.Errorf("output = %q, want No changes", out)
	}
}

func TestDiffJSON(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.yaml", beforeYAML)
	b := writeFile(t, dir, "b.yaml", afterYAML)

	out, _, err := run(t, dir, "diff", a, b, "-o", "json")
	if err != nil {
		t.Fatalf("diff: %v", err)
	}

	var s snapshot.Summary
	if err := json.Unmarshal([]byte(out), &s); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if s.Patches != 3 {
		t.Errorf("Patches = %d, want 3", s.Patches)
	}
	if len(s.Indices) != 2 || s.Indices[0].Index != 0 || s.Indices[1].Index != 6 {
		t.Errorf("Indices = %+v", s.Indices)
	}
}

func TestDiffYAML(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.yaml", beforeYAML)
	b := writeFile(t, dir, "b.yaml", afterYAML)

	out, _, err := run(t, dir, "diff", a, b, "--output", "yaml")
	if err != nil {
		t.Fatalf("diff: %v", err)
	}
	if !strings.Contains(out, "kind: Reorder") {
		t.Errorf("output missing reorder:\n%s", out)
	}
}

func TestDiffErrors(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.yaml", beforeYAML)
	bad := writeFile(t, dir, "bad.yaml", "tag: p\ntext: both\n")

	if _, _, err := run(t, dir, "diff", a, bad); errors.CodeOf(err) != errors.CodeBadSnapshot {
		t.Errorf("bad snapshot err = %v, want %s", err, errors.CodeBadSnapshot)
	}
	if _, _, err := run(t, dir, "diff", a, dir+"/missing.yaml"); errors.CodeOf(err) != errors.CodeBadSnapshot {
		t.Errorf("missing file err = %v, want %s", err, errors.CodeBadSnapshot)
	}
	if _, _, err := run(t, dir, "diff", a, a, "-o", "xml"); err == nil {
		t.Error("expected error for unknown output format")
	}
	if _, _, err := run(t, dir, "diff", a); err == nil {
		t.Error("expected error for missing argument")
	}
}

func TestTextDiff(t *testing.T) {
	setupColor(nil, true)

	tests := []struct {
		from, to string
		want     string
	}{
		{"same", "same", "same"},
		{"", "new", "{+new+}"},
		{"old", "", "[-old-]"},
		{"hello world", "hello world!", "hello world{+!+}"},
	}
	for _, tt := range tests {
		if got := textDiff(tt.from, tt.to); got != tt.want {
			t.Errorf("textDiff(%q, %q) = %q, want %q", tt.from, tt.to, got, tt.want)
		}
	}
}

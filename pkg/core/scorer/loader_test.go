package scorer

import (
	"os"
	"path/filepath"
	"testing"
)

const overrideHJSON = `{
  // hand-tuned value screen
  name: value
  rules: [
    {metric: return_on_equity, op: ">", threshold: 0.20, points: 3}
    {metric: pe_ratio, op: between, threshold: 5, upper: 15, points: 2}
  ]
}`

func TestLoadChecklistHJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "value.hjson")
	if err := os.WriteFile(path, []byte(overrideHJSON), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := LoadChecklist(path)
	if err != nil {
		t.Fatalf("LoadChecklist failed: %v", err)
	}
	if c.Name != "value" || len(c.Rules) != 2 || c.MaxScore() != 5 {
		t.Fatalf("unexpected checklist: %+v", c)
	}
}

func TestLoadChecklistNameFallsBackToFilename(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dividend.hjson")
	content := `{rules: [{metric: payout_ratio, op: between, threshold: 0.2, upper: 0.6, points: 1}]}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := LoadChecklist(path)
	if err != nil {
		t.Fatalf("LoadChecklist failed: %v", err)
	}
	if c.Name != "dividend" {
		t.Fatalf("name = %q, want dividend", c.Name)
	}
}

func TestLoadChecklistRejectsBadOp(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.hjson")
	content := `{rules: [{metric: x, op: "!=", threshold: 1, points: 1}]}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadChecklist(path); err == nil {
		t.Fatal("expected error for unknown op")
	}
}

func TestLoadDirectoryOverridesBuiltin(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "value.hjson"), []byte(overrideHJSON), 0o644); err != nil {
		t.Fatal(err)
	}

	builtin := DefaultChecklists()
	out, err := LoadDirectory(dir, builtin)
	if err != nil {
		t.Fatalf("LoadDirectory failed: %v", err)
	}
	if len(out) != len(builtin) {
		t.Fatalf("override should replace, not append: %d vs %d", len(out), len(builtin))
	}
	for _, c := range out {
		if c.Name == "value" {
			if len(c.Rules) != 2 {
				t.Fatalf("value checklist not overridden: %+v", c)
			}
			return
		}
	}
	t.Fatal("value checklist missing after override")
}

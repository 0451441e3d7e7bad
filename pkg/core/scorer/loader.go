package scorer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	hjson "github.com/hjson/hjson-go/v4"
)

// LoadChecklist reads a single checklist from an .hjson file. HJSON keeps the
// rule tables comment-friendly for hand tuning.
func LoadChecklist(path string) (Checklist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Checklist{}, fmt.Errorf("load checklist %s: %w", path, err)
	}

	var c Checklist
	if err := hjson.Unmarshal(data, &c); err != nil {
		return Checklist{}, fmt.Errorf("parse checklist %s: %w", path, err)
	}
	if c.Name == "" {
		c.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if len(c.Rules) == 0 {
		return Checklist{}, fmt.Errorf("checklist %s: no rules", path)
	}
	for i, r := range c.Rules {
		switch r.Op {
		case OpGreater, OpGreaterEqual, OpLess, OpLessEqual, OpBetween:
		default:
			return Checklist{}, fmt.Errorf("checklist %s: rule %d: unknown op %q", path, i, r.Op)
		}
		if r.Points <= 0 {
			return Checklist{}, fmt.Errorf("checklist %s: rule %d: points must be positive", path, i)
		}
	}
	return c, nil
}

// LoadDirectory loads every .hjson checklist in dir, overriding same-named
// built-ins and appending new philosophies.
func LoadDirectory(dir string, builtin []Checklist) ([]Checklist, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read checklist dir %s: %w", dir, err)
	}

	byName := make(map[string]int, len(builtin))
	out := append([]Checklist(nil), builtin...)
	for i, c := range out {
		byName[c.Name] = i
	}

	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".hjson" {
			continue
		}
		c, err := LoadChecklist(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		if i, ok := byName[c.Name]; ok {
			out[i] = c
		} else {
			byName[c.Name] = len(out)
			out = append(out, c)
		}
	}
	return out, nil
}

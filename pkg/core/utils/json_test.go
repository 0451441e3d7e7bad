package utils

import "testing"

type note struct {
	Signal     string  `json:"signal"`
	Confidence float64 `json:"confidence"`
}

func TestParseJSONStrict(t *testing.T) {
	var n note
	if _, err := ParseJSON(`{"signal":"bullish","confidence":72}`, &n); err != nil {
		t.Fatal(err)
	}
	if n.Signal != "bullish" || n.Confidence != 72 {
		t.Fatalf("parsed = %+v", n)
	}
}

func TestParseJSONRepairsSingleQuotes(t *testing.T) {
	var n note
	if _, err := ParseJSON(`{'signal': 'bearish', 'confidence': 40,}`, &n); err != nil {
		t.Fatal(err)
	}
	if n.Signal != "bearish" || n.Confidence != 40 {
		t.Fatalf("parsed = %+v", n)
	}
}

func TestParseJSONHjsonFallback(t *testing.T) {
	// Unquoted keys and a comment: valid Hjson, invalid JSON.
	var n note
	input := `{
  # analyst note
  signal: neutral
  confidence: 10
}`
	if _, err := ParseJSON(input, &n); err != nil {
		t.Fatal(err)
	}
	if n.Signal != "neutral" || n.Confidence != 10 {
		t.Fatalf("parsed = %+v", n)
	}
}

func TestParseJSONHopeless(t *testing.T) {
	var n note
	if _, err := ParseJSON("", &n); err == nil {
		t.Fatal("want error for empty input")
	}
}

func TestCleanMarkdownStripsFences(t *testing.T) {
	cases := map[string]string{
		"```markdown\n# Title\nbody\n```": "# Title\nbody",
		"```md\nbody\n```":                "body",
		"```\nbody\n```":                  "body",
		"no fences at all":                "no fences at all",
	}
	for in, want := range cases {
		if got := CleanMarkdown(in); got != want {
			t.Fatalf("CleanMarkdown(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestValidateMarkdown(t *testing.T) {
	if !ValidateMarkdown("## Heading\n\nSome *prose* with a [link](https://example.com).") {
		t.Fatal("plain markdown must validate")
	}
}

package narrative

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

const defaultStreamModel = "gemini-2.0-flash"

// Streamer writes persona commentary token by token, for interactive use
// where waiting for the full structured note is too slow. Unlike Formatter
// it produces free prose, not the JSON contract.
type Streamer struct {
	persona Persona
	model   string
}

// NewStreamer builds a streaming commentator. An empty model uses the
// default Gemini flash model.
func NewStreamer(persona Persona, model string) *Streamer {
	if model == "" {
		model = defaultStreamModel
	}
	return &Streamer{persona: persona, model: model}
}

// Stream generates commentary for the prompt and copies it to w as chunks
// arrive. Returns the full accumulated text.
func (s *Streamer) Stream(ctx context.Context, prompt string, w io.Writer) (string, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return "", fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return "", fmt.Errorf("create gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(s.model)
	model.SetTemperature(0.7)
	full := fmt.Sprintf("%s\n\n%s\n\nWrite flowing prose, no JSON.", s.persona.System, prompt)

	var out []byte
	it := model.GenerateContentStream(ctx, genai.Text(full))
	for {
		resp, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return string(out), fmt.Errorf("stream commentary: %w", err)
		}
		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
			continue
		}
		for _, part := range resp.Candidates[0].Content.Parts {
			if txt, ok := part.(genai.Text); ok {
				out = append(out, txt...)
				if w != nil {
					if _, err := io.WriteString(w, string(txt)); err != nil {
						return string(out), fmt.Errorf("write stream chunk: %w", err)
					}
				}
			}
		}
	}
	return string(out), nil
}

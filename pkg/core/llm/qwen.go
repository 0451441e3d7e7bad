package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
)

const qwenEndpoint = "https://dashscope.aliyuncs.com/api/v1/services/aigc/text-generation/generation"

// QwenProvider calls the native DashScope text-generation API.
type QwenProvider struct {
	Model string
}

var _ Provider = (*QwenProvider)(nil)

func (p *QwenProvider) Name() string { return "qwen" }

func (p *QwenProvider) Generate(ctx context.Context, req Request) (string, error) {
	apiKey := os.Getenv("DASHSCOPE_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("QWEN_API_KEY")
	}
	if apiKey == "" {
		return "", fmt.Errorf("DASHSCOPE_API_KEY or QWEN_API_KEY environment variable not set")
	}

	model := req.Model
	if model == "" {
		model = p.Model
	}
	if model == "" {
		model = "qwen-max"
	}

	body := map[string]interface{}{
		"model": model,
		"input": map[string]interface{}{
			"messages": []chatMessage{
				{Role: "system", Content: req.System},
				{Role: "user", Content: req.Prompt},
			},
		},
		"parameters": map[string]interface{}{
			"result_format": "message",
		},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal qwen request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, qwenEndpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create qwen request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)

	res, err := http.DefaultClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("qwen api call: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(res.Body)
		return "", fmt.Errorf("qwen api status %d: %s", res.StatusCode, string(raw))
	}

	var result struct {
		Output struct {
			Choices []struct {
				Message struct {
					Content string `json:"content"`
				} `json:"message"`
			} `json:"choices"`
			Text string `json:"text"`
		} `json:"output"`
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode qwen response: %w", err)
	}
	if result.Code != "" {
		return "", fmt.Errorf("qwen api error %s: %s", result.Code, result.Message)
	}
	if len(result.Output.Choices) > 0 {
		return result.Output.Choices[0].Message.Content, nil
	}
	if result.Output.Text != "" {
		return result.Output.Text, nil
	}
	return "", fmt.Errorf("empty response from qwen api")
}

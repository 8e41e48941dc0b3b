package adk

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
)

const (
	anthropicBaseURL = "https://api.anthropic.com/v1"
	anthropicVersion = "2023-06-01"
)

type AnthropicProvider struct {
	APIKey    string
	Model     string
	BaseURL   string
	MaxTokens int
}

func NewAnthropicProvider(apiKey, model string) *AnthropicProvider {
	if model == "" {
		model = "claude-sonnet-4-5"
	}
	return &AnthropicProvider{APIKey: apiKey, Model: model, BaseURL: anthropicBaseURL, MaxTokens: 4096}
}

func (p *AnthropicProvider) headers() map[string]string {
	return map[string]string{
		"x-api-key":         p.APIKey,
		"anthropic-version": anthropicVersion,
	}
}

func (p *AnthropicProvider) ListModels(ctx context.Context) ([]string, error) {
	var result struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := doJSON(ctx, "Anthropic", http.MethodGet, p.BaseURL+"/models", p.headers(), nil, &result); err != nil {
		return nil, err
	}
	models := make([]string, 0, len(result.Data))
	for _, m := range result.Data {
		models = append(models, m.ID)
	}
	return models, nil
}

type anthropicSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type anthropicBlock struct {
	Type   string           `json:"type"`
	Text   string           `json:"text,omitempty"`
	Source *anthropicSource `json:"source,omitempty"`
}

type anthropicMessage struct {
	Role    string           `json:"role"`
	Content []anthropicBlock `json:"content"`
}

func anthropicBlocks(msg Message) []anthropicBlock {
	var blocks []anthropicBlock
	for _, a := range msg.Attachments {
		kind := ""
		switch {
		case strings.HasPrefix(a.MIMEType, "image/"):
			kind = "image"
		case a.MIMEType == "application/pdf":
			kind = "document"
		default:
			blocks = append(blocks, anthropicBlock{Type: "text", Text: fmt.Sprintf("[attachment %s (%s) omitted]", a.Name, a.MIMEType)})
			continue
		}
		blocks = append(blocks, anthropicBlock{Type: kind, Source: &anthropicSource{
			Type:      "base64",
			MediaType: a.MIMEType,
			Data:      base64.StdEncoding.EncodeToString(a.Data),
		}})
	}
	return append(blocks, anthropicBlock{Type: "text", Text: msg.Content})
}

// anthropicMessages splits out the system prompt and merges consecutive
// turns of the same role, which the Messages API rejects.
func anthropicMessages(history []Message) (string, []anthropicMessage) {
	var system []string
	var out []anthropicMessage
	for _, msg := range history {
		if msg.Role == "system" {
			system = append(system, msg.Content)
			continue
		}
		role := "user"
		if msg.Role == "model" {
			role = "assistant"
		}
		if n := len(out); n > 0 && out[n-1].Role == role {
			out[n-1].Content = append(out[n-1].Content, anthropicBlocks(msg)...)
			continue
		}
		out = append(out, anthropicMessage{Role: role, Content: anthropicBlocks(msg)})
	}
	return strings.Join(system, "\n\n"), out
}

// GenerateResponse calls the Messages API. Tool calling is not wired for
// this provider; the model only ever answers in text.
func (p *AnthropicProvider) GenerateResponse(ctx context.Context, history []Message, tools []Tool) (string, *ToolCall, error) {
	system, msgs := anthropicMessages(history)
	req := map[string]interface{}{
		"model":      p.Model,
		"max_tokens": p.MaxTokens,
		"messages":   msgs,
	}
	if system != "" {
		req["system"] = system
	}

	var result struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := doJSON(ctx, "Anthropic", http.MethodPost, p.BaseURL+"/messages", p.headers(), req, &result); err != nil {
		return "", nil, err
	}

	var text strings.Builder
	for _, c := range result.Content {
		if c.Type == "text" {
			text.WriteString(c.Text)
		}
	}
	if text.Len() == 0 {
		return "", nil, fmt.Errorf("empty response")
	}
	return text.String(), nil, nil
}

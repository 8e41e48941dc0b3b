package adk

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
)

const openAIBaseURL = "https://api.openai.com/v1"

type OpenAIProvider struct {
	APIKey  string
	Model   string
	BaseURL string
}

func NewOpenAIProvider(apiKey, model string) *OpenAIProvider {
	if model == "" {
		model = "gpt-4o"
	}
	return &OpenAIProvider{APIKey: apiKey, Model: model, BaseURL: openAIBaseURL}
}

func (p *OpenAIProvider) headers() map[string]string {
	return map[string]string{"Authorization": "Bearer " + p.APIKey}
}

func (p *OpenAIProvider) ListModels(ctx context.Context) ([]string, error) {
	var result struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := doJSON(ctx, "OpenAI", http.MethodGet, p.BaseURL+"/models", p.headers(), nil, &result); err != nil {
		return nil, err
	}

	var models []string
	for _, m := range result.Data {
		if strings.HasPrefix(m.ID, "gpt-") || strings.HasPrefix(m.ID, "o") {
			models = append(models, m.ID)
		}
	}
	return models, nil
}

type openAIPart struct {
	Type     string          `json:"type"`
	Text     string          `json:"text,omitempty"`
	ImageURL *openAIImageURL `json:"image_url,omitempty"`
}

type openAIImageURL struct {
	URL string `json:"url"`
}

type openAIMessage struct {
	Role    string       `json:"role"`
	Content []openAIPart `json:"content"`
}

func openAIMessages(history []Message) []openAIMessage {
	out := make([]openAIMessage, 0, len(history))
	for _, msg := range history {
		role := "user"
		switch msg.Role {
		case "system":
			role = "system"
		case "model":
			role = "assistant"
		}

		var parts []openAIPart
		for _, a := range msg.Attachments {
			if !strings.HasPrefix(a.MIMEType, "image/") {
				parts = append(parts, openAIPart{Type: "text", Text: fmt.Sprintf("[attachment %s (%s) omitted]", a.Name, a.MIMEType)})
				continue
			}
			url := "data:" + a.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(a.Data)
			parts = append(parts, openAIPart{Type: "image_url", ImageURL: &openAIImageURL{URL: url}})
		}
		parts = append(parts, openAIPart{Type: "text", Text: msg.Content})
		out = append(out, openAIMessage{Role: role, Content: parts})
	}
	return out
}

// GenerateResponse runs a chat completion. Tool calling is not wired for
// this provider; the model only ever answers in text.
func (p *OpenAIProvider) GenerateResponse(ctx context.Context, history []Message, tools []Tool) (string, *ToolCall, error) {
	req := map[string]interface{}{
		"model":       p.Model,
		"messages":    openAIMessages(history),
		"temperature": 0,
	}
	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := doJSON(ctx, "OpenAI", http.MethodPost, p.BaseURL+"/chat/completions", p.headers(), req, &result); err != nil {
		return "", nil, err
	}
	if len(result.Choices) == 0 {
		return "", nil, fmt.Errorf("no response choices")
	}
	return result.Choices[0].Message.Content, nil, nil
}

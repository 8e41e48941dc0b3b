package adk

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type scriptedReply struct {
	text string
	call *ToolCall
	err  error
}

// scriptedProvider replays canned replies and records what it was sent.
type scriptedProvider struct {
	replies []scriptedReply
	seen    [][]Message
	tools   [][]string
}

func (p *scriptedProvider) GenerateResponse(ctx context.Context, history []Message, tools []Tool) (string, *ToolCall, error) {
	p.seen = append(p.seen, append([]Message(nil), history...))
	var names []string
	for _, t := range tools {
		names = append(names, t.Name())
	}
	p.tools = append(p.tools, names)

	if len(p.replies) == 0 {
		return "", nil, errors.New("script exhausted")
	}
	r := p.replies[0]
	p.replies = p.replies[1:]
	return r.text, r.call, r.err
}

func (p *scriptedProvider) ListModels(ctx context.Context) ([]string, error) {
	return []string{"scripted"}, nil
}

type echoTool struct {
	name  string
	calls int
}

func (e *echoTool) Name() string        { return e.name }
func (e *echoTool) Description() string { return "echoes its input" }
func (e *echoTool) Schema() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{"text": map[string]interface{}{"type": "string"}},
	}
}
func (e *echoTool) Execute(ctx context.Context, args map[string]interface{}, progress func(string)) (string, error) {
	e.calls++
	if progress != nil {
		progress("echoing")
	}
	return "echo: " + args["text"].(string), nil
}

func TestAgentChatRunsToolThenAnswers(t *testing.T) {
	p := &scriptedProvider{replies: []scriptedReply{
		{call: &ToolCall{ToolName: "echo", Args: map[string]interface{}{"text": "hi"}}},
		{text: "done"},
	}}
	tool := &echoTool{name: "echo"}
	agent := NewAgent(p, zaptest.NewLogger(t))
	agent.RegisterTool(tool)
	agent.RegisterTool(&echoTool{name: "alpha"})
	agent.SetSystemPrompt("be brief")

	var progress []string
	resp, err := agent.Chat(context.Background(), "say hi", func(s string) { progress = append(progress, s) })
	require.NoError(t, err)
	assert.Equal(t, "done", resp)
	assert.Equal(t, 1, tool.calls)
	assert.Equal(t, []string{"echoing"}, progress)

	require.Len(t, p.seen, 2)
	assert.Equal(t, "system", p.seen[0][0].Role)
	assert.Equal(t, "be brief", p.seen[0][0].Content)
	assert.Equal(t, []string{"alpha", "echo"}, p.tools[0])

	last := p.seen[1][len(p.seen[1])-1]
	assert.Equal(t, "function", last.Role)
	assert.Contains(t, last.Content, "echo: hi")

	history := agent.History()
	require.Len(t, history, 4)
	assert.Equal(t, "user", history[0].Role)
	assert.Equal(t, "model", history[3].Role)
}

func TestAgentChatUnknownTool(t *testing.T) {
	p := &scriptedProvider{replies: []scriptedReply{
		{call: &ToolCall{ToolName: "missing"}},
		{text: "sorry"},
	}}
	agent := NewAgent(p, nil)

	resp, err := agent.Chat(context.Background(), "x", nil)
	require.NoError(t, err)
	assert.Equal(t, "sorry", resp)
	assert.Contains(t, p.seen[1][len(p.seen[1])-1].Content, "tool missing not found")
}

func TestAgentChatStopsRunawayToolLoops(t *testing.T) {
	p := &scriptedProvider{}
	for i := 0; i < maxToolRounds; i++ {
		p.replies = append(p.replies, scriptedReply{call: &ToolCall{ToolName: "echo", Args: map[string]interface{}{"text": "again"}}})
	}
	agent := NewAgent(p, nil)
	agent.RegisterTool(&echoTool{name: "echo"})

	_, err := agent.Chat(context.Background(), "loop", nil)
	assert.Error(t, err)
}

func TestAsk(t *testing.T) {
	p := &scriptedProvider{replies: []scriptedReply{{text: `{"score": 90}`}}}
	att := []Attachment{{Name: "a.png", MIMEType: "image/png", Data: []byte{1, 2}}}

	reply, err := Ask(context.Background(), p, "sys", "analyze", att)
	require.NoError(t, err)
	assert.Equal(t, `{"score": 90}`, reply)

	require.Len(t, p.seen[0], 2)
	assert.Equal(t, "system", p.seen[0][0].Role)
	assert.Equal(t, att, p.seen[0][1].Attachments)
	assert.Empty(t, p.tools[0])
}

func TestAskRejectsToolCalls(t *testing.T) {
	p := &scriptedProvider{replies: []scriptedReply{{call: &ToolCall{ToolName: "echo"}}}}
	_, err := Ask(context.Background(), p, "", "analyze", nil)
	assert.Error(t, err)
}

func TestGeminiSchema(t *testing.T) {
	s := geminiSchema(map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"payload": map[string]interface{}{"type": "string", "description": "raw JSON"},
			"limit":   map[string]interface{}{"type": "integer"},
			"files":   map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}},
		},
		"required": []string{"payload"},
	})
	require.Len(t, s.Properties, 3)
	assert.Equal(t, "raw JSON", s.Properties["payload"].Description)
	assert.Equal(t, []string{"payload"}, s.Required)
	require.NotNil(t, s.Properties["files"].Items)
}

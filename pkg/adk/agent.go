package adk

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/user/verity-adk/pkg/logger"
)

// Tool represents an executable action for the agent
type Tool interface {
	Name() string
	Description() string
	Execute(ctx context.Context, args map[string]interface{}, progress func(string)) (string, error)
	Schema() map[string]interface{} // JSON schema for arguments
}

// ToolCall represents a request from the LLM to execute a tool
type ToolCall struct {
	ToolName string
	Args     map[string]interface{}
}

// Attachment is a file sent to the model alongside a message.
type Attachment struct {
	Name     string
	MIMEType string
	Data     []byte
}

// Message represents a chat message
type Message struct {
	Role        string // "user", "model", "system", "function"
	Content     string
	Attachments []Attachment
}

// LLMProvider defines the interface for different AI models
type LLMProvider interface {
	GenerateResponse(ctx context.Context, history []Message, tools []Tool) (string, *ToolCall, error)
	ListModels(ctx context.Context) ([]string, error)
}

// maxToolRounds bounds how many tool calls one user turn may trigger.
const maxToolRounds = 8

// Agent is the core ADK agent
type Agent struct {
	llm     LLMProvider
	tools   map[string]Tool
	system  string
	history []Message
	log     *zap.Logger
}

// NewAgent creates a new agent with the given LLM provider
func NewAgent(llm LLMProvider, log *zap.Logger) *Agent {
	return &Agent{
		llm:   llm,
		tools: make(map[string]Tool),
		log:   logger.OrNop(log),
	}
}

// RegisterTool adds a tool to the agent's registry
func (a *Agent) RegisterTool(t Tool) {
	a.tools[t.Name()] = t
}

// SetSystemPrompt sets the instructions sent ahead of every conversation.
func (a *Agent) SetSystemPrompt(prompt string) {
	a.system = prompt
}

// History returns the conversation so far, without the system prompt.
func (a *Agent) History() []Message {
	return append([]Message(nil), a.history...)
}

func (a *Agent) toolList() []Tool {
	names := make([]string, 0, len(a.tools))
	for name := range a.tools {
		names = append(names, name)
	}
	sort.Strings(names)

	list := make([]Tool, 0, len(names))
	for _, name := range names {
		list = append(list, a.tools[name])
	}
	return list
}

func (a *Agent) transcript() []Message {
	if a.system == "" {
		return a.history
	}
	return append([]Message{{Role: "system", Content: a.system}}, a.history...)
}

// Chat sends a message to the agent and returns the response
func (a *Agent) Chat(ctx context.Context, input string, progress func(string)) (string, error) {
	a.history = append(a.history, Message{Role: "user", Content: input})
	tools := a.toolList()

	for round := 0; round < maxToolRounds; round++ {
		respText, toolCall, err := a.llm.GenerateResponse(ctx, a.transcript(), tools)
		if err != nil {
			return "", err
		}

		if toolCall == nil {
			a.history = append(a.history, Message{Role: "model", Content: respText})
			return respText, nil
		}

		a.log.Debug("executing tool",
			zap.String("tool", toolCall.ToolName),
			zap.Any("args", toolCall.Args))

		a.history = append(a.history, Message{
			Role:    "model",
			Content: fmt.Sprintf("I will call tool %s with args %v", toolCall.ToolName, toolCall.Args),
		})

		tool, exists := a.tools[toolCall.ToolName]
		if !exists {
			a.history = append(a.history, Message{Role: "function", Content: fmt.Sprintf("Error: tool %s not found", toolCall.ToolName)})
			continue
		}

		result, err := tool.Execute(ctx, toolCall.Args, progress)
		if err != nil {
			a.log.Warn("tool failed", zap.String("tool", toolCall.ToolName), zap.Error(err))
			result = fmt.Sprintf("Error executing tool: %v", err)
		}

		a.history = append(a.history, Message{
			Role:    "function",
			Content: fmt.Sprintf("Tool %s returned: %s", toolCall.ToolName, result),
		})
	}
	return "", fmt.Errorf("no answer after %d tool calls", maxToolRounds)
}

// Ask sends a single prompt with attachments and returns the text reply.
// No tools are offered and no history is kept.
func Ask(ctx context.Context, llm LLMProvider, system, prompt string, attachments []Attachment) (string, error) {
	var msgs []Message
	if system != "" {
		msgs = append(msgs, Message{Role: "system", Content: system})
	}
	msgs = append(msgs, Message{Role: "user", Content: prompt, Attachments: attachments})

	text, call, err := llm.GenerateResponse(ctx, msgs, nil)
	if err != nil {
		return "", err
	}
	if call != nil {
		return "", fmt.Errorf("unexpected tool call %s", call.ToolName)
	}
	return text, nil
}

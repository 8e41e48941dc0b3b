package cmd

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/verity-adk/pkg/adk"
	"github.com/user/verity-adk/pkg/config"
	"github.com/user/verity-adk/pkg/engine"
)

func TestRunSetup(t *testing.T) {
	cfg := config.Default()
	in := strings.NewReader("2\nsk-test\n2\nletter\n/tmp/out\n")
	var out bytes.Buffer

	ok := runSetup(in, &out, cfg, func(provider, key string) ([]string, error) {
		assert.Equal(t, "openai", provider)
		assert.Equal(t, "sk-test", key)
		return []string{"gpt-4o-mini", "gpt-4o"}, nil
	})
	require.True(t, ok)
	assert.Equal(t, "openai", cfg.SelectedProvider)
	assert.Equal(t, "gpt-4o", cfg.SelectedModel)
	assert.Equal(t, "sk-test", cfg.GetAPIKey("openai"))
	assert.Equal(t, 612.0, cfg.Report.PageWidth)
	assert.Equal(t, "/tmp/out", cfg.OutputDir)
	assert.Contains(t, out.String(), "Setup Complete!")
}

func TestRunSetupManualModelWhenListingFails(t *testing.T) {
	cfg := config.Default()
	in := strings.NewReader("gemini\nkey\ngemini-1.5-pro\n\n\n")
	var out bytes.Buffer

	ok := runSetup(in, &out, cfg, func(string, string) ([]string, error) {
		return nil, errors.New("offline")
	})
	require.True(t, ok)
	assert.Equal(t, "gemini-1.5-pro", cfg.SelectedModel)
	assert.Equal(t, ".", cfg.OutputDir)
	assert.Contains(t, out.String(), "offline")
}

func TestRunSetupAborts(t *testing.T) {
	assert.False(t, runSetup(strings.NewReader("7\n"), &bytes.Buffer{}, config.Default(), nil))
	assert.False(t, runSetup(strings.NewReader("1\n\n"), &bytes.Buffer{}, config.Default(), nil))
}

func TestMimeType(t *testing.T) {
	assert.Equal(t, "image/png", mimeType("a.PNG", nil))
	assert.Equal(t, "application/pdf", mimeType("scan.pdf", nil))
	assert.Equal(t, "application/pdf", mimeType("noext", []byte("%PDF-1.7\n")))
}

func TestAnalysisPrompt(t *testing.T) {
	p := analysisPrompt([]string{"a.png", "b.pdf"}, "")
	assert.Contains(t, p, "1. a.png\n2. b.pdf")
	assert.Contains(t, p, "No claim was provided.")
	assert.Contains(t, analysisPrompt([]string{"a.png"}, "my receipt"), "Claim: my receipt")
}

type flakyProvider struct {
	replies []string
	errs    []error
	calls   int
}

func (p *flakyProvider) GenerateResponse(ctx context.Context, history []adk.Message, tools []adk.Tool) (string, *adk.ToolCall, error) {
	i := p.calls
	p.calls++
	return p.replies[i], nil, p.errs[i]
}

func (p *flakyProvider) ListModels(ctx context.Context) ([]string, error) { return nil, nil }

func TestRequestAnalysisRetriesUnparseableReplies(t *testing.T) {
	p := &flakyProvider{
		replies: []string{"", "I think it's fine", "```json\n{\"score\": 64}\n```"},
		errs:    []error{&adk.StatusError{Provider: "x", Status: 503}, nil, nil},
	}
	payload, err := requestAnalysisWithBackoff(t, p, 3)
	require.NoError(t, err)
	assert.JSONEq(t, `{"score": 64}`, string(payload))
	assert.Equal(t, 3, p.calls)
}

func TestRequestAnalysisStopsOnPermanentErrors(t *testing.T) {
	p := &flakyProvider{
		replies: []string{""},
		errs:    []error{&adk.StatusError{Provider: "x", Status: 401}},
	}
	_, err := requestAnalysisWithBackoff(t, p, 3)
	require.Error(t, err)
	assert.Equal(t, 1, p.calls)
}

func requestAnalysisWithBackoff(t *testing.T, p adk.LLMProvider, retries uint64) ([]byte, error) {
	t.Helper()
	old := retryInterval
	retryInterval = time.Millisecond
	defer func() { retryInterval = old }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	return requestAnalysis(ctx, p, "files", nil, retries)
}

func TestPrintFinding(t *testing.T) {
	color.NoColor = true
	f, err := engine.Normalize(`{"score": 45, "filenames": ["a.png", "b.png"]}`, nil)
	require.NoError(t, err)

	var out bytes.Buffer
	printFinding(&out, f)
	assert.Contains(t, out.String(), "Score: 45/100  Risk: Medium")
	assert.Contains(t, out.String(), "Files: a.png, b.png")
	assert.Contains(t, out.String(), "Shadow Perspective")
}

func TestMaskKey(t *testing.T) {
	assert.Equal(t, "****", maskKey("abcd"))
	assert.Equal(t, "AIza****wxyz", maskKey("AIza1234wxyz"))
	assert.True(t, knownProvider("anthropic"))
	assert.False(t, knownProvider("mystery"))
}

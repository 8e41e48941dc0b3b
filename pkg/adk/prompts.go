package adk

import (
	_ "embed"
)

//go:embed prompts/system_prompt.md
var systemPrompt string

//go:embed prompts/analysis_prompt.md
var analysisPrompt string

// GetSystemPrompt returns the default system prompt for the agent
func GetSystemPrompt() string {
	return systemPrompt
}

// GetAnalysisPrompt returns the instructions sent with files to analyze.
func GetAnalysisPrompt() string {
	return analysisPrompt
}

package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/user/verity-adk/pkg/adk"
	"github.com/user/verity-adk/pkg/config"
	"github.com/user/verity-adk/pkg/report"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive setup wizard",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig()
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			return
		}

		listModels := func(provider, apiKey string) ([]string, error) {
			ctx := context.Background()
			p, err := adk.NewProvider(ctx, provider, apiKey, "")
			if err != nil {
				return nil, err
			}
			if closer, ok := p.(interface{ Close() }); ok {
				defer closer.Close()
			}
			return p.ListModels(ctx)
		}

		if !runSetup(os.Stdin, os.Stdout, cfg, listModels) {
			return
		}
		if err := config.SaveConfig(cfg); err != nil {
			fmt.Printf("Error saving config: %v\n", err)
			return
		}
		fmt.Println("You can now run 'verity-adk analyze <files>' or 'verity-adk interactive'")
	},
}

type wizard struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func (w *wizard) ask(label string) string {
	fmt.Fprint(w.out, label)
	if !w.scanner.Scan() {
		return ""
	}
	return strings.TrimSpace(w.scanner.Text())
}

// runSetup walks through provider, key, model and report settings and
// updates cfg in place. It returns false when the user aborted.
func runSetup(in io.Reader, out io.Writer, cfg *config.Config, listModels func(provider, apiKey string) ([]string, error)) bool {
	w := &wizard{scanner: bufio.NewScanner(in), out: out}
	fmt.Fprintln(out, "Welcome to Verity-ADK Setup Wizard")
	fmt.Fprintln(out, "----------------------------------")

	fmt.Fprintln(out, "Step 1: Choose your AI Provider")
	fmt.Fprintln(out, "1. Gemini (Google)")
	fmt.Fprintln(out, "2. OpenAI")
	fmt.Fprintln(out, "3. Anthropic")
	var provider string
	switch strings.ToLower(w.ask("Enter number or name > ")) {
	case "1", "gemini":
		provider = "gemini"
	case "2", "openai":
		provider = "openai"
	case "3", "anthropic":
		provider = "anthropic"
	default:
		fmt.Fprintln(out, "Invalid choice. Aborting.")
		return false
	}

	fmt.Fprintf(out, "\nStep 2: Enter API Key for %s\n", provider)
	apiKey := w.ask("> ")
	if apiKey == "" {
		fmt.Fprintln(out, "API Key cannot be empty.")
		return false
	}

	fmt.Fprintln(out, "\nStep 3: Validating key and fetching available models...")
	var selectedModel string
	models, err := listModels(provider, apiKey)
	if err != nil || len(models) == 0 {
		if err != nil {
			fmt.Fprintf(out, "Warning: Could not fetch models from API: %v\n", err)
		}
		selectedModel = w.ask("Enter model name (e.g., 'gemini-1.5-flash', 'gpt-4o') > ")
	} else {
		fmt.Fprintf(out, "Successfully retrieved %d models.\n", len(models))
		for i, m := range models {
			fmt.Fprintf(out, "%d. %s\n", i+1, m)
		}
		selIdx, err := strconv.Atoi(w.ask("Select Model (number) > "))
		if err != nil || selIdx < 1 || selIdx > len(models) {
			fmt.Fprintln(out, "Invalid selection. Using first available model.")
			selIdx = 1
		}
		selectedModel = models[selIdx-1]
	}
	if selectedModel == "" {
		fmt.Fprintln(out, "Model cannot be empty.")
		return false
	}

	fmt.Fprintln(out, "\nStep 4: Reports")
	switch strings.ToLower(w.ask("Page size [a4/letter, enter keeps current] > ")) {
	case "a4":
		cfg.Report = report.DefaultLayout()
	case "letter":
		cfg.Report = report.DefaultLayout()
		cfg.Report.PageWidth, cfg.Report.PageHeight = 612, 792
	}
	if dir := w.ask(fmt.Sprintf("Output directory [%s] > ", cfg.OutputDir)); dir != "" {
		cfg.OutputDir = dir
	}

	cfg.SelectedProvider = provider
	cfg.SelectedModel = selectedModel
	cfg.SetAPIKey(provider, apiKey)

	fmt.Fprintln(out, "----------------------------------")
	fmt.Fprintln(out, "Setup Complete!")
	fmt.Fprintf(out, "Provider: %s\n", provider)
	fmt.Fprintf(out, "Model:    %s\n", selectedModel)
	fmt.Fprintf(out, "Reports:  %s (%gx%g pt)\n", cfg.OutputDir, cfg.Report.PageWidth, cfg.Report.PageHeight)
	return true
}

func init() {
	configCmd.AddCommand(setupCmd)
}

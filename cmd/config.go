package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/user/verity-adk/pkg/config"
	"github.com/user/verity-adk/pkg/report"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration (providers, models, keys)",
}

var setKeyCmd = &cobra.Command{
	Use:   "set-key",
	Short: "Manually set API key for a provider",
	Run: func(cmd *cobra.Command, args []string) {
		provider, _ := cmd.Flags().GetString("provider")
		key, _ := cmd.Flags().GetString("key")

		if provider == "" || key == "" {
			fmt.Println("Error: --provider and --key are required")
			return
		}

		cfg, err := config.LoadConfig()
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			return
		}

		cfg.SetAPIKey(strings.ToLower(provider), key)
		if err := config.SaveConfig(cfg); err != nil {
			fmt.Printf("Error saving config: %v\n", err)
			return
		}
		fmt.Printf("API key saved for provider: %s\n", provider)
	},
}

var setModelCmd = &cobra.Command{
	Use:   "set-model",
	Short: "Manually set the active provider and model",
	Run: func(cmd *cobra.Command, args []string) {
		provider, _ := cmd.Flags().GetString("provider")
		model, _ := cmd.Flags().GetString("model")

		cfg, err := config.LoadConfig()
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			return
		}

		if provider != "" {
			provider = strings.ToLower(provider)
			if !knownProvider(provider) {
				fmt.Printf("Error: unknown provider %q (gemini, openai, anthropic)\n", provider)
				return
			}
			cfg.SelectedProvider = provider
		}
		if model != "" {
			cfg.SelectedModel = model
		}

		if err := config.SaveConfig(cfg); err != nil {
			fmt.Printf("Error saving config: %v\n", err)
			return
		}
		fmt.Printf("Active configuration updated: Provider=%s, Model=%s\n", cfg.SelectedProvider, cfg.SelectedModel)
	},
}

var listModelsCmd = &cobra.Command{
	Use:   "list-models",
	Short: "List available models from the configured provider",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig()
		if err != nil {
			fmt.Println("Error loading config:", err)
			return
		}

		fmt.Printf("Fetching models for %s...\n", cfg.SelectedProvider)
		ctx := context.Background()
		p, closeProvider, err := openProvider(ctx, cfg)
		if err != nil {
			fmt.Println("Error initializing provider:", err)
			return
		}
		defer closeProvider()

		models, err := p.ListModels(ctx)
		if err != nil {
			fmt.Println("Error fetching models:", err)
			return
		}

		fmt.Printf("\nAvailable Models (%s):\n", cfg.SelectedProvider)
		active := color.New(color.FgHiGreen, color.Bold)
		for _, m := range models {
			if m == cfg.SelectedModel {
				active.Printf("* %s\n", m)
				continue
			}
			fmt.Printf("  %s\n", m)
		}
	},
}

var showConfigCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the active configuration with API keys masked",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig()
		if err != nil {
			fmt.Println("Error loading config:", err)
			return
		}
		path, _ := config.GetConfigPath()

		bold := color.New(color.Bold)
		bold.Printf("Config: %s\n", path)
		fmt.Printf("Provider:      %s\n", cfg.SelectedProvider)
		fmt.Printf("Model:         %s\n", cfg.SelectedModel)
		for name := range cfg.Providers {
			fmt.Printf("Key (%s): %s\n", name, maskKey(cfg.GetAPIKey(name)))
		}
		fmt.Printf("Output dir:    %s\n", cfg.OutputDir)
		fmt.Printf("History limit: %d\n", cfg.HistoryLimit)
		fmt.Printf("Log level:     %s\n", cfg.LogLevel)
		l := cfg.Report
		fmt.Printf("Page:          %gx%g pt, margin %g, footer %g, lines %g/%g\n",
			l.PageWidth, l.PageHeight, l.Margin, l.FooterReserve, l.LineHeightBody, l.LineHeightHeading)
	},
}

func knownProvider(name string) bool {
	switch name {
	case "gemini", "openai", "anthropic":
		return true
	}
	return false
}

func maskKey(key string) string {
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", len(key)-8) + key[len(key)-4:]
}

var setLayoutCmd = &cobra.Command{
	Use:   "set-layout",
	Short: "Set the report page geometry (points)",
	Long: `Changes the page size, margins and line heights used for PDF reports.
Use --preset a4 or --preset letter for the common sizes, then override
individual values. The result is validated before it is saved.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig()
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			return
		}

		layout := cfg.Report
		switch preset, _ := cmd.Flags().GetString("preset"); strings.ToLower(preset) {
		case "":
		case "a4":
			layout = report.DefaultLayout()
		case "letter":
			layout = report.DefaultLayout()
			layout.PageWidth, layout.PageHeight = 612, 792
		default:
			fmt.Printf("Error: unknown preset %q (a4, letter)\n", preset)
			return
		}

		for flag, field := range map[string]*float64{
			"page-width":          &layout.PageWidth,
			"page-height":         &layout.PageHeight,
			"margin":              &layout.Margin,
			"footer-reserve":      &layout.FooterReserve,
			"line-height-body":    &layout.LineHeightBody,
			"line-height-heading": &layout.LineHeightHeading,
		} {
			if cmd.Flags().Changed(flag) {
				*field, _ = cmd.Flags().GetFloat64(flag)
			}
		}

		if err := layout.Validate(); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		cfg.Report = layout
		if err := config.SaveConfig(cfg); err != nil {
			fmt.Printf("Error saving config: %v\n", err)
			return
		}
		fmt.Printf("Report layout updated: %gx%g pt, margin %g, footer %g, lines %g/%g\n",
			layout.PageWidth, layout.PageHeight, layout.Margin, layout.FooterReserve,
			layout.LineHeightBody, layout.LineHeightHeading)
	},
}

func init() {
	setLayoutCmd.Flags().String("preset", "", "Start from a preset page size (a4, letter)")
	setLayoutCmd.Flags().Float64("page-width", 0, "Page width")
	setLayoutCmd.Flags().Float64("page-height", 0, "Page height")
	setLayoutCmd.Flags().Float64("margin", 0, "Margin on every side")
	setLayoutCmd.Flags().Float64("footer-reserve", 0, "Space kept free for the footer")
	setLayoutCmd.Flags().Float64("line-height-body", 0, "Body line height")
	setLayoutCmd.Flags().Float64("line-height-heading", 0, "Heading line height")

	setKeyCmd.Flags().StringP("provider", "p", "", "Provider (gemini, openai, anthropic)")
	setKeyCmd.Flags().StringP("key", "k", "", "API Key")

	setModelCmd.Flags().StringP("provider", "p", "", "Provider (gemini, openai, anthropic)")
	setModelCmd.Flags().StringP("model", "m", "", "Model name")

	configCmd.AddCommand(setKeyCmd)
	configCmd.AddCommand(setModelCmd)
	configCmd.AddCommand(listModelsCmd)
	configCmd.AddCommand(setLayoutCmd)
	configCmd.AddCommand(showConfigCmd)
	rootCmd.AddCommand(configCmd)
}

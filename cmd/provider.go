package cmd

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/user/verity-adk/pkg/adk"
	"github.com/user/verity-adk/pkg/config"
)

// openProvider connects to the configured provider. The returned close func
// is never nil.
func openProvider(ctx context.Context, cfg *config.Config) (adk.LLMProvider, func(), error) {
	providerName := cfg.SelectedProvider
	if providerName == "" {
		providerName = config.DefaultProvider
	}

	apiKey := cfg.GetAPIKey(providerName)
	if apiKey == "" && providerName == "gemini" {
		// Fallback to env var for Gemini if not in config
		apiKey = os.Getenv("GOOGLE_API_KEY")
	}
	if apiKey == "" {
		return nil, func() {}, fmt.Errorf("no API key for %s, run 'verity-adk config setup'", providerName)
	}

	log.Debug("connecting to provider",
		zap.String("provider", providerName),
		zap.String("model", cfg.SelectedModel))
	provider, err := adk.NewProvider(ctx, providerName, apiKey, cfg.SelectedModel)
	if err != nil {
		return nil, func() {}, fmt.Errorf("create %s provider: %w", providerName, err)
	}

	closeFn := func() {}
	if closer, ok := provider.(interface{ Close() }); ok {
		closeFn = closer.Close
	}
	return provider, closeFn, nil
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/user/verity-adk/pkg/adk"
	"github.com/user/verity-adk/pkg/config"
	"github.com/user/verity-adk/pkg/engine"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>...",
	Short: "Ask the configured model to assess files and render the result",
	Long: `Sends the files (and an optional claim) to the configured provider with the
authenticity analysis prompt, normalizes the JSON it returns and writes a PDF
report.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		claim, _ := cmd.Flags().GetString("claim")
		outDir, _ := cmd.Flags().GetString("output-dir")
		retries, _ := cmd.Flags().GetUint64("retries")

		attachments, names, err := loadAttachments(args)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		provider, closeProvider, err := openProvider(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeProvider()

		fmt.Fprintf(cmd.ErrOrStderr(), "Analyzing %d file(s) with %s (%s)...\n", len(names), cfg.SelectedProvider, cfg.SelectedModel)
		payload, err := requestAnalysis(ctx, provider, analysisPrompt(names, claim), attachments, retries)
		if err != nil {
			return err
		}

		raw, err := engine.ParsePayload(payload)
		if err != nil {
			return err
		}
		if _, ok := raw["claim"]; !ok && cmd.Flags().Changed("claim") {
			raw["claim"] = claim
		}

		session, err := newSession(cfg, outDir)
		if err != nil {
			return err
		}
		f, err := session.Normalize(raw, names)
		if err != nil {
			return err
		}
		out, err := session.RenderToFile(f)
		if err != nil {
			return err
		}

		printFinding(cmd.OutOrStdout(), f)
		fmt.Fprintf(cmd.OutOrStdout(), "\nReport: %s (%d pages)\n", out.Path, out.Pages)
		return nil
	},
}

// retryInterval is the first wait between analysis attempts.
var retryInterval = 2 * time.Second

func loadAttachments(paths []string) ([]adk.Attachment, []string, error) {
	attachments := make([]adk.Attachment, 0, len(paths))
	names := make([]string, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, nil, fmt.Errorf("read %s: %w", p, err)
		}
		name := filepath.Base(p)
		attachments = append(attachments, adk.Attachment{Name: name, MIMEType: mimeType(name, data), Data: data})
		names = append(names, name)
	}
	return attachments, names, nil
}

func mimeType(name string, data []byte) string {
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); t != "" {
		if base, _, err := mime.ParseMediaType(t); err == nil {
			return base
		}
	}
	t := http.DetectContentType(data)
	if base, _, err := mime.ParseMediaType(t); err == nil {
		return base
	}
	return "application/octet-stream"
}

func analysisPrompt(names []string, claim string) string {
	var sb strings.Builder
	sb.WriteString("Files, in order:\n")
	for i, n := range names {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, n))
	}
	if strings.TrimSpace(claim) != "" {
		sb.WriteString("\nClaim: ")
		sb.WriteString(claim)
		sb.WriteString("\n")
	} else {
		sb.WriteString("\nNo claim was provided.\n")
	}
	return sb.String()
}

// requestAnalysis asks the model and extracts its JSON reply, retrying
// transient API failures and replies with no JSON in them.
func requestAnalysis(ctx context.Context, provider adk.LLMProvider, prompt string, attachments []adk.Attachment, retries uint64) ([]byte, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = retryInterval
	bo.MaxElapsedTime = 3 * time.Minute

	var payload []byte
	attempt := 0
	operation := func() error {
		attempt++
		reply, err := adk.Ask(ctx, provider, adk.GetAnalysisPrompt(), prompt, attachments)
		if err != nil {
			var statusErr *adk.StatusError
			if errors.As(err, &statusErr) && !statusErr.Temporary() {
				return backoff.Permanent(err)
			}
			return err
		}
		log.Debug("model reply", zap.Int("attempt", attempt), zap.Int("bytes", len(reply)))

		payload, err = adk.ExtractJSON(reply)
		return err
	}
	notify := func(err error, wait time.Duration) {
		log.Warn("analysis attempt failed, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err))
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(bo, retries), ctx)
	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		return nil, fmt.Errorf("analysis failed after %d attempt(s): %w", attempt, err)
	}
	return payload, nil
}

func init() {
	analyzeCmd.Flags().StringP("claim", "c", "", "What the submitter claims the files show")
	analyzeCmd.Flags().StringP("output-dir", "o", "", "Directory for the PDF (default from config)")
	analyzeCmd.Flags().Uint64("retries", 3, "Retries for failed or unparseable model replies")
	rootCmd.AddCommand(analyzeCmd)
}

package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/user/verity-adk/pkg/config"
	"github.com/user/verity-adk/pkg/engine"
	"github.com/user/verity-adk/pkg/wrappers"
)

// newSession builds the shared normalize/render/history state from the
// saved configuration.
func newSession(cfg *config.Config, outputDir string) (*wrappers.Session, error) {
	s := wrappers.NewSession(log)
	s.Layout = cfg.Report
	s.OutputDir = cfg.OutputDir
	if outputDir != "" {
		s.OutputDir = outputDir
	}
	s.History = engine.NewHistory(cfg.HistoryLimit)

	path, err := config.HistoryPath()
	if err != nil {
		return nil, err
	}
	s.HistoryPath = path
	if err := s.LoadHistory(); err != nil {
		log.Warn("history not loaded, starting empty", zap.String("path", path), zap.Error(err))
	}
	return s, nil
}

// readInput reads a file, or stdin for "-" or an empty name.
func readInput(name string) ([]byte, error) {
	if name == "" || name == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(name)
}

func riskColor(level engine.RiskLevel) *color.Color {
	switch level {
	case engine.RiskLow:
		return color.New(color.FgHiGreen, color.Bold)
	case engine.RiskMedium:
		return color.New(color.FgHiYellow, color.Bold)
	default:
		return color.New(color.FgHiRed, color.Bold)
	}
}

// printFinding writes a short coloured summary of f.
func printFinding(w io.Writer, f engine.Finding) {
	risk := riskColor(f.RiskLevel)
	fmt.Fprintf(w, "Score: %s  Risk: %s\n",
		risk.Sprintf("%d/100", f.Score),
		risk.Sprint(f.RiskLevel))
	fmt.Fprintf(w, "Verdict: %s\n", f.Verdict)
	if len(f.Filenames) > 0 {
		fmt.Fprintf(w, "Files: %s\n", strings.Join(f.Filenames, ", "))
	}
	for _, c := range engine.Categories() {
		score := f.CategoryScores.Get(c)
		fmt.Fprintf(w, "  %-22s %s\n", c.Label(), riskColor(engine.RiskForScore(score)).Sprintf("%3d", score))
	}
}

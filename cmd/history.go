package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/user/verity-adk/pkg/config"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent findings",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig()
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			return
		}
		session, err := newSession(cfg, "")
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		limit, _ := cmd.Flags().GetInt("limit")
		records := session.History.Recent(limit)
		if len(records) == 0 {
			fmt.Println("No findings recorded yet. Run 'verity-adk render' or 'verity-adk analyze'.")
			return
		}

		dim := color.New(color.FgHiBlack)
		for _, r := range records {
			risk := riskColor(r.Finding.RiskLevel)
			fmt.Printf("%s  %s  %s  %s\n",
				color.New(color.FgHiBlue, color.Bold).Sprint(r.ID[:min(8, len(r.ID))]),
				risk.Sprintf("%3d/100 %-6s", r.Finding.Score, r.Finding.RiskLevel),
				dim.Sprint(r.CreatedAt.Local().Format(time.DateTime)),
				strings.Join(r.Finding.Filenames, ", "))
			if r.Artifact != "" {
				dim.Printf("    %s\n", r.Artifact)
			}
		}
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print one finding from the history as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		session, err := newSession(cfg, "")
		if err != nil {
			return err
		}
		rec, ok := session.History.Get(args[0])
		if !ok {
			return fmt.Errorf("no history record %q", args[0])
		}
		out, err := json.MarshalIndent(rec, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 0, "Show at most this many records (0 = all)")
	historyCmd.AddCommand(historyShowCmd)
	rootCmd.AddCommand(historyCmd)
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/user/verity-adk/pkg/config"
	"github.com/user/verity-adk/pkg/engine"
)

var renderCmd = &cobra.Command{
	Use:   "render [payload.json|-]",
	Short: "Normalize a payload and render it as a PDF report",
	Long: `Normalizes a raw analysis payload and writes a paginated PDF report.
With --id, re-renders a finding from the history instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		outDir, _ := cmd.Flags().GetString("output-dir")
		session, err := newSession(cfg, outDir)
		if err != nil {
			return err
		}

		var f engine.Finding
		if id, _ := cmd.Flags().GetString("id"); id != "" {
			rec, ok := session.History.Get(id)
			if !ok {
				return fmt.Errorf("no history record %q", id)
			}
			f = rec.Finding
		} else {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			data, err := readInput(name)
			if err != nil {
				return fmt.Errorf("read payload: %w", err)
			}
			files, _ := cmd.Flags().GetStringSlice("files")
			if f, err = session.Normalize(data, files); err != nil {
				return err
			}
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

func init() {
	renderCmd.Flags().StringSliceP("files", "f", nil, "Uploaded file names, used when the payload names none")
	renderCmd.Flags().StringP("output-dir", "o", "", "Directory for the PDF (default from config)")
	renderCmd.Flags().String("id", "", "Re-render a history record instead of reading a payload")
	rootCmd.AddCommand(renderCmd)
}

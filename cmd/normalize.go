package cmd

import (
	"fmt"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/user/verity-adk/pkg/engine"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var normalizeCmd = &cobra.Command{
	Use:   "normalize [payload.json|-]",
	Short: "Normalize a raw analysis payload into a canonical finding",
	Long: `Reads a raw analysis result (single file, legacy batch or unified batch)
and prints the canonical finding as JSON. Reads stdin when no file is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := ""
		if len(args) == 1 {
			name = args[0]
		}
		data, err := readInput(name)
		if err != nil {
			return fmt.Errorf("read payload: %w", err)
		}

		files, _ := cmd.Flags().GetStringSlice("files")
		f, err := engine.NewNormalizer(log).Normalize(data, files)
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(f, "", "  ")
		if err != nil {
			return err
		}
		if summary, _ := cmd.Flags().GetBool("summary"); summary {
			printFinding(os.Stderr, f)
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	normalizeCmd.Flags().StringSliceP("files", "f", nil, "Uploaded file names, used when the payload names none")
	normalizeCmd.Flags().Bool("summary", false, "Also print a coloured summary to stderr")
	rootCmd.AddCommand(normalizeCmd)
}

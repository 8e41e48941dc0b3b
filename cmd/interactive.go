package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/user/verity-adk/pkg/adk"
	"github.com/user/verity-adk/pkg/config"
	"github.com/user/verity-adk/pkg/wrappers"
)

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Start the interactive agent session",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig()
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			return
		}

		ctx := context.Background()
		fmt.Printf("Connecting to %s (Model: %s)...\n", cfg.SelectedProvider, cfg.SelectedModel)
		provider, closeProvider, err := openProvider(ctx, cfg)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		defer closeProvider()

		session, err := newSession(cfg, "")
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		agent := adk.NewAgent(provider, log)
		agent.RegisterTool(&wrappers.NormalizeWrapper{Session: session})
		agent.RegisterTool(&wrappers.RenderWrapper{Session: session})
		agent.RegisterTool(&wrappers.HistoryWrapper{Session: session})
		agent.SetSystemPrompt(adk.GetSystemPrompt())

		scanner := bufio.NewScanner(os.Stdin)
		scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
		fmt.Println("\n---------------------------------------------------------")
		fmt.Println("Verity-ADK Agent Initialized. Ready for commands.")
		fmt.Println("Example: 'Normalize this payload: {\"score\": 42, ...}'")
		fmt.Println("Example: 'Render a report for the last finding'")
		fmt.Println("Type 'quit' or 'exit' to stop.")
		fmt.Println("---------------------------------------------------------")

		for {
			fmt.Print("\n> ")
			if !scanner.Scan() {
				break
			}
			input := scanner.Text()
			if input == "quit" || input == "exit" {
				break
			}
			if input == "" {
				continue
			}

			fmt.Print("Agent thinking... ")
			resp, err := agent.Chat(ctx, input, func(msg string) {
				fmt.Printf("\r\033[K[Progress]: %s\nAgent thinking... ", msg)
			})
			fmt.Print("\r\033[K")

			if err != nil {
				fmt.Printf("Error: %v\n", err)
			} else {
				fmt.Printf("\n[Agent]: %s\n", resp)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}

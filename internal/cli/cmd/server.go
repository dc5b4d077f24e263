package cmd

import (
	"fmt"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Inspect the configured servers",
}

var serverResolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Probe the primary and fallback URLs and print the first reachable one",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Candidates:")
		for i, u := range Container.Client.Candidates() {
			fmt.Printf("  %d. %s\n", i+1, u)
		}
		url, err := Container.Client.Resolve(cmd.Context())
		if err != nil {
			fatal("Cannot reach server", err)
		}
		fmt.Printf("Reachable: %s\n", url)
	},
}

var serverOpenCmd = &cobra.Command{
	Use:   "open",
	Short: "Open the first reachable server in a browser",
	Run: func(cmd *cobra.Command, args []string) {
		url, err := Container.Client.Resolve(cmd.Context())
		if err != nil {
			fatal("Cannot reach server", err)
		}
		if err := browser.OpenURL(url); err != nil {
			fatal("Error opening browser", err)
		}
		fmt.Printf("Opened %s\n", url)
	},
}

func init() {
	serverCmd.AddCommand(serverResolveCmd, serverOpenCmd)
	RootCmd.AddCommand(serverCmd)
}

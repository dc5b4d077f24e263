package cmd

import (
	"context"
	"fmt"

	"assetmobile/internal/auth"
	"assetmobile/internal/cli/ui"
	"assetmobile/internal/domain"

	"github.com/spf13/cobra"
)

var menuPlain bool

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Show the modules your role can open",
	Run: func(cmd *cobra.Command, args []string) {
		if menuPlain {
			printMenu(restore(cmd.Context()))
			return
		}
		runMenu(cmd.Context())
	},
}

var accessCmd = &cobra.Command{
	Use:   "access [appId] [level]",
	Short: "Check whether your role reaches an access level for a module",
	Args:  cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		level := domain.AccessDisplay
		if len(args) > 1 {
			level = domain.ParseAccessLevel(args[1])
		}
		handleAccess(cmd.Context(), args[0], level)
	},
}

func init() {
	menuCmd.Flags().BoolVar(&menuPlain, "plain", false, "Print the menu instead of opening the interactive view")
	RootCmd.AddCommand(menuCmd, accessCmd)
}

func runMenu(ctx context.Context) {
	state := restore(ctx)
	choice, err := ui.RunMenu(state, func() (*auth.State, error) {
		return Container.Auth.Restore(ctx)
	})
	if err != nil {
		fatal("Error running menu", err)
	}
	if choice != nil {
		fmt.Printf("Selected: %s (%s)\n", choice.Label, choice.AppID)
	}
}

func printMenu(state *auth.State) {
	if state.NavigationErr != nil {
		fmt.Printf("Menu unavailable: %v\n", state.NavigationErr)
		return
	}
	if len(state.Menu) == 0 {
		fmt.Println("No modules are available for your role.")
		return
	}
	fmt.Println("\n--- MENU ---")
	for _, e := range state.Menu {
		fmt.Printf("- %-28s %-20s [%s]\n", e.Label, e.AppID, e.AccessLevel)
	}
}

func handleAccess(ctx context.Context, appID string, level domain.AccessLevel) {
	restore(ctx)
	if err := Container.Navigation.Require(appID, level); err != nil {
		fmt.Printf("No: %v\n", err)
		return
	}
	fmt.Printf("Yes: %s at level %s\n", appID, level)
}

// requireAccess gates a screen action on the loaded navigation set.
func requireAccess(ctx context.Context, appID string, level domain.AccessLevel) {
	restore(ctx)
	if err := Container.Navigation.Require(appID, level); err != nil {
		fatal("Not permitted", err)
	}
}

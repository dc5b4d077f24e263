package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"assetmobile/internal/auth"
	"assetmobile/internal/session"
	"assetmobile/pkg/sdk"

	"github.com/spf13/cobra"
)

var loginEmail, loginPassword string
var logoutAll bool

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and load your menu",
	Run: func(cmd *cobra.Command, args []string) {
		password := loginPassword
		if password == "" {
			password = os.Getenv("ASSETMOBILE_PASSWORD")
		}
		handleLogin(cmd.Context(), loginEmail, password)
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out (language preference is kept)",
	Run: func(cmd *cobra.Command, args []string) {
		handleLogout(cmd.Context())
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Run: func(cmd *cobra.Command, args []string) {
		handleWhoami(cmd.Context())
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Account password (or ASSETMOBILE_PASSWORD)")
	loginCmd.MarkFlagRequired("email")

	logoutCmd.Flags().BoolVar(&logoutAll, "all", false, "Also forget push-notification registration")

	RootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd)
}

func handleLogin(ctx context.Context, email, password string) {
	state, err := Container.Auth.Login(ctx, email, password)
	if err != nil {
		switch {
		case sdk.IsUnauthorized(err):
			fatal("Login rejected", err)
		case errors.Is(err, sdk.ErrNoServerReachable):
			fatal("Cannot reach server", err)
		default:
			fatal("Error logging in", err)
		}
	}

	fmt.Printf("Signed in as %s\n", displayName(state))
	if state.NavigationErr != nil {
		fmt.Printf("Warning: menu unavailable: %v\n", state.NavigationErr)
		return
	}
	printMenu(state)
}

func handleLogout(ctx context.Context) {
	var err error
	if logoutAll {
		err = Container.Auth.Wipe(ctx)
	} else {
		err = Container.Auth.Logout(ctx)
	}
	if err != nil {
		fatal("Error logging out", err)
	}
	fmt.Println("Signed out.")
}

func handleWhoami(ctx context.Context) {
	profile, err := Container.Session.UserData(ctx)
	if err != nil {
		fatal("Error reading session", err)
	}
	token, err := Container.Session.Token(ctx)
	if err != nil {
		fatal("Error reading session", err)
	}
	if token == "" {
		fmt.Println("Not signed in.")
		return
	}
	lang, _ := Container.Session.Language(ctx)

	fmt.Println("\n--- SESSION ---")
	fmt.Printf("Name:      %s\n", profile.Name())
	fmt.Printf("Email:     %s\n", profile.Email())
	fmt.Printf("Role:      %s\n", profile.Role())
	fmt.Printf("Job role:  %s\n", profile.JobRoleID())
	fmt.Printf("Language:  %s\n", lang)
	if exp, ok := auth.TokenExpiry(token); ok {
		status := "valid"
		if time.Now().After(exp) {
			status = "expired"
		}
		fmt.Printf("Token:     %s until %s (not verified locally)\n", status, exp.Format(time.RFC1123))
	}
}

func displayName(state *auth.State) string {
	if name := state.Profile.Name(); name != "" {
		return name
	}
	if email := state.Profile.Email(); email != "" {
		return email
	}
	return "unknown user"
}

// restore loads the persisted session and menu, exiting when signed out.
func restore(ctx context.Context) *auth.State {
	state, err := Container.Auth.Restore(ctx)
	if errors.Is(err, session.ErrNotAuthenticated) {
		fatal("Not signed in, run 'assetmobile login'", err)
	}
	if err != nil {
		fatal("Error restoring session", err)
	}
	return state
}

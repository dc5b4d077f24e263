package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var languageCmd = &cobra.Command{
	Use:   "language",
	Short: "Manage the language preference",
}

var languageGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the current language",
	Run: func(cmd *cobra.Command, args []string) {
		lang, err := Container.Session.Language(cmd.Context())
		if err != nil {
			fatal("Error reading language", err)
		}
		fmt.Println(lang)
	},
}

var languageSetCmd = &cobra.Command{
	Use:   "set [code]",
	Short: "Set the language",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := Container.Session.SetLanguage(cmd.Context(), args[0]); err != nil {
			fatal("Error setting language", err)
		}
		fmt.Printf("Language set to %s\n", args[0])
	},
}

var languageWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow language changes until interrupted",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		w, err := Container.WatchLanguage(ctx, func(lang string) {
			fmt.Printf("Language changed: %s\n", lang)
		})
		if err != nil {
			fatal("Error starting language watcher", err)
		}
		fmt.Printf("Watching language (current: %s), Ctrl+C to stop\n", w.Current())
		<-ctx.Done()
		w.Stop()
	},
}

func init() {
	languageCmd.AddCommand(languageGetCmd, languageSetCmd, languageWatchCmd)
	RootCmd.AddCommand(languageCmd)
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/crosspub/crosspub/pkg/sessionstore"
	"github.com/crosspub/crosspub/pkg/workflow"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Inspect and manage persisted login sessions",
}

var sessionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List persisted sessions and their validity",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		store, err := sessionstore.New(cfg.Session.StateDir)
		if err != nil {
			return err
		}

		platforms, err := store.List()
		if err != nil {
			return err
		}
		if len(platforms) == 0 {
			fmt.Fprintln(os.Stdout, "no persisted sessions")
			return nil
		}
		for _, platform := range platforms {
			state, err := store.Load(platform)
			if err != nil {
				fmt.Fprintf(os.Stdout, "%-12s unreadable: %v\n", platform, err)
				continue
			}
			status := "expired"
			if store.IsValid(platform, cfg.SessionExpiry(platform)) {
				status = "valid"
			}
			fmt.Fprintf(os.Stdout, "%-12s %-8s saved %s (%d cookies)\n",
				platform, status, state.SavedAt.Format("2006-01-02 15:04"), len(state.Cookies))
		}
		return nil
	},
}

var sessionClearCmd = &cobra.Command{
	Use:   "clear <platform>",
	Short: "Remove a platform's persisted session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		store, err := sessionstore.New(cfg.Session.StateDir)
		if err != nil {
			return err
		}
		if err := store.Clear(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "session for %s cleared\n", args[0])
		return nil
	},
}

var platformsCmd = &cobra.Command{
	Use:   "platforms",
	Short: "List supported platforms",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range workflow.Names() {
			fmt.Fprintln(os.Stdout, name)
		}
	},
}

func init() {
	sessionCmd.AddCommand(sessionListCmd)
	sessionCmd.AddCommand(sessionClearCmd)
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(platformsCmd)
}

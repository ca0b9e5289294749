package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/crosspub/crosspub/pkg/browser"
	"github.com/crosspub/crosspub/pkg/sessionstore"
	"github.com/crosspub/crosspub/pkg/workflow"
)

var loginCmd = &cobra.Command{
	Use:   "login <platform>",
	Short: "Log in to a platform interactively and persist the session",
	Long: `Open the platform's entry page in a browser, wait for you to complete
the login by hand, then persist the resulting session so future publish
runs stay authenticated.`,
	Args: cobra.ExactArgs(1),
	RunE: runLogin,
}

func init() {
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	platform := args[0]
	def, err := workflow.Get(platform)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	store, err := sessionstore.New(cfg.Session.StateDir)
	if err != nil {
		return err
	}

	mgr := browser.NewManager()
	if err := mgr.Initialize(); err != nil {
		return err
	}
	defer mgr.Shutdown()

	handle, err := mgr.Acquire(cmd.Context(), browser.AcquireOptions{
		PreferExisting: true,
		DebugEndpoint:  cfg.Browser.DebugAddress,
		ProfileDir:     cfg.Browser.ProfileDir,
		InstanceKey:    platform,
		// Interactive login needs a visible window.
		Headless: false,
		Attempts: cfg.Browser.AcquireAttempts,
	})
	if err != nil {
		return fmt.Errorf("acquire browser session: %w", err)
	}
	defer handle.Close()

	fmt.Fprintf(os.Stdout, "Complete the %s login in the browser window...\n", platform)

	engine := workflow.NewEngine(cfg, store)
	if err := engine.Login(cmd.Context(), handle, def); err != nil {
		return fmt.Errorf("%s login: %w", platform, err)
	}

	fmt.Fprintf(os.Stdout, "Session for %s saved (valid %s).\n",
		platform, cfg.SessionExpiry(platform))
	return nil
}

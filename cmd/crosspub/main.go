// Package main provides the crosspub command line tool: publish a video
// and its metadata to multiple content platforms in one run by driving a
// Chromium browser.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/crosspub/crosspub/pkg/config"
)

const version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:     "crosspub",
	Short:   "Publish a video to multiple content platforms through a browser",
	Version: version,
	Long: `crosspub drives a Chromium browser to publish one video, with its
title, description, and tags, to several content platforms in a single run.

It attaches to an already running browser (remote debugging) when one is
available, or launches its own instance with a dedicated profile. Login
sessions are persisted per platform so repeated runs stay authenticated.

Examples:
  # Publish to two platforms
  crosspub publish -i clip.mp4 --title "Demo" --platforms douyin,bilibili

  # Pre-seed a login session interactively
  crosspub login douyin

  # Inspect persisted sessions
  crosspub session list`,
}

// exitCode is set by subcommands that distinguish partial outcomes.
var exitCode int

func init() {
	rootCmd.PersistentFlags().String("config", "", "Config file path (default ~/.crosspub/config.yaml)")
}

// loadConfig resolves the config for a command, honoring the --config
// flag, then CROSSPUB_* environment variables, then built-in defaults.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return config.Load(path)
}

func main() {
	// Optional; a missing .env file is the normal case.
	_ = godotenv.Load()

	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\ninterrupted, shutting down...")
		cancel()
	}()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	os.Exit(exitCode)
}

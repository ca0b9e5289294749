package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/crosspub/crosspub/pkg/publisher"
	"github.com/crosspub/crosspub/pkg/workflow"
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish a video to one or more platforms",
	Long: fmt.Sprintf(`Publish a video file with its metadata to the given platforms.

Each platform is attempted independently: one platform failing does not
stop the others. The exit code reflects the aggregate outcome:
  0  every platform succeeded
  1  some platforms succeeded, some failed
  2  every platform failed

Supported platforms:
%s
Example:
  crosspub publish -i clip.mp4 --title "Demo" --tags demo,golang --platforms douyin,bilibili`,
		formatPlatforms()),
	RunE: runPublish,
}

func init() {
	publishCmd.Flags().StringP("input", "i", "", "Video file to publish")
	publishCmd.Flags().String("title", "", "Video title")
	publishCmd.Flags().String("desc", "", "Video description")
	publishCmd.Flags().StringSlice("tags", nil, "Comma-separated tags")
	publishCmd.Flags().String("cover", "", "Cover image file (optional)")
	publishCmd.Flags().StringSlice("platforms", nil, "Comma-separated target platforms (default: all)")
	publishCmd.Flags().Bool("parallel", false, "Run platform workflows concurrently")
	publishCmd.Flags().Bool("simulate", false, "Skip browser work and report synthetic successes")

	publishCmd.MarkFlagRequired("input")
	publishCmd.MarkFlagRequired("title")

	rootCmd.AddCommand(publishCmd)
}

func formatPlatforms() string {
	var sb strings.Builder
	for _, name := range workflow.Names() {
		sb.WriteString(fmt.Sprintf("  - %s\n", name))
	}
	return sb.String()
}

func runPublish(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// Flags override environment and file settings.
	if parallel, _ := cmd.Flags().GetBool("parallel"); parallel {
		cfg.Publish.Parallel = true
	}
	if simulate, _ := cmd.Flags().GetBool("simulate"); simulate {
		cfg.Publish.Simulate = true
	}

	input, _ := cmd.Flags().GetString("input")
	title, _ := cmd.Flags().GetString("title")
	desc, _ := cmd.Flags().GetString("desc")
	tags, _ := cmd.Flags().GetStringSlice("tags")
	cover, _ := cmd.Flags().GetString("cover")
	platforms, _ := cmd.Flags().GetStringSlice("platforms")
	if len(platforms) == 0 {
		platforms = workflow.Names()
	}

	pub, err := publisher.New(cfg)
	if err != nil {
		return err
	}
	defer pub.Close()

	agg, err := pub.Publish(cmd.Context(), publisher.Request{
		VideoPath:   input,
		Title:       title,
		Description: desc,
		Tags:        tags,
		CoverPath:   cover,
		Platforms:   platforms,
	})
	if err != nil {
		return err
	}

	printAggregate(agg)
	switch agg.Status {
	case publisher.AllSucceeded:
		exitCode = 0
	case publisher.PartialSuccess:
		exitCode = 1
	default:
		exitCode = 2
	}
	return nil
}

func printAggregate(agg *publisher.Aggregate) {
	for _, r := range agg.Results {
		mark := "FAIL"
		if r.Success {
			mark = "OK"
			if r.Qualified {
				mark = "OK?"
			}
		}
		line := fmt.Sprintf("%-4s %-12s %s", mark, r.Platform, r.Message)
		if r.RemoteURL != "" {
			line += " (" + r.RemoteURL + ")"
		}
		fmt.Fprintln(os.Stdout, line)
	}
	fmt.Fprintf(os.Stdout, "\n%d/%d platforms succeeded (%s)\n",
		agg.SuccessCount, agg.TotalCount, agg.Status)
}

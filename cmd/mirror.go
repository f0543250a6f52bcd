package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"unilist/feature/universities/fetcher"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	mirrorOverwrite   bool
	mirrorDryRun      bool
	mirrorYes         bool
	mirrorConcurrency int
)

// mirrorCmd copies the HTTP source into the storage bucket.
var mirrorCmd = &cobra.Command{
	Use:   "mirror",
	Short: "Copy every page from the HTTP source into object storage",
	Long: `Downloads every page document from the HTTP source and uploads it to the
storage bucket, so SOURCE_KIND=storage can serve the list without the upstream.

Examples:
  # Upload pages missing from the bucket
  mirror

  # Show what would be uploaded
  mirror --dry-run

  # Replace every mirrored page (asks for confirmation)
  mirror --overwrite`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap()
		if err != nil {
			return err
		}
		defer rt.close()

		src, err := fetcher.NewHTTPFetcher(rt.cfg.Source)
		if err != nil {
			return err
		}

		if mirrorOverwrite && !mirrorDryRun && !confirmOverwrite(rt.cfg.Storage.Bucket) {
			rt.logger.Warn("Operation cancelled by user. No changes were made.")
			return nil
		}

		report, err := fetcher.Mirror(cmd.Context(), src, rt.storage, fetcher.MirrorOptions{
			Bucket:      rt.cfg.Storage.Bucket,
			Region:      rt.cfg.Storage.Region,
			Prefix:      rt.cfg.Source.Prefix,
			Pattern:     rt.cfg.Source.PagePattern,
			Overwrite:   mirrorOverwrite,
			DryRun:      mirrorDryRun,
			Concurrency: mirrorConcurrency,
		}, rt.logger)
		if err != nil {
			return fmt.Errorf("mirror failed: %w", err)
		}

		if report.DryRun {
			for _, name := range report.Uploaded {
				rt.logger.Info("Would upload", zap.String("object", name))
			}
			rt.logger.Info("Dry-run mode: No changes were made.")
		}
		return nil
	},
}

func init() {
	mirrorCmd.Flags().BoolVar(&mirrorOverwrite, "overwrite", false, "Re-upload pages already in the bucket")
	mirrorCmd.Flags().BoolVar(&mirrorDryRun, "dry-run", false, "Report without uploading")
	mirrorCmd.Flags().BoolVar(&mirrorYes, "yes", false, "Auto-confirm --overwrite (non-interactive)")
	mirrorCmd.Flags().IntVar(&mirrorConcurrency, "concurrency", 4, "Parallel page downloads")
	RootCmd.AddCommand(mirrorCmd)
}

// confirmOverwrite prompts the user for confirmation or uses --yes.
func confirmOverwrite(bucket string) bool {
	if mirrorYes {
		fmt.Println("Auto-confirmed via --yes flag")
		return true
	}

	fmt.Printf("Type 'yes' to overwrite the pages in bucket %s: ", bucket)
	response, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	return strings.TrimSpace(response) == "yes"
}

package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"unilist/feature/integrity"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	fixFlag  bool
	jsonFlag bool
)

// integrityCmd runs every check.
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Check the page source, mirror bucket, favorites schema and cache",
	Long:  `Runs every integrity check. Use a subcommand to run a single one.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrity(cmd.Context(), checkAll)
	},
}

var sourceCheckCmd = &cobra.Command{
	Use:   "source",
	Short: "Fetch the first page from the configured source",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrity(cmd.Context(), checkSource)
	},
}

var pagesCheckCmd = &cobra.Command{
	Use:   "pages",
	Short: "Check the pages mirrored into object storage",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrity(cmd.Context(), checkPages)
	},
}

var schemaCheckCmd = &cobra.Command{
	Use:   "schema",
	Short: "Check the favorites table schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrity(cmd.Context(), checkSchema)
	},
}

var cacheCheckCmd = &cobra.Command{
	Use:   "cache",
	Short: "Ping the redis server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrity(cmd.Context(), checkCache)
	},
}

type integrityCheck int

const (
	checkSource integrityCheck = 1 << iota
	checkPages
	checkSchema
	checkCache

	checkAll = checkSource | checkPages | checkSchema | checkCache
)

func init() {
	RootCmd.AddCommand(integrityCmd)
	integrityCmd.AddCommand(sourceCheckCmd, pagesCheckCmd, schemaCheckCmd, cacheCheckCmd)

	pagesCheckCmd.Flags().BoolVar(&fixFlag, "fix", false, "Create the bucket when missing")
	schemaCheckCmd.Flags().BoolVar(&fixFlag, "fix", false, "Migrate the favorites table")
	integrityCmd.PersistentFlags().BoolVar(&jsonFlag, "json", false, "Save the reports as JSON")
}

func runIntegrity(ctx context.Context, which integrityCheck) error {
	if ctx == nil {
		ctx = context.Background()
	}

	rt, err := bootstrap()
	if err != nil {
		return err
	}
	defer rt.close()
	logg := rt.logger

	pages, err := rt.fetcher()
	if err != nil {
		return err
	}

	svc := integrity.NewService(integrity.Deps{
		Storage:       rt.storage,
		StorageConfig: rt.cfg.Storage,
		Source:        rt.cfg.Source,
		Fetcher:       pages,
		DB:            rt.db,
		Redis:         rt.redis,
	}, logg)

	reports := map[string]any{}
	failed := false

	if which&checkSource != 0 {
		logg.Info("Checking page source...", zap.String("kind", rt.cfg.Source.Kind))
		report := svc.CheckSource(ctx)
		reports["source"] = report
		if report.Reachable {
			logg.Info("Page source is reachable.",
				zap.Int("total_pages", report.TotalPages),
				zap.Int("provinces", report.Provinces),
				zap.Int("universities", report.Universities),
				zap.Int64("latency_ms", report.LatencyMs),
			)
		} else {
			failed = true
			logg.Error("Page source is unreachable", zap.String("kind", report.ErrorKind), zap.String("error", report.Error))
		}
	}

	if which&checkPages != 0 {
		logg.Info("Checking mirrored pages...", zap.String("bucket", rt.cfg.Storage.Bucket))
		if which == checkPages && fixFlag {
			if err := svc.FixBucket(ctx); err != nil {
				return fmt.Errorf("failed to fix bucket: %w", err)
			}
		}
		report, err := svc.CheckPages(ctx)
		switch {
		case err != nil:
			failed = true
			logg.Error("Pages check failed", zap.Error(err))
			if which == checkPages && !fixFlag {
				logg.Info("Run with --fix to create the bucket, then 'mirror' to upload the pages.")
			}
		case len(report.Missing) == 0:
			reports["pages"] = report
			logg.Info("All pages are mirrored.", zap.Int("pages", report.Found))
		default:
			reports["pages"] = report
			failed = true
			logg.Warn("Missing pages detected", zap.Strings("missing", report.Missing))
			logg.Info("Run 'mirror' to upload the missing pages.")
		}
		if report != nil && len(report.Unexpected) > 0 {
			logg.Warn("Unexpected objects under the page prefix", zap.Strings("objects", report.Unexpected))
		}
	}

	if which&checkSchema != 0 {
		logg.Info("Checking favorites schema...", zap.String("driver", rt.cfg.Database.Driver))
		if which == checkSchema && fixFlag {
			if err := svc.FixSchema(); err != nil {
				return fmt.Errorf("failed to fix schema: %w", err)
			}
			logg.Info("Favorites table migrated.")
		}
		report, err := svc.CheckSchema()
		if err != nil {
			failed = true
			logg.Error("Schema check failed", zap.Error(err))
		} else {
			reports["schema"] = report
			if report.Matched {
				logg.Info("Favorites schema matches the model.")
			} else {
				failed = true
				logg.Warn("Favorites schema mismatches found")
				for table, tbl := range report.Tables {
					if tbl.Status == "ok" {
						continue
					}
					if len(tbl.MissingColumns) > 0 {
						logg.Warn("Missing Columns", zap.String("table", table), zap.Strings("columns", tbl.MissingColumns))
					}
					if len(tbl.TypeMismatches) > 0 {
						logg.Warn("Type Mismatches", zap.String("table", table), zap.Strings("mismatches", tbl.TypeMismatches))
					}
				}
				for _, e := range report.Errors {
					logg.Error("Inspection Error", zap.String("error", e))
				}
				if which == checkSchema && !fixFlag {
					logg.Info("Run with --fix to migrate the favorites table.")
				}
			}
		}
	}

	if which&checkCache != 0 {
		logg.Info("Checking redis...")
		report := svc.CheckCache(ctx)
		reports["cache"] = report
		if report.Reachable {
			logg.Info("Redis is reachable.", zap.Int64("latency_ms", report.LatencyMs))
		} else if which == checkCache {
			failed = true
			logg.Error("Redis is unreachable", zap.String("error", report.Error))
		} else {
			logg.Warn("Redis is unreachable", zap.String("error", report.Error))
		}
	}

	if jsonFlag {
		filename := fmt.Sprintf("integrity_%d.json", time.Now().Unix())
		data, err := json.MarshalIndent(reports, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		if err := os.WriteFile(filename, data, 0644); err != nil {
			return fmt.Errorf("failed to save JSON file: %w", err)
		}
		logg.Info("Detailed JSON report saved", zap.String("file", filename))
	}

	if failed {
		return fmt.Errorf("integrity checks reported problems")
	}
	return nil
}

package fetcher

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"unilist/core/storage"
	"unilist/feature/universities/models"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// MirrorOptions configures a copy of the source into object storage.
type MirrorOptions struct {
	Bucket  string
	Region  string
	Prefix  string
	Pattern string
	// Overwrite re-uploads pages already present in the bucket.
	Overwrite bool
	// DryRun reports what would be uploaded without writing.
	DryRun bool
	// Concurrency bounds parallel page downloads. Values below 1 mean 4.
	Concurrency int
}

// MirrorReport summarizes a mirror run.
type MirrorReport struct {
	TotalPages int      `json:"total_pages"`
	Uploaded   []string `json:"uploaded"`
	Skipped    []string `json:"skipped"`
	DryRun     bool     `json:"dry_run"`
}

// Mirror copies every page of src into the bucket so a StorageFetcher can
// serve them. The first page tells how many pages exist.
func Mirror(ctx context.Context, src Fetcher, client storage.Client, opts MirrorOptions, logger *zap.Logger) (*MirrorReport, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Pattern == "" {
		opts.Pattern = "page-%d.json"
	}
	limit := opts.Concurrency
	if limit < 1 {
		limit = 4
	}

	first, err := src.Fetch(ctx, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch first page: %w", err)
	}
	total := first.TotalPages
	if total < 1 {
		total = 1
	}

	if !opts.DryRun {
		if err := storage.EnsureBucket(ctx, client, opts.Bucket, opts.Region); err != nil {
			return nil, err
		}
	}

	existing := map[string]struct{}{}
	if !opts.Overwrite {
		keys, err := storage.ListKeys(ctx, client, opts.Bucket, opts.Prefix)
		if err != nil && !opts.DryRun {
			return nil, fmt.Errorf("failed to list mirrored pages: %w", err)
		}
		for _, k := range keys {
			existing[k] = struct{}{}
		}
	}

	report := &MirrorReport{TotalPages: total, Uploaded: []string{}, Skipped: []string{}, DryRun: opts.DryRun}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for page := 1; page <= total; page++ {
		name := ObjectName(opts.Prefix, opts.Pattern, page)
		if _, ok := existing[name]; ok {
			report.Skipped = append(report.Skipped, name)
			continue
		}
		if opts.DryRun {
			report.Uploaded = append(report.Uploaded, name)
			continue
		}

		g.Go(func() error {
			resp := first
			if page != 1 {
				var err error
				if resp, err = src.Fetch(gctx, page); err != nil {
					return fmt.Errorf("failed to fetch page %d: %w", page, err)
				}
			}
			if err := upload(gctx, client, opts.Bucket, name, resp); err != nil {
				return err
			}
			logger.Debug("Page mirrored", zap.Int("page", page), zap.String("object", name))

			mu.Lock()
			report.Uploaded = append(report.Uploaded, name)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Strings(report.Uploaded)
	logger.Info("Mirror finished",
		zap.Int("total_pages", total),
		zap.Int("uploaded", len(report.Uploaded)),
		zap.Int("skipped", len(report.Skipped)),
		zap.Bool("dry_run", opts.DryRun),
	)
	return report, nil
}

func upload(ctx context.Context, client storage.Client, bucket, name string, page *models.PageResponse) error {
	data, err := json.Marshal(page)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}
	return storage.WriteObject(ctx, client, bucket, name, data)
}

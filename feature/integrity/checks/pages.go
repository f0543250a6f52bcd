package checks

import (
	"context"
	"fmt"

	"unilist/core/storage"
	"unilist/feature/universities/fetcher"

	"go.uber.org/zap"
)

// PagesReport lists the page documents missing from the bucket.
type PagesReport struct {
	Bucket     string   `json:"bucket"`
	Expected   int      `json:"expected"`
	Found      int      `json:"found"`
	Missing    []string `json:"missing"`
	Unexpected []string `json:"unexpected"`
}

// CheckPages verifies that pages 1..total are mirrored under prefix.
func CheckPages(ctx context.Context, client storage.Client, bucket, prefix, pattern string, total int) (*PagesReport, error) {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %s does not exist", bucket)
	}

	keys, err := storage.ListKeys(ctx, client, bucket, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list pages: %w", err)
	}

	present := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		present[k] = struct{}{}
	}

	report := &PagesReport{Bucket: bucket, Expected: total, Missing: []string{}, Unexpected: []string{}}
	expected := make(map[string]struct{}, total)
	for page := 1; page <= total; page++ {
		name := fetcher.ObjectName(prefix, pattern, page)
		expected[name] = struct{}{}
		if _, ok := present[name]; ok {
			report.Found++
			continue
		}
		report.Missing = append(report.Missing, name)
	}
	for _, k := range keys {
		if _, ok := expected[k]; !ok {
			report.Unexpected = append(report.Unexpected, k)
		}
	}
	return report, nil
}

// FixBucket creates the bucket when it is missing.
func FixBucket(ctx context.Context, client storage.Client, bucket, region string, logger *zap.Logger) error {
	if err := storage.EnsureBucket(ctx, client, bucket, region); err != nil {
		logger.Error("Failed to create bucket", zap.String("bucket", bucket), zap.Error(err))
		return err
	}
	logger.Info("Bucket ready", zap.String("bucket", bucket))
	return nil
}

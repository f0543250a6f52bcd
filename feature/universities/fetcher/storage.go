package fetcher

import (
	"context"
	"net/http"
	"path"

	"unilist/core/storage"
	"unilist/feature/universities/models"

	"github.com/minio/minio-go/v7"
)

// StorageFetcher reads page documents mirrored into an object storage bucket.
type StorageFetcher struct {
	client  storage.Client
	bucket  string
	prefix  string
	pattern string
}

// NewStorageFetcher creates a fetcher reading <prefix><pattern> objects.
func NewStorageFetcher(client storage.Client, bucket, prefix, pattern string) *StorageFetcher {
	if pattern == "" {
		pattern = "page-%d.json"
	}
	return &StorageFetcher{client: client, bucket: bucket, prefix: prefix, pattern: pattern}
}

// ObjectName returns the object key of page.
func (f *StorageFetcher) ObjectName(page int) string {
	return ObjectName(f.prefix, f.pattern, page)
}

// ObjectName joins prefix and the rendered page name.
func ObjectName(prefix, pattern string, page int) string {
	name := PageName(pattern, page)
	if prefix == "" {
		return name
	}
	return path.Join(prefix, name)
}

// Fetch downloads and decodes page.
func (f *StorageFetcher) Fetch(ctx context.Context, page int) (*models.PageResponse, error) {
	body, err := storage.ReadObject(ctx, f.client, f.bucket, f.ObjectName(page))
	if err != nil {
		return nil, classifyStorage(page, err)
	}
	return decode(page, body)
}

func classifyStorage(page int, err error) *Error {
	resp := minio.ToErrorResponse(err)
	switch {
	case resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket":
		return newError(KindNoData, page, err)
	case resp.Code == "InvalidBucketName" || resp.Code == "XMinioInvalidObjectName":
		return newError(KindInvalidURL, page, err)
	case resp.StatusCode >= http.StatusInternalServerError:
		return newError(KindServer, page, err)
	case resp.StatusCode >= http.StatusBadRequest:
		return newError(KindServer, page, err)
	}
	return classifyTransport(page, err)
}

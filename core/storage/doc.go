// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client so the page documents of the university source
// can be mirrored into, and served from, an S3 compatible bucket.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it
// easy to mock storage interactions for unit testing (see core/storage/mocks).
//
// # Helpers
//
//   - EnsureBucket: creates the bucket on first use.
//   - ReadObject / WriteObject: whole-object JSON transfers.
//   - ListKeys: flattens a recursive listing into keys.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	data, err := storage.ReadObject(ctx, client, cfg.Storage.Bucket, "page-1.json")
package storage

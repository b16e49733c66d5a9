// Package storage provides an abstraction layer for the object storage
// service finished reports can be uploaded to.
//
// It wraps the MinIO Go client behind a small Client interface so upload
// interactions can be mocked in unit tests (see core/storage/mocks). The
// abstraction supports both AWS S3 and self-hosted MinIO instances.
//
// # Operations
//
//   - BucketExists: verifies access to the target bucket.
//   - MakeBucket: creates the bucket on first use.
//   - PutObject: uploads the report CSV.
package storage

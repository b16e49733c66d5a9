package compare

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"es-diff/core/storage"

	"github.com/minio/minio-go/v7"
)

// UploadReport pushes a finished report CSV to object storage under
// reports/<runID>/<basename>. The bucket is created on first use.
func UploadReport(ctx context.Context, client storage.Client, bucket, runID, path string) (string, error) {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return "", fmt.Errorf("failed to check bucket %q: %w", bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return "", fmt.Errorf("failed to create bucket %q: %w", bucket, err)
		}
	}

	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open report: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat report: %w", err)
	}

	objectName := fmt.Sprintf("reports/%s/%s", runID, filepath.Base(path))
	_, err = client.PutObject(ctx, bucket, objectName, file, info.Size(), minio.PutObjectOptions{
		ContentType: "text/csv",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload report: %w", err)
	}
	return objectName, nil
}

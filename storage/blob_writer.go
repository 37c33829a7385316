package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	gcs "cloud.google.com/go/storage"
	"go.uber.org/zap"

	"carline-cleanup/utils"
)

// GCSUploader copies the finished training file into a bucket. Filenames are
// timestamp-unique per run, so overwrite-on-conflict semantics are fine.
type GCSUploader struct {
	bucket *gcs.BucketHandle
	retry  *utils.RetryConfig
	logger *zap.Logger
}

// NewGCSUploader creates an uploader for the given bucket. maxRetries and
// baseDelay control the retried local file open, not the network transfer:
// the writer handle was just closed and some platforms release the lock late.
func NewGCSUploader(client *gcs.Client, bucket string, maxRetries int, baseDelay time.Duration, logger *zap.Logger) *GCSUploader {
	return &GCSUploader{
		bucket: client.Bucket(bucket),
		retry: &utils.RetryConfig{
			MaxAttempts: maxRetries,
			BaseDelay:   baseDelay,
			Logger:      logger,
		},
		logger: logger,
	}
}

// Upload streams the local file to the named object.
func (u *GCSUploader) Upload(ctx context.Context, objectName, localPath string) error {
	var f *os.File
	err := u.retry.Do(ctx, "open training file for upload", func() error {
		var openErr error
		f, openErr = os.Open(localPath)
		return openErr
	})
	if err != nil {
		return fmt.Errorf("blob: open %q: %w", localPath, err)
	}
	defer f.Close()

	w := u.bucket.Object(objectName).NewWriter(ctx)
	if _, err := io.Copy(w, f); err != nil {
		_ = w.Close()
		return fmt.Errorf("blob: write object %q: %w", objectName, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("blob: finalize object %q: %w", objectName, err)
	}

	u.logger.Info("uploaded training file",
		zap.String("object", objectName), zap.String("source", localPath))
	return nil
}

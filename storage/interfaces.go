package storage

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	"carline-cleanup/models"
)

// SourceCursor streams raw documents from the source collection.
type SourceCursor interface {
	Next(ctx context.Context) bool
	Current() bson.Raw
	Err() error
	Close(ctx context.Context) error
}

// SourceReader is the read side of the raw listings collection.
type SourceReader interface {
	// FindFirst returns one sample document, or (nil, nil) when the
	// collection is empty.
	FindFirst(ctx context.Context) (bson.Raw, error)
	Stream(ctx context.Context) (SourceCursor, error)
}

// CleanedStore is the operational sink. InsertBatch is insert-only: duplicate
// urls are silently ignored and the count of genuinely new documents is
// returned.
type CleanedStore interface {
	EnsureURLIndex(ctx context.Context) error
	InsertBatch(ctx context.Context, docs []bson.D) (int64, error)
}

// IndexSummary reports the per-document outcomes of one create-only batch.
type IndexSummary struct {
	Created       int64
	AlreadyExists int64
	Failed        int64
}

// SearchStore is the best-effort search sink. CreateOnly never returns an
// error; failures land in the summary and in the logs.
type SearchStore interface {
	EnsureIndex(ctx context.Context) error
	CreateOnly(ctx context.Context, docs []models.CarDocument) IndexSummary
}

// BlobUploader persists the finished training file.
type BlobUploader interface {
	Upload(ctx context.Context, objectName, localPath string) error
}

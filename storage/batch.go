package storage

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"carline-cleanup/models"
)

// InsertBatch assembles insert-only documents for the cleaned collection.
// Documents accumulate until the orchestrator flushes and resets the batch.
type InsertBatch struct {
	docs []bson.D
	now  func() time.Time
}

// NewInsertBatch creates an empty batch.
func NewInsertBatch() *InsertBatch {
	return &InsertBatch{now: func() time.Time { return time.Now().UTC() }}
}

// TryAdd builds a cleaned document from the full field view and appends it to
// the batch. It returns the record's url so the caller can correlate the
// matching search document. A record that filters down to nothing, or has no
// url, is unusable and is not queued.
func (b *InsertBatch) TryAdd(fullRecord map[string]string) (string, bool) {
	doc := make(bson.D, 0, len(models.WebDisplayFields)+4)
	for _, key := range models.WebDisplayFields {
		if val, ok := fullRecord[key]; ok && strings.TrimSpace(val) != "" {
			doc = append(doc, bson.E{Key: key, Value: val})
		}
	}

	if len(doc) == 0 {
		return "", false
	}

	url := fullRecord["url"]
	if strings.TrimSpace(url) == "" {
		return "", false
	}

	// Insert-only: if url exists, the unique index rejects the document with
	// E11000 and the repository swallows the duplicate.
	now := b.now()
	doc = append(doc,
		bson.E{Key: "url", Value: url},
		bson.E{Key: "first_seen", Value: now},
		bson.E{Key: "last_seen", Value: now},
		bson.E{Key: "status", Value: "ACTIVE"},
	)

	b.docs = append(b.docs, doc)
	return url, true
}

// Len returns the number of queued documents.
func (b *InsertBatch) Len() int { return len(b.docs) }

// Docs returns the queued documents.
func (b *InsertBatch) Docs() []bson.D { return b.docs }

// Reset empties the batch after a flush.
func (b *InsertBatch) Reset() { b.docs = b.docs[:0] }

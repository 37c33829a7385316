package storage

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoStore reads the raw source collection and writes the cleaned one.
type MongoStore struct {
	source  *mongo.Collection
	cleaned *mongo.Collection
	logger  *zap.Logger
}

// NewMongoStore binds the store to the source and cleaned collections.
func NewMongoStore(client *mongo.Client, database, sourceColl, cleanedColl string, logger *zap.Logger) *MongoStore {
	db := client.Database(database)
	return &MongoStore{
		source:  db.Collection(sourceColl),
		cleaned: db.Collection(cleanedColl),
		logger:  logger,
	}
}

// FindFirst returns one sample source document, or (nil, nil) when the
// collection is empty.
func (s *MongoStore) FindFirst(ctx context.Context) (bson.Raw, error) {
	raw, err := s.source.FindOne(ctx, bson.D{}).Raw()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("mongo: find first source document: %w", err)
	}
	return raw, nil
}

// Stream opens an unordered cursor over the whole source collection.
func (s *MongoStore) Stream(ctx context.Context) (SourceCursor, error) {
	cur, err := s.source.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("mongo: open source cursor: %w", err)
	}
	return &mongoCursor{cur}, nil
}

type mongoCursor struct {
	*mongo.Cursor
}

func (c *mongoCursor) Current() bson.Raw { return c.Cursor.Current }

// EnsureURLIndex creates the unique sparse index on url. The index is the
// mechanism behind insert-only semantics, so anything but "already exists"
// is a hard error.
func (s *MongoStore) EnsureURLIndex(ctx context.Context) error {
	model := mongo.IndexModel{
		Keys: bson.D{{Key: "url", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetSparse(true).
			SetName("idx_url_unique"),
	}

	_, err := s.cleaned.Indexes().CreateOne(ctx, model)
	if err != nil {
		var cmdErr mongo.CommandError
		if errors.As(err, &cmdErr) &&
			(cmdErr.Name == "IndexOptionsConflict" || cmdErr.Name == "IndexKeySpecsConflict") {
			s.logger.Info("index on url already exists")
			return nil
		}
		return fmt.Errorf("mongo: create unique url index: %w", err)
	}

	s.logger.Info("ensured unique index on url field")
	return nil
}

// InsertBatch bulk-inserts the batch unordered. Duplicate urls error with
// E11000 but the remaining inserts proceed; when every write error is a
// duplicate key the batch counts as a success and only genuinely new
// documents are reported.
func (s *MongoStore) InsertBatch(ctx context.Context, docs []bson.D) (int64, error) {
	if len(docs) == 0 {
		return 0, nil
	}

	writes := make([]mongo.WriteModel, len(docs))
	for i, doc := range docs {
		writes[i] = mongo.NewInsertOneModel().SetDocument(doc)
	}

	res, err := s.cleaned.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))
	if err != nil {
		var bwe mongo.BulkWriteException
		if errors.As(err, &bwe) && allDuplicateKeys(bwe) {
			if res != nil {
				return res.InsertedCount, nil
			}
			return int64(len(docs) - len(bwe.WriteErrors)), nil
		}
		return 0, fmt.Errorf("mongo: bulk insert: %w", err)
	}

	return res.InsertedCount, nil
}

func allDuplicateKeys(bwe mongo.BulkWriteException) bool {
	if len(bwe.WriteErrors) == 0 {
		return false
	}
	for _, we := range bwe.WriteErrors {
		if !isDuplicateKeyCode(we.Code) {
			return false
		}
	}
	return true
}

// 11000/11001 are the classic duplicate key codes, 12582 the legacy shard one.
func isDuplicateKeyCode(code int) bool {
	return code == 11000 || code == 11001 || code == 12582
}

package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/elastic/go-elasticsearch/v8"
	"go.uber.org/zap"

	"carline-cleanup/models"
	"carline-cleanup/utils"
)

const carsIndexMapping = `{
  "mappings": {
    "properties": {
      "url":                      { "type": "keyword" },
      "manufacturer":             { "type": "text", "fields": { "keyword": { "type": "keyword" } } },
      "model":                    { "type": "text", "fields": { "keyword": { "type": "keyword" } } },
      "year":                     { "type": "integer" },
      "status":                   { "type": "keyword" },
      "price":                    { "type": "float" },
      "odometer":                 { "type": "integer" },
      "transmission":             { "type": "keyword" },
      "condition":                { "type": "keyword" },
      "fuel":                     { "type": "keyword" },
      "type":                     { "type": "keyword" },
      "region":                   { "type": "text", "fields": { "keyword": { "type": "keyword" } } },
      "image_url":                { "type": "keyword" },
      "vin":                      { "type": "keyword" },
      "paint_color":              { "type": "keyword" },
      "posting_date":             { "type": "date" },
      "first_seen":               { "type": "date" },
      "last_seen":                { "type": "date" },
      "price_classification":     { "type": "keyword" },
      "predicted_price":          { "type": "float" },
      "price_difference_percent": { "type": "float" },
      "classification_date":      { "type": "date" }
    }
  }
}`

// ElasticIndexer performs best-effort create-only indexing of cleaned car
// documents. It never propagates per-document failures; the search sink is an
// independent failure domain from the operational store.
type ElasticIndexer struct {
	client      *elasticsearch.Client
	index       string
	concurrency int
	logger      *zap.Logger
}

// NewElasticIndexer creates an indexer for the given index with the given
// concurrency cap per batch.
func NewElasticIndexer(client *elasticsearch.Client, index string, concurrency int, logger *zap.Logger) *ElasticIndexer {
	return &ElasticIndexer{
		client:      client,
		index:       index,
		concurrency: concurrency,
		logger:      logger,
	}
}

// EnsureIndex creates the index with its field mappings if it does not exist.
func (e *ElasticIndexer) EnsureIndex(ctx context.Context) error {
	res, err := e.client.Indices.Exists(
		[]string{e.index},
		e.client.Indices.Exists.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch: check index %q: %w", e.index, err)
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
	default:
		return fmt.Errorf("elasticsearch: unexpected exists status %d for index %q", res.StatusCode, e.index)
	}

	createRes, err := e.client.Indices.Create(
		e.index,
		e.client.Indices.Create.WithBody(strings.NewReader(carsIndexMapping)),
		e.client.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch: create index %q: %w", e.index, err)
	}
	defer createRes.Body.Close()

	if createRes.IsError() {
		// A concurrent creator beat us to it; that is the state we wanted.
		if strings.Contains(createRes.String(), "resource_already_exists_exception") {
			return nil
		}
		return fmt.Errorf("elasticsearch: create index %q: %s", e.index, createRes.String())
	}

	e.logger.Info("created search index", zap.String("index", e.index))
	return nil
}

// CreateOnly indexes a batch with bounded concurrency. A 409 means the
// document already exists, which is exactly what insert-only mode expects.
// Outcome counters are atomic; they are the only state shared between the
// indexing goroutines.
func (e *ElasticIndexer) CreateOnly(ctx context.Context, docs []models.CarDocument) IndexSummary {
	if len(docs) == 0 {
		return IndexSummary{}
	}

	var created, alreadyExists, failed int64

	pool := utils.NewWorkerPool(e.concurrency, 0)
	for _, doc := range docs {
		doc := doc
		pool.Submit(func() {
			switch e.createDocument(ctx, doc) {
			case outcomeCreated:
				atomic.AddInt64(&created, 1)
			case outcomeExists:
				atomic.AddInt64(&alreadyExists, 1)
			default:
				atomic.AddInt64(&failed, 1)
			}
		})
	}
	pool.Wait()

	summary := IndexSummary{
		Created:       atomic.LoadInt64(&created),
		AlreadyExists: atomic.LoadInt64(&alreadyExists),
		Failed:        atomic.LoadInt64(&failed),
	}

	e.logger.Info("elasticsearch create-only summary",
		zap.Int64("created", summary.Created),
		zap.Int64("already_existed", summary.AlreadyExists),
		zap.Int64("failed", summary.Failed))

	return summary
}

type indexOutcome int

const (
	outcomeCreated indexOutcome = iota
	outcomeExists
	outcomeFailed
)

func (e *ElasticIndexer) createDocument(ctx context.Context, doc models.CarDocument) indexOutcome {
	body, err := json.Marshal(doc)
	if err != nil {
		e.logger.Error("failed to serialize search document",
			zap.String("url", doc.URL), zap.Error(err))
		return outcomeFailed
	}

	res, err := e.client.Create(
		e.index,
		doc.URL,
		bytes.NewReader(body),
		e.client.Create.WithContext(ctx),
	)
	if err != nil {
		e.logger.Error("elasticsearch create failed",
			zap.String("url", doc.URL), zap.Error(err))
		return outcomeFailed
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusConflict:
		return outcomeExists
	case res.IsError():
		e.logger.Error("elasticsearch create failed",
			zap.String("url", doc.URL), zap.String("response", res.String()))
		return outcomeFailed
	default:
		return outcomeCreated
	}
}
